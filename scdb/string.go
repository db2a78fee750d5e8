// Copyright (c) 2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package scdb

import (
	"fmt"
	"strings"

	"github.com/drivechain-project/scdb/sidechain"
)

// String returns a human-readable dump of every registered sidechain's
// currently tracked proposals and their work scores. It is intended for
// debugging and log output, not for consensus or wire use.
func (s *SCDB) String() string {
	var b strings.Builder
	b.WriteString("SCDB:\n")

	for i := range sidechain.Registry {
		params := sidechain.Registry[i]
		fmt.Fprintf(&b, "sidechain: %s\n", params.Name)

		states, err := s.GetState(params.ID)
		if err != nil {
			continue
		}
		for _, st := range states {
			fmt.Fprintf(&b, "  wt^: %s workscore: %d blocksleft: %d phase: %s\n",
				st.ProposalID, st.WorkScore, st.BlocksLeft, st.Phase(params.MinWorkScore))
		}
		b.WriteString("\n")
	}

	return b.String()
}
