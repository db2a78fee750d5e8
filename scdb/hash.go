// Copyright (c) 2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package scdb

import (
	"bytes"
	"encoding/binary"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/drivechain-project/scdb/sidechain"
)

// hashDomainTag domain-separates the canonical SCDB state hash from any
// other hash computed over similarly-shaped byte strings elsewhere in the
// host chain (block hashes, merkle nodes, wtxids). It is hashed in ahead
// of the serialized state exactly once, never per-sidechain.
var hashDomainTag = []byte("scdb/state/v1")

// ScdbHash returns the canonical hash of the current SCDB state: the
// domain tag followed by, for every sidechain that is tracking at least
// one proposal, the most recently appended ProposalState in that
// sidechain's sequence, serialized as
//
//	u8 sidechain id || u16-LE blocks_left || u16-LE work_score || proposal_id
//
// in ascending sidechain id order. Sidechains tracking no proposal
// contribute nothing to the hash.
func (s *SCDB) ScdbHash() (chainhash.Hash, error) {
	var buf bytes.Buffer
	buf.Write(hashDomainTag)

	for i := range s.proposals {
		seq := s.proposals[i]
		if len(seq) == 0 {
			continue
		}
		last := seq[len(seq)-1]

		buf.WriteByte(byte(sidechain.ID(i)))
		if err := binary.Write(&buf, binary.LittleEndian, last.BlocksLeft); err != nil {
			return chainhash.Hash{}, scdbError(ErrIO, "failed to serialize state for hashing", err)
		}
		if err := binary.Write(&buf, binary.LittleEndian, last.WorkScore); err != nil {
			return chainhash.Hash{}, scdbError(ErrIO, "failed to serialize state for hashing", err)
		}
		buf.Write(last.ProposalID[:])
	}

	return chainhash.DoubleHashH(buf.Bytes()), nil
}
