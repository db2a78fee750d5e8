// Copyright (c) 2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package scdb

import (
	"github.com/drivechain-project/scdb/scop"
	"github.com/drivechain-project/scdb/sidechain"
)

// CreateStateScript builds the canonical state script that the next
// block's coinbase must embed, voting to verify the best-scoring pending
// proposal for every sidechain that currently has one.
//
// Merged-mining policy is fixed: the vote cast is
// always "upvote the best-scoring pending proposal, reject every other
// pending proposal." During a sidechain's wait period every one of its
// proposals is voted Ignore regardless of score.
//
// If no sidechain is tracking any proposal, CreateStateScript returns an
// empty byte slice rather than a bare version header.
func (s *SCDB) CreateStateScript(height int32) ([]byte, error) {
	if !s.hasState() {
		return nil, nil
	}

	votes := make([][]scop.Vote, sidechain.Count())
	for i := range sidechain.Registry {
		params := sidechain.Registry[i]
		states, err := s.GetState(params.ID)
		if err != nil {
			return nil, err
		}

		run := make([]scop.Vote, len(states))
		if params.InWaitPeriod(height) {
			for y := range states {
				run[y] = scop.Ignore
			}
		} else {
			best := bestIndex(states)
			for y := range states {
				if y == best {
					run[y] = scop.Verify
				} else {
					run[y] = scop.Reject
				}
			}
		}
		votes[i] = run
	}

	return scop.Encode(votes)
}

// bestIndex returns the index, within states, of the entry with the
// highest work score, breaking ties by first-seen order (the earliest
// index encountered wins). It returns -1 if states is empty.
func bestIndex(states []ProposalState) int {
	if len(states) == 0 {
		return -1
	}
	best := 0
	for y := 1; y < len(states); y++ {
		if states[y].WorkScore > states[best].WorkScore {
			best = y
		}
	}
	return best
}
