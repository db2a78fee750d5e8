// Copyright (c) 2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package scop

import "fmt"

// minScriptLen is the shortest header a candidate state script must carry
// to be considered for version recognition: OP_RETURN, version,
// versionDelim.
const minScriptLen = 3

// minValidScriptLen is the shortest a script may be and still be
// considered for decoding. Below this length there is no room for any
// vote byte after the header.
const minValidScriptLen = 4

// HasVersionHeader reports whether script begins with OP_RETURN followed
// by this package's version byte and version delimiter. It does not
// validate the remainder of the script.
func HasVersionHeader(script []byte) bool {
	return len(script) >= minScriptLen &&
		script[0] == opReturn &&
		script[1] == version &&
		script[2] == versionDelim
}

// Encode produces the canonical state script, starting with the
// OP_RETURN/version/versionDelim header, for the given per-sidechain
// vote sequences, in registry order. votes[i] holds one Vote per proposal tracked for the i-th
// registry sidechain, in first-seen order.
//
// Within each sidechain's run, proposals are separated by wtDelim;
// sidechain runs are separated by scDelim. There is no trailing
// delimiter of either kind. A sidechain with no proposals contributes an
// empty run.
func Encode(votes [][]Vote) ([]byte, error) {
	out := []byte{opReturn, version, versionDelim}

	for x, run := range votes {
		for y, v := range run {
			b, err := voteToByte(v)
			if err != nil {
				return nil, err
			}
			out = append(out, b)

			if y != len(run)-1 {
				out = append(out, wtDelim)
			}
		}
		if x != len(votes)-1 {
			out = append(out, scDelim)
		}
	}
	return out, nil
}

// Decode walks a candidate state script's payload (including the
// OP_RETURN/version/versionDelim header) and returns the vote applied to
// every (sidechain, proposal) position it is able to locate.
//
// shape[i] is the number of proposals currently tracked for the i-th
// registry sidechain; it bounds the decoder so that a script cannot
// address a sidechain or proposal slot that does not exist. Bytes that
// are not one of the three vote bytes or two delimiter bytes are
// silently skipped, matching the wire format's tolerance for incidental
// payload bytes.
//
// Decode returns one Update per applied vote, in the order encountered.
// It fails if the script is too short, if the sidechain index walks past
// the end of shape, or if the proposal index walks past the end of the
// current sidechain's proposal list.
func Decode(script []byte, shape []int) ([]Update, error) {
	if len(script) < minValidScriptLen {
		return nil, fmt.Errorf("scop: script too short (%d bytes)", len(script))
	}

	var updates []Update
	sidechainIdx := 0
	proposalIdx := 0

	for i := minScriptLen; i < len(script); i++ {
		b := script[i]

		switch b {
		case wtDelim:
			proposalIdx++
			continue
		case scDelim:
			proposalIdx = 0
			sidechainIdx++
			continue
		}

		vote, ok := byteToVote(b)
		if !ok {
			// Unrecognised byte: skip it.
			continue
		}

		if sidechainIdx >= len(shape) {
			return nil, fmt.Errorf("scop: sidechain index %d out of range (have %d)", sidechainIdx, len(shape))
		}
		if proposalIdx >= shape[sidechainIdx] {
			return nil, fmt.Errorf("scop: proposal index %d out of range for sidechain %d (have %d)",
				proposalIdx, sidechainIdx, shape[sidechainIdx])
		}

		updates = append(updates, Update{
			SidechainIndex: sidechainIdx,
			ProposalIndex:  proposalIdx,
			Vote:           vote,
		})
	}
	return updates, nil
}

// Update names a single (sidechain, proposal) position addressed by a
// decoded state script and the vote applied to it.
type Update struct {
	SidechainIndex int
	ProposalIndex  int
	Vote           Vote
}

// DecodeVotes decodes script and reassembles it into the same [][]Vote
// shape that Encode accepts, defaulting unaddressed positions to Ignore.
// It exists so that round-tripping a script the engine produced itself
// (which always addresses every position exactly once) recovers the
// exact vote sequence that was encoded.
func DecodeVotes(script []byte, shape []int) ([][]Vote, error) {
	updates, err := Decode(script, shape)
	if err != nil {
		return nil, err
	}

	votes := make([][]Vote, len(shape))
	for i, n := range shape {
		votes[i] = make([]Vote, n)
		for j := range votes[i] {
			votes[i][j] = Ignore
		}
	}
	for _, u := range updates {
		votes[u.SidechainIndex][u.ProposalIndex] = u.Vote
	}
	return votes, nil
}
