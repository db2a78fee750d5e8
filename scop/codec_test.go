// Copyright (c) 2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package scop

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHasVersionHeader(t *testing.T) {
	require.True(t, HasVersionHeader([]byte{opReturn, version, versionDelim}))
	require.True(t, HasVersionHeader([]byte{opReturn, version, versionDelim, voteVerify}))
	require.False(t, HasVersionHeader([]byte{opReturn, version}))
	require.False(t, HasVersionHeader([]byte{opReturn, 0x99, versionDelim}))
	require.False(t, HasVersionHeader(nil))
}

func TestEncodeEmpty(t *testing.T) {
	// E1: no proposals anywhere -> header only, three empty runs
	// separated by two scDelims.
	out, err := Encode([][]Vote{{}, {}, {}})
	require.NoError(t, err)
	require.Equal(t, []byte{opReturn, version, versionDelim, scDelim, scDelim}, out)
}

func TestEncodeE3_OneProposalEachSidechain(t *testing.T) {
	out, err := Encode([][]Vote{{Verify}, {Verify}, {Verify}})
	require.NoError(t, err)
	want := []byte{opReturn, version, versionDelim, voteVerify, scDelim, voteVerify, scDelim, voteVerify}
	require.Equal(t, want, out)
}

func TestEncodeE4_ThreeProposalsEachFirstWins(t *testing.T) {
	run := []Vote{Verify, Reject, Reject}
	out, err := Encode([][]Vote{run, run, run})
	require.NoError(t, err)

	oneRun := []byte{voteVerify, wtDelim, voteReject, wtDelim, voteReject}
	var want []byte
	want = append(want, opReturn, version, versionDelim)
	want = append(want, oneRun...)
	want = append(want, scDelim)
	want = append(want, oneRun...)
	want = append(want, scDelim)
	want = append(want, oneRun...)
	require.Equal(t, want, out)
}

func TestEncodeE5_VariableProposalCounts(t *testing.T) {
	out, err := Encode([][]Vote{
		{Verify},
		{Reject, Verify},
		{Reject, Verify, Reject},
	})
	require.NoError(t, err)

	var want []byte
	want = append(want, opReturn, version, versionDelim)
	want = append(want, voteVerify, scDelim)
	want = append(want, voteReject, wtDelim, voteVerify, scDelim)
	want = append(want, voteReject, wtDelim, voteVerify, wtDelim, voteReject)
	require.Equal(t, want, out)
}

func TestEncodeE6_WinnerPositionVaries(t *testing.T) {
	cases := []struct {
		name string
		run  []Vote
	}{
		{"winner at 0", []Vote{Verify, Reject, Reject}},
		{"winner at 1", []Vote{Reject, Verify, Reject}},
		{"winner at 2", []Vote{Reject, Reject, Verify}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			out, err := Encode([][]Vote{c.run})
			require.NoError(t, err)

			var want []byte
			want = append(want, opReturn, version, versionDelim)
			want = append(want, byteOf(t, c.run[0]), wtDelim, byteOf(t, c.run[1]), wtDelim, byteOf(t, c.run[2]))
			require.Equal(t, want, out)
		})
	}
}

func byteOf(t *testing.T, v Vote) byte {
	b, err := voteToByte(v)
	require.NoError(t, err)
	return b
}

func TestDecodeShortScriptInvalid(t *testing.T) {
	_, err := Decode([]byte{opReturn, version, versionDelim}, []int{1})
	require.Error(t, err)
}

func TestDecodeSkipsUnrecognisedBytes(t *testing.T) {
	script := []byte{opReturn, version, versionDelim, 0xFF, voteVerify}
	updates, err := Decode(script, []int{1})
	require.NoError(t, err)
	require.Len(t, updates, 1)
	require.Equal(t, Verify, updates[0].Vote)
}

func TestDecodeOutOfRangeSidechainFails(t *testing.T) {
	script := []byte{opReturn, version, versionDelim, scDelim, voteVerify}
	_, err := Decode(script, []int{1})
	require.Error(t, err)
}

func TestDecodeOutOfRangeProposalFails(t *testing.T) {
	script := []byte{opReturn, version, versionDelim, voteVerify, wtDelim, voteVerify}
	_, err := Decode(script, []int{1})
	require.Error(t, err)
}

// RoundTrip property: encode(decode(script)) == script for scripts
// produced by Encode itself. A lone empty run encodes to the bare
// 3-byte header, which Decode rejects as too short, so empty runs are
// exercised alongside other runs.
func TestRoundTrip(t *testing.T) {
	for _, shapes := range [][]int{{0, 1}, {1}, {3}, {1, 2, 3}, {0, 0, 0}} {
		votes := make([][]Vote, len(shapes))
		vi := Verify
		for i, n := range shapes {
			run := make([]Vote, n)
			for j := range run {
				run[j] = vi
				if vi == Verify {
					vi = Reject
				} else if vi == Reject {
					vi = Ignore
				} else {
					vi = Verify
				}
			}
			votes[i] = run
		}

		script, err := Encode(votes)
		require.NoError(t, err)

		shape := make([]int, len(votes))
		for i, r := range votes {
			shape[i] = len(r)
		}

		decoded, err := DecodeVotes(script, shape)
		require.NoError(t, err)
		require.Equal(t, votes, decoded)

		reencoded, err := Encode(decoded)
		require.NoError(t, err)
		require.Equal(t, script, reencoded)
	}
}
