// Copyright (c) 2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package scop implements the state-script codec: the compact,
// position-sensitive encoding of per-sidechain, per-proposal votes inside
// a single coinbase output script. The byte layout here is part of
// consensus and must be reproduced bit-for-bit by every node, so every
// consensus-relevant byte value is isolated in this package and nowhere
// else.
package scop

import (
	"fmt"

	"github.com/btcsuite/btcd/txscript"
)

// Vote is the tagged sum of the three things a node can say about a
// withdrawal bundle in one block.
type Vote uint8

const (
	// Verify casts an upvote: the proposal's work score increases.
	Verify Vote = iota

	// Reject casts a downvote: the proposal's work score decreases,
	// clamped at zero.
	Reject

	// Ignore casts neither an up- nor a downvote; only blocksLeft
	// decrements.
	Ignore
)

// String implements fmt.Stringer.
func (v Vote) String() string {
	switch v {
	case Verify:
		return "verify"
	case Reject:
		return "reject"
	case Ignore:
		return "ignore"
	default:
		return fmt.Sprintf("unknown vote (%d)", uint8(v))
	}
}

// Wire byte values. These are consensus-critical and must never be
// reordered or reused for anything else. They are deliberately distinct
// from each other and from opReturn/version/versionDelim.
const (
	// version identifies the wire format implemented by this package.
	version byte = 0x01

	// versionDelim terminates the version prefix.
	versionDelim byte = 0x00

	// wtDelim separates successive proposal votes within one
	// sidechain's run.
	wtDelim byte = 0xD1

	// scDelim separates successive sidechains' runs.
	scDelim byte = 0xD2

	// voteVerify, voteReject, voteIgnore are the wire encodings of the
	// three Vote values. They must not collide with opReturn, version,
	// versionDelim, wtDelim, or scDelim.
	voteVerify byte = 0xB1
	voteReject byte = 0xB2
	voteIgnore byte = 0xB3
)

// Version reports the state-script wire format version this package
// encodes and expects to decode.
func Version() byte { return version }

// opReturn is the host chain's OP_RETURN opcode. A candidate state
// script must begin with it.
const opReturn = byte(txscript.OP_RETURN)

func voteToByte(v Vote) (byte, error) {
	switch v {
	case Verify:
		return voteVerify, nil
	case Reject:
		return voteReject, nil
	case Ignore:
		return voteIgnore, nil
	default:
		return 0, fmt.Errorf("scop: invalid vote %d", uint8(v))
	}
}

func byteToVote(b byte) (Vote, bool) {
	switch b {
	case voteVerify:
		return Verify, true
	case voteReject:
		return Reject, true
	case voteIgnore:
		return Ignore, true
	default:
		return 0, false
	}
}
