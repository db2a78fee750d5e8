// Copyright (c) 2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package scdb

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/drivechain-project/scdb/sidechain"
)

// ProposalState is one snapshot of a withdrawal bundle's voting progress.
// The SCDB stores one of these per applied vote; queries collapse a
// proposal's sequence of states down to its latest record.
type ProposalState struct {
	// Sidechain is the proposal's owning sidechain.
	Sidechain sidechain.ID

	// ProposalID is the withdrawal bundle's transaction hash.
	ProposalID chainhash.Hash

	// BlocksLeft counts down from the sidechain's tau on admission.
	// It is monotonically non-increasing within a tau and never goes
	// below zero.
	BlocksLeft uint16

	// WorkScore is the proposal's accumulated support. It is
	// incremented by Verify votes and decremented (clamped at zero) by
	// Reject votes. There is no declared upper bound; it saturates at
	// the maximum uint16 value rather than wrapping.
	WorkScore uint16
}

// Deposit is a sidechain-bound deposit discovered in a connected block's
// transactions.
type Deposit struct {
	Sidechain       sidechain.ID
	RecipientKeyID  [20]byte
	SerializedTxHex string
}

// Equal reports whether d and other carry the same
// (sidechain, key id, hex) triple, the deduplication key for deposits.
func (d Deposit) Equal(other Deposit) bool {
	return d.Sidechain == other.Sidechain &&
		d.RecipientKeyID == other.RecipientKeyID &&
		d.SerializedTxHex == other.SerializedTxHex
}

// ProposalPhase classifies a proposal's standing within its current tau.
type ProposalPhase int

const (
	// PhaseTracking means the proposal's work score has not yet
	// reached its sidechain's verification threshold.
	PhaseTracking ProposalPhase = iota

	// PhaseVerified means the proposal's work score currently meets or
	// exceeds its sidechain's verification threshold. A later
	// downvote can move a proposal back to PhaseTracking within the
	// same tau.
	PhaseVerified

	// PhaseExpired means the proposal ran out of blocks without ever
	// reaching PhaseVerified. Expired is terminal within the tau; all
	// phases collapse to absent at the next tau rollover.
	PhaseExpired
)

// Phase classifies state against the min-work-score threshold m.
func (s ProposalState) Phase(m uint16) ProposalPhase {
	switch {
	case s.WorkScore >= m:
		return PhaseVerified
	case s.BlocksLeft == 0:
		return PhaseExpired
	default:
		return PhaseTracking
	}
}

// String implements fmt.Stringer.
func (p ProposalPhase) String() string {
	switch p {
	case PhaseTracking:
		return "tracking"
	case PhaseVerified:
		return "verified"
	case PhaseExpired:
		return "expired"
	default:
		return fmt.Sprintf("unknown phase (%d)", int(p))
	}
}
