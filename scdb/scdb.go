// Copyright (c) 2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package scdb implements the sidechain state database: the
// consensus-adjacent structure that tracks pending withdrawal-bundle
// proposals from the sidechains in the sidechain package's registry,
// accumulates per-block work-score votes encoded inside coinbase
// transactions via package scop, and decides when a bundle has
// accumulated enough support to be paid out.
//
// SCDB is a single-threaded cooperative data structure (see the package
// doc on SCDB for the concurrency contract): Update is the only mutator
// during normal operation, and must not be called concurrently with any
// read accessor.
package scdb

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/drivechain-project/scdb/scop"
	"github.com/drivechain-project/scdb/sidechain"
)

// MaxLinkingData bounds the number of BMM-LD entries retained at once.
// The reference implementation this package is modeled on leaves this
// value externally configured; we fix it here as a concrete, documented
// bound (see DESIGN.md).
const MaxLinkingData = 100

// SCDB is the sidechain state database. The zero value is not usable;
// construct one with New.
//
// SCDB takes no internal lock. Update is the only mutator and must be
// called at most once per connected block by the host node; read
// accessors must not be called concurrently with Update. Callers that
// need concurrent reads should wrap an SCDB in an external
// single-writer, multi-reader discipline.
type SCDB struct {
	proposals [len(sidechain.Registry)][]ProposalState
	deposits  []Deposit

	// withdrawals caches the full transaction bodies of admitted
	// withdrawal bundles, keyed by position; the admission cap is
	// global across all sidechains (see AddWithdrawal).
	withdrawals []*wire.MsgTx

	bmmQueue []chainhash.Hash
	bmmMap   map[chainhash.Hash][]int32

	hashBlockLastSeen chainhash.Hash
}

// New returns an empty SCDB.
func New() *SCDB {
	return &SCDB{
		bmmMap: make(map[chainhash.Hash][]int32),
	}
}

// HashBlockLastSeen returns the hash of the most recent block Update
// processed.
func (s *SCDB) HashBlockLastSeen() chainhash.Hash {
	return s.hashBlockLastSeen
}

// hasState reports whether any sidechain is currently tracking at least
// one proposal record.
func (s *SCDB) hasState() bool {
	for i := range s.proposals {
		if len(s.proposals[i]) > 0 {
			return true
		}
	}
	return false
}

// GetState returns the collapsed latest-per-proposal view for sc: one
// record per distinct proposal ID, in first-seen order, each holding the
// highest work score that proposal has ever recorded.
func (s *SCDB) GetState(sc sidechain.ID) ([]ProposalState, error) {
	if !sidechain.Valid(sc) {
		return nil, scdbError(ErrInvalidSidechain, "unknown sidechain", nil)
	}
	return collapseStates(s.proposals[sc]), nil
}

// collapseStates reduces an append-only sequence of ProposalState
// records down to one entry per distinct proposal ID: first-seen order
// is preserved, and each entry carries the highest work score that
// proposal ever recorded in the sequence. Among records that share that
// highest score, the most recently appended one is kept.
func collapseStates(seq []ProposalState) []ProposalState {
	if len(seq) == 0 {
		return nil
	}

	best := make(map[chainhash.Hash]ProposalState, len(seq))
	var order []chainhash.Hash

	for _, v := range seq {
		cur, ok := best[v.ProposalID]
		if !ok {
			best[v.ProposalID] = v
			order = append(order, v.ProposalID)
			continue
		}
		if cur.WorkScore <= v.WorkScore {
			best[v.ProposalID] = v
		}
	}

	out := make([]ProposalState, len(order))
	for i, id := range order {
		out[i] = best[id]
	}
	return out
}

// HaveWithdrawalCached reports whether the full transaction body for
// txid is cached.
func (s *SCDB) HaveWithdrawalCached(txid chainhash.Hash) bool {
	for _, tx := range s.withdrawals {
		if tx.TxHash() == txid {
			return true
		}
	}
	return false
}

// AddWithdrawal attempts to admit tx as a new withdrawal bundle (WT^)
// proposal for sc. It succeeds only if sc is a registered sidechain, the
// global count of cached withdrawal transactions is strictly below
// sidechain.MaxWithdrawals, and tx's hash is not already cached.
//
// On success an initial ProposalState with BlocksLeft equal to sc's tau
// and WorkScore zero is appended to sc's sequence, and tx is cached for
// later materialization via GetWithdrawalTx.
func (s *SCDB) AddWithdrawal(sc sidechain.ID, tx *wire.MsgTx) (bool, error) {
	params, err := sidechain.Lookup(sc)
	if err != nil {
		return false, scdbError(ErrInvalidSidechain, "unknown sidechain", err)
	}
	if len(s.withdrawals) >= sidechain.MaxWithdrawals {
		return false, scdbError(ErrAdmissionRefused, "withdrawal cache is full", nil)
	}

	txid := tx.TxHash()
	if s.HaveWithdrawalCached(txid) {
		return false, scdbError(ErrAdmissionRefused, "withdrawal already cached", nil)
	}

	s.proposals[sc] = append(s.proposals[sc], ProposalState{
		Sidechain:  sc,
		ProposalID: txid,
		BlocksLeft: params.Tau(),
		WorkScore:  0,
	})
	s.withdrawals = append(s.withdrawals, tx)

	log.Debugf("admitted withdrawal %v for %v", txid, params.Name)
	return true, nil
}

// BestProposal returns the highest work-score proposal currently tracked
// for sc, breaking ties by first-seen order. ok is false if sc tracks no
// proposals.
func (s *SCDB) BestProposal(sc sidechain.ID) (state ProposalState, ok bool) {
	states, err := s.GetState(sc)
	if err != nil || len(states) == 0 {
		return ProposalState{}, false
	}

	best := states[0]
	for _, v := range states[1:] {
		if v.WorkScore > best.WorkScore {
			best = v
		}
	}
	return best, true
}

// CheckWorkScore reports whether wtxid's latest work score for sc meets
// or exceeds sc's verification threshold. An unknown proposal reports
// false.
func (s *SCDB) CheckWorkScore(sc sidechain.ID, wtxid chainhash.Hash) bool {
	params, err := sidechain.Lookup(sc)
	if err != nil {
		return false
	}

	states, err := s.GetState(sc)
	if err != nil {
		return false
	}
	for _, v := range states {
		if v.ProposalID == wtxid {
			return v.WorkScore >= params.MinWorkScore
		}
	}
	return false
}

// ApplyVote applies a single vote to proposalID's current latest state
// within sc, appending the resulting successor state to sc's sequence.
// It is the addressed, single-proposal primitive that applyStateScript
// drives over every update a decoded state script names; host code that
// wants to cast a vote outside of a coinbase-driven Update (tooling,
// tests, alternative merged-mining policies) can call it directly.
//
// It returns an error if sc is not a registered sidechain or proposalID
// is not currently tracked by sc.
func (s *SCDB) ApplyVote(sc sidechain.ID, proposalID chainhash.Hash, vote scop.Vote) error {
	if !sidechain.Valid(sc) {
		return scdbError(ErrInvalidSidechain, "unknown sidechain", nil)
	}

	for _, old := range collapseStates(s.proposals[sc]) {
		if old.ProposalID != proposalID {
			continue
		}
		next := applyVoteToState(old, vote)
		s.proposals[sc] = append(s.proposals[sc], next)
		return nil
	}
	return scdbError(ErrUnknownProposal, "proposal not tracked", nil)
}

// applyVoteToState computes the successor state for applying vote to
// old: BlocksLeft decrements by one, clamped at zero; WorkScore
// increments (saturating) on Verify, decrements (clamped at zero) on
// Reject, and is unchanged on Ignore.
func applyVoteToState(old ProposalState, vote scop.Vote) ProposalState {
	next := old

	if next.BlocksLeft > 0 {
		next.BlocksLeft--
	}

	switch vote {
	case scop.Verify:
		if next.WorkScore < ^uint16(0) {
			next.WorkScore++
		}
	case scop.Reject:
		if next.WorkScore > 0 {
			next.WorkScore--
		}
	}
	return next
}

// applyStateScript runs the decoder over script against a snapshot of
// every sidechain's current collapsed proposal list. If dryRun is false,
// every addressed proposal's successor state is appended to its
// sidechain's sequence via ApplyVote. A decode failure during the dry
// run is reported as ErrDryRunFailed (the script is infeasible against
// the current shape and nothing has been mutated yet); the same failure
// during the apply pass is reported as ErrMalformedScript, since it
// means the snapshot shifted out from under an already-accepted script.
func (s *SCDB) applyStateScript(script []byte, snapshot [][]ProposalState, dryRun bool) error {
	shape := make([]int, len(snapshot))
	for i, states := range snapshot {
		shape[i] = len(states)
	}

	updates, err := scop.Decode(script, shape)
	if err != nil {
		if dryRun {
			return scdbError(ErrDryRunFailed, "state script rejected during feasibility check", err)
		}
		return scdbError(ErrMalformedScript, "could not decode state script", err)
	}

	if dryRun {
		return nil
	}

	for _, u := range updates {
		old := snapshot[u.SidechainIndex][u.ProposalIndex]
		if err := s.ApplyVote(old.Sidechain, old.ProposalID, u.Vote); err != nil {
			return err
		}
	}
	return nil
}

// applyDefaultUpdate applies a virtual Ignore vote to every proposal
// currently tracked by every sidechain: BlocksLeft decrements, WorkScore
// is unchanged. It is the recovery path used whenever a coinbase cannot
// be interpreted unambiguously (see Update).
func (s *SCDB) applyDefaultUpdate() {
	for i := range s.proposals {
		sc := sidechain.ID(i)
		states := collapseStates(s.proposals[i])
		for _, old := range states {
			next := applyVoteToState(old, scop.Ignore)
			s.proposals[sc] = append(s.proposals[sc], next)
		}
	}
}

// readStateScript scans coinbase's outputs for candidate state scripts:
// those beginning with OP_RETURN, at least 3 bytes long, carrying this
// package's version header. If exactly one candidate is found, it is
// decoded and applied via the dry-run/apply two-phase pattern; if that
// succeeds, true is returned. In every other case (zero or multiple
// candidates, or a dry run failure) the default update is applied and
// false is returned.
func (s *SCDB) readStateScript(coinbase *wire.MsgTx) bool {
	var candidates [][]byte
	for _, out := range coinbase.TxOut {
		script := out.PkScript
		if scop.HasVersionHeader(script) {
			candidates = append(candidates, script)
		}
	}

	if len(candidates) != 1 {
		s.applyDefaultUpdate()
		return false
	}

	snapshot := make([][]ProposalState, sidechain.Count())
	for i := range snapshot {
		snapshot[i], _ = s.GetState(sidechain.ID(i))
	}

	script := candidates[0]
	if err := s.applyStateScript(script, snapshot, true /* dryRun */); err != nil {
		log.Debugf("state script dry run failed, applying default update: %v", err)
		s.applyDefaultUpdate()
		return false
	}
	if err := s.applyStateScript(script, snapshot, false /* dryRun */); err != nil {
		// The apply pass cannot fail once the dry run succeeded
		// against the same snapshot, but fall back defensively
		// rather than leave the block half-processed.
		log.Warnf("state script apply failed after a successful dry run: %v", err)
		s.applyDefaultUpdate()
		return false
	}
	return true
}

// Update is the sole entry point for advancing the SCDB by one
// connected block. It resets any sidechain whose tau boundary height
// just passed, applies the block's state script (or a default update if
// none is unambiguously present), ingests BMM-LD from the coinbase and
// deposits from blockTxs, and records blockHash as the most recently
// seen block.
func (s *SCDB) Update(height int32, blockHash chainhash.Hash, coinbase *wire.MsgTx, blockTxs []*wire.MsgTx) {
	for i := range sidechain.Registry {
		params := sidechain.Registry[i]
		tau := int32(params.Tau())
		if height > 0 && tau > 0 && height%tau == 0 {
			s.proposals[i] = nil
			s.clearDepositsForSidechain(params.ID)
		}
	}

	s.readStateScript(coinbase)
	s.ingestLinkingData(height, coinbase)

	if err := s.AddDeposits(blockTxs); err != nil {
		log.Warnf("failed to ingest deposits: %v", err)
	}

	s.hashBlockLastSeen = blockHash
}

func (s *SCDB) clearDepositsForSidechain(sc sidechain.ID) {
	kept := s.deposits[:0]
	for _, d := range s.deposits {
		if d.Sidechain != sc {
			kept = append(kept, d)
		}
	}
	s.deposits = kept
}
