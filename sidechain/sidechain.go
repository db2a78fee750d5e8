// Copyright (c) 2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package sidechain holds the compile-time registry of sidechains that are
// valid withdrawal-bundle (WT^) voting targets, along with their per-tau
// voting parameters.
package sidechain

import "fmt"

// ID identifies a sidechain within the registry. It is the single byte
// that appears immediately after OP_RETURN in a deposit's scriptPubKey
// and is used to index a sidechain's run inside a state script.
type ID uint8

// MaxWithdrawals is the maximum number of withdrawal bundles the SCDB
// caches at once, counted across all sidechains together (see
// scdb.AddWithdrawal). The count is not reset at a tau boundary.
const MaxWithdrawals = 3

// Params describes one sidechain's voting epoch shape.
type Params struct {
	// ID is the sidechain's registry index.
	ID ID

	// Name is a human-readable label, used only for logging and
	// diagnostics; it carries no consensus meaning.
	Name string

	// WaitPeriod is the number of leading blocks in a tau during which
	// votes are ignored.
	WaitPeriod uint16

	// VerificationPeriod is the number of trailing blocks in a tau
	// during which votes count toward a proposal's work score.
	VerificationPeriod uint16

	// MinWorkScore is the work score at which a proposal is considered
	// verified.
	MinWorkScore uint16
}

// Tau returns the full length of one voting epoch for the sidechain.
func (p Params) Tau() uint16 {
	return p.WaitPeriod + p.VerificationPeriod
}

// LastTauStart returns the height at which the tau containing height
// began.
func (p Params) LastTauStart(height int32) int32 {
	tau := int32(p.Tau())
	if tau == 0 {
		return height
	}
	return height - (height % tau)
}

// InWaitPeriod reports whether height falls within the wait period of the
// tau it belongs to.
func (p Params) InWaitPeriod(height int32) bool {
	return height-p.LastTauStart(height) < int32(p.WaitPeriod)
}

const (
	// Test identifies the reference test sidechain.
	Test ID = 0

	// Hivemind identifies the reference hivemind sidechain.
	Hivemind ID = 1

	// Wimble identifies the reference wimble sidechain.
	Wimble ID = 2
)

// Registry is the immutable, compile-time table of valid sidechains in
// registry order. Order is consensus-relevant: it fixes the position of
// each sidechain's run inside a state script (see package scop).
var Registry = [...]Params{
	{ID: Test, Name: "SIDECHAIN_TEST", WaitPeriod: 100, VerificationPeriod: 200, MinWorkScore: 100},
	{ID: Hivemind, Name: "SIDECHAIN_HIVEMIND", WaitPeriod: 200, VerificationPeriod: 400, MinWorkScore: 200},
	{ID: Wimble, Name: "SIDECHAIN_WIMBLE", WaitPeriod: 200, VerificationPeriod: 400, MinWorkScore: 200},
}

// Count returns the number of sidechains in the registry.
func Count() int {
	return len(Registry)
}

// Valid reports whether id names a sidechain present in the registry.
func Valid(id ID) bool {
	return int(id) < len(Registry)
}

// Lookup returns the parameters for id, or an error if id is not present
// in the registry.
func Lookup(id ID) (Params, error) {
	if !Valid(id) {
		return Params{}, fmt.Errorf("sidechain: unknown sidechain id %d", id)
	}
	return Registry[id], nil
}

// Name returns id's registry name, or "SIDECHAIN_UNKNOWN" if id is not
// valid.
func Name(id ID) string {
	p, err := Lookup(id)
	if err != nil {
		return "SIDECHAIN_UNKNOWN"
	}
	return p.Name
}

// Test fixtures used only by the test sidechain's withdrawal
// materialization path (see scdb.GetWithdrawalTx) to sign the placeholder
// change output. These are not production keys.
const (
	TestKeyHex      = "09c1fbf0ad3047fb825e0bc5911528596b7d7f49"
	TestPrivWIF     = "cQMQ99mA5Xi2Hm9YM3WmB2JcJai3tzGupuFb5b7HWiwNgTKoaFr5"
	TestScriptHex   = "76a914497f7d6b59281591c50b5e82fb4730adf0fbc10988ac"
)
