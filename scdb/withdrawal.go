// Copyright (c) 2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package scdb

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/drivechain-project/scdb/sidechain"
)

// SidechainCoin is a single unspent output held by a sidechain's escrow,
// available to fund the change-return output of a materialized
// withdrawal bundle.
type SidechainCoin struct {
	Outpoint wire.OutPoint
	Value    btcutil.Amount
}

// CoinSource supplies the sidechain escrow's currently spendable coins.
// A host node implements this over its own UTXO set.
type CoinSource interface {
	AvailableCoins(sc sidechain.ID) ([]SidechainCoin, error)
}

// InputSigner produces a finished scriptSig for a single input of tx,
// given the script and value of the output it spends. A host node
// implements this over the sidechain's well-known escrow key.
type InputSigner interface {
	SignInput(tx *wire.MsgTx, inputIndex int, prevScript []byte, amount btcutil.Amount) ([]byte, error)
}

// GetWithdrawalTx materializes the finished WT^ for sc at the given
// height: the highest-scoring verified proposal's cached outputs, a
// trailing change-return output paying returnScript, funded by coins
// drawn from source and signed by signer.
//
// GetWithdrawalTx mirrors the reference implementation's materialization
// path and is purely informative: SCDB's own consensus state never
// depends on whether a bundle is actually broadcast. It returns
// (nil, nil) whenever no qualifying bundle exists for sc at height,
// matching every early-return case in the routine it's modeled on.
func (s *SCDB) GetWithdrawalTx(sc sidechain.ID, height int32, returnScript []byte, source CoinSource, signer InputSigner) (*wire.MsgTx, error) {
	if !s.hasState() {
		return nil, nil
	}

	params, err := sidechain.Lookup(sc)
	if err != nil {
		return nil, scdbError(ErrInvalidSidechain, "unknown sidechain", err)
	}

	tau := int32(params.Tau())
	if tau == 0 || height%tau != 0 {
		return nil, nil
	}

	best, ok := s.BestProposal(sc)
	if !ok {
		return nil, nil
	}
	if best.WorkScore < params.MinWorkScore {
		return nil, nil
	}

	bundle, ok := s.withdrawalAt(best.ProposalID)
	if !ok || len(bundle.TxOut) == 0 {
		return nil, nil
	}

	mtx := wire.NewMsgTx(wire.TxVersion)
	for _, out := range bundle.TxOut {
		mtx.AddTxOut(wire.NewTxOut(out.Value, out.PkScript))
	}

	var payout btcutil.Amount
	for _, out := range mtx.TxOut {
		payout += btcutil.Amount(out.Value)
	}

	changeIdx := len(mtx.TxOut)
	mtx.AddTxOut(wire.NewTxOut(0, returnScript))

	coins, err := source.AvailableCoins(sc)
	if err != nil {
		return nil, scdbError(ErrIO, "failed to fetch sidechain coins", err)
	}
	if len(coins) == 0 {
		return nil, nil
	}

	var funded btcutil.Amount
	for _, coin := range coins {
		mtx.AddTxIn(wire.NewTxIn(&coin.Outpoint, nil, nil))
		funded += coin.Value
	}

	change := funded - payout
	if change < 0 {
		return nil, nil
	}
	mtx.TxOut[changeIdx].Value = int64(change)

	sigScript, err := signer.SignInput(mtx, 0, returnScript, coins[0].Value)
	if err != nil {
		return nil, scdbError(ErrIO, "failed to sign withdrawal return input", err)
	}
	mtx.TxIn[0].SignatureScript = sigScript

	return mtx, nil
}

// TestKeySigner implements InputSigner using the test sidechain's
// well-known escrow key (see sidechain.TestPrivWIF). It exists only to
// materialize withdrawals for sidechain.Test, the same way the reference
// implementation hardcodes that sidechain's private key to sign its
// placeholder change-return input; real sidechains are expected to
// supply their own InputSigner.
type TestKeySigner struct{}

// SignInput implements InputSigner.
func (TestKeySigner) SignInput(tx *wire.MsgTx, inputIndex int, prevScript []byte, amount btcutil.Amount) ([]byte, error) {
	wif, err := btcutil.DecodeWIF(sidechain.TestPrivWIF)
	if err != nil {
		return nil, err
	}
	return txscript.SignatureScript(tx, inputIndex, prevScript, txscript.SigHashAll, wif.PrivKey, true)
}

// withdrawalAt returns the cached transaction body for txid, if any.
func (s *SCDB) withdrawalAt(txid chainhash.Hash) (*wire.MsgTx, bool) {
	for _, tx := range s.withdrawals {
		if tx.TxHash() == txid {
			return tx, true
		}
	}
	return nil, false
}
