// Copyright (c) 2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package scdb

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/drivechain-project/scdb/sidechain"
)

// keyIDLen is the length, in bytes, of a deposit's recipient key id.
const keyIDLen = 20

// criticalHashLen is the length, in bytes, of a BMM-LD critical hash
// payload.
const criticalHashLen = 32

// parseDeposit recognises a deposit output: OP_RETURN, a single sidechain
// id byte, and a script-level push of exactly keyIDLen bytes. Bytes
// following the recognised push are ignored. ok is false if script does
// not have this shape.
func parseDeposit(script []byte) (sc sidechain.ID, keyID [keyIDLen]byte, ok bool) {
	if len(script) < keyIDLen {
		return 0, keyID, false
	}
	if script[0] != byte(txscript.OP_RETURN) {
		return 0, keyID, false
	}

	id := sidechain.ID(script[1])
	if !sidechain.Valid(id) {
		return 0, keyID, false
	}

	push, ok := firstPush(script[2:])
	if !ok || len(push) != keyIDLen {
		return 0, keyID, false
	}

	copy(keyID[:], push)
	return id, keyID, true
}

// firstPush tokenizes script and returns the data carried by the first
// successfully tokenized data push, or ok=false if tokenization fails or
// the first token is not a data push.
func firstPush(script []byte) (data []byte, ok bool) {
	tokenizer := txscript.MakeScriptTokenizer(0, script)
	if !tokenizer.Next() || tokenizer.Opcode() > txscript.OP_PUSHDATA4 {
		return nil, false
	}
	return tokenizer.Data(), true
}

// AddDeposits scans every output of every supplied transaction and
// recognises a deposit wherever an output's scriptPubKey carries
// OP_RETURN, a valid sidechain id byte, and a single 20-byte push. Newly
// recognised deposits are appended to the cache, deduplicated by value
// equality across (sidechain, key id, hex); deposits already present are
// skipped. AddDeposits is idempotent: applying it to the same
// transactions twice leaves the cache unchanged after the first call.
func (s *SCDB) AddDeposits(txs []*wire.MsgTx) error {
	for _, tx := range txs {
		txHex := hex.EncodeToString(encodeTx(tx))

		for _, out := range tx.TxOut {
			sc, keyID, ok := parseDeposit(out.PkScript)
			if !ok {
				continue
			}

			d := Deposit{
				Sidechain:       sc,
				RecipientKeyID:  keyID,
				SerializedTxHex: txHex,
			}
			if !s.haveDepositCached(d) {
				s.deposits = append(s.deposits, d)
			}
		}
	}
	return nil
}

func (s *SCDB) haveDepositCached(d Deposit) bool {
	for _, existing := range s.deposits {
		if existing.Equal(d) {
			return true
		}
	}
	return false
}

// GetDeposits returns every deposit currently cached for sc, in
// discovery order.
func (s *SCDB) GetDeposits(sc sidechain.ID) []Deposit {
	var out []Deposit
	for _, d := range s.deposits {
		if d.Sidechain == sc {
			out = append(out, d)
		}
	}
	return out
}

// encodeTx serializes tx using the host chain's wire encoding, the same
// representation a deposit's SerializedTxHex carries.
func encodeTx(tx *wire.MsgTx) []byte {
	buf := make([]byte, 0, tx.SerializeSize())
	w := &byteSliceWriter{buf: buf}
	_ = tx.Serialize(w)
	return w.buf
}

// byteSliceWriter adapts a growable []byte to io.Writer, avoiding a
// bytes.Buffer allocation for the common case of serializing directly
// into a pre-sized slice.
type byteSliceWriter struct {
	buf []byte
}

func (w *byteSliceWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	return len(p), nil
}
