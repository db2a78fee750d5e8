// Copyright (c) 2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package scdb

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"
)

// criticalHashScript builds a well-formed BMM-LD output script: OP_RETURN
// followed by a script-level push of exactly a 32-byte critical hash.
func criticalHashScript(seed byte) []byte {
	var hash [criticalHashLen]byte
	hash[0] = seed
	push, err := txscript.NewScriptBuilder().AddData(hash[:]).Script()
	if err != nil {
		panic(err)
	}
	return append([]byte{txscript.OP_RETURN}, push...)
}

func coinbaseWithCriticalHashes(seeds ...byte) *wire.MsgTx {
	tx := wire.NewMsgTx(wire.TxVersion)
	for _, seed := range seeds {
		tx.AddTxOut(wire.NewTxOut(0, criticalHashScript(seed)))
	}
	return tx
}

func TestIngestLinkingDataRecordsCriticalHash(t *testing.T) {
	s := New()
	s.ingestLinkingData(10, coinbaseWithCriticalHashes(1))

	var want chainhash.Hash
	want[0] = 1

	ld := s.LinkingData()
	require.Equal(t, []int32{10}, ld[want])
}

func TestIngestLinkingDataIgnoresWrongShape(t *testing.T) {
	s := New()
	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxOut(wire.NewTxOut(0, []byte{txscript.OP_TRUE}))
	s.ingestLinkingData(1, tx)

	require.Empty(t, s.LinkingData())
}

func TestIngestLinkingDataTracksMultipleHeightsForSameHash(t *testing.T) {
	s := New()
	coinbase := coinbaseWithCriticalHashes(7)

	s.ingestLinkingData(1, coinbase)
	s.ingestLinkingData(2, coinbase)

	var hash chainhash.Hash
	hash[0] = 7

	ld := s.LinkingData()
	require.Equal(t, []int32{1, 2}, ld[hash])
}

func TestInsertLinkingDataEvictsOldestOnceOverCapacity(t *testing.T) {
	s := New()

	var first chainhash.Hash
	first[0] = 0xAA
	s.insertLinkingData(first, 0)

	for i := 0; i < MaxLinkingData; i++ {
		var h chainhash.Hash
		h[0] = byte(i % 250)
		h[1] = byte(i / 250)
		s.insertLinkingData(h, int32(i+1))
	}

	ld := s.LinkingData()
	_, stillPresent := ld[first]
	require.False(t, stillPresent)

	total := 0
	for _, heights := range ld {
		total += len(heights)
	}
	require.Equal(t, MaxLinkingData, total)
}

func TestInsertLinkingDataEvictsOnlyOldestHeightForRepeatedHash(t *testing.T) {
	s := New()

	var repeated chainhash.Hash
	repeated[0] = 0xBB
	s.insertLinkingData(repeated, 1)
	s.insertLinkingData(repeated, 2)

	for i := 0; i < MaxLinkingData-1; i++ {
		var h chainhash.Hash
		h[0] = byte(i % 250)
		h[1] = byte(i / 250)
		s.insertLinkingData(h, int32(i+100))
	}

	ld := s.LinkingData()
	require.Equal(t, []int32{2}, ld[repeated])
}

func TestLinkingDataReturnsIndependentCopy(t *testing.T) {
	s := New()
	var hash chainhash.Hash
	hash[0] = 1
	s.insertLinkingData(hash, 5)

	ld := s.LinkingData()
	ld[hash][0] = 999

	fresh := s.LinkingData()
	require.Equal(t, int32(5), fresh[hash][0])
}
