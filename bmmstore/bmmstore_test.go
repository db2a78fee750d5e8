// Copyright (c) 2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bmmstore

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"
)

var chainhashZero chainhash.Hash

func blockWithOneTx() *wire.MsgBlock {
	block := wire.NewMsgBlock(wire.NewBlockHeader(0, &chainhashZero, &chainhashZero, 0, 0))
	block.AddTransaction(wire.NewMsgTx(wire.TxVersion))
	return block
}

func TestStoreBlockRejectsEmpty(t *testing.T) {
	s := New()
	empty := wire.NewMsgBlock(wire.NewBlockHeader(0, &chainhashZero, &chainhashZero, 0, 0))
	require.False(t, s.StoreBlock(empty))
}

func TestStoreBlockRejectsDuplicate(t *testing.T) {
	s := New()
	block := blockWithOneTx()

	require.True(t, s.StoreBlock(block))
	require.False(t, s.StoreBlock(block))
}

func TestBlockRoundTrip(t *testing.T) {
	s := New()
	block := blockWithOneTx()
	require.True(t, s.StoreBlock(block))

	got, ok := s.Block(block.BlockHash())
	require.True(t, ok)
	require.Equal(t, block.BlockHash(), got.BlockHash())
}

func TestBlockMissing(t *testing.T) {
	s := New()
	_, ok := s.Block(chainhashZero)
	require.False(t, ok)
}
