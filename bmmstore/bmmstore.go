// Copyright (c) 2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package bmmstore caches the full block bodies discovered through
// blind-merged mining, keyed by block hash.
//
// This is distinct from the BMM-LD critical-hash multimap kept inside
// scdb: that map records when a critical hash was observed as consensus
// state. Store holds the actual block bodies those hashes refer to, for
// whatever merged-mining policy layer needs to fetch one back. It is
// not consulted by any scdb operation.
package bmmstore

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// Store is an in-memory cache of blocks discovered via blind-merged
// mining. The zero value is ready to use.
type Store struct {
	blocks map[chainhash.Hash]*wire.MsgBlock
}

// New returns an empty Store.
func New() *Store {
	return &Store{blocks: make(map[chainhash.Hash]*wire.MsgBlock)}
}

// StoreBlock caches block, keyed by its own hash. It returns false if
// block carries no transactions, or if a block with that hash is
// already cached.
func (s *Store) StoreBlock(block *wire.MsgBlock) bool {
	if len(block.Transactions) == 0 {
		return false
	}

	hash := block.BlockHash()
	if _, ok := s.blocks[hash]; ok {
		return false
	}

	if s.blocks == nil {
		s.blocks = make(map[chainhash.Hash]*wire.MsgBlock)
	}
	s.blocks[hash] = block
	return true
}

// Block returns the cached block for hashBlock, if any.
func (s *Store) Block(hashBlock chainhash.Hash) (*wire.MsgBlock, bool) {
	block, ok := s.blocks[hashBlock]
	return block, ok
}
