// Copyright (c) 2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package coinbasecache implements the one persisted artifact of the
// sidechain state database: a bounded, file-backed ring buffer of the
// coinbase transactions from the most recently connected blocks, keyed
// by the hash of the block they came from.
//
// The on-disk format is a fixed sequential layout, not a key/value
// store, so this package reads and writes it directly with
// encoding/binary rather than through a generic database abstraction.
package coinbasecache

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// nCoinbaseToCache is the maximum number of (block hash, coinbase)
// pairs retained at once. Past this, the oldest entry is evicted first.
const nCoinbaseToCache = 2600

// formatVersion is both the version this package writes and the
// highest version-required value it will accept when reading.
const formatVersion = 1

// entry pairs a connected block's hash with its coinbase transaction.
type entry struct {
	blockHash chainhash.Hash
	coinbase  *wire.MsgTx
}

// Cache is the coinbase ring buffer. The zero value is ready to use.
type Cache struct {
	entries []entry
}

// New returns an empty Cache.
func New() *Cache {
	return &Cache{}
}

// ProcessNewCoinbase appends the coinbase of a newly connected block to
// the cache, evicting the oldest entry first if the cache is full.
func (c *Cache) ProcessNewCoinbase(blockHash chainhash.Hash, coinbase *wire.MsgTx) {
	if len(c.entries) >= nCoinbaseToCache {
		c.entries = c.entries[1:]
	}
	c.entries = append(c.entries, entry{blockHash: blockHash, coinbase: coinbase})
}

// Len returns the number of coinbase transactions currently cached.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Coinbase returns the cached coinbase transaction for blockHash, if
// any.
func (c *Cache) Coinbase(blockHash chainhash.Hash) (*wire.MsgTx, bool) {
	for _, e := range c.entries {
		if e.blockHash == blockHash {
			return e.coinbase, true
		}
	}
	return nil, false
}

// Write serializes the cache to w: a version-required uint32, a
// version-that-wrote uint32, a uint32 entry count, then that many
// (block hash, length-prefixed coinbase) pairs, all little-endian.
func (c *Cache) Write(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(formatVersion)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(formatVersion)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(c.entries))); err != nil {
		return err
	}

	for _, e := range c.entries {
		if _, err := w.Write(e.blockHash[:]); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(e.coinbase.SerializeSize())); err != nil {
			return err
		}
		if err := e.coinbase.Serialize(w); err != nil {
			return err
		}
	}
	return nil
}

// Read replaces the cache's contents by deserializing r, which must
// have been produced by Write. It rejects a file whose version-required
// field exceeds formatVersion.
func (c *Cache) Read(r io.Reader) error {
	var versionRequired, versionThatWrote uint32
	if err := binary.Read(r, binary.LittleEndian, &versionRequired); err != nil {
		return err
	}
	if err := binary.Read(r, binary.LittleEndian, &versionThatWrote); err != nil {
		return err
	}
	if versionRequired > formatVersion {
		return fmt.Errorf("coinbasecache: up-version (%d) coinbase cache", versionRequired)
	}

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return err
	}

	entries := make([]entry, 0, count)
	for i := uint32(0); i < count; i++ {
		var hash chainhash.Hash
		if _, err := io.ReadFull(r, hash[:]); err != nil {
			return err
		}

		var txLen uint32
		if err := binary.Read(r, binary.LittleEndian, &txLen); err != nil {
			return err
		}

		tx := wire.NewMsgTx(wire.TxVersion)
		if err := tx.Deserialize(io.LimitReader(r, int64(txLen))); err != nil {
			return err
		}

		entries = append(entries, entry{blockHash: hash, coinbase: tx})
	}

	c.entries = entries
	return nil
}

// ReadFile loads a cache from r the way a host node would on startup: a
// failure to read is never fatal. It is logged as a warning and an
// empty cache is returned instead.
func ReadFile(r io.Reader) *Cache {
	c := New()
	if err := c.Read(r); err != nil {
		log.Warnf("unable to read coinbase cache (non-fatal): %v", err)
		return New()
	}
	return c
}
