// Copyright (c) 2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package scdb

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

// ingestLinkingData scans every output of coinbase for an OP_RETURN
// output carrying a single 32-byte push and inserts each such payload
// as a BMM-LD critical hash observed at the height SCDB is currently
// processing. It inspects every output, independent of whether that
// output was also chosen as the state script candidate in readStateScript.
func (s *SCDB) ingestLinkingData(height int32, coinbase *wire.MsgTx) {
	for _, out := range coinbase.TxOut {
		script := out.PkScript
		if len(script) < 1 || script[0] != byte(txscript.OP_RETURN) {
			continue
		}

		push, ok := firstPush(script[1:])
		if !ok || len(push) != criticalHashLen {
			continue
		}

		var hash chainhash.Hash
		copy(hash[:], push)
		s.insertLinkingData(hash, height)
	}
}

// insertLinkingData records hash as seen at height. If the map then
// holds more than MaxLinkingData entries, the earliest-inserted map
// entry of the oldest queued hash is evicted.
func (s *SCDB) insertLinkingData(hash chainhash.Hash, height int32) {
	s.bmmQueue = append(s.bmmQueue, hash)
	s.bmmMap[hash] = append(s.bmmMap[hash], height)

	if s.mapEntryCount() <= MaxLinkingData {
		return
	}

	front := s.bmmQueue[0]
	s.bmmQueue = s.bmmQueue[1:]

	heights := s.bmmMap[front]
	if len(heights) == 0 {
		return
	}

	// Remove the earliest-inserted entry for this key, mirroring the
	// lower_bound() position a multimap iterator would land on for the
	// first of several equal-key elements.
	heights = heights[1:]
	if len(heights) == 0 {
		delete(s.bmmMap, front)
	} else {
		s.bmmMap[front] = heights
	}
}

func (s *SCDB) mapEntryCount() int {
	n := 0
	for _, heights := range s.bmmMap {
		n += len(heights)
	}
	return n
}

// LinkingData returns a read-only copy of the current BMM-LD multimap:
// critical hash to every height at which it was observed.
func (s *SCDB) LinkingData() map[chainhash.Hash][]int32 {
	out := make(map[chainhash.Hash][]int32, len(s.bmmMap))
	for k, v := range s.bmmMap {
		cp := make([]int32, len(v))
		copy(cp, v)
		out[k] = cp
	}
	return out
}
