// Copyright (c) 2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package sidechain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryOrder(t *testing.T) {
	require.Equal(t, 3, Count())
	require.Equal(t, Test, Registry[0].ID)
	require.Equal(t, Hivemind, Registry[1].ID)
	require.Equal(t, Wimble, Registry[2].ID)
}

func TestTau(t *testing.T) {
	p, err := Lookup(Test)
	require.NoError(t, err)
	require.Equal(t, uint16(300), p.Tau())

	p, err = Lookup(Hivemind)
	require.NoError(t, err)
	require.Equal(t, uint16(600), p.Tau())
}

func TestValidLookup(t *testing.T) {
	require.True(t, Valid(Test))
	require.True(t, Valid(Wimble))
	require.False(t, Valid(ID(3)))
	require.False(t, Valid(ID(255)))

	_, err := Lookup(ID(3))
	require.Error(t, err)
}

func TestInWaitPeriod(t *testing.T) {
	p, err := Lookup(Test)
	require.NoError(t, err)

	require.True(t, p.InWaitPeriod(0))
	require.True(t, p.InWaitPeriod(99))
	require.False(t, p.InWaitPeriod(100))
	require.False(t, p.InWaitPeriod(299))

	// Second tau.
	require.True(t, p.InWaitPeriod(300))
	require.True(t, p.InWaitPeriod(399))
	require.False(t, p.InWaitPeriod(400))
}

func TestLastTauStart(t *testing.T) {
	p, err := Lookup(Test)
	require.NoError(t, err)

	require.Equal(t, int32(0), p.LastTauStart(0))
	require.Equal(t, int32(0), p.LastTauStart(299))
	require.Equal(t, int32(300), p.LastTauStart(300))
	require.Equal(t, int32(300), p.LastTauStart(599))
	require.Equal(t, int32(600), p.LastTauStart(600))
}

func TestName(t *testing.T) {
	require.Equal(t, "SIDECHAIN_TEST", Name(Test))
	require.Equal(t, "SIDECHAIN_UNKNOWN", Name(ID(99)))
}
