// Copyright (c) 2013, 2014 Conformal Systems LLC <info@conformal.com>
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/drivechain-project/scdb/scdb/coinbasecache"
)

var cfg *config

func main() {
	if err := scdbctlMain(); err != nil {
		os.Exit(1)
	}
}

// scdbctlMain is a work-around main function that is required since
// deferred functions (such as log flushing) are not called with calls
// to os.Exit.
func scdbctlMain() error {
	tcfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	cfg = tcfg

	if err := os.MkdirAll(cfg.LogDir, 0700); err != nil {
		fmt.Fprintf(os.Stderr, "unable to create log directory: %v\n", err)
		return err
	}
	initSeelogLogger(cfg.LogDir + "/scdbctl.log")
	setLogLevels(cfg.DebugLevel)
	defer backendLog.Flush()

	cache := loadCoinbaseCache(cfg.CacheFile)

	log.Infof("coinbase cache loaded: %d entries cached", cache.Len())
	return nil
}

// loadCoinbaseCache opens the ring-buffer file at path and loads it,
// following the same non-fatal read contract coinbasecache.ReadFile
// documents: a missing or corrupt file yields an empty cache rather
// than an error.
func loadCoinbaseCache(path string) *coinbasecache.Cache {
	f, err := os.Open(path)
	if err != nil {
		log.Warnf("unable to open coinbase cache %q (non-fatal): %v", path, err)
		return coinbasecache.New()
	}
	defer f.Close()

	return coinbasecache.ReadFile(f)
}
