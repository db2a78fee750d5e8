// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"path/filepath"

	"github.com/btcsuite/btcd/btcutil"
	flags "github.com/jessevdk/go-flags"
)

const (
	defaultConfigFilename = "scdbctl.conf"
	defaultLogLevel       = "info"
	defaultLogFilename    = "scdbctl.log"
	defaultCacheFilename  = "coinbase.cache"
)

var (
	defaultHomeDir    = btcutil.AppDataDir("scdbctl", false)
	defaultConfigFile = filepath.Join(defaultHomeDir, defaultConfigFilename)
	defaultLogDir     = filepath.Join(defaultHomeDir, "logs")
	defaultCacheFile  = filepath.Join(defaultHomeDir, defaultCacheFilename)
)

// config defines the configuration options for scdbctl.
type config struct {
	ConfigFile string `short:"C" long:"configfile" description:"Path to configuration file"`
	CacheFile  string `long:"cachefile" description:"Path to the coinbase ring-buffer file"`
	LogDir     string `long:"logdir" description:"Directory to log output"`
	DebugLevel string `short:"d" long:"debuglevel" description:"Logging level {trace, debug, info, warn, error, critical}"`
}

// loadConfig parses command-line arguments into a config struct
// pre-populated with defaults, following the same load order the
// teacher's own wallet config uses: defaults, then flags.
func loadConfig() (*config, []string, error) {
	cfg := config{
		ConfigFile: defaultConfigFile,
		CacheFile:  defaultCacheFile,
		LogDir:     defaultLogDir,
		DebugLevel: defaultLogLevel,
	}

	preCfg := cfg
	preParser := flags.NewParser(&preCfg, flags.Default)
	remainingArgs, err := preParser.Parse()
	if err != nil {
		return nil, nil, err
	}

	cfg = preCfg
	return &cfg, remainingArgs, nil
}
