// Copyright (c) 2013-2015 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/btcsuite/btclog"
	"github.com/cihub/seelog"
	"github.com/drivechain-project/scdb/scdb"
	"github.com/drivechain-project/scdb/scdb/coinbasecache"
)

// Loggers per subsystem. Note that backendLog is a seelog logger that
// all of the subsystem loggers route their messages to. When adding a
// new subsystem, add a reference here, to subsystemLoggers, and to
// useLogger's switch.
var (
	backendLog = seelog.Disabled

	log     = btclog.Disabled
	scdbLog = btclog.Disabled
	cbchLog = btclog.Disabled
)

// subsystemLoggers maps each subsystem identifier to its associated
// logger.
var subsystemLoggers = map[string]btclog.Logger{
	"CTLR": log,
	"SCDB": scdbLog,
	"CBCH": cbchLog,
}

// useLogger updates the logger reference for subsystemID to logger.
// Invalid subsystems are ignored.
func useLogger(subsystemID string, logger btclog.Logger) {
	if _, ok := subsystemLoggers[subsystemID]; !ok {
		return
	}
	subsystemLoggers[subsystemID] = logger

	switch subsystemID {
	case "CTLR":
		log = logger
	case "SCDB":
		scdbLog = logger
		scdb.UseLogger(logger)
	case "CBCH":
		cbchLog = logger
		coinbasecache.UseLogger(logger)
	}
}

// initSeelogLogger initializes a new seelog logger used as the backend
// for every logging subsystem, writing to both the console and a
// rolling file under logFile.
func initSeelogLogger(logFile string) {
	config := `
        <seelog type="adaptive" mininterval="2000000" maxinterval="100000000"
                critmsgcount="500" minlevel="trace">
                <outputs formatid="all">
                        <console />
                        <rollingfile type="size" filename="%s" maxsize="10485760" maxrolls="3" />
                </outputs>
                <formats>
                        <format id="all" format="%%Time %%Date [%%LEV] %%Msg%%n" />
                </formats>
        </seelog>`
	config = fmt.Sprintf(config, logFile)

	logger, err := seelog.LoggerFromConfigAsString(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v", err)
		os.Exit(1)
	}

	backendLog = logger
}

// setLogLevel sets the logging level for subsystemID. Invalid
// subsystems are ignored. Uninitialized subsystems are dynamically
// created as needed.
func setLogLevel(subsystemID string, logLevel string) {
	logger, ok := subsystemLoggers[subsystemID]
	if !ok {
		return
	}

	level, ok := btclog.LogLevelFromString(logLevel)
	if !ok {
		level = btclog.InfoLvl
	}

	if logger == btclog.Disabled {
		logger = btclog.NewSubsystemLogger(backendLog, subsystemID+": ")
		useLogger(subsystemID, logger)
	}
	logger.SetLevel(level)
}

// setLogLevels sets the log level for every registered subsystem.
func setLogLevels(logLevel string) {
	for subsystemID := range subsystemLoggers {
		setLogLevel(subsystemID, logLevel)
	}
}
