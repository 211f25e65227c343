/*
 *
 *  MIT License
 *
 *  (C) Copyright 2022 Hewlett Packard Enterprise Development LP
 *
 *  Permission is hereby granted, free of charge, to any person obtaining a
 *  copy of this software and associated documentation files (the "Software"),
 *  to deal in the Software without restriction, including without limitation
 *  the rights to use, copy, modify, merge, publish, distribute, sublicense,
 *  and/or sell copies of the Software, and to permit persons to whom the
 *  Software is furnished to do so, subject to the following conditions:
 *
 *  The above copyright notice and this permission notice shall be included
 *  in all copies or substantial portions of the Software.
 *
 *  THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *  IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *  FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL
 *  THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR
 *  OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE,
 *  ARISING FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR
 *  OTHER DEALINGS IN THE SOFTWARE.
 *
 */
package main

import (
	"os"
	"strings"
	"time"

	"github.com/namsral/flag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Cray-HPE/cray-catalog-zone-manager/internal/catz"
)

var (
	origin       = flag.String("origin", "test.catz", "Origin of the generated catalog zone")
	zoneListPath = flag.String("zonelist", "", "CSV file of member zones, one zone[,group] per line")
	outputPath   = flag.String("output", "", "Write the catalog zone to this file instead of stdout")

	atomicLevel zap.AtomicLevel
	logger      *zap.Logger
)

// The zone goes to stdout, so logs go to stderr.
func setupLogging() {
	logLevel := os.Getenv("LOG_LEVEL")
	logLevel = strings.ToUpper(logLevel)

	atomicLevel = zap.NewAtomicLevel()

	encoderCfg := zap.NewProductionEncoderConfig()
	logger = zap.New(zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.Lock(os.Stderr),
		atomicLevel,
	))

	switch logLevel {
	case "DEBUG":
		atomicLevel.SetLevel(zap.DebugLevel)
	case "WARN":
		atomicLevel.SetLevel(zap.WarnLevel)
	case "ERROR":
		atomicLevel.SetLevel(zap.ErrorLevel)
	default:
		atomicLevel.SetLevel(zap.InfoLevel)
	}
}

func readMembers() ([]catz.Member, error) {
	var members []catz.Member

	if *zoneListPath != "" {
		file, err := os.Open(*zoneListPath)
		if err != nil {
			return nil, err
		}
		defer file.Close()

		members, err = catz.ReadMembers(file)
		if err != nil {
			return nil, err
		}
	}

	for _, zone := range flag.Args() {
		members = append(members, catz.Member{Zone: zone})
	}

	return members, nil
}

// writeCatalog writes the catalog zone to path, or to stdout when path is empty. The file is closed before
// returning so a failed final write is reported.
func writeCatalog(path string, members []catz.Member, serial uint32) error {
	if path == "" {
		return catz.Generate(os.Stdout, *origin, members, serial)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := catz.Generate(file, *origin, members, serial); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}

func main() {
	// Parse the arguments.
	flag.Parse()

	setupLogging()
	defer logger.Sync()

	members, err := readMembers()
	if err != nil {
		logger.Fatal("Failed to read member zones!", zap.Error(err))
	}

	serial := uint32(time.Now().Unix())
	if err := writeCatalog(*outputPath, members, serial); err != nil {
		logger.Fatal("Failed to write catalog zone!", zap.Error(err))
	}

	logger.Debug("Generated catalog zone", zap.String("origin", *origin), zap.Int("members", len(members)),
		zap.Uint32("serial", serial))
}
