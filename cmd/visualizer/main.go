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
	"context"
	"fmt"
	"os"
	"time"

	"github.com/namsral/flag"
	"go.uber.org/zap"

	"github.com/Cray-HPE/cray-catalog-zone-manager/internal/catz"
	"github.com/Cray-HPE/cray-catalog-zone-manager/internal/config"
	"github.com/Cray-HPE/cray-catalog-zone-manager/internal/manager"
)

var (
	configPath      = flag.String("config", "/etc/nsd/catz2nsd.conf", "Catalog zone configuration file")
	defaultPattern  = flag.String("default_pattern", "", "Pattern for catalogs that do not name one")
	requireVersion  = flag.Bool("require_version", false, "Reject catalogs without a version record")
	transferTimeout = flag.Int("transfer_timeout", 30, "Timeout in seconds for SOA queries and zone transfers")
)

func main() {
	// Parse the arguments.
	flag.Parse()

	cfg, err := config.Load(*configPath, config.Options{DefaultPattern: *defaultPattern})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Only catalogs are read, nothing is sent to a name server.
	transferClient := catz.NewDNSTransferClient(time.Duration(*transferTimeout) * time.Second)
	catalogManager := manager.New(cfg, transferClient, nil, *requireVersion, zap.NewNop())

	catalogs, _, err := catalogManager.Catalogs(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Println(manager.Tree(catalogs).String())
}
