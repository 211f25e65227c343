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
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/joeig/go-powerdns/v2"
	"github.com/namsral/flag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Cray-HPE/cray-catalog-zone-manager/internal/catz"
	"github.com/Cray-HPE/cray-catalog-zone-manager/internal/config"
	"github.com/Cray-HPE/cray-catalog-zone-manager/internal/control"
	"github.com/Cray-HPE/cray-catalog-zone-manager/internal/httpLogger"
	"github.com/Cray-HPE/cray-catalog-zone-manager/internal/manager"
)

var (
	configPath       = flag.String("config", "/etc/nsd/catz2nsd.conf", "Catalog zone configuration file")
	zoneListPath     = flag.String("zonelist", control.DefaultZoneList, "NSD zone list file")
	dryRun           = flag.Bool("dry_run", false, "Log control commands instead of executing them")
	debug            = flag.Bool("debug", false, "Log at debug level regardless of LOG_LEVEL")
	show             = flag.Bool("show", false, "Print catalog ownership and exit")
	backendName      = flag.String("backend", "nsd", "Nameserver to manage (nsd or powerdns)")
	nsdControl       = flag.String("nsd_control", control.DefaultNSDControl, "Path to nsd-control")
	nsdControlConfig = flag.String("nsd_control_config", "", "Configuration file passed to nsd-control")
	pdnsURL          = flag.String("pdns_url", "http://localhost:9090", "PowerDNS URL")
	pdnsAPIKey       = flag.String("pdns_api_key", "cray", "PowerDNS API Key")
	pdnsServer       = flag.String("pdns_server", "localhost", "PowerDNS server ID")
	pdnsInsecure     = flag.Bool("pdns_insecure", false, "Skip TLS verification of the PowerDNS API")
	requireVersion   = flag.Bool("require_version", false, "Reject catalogs without a version record")
	defaultPattern   = flag.String("default_pattern", "", "Pattern for catalogs that do not name one")
	interval         = flag.Int("interval", 0, "Seconds between synchronization runs, 0 runs once and exits")
	listen           = flag.String("listen", ":8080", "Address of the control API in interval mode")
	transferTimeout  = flag.Int("transfer_timeout", 30, "Timeout in seconds for SOA queries and zone transfers")

	syncManager *manager.Manager

	httpClient *retryablehttp.Client

	trueUpShutdown   chan bool
	trueUpRunNow     chan bool
	trueUpInProgress bool
	trueUpMtx        sync.Mutex
	lastResult       *manager.Result

	WaitGroup sync.WaitGroup

	router    *gin.Engine
	APIServer *http.Server = nil

	atomicLevel zap.AtomicLevel
	logger      *zap.Logger

	Running = true
)

func setupLogging() {
	logLevel := os.Getenv("LOG_LEVEL")
	logLevel = strings.ToUpper(logLevel)

	atomicLevel = zap.NewAtomicLevel()

	encoderCfg := zap.NewProductionEncoderConfig()
	logger = zap.New(zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.Lock(os.Stdout),
		atomicLevel,
	))

	if *debug {
		logLevel = "DEBUG"
	}

	switch logLevel {
	case "DEBUG":
		atomicLevel.SetLevel(zap.DebugLevel)
		gin.SetMode(gin.DebugMode)
	case "INFO":
		atomicLevel.SetLevel(zap.InfoLevel)
		gin.SetMode(gin.ReleaseMode)
	case "WARN":
		atomicLevel.SetLevel(zap.WarnLevel)
		gin.SetMode(gin.ReleaseMode)
	case "ERROR":
		atomicLevel.SetLevel(zap.ErrorLevel)
		gin.SetMode(gin.ReleaseMode)
	case "FATAL":
		atomicLevel.SetLevel(zap.FatalLevel)
		gin.SetMode(gin.ReleaseMode)
	case "PANIC":
		atomicLevel.SetLevel(zap.PanicLevel)
		gin.SetMode(gin.ReleaseMode)
	default:
		atomicLevel.SetLevel(zap.InfoLevel)
		gin.SetMode(gin.ReleaseMode)
	}
}

func setupBackend(cfg *config.Config) (control.Backend, error) {
	switch *backendName {
	case "nsd":
		var controlConfig *string
		if *nsdControlConfig != "" {
			controlConfig = nsdControlConfig
		}

		return control.NewNSDBackend(*nsdControl, controlConfig, *zoneListPath, control.ExecRunner{}), nil
	case "powerdns":
		// For performance reasons we'll keep one client and reuse it for every API call.
		httpClient = retryablehttp.NewClient()
		transport := &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: *pdnsInsecure},
		}
		httpClient.HTTPClient.Transport = transport

		httpClient.RetryMax = 3
		httpClient.RetryWaitMax = time.Second * 2

		// Also, since we're using Zap logger it makes sense to set the logger to use the one we've already setup.
		newHttpLogger := httpLogger.NewHTTPLogger(logger)
		httpClient.Logger = newHttpLogger

		pdns := powerdns.NewClient(*pdnsURL, *pdnsServer, map[string]string{"X-API-Key": *pdnsAPIKey},
			httpClient.StandardClient())

		return control.NewPowerDNSBackend(pdns, cfg.Masters, logger), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", *backendName)
	}
}

func main() {
	// Parse the arguments.
	flag.Parse()

	// Setup logging.
	setupLogging()
	defer logger.Sync()

	cfg, err := config.Load(*configPath, config.Options{DefaultPattern: *defaultPattern})
	if err != nil {
		logger.Fatal("Failed to load configuration!", zap.Error(err), zap.String("config", *configPath))
	}
	for _, source := range cfg.Catalogs {
		logger.Debug("Configured catalog", zap.Stringer("catalog", source))
	}

	backend, err := setupBackend(cfg)
	if err != nil {
		logger.Fatal("Failed to set up backend!", zap.Error(err))
	}

	transferClient := catz.NewDNSTransferClient(time.Duration(*transferTimeout) * time.Second)
	syncManager = manager.New(cfg, transferClient, backend, *requireVersion, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *show {
		catalogs, _, err := syncManager.Catalogs(ctx)
		if err != nil {
			logger.Fatal("Failed to read catalogs!", zap.Error(err))
		}

		fmt.Println(manager.Tree(catalogs).String())
		return
	}

	if *interval <= 0 {
		if _, err := syncManager.Run(ctx, *dryRun); err != nil {
			logger.Fatal("Synchronization failed!", zap.Error(err))
		}

		logger.Info("Synchronization complete.")
		return
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	trueUpShutdown = make(chan bool, 1)
	trueUpRunNow = make(chan bool, 1)

	go func() {
		<-c

		logger.Info("Shutting down...")

		Running = false

		cancel()

		trueUpShutdown <- true

		if APIServer != nil {
			serverCtx, serverCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer serverCancel()
			if err := APIServer.Shutdown(serverCtx); err != nil {
				logger.Panic("API server forced to shutdown!", zap.Error(err))
			}
		}
	}()

	WaitGroup.Add(1)
	logger.Info("Starting API server.")
	setupAPI()

	WaitGroup.Add(1)
	logger.Info("Starting up true up loop...")
	go doLoop(ctx)

	// Seed the first run since we start the loop with the select block.
	trueUpRunNow <- true

	// We'll spend pretty much the rest of life blocking on the next line.
	WaitGroup.Wait()
}
