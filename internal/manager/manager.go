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
package manager

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Cray-HPE/cray-catalog-zone-manager/internal/catz"
	"github.com/Cray-HPE/cray-catalog-zone-manager/internal/common"
	"github.com/Cray-HPE/cray-catalog-zone-manager/internal/config"
	"github.com/Cray-HPE/cray-catalog-zone-manager/internal/control"
	"github.com/Cray-HPE/cray-catalog-zone-manager/internal/reconcile"
)

// CatalogSummary describes one catalog as seen during a run.
type CatalogSummary struct {
	Origin  string `json:"origin"`
	Pattern string `json:"pattern"`
	Serial  uint32 `json:"serial"`
	Version *int   `json:"version,omitempty"`
	Zones   int    `json:"zones"`
}

// Result is the outcome of one run.
type Result struct {
	Started   time.Time         `json:"started"`
	Finished  time.Time         `json:"finished"`
	Simulate  bool              `json:"simulate"`
	Catalogs  []CatalogSummary  `json:"catalogs"`
	Commands  []control.Command `json:"commands"`
	Unchanged int               `json:"unchanged"`
	Error     string            `json:"error,omitempty"`
}

// Manager runs the catalog -> server synchronization: fetch and interpret every catalog, check them against each
// other, read the server state once, reconcile and issue the resulting commands.
type Manager struct {
	cfg         *config.Config
	fetcher     *catz.Fetcher
	interpreter *catz.Interpreter
	backend     control.Backend
	emitter     *control.Emitter
	logger      *zap.Logger
}

// New builds a Manager. backend may be nil when only Catalogs is used.
func New(cfg *config.Config, client catz.TransferClient, backend control.Backend, requireVersion bool,
	logger *zap.Logger) *Manager {
	return &Manager{
		cfg:         cfg,
		fetcher:     catz.NewFetcher(client, logger),
		interpreter: catz.NewInterpreter(logger, requireVersion),
		backend:     backend,
		emitter:     control.NewEmitter(backend, logger),
		logger:      logger,
	}
}

// Catalogs fetches and interprets every configured catalog, in configuration order, and validates that no zone is
// declared twice. Any failure voids the whole set.
func (manager *Manager) Catalogs(ctx context.Context) ([]common.Catalog, []CatalogSummary, error) {
	var catalogs []common.Catalog
	var summaries []CatalogSummary

	for _, source := range manager.cfg.Catalogs {
		zone, err := manager.fetcher.Fetch(ctx, source)
		if err != nil {
			return nil, nil, err
		}

		content, err := manager.interpreter.Interpret(zone)
		if err != nil {
			return nil, nil, err
		}

		catalogs = append(catalogs, common.Catalog{
			Origin:  content.Origin,
			Pattern: source.Pattern,
			Zones:   content.Zones,
		})
		summaries = append(summaries, CatalogSummary{
			Origin:  content.Origin,
			Pattern: source.Pattern,
			Serial:  zone.Serial(),
			Version: content.Version,
			Zones:   len(content.Zones),
		})
	}

	if err := catz.ValidateUnique(catalogs); err != nil {
		var duplicateErr *catz.DuplicateZoneError
		if errors.As(err, &duplicateErr) {
			for _, zone := range duplicateErr.Zones() {
				manager.logger.Error("Zone defined in multiple catalogs", zap.String("zone", zone),
					zap.Strings("catalogs", duplicateErr.Conflicts[zone]))
			}
		}
		return nil, nil, err
	}

	return catalogs, summaries, nil
}

// Run performs one synchronization. Nothing is sent to the server unless every catalog was fetched, interpreted and
// validated. Command failures do not stop the run; they are returned together at the end.
func (manager *Manager) Run(ctx context.Context, simulate bool) (result *Result, err error) {
	result = &Result{
		Started:  time.Now(),
		Simulate: simulate,
	}
	defer func() {
		result.Finished = time.Now()
		if err != nil {
			result.Error = err.Error()
		}
	}()

	catalogs, summaries, err := manager.Catalogs(ctx)
	if err != nil {
		return
	}
	result.Catalogs = summaries

	desired, err := reconcile.DesiredState(catalogs)
	if err != nil {
		return
	}

	current, err := manager.backend.CurrentState(ctx)
	if err != nil {
		err = fmt.Errorf("failed to read current zones: %w", err)
		return
	}

	plan := reconcile.Reconcile(desired, current)
	result.Unchanged = plan.Unchanged

	counts := plan.Counts()
	manager.logger.Info("Reconciled zones",
		zap.Int("desired", len(desired)),
		zap.Int("current", len(current)),
		zap.Int("add", counts[reconcile.OperationAdd]),
		zap.Int("change", counts[reconcile.OperationChange]),
		zap.Int("delete", counts[reconcile.OperationDelete]),
		zap.Int("unchanged", plan.Unchanged))

	result.Commands, err = manager.emitter.Apply(ctx, plan, simulate)

	return
}
