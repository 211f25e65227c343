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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap/zaptest"

	"github.com/Cray-HPE/cray-catalog-zone-manager/internal/catz"
	"github.com/Cray-HPE/cray-catalog-zone-manager/internal/common"
	"github.com/Cray-HPE/cray-catalog-zone-manager/internal/config"
	"github.com/Cray-HPE/cray-catalog-zone-manager/internal/manager"
)

type fakeBackend struct {
	current common.ZonePatterns
}

func (backend *fakeBackend) CurrentState(_ context.Context) (common.ZonePatterns, error) {
	return backend.current, nil
}

func (backend *fakeBackend) AddZone(_ context.Context, _ string, _ string) error    { return nil }
func (backend *fakeBackend) ChangeZone(_ context.Context, _ string, _ string) error { return nil }
func (backend *fakeBackend) DeleteZone(_ context.Context, _ string) error           { return nil }

func setupTest(t *testing.T) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	logger = zaptest.NewLogger(t)
	trueUpRunNow = make(chan bool, 1)
	trueUpInProgress = false
	lastResult = nil

	zoneFile := filepath.Join(t.TempDir(), "catz1.example.zone")
	file, err := os.Create(zoneFile)
	if err != nil {
		t.Fatalf("failed to create zone file: %v", err)
	}
	if err := catz.Generate(file, "catz1.example", []catz.Member{{Zone: "a.com"}}, 1); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	file.Close()

	cfg := &config.Config{
		Keys: map[string]config.TSIGKey{},
		Catalogs: []config.CatalogZoneSource{
			{Origin: "catz1.example", ZoneFile: &zoneFile, Pattern: "p1"},
		},
	}
	backend := &fakeBackend{current: common.ZonePatterns{"old.com": "p1"}}
	syncManager = manager.New(cfg, catz.NewDNSTransferClient(time.Second), backend, false, logger)
}

func serve(method string, path string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(method, path, nil)
	newRouter().ServeHTTP(recorder, request)

	return recorder
}

func TestProbes(t *testing.T) {
	setupTest(t)

	for _, path := range []string{"/v1/liveness", "/v1/readiness"} {
		if recorder := serve(http.MethodGet, path); recorder.Code != http.StatusNoContent {
			t.Errorf("%s returned %d", path, recorder.Code)
		}
	}
}

func TestSyncJobs(t *testing.T) {
	setupTest(t)

	if recorder := serve(http.MethodPost, "/v1/sync/jobs"); recorder.Code != http.StatusNoContent {
		t.Fatalf("unexpected status %d", recorder.Code)
	}
	// A second request while the first is still queued must not block.
	if recorder := serve(http.MethodPost, "/v1/sync/jobs"); recorder.Code != http.StatusNoContent {
		t.Fatalf("unexpected status %d", recorder.Code)
	}
	if len(trueUpRunNow) != 1 {
		t.Fatalf("expected one queued run, got %d", len(trueUpRunNow))
	}

	trueUpInProgress = true
	if recorder := serve(http.MethodPost, "/v1/sync/jobs"); recorder.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 while a run is in progress, got %d", recorder.Code)
	}
	if err := trueUp(context.Background()); err != errRunInProgress {
		t.Fatalf("expected overlapping run to be refused, got %v", err)
	}
}

func TestSyncStatus(t *testing.T) {
	setupTest(t)

	*dryRun = true
	t.Cleanup(func() { *dryRun = false })

	if err := trueUp(context.Background()); err != nil {
		t.Fatalf("trueUp: %v", err)
	}

	recorder := serve(http.MethodGet, "/v1/sync/status")
	if recorder.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", recorder.Code)
	}

	var status struct {
		InProgress bool            `json:"in_progress"`
		LastRun    *manager.Result `json:"last_run"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &status); err != nil {
		t.Fatalf("bad status body %s: %v", recorder.Body.String(), err)
	}
	if status.InProgress || status.LastRun == nil {
		t.Fatalf("unexpected status %+v", status)
	}

	var commands []string
	for _, command := range status.LastRun.Commands {
		commands = append(commands, command.String())
	}
	if len(commands) != 2 || commands[0] != "addzone a.com p1" || commands[1] != "delzone old.com" {
		t.Fatalf("unexpected commands %v", commands)
	}
	if !status.LastRun.Simulate {
		t.Fatalf("dry run not reported")
	}
}
