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
package control

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/joeig/go-powerdns/v2"
	"go.uber.org/zap/zaptest"

	"github.com/Cray-HPE/cray-catalog-zone-manager/internal/common"
)

func TestManagedZones(t *testing.T) {
	slave := powerdns.SlaveZoneKind
	native := powerdns.NativeZoneKind

	zones := []powerdns.Zone{
		{Name: powerdns.String("A.com."), Kind: &slave, Account: powerdns.String("p1")},
		{Name: powerdns.String("b.com."), Kind: &native, Account: powerdns.String("p1")},
		{Name: powerdns.String("c.com."), Kind: &slave, Account: powerdns.String("")},
		{Name: powerdns.String("d.com."), Kind: &slave},
	}

	want := common.ZonePatterns{"a.com": "p1"}
	if got := managedZones(zones); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected managed zones %v", got)
	}
}

// recordingPowerDNS is a minimal stateful PowerDNS zones API that records every request it serves.
type recordingPowerDNS struct {
	mu          sync.Mutex
	requests    []string
	zones       map[string]powerdns.Zone
	failChanges bool
}

func newRecordingPowerDNS() *recordingPowerDNS {
	slave := powerdns.SlaveZoneKind
	native := powerdns.NativeZoneKind

	return &recordingPowerDNS{zones: map[string]powerdns.Zone{
		"a.com.": {Name: powerdns.String("a.com."), Kind: &slave, Account: powerdns.String("p1")},
		"b.com.": {Name: powerdns.String("b.com."), Kind: &native},
	}}
}

func (server *recordingPowerDNS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	server.mu.Lock()
	defer server.mu.Unlock()

	server.requests = append(server.requests, r.Method+" "+r.URL.Path)
	w.Header().Set("Content-Type", "application/json")

	switch r.Method {
	case http.MethodGet:
		zones := make([]powerdns.Zone, 0, len(server.zones))
		for _, zone := range server.zones {
			zones = append(zones, zone)
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(zones)
	case http.MethodPost:
		var zone powerdns.Zone
		if err := json.NewDecoder(r.Body).Decode(&zone); err != nil || zone.Name == nil {
			w.WriteHeader(http.StatusUnprocessableEntity)
			return
		}
		if _, exists := server.zones[*zone.Name]; exists {
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"error":"Domain '` + *zone.Name + `' already exists"}`))
			return
		}
		server.zones[*zone.Name] = zone
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(zone)
	case http.MethodPut:
		if server.failChanges {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"boom"}`))
			return
		}
		var change powerdns.Zone
		json.NewDecoder(r.Body).Decode(&change)
		name := path.Base(r.URL.Path)
		zone := server.zones[name]
		zone.Account = change.Account
		zone.Masters = change.Masters
		server.zones[name] = zone
		w.WriteHeader(http.StatusNoContent)
	case http.MethodDelete:
		delete(server.zones, path.Base(r.URL.Path))
		w.WriteHeader(http.StatusNoContent)
	}
}

func newTestPowerDNSBackend(t *testing.T, handler http.Handler) *PowerDNSBackend {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := powerdns.NewClient(server.URL, "localhost", map[string]string{"X-API-Key": "test"}, server.Client())
	masters := func(pattern string) []string {
		if pattern == "p1" {
			return []string{"192.0.2.1:53"}
		}
		return nil
	}

	return NewPowerDNSBackend(client, masters, zaptest.NewLogger(t))
}

func TestPowerDNSBackend(t *testing.T) {
	recorder := newRecordingPowerDNS()
	backend := newTestPowerDNSBackend(t, recorder)
	ctx := context.Background()

	current, err := backend.CurrentState(ctx)
	if err != nil {
		t.Fatalf("CurrentState: %v", err)
	}
	if !reflect.DeepEqual(current, common.ZonePatterns{"a.com": "p1"}) {
		t.Fatalf("unexpected current state %v", current)
	}

	if err := backend.AddZone(ctx, "new.com", "p1"); err != nil {
		t.Fatalf("AddZone: %v", err)
	}
	if err := backend.ChangeZone(ctx, "a.com", "p1"); err != nil {
		t.Fatalf("ChangeZone: %v", err)
	}
	if err := backend.DeleteZone(ctx, "a.com"); err != nil {
		t.Fatalf("DeleteZone: %v", err)
	}

	var methods []string
	for _, request := range recorder.requests {
		methods = append(methods, strings.Fields(request)[0])
	}
	want := []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}
	if !reflect.DeepEqual(methods, want) {
		t.Fatalf("unexpected requests %v", recorder.requests)
	}
	if !strings.HasSuffix(recorder.requests[3], "/zones/a.com.") {
		t.Fatalf("delete went to %q", recorder.requests[3])
	}

	added := recorder.zones["new.com."]
	if added.Kind == nil || *added.Kind != powerdns.SlaveZoneKind {
		t.Fatalf("new zone is not a secondary zone: %+v", added)
	}
	if added.Account == nil || *added.Account != "p1" {
		t.Fatalf("new zone was created without its pattern: %+v", added)
	}
	if !reflect.DeepEqual(added.Masters, []string{"192.0.2.1:53"}) {
		t.Fatalf("unexpected masters %v", added.Masters)
	}
}

func TestPowerDNSBackendAddedZoneStaysManaged(t *testing.T) {
	recorder := newRecordingPowerDNS()
	recorder.failChanges = true
	backend := newTestPowerDNSBackend(t, recorder)
	ctx := context.Background()

	if err := backend.AddZone(ctx, "new.com", "p1"); err != nil {
		t.Fatalf("AddZone: %v", err)
	}

	current, err := backend.CurrentState(ctx)
	if err != nil {
		t.Fatalf("CurrentState: %v", err)
	}
	if current["new.com"] != "p1" {
		t.Fatalf("added zone is not reported as managed: %v", current)
	}

	// The next run finds it and can delete it once it leaves its catalog.
	if err := backend.DeleteZone(ctx, "new.com"); err != nil {
		t.Fatalf("DeleteZone: %v", err)
	}
	if _, exists := recorder.zones["new.com."]; exists {
		t.Fatalf("zone was not deleted")
	}
}

func TestPowerDNSBackendUnknownPattern(t *testing.T) {
	recorder := newRecordingPowerDNS()
	backend := newTestPowerDNSBackend(t, recorder)

	if err := backend.AddZone(context.Background(), "new.com", "unknown"); err == nil {
		t.Fatalf("expected an error for a pattern without masters")
	}
	if len(recorder.requests) != 0 {
		t.Fatalf("no request may be sent without masters: %v", recorder.requests)
	}
}
