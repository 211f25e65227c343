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
	"path/filepath"
	"testing"

	"github.com/Cray-HPE/cray-catalog-zone-manager/internal/catz"
)

func TestWriteCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.catz.zone")
	members := []catz.Member{{Zone: "a.com"}, {Zone: "b.com"}}

	if err := writeCatalog(path, members, 1700000000); err != nil {
		t.Fatalf("writeCatalog: %v", err)
	}

	zone, err := catz.ReadZoneFile(path, *origin)
	if err != nil {
		t.Fatalf("written catalog does not parse: %v", err)
	}
	if zone.Serial() != 1700000000 {
		t.Fatalf("unexpected serial %d", zone.Serial())
	}
}

func TestWriteCatalogReportsFailures(t *testing.T) {
	members := []catz.Member{{Zone: "a.com"}}

	if err := writeCatalog(filepath.Join(t.TempDir(), "missing", "out.zone"), members, 1); err == nil {
		t.Errorf("expected an error for an output file that cannot be created")
	}

	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("/dev/full not available")
	}
	if err := writeCatalog("/dev/full", members, 1); err == nil {
		t.Errorf("expected an error when the output cannot be written")
	}
}
