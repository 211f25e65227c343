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
package catz

import (
	"fmt"
	"sort"
	"strings"
)

// TransferError means a catalog zone could not be obtained from its master (or its local zone file).
type TransferError struct {
	Origin string
	Master string
	Err    error
}

func (e *TransferError) Error() string {
	if e.Master == "" {
		return fmt.Sprintf("failed to load catalog zone %s: %v", e.Origin, e.Err)
	}
	return fmt.Sprintf("failed to transfer catalog zone %s from %s: %v", e.Origin, e.Master, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

// CatalogFormatError voids a whole catalog: its content cannot be trusted in part.
type CatalogFormatError struct {
	Origin string
	Reason string
}

func (e *CatalogFormatError) Error() string {
	return fmt.Sprintf("broken catalog zone %s: %s", e.Origin, e.Reason)
}

func formatErrorf(origin string, format string, args ...interface{}) error {
	return &CatalogFormatError{Origin: origin, Reason: fmt.Sprintf(format, args...)}
}

// DuplicateZoneError lists every zone claimed by more than one catalog together with all of its owners.
type DuplicateZoneError struct {
	// Conflicts maps a zone to the sorted origins of the catalogs that claim it.
	Conflicts map[string][]string
}

func (e *DuplicateZoneError) Zones() []string {
	zones := make([]string, 0, len(e.Conflicts))
	for zone := range e.Conflicts {
		zones = append(zones, zone)
	}
	sort.Strings(zones)

	return zones
}

func (e *DuplicateZoneError) Error() string {
	var parts []string
	for _, zone := range e.Zones() {
		parts = append(parts, fmt.Sprintf("%s defined in multiple catalogs: %s", zone,
			strings.Join(e.Conflicts[zone], ", ")))
	}

	return fmt.Sprintf("duplicate zones found in catalogs: %s", strings.Join(parts, "; "))
}
