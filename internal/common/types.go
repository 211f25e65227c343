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
package common

import (
	"fmt"
)

// ZoneSet is a set of normalized zone names.
type ZoneSet map[string]struct{}

// ZonePatterns maps a normalized zone name to the pattern it is (or should be) served with.
type ZonePatterns map[string]string

func NewZoneSet(zones ...string) ZoneSet {
	set := make(ZoneSet, len(zones))
	for _, zone := range zones {
		set.Add(zone)
	}

	return set
}

func (set ZoneSet) Add(zone string) {
	set[NormalizeZoneName(zone)] = struct{}{}
}

func (set ZoneSet) Contains(zone string) bool {
	_, ok := set[NormalizeZoneName(zone)]
	return ok
}

// Catalog pairs a catalog origin with the member zones it declares.
type Catalog struct {
	Origin  string
	Pattern string
	Zones   ZoneSet
}

func (catalog Catalog) String() string {
	return fmt.Sprintf("Origin: %s, Pattern: %s, Zones: %d", catalog.Origin, catalog.Pattern, len(catalog.Zones))
}
