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
package reconcile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/Cray-HPE/cray-catalog-zone-manager/internal/common"
)

var zoneListEntry = regexp.MustCompile(`^add (\S+) (\S+)$`)

// DesiredState pairs every member zone with the pattern of the catalog that declares it. The catalogs must have
// passed catz.ValidateUnique, a zone claimed twice is reported as an error here as well.
func DesiredState(catalogs []common.Catalog) (common.ZonePatterns, error) {
	desired := make(common.ZonePatterns)
	owners := make(map[string]string)

	for _, catalog := range catalogs {
		for zone := range catalog.Zones {
			if owner, exists := owners[zone]; exists {
				return nil, fmt.Errorf("zone %s declared by both %s and %s", zone, owner, catalog.Origin)
			}
			owners[zone] = catalog.Origin
			desired[zone] = catalog.Pattern
		}
	}

	return desired, nil
}

// ReadZoneList reads the zone list the name server persists its dynamically added zones in. A missing file means
// no zones.
func ReadZoneList(path string) (common.ZonePatterns, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return make(common.ZonePatterns), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open zone list: %w", err)
	}
	defer file.Close()

	return ParseZoneList(file)
}

// ParseZoneList parses "add <zone> <pattern>" lines. Comment lines and lines of any other shape are skipped.
func ParseZoneList(r io.Reader) (common.ZonePatterns, error) {
	current := make(common.ZonePatterns)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if strings.HasPrefix(line, "#") {
			continue
		}

		match := zoneListEntry.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		current[common.NormalizeZoneName(match[1])] = match[2]
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read zone list: %w", err)
	}

	return current, nil
}
