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
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/miekg/dns"

	"github.com/Cray-HPE/cray-catalog-zone-manager/internal/common"
)

// Zone is the record set of a catalog zone as transferred from the master or read from the cache.
type Zone struct {
	// Origin is normalized (lower case, no trailing dot).
	Origin  string
	Records []dns.RR

	soa *dns.SOA
}

// NewZone builds a Zone out of a transferred record set. The origin SOA must be present. The trailing copy of the
// SOA that closes an AXFR is dropped.
func NewZone(origin string, records []dns.RR) (*Zone, error) {
	zone := &Zone{Origin: common.NormalizeZoneName(origin)}
	apex := common.MakeDomainCanonical(zone.Origin)

	for _, rr := range records {
		soa, ok := rr.(*dns.SOA)
		if ok && strings.EqualFold(soa.Hdr.Name, apex) {
			if zone.soa != nil {
				continue
			}
			zone.soa = soa
		}
		zone.Records = append(zone.Records, rr)
	}

	if zone.soa == nil {
		return nil, fmt.Errorf("no SOA record for %s", apex)
	}

	return zone, nil
}

// SOA returns the SOA record at the zone apex.
func (zone *Zone) SOA() *dns.SOA {
	return zone.soa
}

// Serial returns the SOA serial of the zone.
func (zone *Zone) Serial() uint32 {
	return zone.soa.Serial
}

// SerialNewer reports whether serial a is newer than serial b under RFC 1982 serial number arithmetic.
func SerialNewer(a, b uint32) bool {
	return int32(a-b) > 0
}

// ReadZoneFile parses a master file holding the catalog zone with the given origin.
func ReadZoneFile(path string, origin string) (*Zone, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var records []dns.RR
	parser := dns.NewZoneParser(bufio.NewReader(file), common.MakeDomainCanonical(origin), path)
	for rr, ok := parser.Next(); ok; rr, ok = parser.Next() {
		records = append(records, rr)
	}
	if err := parser.Err(); err != nil {
		return nil, fmt.Errorf("failed to parse zone file %s: %w", path, err)
	}

	return NewZone(origin, records)
}

// WriteZoneFile writes the zone to path as a master file, SOA first. The file is replaced atomically.
func WriteZoneFile(path string, zone *Zone) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create zone file: %w", err)
	}
	defer os.Remove(tmp.Name())

	soa := zone.SOA()
	writer := bufio.NewWriter(tmp)
	fmt.Fprintf(writer, "$ORIGIN %s\n", common.MakeDomainCanonical(zone.Origin))
	fmt.Fprintln(writer, soa.String())
	for _, rr := range zone.Records {
		if rr == dns.RR(soa) {
			continue
		}
		fmt.Fprintln(writer, rr.String())
	}

	if err := writer.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write zone file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write zone file: %w", err)
	}

	return os.Rename(tmp.Name(), path)
}
