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
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/miekg/dns"

	"github.com/Cray-HPE/cray-catalog-zone-manager/internal/common"
)

const (
	CatalogVersion = 2

	DefaultTTL        = 0
	DefaultSOARefresh = 3600
	DefaultSOARetry   = 600
	DefaultSOAExpire  = math.MaxInt32
	DefaultSOAMinimum = 0

	invalidName = "invalid."
)

// Member is a zone to be listed in a generated catalog, optionally with a group property.
type Member struct {
	Zone  string
	Group *string
}

// MemberID returns the stable identifier of a member zone: the version 5 UUID of its fully qualified name in the
// DNS namespace.
func MemberID(zone string) string {
	return uuid.NewSHA1(uuid.NameSpaceDNS, []byte(common.MakeDomainCanonical(strings.TrimSpace(zone)))).String()
}

// GenerateRecords builds the records of a catalog zone listing members. A zone listed more than once is only
// emitted the first time.
func GenerateRecords(origin string, members []Member, serial uint32) []dns.RR {
	apex := common.MakeDomainCanonical(origin)
	header := func(name string, rrtype uint16) dns.RR_Header {
		return dns.RR_Header{Name: name, Rrtype: rrtype, Class: dns.ClassINET, Ttl: DefaultTTL}
	}

	records := []dns.RR{
		&dns.SOA{
			Hdr:     header(apex, dns.TypeSOA),
			Ns:      invalidName,
			Mbox:    invalidName,
			Serial:  serial,
			Refresh: DefaultSOARefresh,
			Retry:   DefaultSOARetry,
			Expire:  DefaultSOAExpire,
			Minttl:  DefaultSOAMinimum,
		},
		&dns.NS{
			Hdr: header(apex, dns.TypeNS),
			Ns:  invalidName,
		},
		&dns.TXT{
			Hdr: header("version."+apex, dns.TypeTXT),
			Txt: []string{strconv.Itoa(CatalogVersion)},
		},
	}

	seen := make(map[string]struct{}, len(members))
	for _, member := range members {
		zone := common.MakeDomainCanonical(strings.TrimSpace(member.Zone))
		if _, ok := seen[strings.ToLower(zone)]; ok {
			continue
		}
		seen[strings.ToLower(zone)] = struct{}{}
		node := fmt.Sprintf("%s.zones.%s", MemberID(zone), apex)

		records = append(records, &dns.PTR{
			Hdr: header(node, dns.TypePTR),
			Ptr: zone,
		})

		if member.Group != nil {
			records = append(records, &dns.TXT{
				Hdr: header("group."+node, dns.TypeTXT),
				Txt: []string{*member.Group},
			})
		}
	}

	return records
}

// Generate writes a catalog zone listing members to w in master file format.
func Generate(w io.Writer, origin string, members []Member, serial uint32) error {
	writer := bufio.NewWriter(w)
	for _, rr := range GenerateRecords(origin, members, serial) {
		if _, err := fmt.Fprintln(writer, rr.String()); err != nil {
			return err
		}
	}

	return writer.Flush()
}

// ReadMembers reads a zone list. Each line holds a zone name and an optional group, separated by a comma.
func ReadMembers(r io.Reader) ([]Member, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.Comment = '#'
	reader.TrimLeadingSpace = true

	var members []Member
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read zone list: %w", err)
		}

		zone := strings.TrimSpace(row[0])
		if zone == "" {
			continue
		}

		member := Member{Zone: zone}
		if len(row) > 1 {
			if group := strings.TrimSpace(row[1]); group != "" {
				member.Group = &group
			}
		}
		members = append(members, member)
	}

	return members, nil
}
