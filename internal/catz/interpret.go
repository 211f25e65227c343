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
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/miekg/dns"
	"go.uber.org/zap"

	"github.com/Cray-HPE/cray-catalog-zone-manager/internal/common"
)

// SupportedVersions are the catalog zone schema versions this interpreter understands.
var SupportedVersions = []int{2}

var versionPattern = regexp.MustCompile(`^\d+$`)

// Content is the interpreted form of a catalog zone.
type Content struct {
	Origin string

	// Version is nil when the catalog has no version record.
	Version *int

	Zones common.ZoneSet
}

type nodeKind int

const (
	nodeUnknown nodeKind = iota
	nodeVersion
	nodeMember
	nodeGroupProperty
	nodeChangeOfOwnershipProperty
	nodeSerialProperty
)

// classifyNode maps a name relative to the catalog origin onto the closed set of node kinds. Anything not
// recognized is nodeUnknown and gets ignored. Custom member properties (<prop>.ext.<id>.zones) are not recognized:
// they end in .zones, are classified as members and fail the single PTR check.
func classifyNode(name string) nodeKind {
	switch {
	case name == "version":
		return nodeVersion
	case strings.HasPrefix(name, "group."):
		return nodeGroupProperty
	case strings.HasPrefix(name, "coo."):
		return nodeChangeOfOwnershipProperty
	case strings.HasPrefix(name, "serial."):
		return nodeSerialProperty
	case strings.HasSuffix(name, ".zones"):
		return nodeMember
	default:
		return nodeUnknown
	}
}

// Interpreter extracts the member zones out of a catalog zone.
type Interpreter struct {
	logger         *zap.Logger
	requireVersion bool
}

// NewInterpreter returns an Interpreter. With requireVersion set a catalog without a version record is rejected,
// otherwise it is accepted with a warning.
func NewInterpreter(logger *zap.Logger, requireVersion bool) *Interpreter {
	return &Interpreter{
		logger:         logger,
		requireVersion: requireVersion,
	}
}

// Interpret walks every node below the catalog origin and returns the member zone set.
func (interpreter *Interpreter) Interpret(zone *Zone) (*Content, error) {
	logger := interpreter.logger.With(zap.String("catalog", zone.Origin))
	content := &Content{
		Origin: zone.Origin,
		Zones:  make(common.ZoneSet),
	}

	nodes := groupNodes(zone)
	names := make([]string, 0, len(nodes))
	for name := range nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		records := nodes[name]

		switch classifyNode(name) {
		case nodeVersion:
			version, err := parseVersion(zone.Origin, records)
			if err != nil {
				return nil, err
			}
			content.Version = &version
		case nodeGroupProperty:
			logger.Info("Group property not supported", zap.String("node", name))
		case nodeChangeOfOwnershipProperty:
			logger.Info("Change of Ownership property not supported", zap.String("node", name))
		case nodeSerialProperty:
			logger.Info("Serial property not supported", zap.String("node", name))
		case nodeMember:
			member, err := parseMember(zone.Origin, name, records)
			if err != nil {
				return nil, err
			}
			content.Zones.Add(member)
		default:
			logger.Debug("Ignoring unknown catalog node", zap.String("node", name))
		}
	}

	if content.Version == nil {
		if interpreter.requireVersion {
			return nil, formatErrorf(zone.Origin, "no version record")
		}
		logger.Warn("Catalog zone has no version record, accepting it anyway")
	}

	logger.Debug("Interpreted catalog zone", zap.Int("zones", len(content.Zones)))

	return content, nil
}

// groupNodes indexes the IN class records of the zone by owner name relative to the origin. Apex records and
// records outside the zone are left out.
func groupNodes(zone *Zone) map[string][]dns.RR {
	suffix := "." + common.MakeDomainCanonical(zone.Origin)

	nodes := make(map[string][]dns.RR)
	for _, rr := range zone.Records {
		header := rr.Header()
		if header.Class != dns.ClassINET {
			continue
		}

		owner := strings.ToLower(common.MakeDomainCanonical(header.Name))
		if !strings.HasSuffix(owner, suffix) {
			continue
		}

		name := strings.TrimSuffix(owner, suffix)
		nodes[name] = append(nodes[name], rr)
	}

	return nodes
}

func parseVersion(origin string, records []dns.RR) (int, error) {
	var txts []*dns.TXT
	for _, rr := range records {
		if txt, ok := rr.(*dns.TXT); ok {
			txts = append(txts, txt)
		}
	}
	if len(txts) != 1 {
		return 0, formatErrorf(origin, "expected exactly one version TXT record, found %d", len(txts))
	}

	value := strings.Join(txts[0].Txt, "")
	if len(txts[0].Txt) != 1 || !versionPattern.MatchString(value) {
		return 0, formatErrorf(origin, "invalid catalog zone version (%q)", value)
	}

	version, err := strconv.Atoi(value)
	if err != nil {
		return 0, formatErrorf(origin, "invalid catalog zone version (%q)", value)
	}

	for _, supported := range SupportedVersions {
		if version == supported {
			return version, nil
		}
	}

	return 0, formatErrorf(origin, "unsupported catalog zone version (%d)", version)
}

func parseMember(origin string, name string, records []dns.RR) (string, error) {
	var ptrs []*dns.PTR
	for _, rr := range records {
		if ptr, ok := rr.(*dns.PTR); ok {
			ptrs = append(ptrs, ptr)
		}
	}
	if len(ptrs) != 1 {
		return "", formatErrorf(origin, "expected exactly one PTR record at %s, found %d", name, len(ptrs))
	}

	member := common.NormalizeZoneName(ptrs[0].Ptr)
	if member == "" {
		return "", formatErrorf(origin, "PTR record at %s does not name a zone", name)
	}

	return member, nil
}
