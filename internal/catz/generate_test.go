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
	"bytes"
	"strings"
	"testing"

	"github.com/miekg/dns"
	"go.uber.org/zap"
)

func TestGenerateRoundTrip(t *testing.T) {
	group := "blue"
	members := []Member{
		{Zone: "example.com"},
		{Zone: "Example.NET."},
		{Zone: "example.org", Group: &group},
	}

	var buf bytes.Buffer
	if err := Generate(&buf, "test.catz.", members, 1700000000); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	var records []dns.RR
	parser := dns.NewZoneParser(strings.NewReader(buf.String()), "test.catz.", "")
	for rr, ok := parser.Next(); ok; rr, ok = parser.Next() {
		records = append(records, rr)
	}
	if err := parser.Err(); err != nil {
		t.Fatalf("generated zone does not parse: %v\n%s", err, buf.String())
	}

	zone, err := NewZone("test.catz", records)
	if err != nil {
		t.Fatalf("NewZone: %v", err)
	}
	if zone.Serial() != 1700000000 {
		t.Fatalf("unexpected serial %d", zone.Serial())
	}

	content, err := NewInterpreter(zap.NewNop(), true).Interpret(zone)
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if content.Version == nil || *content.Version != CatalogVersion {
		t.Fatalf("unexpected version %v", content.Version)
	}

	want := []string{"example.com", "example.net", "example.org"}
	if len(content.Zones) != len(want) {
		t.Fatalf("unexpected members %v", content.Zones)
	}
	for _, zone := range want {
		if _, ok := content.Zones[zone]; !ok {
			t.Errorf("missing member %s", zone)
		}
	}

	if !strings.Contains(buf.String(), "group."+MemberID("example.org")+".zones.test.catz.") {
		t.Errorf("group property missing from output:\n%s", buf.String())
	}
}

func TestMemberIDIsStable(t *testing.T) {
	if got := MemberID("example.com"); got != MemberID("example.com.") {
		t.Fatalf("MemberID depends on the trailing dot: %s", got)
	}
	if MemberID("example.com") == MemberID("example.net") {
		t.Fatalf("distinct zones share an identifier")
	}
	if got := MemberID("example.com"); len(got) != 36 || got[14] != '5' {
		t.Fatalf("not a version 5 UUID: %s", got)
	}
}

func TestReadMembers(t *testing.T) {
	input := "# zones\nexample.com\nexample.net, red\n\n  example.org ,\n"

	members, err := ReadMembers(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadMembers: %v", err)
	}
	if len(members) != 3 {
		t.Fatalf("expected 3 members, got %d", len(members))
	}
	if members[0].Zone != "example.com" || members[0].Group != nil {
		t.Errorf("unexpected first member %+v", members[0])
	}
	if members[1].Group == nil || *members[1].Group != "red" {
		t.Errorf("unexpected second member %+v", members[1])
	}
	if members[2].Zone != "example.org" || members[2].Group != nil {
		t.Errorf("unexpected third member %+v", members[2])
	}
}

func TestGenerateSkipsRepeatedZones(t *testing.T) {
	records := GenerateRecords("test.catz", []Member{{Zone: "a.com"}, {Zone: "A.com."}, {Zone: "b.com"}}, 1)

	ptrs := 0
	for _, rr := range records {
		if _, ok := rr.(*dns.PTR); ok {
			ptrs++
		}
	}
	if ptrs != 2 {
		t.Fatalf("expected 2 member records, got %d", ptrs)
	}

	zone, err := NewZone("test.catz", records)
	if err != nil {
		t.Fatalf("NewZone: %v", err)
	}
	if _, err := NewInterpreter(zap.NewNop(), true).Interpret(zone); err != nil {
		t.Fatalf("Interpret: %v", err)
	}
}
