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
package manager

import (
	"strings"
	"testing"

	"github.com/Cray-HPE/cray-catalog-zone-manager/internal/common"
)

func TestTree(t *testing.T) {
	catalogs := []common.Catalog{
		{Origin: "catz1.example", Pattern: "p1", Zones: common.NewZoneSet("b.com", "a.com")},
		{Origin: "catz2.example", Pattern: "p2", Zones: common.NewZoneSet()},
	}

	rendered := Tree(catalogs).String()

	for _, want := range []string{"catz1.example (p1)", "catz2.example (p2)", "a.com", "b.com"} {
		if !strings.Contains(rendered, want) {
			t.Errorf("tree is missing %q:\n%s", want, rendered)
		}
	}
	if strings.Index(rendered, "a.com") > strings.Index(rendered, "b.com") {
		t.Errorf("member zones are not sorted:\n%s", rendered)
	}
}
