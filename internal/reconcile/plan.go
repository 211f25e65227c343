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
	"fmt"
	"sort"

	"github.com/Cray-HPE/cray-catalog-zone-manager/internal/common"
)

type OperationKind int

const (
	OperationAdd OperationKind = iota
	OperationChange
	OperationDelete
)

func (kind OperationKind) String() string {
	switch kind {
	case OperationAdd:
		return "add"
	case OperationChange:
		return "change"
	case OperationDelete:
		return "delete"
	default:
		return fmt.Sprintf("OperationKind(%d)", int(kind))
	}
}

// Operation is one step of a Plan. Pattern is empty for deletes.
type Operation struct {
	Kind    OperationKind
	Zone    string
	Pattern string
}

func (operation Operation) String() string {
	if operation.Kind == OperationDelete {
		return fmt.Sprintf("%s %s", operation.Kind, operation.Zone)
	}
	return fmt.Sprintf("%s %s %s", operation.Kind, operation.Zone, operation.Pattern)
}

func Add(zone string, pattern string) Operation {
	return Operation{Kind: OperationAdd, Zone: zone, Pattern: pattern}
}

func Change(zone string, pattern string) Operation {
	return Operation{Kind: OperationChange, Zone: zone, Pattern: pattern}
}

func Delete(zone string) Operation {
	return Operation{Kind: OperationDelete, Zone: zone}
}

// Plan is the set of operations that turns the current zone set into the desired one. Every zone appears at most
// once, so the operations can be applied in any order. They are kept as adds, then changes, then deletes, each
// group sorted by zone name.
type Plan struct {
	Operations []Operation
	Unchanged  int
}

func (plan Plan) Empty() bool {
	return len(plan.Operations) == 0
}

// Counts returns the number of operations of each kind.
func (plan Plan) Counts() map[OperationKind]int {
	counts := make(map[OperationKind]int)
	for _, operation := range plan.Operations {
		counts[operation.Kind]++
	}

	return counts
}

// Reconcile diffs the desired zone -> pattern mapping against the current one. Both mappings must hold normalized
// zone names. The result depends on nothing but the two mappings.
func Reconcile(desired common.ZonePatterns, current common.ZonePatterns) Plan {
	var plan Plan

	for _, zone := range common.SortedKeys(desired) {
		pattern := desired[zone]
		currentPattern, exists := current[zone]

		switch {
		case !exists:
			plan.Operations = append(plan.Operations, Add(zone, pattern))
		case currentPattern != pattern:
			plan.Operations = append(plan.Operations, Change(zone, pattern))
		default:
			plan.Unchanged++
		}
	}

	for _, zone := range common.SortedKeys(current) {
		if _, wanted := desired[zone]; !wanted {
			plan.Operations = append(plan.Operations, Delete(zone))
		}
	}

	// Adds and changes come out of the same pass; keep the kinds grouped.
	sort.SliceStable(plan.Operations, func(i, j int) bool {
		return plan.Operations[i].Kind < plan.Operations[j].Kind
	})

	return plan
}
