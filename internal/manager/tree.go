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
	"fmt"

	"github.com/xlab/treeprint"

	"github.com/Cray-HPE/cray-catalog-zone-manager/internal/common"
)

// Tree renders catalog ownership: one branch per catalog, labelled with its pattern, holding its member zones.
func Tree(catalogs []common.Catalog) treeprint.Tree {
	tree := treeprint.New()

	for _, catalog := range catalogs {
		catalogBranch := tree.AddBranch(fmt.Sprintf("%s (%s)", catalog.Origin, catalog.Pattern))

		for _, zone := range common.SortedZoneNames(catalog.Zones) {
			catalogBranch.AddNode(zone)
		}
	}

	return tree
}
