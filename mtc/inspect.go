/*
 * inspect.go, part of gomotion.
 *
 * Copyright 2025 The gomotion authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package mtc

import (
	"fmt"
	"strings"
)

// Node is one entry of a container's structural summary: a group or a
// dataset, with its children in container order. The tree is read-only and
// built without materializing any dataset.
type Node struct {
	Name     string
	Kind     string //"group" or "dataset"
	Shape    [2]int //datasets: rows, cols
	Dtype    string //datasets: element type
	Form     string //pose datasets: native storage form
	Attrs    map[string]string
	Children []*Node
}

// Inspect opens a container, builds its structural summary and closes it
// again. For a handle held open anyway, use File.Inspect.
func Inspect(name string) (*Node, error) {
	F, err := Open(name)
	if err != nil {
		return nil, errDecorate(err, "Inspect")
	}
	defer F.Close()
	return F.Inspect(), nil
}

// Inspect returns the structural summary of the container: group names,
// dataset shapes and dtypes, and attributes. It reads nothing beyond the
// directory scanned at Open, so no array is ever materialized. A container
// with zero groups yields a root with no children, and groups without
// derivatives simply lack the derivatives child.
func (F *File) Inspect() *Node {
	root := &Node{Name: "/", Kind: "group"}
	for _, g := range F.groups {
		gn := &Node{Name: g.name, Kind: "group", Attrs: make(map[string]string, len(g.attrs))}
		for _, k := range g.attrKs {
			gn.Attrs[k] = g.attrs[k]
		}
		gn.Children = append(gn.Children, &Node{
			Name:  TransformationsDataset,
			Kind:  "dataset",
			Shape: [2]int{g.pose.rows, g.pose.cols},
			Dtype: "float64",
			Form:  g.pose.form.String(),
		})
		if len(g.derivs) > 0 {
			dn := &Node{Name: "derivatives", Kind: "group"}
			for _, d := range g.derivs {
				dn.Children = append(dn.Children, &Node{
					Name:  d.name,
					Kind:  "dataset",
					Shape: [2]int{d.rows, d.cols},
					Dtype: "float64",
				})
			}
			gn.Children = append(gn.Children, dn)
		}
		root.Children = append(root.Children, gn)
	}
	return root
}

// String renders the summary as an indented tree, one node per line.
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b, 0)
	return b.String()
}

func (n *Node) write(b *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)
	switch n.Kind {
	case "dataset":
		fmt.Fprintf(b, "%s%s: dataset %dx%d %s", indent, n.Name, n.Shape[0], n.Shape[1], n.Dtype)
		if n.Form != "" {
			fmt.Fprintf(b, " (%s)", n.Form)
		}
		b.WriteByte('\n')
	default:
		fmt.Fprintf(b, "%s%s/", indent, n.Name)
		if len(n.Attrs) > 0 {
			fmt.Fprintf(b, " %v", n.Attrs)
		}
		b.WriteByte('\n')
	}
	for _, c := range n.Children {
		c.write(b, depth+1)
	}
}
