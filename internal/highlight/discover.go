// Package highlight lists the named nodes of a model and tints one of them
// at a time, keeping enough of its original appearance to undo the tint.
package highlight

import (
	"fmt"
	"strings"

	"model-viewer/internal/scenegraph"
)

// NodeDescriptor describes one named node for the node list.
type NodeDescriptor struct {
	Name        string
	Type        string
	Depth       int
	HasGeometry bool
	HasMaterial bool
	Children    int

	Node *scenegraph.Node
}

// String renders the descriptor as an indented list line, for example
// "  Bucket (Mesh) [geo, mat, 2 children]".
func (d NodeDescriptor) String() string {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", d.Depth))
	fmt.Fprintf(&b, "%s (%s)", d.Name, d.Type)
	var details []string
	if d.HasGeometry {
		details = append(details, "geo")
	}
	if d.HasMaterial {
		details = append(details, "mat")
	}
	if d.Children > 0 {
		details = append(details, fmt.Sprintf("%d children", d.Children))
	}
	if len(details) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(details, ", "))
	}
	return b.String()
}

// Discover walks root depth first, parent before children, and returns a
// descriptor for every node whose name is not blank.
func Discover(root *scenegraph.Node) []NodeDescriptor {
	if root == nil {
		return nil
	}
	var out []NodeDescriptor
	root.Walk(func(n *scenegraph.Node, depth int) bool {
		if strings.TrimSpace(n.Name) == "" {
			return true
		}
		typ := n.Type
		if typ == "" {
			typ = scenegraph.TypeObject3D
		}
		out = append(out, NodeDescriptor{
			Name:        n.Name,
			Type:        typ,
			Depth:       depth,
			HasGeometry: n.Geometry != nil,
			HasMaterial: len(n.Materials) > 0,
			Children:    len(n.Children()),
			Node:        n,
		})
		return true
	})
	return out
}
