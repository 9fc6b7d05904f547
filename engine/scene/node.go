// Package scene holds the in-memory scene graph that decoders produce and the
// host mounts. Nodes are plain data: nothing here talks to a GPU.
package scene

import (
	"fmt"
	"strings"

	"github.com/spaghettifunk/modelview/engine/math"
)

type Kind uint8

const (
	KindGroup Kind = iota
	KindMesh
	// KindPrimitive mounts another subtree by reference (Node.Ref).
	KindPrimitive
)

func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindMesh:
		return "mesh"
	case KindPrimitive:
		return "primitive"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

type Geometry struct {
	Name        string
	VertexCount int
	IndexCount  int
	Bounds      math.Box3
}

type Material struct {
	Name  string
	Color math.Color
}

type Node struct {
	Name     string
	Kind     Kind
	Position math.Vec3
	Scale    math.Vec3
	Children []*Node

	// Mesh only.
	Geometry      *Geometry
	Material      *Material
	CastShadow    bool
	ReceiveShadow bool

	// Primitive only.
	Ref *Node
}

func NewGroup(name string, children ...*Node) *Node {
	return &Node{
		Name:     name,
		Kind:     KindGroup,
		Scale:    math.NewVec3One(),
		Children: children,
	}
}

func NewMesh(name string, geometry *Geometry, material *Material) *Node {
	return &Node{
		Name:     name,
		Kind:     KindMesh,
		Scale:    math.NewVec3One(),
		Geometry: geometry,
		Material: material,
	}
}

// NewPrimitive wraps an existing subtree without copying it.
func NewPrimitive(name string, object *Node) *Node {
	return &Node{
		Name:  name,
		Kind:  KindPrimitive,
		Scale: math.NewVec3One(),
		Ref:   object,
	}
}

// NewBox builds a unit-centred box mesh of the given edge length.
func NewBox(name string, size float32, color math.Color) *Node {
	h := size / 2
	return NewMesh(name, &Geometry{
		Name:        name + "Geometry",
		VertexCount: 24,
		IndexCount:  36,
		Bounds:      math.NewBox3(math.NewVec3(-h, -h, -h), math.NewVec3(h, h, h)),
	}, &Material{
		Name:  name + "Material",
		Color: color,
	})
}

func (n *Node) Add(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

func (n *Node) IsMesh() bool {
	return n != nil && n.Kind == KindMesh
}

// String renders the subtree as an indented outline.
func (n *Node) String() string {
	var sb strings.Builder
	n.walk(func(node *Node, depth int) bool {
		sb.WriteString(strings.Repeat("  ", depth))
		name := node.Name
		if name == "" {
			name = "<unnamed>"
		}
		fmt.Fprintf(&sb, "%s (%s)", name, node.Kind)
		if node.Material != nil {
			fmt.Fprintf(&sb, " material=%s %s", node.Material.Name, node.Material.Color.Hex())
		}
		sb.WriteByte('\n')
		return true
	}, 0, map[*Node]bool{})
	return sb.String()
}
