package scene

import (
	"github.com/spaghettifunk/modelview/engine/math"
)

// Traverse visits the subtree depth first, parents before children, following
// primitive references. Returning false from fn skips the node's children.
// A node reachable through several references is visited once.
func (n *Node) Traverse(fn func(*Node) bool) {
	if n == nil {
		return
	}
	n.walk(func(node *Node, _ int) bool { return fn(node) }, 0, map[*Node]bool{})
}

func (n *Node) walk(fn func(*Node, int) bool, depth int, seen map[*Node]bool) {
	if n == nil || seen[n] {
		return
	}
	seen[n] = true
	if !fn(n, depth) {
		return
	}
	if n.Ref != nil {
		n.Ref.walk(fn, depth+1, seen)
	}
	for _, c := range n.Children {
		c.walk(fn, depth+1, seen)
	}
}

// Meshes returns every mesh in traversal order.
func (n *Node) Meshes() []*Node {
	var out []*Node
	n.Traverse(func(node *Node) bool {
		if node.IsMesh() {
			out = append(out, node)
		}
		return true
	})
	return out
}

// Find returns the first node with the given name.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Traverse(func(node *Node) bool {
		if found != nil {
			return false
		}
		if node.Name == name {
			found = node
			return false
		}
		return true
	})
	return found
}

// Index returns the named nodes and materials of the subtree. When names
// repeat, the first one in traversal order wins.
func (n *Node) Index() (map[string]*Node, map[string]*Material) {
	nodes := make(map[string]*Node)
	materials := make(map[string]*Material)
	n.Traverse(func(node *Node) bool {
		if node.Name != "" {
			if _, ok := nodes[node.Name]; !ok {
				nodes[node.Name] = node
			}
		}
		if node.Material != nil && node.Material.Name != "" {
			if _, ok := materials[node.Material.Name]; !ok {
				materials[node.Material.Name] = node.Material
			}
		}
		return true
	})
	return nodes, materials
}

// Bounds is the union of the mesh bounds, offset by each ancestor's position
// and scale.
func (n *Node) Bounds() math.Box3 {
	return n.bounds(math.NewVec3Zero(), math.NewVec3One(), map[*Node]bool{})
}

func (n *Node) bounds(offset, scale math.Vec3, seen map[*Node]bool) math.Box3 {
	var box math.Box3
	if n == nil || seen[n] {
		return box
	}
	seen[n] = true

	s := n.Scale
	if s == (math.Vec3{}) {
		s = math.NewVec3One()
	}
	offset = offset.Add(n.Position.Mul(scale))
	scale = scale.Mul(s)

	if n.Geometry != nil && !n.Geometry.Bounds.IsEmpty() {
		g := n.Geometry.Bounds
		box = box.Union(math.NewBox3(g.Min.Mul(scale).Add(offset), g.Max.Mul(scale).Add(offset)))
	}
	if n.Ref != nil {
		box = box.Union(n.Ref.bounds(offset, scale, seen))
	}
	for _, c := range n.Children {
		box = box.Union(c.bounds(offset, scale, seen))
	}
	return box
}
