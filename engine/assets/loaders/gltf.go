package loaders

import (
	"bytes"
	"context"
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/spaghettifunk/modelview/engine/assets"
	"github.com/spaghettifunk/modelview/engine/core"
	"github.com/spaghettifunk/modelview/engine/math"
	"github.com/spaghettifunk/modelview/engine/scene"
)

// GLTF is the decoded form of a glTF/GLB asset. Scene is the default scene,
// Scenes holds every scene of the document in order.
type GLTF struct {
	Scene    *scene.Node
	Scenes   []*scene.Node
	Document *gltf.Document
}

type GLTFLoader struct {
	Fetcher assets.Fetcher
}

func NewGLTFLoader(fetcher assets.Fetcher) *GLTFLoader {
	return &GLTFLoader{Fetcher: fetcher}
}

// Load fetches and decodes url. Both the binary (GLB) and the JSON flavour are
// accepted.
func (gl *GLTFLoader) Load(ctx context.Context, url string) (*GLTF, error) {
	data, err := gl.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("gltf %s: %w: %w", url, core.ErrDecodeFailure, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := new(gltf.Document)
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
		return nil, fmt.Errorf("gltf %s: %w: %w", url, core.ErrDecodeFailure, err)
	}

	out, err := convertDocument(doc, assets.FileName(url))
	if err != nil {
		return nil, fmt.Errorf("gltf %s: %w: %w", url, core.ErrDecodeFailure, err)
	}
	core.LogDebug("gltf %s decoded: %d nodes, %d meshes, %d materials", url, len(doc.Nodes), len(doc.Meshes), len(doc.Materials))
	return out, nil
}

// Decode unwraps the default scene.
func (gl *GLTFLoader) Decode(ctx context.Context, url string) (*scene.Node, error) {
	res, err := gl.Load(ctx, url)
	if err != nil {
		return nil, err
	}
	return res.Scene, nil
}

type gltfConverter struct {
	doc       *gltf.Document
	materials map[int]*scene.Material
	visiting  map[int]bool
}

func convertDocument(doc *gltf.Document, name string) (*GLTF, error) {
	c := &gltfConverter{
		doc:       doc,
		materials: make(map[int]*scene.Material),
		visiting:  make(map[int]bool),
	}

	out := &GLTF{Document: doc}
	if len(doc.Scenes) == 0 {
		// No scene list, mount every root node.
		root := scene.NewGroup(name)
		for _, idx := range c.rootNodes() {
			child, err := c.node(idx)
			if err != nil {
				return nil, err
			}
			root.Add(child)
		}
		out.Scene = root
		out.Scenes = []*scene.Node{root}
		return out, nil
	}

	for i, s := range doc.Scenes {
		sceneName := s.Name
		if sceneName == "" {
			sceneName = fmt.Sprintf("%s#%d", name, i)
		}
		root := scene.NewGroup(sceneName)
		for _, n := range s.Nodes {
			child, err := c.node(int(n))
			if err != nil {
				return nil, err
			}
			root.Add(child)
		}
		out.Scenes = append(out.Scenes, root)
	}

	def := 0
	if doc.Scene != nil {
		def = int(*doc.Scene)
	}
	if def < 0 || def >= len(out.Scenes) {
		return nil, fmt.Errorf("default scene %d out of range", def)
	}
	out.Scene = out.Scenes[def]
	return out, nil
}

func (c *gltfConverter) rootNodes() []int {
	isChild := make(map[int]bool)
	for _, n := range c.doc.Nodes {
		for _, child := range n.Children {
			isChild[int(child)] = true
		}
	}
	var roots []int
	for i := range c.doc.Nodes {
		if !isChild[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

func (c *gltfConverter) node(idx int) (*scene.Node, error) {
	if idx < 0 || idx >= len(c.doc.Nodes) {
		return nil, fmt.Errorf("node %d out of range", idx)
	}
	if c.visiting[idx] {
		return nil, fmt.Errorf("node %d is its own ancestor", idx)
	}
	c.visiting[idx] = true
	defer delete(c.visiting, idx)

	n := c.doc.Nodes[idx]

	var out *scene.Node
	if n.Mesh != nil {
		mesh, err := c.mesh(n.Name, int(*n.Mesh))
		if err != nil {
			return nil, err
		}
		out = mesh
	} else {
		out = scene.NewGroup(n.Name)
	}

	out.Position = math.NewVec3(float32(n.Translation[0]), float32(n.Translation[1]), float32(n.Translation[2]))
	if s := math.NewVec3(float32(n.Scale[0]), float32(n.Scale[1]), float32(n.Scale[2])); s != math.NewVec3Zero() {
		out.Scale = s
	}

	for _, child := range n.Children {
		cn, err := c.node(int(child))
		if err != nil {
			return nil, err
		}
		out.Add(cn)
	}
	return out, nil
}

// mesh converts a glTF mesh. A single primitive becomes a mesh node named
// after the glTF node; several primitives become a group of meshes.
func (c *gltfConverter) mesh(nodeName string, idx int) (*scene.Node, error) {
	if idx < 0 || idx >= len(c.doc.Meshes) {
		return nil, fmt.Errorf("mesh %d out of range", idx)
	}
	m := c.doc.Meshes[idx]
	if nodeName == "" {
		nodeName = m.Name
	}

	if len(m.Primitives) == 1 {
		return c.primitive(nodeName, m.Name, m.Primitives[0])
	}

	group := scene.NewGroup(nodeName)
	for i, p := range m.Primitives {
		child, err := c.primitive(fmt.Sprintf("%s_%d", nodeName, i), m.Name, p)
		if err != nil {
			return nil, err
		}
		group.Add(child)
	}
	return group, nil
}

func (c *gltfConverter) primitive(name, geometryName string, p *gltf.Primitive) (*scene.Node, error) {
	geo := &scene.Geometry{Name: geometryName}
	if pos, ok := p.Attributes["POSITION"]; ok {
		acc, err := c.accessor(int(pos))
		if err != nil {
			return nil, err
		}
		geo.VertexCount = int(acc.Count)
		if len(acc.Min) >= 3 && len(acc.Max) >= 3 {
			geo.Bounds = math.NewBox3(
				math.NewVec3(float32(acc.Min[0]), float32(acc.Min[1]), float32(acc.Min[2])),
				math.NewVec3(float32(acc.Max[0]), float32(acc.Max[1]), float32(acc.Max[2])),
			)
		}
	}
	if p.Indices != nil {
		acc, err := c.accessor(int(*p.Indices))
		if err != nil {
			return nil, err
		}
		geo.IndexCount = int(acc.Count)
	}

	var mat *scene.Material
	if p.Material != nil {
		var err error
		if mat, err = c.material(int(*p.Material)); err != nil {
			return nil, err
		}
	} else {
		mat = &scene.Material{Name: "", Color: math.NewColor(1, 1, 1, 1)}
	}
	return scene.NewMesh(name, geo, mat), nil
}

func (c *gltfConverter) accessor(idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(c.doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", idx)
	}
	return c.doc.Accessors[idx], nil
}

// material is shared between every primitive that references it.
func (c *gltfConverter) material(idx int) (*scene.Material, error) {
	if m, ok := c.materials[idx]; ok {
		return m, nil
	}
	if idx < 0 || idx >= len(c.doc.Materials) {
		return nil, fmt.Errorf("material %d out of range", idx)
	}
	src := c.doc.Materials[idx]
	m := &scene.Material{Name: src.Name, Color: math.NewColor(1, 1, 1, 1)}
	if pbr := src.PBRMetallicRoughness; pbr != nil && pbr.BaseColorFactor != nil {
		f := pbr.BaseColorFactor
		m.Color = math.NewColor(float32(f[0]), float32(f[1]), float32(f[2]), float32(f[3]))
	}
	c.materials[idx] = m
	return m, nil
}
