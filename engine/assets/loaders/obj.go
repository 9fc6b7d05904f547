package loaders

import (
	"context"
	"fmt"

	"github.com/spaghettifunk/modelview/engine/assets"
	"github.com/spaghettifunk/modelview/engine/core"
	"github.com/spaghettifunk/modelview/engine/math"
	"github.com/spaghettifunk/modelview/engine/scene"
	"github.com/udhos/gwob"
)

var defaultOBJColor = math.NewColorHex(0xcccccc)

type OBJLoader struct {
	Fetcher assets.Fetcher
}

func NewOBJLoader(fetcher assets.Fetcher) *OBJLoader {
	return &OBJLoader{Fetcher: fetcher}
}

// Decode returns a group named after the file with one mesh per OBJ group.
// Materials only carry the `usemtl` name, the .mtl library is not read.
func (ol *OBJLoader) Decode(ctx context.Context, url string) (*scene.Node, error) {
	data, err := ol.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("obj %s: %w: %w", url, core.ErrDecodeFailure, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := assets.FileName(url)
	options := &gwob.ObjParserOptions{
		Logger: func(msg string) { core.LogDebug("obj %s: %s", name, msg) },
	}
	o, err := gwob.NewObjFromBuf(name, data, options)
	if err != nil {
		return nil, fmt.Errorf("obj %s: %w: %w", url, core.ErrDecodeFailure, err)
	}

	root := scene.NewGroup(name)
	materials := make(map[string]*scene.Material)
	for _, g := range o.Groups {
		if g.IndexCount == 0 {
			continue
		}
		mat, ok := materials[g.Usemtl]
		if !ok {
			mat = &scene.Material{Name: g.Usemtl, Color: defaultOBJColor}
			materials[g.Usemtl] = mat
		}
		root.Add(scene.NewMesh(g.Name, groupGeometry(o, g), mat))
	}

	core.LogDebug("obj %s decoded: %d groups, %d meshes", url, len(o.Groups), len(root.Children))
	return root, nil
}

// groupGeometry measures the slice of the shared index buffer owned by g.
// Stride values reported by gwob are in bytes.
func groupGeometry(o *gwob.Obj, g *gwob.Group) *scene.Geometry {
	geo := &scene.Geometry{Name: g.Name, IndexCount: g.IndexCount}

	stride := o.StrideSize / 4
	offset := o.StrideOffsetPosition / 4
	if stride <= 0 {
		return geo
	}

	seen := make(map[int]struct{})
	end := g.IndexBegin + g.IndexCount
	for i := g.IndexBegin; i < end && i < len(o.Indices); i++ {
		idx := o.Indices[i]
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}

		base := idx*stride + offset
		if base < 0 || base+2 >= len(o.Coord) {
			continue
		}
		geo.Bounds = geo.Bounds.ExpandByPoint(math.NewVec3(o.Coord[base], o.Coord[base+1], o.Coord[base+2]))
	}
	geo.VertexCount = len(seen)
	return geo
}
