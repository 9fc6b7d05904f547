package strategy

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/spaghettifunk/modelview/engine/assets"
	"github.com/spaghettifunk/modelview/engine/core"
	"github.com/spaghettifunk/modelview/engine/scene"
)

// Graph is what a declarative component gets to work with: the cached scene
// and its named nodes and materials.
type Graph struct {
	URL       string
	Scene     *scene.Node
	Nodes     map[string]*scene.Node
	Materials map[string]*scene.Material
}

// Node returns the named node or an error naming what is missing.
func (g *Graph) Node(name string) (*scene.Node, error) {
	n, ok := g.Nodes[name]
	if !ok {
		return nil, fmt.Errorf("%s: node '%s' not found", g.URL, name)
	}
	return n, nil
}

func (g *Graph) Material(name string) (*scene.Material, error) {
	m, ok := g.Materials[name]
	if !ok {
		return nil, fmt.Errorf("%s: material '%s' not found", g.URL, name)
	}
	return m, nil
}

// GraphConstructor builds the hand-authored node graph of one known asset.
type GraphConstructor func(g *Graph) (*scene.Node, error)

// Registry maps an asset identity (its file name) to its declarative graph.
type Registry struct {
	mutex  sync.RWMutex
	graphs map[string]GraphConstructor
}

func NewRegistry() *Registry {
	return &Registry{graphs: make(map[string]GraphConstructor)}
}

// Register only accepts glTF identities: the graphs describe glTF node trees.
func (r *Registry) Register(identity string, ctor GraphConstructor) error {
	if assets.Classify(identity) != assets.FormatGLTFBinary {
		return fmt.Errorf("declarative graph for '%s': %w", identity, core.ErrUnsupportedFormat)
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.graphs[identity] = ctor
	return nil
}

func (r *Registry) Lookup(identity string) (GraphConstructor, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	ctor, ok := r.graphs[identity]
	return ctor, ok
}

func (r *Registry) Identities() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	out := make([]string, 0, len(r.graphs))
	for id := range r.graphs {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// DeclarativeLoader mounts a registered graph for known assets. Unknown
// assets are loaded exactly like the Cached strategy; Wavefront assets are
// handed to Direct.
type DeclarativeLoader struct {
	Registry *Registry
	Cache    Cache
	Direct   *DirectLoader
}

func NewDeclarativeLoader(registry *Registry, cache Cache, direct *DirectLoader) *DeclarativeLoader {
	return &DeclarativeLoader{
		Registry: registry,
		Cache:    cache,
		Direct:   direct,
	}
}

func (dl *DeclarativeLoader) Load(ctx context.Context, desc assets.AssetDescriptor, url string) (*LoadedScene, error) {
	if desc.Format == assets.FormatWavefrontOBJ {
		loaded, err := dl.Direct.Load(ctx, desc, url)
		if err != nil {
			return nil, err
		}
		loaded.Strategy = Declarative
		return loaded, nil
	}

	ctor, known := dl.Registry.Lookup(desc.FileName)
	if !known {
		loaded, err := NewCachedLoader(dl.Cache).Load(ctx, desc, url)
		if err != nil {
			return nil, err
		}
		loaded.Strategy = Declarative
		return loaded, nil
	}

	cached, err := dl.Cache.GetOrLoad(ctx, url)
	if err != nil {
		return nil, err
	}
	nodes, materials := cached.Index()
	root, err := ctor(&Graph{
		URL:       url,
		Scene:     cached,
		Nodes:     nodes,
		Materials: materials,
	})
	if err != nil {
		return nil, fmt.Errorf("declarative graph %s: %w: %w", desc.FileName, core.ErrDecodeFailure, err)
	}

	return &LoadedScene{
		Descriptor: desc,
		Strategy:   Declarative,
		ResolvedBy: Declarative,
		URL:        url,
		Root:       root,
	}, nil
}
