package strategy

import (
	"context"

	"github.com/spaghettifunk/modelview/engine/assets"
)

// CachedLoader returns the scene held by the shared cache. No post-processing
// is applied: the node is shared with every other user of the same URL.
type CachedLoader struct {
	Cache Cache
}

func NewCachedLoader(cache Cache) *CachedLoader {
	return &CachedLoader{Cache: cache}
}

func (cl *CachedLoader) Load(ctx context.Context, desc assets.AssetDescriptor, url string) (*LoadedScene, error) {
	root, err := cl.Cache.GetOrLoad(ctx, url)
	if err != nil {
		return nil, err
	}
	return &LoadedScene{
		Descriptor: desc,
		Strategy:   Cached,
		ResolvedBy: Cached,
		URL:        url,
		Root:       root,
	}, nil
}
