package strategy

import (
	"context"
	"sync"

	"github.com/spaghettifunk/modelview/engine/assets"
	"github.com/spaghettifunk/modelview/engine/core"
	"github.com/spaghettifunk/modelview/engine/scene"
	"golang.org/x/sync/singleflight"
)

// Cache hands out one decoded scene per URL.
type Cache interface {
	GetOrLoad(ctx context.Context, url string) (*scene.Node, error)
	Clear()
	Len() int
}

// SceneCache is keyed by the exact URL string. Entries live until Clear.
// Concurrent misses for the same URL share a single decode; failures are not
// stored so the next request tries again.
type SceneCache struct {
	decoders *assets.Decoders

	mutex   sync.RWMutex
	entries map[string]*scene.Node
	group   singleflight.Group
}

func NewSceneCache(decoders *assets.Decoders) *SceneCache {
	return &SceneCache{
		decoders: decoders,
		entries:  make(map[string]*scene.Node),
	}
}

func (sc *SceneCache) GetOrLoad(ctx context.Context, url string) (*scene.Node, error) {
	sc.mutex.RLock()
	node, ok := sc.entries[url]
	sc.mutex.RUnlock()
	if ok {
		return node, nil
	}

	// The decode outlives any single caller: a caller that loses interest
	// stops waiting, the fetch keeps going for the others.
	ch := sc.group.DoChan(url, func() (interface{}, error) {
		return sc.load(context.WithoutCancel(ctx), url)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*scene.Node), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (sc *SceneCache) load(ctx context.Context, url string) (*scene.Node, error) {
	sc.mutex.RLock()
	node, ok := sc.entries[url]
	sc.mutex.RUnlock()
	if ok {
		return node, nil
	}

	decoder, err := sc.decoders.Get(assets.Classify(url))
	if err != nil {
		return nil, err
	}
	core.LogDebug("scene cache miss: %s", url)
	node, err = decoder.Decode(ctx, url)
	if err != nil {
		return nil, err
	}

	sc.mutex.Lock()
	sc.entries[url] = node
	sc.mutex.Unlock()
	return node, nil
}

func (sc *SceneCache) Clear() {
	sc.mutex.Lock()
	defer sc.mutex.Unlock()
	sc.entries = make(map[string]*scene.Node)
}

func (sc *SceneCache) Len() int {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()
	return len(sc.entries)
}
