package assets

import (
	"context"
	"fmt"
	"sync"

	"github.com/spaghettifunk/modelview/engine/core"
	"github.com/spaghettifunk/modelview/engine/scene"
)

// Decoder turns the asset behind url into a scene node.
type Decoder interface {
	Decode(ctx context.Context, url string) (*scene.Node, error)
}

type DecoderFunc func(ctx context.Context, url string) (*scene.Node, error)

func (f DecoderFunc) Decode(ctx context.Context, url string) (*scene.Node, error) {
	return f(ctx, url)
}

// Decoders maps each supported format to its decoder.
type Decoders struct {
	mutex    sync.RWMutex
	registry map[Format]Decoder
}

func NewDecoders() *Decoders {
	return &Decoders{registry: make(map[Format]Decoder)}
}

// Register loaders for each format. A second registration for the same
// format replaces the first.
func (d *Decoders) Register(format Format, decoder Decoder) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if _, exists := d.registry[format]; exists {
		core.LogWarn("decoder for format %s replaced", format)
	}
	d.registry[format] = decoder
}

func (d *Decoders) Get(format Format) (Decoder, error) {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	decoder, ok := d.registry[format]
	if !ok {
		return nil, fmt.Errorf("no decoder registered for format %s: %w", format, core.ErrUnsupportedFormat)
	}
	return decoder, nil
}
