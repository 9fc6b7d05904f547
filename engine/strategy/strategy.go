// Package strategy implements the three interchangeable ways of turning a
// selected asset into a mounted scene: Direct, Cached and Declarative.
package strategy

import (
	"context"
	"fmt"
	"strings"

	"github.com/spaghettifunk/modelview/engine/assets"
	"github.com/spaghettifunk/modelview/engine/scene"
)

type Strategy uint8

const (
	Direct Strategy = iota
	Cached
	Declarative
)

// All lists the strategies in the order the UI shows them.
var All = []Strategy{Direct, Cached, Declarative}

const Default = Cached

func (s Strategy) String() string {
	switch s {
	case Direct:
		return "direct"
	case Cached:
		return "cached"
	case Declarative:
		return "declarative"
	default:
		return fmt.Sprintf("strategy(%d)", uint8(s))
	}
}

// Label is the button text of the strategy.
func (s Strategy) Label() string {
	switch s {
	case Direct:
		return "useLoader (Standard)"
	case Cached:
		return "useGLTF (Drei)"
	case Declarative:
		return "gltfjsx (Component)"
	default:
		return s.String()
	}
}

// ParseStrategy accepts the strategy name or its historical mode key
// (USE_LOADER, USE_GLTF, GLTF_JSX), ignoring case.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "direct", "use_loader", "useloader":
		return Direct, nil
	case "cached", "use_gltf", "usegltf":
		return Cached, nil
	case "declarative", "gltf_jsx", "gltfjsx":
		return Declarative, nil
	default:
		return 0, fmt.Errorf("unknown loading strategy '%s'", s)
	}
}

// MarshalText / UnmarshalText let the strategy appear in TOML config.
func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// PartInventory lists mesh names in traversal order.
type PartInventory []string

// LoadedScene is valid for exactly one (descriptor, strategy) pair.
type LoadedScene struct {
	Descriptor assets.AssetDescriptor
	Strategy   Strategy
	// ResolvedBy is the strategy that produced Root. It differs from Strategy
	// when Declarative falls back to Cached or defers to Direct.
	ResolvedBy Strategy
	URL        string
	Root       *scene.Node
	Inventory  PartInventory
}

// Loader is implemented by every strategy.
type Loader interface {
	Load(ctx context.Context, desc assets.AssetDescriptor, url string) (*LoadedScene, error)
}
