package strategy

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/spaghettifunk/modelview/engine/assets"
	"github.com/spaghettifunk/modelview/engine/math"
	"github.com/spaghettifunk/modelview/engine/scene"
)

const UnnamedMesh = "Unnamed Mesh"

type ColorMode uint8

const (
	// ColorRandom gives every mesh its own random colour.
	ColorRandom ColorMode = iota
	// ColorFixed paints every mesh with DirectLoader.FixedColor.
	ColorFixed
)

func (m ColorMode) String() string {
	if m == ColorFixed {
		return "fixed"
	}
	return "random"
}

func (m ColorMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *ColorMode) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "random":
		*m = ColorRandom
	case "fixed":
		*m = ColorFixed
	default:
		return fmt.Errorf("unknown colour mode '%s'", text)
	}
	return nil
}

// DirectLoader decodes the asset on every call, without any caching. Wavefront
// scenes get a diagnostic pass that recolours meshes, enables shadows and
// records the part inventory.
type DirectLoader struct {
	Decoders   *assets.Decoders
	ColorMode  ColorMode
	FixedColor math.Color

	mutex         sync.Mutex
	lastRoot      *scene.Node
	lastInventory PartInventory
}

func NewDirectLoader(decoders *assets.Decoders, mode ColorMode) *DirectLoader {
	return &DirectLoader{
		Decoders:   decoders,
		ColorMode:  mode,
		FixedColor: math.NewColorHex(0x4f9dde),
	}
}

func (dl *DirectLoader) Load(ctx context.Context, desc assets.AssetDescriptor, url string) (*LoadedScene, error) {
	decoder, err := dl.Decoders.Get(desc.Format)
	if err != nil {
		return nil, err
	}
	root, err := decoder.Decode(ctx, url)
	if err != nil {
		return nil, err
	}

	loaded := &LoadedScene{
		Descriptor: desc,
		Strategy:   Direct,
		ResolvedBy: Direct,
		URL:        url,
		Root:       root,
	}
	if desc.Format == assets.FormatWavefrontOBJ {
		loaded.Inventory = dl.Diagnose(root)
	}
	return loaded, nil
}

// Diagnose overrides the material of every mesh under root, turns shadows on
// and returns the mesh names. The pass runs again only when root differs from
// the previous call.
func (dl *DirectLoader) Diagnose(root *scene.Node) PartInventory {
	dl.mutex.Lock()
	defer dl.mutex.Unlock()

	if root != nil && root == dl.lastRoot {
		return append(PartInventory(nil), dl.lastInventory...)
	}

	inventory := PartInventory{}
	for _, mesh := range root.Meshes() {
		color := dl.FixedColor
		if dl.ColorMode == ColorRandom {
			color = math.RandomColor()
		}
		mesh.Material = &scene.Material{Name: "Diagnostic", Color: color}
		mesh.CastShadow = true
		mesh.ReceiveShadow = true

		name := mesh.Name
		if name == "" {
			name = UnnamedMesh
		}
		inventory = append(inventory, name)
	}

	dl.lastRoot = root
	dl.lastInventory = inventory
	return append(PartInventory(nil), inventory...)
}
