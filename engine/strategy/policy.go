package strategy

import (
	"fmt"

	"github.com/spaghettifunk/modelview/engine/assets"
	"github.com/spaghettifunk/modelview/engine/math"
	"github.com/spaghettifunk/modelview/engine/scene"
)

type Compatibility uint8

const (
	Compatible Compatibility = iota
	Incompatible
)

func (c Compatibility) String() string {
	if c == Incompatible {
		return "incompatible"
	}
	return "compatible"
}

// Evaluate is the fallback policy: Wavefront assets can only be loaded by the
// Direct strategy. Nothing else is ever incompatible.
func Evaluate(format assets.Format, s Strategy) Compatibility {
	switch format {
	case assets.FormatWavefrontOBJ:
		if s != Direct {
			return Incompatible
		}
		return Compatible
	case assets.FormatGLTFBinary, assets.FormatUnknown:
		return Compatible
	default:
		panic(fmt.Sprintf("unhandled format %d", format))
	}
}

var placeholderColor = math.NewColorHex(0xff8c00)

const placeholderSize float32 = 2

// Placeholder is the box mounted instead of any loader while incompatible.
func Placeholder() *scene.Node {
	return scene.NewBox("Placeholder", placeholderSize, placeholderColor)
}

// IncompatibilityMessage is the overlay text shown next to the placeholder.
func IncompatibilityMessage(desc assets.AssetDescriptor, s Strategy) string {
	return fmt.Sprintf(
		"%s is a %s file and cannot be loaded with %s. Switch to %s to view it.",
		desc.FileName, desc.Format, s.Label(), Direct.Label(),
	)
}
