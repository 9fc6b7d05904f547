package assets

import (
	"path"
	"strings"
)

type Format uint8

const (
	FormatUnknown Format = iota
	FormatGLTFBinary
	FormatWavefrontOBJ
)

func (f Format) String() string {
	switch f {
	case FormatGLTFBinary:
		return "gltf"
	case FormatWavefrontOBJ:
		return "wavefront"
	default:
		return "unknown"
	}
}

// AssetDescriptor is derived from the file name alone and never changes for a
// given name.
type AssetDescriptor struct {
	FileName string
	Format   Format
}

// Classify decides the format of fileName from its suffix, ignoring case.
func Classify(fileName string) Format {
	switch strings.ToLower(path.Ext(fileName)) {
	case ".obj":
		return FormatWavefrontOBJ
	case ".glb", ".gltf":
		return FormatGLTFBinary
	default:
		return FormatUnknown
	}
}

func Describe(fileName string) AssetDescriptor {
	return AssetDescriptor{
		FileName: fileName,
		Format:   Classify(fileName),
	}
}
