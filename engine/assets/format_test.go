package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := map[string]Format{
		"car.obj":           FormatWavefrontOBJ,
		"CAR.OBJ":           FormatWavefrontOBJ,
		"Car.ObJ":           FormatWavefrontOBJ,
		"model.glb":         FormatGLTFBinary,
		"MODEL.GLB":         FormatGLTFBinary,
		"scene.gltf":        FormatGLTFBinary,
		"Scene.GlTf":        FormatGLTFBinary,
		"nested/dir/x.obj":  FormatWavefrontOBJ,
		"texture.png":       FormatUnknown,
		"obj":               FormatUnknown,
		"model.glb.bak":     FormatUnknown,
		"":                  FormatUnknown,
		"archive.obj.zip":   FormatUnknown,
		"weird.name.gltf":   FormatGLTFBinary,
		".obj":              FormatWavefrontOBJ,
		"model.fbx":         FormatUnknown,
		"http://x/a/b.glb":  FormatGLTFBinary,
		"no-extension-here": FormatUnknown,
	}
	for name, want := range cases {
		assert.Equal(t, want, Classify(name), name)
		// stable
		assert.Equal(t, Classify(name), Classify(name), name)
	}
}

func TestDescribe(t *testing.T) {
	d := Describe("Wheel.OBJ")
	assert.Equal(t, "Wheel.OBJ", d.FileName)
	assert.Equal(t, FormatWavefrontOBJ, d.Format)
	assert.Equal(t, "wavefront", d.Format.String())
}
