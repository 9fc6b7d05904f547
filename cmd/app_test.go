package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/modelview/engine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const modelGLTF = `{
  "asset": {"version": "2.0"},
  "scene": 0,
  "scenes": [{"nodes": [0]}],
  "nodes": [{"name": "Crate", "mesh": 0}],
  "meshes": [{"primitives": [{"attributes": {"POSITION": 0}}]}],
  "accessors": [
    {"componentType": 5126, "count": 3, "type": "VEC3", "min": [0, 0, 0], "max": [1, 1, 1]}
  ]
}`

const carOBJ = `g Wheel
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`

func assetDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "model.glb"), []byte(modelGLTF), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "car.obj"), []byte(carOBJ), 0o644))
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := NewApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"modelview"}, args...))
	return out.String(), err
}

func TestListCommand(t *testing.T) {
	out, err := run(t, "--assets", assetDir(t), "list")
	require.NoError(t, err)
	assert.Contains(t, out, "2 model asset(s)")
	assert.Contains(t, out, "model.glb")
	assert.Contains(t, out, "wavefront")
	assert.Contains(t, out, "/assets/car.obj")
	assert.Contains(t, out, "declarative graphs: model.glb")
}

func TestListEscapesURLs(t *testing.T) {
	dir := assetDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wheel #2.obj"), []byte(carOBJ), 0o644))

	out, err := run(t, "-a", dir, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "/assets/wheel%20%232.obj")

	out, err = run(t, "-a", dir, "load", "wheel #2.obj")
	require.NoError(t, err)
	assert.Contains(t, out, "status      mounted")
	assert.Contains(t, out, "Wheel")
}

func TestLoadCommand(t *testing.T) {
	dir := assetDir(t)

	out, err := run(t, "-a", dir, "load", "model.glb")
	require.NoError(t, err)
	assert.Contains(t, out, "status      mounted")
	assert.Contains(t, out, "useGLTF (Drei)")
	assert.Contains(t, out, "Crate")

	out, err = run(t, "-a", dir, "load", "--strategy", "declarative", "model.glb")
	require.NoError(t, err)
	assert.Contains(t, out, "gltfjsx (Component)")
	assert.Contains(t, out, "Model")
}

func TestLoadWavefrontPlaceholder(t *testing.T) {
	dir := assetDir(t)

	out, err := run(t, "-a", dir, "load", "car.obj")
	require.NoError(t, err)
	assert.Contains(t, out, "useLoader (Standard)")
	assert.Contains(t, out, "status      mounted")

	out, err = run(t, "-a", dir, "load", "-s", "cached", "car.obj")
	require.NoError(t, err)
	assert.Contains(t, out, "status      placeholder")
	assert.Contains(t, out, "Placeholder")
}

func TestLoadCommandErrors(t *testing.T) {
	dir := assetDir(t)

	_, err := run(t, "-a", dir, "load")
	assert.Error(t, err)

	_, err = run(t, "-a", dir, "load", "missing.glb")
	assert.ErrorIs(t, err, core.ErrAssetNotFound)

	_, err = run(t, "-a", dir, "load", "-s", "suspense", "model.glb")
	assert.Error(t, err)
}

func TestCompareCommand(t *testing.T) {
	out, err := run(t, "-a", assetDir(t), "compare", "-r", "1", "model.glb")
	require.NoError(t, err)
	for _, label := range []string{"useLoader (Standard)", "useGLTF (Drei)", "gltfjsx (Component)"} {
		assert.Contains(t, out, label)
	}
	assert.Contains(t, out, "3 load(s), 0 failed")
	assert.NotContains(t, out, "recent loads:")

	out, err = run(t, "-v", "-a", assetDir(t), "compare", "-r", "1", "model.glb")
	require.NoError(t, err)
	assert.Contains(t, out, "recent loads:")
	assert.Contains(t, out, "declarative")
}

func TestEventsClearedAfterRun(t *testing.T) {
	noop := func(core.EventContext) bool { return false }
	require.True(t, core.EventRegister(core.EVENT_CODE_LOAD_FAILED, "leftover", noop))

	_, err := run(t, "-a", assetDir(t), "list")
	require.NoError(t, err)

	// A second registration under the same name only succeeds on a clean bus.
	assert.True(t, core.EventRegister(core.EVENT_CODE_LOAD_FAILED, "leftover", noop))
	core.EventUnregister(core.EVENT_CODE_LOAD_FAILED, "leftover")
}

func TestSnippetCommand(t *testing.T) {
	out, err := run(t, "snippet", "use_gltf")
	require.NoError(t, err)
	assert.Contains(t, out, "// useGLTF (Drei)")
	assert.Contains(t, out, "GetOrLoad")

	_, err = run(t, "snippet")
	assert.Error(t, err)
}

func TestConfigFlag(t *testing.T) {
	dir := assetDir(t)
	path := filepath.Join(t.TempDir(), "viewer.toml")
	config := "[assets]\ndir = '" + filepath.ToSlash(dir) + "'\nstatic = []\n\n[viewer]\ndefault_model = 'car.obj'\n"
	require.NoError(t, os.WriteFile(path, []byte(config), 0o644))

	out, err := run(t, "--config", path, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "car.obj")

	_, err = run(t, "--config", filepath.Join(dir, "missing.toml"), "list")
	assert.Error(t, err)
}

func TestWatchCommandStopsAfterTimeout(t *testing.T) {
	out, err := run(t, "-a", assetDir(t), "watch", "-t", "100ms")
	require.NoError(t, err)
	assert.Contains(t, out, "assets: model.glb, car.obj")
}
