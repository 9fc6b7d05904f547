package systems

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/modelview/engine/assets"
	"github.com/spaghettifunk/modelview/engine/core"
	"github.com/spaghettifunk/modelview/engine/strategy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const boxGLTF = `{
  "asset": {"version": "2.0"},
  "scene": 0,
  "scenes": [{"name": "Box", "nodes": [0]}],
  "nodes": [{"name": "Crate", "mesh": 0}],
  "meshes": [{"primitives": [{"attributes": {"POSITION": 0}}]}],
  "accessors": [
    {"componentType": 5126, "count": 8, "type": "VEC3", "min": [-1, -1, -1], "max": [1, 1, 1]}
  ]
}`

const wheelOBJ = `g Wheel
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`

func newTestManager(t *testing.T) *SystemManager {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "box.gltf"), []byte(boxGLTF), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wheel.obj"), []byte(wheelOBJ), 0o644))

	sm, err := NewSystemManager(&SystemManagerConfig{
		AssetDir:  dir,
		ColorMode: strategy.ColorFixed,
		Workers:   2,
	})
	require.NoError(t, err)
	t.Cleanup(func() { sm.Shutdown() })
	return sm
}

func TestSystemManagerWiring(t *testing.T) {
	sm := newTestManager(t)

	assert.Equal(t, []string{"box.gltf", "wheel.obj"}, sm.Locator.List())
	assert.Equal(t, "/assets/", sm.Fetcher.PathPrefix)

	for _, f := range []assets.Format{assets.FormatGLTFBinary, assets.FormatWavefrontOBJ} {
		_, err := sm.Decoders.Get(f)
		assert.NoError(t, err, f.String())
	}
}

func TestSubmitLoadCached(t *testing.T) {
	sm := newTestManager(t)
	ctx := context.Background()

	for gen := uint64(1); gen <= 2; gen++ {
		f, err := sm.SubmitLoad(ctx, assets.Describe("box.gltf"), strategy.Cached, gen)
		require.NoError(t, err)

		v, err := f.Wait(ctx)
		require.NoError(t, err)
		loaded := v.(*strategy.LoadedScene)
		assert.Equal(t, "/assets/box.gltf", loaded.URL)
		assert.NotNil(t, loaded.Root.Find("Crate"))
		assert.EqualValues(t, gen, f.Generation)
	}

	assert.Equal(t, 1, sm.SceneCache.Len())
	loads, fails := sm.Metrics.Counts()
	assert.Equal(t, 2, loads)
	assert.Equal(t, 0, fails)
}

func TestSubmitLoadDirectWavefront(t *testing.T) {
	sm := newTestManager(t)
	ctx := context.Background()

	f, err := sm.SubmitLoad(ctx, assets.Describe("wheel.obj"), strategy.Direct, 1)
	require.NoError(t, err)

	v, err := f.Wait(ctx)
	require.NoError(t, err)
	loaded := v.(*strategy.LoadedScene)
	require.NotEmpty(t, loaded.Inventory)
	for _, m := range loaded.Root.Meshes() {
		assert.True(t, m.CastShadow)
	}
	assert.Equal(t, 0, sm.SceneCache.Len())
}

func TestSubmitLoadMissingAsset(t *testing.T) {
	sm := newTestManager(t)
	ctx := context.Background()

	f, err := sm.SubmitLoad(ctx, assets.Describe("gone.glb"), strategy.Cached, 1)
	require.NoError(t, err)

	_, err = f.Wait(ctx)
	assert.ErrorIs(t, err, core.ErrDecodeFailure)
	_, fails := sm.Metrics.Counts()
	assert.Equal(t, 1, fails)
}

func TestSubmitLoadEscapedNames(t *testing.T) {
	sm := newTestManager(t)
	ctx := context.Background()
	dir := sm.Fetcher.Root
	for _, name := range []string{"wheel #2.obj", "100%.obj"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(wheelOBJ), 0o644))
	}

	locator, err := assets.NewLocator(assets.LocatorConfig{Dir: dir})
	require.NoError(t, err)
	sm.Locator = locator

	for _, name := range []string{"wheel #2.obj", "100%.obj"} {
		require.Contains(t, sm.Locator.List(), name)

		f, err := sm.SubmitLoad(ctx, assets.Describe(name), strategy.Direct, 1)
		require.NoError(t, err)
		v, err := f.Wait(ctx)
		require.NoError(t, err, name)

		loaded := v.(*strategy.LoadedScene)
		assert.Equal(t, name, loaded.Root.Name)
		assert.Equal(t, []string{"Wheel"}, []string(loaded.Inventory))
	}
}
