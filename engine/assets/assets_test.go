package assets

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spaghettifunk/modelview/engine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte{}, 0o644))
}

func TestLocatorStaticList(t *testing.T) {
	l, err := NewLocator(LocatorConfig{Static: []string{"model.glb", "notes.txt", "car.obj", "model.glb"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"model.glb", "car.obj"}, l.List())
	assert.True(t, l.Contains("car.obj"))
	assert.False(t, l.Contains("notes.txt"))
	assert.Equal(t, "/assets/model.glb", l.URL("model.glb"))
	assert.Equal(t, "/assets/", l.PathPrefix())
}

func TestLocatorEnumeratesDirectory(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.glb"))
	touch(t, filepath.Join(dir, "a.OBJ"))
	touch(t, filepath.Join(dir, "readme.md"))
	touch(t, filepath.Join(dir, "vehicles", "truck.gltf"))

	l, err := NewLocator(LocatorConfig{Dir: dir, Static: []string{"b.glb"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"b.glb", "a.OBJ", "vehicles/truck.gltf"}, l.List())

	descriptors := l.Descriptors()
	require.Len(t, descriptors, 3)
	assert.Equal(t, FormatWavefrontOBJ, descriptors[1].Format)
}

func TestLocatorDescribeUnknownAsset(t *testing.T) {
	l, err := NewLocator(LocatorConfig{Static: []string{"model.glb"}})
	require.NoError(t, err)

	_, err = l.Describe("widget.glb")
	assert.ErrorIs(t, err, core.ErrAssetNotFound)

	d, err := l.Describe("model.glb")
	require.NoError(t, err)
	assert.Equal(t, FormatGLTFBinary, d.Format)
}

func TestLocatorCustomTemplate(t *testing.T) {
	l, err := NewLocator(LocatorConfig{Static: []string{"model.glb"}, PathTemplate: "/static/models/%s"})
	require.NoError(t, err)
	assert.Equal(t, "/static/models/model.glb", l.URL("model.glb"))
	assert.Equal(t, "/static/models/", l.PathPrefix())
}

func TestLocatorWatch(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "model.glb"))

	l, err := NewLocator(LocatorConfig{Dir: dir})
	require.NoError(t, err)
	defer l.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, l.Watch(ctx))

	touch(t, filepath.Join(dir, "car.obj"))
	assert.Eventually(t, func() bool { return l.Contains("car.obj") }, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, os.Remove(filepath.Join(dir, "model.glb")))
	assert.Eventually(t, func() bool { return !l.Contains("model.glb") }, 5*time.Second, 20*time.Millisecond)
}

func TestLocatorWatchWithoutDir(t *testing.T) {
	l, err := NewLocator(LocatorConfig{Static: []string{"model.glb"}})
	require.NoError(t, err)
	assert.Error(t, l.Watch(context.Background()))
}

func TestLocatorEscapesNames(t *testing.T) {
	l, err := NewLocator(LocatorConfig{Static: []string{"wheel #2.obj", "100%.obj", "cars/red?.glb"}})
	require.NoError(t, err)

	assert.Equal(t, "/assets/wheel%20%232.obj", l.URL("wheel #2.obj"))
	assert.Equal(t, "/assets/100%25.obj", l.URL("100%.obj"))
	assert.Equal(t, "/assets/cars/red%3F.glb", l.URL("cars/red?.glb"))

	assert.Equal(t, "wheel #2.obj", FileName(l.URL("wheel #2.obj")))
	assert.Equal(t, "100%.obj", FileName(l.URL("100%.obj")))
}
