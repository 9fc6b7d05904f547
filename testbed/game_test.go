package testbed

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spaghettifunk/modelview/engine"
	"github.com/spaghettifunk/modelview/engine/scene"
	"github.com/spaghettifunk/modelview/engine/strategy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The glTF decoder accepts the JSON encoding under any extension.
const modelGLTF = `{
  "asset": {"version": "2.0"},
  "scene": 0,
  "scenes": [{"name": "Scene", "nodes": [0]}],
  "nodes": [{"name": "Robot", "mesh": 0}],
  "meshes": [{"name": "RobotMesh", "primitives": [{"attributes": {"POSITION": 0}, "material": 0}]}],
  "materials": [{"name": "Metal"}],
  "accessors": [
    {"componentType": 5126, "count": 3, "type": "VEC3", "min": [0, 0, 0], "max": [1, 1, 1]}
  ]
}`

func TestViewerMountsDeclarativeGraph(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ModelIdentity), []byte(modelGLTF), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "widget.glb"), []byte(modelGLTF), 0o644))

	config := engine.DefaultApplicationConfig()
	config.Assets.Dir = dir
	config.Viewer.DefaultStrategy = strategy.Declarative

	game := NewViewerGame(config)
	e, err := engine.New(game.Game)
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	defer e.Shutdown()

	assert.Equal(t, []string{ModelIdentity}, game.SystemManager.Registry.Identities())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	state, err := e.WaitSettled(ctx)
	require.NoError(t, err)
	require.Equal(t, engine.StatusMounted, state.Status, state.Overlay)
	assert.Equal(t, strategy.Declarative, state.ResolvedBy)

	model := state.Root.Children[0]
	assert.Equal(t, "Model", model.Name)
	require.Len(t, model.Children, 1)
	assert.Equal(t, scene.KindPrimitive, model.Children[0].Kind)
	assert.NotNil(t, model.Children[0].Ref.Find("Robot"))

	// An unregistered asset goes through the cache instead.
	require.NoError(t, e.Controller().SelectAsset("widget.glb"))
	state, err = e.WaitSettled(ctx)
	require.NoError(t, err)
	require.Equal(t, engine.StatusMounted, state.Status, state.Overlay)
	assert.Equal(t, strategy.Cached, state.ResolvedBy)
}

func TestModelGraphRequiresScene(t *testing.T) {
	_, err := ModelGraph(&strategy.Graph{URL: "/assets/model.glb"})
	assert.Error(t, err)
}
