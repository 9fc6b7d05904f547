package engine

import (
	gomath "math"
	"testing"

	"github.com/spaghettifunk/modelview/engine/math"
	"github.com/spaghettifunk/modelview/engine/strategy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buttons(p PanelModel) map[strategy.Strategy]StrategyButton {
	out := make(map[strategy.Strategy]StrategyButton)
	for _, b := range p.Strategies {
		out[b.Strategy] = b
	}
	return out
}

func TestPanelForGLTF(t *testing.T) {
	h := newHarness(t, nil)
	p := h.engine.Panel()

	assert.Equal(t, "useGLTF (Drei)", p.ModeLabel)
	assert.Equal(t, Snippet(strategy.Cached), p.Snippet)
	assert.Empty(t, p.Warning)

	require.Len(t, p.Assets, 3)
	assert.Equal(t, "model.glb", p.Assets[0].Name)
	assert.True(t, p.Assets[0].Selected)

	for s, b := range buttons(p) {
		assert.False(t, b.Disabled, s.String())
		assert.Equal(t, s == strategy.Cached, b.Active, s.String())
	}
}

func TestPanelDisablesStrategiesForWavefront(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.engine.Controller().SelectAsset("car.obj"))
	require.NoError(t, h.engine.Controller().SelectStrategy(strategy.Declarative))

	p := h.engine.Panel()
	b := buttons(p)
	assert.False(t, b[strategy.Direct].Disabled)
	assert.True(t, b[strategy.Cached].Disabled)
	assert.True(t, b[strategy.Declarative].Disabled)
	assert.True(t, b[strategy.Declarative].Active)
	assert.Contains(t, p.Warning, "car.obj")
}

func TestSnippets(t *testing.T) {
	for _, s := range strategy.All {
		assert.NotEmpty(t, Snippet(s), s.String())
	}
	assert.Empty(t, Snippet(strategy.Strategy(9)))
}

func distance(v math.Vec3) float64 {
	return gomath.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z))
}

func TestOrbitKeepsDistance(t *testing.T) {
	o := NewOrbitControls(false)
	cam := Camera{Position: math.NewVec3(0, 0, 15)}

	o.Rotate(&cam, gomath.Pi/2, 0)
	assert.InDelta(t, 15, distance(cam.Position), 1e-3)
	assert.InDelta(t, 15, cam.Position.X, 1e-3)
	assert.InDelta(t, 0, cam.Position.Z, 1e-3)

	// The polar angle never flips over the poles.
	o.Rotate(&cam, 0, -10)
	assert.Greater(t, cam.Position.Y, float32(14.9))
	assert.InDelta(t, 15, distance(cam.Position), 1e-3)
}

func TestOrbitZoomClamps(t *testing.T) {
	o := NewOrbitControls(false)
	cam := Camera{Position: math.NewVec3(0, 0, 15)}

	o.Zoom(&cam, 0.5)
	assert.InDelta(t, 7.5, distance(cam.Position), 1e-3)
	o.Zoom(&cam, 1000)
	assert.InDelta(t, o.MaxDistance, distance(cam.Position), 1e-3)
	o.Zoom(&cam, 0)
	assert.InDelta(t, o.MinDistance, distance(cam.Position), 1e-3)
}

func TestOrbitAutoRotate(t *testing.T) {
	o := NewOrbitControls(true)
	cam := Camera{Position: math.NewVec3(0, 0, 15)}

	o.Update(&cam, 1)
	assert.NotEqual(t, math.NewVec3(0, 0, 15), cam.Position)
	assert.InDelta(t, 15, distance(cam.Position), 1e-3)
}
