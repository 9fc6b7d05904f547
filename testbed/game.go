package testbed

import (
	"fmt"

	"github.com/spaghettifunk/modelview/engine"
	"github.com/spaghettifunk/modelview/engine/core"
	"github.com/spaghettifunk/modelview/engine/scene"
	"github.com/spaghettifunk/modelview/engine/strategy"
)

// ModelIdentity is the asset the hand-authored graph below was written for.
const ModelIdentity = "model.glb"

type ViewerGame struct {
	*engine.Game
}

type gameState struct {
	lastStatus     engine.Status
	lastGeneration uint64
	lastOverlay    string
	elapsed        float64
}

func NewViewerGame(config *engine.ApplicationConfig) *ViewerGame {
	vg := &ViewerGame{
		Game: &engine.Game{
			ApplicationConfig: config,
			State:             &gameState{},
		},
	}

	vg.FnInitialize = vg.Initialize
	vg.FnUpdate = vg.Update
	vg.FnRender = vg.Render
	vg.FnShutdown = vg.Shutdown

	return vg
}

func (g *ViewerGame) Initialize() error {
	core.LogDebug("ViewerGame Initialize fn....")

	if g.SystemManager == nil {
		return fmt.Errorf("the engine is not yet initialized with all the system managers")
	}

	if err := g.SystemManager.Registry.Register(ModelIdentity, ModelGraph); err != nil {
		return err
	}

	core.EventRegister(core.EVENT_CODE_STRATEGY_FORCED, "testbed", g.onEvent)
	core.EventRegister(core.EVENT_CODE_ASSETS_CHANGED, "testbed", g.onEvent)
	return nil
}

func (g *ViewerGame) Update(deltaTime float64) error {
	g.State.(*gameState).elapsed += deltaTime
	return nil
}

// Render logs every status or overlay change of the mounted scene.
func (g *ViewerGame) Render(frame *engine.FrameState, deltaTime float64) error {
	state := g.State.(*gameState)
	if frame.Status == state.lastStatus && frame.Generation == state.lastGeneration && frame.Overlay == state.lastOverlay {
		return nil
	}
	state.lastStatus = frame.Status
	state.lastGeneration = frame.Generation
	state.lastOverlay = frame.Overlay

	core.LogDebug("frame %d: %s %s (%s) after %.2fs", frame.Generation, frame.Status, frame.Selection.Asset.FileName, frame.Selection.Strategy, state.elapsed)
	if frame.Overlay != "" {
		core.LogInfo("%s", frame.Overlay)
	}
	return nil
}

func (g *ViewerGame) Shutdown() error {
	core.EventUnregister(core.EVENT_CODE_STRATEGY_FORCED, "testbed")
	core.EventUnregister(core.EVENT_CODE_ASSETS_CHANGED, "testbed")
	return nil
}

func (g *ViewerGame) onEvent(context core.EventContext) bool {
	switch context.Type {
	case core.EVENT_CODE_STRATEGY_FORCED:
		core.LogInfo("strategy forced to %v", context.Data)
	case core.EVENT_CODE_ASSETS_CHANGED:
		core.LogInfo("assets changed: %v", context.Data)
	}
	return false
}

// ModelGraph is the declarative component of model.glb: the cached scene
// mounted by reference inside its own group. The shared scene is not modified.
func ModelGraph(g *strategy.Graph) (*scene.Node, error) {
	if g.Scene == nil {
		return nil, fmt.Errorf("%s: empty scene", g.URL)
	}
	return scene.NewGroup("Model", scene.NewPrimitive("Scene", g.Scene)), nil
}
