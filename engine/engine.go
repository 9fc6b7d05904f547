package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/spaghettifunk/modelview/engine/core"
	"github.com/spaghettifunk/modelview/engine/math"
	"github.com/spaghettifunk/modelview/engine/scene"
	"github.com/spaghettifunk/modelview/engine/strategy"
	"github.com/spaghettifunk/modelview/engine/systems"
)

// One frame every ~16ms, the same budget the render loop targets at 60 FPS.
const targetFrameTime = time.Second / 60

var ErrEngineShutdown = errors.New("engine is shut down")

type Status uint8

const (
	// No asset is selected.
	StatusIdle Status = iota
	// A loader strategy is mounted and its future is pending.
	StatusLoading
	// The loaded subtree is mounted.
	StatusMounted
	// The selection is incompatible: the placeholder box is mounted.
	StatusPlaceholder
	// The load failed and the error boundary is engaged.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusMounted:
		return "mounted"
	case StatusPlaceholder:
		return "placeholder"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

type Camera struct {
	Position    math.Vec3
	Target      math.Vec3
	FieldOfView float32
}

type Lighting struct {
	AmbientIntensity float32
	// Name of the environment map preset.
	Environment string
}

// PerfOverlay is the data behind the performance panel.
type PerfOverlay struct {
	Frames      uint64
	FPS         float64
	Loads       int
	Failures    int
	AverageLoad time.Duration
}

// FrameState is what one reconciliation pass produced.
type FrameState struct {
	Generation uint64
	Selection  Selection
	Status     Status
	// Root is the centred subtree mounted under the host, nil while loading.
	Root       *scene.Node
	Overlay    string
	Inventory  strategy.PartInventory
	ResolvedBy strategy.Strategy
	Err        error
	Perf       PerfOverlay
}

// Settled is true once nothing is pending for the current selection.
func (f FrameState) Settled() bool {
	return f.Status != StatusLoading
}

type mountKey struct {
	asset    string
	strategy strategy.Strategy
}

type Engine struct {
	gameInstance  *Game
	systemManager *systems.SystemManager
	controller    *Controller
	listener      string

	ctx    context.Context
	cancel context.CancelFunc

	mutex      sync.Mutex
	camera     Camera
	lighting   Lighting
	orbit      *OrbitControls
	generation uint64
	key        mountKey
	hasKey     bool
	pending    *systems.Future
	results    chan *systems.Future
	current    FrameState
	events     []core.EventContext
	frames     uint64
	startTime  time.Time
	isRunning  bool
}

func New(g *Game) (*Engine, error) {
	if g.ApplicationConfig == nil {
		g.ApplicationConfig = DefaultApplicationConfig()
	}
	config := g.ApplicationConfig
	if err := config.Validate(); err != nil {
		return nil, err
	}
	core.SetLogLevel(core.ParseLogLevel(config.LogLevel))

	sm, err := systems.NewSystemManager(config.systemsConfig())
	if err != nil {
		core.LogError("%s", err.Error())
		return nil, err
	}
	g.SystemManager = sm

	model := config.Viewer.DefaultModel
	if model != "" && !sm.Locator.Contains(model) {
		core.LogWarn("default model '%s' is not available", model)
		model = ""
	}
	controller, err := NewController(sm.Locator, model, config.Viewer.DefaultStrategy)
	if err != nil {
		sm.Shutdown()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		gameInstance:  g,
		systemManager: sm,
		controller:    controller,
		ctx:           ctx,
		cancel:        cancel,
		camera: Camera{
			Position:    config.CameraPosition(),
			Target:      math.NewVec3Zero(),
			FieldOfView: config.Scene.FieldOfView,
		},
		lighting: Lighting{
			AmbientIntensity: config.Scene.AmbientIntensity,
			Environment:      config.Scene.Environment,
		},
		orbit:     NewOrbitControls(config.Scene.AutoRotate),
		results:   make(chan *systems.Future, 16),
		startTime: time.Now(),
	}
	e.listener = fmt.Sprintf("engine-%p", e)
	return e, nil
}

func (e *Engine) Initialize() error {
	core.EventRegister(core.EVENT_CODE_ASSETS_CHANGED, e.listener, e.onAssetsChanged)

	if e.gameInstance.ApplicationConfig.Assets.Watch {
		if err := e.systemManager.Locator.Watch(e.ctx); err != nil {
			return err
		}
	}

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(); err != nil {
			return err
		}
	}

	e.mutex.Lock()
	e.isRunning = true
	e.startTime = time.Now()
	e.mutex.Unlock()

	core.LogInfo("%s initialized", e.gameInstance.ApplicationConfig.Name)
	return nil
}

/**
 * @brief Runs one reconciliation pass of the scene host.
 * The compatibility policy is evaluated before anything is mounted. A changed
 * selection bumps the generation and drops interest in the pending load.
 * @return The state to present for this frame.
 */
func (e *Engine) Frame() FrameState {
	e.mutex.Lock()
	e.frames++
	e.reconcile(e.controller.State())
	e.drain()
	if e.gameInstance.ApplicationConfig.Scene.ShowPerf {
		e.current.Perf = e.perf()
	}
	state := e.current
	events := e.events
	e.events = nil
	e.mutex.Unlock()

	// Listeners may call back into the engine.
	for _, event := range events {
		core.EventFire(event)
	}
	return state
}

func (e *Engine) reconcile(sel Selection) {
	key := mountKey{asset: sel.Asset.FileName, strategy: sel.Strategy}
	if e.hasKey && key == e.key {
		return
	}
	e.key = key
	e.hasKey = true
	e.generation++

	if e.pending != nil {
		e.pending.Cancel()
		e.pending = nil
	}

	state := FrameState{
		Generation: e.generation,
		Selection:  sel,
		ResolvedBy: sel.Strategy,
	}

	switch {
	case sel.Empty():
		state.Status = StatusIdle
		state.Overlay = "No model selected"

	case sel.Compatibility == strategy.Incompatible:
		state.Status = StatusPlaceholder
		state.Root = center(strategy.Placeholder())
		state.Overlay = strategy.IncompatibilityMessage(sel.Asset, sel.Strategy)
		core.LogWarn("%s", state.Overlay)

	default:
		f, err := e.systemManager.SubmitLoad(e.ctx, sel.Asset, sel.Strategy, e.generation)
		if err != nil {
			e.fail(&state, err)
			break
		}
		state.Status = StatusLoading
		state.Overlay = fmt.Sprintf("Loading %s with %s", sel.Asset.FileName, sel.Strategy.Label())
		e.pending = f
		go e.forward(f)
	}

	e.current = state
}

// forward hands a settled future back to the frame loop.
func (e *Engine) forward(f *systems.Future) {
	select {
	case <-f.Done():
	case <-e.ctx.Done():
		return
	}
	select {
	case e.results <- f:
	case <-e.ctx.Done():
	}
}

func (e *Engine) drain() {
	for {
		select {
		case f := <-e.results:
			if err := e.settle(f); err != nil {
				core.LogDebug("load %s discarded: %s", f.RequestID, err.Error())
			}
		default:
			return
		}
	}
}

func (e *Engine) settle(f *systems.Future) error {
	if f != e.pending || f.Generation != e.generation {
		return fmt.Errorf("generation %d, current %d: %w", f.Generation, e.generation, core.ErrStaleLoad)
	}
	e.pending = nil

	value, _, err := f.Poll()
	if err != nil {
		e.fail(&e.current, err)
		return nil
	}

	loaded := value.(*strategy.LoadedScene)
	e.current.Status = StatusMounted
	e.current.Root = center(loaded.Root)
	e.current.Inventory = loaded.Inventory
	e.current.ResolvedBy = loaded.ResolvedBy
	e.current.Overlay = ""
	if loaded.ResolvedBy != loaded.Strategy {
		e.current.Overlay = fmt.Sprintf("%s resolved by %s", loaded.Descriptor.FileName, loaded.ResolvedBy.Label())
	}

	core.LogInfo("mounted %s (%s, generation %d)", loaded.Descriptor.FileName, loaded.Strategy, f.Generation)
	e.events = append(e.events, core.EventContext{
		Type:   core.EVENT_CODE_SCENE_MOUNTED,
		Sender: e,
		Data:   loaded,
	})
	return nil
}

// fail engages the error boundary. Nothing is retried until the selection changes.
func (e *Engine) fail(state *FrameState, err error) {
	state.Status = StatusFailed
	state.Root = nil
	state.Err = err
	state.Overlay = fmt.Sprintf("Failed to load %s: %s", state.Selection.Asset.FileName, err.Error())

	core.LogError("%s", state.Overlay)
	e.events = append(e.events, core.EventContext{
		Type:   core.EVENT_CODE_LOAD_FAILED,
		Sender: e,
		Data:   err,
	})
}

func (e *Engine) perf() PerfOverlay {
	loads, fails := e.systemManager.Metrics.Counts()
	p := PerfOverlay{
		Frames:      e.frames,
		Loads:       loads,
		Failures:    fails,
		AverageLoad: e.systemManager.Metrics.AverageLoadTime(),
	}
	if elapsed := time.Since(e.startTime).Seconds(); elapsed > 0 {
		p.FPS = float64(e.frames) / elapsed
	}
	return p
}

// center wraps root in a group that moves its bounding box centre to the origin.
func center(root *scene.Node) *scene.Node {
	wrapper := scene.NewGroup("Center", root)
	if b := root.Bounds(); !b.IsEmpty() {
		wrapper.Position = b.Center().Scale(-1)
	}
	return wrapper
}

/**
 * @brief Ticks frames until ctx ends or the engine shuts down. Game hooks run
 * around every frame.
 */
func (e *Engine) Run(ctx context.Context) error {
	_, err := e.loop(ctx, false)
	if errors.Is(err, context.Canceled) || errors.Is(err, ErrEngineShutdown) {
		return nil
	}
	return err
}

// WaitSettled ticks frames until the current selection is mounted, shows the
// placeholder or fails.
func (e *Engine) WaitSettled(ctx context.Context) (FrameState, error) {
	return e.loop(ctx, true)
}

func (e *Engine) loop(ctx context.Context, untilSettled bool) (FrameState, error) {
	ticker := time.NewTicker(targetFrameTime)
	defer ticker.Stop()

	last := time.Now()
	for {
		if e.ctx.Err() != nil {
			return e.Current(), ErrEngineShutdown
		}
		now := time.Now()
		delta := now.Sub(last).Seconds()
		last = now

		if e.gameInstance.FnUpdate != nil {
			if err := e.gameInstance.FnUpdate(delta); err != nil {
				core.LogError("game update failed: %s", err.Error())
				return e.Current(), err
			}
		}
		e.mutex.Lock()
		e.orbit.Update(&e.camera, float32(delta))
		e.mutex.Unlock()

		state := e.Frame()
		if e.gameInstance.FnRender != nil {
			if err := e.gameInstance.FnRender(&state, delta); err != nil {
				core.LogError("game render failed: %s", err.Error())
				return state, err
			}
		}
		if untilSettled && state.Settled() {
			return state, nil
		}

		select {
		case <-ctx.Done():
			return state, ctx.Err()
		case <-e.ctx.Done():
			return state, ErrEngineShutdown
		case <-ticker.C:
		}
	}
}

func (e *Engine) Shutdown() error {
	e.mutex.Lock()
	if !e.isRunning && e.ctx.Err() != nil {
		e.mutex.Unlock()
		return nil
	}
	e.isRunning = false
	if e.pending != nil {
		e.pending.Cancel()
		e.pending = nil
	}
	e.mutex.Unlock()

	core.EventUnregister(core.EVENT_CODE_ASSETS_CHANGED, e.listener)
	if e.gameInstance.FnShutdown != nil {
		if err := e.gameInstance.FnShutdown(); err != nil {
			core.LogError("game shutdown failed: %s", err.Error())
		}
	}

	e.cancel()
	return e.systemManager.Shutdown()
}

// Current returns the last frame without reconciling.
func (e *Engine) Current() FrameState {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.current
}

func (e *Engine) Controller() *Controller {
	return e.controller
}

func (e *Engine) SystemManager() *systems.SystemManager {
	return e.systemManager
}

func (e *Engine) Camera() Camera {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.camera
}

func (e *Engine) Lighting() Lighting {
	return e.lighting
}

// Orbit rotates the camera around its target by the given angles in radians.
func (e *Engine) Orbit(azimuth, polar float32) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.orbit.Rotate(&e.camera, azimuth, polar)
}

func (e *Engine) Zoom(factor float32) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.orbit.Zoom(&e.camera, factor)
}

func (e *Engine) onAssetsChanged(context core.EventContext) bool {
	list, ok := context.Data.([]string)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}

	sel := e.controller.State()
	if !sel.Empty() && !containsName(list, sel.Asset.FileName) {
		core.LogWarn("selected asset %s disappeared", sel.Asset.FileName)
		e.controller.Forget(sel.Asset.FileName)
		sel = e.controller.State()
	}
	if sel.Empty() && len(list) > 0 {
		if err := e.controller.SelectAsset(list[0]); err != nil {
			core.LogError("%s", err.Error())
		}
	}
	return false
}

func containsName(list []string, name string) bool {
	for _, v := range list {
		if v == name {
			return true
		}
	}
	return false
}
