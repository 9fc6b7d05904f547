package engine

import (
	"github.com/spaghettifunk/modelview/engine/systems"
)

type Game struct {
	ApplicationConfig *ApplicationConfig
	// Set by New once the systems are wired.
	SystemManager *systems.SystemManager
	State         interface{}
	FnInitialize  Initialize
	FnUpdate      Update
	FnRender      Render
	FnShutdown    Shutdown
}

type Initialize func() error
type Update func(deltaTime float64) error
type Render func(frame *FrameState, deltaTime float64) error
type Shutdown func() error
