package core

import "sync"

// System event codes. Application should use codes beyond 255.
type SystemEventCode int

const (
	// A new asset was selected.
	/* Context usage:
	 * Data.(string) = file name
	 */
	EVENT_CODE_ASSET_SELECTED SystemEventCode = 0x01

	// A new loading strategy was selected by the user.
	/* Context usage:
	 * Data.(string) = strategy name
	 */
	EVENT_CODE_STRATEGY_SELECTED SystemEventCode = 0x02

	// The controller overrode the selected strategy (OBJ assets force Direct).
	EVENT_CODE_STRATEGY_FORCED SystemEventCode = 0x03

	// A loaded scene was mounted into the host.
	EVENT_CODE_SCENE_MOUNTED SystemEventCode = 0x04

	// A load failed and the error boundary was engaged.
	/* Context usage:
	 * Data.(error) = the failure
	 */
	EVENT_CODE_LOAD_FAILED SystemEventCode = 0x05

	// The set of available assets changed on disk.
	EVENT_CODE_ASSETS_CHANGED SystemEventCode = 0x06

	MAX_EVENT_CODE SystemEventCode = 0xFF
)

type EventContext struct {
	Type   SystemEventCode
	Sender interface{}
	Data   interface{}
}

// Should return true if handled.
type FnOnEvent func(context EventContext) bool

type registeredEvent struct {
	listener string
	callback FnOnEvent
}

type eventSystemState struct {
	mu         sync.RWMutex
	registered map[SystemEventCode][]*registeredEvent
}

var eventState = &eventSystemState{
	registered: make(map[SystemEventCode][]*registeredEvent),
}

// EventShutdown drops every registration.
func EventShutdown() {
	eventState.mu.Lock()
	defer eventState.mu.Unlock()
	eventState.registered = make(map[SystemEventCode][]*registeredEvent)
}

/**
 * Register to listen for when events are sent with the provided code. Events with duplicate
 * listener names will not be registered again and will cause this to return false.
 */
func EventRegister(code SystemEventCode, listener string, onEvent FnOnEvent) bool {
	eventState.mu.Lock()
	defer eventState.mu.Unlock()

	for _, e := range eventState.registered[code] {
		if e.listener == listener {
			return false
		}
	}
	eventState.registered[code] = append(eventState.registered[code], &registeredEvent{
		listener: listener,
		callback: onEvent,
	})
	return true
}

// EventUnregister removes the listener from code. Returns false if it was not registered.
func EventUnregister(code SystemEventCode, listener string) bool {
	eventState.mu.Lock()
	defer eventState.mu.Unlock()

	events := eventState.registered[code]
	for i, e := range events {
		if e.listener == listener {
			eventState.registered[code] = append(events[:i:i], events[i+1:]...)
			return true
		}
	}
	return false
}

/**
 * Fires an event to listeners of the given code. If an event handler returns
 * true, the event is considered handled and is not passed on to any more listeners.
 */
func EventFire(context EventContext) bool {
	eventState.mu.RLock()
	events := append([]*registeredEvent(nil), eventState.registered[context.Type]...)
	eventState.mu.RUnlock()

	for _, e := range events {
		if e.callback(context) {
			return true
		}
	}
	return false
}
