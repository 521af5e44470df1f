package events

import "list-api/domain/events"

// Registrar is the registration side of the emitter, as seen by sinks
type Registrar interface {
	On(eventType events.EventType, listener Listener) error
}

var _ Registrar = (*ItemsEventEmitter)(nil)
