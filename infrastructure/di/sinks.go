package di

import (
	"fmt"

	appevents "list-api/application/events"
)

// Sink is a handler that subscribes itself to the emitter
type Sink interface {
	Register(r appevents.Registrar) error
}

// RegisterSinks subscribes every sink, in order, to one shared emitter.
// It must run before the first emission
func RegisterSinks(r appevents.Registrar, sinks ...Sink) error {
	for i, s := range sinks {
		if err := s.Register(r); err != nil {
			return fmt.Errorf("failed to register sink %d (%T): %w", i, s, err)
		}
	}
	return nil
}
