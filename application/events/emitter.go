package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"list-api/application/ports"
	"list-api/domain/events"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Listener receives item events from the emitter
type Listener interface {
	// Name identifies the listener in logs
	Name() string

	// Accept is called on the emitting goroutine, in registration order, and
	// must not block. The returned work runs on its own goroutine; a nil Work
	// means there is nothing left to do. Errors and panics from either step
	// are logged and reported by the emitter and never reach the caller of
	// EmitItemEvent
	Accept(ctx context.Context, payload events.ItemEventPayload) Work
}

// Work is the asynchronous part of one delivery
type Work func() error

// ListenerFunc adapts a function to the Listener interface. The whole of Fn
// runs as the asynchronous work
type ListenerFunc struct {
	ListenerName string
	Fn           func(ctx context.Context, payload events.ItemEventPayload) error
}

func (f ListenerFunc) Name() string { return f.ListenerName }

func (f ListenerFunc) Accept(ctx context.Context, payload events.ItemEventPayload) Work {
	return func() error {
		return f.Fn(ctx, payload)
	}
}

// EmitterConfig holds the provenance stamped on every payload
type EmitterConfig struct {
	Source          string
	Version         string
	DeliveryTimeout time.Duration
}

// ItemEventExtra carries the request-scoped fields of an emission
type ItemEventExtra struct {
	User        events.User
	APIUser     events.APIUser
	TagsUpdated []string
}

// Clock returns the current time
type Clock func() time.Time

// ItemsEventEmitter is the process-wide bus between mutation resolvers and
// the sinks. Listeners are registered during startup and then only read
type ItemsEventEmitter struct {
	cfg      EmitterConfig
	logger   *zap.Logger
	reporter ports.ErrorReporter
	now      Clock

	mu       sync.RWMutex
	handlers map[events.EventType][]Listener

	inflight sync.WaitGroup
}

// NewItemsEventEmitter creates an emitter with no listeners
func NewItemsEventEmitter(cfg EmitterConfig, logger *zap.Logger, reporter ports.ErrorReporter, now Clock) *ItemsEventEmitter {
	if cfg.DeliveryTimeout <= 0 {
		cfg.DeliveryTimeout = 30 * time.Second
	}
	if now == nil {
		now = time.Now
	}
	return &ItemsEventEmitter{
		cfg:      cfg,
		logger:   logger,
		reporter: reporter,
		now:      now,
		handlers: make(map[events.EventType][]Listener),
	}
}

// On registers listener for eventType. Registering the same listener twice
// dispatches to it twice
func (e *ItemsEventEmitter) On(eventType events.EventType, listener Listener) error {
	if !eventType.Valid() {
		return fmt.Errorf("cannot register %s: unknown event type %q", listener.Name(), eventType)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.handlers[eventType] = append(e.handlers[eventType], listener)
	e.logger.Debug("Registered event listener",
		zap.String("listener", listener.Name()),
		zap.String("eventType", eventType.String()),
		zap.Int("listeners", len(e.handlers[eventType])),
	)
	return nil
}

// ListenerCount returns the number of listeners registered for eventType
func (e *ItemsEventEmitter) ListenerCount(eventType events.EventType) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.handlers[eventType])
}

// EmitItemEvent builds the payload and calls Accept on every listener for
// eventType in registration order, then returns without waiting for the
// work they started
func (e *ItemsEventEmitter) EmitItemEvent(ctx context.Context, eventType events.EventType, savedItem *events.SavedItemRef, extra ItemEventExtra) {
	if !eventType.Valid() {
		e.logger.Error("Dropping emission with unknown event type", zap.String("eventType", eventType.String()))
		return
	}
	if savedItem == nil {
		e.logger.Error("Dropping emission without saved item", zap.String("eventType", eventType.String()))
		return
	}

	payload := events.ItemEventPayload{
		EventID:   uuid.NewString(),
		EventType: eventType,
		User:      extra.User,
		APIUser:   extra.APIUser,
		SavedItem: savedItem,
		Timestamp: e.now().Unix(),
		Source:    e.cfg.Source,
		Version:   e.cfg.Version,
	}
	if eventType.IsTagEvent() {
		payload.TagsUpdated = append(make([]string, 0, len(extra.TagsUpdated)), extra.TagsUpdated...)
	} else if extra.TagsUpdated != nil {
		e.logger.Debug("Ignoring tagsUpdated on non-tag event", zap.String("eventType", eventType.String()))
	}

	e.mu.RLock()
	listeners := make([]Listener, len(e.handlers[eventType]))
	copy(listeners, e.handlers[eventType])
	e.mu.RUnlock()

	if len(listeners) == 0 {
		return
	}

	// Delivery outlives the request that triggered it.
	base := context.WithoutCancel(ctx)
	for _, l := range listeners {
		lctx, cancel := context.WithTimeout(base, e.cfg.DeliveryTimeout)
		work := e.accept(lctx, l, payload)
		if work == nil {
			cancel()
			continue
		}
		e.inflight.Add(1)
		go e.run(lctx, cancel, l, payload, work)
	}
}

// accept runs the synchronous step of l, containing a panic
func (e *ItemsEventEmitter) accept(ctx context.Context, l Listener, payload events.ItemEventPayload) (work Work) {
	defer func() {
		if r := recover(); r != nil {
			e.listenerFailed(ctx, l, payload, fmt.Errorf("listener panicked on accept: %v", r), 0)
			work = nil
		}
	}()
	return l.Accept(ctx, payload)
}

// run executes the asynchronous step of l, containing its errors and panics
func (e *ItemsEventEmitter) run(ctx context.Context, cancel context.CancelFunc, l Listener, payload events.ItemEventPayload, work Work) {
	defer e.inflight.Done()
	defer cancel()

	start := e.now()
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("listener panicked: %v", r)
			}
		}()
		return work()
	}()
	if err != nil {
		e.listenerFailed(ctx, l, payload, err, e.now().Sub(start))
	}
}

func (e *ItemsEventEmitter) listenerFailed(ctx context.Context, l Listener, payload events.ItemEventPayload, err error, elapsed time.Duration) {
	e.logger.Error("Event listener failed",
		zap.String("listener", l.Name()),
		zap.String("eventType", payload.EventType.String()),
		zap.String("eventId", payload.EventID),
		zap.Duration("duration", elapsed),
		zap.Error(err),
	)
	if e.reporter != nil {
		e.reporter.Report(ctx, err, map[string]string{
			"listener":  l.Name(),
			"eventType": payload.EventType.String(),
		})
	}
}

// Wait blocks until every started listener has returned
func (e *ItemsEventEmitter) Wait() {
	e.inflight.Wait()
}

// Shutdown waits for in-flight deliveries or gives up when ctx is done
func (e *ItemsEventEmitter) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		e.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.logger.Info("Event emitter drained")
		return nil
	case <-ctx.Done():
		e.logger.Warn("Event emitter shutdown timed out with deliveries in flight")
		return ctx.Err()
	}
}
