// File: internal/events/dispatcher.go
package events

import (
	"context"

	"github.com/rs/zerolog"
)

// Event is a tagged commerce event with a fixed, typed payload. The commerce
// system is the source of truth; role sync is a passive observer, so handler
// errors are logged and never propagated back to the triggering operation.
type Event interface {
	Name() string
}

type PurchaseCompleted struct {
	PaymentID int64
}

func (PurchaseCompleted) Name() string { return "purchase_completed" }

type SubscriptionExpired struct {
	SubscriptionID int64
}

func (SubscriptionExpired) Name() string { return "subscription_expired" }

type PassExpired struct {
	PassID int64
}

func (PassExpired) Name() string { return "access_pass_expired" }

type PaymentRefunded struct {
	PaymentID int64
}

func (PaymentRefunded) Name() string { return "payment_refunded" }

// HandlerFunc processes one event synchronously within the request that
// raised it.
type HandlerFunc func(ctx context.Context, ev Event) error

// Dispatcher routes events to handlers registered per event name.
// Registration happens once during startup; Dispatch is read-only after that,
// so no locking is needed.
type Dispatcher struct {
	handlers map[string][]HandlerFunc
	log      *zerolog.Logger
}

func NewDispatcher(logger *zerolog.Logger) *Dispatcher {
	dlog := logger.With().Str("component", "Dispatcher").Logger()
	return &Dispatcher{
		handlers: make(map[string][]HandlerFunc),
		log:      &dlog,
	}
}

// Register adds a handler for every event whose Name matches ev's.
func (d *Dispatcher) Register(ev Event, fn HandlerFunc) {
	d.handlers[ev.Name()] = append(d.handlers[ev.Name()], fn)
}

// Dispatch runs all handlers for ev in registration order. Handler errors are
// logged, not returned: a failed role sync must never gate the commerce
// operation that raised the event.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) {
	hs := d.handlers[ev.Name()]
	if len(hs) == 0 {
		d.log.Debug().Str("event", ev.Name()).Msg("no handler registered")
		return
	}
	for _, h := range hs {
		if err := h(ctx, ev); err != nil {
			d.log.Error().Err(err).Str("event", ev.Name()).Msg("event handler failed")
		}
	}
}
