package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"commerce-role-sync/internal/domain/model"
	"commerce-role-sync/internal/domain/ports/repository"
	"commerce-role-sync/internal/events"
	"commerce-role-sync/internal/infra/metrics"
)

// ExpiryWorker periodically marks overdue entitlements expired and dispatches
// the matching expiry events. It stands in for the commerce host's cron-fired
// hooks when the commerce system does not deliver expirations itself.
type ExpiryWorker struct {
	interval   time.Duration
	batchSize  int
	subs       repository.SubscriptionRepository
	passes     repository.AccessPassRepository
	passesOn   bool
	dispatcher *events.Dispatcher
	log        *zerolog.Logger
}

func NewExpiryWorker(
	interval time.Duration,
	batchSize int,
	subs repository.SubscriptionRepository,
	passes repository.AccessPassRepository,
	passesOn bool,
	dispatcher *events.Dispatcher,
	logger *zerolog.Logger,
) *ExpiryWorker {
	exprLog := logger.With().Str("component", "ExpiryWorker").Logger()
	return &ExpiryWorker{
		interval:   interval,
		batchSize:  batchSize,
		subs:       subs,
		passes:     passes,
		passesOn:   passesOn,
		dispatcher: dispatcher,
		log:        &exprLog,
	}
}

func (w *ExpiryWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("Starting expiry worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping expiry worker")
			return ctx.Err()
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

// sweep expires one batch of overdue subscriptions and passes. Each marked
// entitlement produces exactly one expiry event.
func (w *ExpiryWorker) sweep(ctx context.Context) {
	now := time.Now()

	subs, err := w.subs.FindOverdue(ctx, now, w.batchSize)
	if err != nil {
		w.log.Error().Err(err).Msg("find overdue subscriptions failed")
	}
	expired := 0
	for _, sub := range subs {
		if err := w.subs.MarkExpired(ctx, sub.ID); err != nil {
			w.log.Error().Err(err).Int64("subscription_id", sub.ID).Msg("mark subscription expired failed")
			continue
		}
		expired++
		w.dispatcher.Dispatch(ctx, events.SubscriptionExpired{SubscriptionID: sub.ID})
	}
	metrics.IncEntitlementsExpired(string(model.EntitlementKindSubscription), expired)
	if expired > 0 {
		w.log.Info().Int("count", expired).Msg("subscriptions expired")
	}

	if !w.passesOn {
		return
	}

	passes, err := w.passes.FindOverdue(ctx, now, w.batchSize)
	if err != nil {
		w.log.Error().Err(err).Msg("find overdue passes failed")
	}
	expired = 0
	for _, pass := range passes {
		if err := w.passes.MarkExpired(ctx, pass.ID); err != nil {
			w.log.Error().Err(err).Int64("pass_id", pass.ID).Msg("mark pass expired failed")
			continue
		}
		expired++
		w.dispatcher.Dispatch(ctx, events.PassExpired{PassID: pass.ID})
	}
	metrics.IncEntitlementsExpired(string(model.EntitlementKindAccessPass), expired)
	if expired > 0 {
		w.log.Info().Int("count", expired).Msg("access passes expired")
	}
}
