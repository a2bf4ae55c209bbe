package repository

import (
	"context"
	"time"

	"commerce-role-sync/internal/domain/model"
)

// SubscriptionRepository is the read-mostly port over the commerce system's
// subscription records. Only the expiry sweep mutates status.
type SubscriptionRepository interface {
	FindByID(ctx context.Context, id int64) (*model.Subscription, error)
	FindActiveByUser(ctx context.Context, userID int64) ([]*model.Subscription, error)
	FindOverdue(ctx context.Context, asOf time.Time, limit int) ([]*model.Subscription, error)
	MarkExpired(ctx context.Context, id int64) error
	Save(ctx context.Context, sub *model.Subscription) error
}
