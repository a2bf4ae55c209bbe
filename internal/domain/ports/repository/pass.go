package repository

import (
	"context"
	"time"

	"commerce-role-sync/internal/domain/model"
)

// AccessPassRepository is the port over the all-access pass store. The pass
// store is an optional collaborator; when absent the evaluator runs with a
// capability flag off and never calls this interface.
type AccessPassRepository interface {
	FindByID(ctx context.Context, id int64) (*model.AccessPass, error)
	UserHasActivePass(ctx context.Context, userID, productID int64) (bool, error)
	FindActiveByUserAndProduct(ctx context.Context, userID, productID int64) ([]*model.AccessPass, error)
	FindOverdue(ctx context.Context, asOf time.Time, limit int) ([]*model.AccessPass, error)
	MarkExpired(ctx context.Context, id int64) error
	Save(ctx context.Context, pass *model.AccessPass) error
}
