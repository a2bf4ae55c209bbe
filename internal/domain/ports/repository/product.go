package repository

import (
	"context"

	"commerce-role-sync/internal/domain/model"
)

// ProductCatalog is the read-only port over the commerce product store,
// price options included.
type ProductCatalog interface {
	FindByID(ctx context.Context, id int64) (*model.Product, error)
	ListQualifying(ctx context.Context) ([]*model.Product, error)
}
