package repository

import (
	"context"

	"commerce-role-sync/internal/domain/model"
)

// PaymentRepository is the read-only port over completed payments.
// FindByID loads the payment with its cart items.
type PaymentRepository interface {
	FindByID(ctx context.Context, id int64) (*model.Payment, error)
	Save(ctx context.Context, p *model.Payment) error
}
