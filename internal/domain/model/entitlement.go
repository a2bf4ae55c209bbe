package model

import "time"

// EntitlementStatus is shared by subscriptions and access passes.
type EntitlementStatus string

const (
	EntitlementStatusPending   EntitlementStatus = "pending"
	EntitlementStatusActive    EntitlementStatus = "active"
	EntitlementStatusExpired   EntitlementStatus = "expired"
	EntitlementStatusCancelled EntitlementStatus = "cancelled"
)

type EntitlementKind string

const (
	EntitlementKindSubscription EntitlementKind = "subscription"
	EntitlementKindAccessPass   EntitlementKind = "access_pass"
)

// Subscription is a recurring entitlement linking a user to a product.
// Owned by the commerce system; read-only here apart from the expiry sweep.
type Subscription struct {
	ID        int64
	UserID    int64
	ProductID int64
	PaymentID int64
	Status    EntitlementStatus
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (s *Subscription) IsActive() bool { return s.Status == EntitlementStatusActive }

// Overdue reports whether an active subscription has passed its expiry time.
func (s *Subscription) Overdue(asOf time.Time) bool {
	return s.IsActive() && !s.ExpiresAt.IsZero() && s.ExpiresAt.Before(asOf)
}

// AccessPass is a non-recurring all-access entitlement.
type AccessPass struct {
	ID        int64
	UserID    int64
	ProductID int64
	PaymentID int64
	Status    EntitlementStatus
	CreatedAt time.Time
	ExpiresAt time.Time // zero means the pass never expires
}

func (p *AccessPass) IsActive() bool { return p.Status == EntitlementStatusActive }

func (p *AccessPass) Overdue(asOf time.Time) bool {
	return p.IsActive() && !p.ExpiresAt.IsZero() && p.ExpiresAt.Before(asOf)
}
