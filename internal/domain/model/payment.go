package model

import "time"

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusComplete PaymentStatus = "complete"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// CartItem is one line of a completed payment.
type CartItem struct {
	ProductID   int64
	PriceID     int
	AmountCents int64
}

// Payment is the commerce system's purchase record; read-only here.
// CartItems is loaded alongside the payment row.
type Payment struct {
	ID         int64
	UserID     int64
	Status     PaymentStatus
	TotalCents int64
	CreatedAt  time.Time
	CartItems  []CartItem
}

// HasProduct reports whether the cart contains productID.
func (p *Payment) HasProduct(productID int64) bool {
	for _, it := range p.CartItems {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}
