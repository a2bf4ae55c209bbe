package model

// ProductType distinguishes ordinary downloads from all-access passes.
type ProductType string

const (
	ProductTypeStandard  ProductType = "standard"
	ProductTypeAllAccess ProductType = "all_access"
)

// PriceOption is one purchasable price of a product. Variable-priced products
// carry several; a product qualifies as recurring if any option recurs.
type PriceOption struct {
	ID          int
	Name        string
	AmountCents int64
	Recurring   bool
	Period      string // day|week|month|year when Recurring
}

type Product struct {
	ID        int64
	Title     string
	Type      ProductType
	Published bool
	Prices    []PriceOption
}

// IsRecurring reports whether any price option of the product recurs.
func (p *Product) IsRecurring() bool {
	for _, po := range p.Prices {
		if po.Recurring {
			return true
		}
	}
	return false
}

func (p *Product) IsAllAccess() bool { return p.Type == ProductTypeAllAccess }

// IsQualifying is the qualification predicate used by the settings sanitizer:
// only published recurring or all-access products may be configured as
// qualifying.
func (p *Product) IsQualifying() bool {
	if p == nil || !p.Published {
		return false
	}
	return p.IsRecurring() || p.IsAllAccess()
}
