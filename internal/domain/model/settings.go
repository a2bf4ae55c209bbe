package model

// Role slugs the service will never assign or remove automatically.
// Mirrors the operator-facing contract: automated role sync must not be able
// to hand out site-management capabilities.
var excludedRoles = map[string]struct{}{
	"administrator": {},
	"editor":        {},
	"author":        {},
	"contributor":   {},
}

const DefaultRole = "subscriber"

// Settings is the single persisted configuration record for role sync.
// It is loaded fresh for every event and passed explicitly; nothing caches it
// across invocations except the read-through store decorator.
type Settings struct {
	QualifyingProducts []int64 `json:"qualifying_products" yaml:"qualifying_products"`
	GrantRole          string  `json:"grant_role" yaml:"grant_role"`
	DowngradeRole      string  `json:"downgrade_role" yaml:"downgrade_role"`
}

// DefaultSettings returns the record used before an operator has saved
// anything, and the per-field fallback during sanitization.
func DefaultSettings() *Settings {
	return &Settings{
		QualifyingProducts: []int64{},
		GrantRole:          DefaultRole,
		DowngradeRole:      DefaultRole,
	}
}

// Qualifies reports whether productID is configured as qualifying.
func (s *Settings) Qualifies(productID int64) bool {
	for _, id := range s.QualifyingProducts {
		if id == productID {
			return true
		}
	}
	return false
}

// HasQualifyingProducts reports whether any product is configured at all.
// Handlers treat an empty list as "role sync disabled".
func (s *Settings) HasQualifyingProducts() bool {
	return len(s.QualifyingProducts) > 0
}

// IsRoleAllowed reports whether role may be assigned/removed automatically.
func IsRoleAllowed(role string) bool {
	if role == "" {
		return false
	}
	_, excluded := excludedRoles[role]
	return !excluded
}

// ExcludedRoles returns the slugs barred from automated assignment.
func ExcludedRoles() []string {
	out := make([]string, 0, len(excludedRoles))
	for r := range excludedRoles {
		out = append(out, r)
	}
	return out
}
