// File: internal/usecase/settings_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"commerce-role-sync/internal/domain"
	"commerce-role-sync/internal/domain/model"
	"commerce-role-sync/internal/domain/ports/repository"
	"commerce-role-sync/internal/infra/logging"
)

// SettingsInput is the untrusted payload of a settings save. Field values are
// validated one by one; an invalid field falls back to its default instead of
// failing the whole save.
type SettingsInput struct {
	QualifyingProducts []int64 `json:"qualifying_products"`
	GrantRole          string  `json:"grant_role"`
	DowngradeRole      string  `json:"downgrade_role"`
}

// SettingsUseCase owns the role-sync settings record: defaults, reads and the
// validated write path.
type SettingsUseCase struct {
	repo     repository.SettingsRepository
	products repository.ProductCatalog
	roles    repository.RoleCatalog
	log      *zerolog.Logger
}

func NewSettingsUseCase(repo repository.SettingsRepository, products repository.ProductCatalog, roles repository.RoleCatalog, logger *zerolog.Logger) *SettingsUseCase {
	l := logger.With().Str("component", "SettingsUC").Logger()
	return &SettingsUseCase{repo: repo, products: products, roles: roles, log: &l}
}

// Get returns the persisted settings merged over defaults. A missing record
// or missing fields fall back to defaults, so a schema that grows new fields
// keeps working against old rows.
func (uc *SettingsUseCase) Get(ctx context.Context) (*model.Settings, error) {
	st, err := uc.repo.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return model.DefaultSettings(), nil
		}
		return nil, fmt.Errorf("load settings: %w", err)
	}
	defaults := model.DefaultSettings()
	if st.QualifyingProducts == nil {
		st.QualifyingProducts = defaults.QualifyingProducts
	}
	if st.GrantRole == "" {
		st.GrantRole = defaults.GrantRole
	}
	if st.DowngradeRole == "" {
		st.DowngradeRole = defaults.DowngradeRole
	}
	return st, nil
}

// SanitizeAndSave validates untrusted input, persists the resulting record
// and returns it. Product ids are deduplicated and must refer to existing
// qualifying products; roles must be allow-listed and defined on the site.
func (uc *SettingsUseCase) SanitizeAndSave(ctx context.Context, in SettingsInput) (*model.Settings, error) {
	defer logging.TraceDuration(uc.log, "SettingsUC.SanitizeAndSave")()

	st := model.DefaultSettings()

	seen := make(map[int64]struct{}, len(in.QualifyingProducts))
	for _, id := range in.QualifyingProducts {
		if id <= 0 {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ok, err := uc.isValidQualifyingProduct(ctx, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			uc.log.Debug().Int64("product_id", id).Msg("dropping non-qualifying product from settings")
			continue
		}
		st.QualifyingProducts = append(st.QualifyingProducts, id)
	}
	sort.Slice(st.QualifyingProducts, func(i, j int) bool {
		return st.QualifyingProducts[i] < st.QualifyingProducts[j]
	})

	if role, ok, err := uc.validRole(ctx, in.GrantRole); err != nil {
		return nil, err
	} else if ok {
		st.GrantRole = role
	} else if in.GrantRole != "" {
		uc.log.Debug().Str("role", in.GrantRole).Msg("grant role rejected, keeping default")
	}

	if role, ok, err := uc.validRole(ctx, in.DowngradeRole); err != nil {
		return nil, err
	} else if ok {
		st.DowngradeRole = role
	} else if in.DowngradeRole != "" {
		uc.log.Debug().Str("role", in.DowngradeRole).Msg("downgrade role rejected, keeping default")
	}

	if err := uc.repo.Save(ctx, st); err != nil {
		return nil, fmt.Errorf("save settings: %w", err)
	}
	uc.log.Info().
		Ints64("qualifying_products", st.QualifyingProducts).
		Str("grant_role", st.GrantRole).
		Str("downgrade_role", st.DowngradeRole).
		Msg("settings saved")
	return st, nil
}

func (uc *SettingsUseCase) isValidQualifyingProduct(ctx context.Context, id int64) (bool, error) {
	p, err := uc.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("find product %d: %w", id, err)
	}
	return p.IsQualifying(), nil
}

func (uc *SettingsUseCase) validRole(ctx context.Context, role string) (string, bool, error) {
	if !model.IsRoleAllowed(role) {
		return "", false, nil
	}
	exists, err := uc.roles.Exists(ctx, role)
	if err != nil {
		return "", false, fmt.Errorf("check role %q: %w", role, err)
	}
	if !exists {
		return "", false, nil
	}
	return role, true, nil
}

// QualifyingProducts returns id -> title for every product satisfying the
// qualification predicate. Backs the admin multi-select.
func (uc *SettingsUseCase) QualifyingProducts(ctx context.Context) (map[int64]string, error) {
	list, err := uc.products.ListQualifying(ctx)
	if err != nil {
		return nil, fmt.Errorf("list qualifying products: %w", err)
	}
	out := make(map[int64]string, len(list))
	for _, p := range list {
		out[p.ID] = p.Title
	}
	return out, nil
}

// AssignableRoles returns slug -> name for every defined role outside the
// excluded set. Backs the admin role dropdowns.
func (uc *SettingsUseCase) AssignableRoles(ctx context.Context) (map[string]string, error) {
	all, err := uc.roles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	out := make(map[string]string, len(all))
	for slug, name := range all {
		if model.IsRoleAllowed(slug) {
			out[slug] = name
		}
	}
	return out, nil
}
