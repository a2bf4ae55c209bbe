// File: internal/usecase/mocks_test.go
package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"commerce-role-sync/internal/domain"
	"commerce-role-sync/internal/domain/model"
	"commerce-role-sync/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// ---- transaction manager ----

type mockTxManager struct{}

func newMockTxManager() *mockTxManager { return &mockTxManager{} }

func (m *mockTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, nil)
}

// ---- settings ----

type mockSettingsRepo struct {
	mu      sync.Mutex
	stored  *model.Settings
	saveErr error
}

func newMockSettingsRepo() *mockSettingsRepo { return &mockSettingsRepo{} }

func (m *mockSettingsRepo) Load(ctx context.Context) (*model.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stored == nil {
		return nil, domain.ErrNotFound
	}
	cp := *m.stored
	cp.QualifyingProducts = append([]int64(nil), m.stored.QualifyingProducts...)
	return &cp, nil
}

func (m *mockSettingsRepo) Save(ctx context.Context, st *model.Settings) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *st
	cp.QualifyingProducts = append([]int64(nil), st.QualifyingProducts...)
	m.stored = &cp
	return nil
}

// ---- products ----

type mockProductCatalog struct {
	products map[int64]*model.Product
}

func newMockProductCatalog(ps ...*model.Product) *mockProductCatalog {
	m := &mockProductCatalog{products: make(map[int64]*model.Product)}
	for _, p := range ps {
		m.products[p.ID] = p
	}
	return m
}

func (m *mockProductCatalog) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (m *mockProductCatalog) ListQualifying(ctx context.Context) ([]*model.Product, error) {
	var out []*model.Product
	for _, p := range m.products {
		if p.IsQualifying() {
			out = append(out, p)
		}
	}
	return out, nil
}

// ---- roles ----

type mockRoleCatalog struct {
	roles map[string]string
}

func newMockRoleCatalog() *mockRoleCatalog {
	return &mockRoleCatalog{roles: map[string]string{
		"administrator": "Administrator",
		"editor":        "Editor",
		"subscriber":    "Subscriber",
		"club_member":   "Club Member",
	}}
}

func (m *mockRoleCatalog) Exists(ctx context.Context, slug string) (bool, error) {
	_, ok := m.roles[slug]
	return ok, nil
}

func (m *mockRoleCatalog) List(ctx context.Context) (map[string]string, error) {
	out := make(map[string]string, len(m.roles))
	for k, v := range m.roles {
		out[k] = v
	}
	return out, nil
}

// ---- users ----

type mockUserRepo struct {
	mu    sync.Mutex
	store map[int64]*model.User
}

func newMockUserRepo(users ...*model.User) *mockUserRepo {
	m := &mockUserRepo{store: make(map[int64]*model.User)}
	for _, u := range users {
		cp := *u
		cp.Roles = append([]string(nil), u.Roles...)
		m.store[u.ID] = &cp
	}
	return m
}

func (m *mockUserRepo) FindByID(ctx context.Context, _ repository.Tx, id int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	cp.Roles = append([]string(nil), u.Roles...)
	return &cp, nil
}

func (m *mockUserRepo) AddRole(ctx context.Context, _ repository.Tx, userID int64, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[userID]
	if !ok {
		return domain.ErrNotFound
	}
	for _, r := range u.Roles {
		if r == role {
			return nil
		}
	}
	u.Roles = append(u.Roles, role)
	return nil
}

func (m *mockUserRepo) RemoveRole(ctx context.Context, _ repository.Tx, userID int64, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[userID]
	if !ok {
		return domain.ErrNotFound
	}
	out := u.Roles[:0]
	for _, r := range u.Roles {
		if r != role {
			out = append(out, r)
		}
	}
	u.Roles = out
	return nil
}

func (m *mockUserRepo) Save(ctx context.Context, _ repository.Tx, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	cp.Roles = append([]string(nil), u.Roles...)
	m.store[u.ID] = &cp
	return nil
}

func (m *mockUserRepo) roles(userID int64) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[userID]
	if !ok {
		return nil
	}
	return append([]string(nil), u.Roles...)
}

// ---- subscriptions ----

type mockSubscriptionRepo struct {
	mu   sync.Mutex
	subs map[int64]*model.Subscription
}

func newMockSubscriptionRepo(subs ...*model.Subscription) *mockSubscriptionRepo {
	m := &mockSubscriptionRepo{subs: make(map[int64]*model.Subscription)}
	for _, s := range subs {
		cp := *s
		m.subs[s.ID] = &cp
	}
	return m
}

func (m *mockSubscriptionRepo) FindByID(ctx context.Context, id int64) (*model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.subs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *mockSubscriptionRepo) FindActiveByUser(ctx context.Context, userID int64) ([]*model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Subscription
	for _, s := range m.subs {
		if s.UserID == userID && s.IsActive() {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockSubscriptionRepo) FindOverdue(ctx context.Context, asOf time.Time, limit int) ([]*model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Subscription
	for _, s := range m.subs {
		if s.Overdue(asOf) && len(out) < limit {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockSubscriptionRepo) MarkExpired(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.subs[id]; ok && s.IsActive() {
		s.Status = model.EntitlementStatusExpired
	}
	return nil
}

func (m *mockSubscriptionRepo) Save(ctx context.Context, s *model.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.subs[s.ID] = &cp
	return nil
}

// ---- access passes ----

type mockPassRepo struct {
	mu     sync.Mutex
	passes map[int64]*model.AccessPass
}

func newMockPassRepo(passes ...*model.AccessPass) *mockPassRepo {
	m := &mockPassRepo{passes: make(map[int64]*model.AccessPass)}
	for _, p := range passes {
		cp := *p
		m.passes[p.ID] = &cp
	}
	return m
}

func (m *mockPassRepo) FindByID(ctx context.Context, id int64) (*model.AccessPass, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.passes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockPassRepo) UserHasActivePass(ctx context.Context, userID, productID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.passes {
		if p.UserID == userID && p.ProductID == productID && p.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockPassRepo) FindActiveByUserAndProduct(ctx context.Context, userID, productID int64) ([]*model.AccessPass, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.AccessPass
	for _, p := range m.passes {
		if p.UserID == userID && p.ProductID == productID && p.IsActive() {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockPassRepo) FindOverdue(ctx context.Context, asOf time.Time, limit int) ([]*model.AccessPass, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.AccessPass
	for _, p := range m.passes {
		if p.Overdue(asOf) && len(out) < limit {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockPassRepo) MarkExpired(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.passes[id]; ok && p.IsActive() {
		p.Status = model.EntitlementStatusExpired
	}
	return nil
}

func (m *mockPassRepo) Save(ctx context.Context, p *model.AccessPass) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.passes[p.ID] = &cp
	return nil
}

// ---- payments ----

type mockPaymentRepo struct {
	payments map[int64]*model.Payment
}

func newMockPaymentRepo(ps ...*model.Payment) *mockPaymentRepo {
	m := &mockPaymentRepo{payments: make(map[int64]*model.Payment)}
	for _, p := range ps {
		m.payments[p.ID] = p
	}
	return m
}

func (m *mockPaymentRepo) FindByID(ctx context.Context, id int64) (*model.Payment, error) {
	p, ok := m.payments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (m *mockPaymentRepo) Save(ctx context.Context, p *model.Payment) error {
	m.payments[p.ID] = p
	return nil
}
