package tests

import (
	"context"
	"strings"
	"time"

	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/auth"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/dto"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/model"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/repository"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Store repository stub ─────────────────────────────────────────────────────

type stubStoreRepo struct {
	stores  map[uuid.UUID]*model.Store
	members map[string]bool // userID|storeID
}

func newStubStoreRepo() *stubStoreRepo {
	return &stubStoreRepo{
		stores:  make(map[uuid.UUID]*model.Store),
		members: make(map[string]bool),
	}
}

func memberKey(userID, storeID uuid.UUID) string {
	return userID.String() + "|" + storeID.String()
}

func (r *stubStoreRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Store, error) {
	s, ok := r.stores[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubStoreRepo) ListByTenant(_ context.Context, tenantID uuid.UUID) ([]model.Store, error) {
	var out []model.Store
	for _, s := range r.stores {
		if s.TenantID == tenantID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubStoreRepo) IsUserMember(_ context.Context, userID, storeID uuid.UUID) (bool, error) {
	return r.members[memberKey(userID, storeID)], nil
}

func (r *stubStoreRepo) SequenceNumber(_ context.Context, store *model.Store) (int, error) {
	seq := 1
	for _, s := range r.stores {
		if s.TenantID == store.TenantID && s.CreatedAt.Before(store.CreatedAt) {
			seq++
		}
	}
	return seq, nil
}

var _ repository.StoreRepository = (*stubStoreRepo)(nil)

// ── Store product repository stub ─────────────────────────────────────────────

type stubProductRepo struct {
	products map[uuid.UUID]*model.StoreProduct
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.StoreProduct)}
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.StoreProduct, error) {
	sp, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return sp, nil
}

func (r *stubProductRepo) FindByIDsForUpdateTx(_ *gorm.DB, ids []uuid.UUID) ([]model.StoreProduct, error) {
	var out []model.StoreProduct
	for _, id := range ids {
		if sp, ok := r.products[id]; ok {
			out = append(out, *sp)
		}
	}
	return out, nil
}

func (r *stubProductRepo) AdjustStockTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	sp, ok := r.products[id]
	if !ok || sp.Stock+delta < 0 {
		return gorm.ErrRecordNotFound
	}
	sp.Stock += delta
	return nil
}

func (r *stubProductRepo) ListByStore(_ context.Context, storeID uuid.UUID) ([]model.StoreProduct, error) {
	var out []model.StoreProduct
	for _, sp := range r.products {
		if sp.StoreID == storeID && sp.Active {
			out = append(out, *sp)
		}
	}
	return out, nil
}

func (r *stubProductRepo) ListLowStock(_ context.Context, tenantID uuid.UUID) ([]model.StoreProduct, error) {
	var out []model.StoreProduct
	for _, sp := range r.products {
		if sp.Active && sp.Store != nil && sp.Store.TenantID == tenantID && sp.Stock <= sp.StockThreshold {
			out = append(out, *sp)
		}
	}
	return out, nil
}

var _ repository.StoreProductRepository = (*stubProductRepo)(nil)

// ── Client repository stub ────────────────────────────────────────────────────

type stubClientRepo struct {
	clients map[uuid.UUID]*model.Client
}

func newStubClientRepo() *stubClientRepo {
	return &stubClientRepo{clients: make(map[uuid.UUID]*model.Client)}
}

func (r *stubClientRepo) DB() *gorm.DB { return nil }

func (r *stubClientRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Client, error) {
	c, ok := r.clients[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubClientRepo) FindByDNITx(_ *gorm.DB, tenantID uuid.UUID, dni string) (*model.Client, error) {
	for _, c := range r.clients {
		if c.TenantID == tenantID && c.DNI == dni {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubClientRepo) FindByEmailTx(_ *gorm.DB, tenantID uuid.UUID, email string) (*model.Client, error) {
	for _, c := range r.clients {
		if c.TenantID == tenantID && c.Email != nil && *c.Email == email {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubClientRepo) CreateTx(_ *gorm.DB, c *model.Client) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	r.clients[c.ID] = c
	return nil
}

func (r *stubClientRepo) UpdateTx(_ *gorm.DB, c *model.Client) error {
	r.clients[c.ID] = c
	return nil
}

func (r *stubClientRepo) List(_ context.Context, tenantID uuid.UUID, filter dto.ClientFilter) ([]model.Client, int64, error) {
	var out []model.Client
	for _, c := range r.clients {
		if c.TenantID != tenantID {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(filter.Search)) &&
			!strings.HasPrefix(c.DNI, filter.Search) {
			continue
		}
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

var _ repository.ClientRepository = (*stubClientRepo)(nil)

// ── Inventory movement repository stub ────────────────────────────────────────

type stubInventoryRepo struct {
	products  *stubProductRepo
	movements []model.InventoryMovement
}

func (r *stubInventoryRepo) CreateTx(_ *gorm.DB, m *model.InventoryMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	if sp, ok := r.products.products[m.StoreProductID]; ok {
		m.StoreProduct = sp
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubInventoryRepo) List(_ context.Context, tenantID uuid.UUID, filter dto.InventoryMovementFilter) ([]model.InventoryMovement, int64, error) {
	var out []model.InventoryMovement
	for _, m := range r.movements {
		if m.StoreProduct == nil || m.StoreProduct.Store == nil || m.StoreProduct.Store.TenantID != tenantID {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		if filter.StoreProductID != "" && m.StoreProductID.String() != filter.StoreProductID {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

var _ repository.InventoryMovementRepository = (*stubInventoryRepo)(nil)

// ── Cash repository stub ──────────────────────────────────────────────────────

type stubCashRepo struct {
	sessions     map[uuid.UUID]*model.CashSession
	movements    []model.CashMovement
	failMovement bool
}

func newStubCashRepo() *stubCashRepo {
	return &stubCashRepo{sessions: make(map[uuid.UUID]*model.CashSession)}
}

func (r *stubCashRepo) DB() *gorm.DB { return nil }

func (r *stubCashRepo) CreateSession(_ context.Context, s *model.CashSession) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sessions[s.ID] = s
	return nil
}

func (r *stubCashRepo) FindSessionByID(_ context.Context, id uuid.UUID) (*model.CashSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubCashRepo) FindSessionForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.CashSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubCashRepo) FindOpenByStore(_ context.Context, storeID uuid.UUID) (*model.CashSession, error) {
	for _, s := range r.sessions {
		if s.StoreID == storeID && s.IsOpen() {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCashRepo) UpdateSession(_ context.Context, s *model.CashSession) error {
	r.sessions[s.ID] = s
	return nil
}

func (r *stubCashRepo) CreateMovement(_ context.Context, m *model.CashMovement) error {
	if r.failMovement {
		return gorm.ErrInvalidDB
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubCashRepo) ListMovements(_ context.Context, sessionID uuid.UUID) ([]model.CashMovement, error) {
	var out []model.CashMovement
	for _, m := range r.movements {
		if m.CashSessionID == sessionID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *stubCashRepo) SumCashMovements(_ context.Context, sessionID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, m := range r.movements {
		if m.CashSessionID != sessionID || m.PaymentType != model.PaymentCash {
			continue
		}
		if m.Type == model.CashIncome {
			total = total.Add(m.Amount)
		} else {
			total = total.Sub(m.Amount)
		}
	}
	return total, nil
}

var _ repository.CashRepository = (*stubCashRepo)(nil)

// ── Order repository stub ─────────────────────────────────────────────────────

type stubOrderRepo struct {
	orders map[uuid.UUID]*model.Order
	cash   *stubCashRepo
}

func newStubOrderRepo(cash *stubCashRepo) *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[uuid.UUID]*model.Order), cash: cash}
}

func (r *stubOrderRepo) DB() *gorm.DB { return nil }

func (r *stubOrderRepo) CreateTx(_ *gorm.DB, o *model.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	o.CreatedAt = time.Now()
	for i := range o.Products {
		o.Products[i].ID = uuid.New()
		o.Products[i].OrderID = o.ID
	}
	for i := range o.Services {
		o.Services[i].ID = uuid.New()
		o.Services[i].OrderID = o.ID
	}
	for i := range o.PaymentMethods {
		o.PaymentMethods[i].ID = uuid.New()
		o.PaymentMethods[i].OrderID = o.ID
	}
	r.orders[o.ID] = o
	return nil
}

func (r *stubOrderRepo) hydrate(o *model.Order) *model.Order {
	if s, ok := r.cash.sessions[o.CashSessionID]; ok {
		o.CashSession = s
	}
	return o
}

func (r *stubOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.hydrate(o), nil
}

func (r *stubOrderRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.hydrate(o), nil
}

func (r *stubOrderRepo) UpdateTx(_ *gorm.DB, o *model.Order) error {
	r.orders[o.ID] = o
	return nil
}

func (r *stubOrderRepo) UpdateServiceStatusTx(_ *gorm.DB, serviceID uuid.UUID, status string) error {
	for _, o := range r.orders {
		for i := range o.Services {
			if o.Services[i].ID == serviceID {
				o.Services[i].Status = status
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubOrderRepo) CreatePaymentMethodTx(_ *gorm.DB, pm *model.PaymentMethod) error {
	o, ok := r.orders[pm.OrderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	pm.ID = uuid.New()
	pm.CreatedAt = time.Now()
	o.PaymentMethods = append(o.PaymentMethods, *pm)
	return nil
}

func (r *stubOrderRepo) ListByStore(_ context.Context, storeID uuid.UUID, filter dto.OrderFilter) ([]model.Order, int64, error) {
	var out []model.Order
	for _, o := range r.orders {
		s, ok := r.cash.sessions[o.CashSessionID]
		if !ok || s.StoreID != storeID {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		out = append(out, *r.hydrate(o))
	}
	return out, int64(len(out)), nil
}

func (r *stubOrderRepo) ListByTenant(_ context.Context, tenantID uuid.UUID, filter dto.OrderFilter) ([]model.Order, int64, error) {
	var out []model.Order
	for _, o := range r.orders {
		s, ok := r.cash.sessions[o.CashSessionID]
		if !ok || s.Store == nil || s.Store.TenantID != tenantID {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		out = append(out, *r.hydrate(o))
	}
	return out, int64(len(out)), nil
}

var _ repository.OrderRepository = (*stubOrderRepo)(nil)

// ── Fixture ───────────────────────────────────────────────────────────────────

// fixture wires the real services over in-memory stubs: one tenant, one store,
// one open cash session.
type fixture struct {
	tenantID uuid.UUID
	store    *model.Store
	session  *model.CashSession

	orders   *stubOrderRepo
	cash     *stubCashRepo
	products *stubProductRepo
	stores   *stubStoreRepo
	clients  *stubClientRepo
	invRepo  *stubInventoryRepo

	clientSvc    service.ClientService
	inventorySvc service.InventoryService
	orderSvc     service.OrderService
	cashSvc      service.CashService
}

func newFixture() *fixture {
	f := &fixture{
		tenantID: uuid.New(),
		cash:     newStubCashRepo(),
		products: newStubProductRepo(),
		stores:   newStubStoreRepo(),
		clients:  newStubClientRepo(),
	}
	f.orders = newStubOrderRepo(f.cash)
	f.invRepo = &stubInventoryRepo{products: f.products}

	f.store = &model.Store{
		ID:        uuid.New(),
		TenantID:  f.tenantID,
		Name:      "Tienda Central",
		Active:    true,
		CreatedAt: time.Now().Add(-time.Hour),
	}
	f.stores.stores[f.store.ID] = f.store

	f.session = &model.CashSession{
		ID:            uuid.New(),
		StoreID:       f.store.ID,
		OpenedByID:    uuid.New(),
		OpeningAmount: decimal.NewFromInt(100),
		Status:        model.SessionOpen,
		OpenedAt:      time.Now(),
		Store:         f.store,
	}
	f.cash.sessions[f.session.ID] = f.session

	scope := service.NewScope(f.stores)
	f.clientSvc = service.NewClientService(f.clients)
	f.inventorySvc = service.NewInventoryService(f.products, f.invRepo, scope)
	poster := service.NewPaymentPoster(f.cash, nil)
	f.orderSvc = service.NewOrderService(f.orders, f.cash, f.products, f.stores,
		f.clientSvc, f.inventorySvc, poster, scope, nil)
	f.cashSvc = service.NewCashService(f.cash, f.stores, scope)
	return f
}

func (f *fixture) admin() auth.Principal {
	return auth.Principal{
		UserID:   uuid.New(),
		Email:    "admin@test.pe",
		Role:     auth.RoleAdmin,
		TenantID: f.tenantID,
	}
}

func (f *fixture) seller() auth.Principal {
	p := auth.Principal{
		UserID:   uuid.New(),
		Email:    "vendedor@test.pe",
		Role:     auth.RoleUser,
		TenantID: f.tenantID,
	}
	f.stores.members[memberKey(p.UserID, f.store.ID)] = true
	return p
}

func withFastService(p auth.Principal) auth.Principal {
	p.TenantFeatures = map[auth.Feature]struct{}{auth.FeatureFastService: {}}
	return p
}

func (f *fixture) seedProduct(name string, price float64, stock int) *model.StoreProduct {
	sp := &model.StoreProduct{
		ID:             uuid.New(),
		StoreID:        f.store.ID,
		ProductID:      uuid.New(),
		Price:          decimal.NewFromFloat(price),
		Stock:          stock,
		StockThreshold: 5,
		Active:         true,
		Store:          f.store,
		Product:        &model.Product{ID: uuid.New(), TenantID: f.tenantID, Name: name, Active: true},
	}
	f.products.products[sp.ID] = sp
	return sp
}

func walkInInfo() *dto.ClientInfoRequest {
	return &dto.ClientInfoRequest{DNI: model.GenericClientDNI}
}
