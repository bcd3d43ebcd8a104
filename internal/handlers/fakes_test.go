package handlers

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/apperror"
	"storefront/internal/models"
	"storefront/internal/pricing"
)

type memProducts struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]models.Product
	last  models.ProductFilter
}

func newMemProducts(products ...models.Product) *memProducts {
	m := &memProducts{items: map[primitive.ObjectID]models.Product{}}
	for _, p := range products {
		m.items[p.ID] = p
	}
	return m
}

func (m *memProducts) List(_ context.Context, f models.ProductFilter) ([]models.Product, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = f
	out := []models.Product{}
	for _, p := range m.items {
		if !p.IsDeleted {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, int64(len(out)), nil
}

func (m *memProducts) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok || p.IsDeleted {
		return nil, apperror.NotFound("product")
	}
	return &p, nil
}

func (m *memProducts) FindProductsByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Product{}
	for _, id := range ids {
		if p, ok := m.items[id]; ok && !p.IsDeleted {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProducts) Sample(_ context.Context, size int64, exclude []primitive.ObjectID) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	skip := map[primitive.ObjectID]bool{}
	for _, id := range exclude {
		skip[id] = true
	}
	out := []models.Product{}
	for _, p := range m.items {
		if int64(len(out)) == size {
			break
		}
		if p.InStock && !p.IsDeleted && !skip[p.ID] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProducts) Create(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = primitive.NewObjectID()
	m.items[p.ID] = *p
	return nil
}

func (m *memProducts) Update(_ context.Context, id primitive.ObjectID, ch models.ProductChanges) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok || p.IsDeleted {
		return nil, apperror.NotFound("product")
	}
	if ch.Name != nil {
		p.Name = *ch.Name
	}
	if ch.Price != nil {
		p.Price = *ch.Price
	}
	if ch.InStock != nil {
		p.InStock = *ch.InStock
	}
	m.items[id] = p
	return &p, nil
}

func (m *memProducts) SoftDelete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok || p.IsDeleted {
		return apperror.NotFound("product")
	}
	p.IsDeleted = true
	m.items[id] = p
	return nil
}

type memDiscounts struct {
	mu    sync.Mutex
	codes map[string]*models.DiscountCode
}

func newMemDiscounts(codes ...models.DiscountCode) *memDiscounts {
	m := &memDiscounts{codes: map[string]*models.DiscountCode{}}
	for i := range codes {
		d := codes[i]
		if d.ID.IsZero() {
			d.ID = primitive.NewObjectID()
		}
		m.codes[d.Code] = &d
	}
	return m
}

func (m *memDiscounts) FindDiscountByCode(_ context.Context, code string) (*models.DiscountCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.codes[pricing.NormalizeCode(code)]
	if !ok {
		return nil, apperror.NotFound("discount code")
	}
	cp := *d
	return &cp, nil
}

func (m *memDiscounts) byID(id primitive.ObjectID) *models.DiscountCode {
	for _, d := range m.codes {
		if d.ID == id {
			return d
		}
	}
	return nil
}

func (m *memDiscounts) List(context.Context) ([]models.DiscountCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.DiscountCode{}
	for _, d := range m.codes {
		out = append(out, *d)
	}
	return out, nil
}

func (m *memDiscounts) FindByID(_ context.Context, id primitive.ObjectID) (*models.DiscountCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := m.byID(id)
	if d == nil {
		return nil, apperror.NotFound("discount code")
	}
	cp := *d
	return &cp, nil
}

func (m *memDiscounts) Create(_ context.Context, d *models.DiscountCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.codes[d.Code]; ok {
		return apperror.New(apperror.KindConflict, apperror.CodeDuplicate, "discount code already exists")
	}
	d.ID = primitive.NewObjectID()
	cp := *d
	m.codes[d.Code] = &cp
	return nil
}

func (m *memDiscounts) Update(_ context.Context, id primitive.ObjectID, ch models.DiscountChanges) (*models.DiscountCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := m.byID(id)
	if d == nil {
		return nil, apperror.NotFound("discount code")
	}
	ch.Apply(d)
	cp := *d
	return &cp, nil
}

func (m *memDiscounts) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := m.byID(id)
	if d == nil {
		return apperror.NotFound("discount code")
	}
	delete(m.codes, d.Code)
	return nil
}

// redeem mirrors the conditional increment of the real store.
func (m *memDiscounts) redeem(red models.DiscountRedemption) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.codes[pricing.NormalizeCode(red.Code)]
	if !ok {
		return pricing.ErrDiscountNotFound
	}
	if _, err := pricing.EvaluateDiscount(d, pricing.Dec(red.Subtotal), red.At); err != nil {
		return err
	}
	d.UsedCount++
	return nil
}

type memShipping struct {
	mu   sync.Mutex
	rows []models.ShippingCountry
}

func (m *memShipping) find(match func(models.ShippingCountry) bool) (*models.ShippingCountry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if match(r) {
			cp := r
			return &cp, nil
		}
	}
	return nil, apperror.NotFound("shipping country")
}

func (m *memShipping) FindCountryByCode(_ context.Context, code string) (*models.ShippingCountry, error) {
	return m.find(func(r models.ShippingCountry) bool { return r.Code == pricing.NormalizeCountryCode(code) })
}

func (m *memShipping) FindDefaultCountry(context.Context) (*models.ShippingCountry, error) {
	return m.find(func(r models.ShippingCountry) bool { return r.IsDefault && r.IsActive })
}

func (m *memShipping) FindAnyActiveCountry(context.Context) (*models.ShippingCountry, error) {
	return m.find(func(r models.ShippingCountry) bool { return r.IsActive })
}

func (m *memShipping) List(_ context.Context, activeOnly bool) ([]models.ShippingCountry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.ShippingCountry{}
	for _, r := range m.rows {
		if !activeOnly || r.IsActive {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memShipping) Create(_ context.Context, c *models.ShippingCountry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = primitive.NewObjectID()
	if c.IsDefault {
		for i := range m.rows {
			m.rows[i].IsDefault = false
		}
	}
	m.rows = append(m.rows, *c)
	return nil
}

func (m *memShipping) Update(_ context.Context, id primitive.ObjectID, c models.ShippingCountry) (*models.ShippingCountry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == id {
			c.ID = id
			m.rows[i] = c
			return &c, nil
		}
	}
	return nil, apperror.NotFound("shipping country")
}

func (m *memShipping) SetDefault(_ context.Context, id primitive.ObjectID) (*models.ShippingCountry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := -1
	for i := range m.rows {
		if m.rows[i].ID == id {
			idx = i
		}
	}
	if idx < 0 {
		return nil, apperror.NotFound("shipping country")
	}
	if !m.rows[idx].IsActive {
		return nil, apperror.Validation("the default country must be active")
	}
	for i := range m.rows {
		m.rows[i].IsDefault = i == idx
	}
	cp := m.rows[idx]
	return &cp, nil
}

func (m *memShipping) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return apperror.NotFound("shipping country")
}

func (m *memShipping) defaultCode() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.IsDefault {
			return r.Code
		}
	}
	return ""
}

// memOrders serves checkout, the lifecycle service and the admin listing.
type memOrders struct {
	mu        sync.Mutex
	orders    map[primitive.ObjectID]models.Order
	discounts *memDiscounts
}

func newMemOrders(discounts *memDiscounts) *memOrders {
	return &memOrders{orders: map[primitive.ObjectID]models.Order{}, discounts: discounts}
}

func (m *memOrders) PlaceOrder(_ context.Context, order *models.Order, red *models.DiscountRedemption, next func() (string, error)) error {
	if red != nil {
		if err := m.discounts.redeem(*red); err != nil {
			return err
		}
	}
	number, err := next()
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	order.ID = primitive.NewObjectID()
	order.OrderNumber = number
	m.orders[order.ID] = *order
	return nil
}

func (m *memOrders) FindOrderByIdempotencyKey(_ context.Context, key string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.IdempotencyKey == key {
			cp := o
			return &cp, nil
		}
	}
	return nil, apperror.NotFound("order")
}

func (m *memOrders) FindOrderByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, apperror.NotFound("order")
	}
	return &o, nil
}

func (m *memOrders) List(_ context.Context, f models.OrderFilter) ([]models.Order, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Order{}
	for _, o := range m.orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.Search != "" && !strings.Contains(o.OrderNumber, f.Search) {
			continue
		}
		out = append(out, o)
	}
	return out, int64(len(out)), nil
}

func (m *memOrders) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[id]; !ok {
		return apperror.NotFound("order")
	}
	delete(m.orders, id)
	return nil
}

func (m *memOrders) SetOrderStatus(_ context.Context, id primitive.ObjectID, from, to models.OrderStatus, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	o.UpdatedAt = at
	m.orders[id] = o
	return true, nil
}

func (m *memOrders) SetPaymentStatus(_ context.Context, id primitive.ObjectID, from, to models.PaymentStatus, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok || o.PaymentStatus != from {
		return false, nil
	}
	o.PaymentStatus = to
	o.UpdatedAt = at
	m.orders[id] = o
	return true, nil
}

type memRates struct {
	rates map[string]models.CurrencyRate
}

func (m *memRates) List(context.Context) ([]models.CurrencyRate, error) {
	out := []models.CurrencyRate{}
	for _, r := range m.rates {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (m *memRates) FindByCode(_ context.Context, code string) (*models.CurrencyRate, error) {
	r, ok := m.rates[strings.ToUpper(code)]
	if !ok {
		return nil, apperror.NotFound("currency rate")
	}
	return &r, nil
}

func (m *memRates) Upsert(_ context.Context, r models.CurrencyRate) (*models.CurrencyRate, error) {
	m.rates[r.Code] = r
	return &r, nil
}

func (m *memRates) Delete(_ context.Context, code string) error {
	if _, ok := m.rates[code]; !ok {
		return apperror.NotFound("currency rate")
	}
	delete(m.rates, code)
	return nil
}

type memContent struct {
	blocks map[string]models.ContentBlock
}

func (m *memContent) List(context.Context) ([]models.ContentBlock, error) {
	out := []models.ContentBlock{}
	for _, b := range m.blocks {
		out = append(out, b)
	}
	return out, nil
}

func (m *memContent) FindActive(_ context.Context, key string) (*models.ContentBlock, error) {
	b, ok := m.blocks[key]
	if !ok || !b.IsActive {
		return nil, apperror.NotFound("content block")
	}
	return &b, nil
}

func (m *memContent) Upsert(_ context.Context, b models.ContentBlock) (*models.ContentBlock, error) {
	m.blocks[b.Key] = b
	return &b, nil
}

func (m *memContent) Delete(_ context.Context, key string) error {
	if _, ok := m.blocks[key]; !ok {
		return apperror.NotFound("content block")
	}
	delete(m.blocks, key)
	return nil
}

type memAdmins struct {
	admins map[string]models.Admin
}

func (m *memAdmins) FindByEmail(_ context.Context, email string) (*models.Admin, error) {
	a, ok := m.admins[email]
	if !ok {
		return nil, apperror.NotFound("admin")
	}
	return &a, nil
}

type memCategories struct {
	rows []models.Category
}

func (m *memCategories) List(_ context.Context, activeOnly bool) ([]models.Category, error) {
	out := []models.Category{}
	for _, c := range m.rows {
		if !activeOnly || c.IsActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memCategories) Create(_ context.Context, c *models.Category) error {
	if c.Slug == "" {
		c.Slug = strings.Join(strings.Fields(strings.ToLower(c.Name)), "-")
	}
	for _, row := range m.rows {
		if row.Slug == c.Slug {
			return apperror.New(apperror.KindConflict, apperror.CodeDuplicate, "category slug already exists")
		}
	}
	c.ID = primitive.NewObjectID()
	m.rows = append(m.rows, *c)
	return nil
}

func (m *memCategories) Update(_ context.Context, id primitive.ObjectID, name *string, isActive *bool) (*models.Category, error) {
	for i := range m.rows {
		if m.rows[i].ID != id {
			continue
		}
		if name != nil {
			m.rows[i].Name = strings.TrimSpace(*name)
		}
		if isActive != nil {
			m.rows[i].IsActive = *isActive
		}
		cp := m.rows[i]
		return &cp, nil
	}
	return nil, apperror.NotFound("category")
}

func (m *memCategories) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	inactive := false
	_, err := m.Update(ctx, id, nil, &inactive)
	return err
}
