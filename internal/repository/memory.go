package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tiendamasiva/storefront-service/internal/apperrors"
	"github.com/tiendamasiva/storefront-service/internal/models"
)

// Memory is an in-process implementation of all three repositories. It
// backs tests and local development without Postgres and honors the same
// contracts: checkout is all-or-nothing and stock decrements are
// conditional, so concurrent purchases cannot over-sell.
type Memory struct {
	mu          sync.Mutex
	nextProduct int64
	nextUser    int64
	nextOrder   int64
	products    map[int64]models.Product
	users       map[int64]models.User
	orders      map[int64]models.Order
}

var (
	_ ProductRepository = (*Memory)(nil)
	_ UserRepository    = (*MemoryUsers)(nil)
	_ OrderRepository   = (*Memory)(nil)
)

// MemoryUsers adapts Memory to UserRepository; the method set clashes with
// ProductRepository otherwise.
type MemoryUsers struct {
	m *Memory
}

// Users returns the UserRepository view of this store.
func (m *Memory) Users() *MemoryUsers {
	return &MemoryUsers{m: m}
}

func (u *MemoryUsers) Create(ctx context.Context, user *models.User) error {
	return u.m.CreateUser(ctx, user)
}

func (u *MemoryUsers) GetByName(ctx context.Context, name string) (*models.User, error) {
	return u.m.GetByName(ctx, name)
}

func (u *MemoryUsers) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return u.m.GetUserByID(ctx, id)
}

func (u *MemoryUsers) Count(ctx context.Context) (int, error) {
	return u.m.CountUsers(ctx)
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		nextProduct: 1,
		nextUser:    1,
		nextOrder:   1,
		products:    make(map[int64]models.Product),
		users:       make(map[int64]models.User),
		orders:      make(map[int64]models.Order),
	}
}

// --- ProductRepository ---

func (m *Memory) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := p
	return &cp, nil
}

func (m *Memory) List(ctx context.Context, search string) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Product, 0)
	for _, p := range m.products {
		if p.Stock <= 0 {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(search)) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Price.GreaterThan(out[j].Price) })
	return out, nil
}

func (m *Memory) ListAll(ctx context.Context) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *Memory) Create(ctx context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = m.nextProduct
	m.nextProduct++
	m.products[p.ID] = *p
	return nil
}

func (m *Memory) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(m.products, id)
	return nil
}

// --- UserRepository ---

func (m *Memory) CreateUser(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Name == u.Name {
			return apperrors.ErrUserExists
		}
	}
	u.ID = m.nextUser
	m.nextUser++
	m.users[u.ID] = *u
	return nil
}

func (m *Memory) GetByName(ctx context.Context, name string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Name == name {
			cp := u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *Memory) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := u
	return &cp, nil
}

func (m *Memory) CountUsers(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users), nil
}

// --- OrderRepository ---

func (m *Memory) CreateOrder(ctx context.Context, userID int64, total decimal.Decimal, items []models.OrderItem) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Validate every line before mutating anything so a failure on line N
	// of M leaves no partial state.
	updated := make(map[int64]models.Product, len(items))
	for _, item := range items {
		p, ok := m.products[item.ProductID]
		if !ok {
			return 0, apperrors.ErrNotFound
		}
		if pending, seen := updated[item.ProductID]; seen {
			p = pending
		}
		if p.Stock < item.Quantity {
			return 0, apperrors.ErrInsufficientStock
		}
		p.Stock -= item.Quantity
		updated[item.ProductID] = p
	}

	for id, p := range updated {
		m.products[id] = p
	}

	orderID := m.nextOrder
	m.nextOrder++
	m.orders[orderID] = models.Order{
		ID:        orderID,
		UserID:    userID,
		CreatedAt: time.Now(),
		Total:     total,
		Items:     append([]models.OrderItem(nil), items...),
	}
	return orderID, nil
}

func (m *Memory) QuickPurchase(ctx context.Context, userID, productID int64, quantity int) (int64, decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[productID]
	if !ok {
		return 0, decimal.Zero, apperrors.ErrNotFound
	}
	if p.Stock < quantity {
		return 0, decimal.Zero, apperrors.ErrInsufficientStock
	}
	p.Stock -= quantity
	m.products[productID] = p

	total := p.Price.Mul(decimal.NewFromInt(int64(quantity)))
	orderID := m.nextOrder
	m.nextOrder++
	m.orders[orderID] = models.Order{
		ID:        orderID,
		UserID:    userID,
		CreatedAt: time.Now(),
		Total:     total,
		Items:     []models.OrderItem{{ProductID: productID, Quantity: quantity, UnitPrice: p.Price}},
	}
	return orderID, total, nil
}

func (m *Memory) GetReceipt(ctx context.Context, orderID int64) (*models.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[orderID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}

	receipt := &models.Receipt{
		OrderID:   o.ID,
		UserID:    o.UserID,
		CreatedAt: o.CreatedAt,
		Total:     o.Total,
	}
	if u, ok := m.users[o.UserID]; ok {
		receipt.CustomerName = u.Name
	}
	for _, item := range o.Items {
		name := ""
		if p, ok := m.products[item.ProductID]; ok {
			name = p.Name
		}
		receipt.Lines = append(receipt.Lines, models.ReceiptLine{
			ProductName: name,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	return receipt, nil
}

func (m *Memory) ListByUser(ctx context.Context, userID int64) ([]models.OrderSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.OrderSummary, 0)
	for _, o := range m.orders {
		if o.UserID != userID {
			continue
		}
		out = append(out, models.OrderSummary{
			OrderID:   o.ID,
			CreatedAt: o.CreatedAt,
			Total:     o.Total,
			ItemCount: len(o.Items),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderID > out[j].OrderID })
	return out, nil
}

func (m *Memory) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders), nil
}

func (m *Memory) RecentSales(ctx context.Context, limit int) ([]models.SaleRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]int64, 0, len(m.orders))
	for id := range m.orders {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })

	sales := make([]models.SaleRow, 0, limit)
	for _, id := range ids {
		if len(sales) == limit {
			break
		}
		o := m.orders[id]
		names := make([]string, 0, len(o.Items))
		for _, item := range o.Items {
			if p, ok := m.products[item.ProductID]; ok {
				names = append(names, p.Name)
			}
		}
		row := models.SaleRow{
			OrderID:   o.ID,
			CreatedAt: o.CreatedAt,
			Products:  strings.Join(names, ", "),
			Total:     o.Total,
		}
		if u, ok := m.users[o.UserID]; ok {
			row.CustomerName = u.Name
		}
		sales = append(sales, row)
	}
	return sales, nil
}

func (m *Memory) TopProducts(ctx context.Context, limit int) ([]models.TopProduct, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	type tally struct {
		units   int64
		revenue decimal.Decimal
	}
	byProduct := make(map[int64]tally)
	for _, o := range m.orders {
		for _, item := range o.Items {
			t := byProduct[item.ProductID]
			t.units += int64(item.Quantity)
			t.revenue = t.revenue.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
			byProduct[item.ProductID] = t
		}
	}

	top := make([]models.TopProduct, 0, len(byProduct))
	for id, t := range byProduct {
		p, ok := m.products[id]
		if !ok {
			continue
		}
		top = append(top, models.TopProduct{
			Name:      p.Name,
			ImageURL:  p.ImageURL,
			UnitsSold: t.units,
			Revenue:   t.revenue,
		})
	}
	sort.Slice(top, func(i, j int) bool { return top[i].UnitsSold > top[j].UnitsSold })
	if len(top) > limit {
		top = top[:limit]
	}
	return top, nil
}
