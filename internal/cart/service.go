package cart

import (
	"context"
	"fmt"
	"sync"

	pkgerrors "github.com/aurelhart/storefront-backend/pkg/errors"
	"github.com/aurelhart/storefront-backend/pkg/logger"
	"github.com/aurelhart/storefront-backend/pkg/metrics"
	"github.com/shopspring/decimal"
)

// SnapshotStore is the durable key-value slot behind the cart. Load returns
// (nil, nil) when no usable snapshot exists for the key.
type SnapshotStore interface {
	Load(ctx context.Context, key string) (*Snapshot, error)
	Save(ctx context.Context, key string, snap Snapshot) error
	Delete(ctx context.Context, key string) error
}

// View is the read model handed to the HTTP layer: the rows plus the derived
// totals, recomputed at build time.
type View struct {
	Items     []LineItem
	Total     decimal.Decimal
	ItemCount int
	Open      bool
}

// CheckoutLine is the tuple handed wholesale to order creation.
type CheckoutLine struct {
	ProductID   int
	VariationID *int
	Quantity    int
}

// Manager owns one in-memory cart per session key, rehydrated from the
// snapshot store on first access and persisted after every mutation. It is
// an explicit dependency: callers hold a reference, there is no package
// singleton. Writes to a shared store are last-write-wins across holders.
type Manager struct {
	store   SnapshotStore
	logg    *logger.Logger
	metrics *metrics.CartMetrics

	mu    sync.Mutex
	carts map[string]*Cart
}

// NewManager builds a cart manager backed by the provided snapshot store.
func NewManager(store SnapshotStore, logg *logger.Logger, m *metrics.CartMetrics) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("snapshot store required")
	}
	return &Manager{
		store:   store,
		logg:    logg,
		metrics: m,
		carts:   map[string]*Cart{},
	}, nil
}

// Fetch returns the current view for the session, rehydrating if needed.
func (m *Manager) Fetch(ctx context.Context, key string) (View, error) {
	if key == "" {
		return View{}, pkgerrors.New(pkgerrors.CodeValidation, "session key is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view(m.cart(ctx, key)), nil
}

// AddItem applies the candidate to the session's cart and persists it.
func (m *Manager) AddItem(ctx context.Context, key string, input LineItemInput) (View, error) {
	return m.mutate(ctx, key, string(OpAdd), func(c *Cart) {
		c.AddItem(input)
	})
}

// UpdateQuantity updates a row's quantity and persists the cart.
func (m *Manager) UpdateQuantity(ctx context.Context, key, itemID string, quantity int) (View, error) {
	return m.mutate(ctx, key, string(OpUpdate), func(c *Cart) {
		c.UpdateQuantity(itemID, quantity)
	})
}

// RemoveItem drops a row and persists the cart.
func (m *Manager) RemoveItem(ctx context.Context, key, itemID string) (View, error) {
	return m.mutate(ctx, key, string(OpRemove), func(c *Cart) {
		c.RemoveItem(itemID)
	})
}

// Clear empties the session's cart and deletes its snapshot.
func (m *Manager) Clear(ctx context.Context, key string) (View, error) {
	if key == "" {
		return View{}, pkgerrors.New(pkgerrors.CodeValidation, "session key is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.cart(ctx, key)
	c.Clear()
	m.metrics.IncMutation(string(OpClear))

	if err := m.store.Delete(ctx, key); err != nil {
		m.metrics.IncSnapshotFailure("delete")
		return View{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart snapshot")
	}
	return m.view(c), nil
}

// CheckoutLines maps the cart rows to the order-creation tuples.
func (m *Manager) CheckoutLines(ctx context.Context, key string) ([]CheckoutLine, error) {
	if key == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session key is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	items := m.cart(ctx, key).Items()
	lines := make([]CheckoutLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, CheckoutLine{
			ProductID:   item.ProductID,
			VariationID: copyIntPtr(item.VariationID),
			Quantity:    item.Quantity,
		})
	}
	return lines, nil
}

// cart returns the in-memory cart for the key, rehydrating from the store on
// first access. Load failures degrade to an empty cart: a cart that cannot
// be rehydrated must still be usable.
func (m *Manager) cart(ctx context.Context, key string) *Cart {
	if c, ok := m.carts[key]; ok {
		return c
	}

	snap, err := m.store.Load(ctx, key)
	if err != nil {
		m.metrics.IncSnapshotFailure("load")
		if m.logg != nil {
			m.logg.Error(m.logg.WithSessionID(ctx, key), "cart.snapshot.load_failed", err)
		}
		snap = nil
	}

	c := FromSnapshot(snap)
	m.carts[key] = c
	return c
}

func (m *Manager) mutate(ctx context.Context, key, op string, fn func(*Cart)) (View, error) {
	if key == "" {
		return View{}, pkgerrors.New(pkgerrors.CodeValidation, "session key is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.cart(ctx, key)
	fn(c)
	m.metrics.IncMutation(op)

	if err := m.store.Save(ctx, key, c.Snapshot()); err != nil {
		m.metrics.IncSnapshotFailure("save")
		return View{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart snapshot")
	}
	return m.view(c), nil
}

func (m *Manager) view(c *Cart) View {
	return View{
		Items:     c.Items(),
		Total:     c.Total(),
		ItemCount: c.ItemCount(),
		Open:      c.Open(),
	}
}
