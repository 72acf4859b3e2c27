package cart

import (
	"context"
	"errors"
	"testing"

	pkgerrors "github.com/aurelhart/storefront-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	snaps   map[string]Snapshot
	loadErr error
	saveErr error
	saves   int
	deletes int
}

func newStubStore() *stubStore {
	return &stubStore{snaps: map[string]Snapshot{}}
}

func (s *stubStore) Load(ctx context.Context, key string) (*Snapshot, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	snap, ok := s.snaps[key]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

func (s *stubStore) Save(ctx context.Context, key string, snap Snapshot) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.snaps[key] = snap
	return nil
}

func (s *stubStore) Delete(ctx context.Context, key string) error {
	s.deletes++
	delete(s.snaps, key)
	return nil
}

func newTestManager(t *testing.T, store SnapshotStore) *Manager {
	t.Helper()
	m, err := NewManager(store, nil, nil)
	require.NoError(t, err)
	return m
}

func TestNewManagerRequiresStore(t *testing.T) {
	t.Parallel()

	if _, err := NewManager(nil, nil, nil); err == nil {
		t.Fatal("expected error for nil store")
	}
}

func TestManagerPersistsAfterEveryMutation(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	m := newTestManager(t, store)
	ctx := context.Background()

	view, err := m.AddItem(ctx, "sess-1", LineItemInput{ProductID: 10, UnitPrice: price("25"), Quantity: 1})
	require.NoError(t, err)
	require.Len(t, view.Items, 1)

	itemID := view.Items[0].ID
	_, err = m.UpdateQuantity(ctx, "sess-1", itemID, 3)
	require.NoError(t, err)

	_, err = m.RemoveItem(ctx, "sess-1", itemID)
	require.NoError(t, err)

	assert.Equal(t, 3, store.saves, "one save per mutation")
}

func TestManagerRehydratesFromStore(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	ctx := context.Background()

	first := newTestManager(t, store)
	_, err := first.AddItem(ctx, "sess-1", LineItemInput{ProductID: 10, UnitPrice: price("25"), Quantity: 2})
	require.NoError(t, err)

	// A fresh manager sharing the store sees the persisted items.
	second := newTestManager(t, store)
	view, err := second.Fetch(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.True(t, view.Total.Equal(price("50")))
	assert.False(t, view.Open, "open flag is not persisted")
}

func TestManagerLoadFailureDegradesToEmptyCart(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	store.loadErr = errors.New("store down")
	m := newTestManager(t, store)

	view, err := m.Fetch(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestManagerSaveFailureSurfacesDependencyError(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	store.saveErr = errors.New("store down")
	m := newTestManager(t, store)

	_, err := m.AddItem(context.Background(), "sess-1", LineItemInput{ProductID: 1, UnitPrice: price("5"), Quantity: 1})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
}

func TestManagerClearDeletesSnapshot(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	m := newTestManager(t, store)
	ctx := context.Background()

	_, err := m.AddItem(ctx, "sess-1", LineItemInput{ProductID: 1, UnitPrice: price("5"), Quantity: 1})
	require.NoError(t, err)

	view, err := m.Clear(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.Equal(t, 1, store.deletes)
	assert.NotContains(t, store.snaps, "sess-1")
}

func TestManagerCheckoutLines(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	m := newTestManager(t, store)
	ctx := context.Background()

	_, err := m.AddItem(ctx, "sess-1", LineItemInput{ProductID: 10, UnitPrice: price("25"), Quantity: 2})
	require.NoError(t, err)
	_, err = m.AddItem(ctx, "sess-1", LineItemInput{ProductID: 5, VariationID: intPtr(99), UnitPrice: price("40"), Quantity: 1})
	require.NoError(t, err)

	lines, err := m.CheckoutLines(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, CheckoutLine{ProductID: 10, Quantity: 2}, lines[0])
	assert.Equal(t, 5, lines[1].ProductID)
	require.NotNil(t, lines[1].VariationID)
	assert.Equal(t, 99, *lines[1].VariationID)
}

func TestManagerSessionsAreIsolated(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	m := newTestManager(t, store)
	ctx := context.Background()

	_, err := m.AddItem(ctx, "sess-1", LineItemInput{ProductID: 1, UnitPrice: price("5"), Quantity: 1})
	require.NoError(t, err)

	view, err := m.Fetch(ctx, "sess-2")
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestManagerRejectsEmptySessionKey(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, newStubStore())
	_, err := m.Fetch(context.Background(), "")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
