package cart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/chronoshop/storefront-client/pkg/errors"
	"github.com/chronoshop/storefront-client/pkg/logger"
	"github.com/chronoshop/storefront-client/pkg/shopapi"
)

// stubAPI mimics the server's session cart: quantities summed on add, line
// totals and subtotal recomputed in cents, absent removes treated as no-ops.
type stubAPI struct {
	mu         sync.Mutex
	quantities map[string]int
	priceCents map[string]int

	failGet    error
	failAdd    error
	failUpdate error
	failRemove error
	failClear  error

	getCalls int
}

func newStubAPI() *stubAPI {
	return &stubAPI{
		quantities: map[string]int{},
		priceCents: map[string]int{"watch-1": 14999, "watch-2": 89900},
	}
}

func centsToAmount(cents int) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

func (s *stubAPI) buildCart() *shopapi.Cart {
	cart := shopapi.EmptyCart()
	var subtotal int
	for id, qty := range s.quantities {
		line := s.priceCents[id] * qty
		subtotal += line
		cart.Items = append(cart.Items, shopapi.CartItem{
			ProductID: id,
			Product:   shopapi.ProductListItem{ID: id, Price: centsToAmount(s.priceCents[id])},
			Quantity:  qty,
			LineTotal: centsToAmount(line),
		})
		cart.ItemCount += qty
	}
	cart.Subtotal = centsToAmount(subtotal)
	return cart
}

func (s *stubAPI) ack() *shopapi.CartMutation {
	cart := s.buildCart()
	return &shopapi.CartMutation{Message: "ok", ItemCount: cart.ItemCount, Subtotal: cart.Subtotal}
}

func (s *stubAPI) GetCart(ctx context.Context) (*shopapi.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getCalls++
	if s.failGet != nil {
		return nil, s.failGet
	}
	return s.buildCart(), nil
}

func (s *stubAPI) AddItem(ctx context.Context, productID string, quantity int) (*shopapi.CartMutation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAdd != nil {
		return nil, s.failAdd
	}
	s.quantities[productID] += quantity
	return s.ack(), nil
}

func (s *stubAPI) UpdateItem(ctx context.Context, productID string, quantity int) (*shopapi.CartMutation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failUpdate != nil {
		return nil, s.failUpdate
	}
	if _, ok := s.quantities[productID]; ok {
		s.quantities[productID] = quantity
	}
	return s.ack(), nil
}

func (s *stubAPI) RemoveItem(ctx context.Context, productID string) (*shopapi.CartMutation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failRemove != nil {
		return nil, s.failRemove
	}
	delete(s.quantities, productID)
	return s.ack(), nil
}

func (s *stubAPI) ClearCart(ctx context.Context) (*shopapi.CartMutation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failClear != nil {
		return nil, s.failClear
	}
	s.quantities = map[string]int{}
	return s.ack(), nil
}

func newTestStore(t *testing.T, api CartAPI) *Store {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	store, err := New(api, logg)
	require.NoError(t, err)
	return store
}

func TestNewRequiresDependencies(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	_, err := New(nil, logg)
	require.Error(t, err)
	_, err = New(newStubAPI(), nil)
	require.Error(t, err)
}

func TestSnapshotNilBeforeFirstLoad(t *testing.T) {
	store := newTestStore(t, newStubAPI())
	assert.Nil(t, store.Snapshot())
	assert.Zero(t, store.ItemCount())
}

func TestRefreshInstallsServerCart(t *testing.T) {
	api := newStubAPI()
	api.quantities["watch-1"] = 2
	store := newTestStore(t, api)

	require.NoError(t, store.Refresh(context.Background()))
	snap := store.Snapshot()
	require.NotNil(t, snap)
	assert.Equal(t, 2, snap.ItemCount)
	assert.Equal(t, "299.98", snap.Subtotal)
}

func TestRefreshFailureLeavesMirrorAndSetsFlag(t *testing.T) {
	api := newStubAPI()
	api.quantities["watch-1"] = 1
	store := newTestStore(t, api)
	require.NoError(t, store.Refresh(context.Background()))

	api.mu.Lock()
	api.failGet = errors.New("connection refused")
	api.mu.Unlock()

	err := store.Refresh(context.Background())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeLoadFailed, pkgerrors.CodeOf(err))
	assert.True(t, store.LoadFailed())

	// Last-known-good mirror survives the failed fetch.
	snap := store.Snapshot()
	require.NotNil(t, snap)
	assert.Equal(t, 1, snap.ItemCount)
}

func TestAddItemRefetchConsistency(t *testing.T) {
	api := newStubAPI()
	store := newTestStore(t, api)

	require.NoError(t, store.AddItem(context.Background(), "watch-1", 2))

	// The mirror must equal what an independent fetch would return.
	independent, err := api.GetCart(context.Background())
	require.NoError(t, err)
	assert.Equal(t, independent, store.Snapshot())
}

func TestAddItemRejectsQuantityBelowOne(t *testing.T) {
	api := newStubAPI()
	store := newTestStore(t, api)

	err := store.AddItem(context.Background(), "watch-1", 0)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
	assert.Zero(t, api.getCalls, "invalid quantity must not reach the network")
}

func TestAddItemFailurePropagatesAndMirrorUnchanged(t *testing.T) {
	api := newStubAPI()
	store := newTestStore(t, api)
	require.NoError(t, store.Refresh(context.Background()))

	api.mu.Lock()
	api.failAdd = errors.New("boom")
	api.mu.Unlock()

	err := store.AddItem(context.Background(), "watch-1", 1)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeMutationFailed, pkgerrors.CodeOf(err))
	assert.Zero(t, store.ItemCount())
	assert.False(t, store.LoadFailed(), "mutation failure is not a load failure")
}

func TestUpdateItemRejectsQuantityBelowOne(t *testing.T) {
	store := newTestStore(t, newStubAPI())
	err := store.UpdateItem(context.Background(), "watch-1", 0)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestRemoveAbsentItemIsIdempotent(t *testing.T) {
	api := newStubAPI()
	api.quantities["watch-1"] = 2
	store := newTestStore(t, api)
	require.NoError(t, store.Refresh(context.Background()))

	require.NoError(t, store.RemoveItem(context.Background(), "not-in-cart"))
	assert.Equal(t, 2, store.ItemCount(), "absent remove leaves item_count unchanged")
}

func TestClearCartInstallsEmptyWithoutRefetch(t *testing.T) {
	api := newStubAPI()
	api.quantities["watch-1"] = 3
	store := newTestStore(t, api)
	require.NoError(t, store.Refresh(context.Background()))

	fetchesBefore := api.getCalls
	require.NoError(t, store.ClearCart(context.Background()))

	assert.Equal(t, fetchesBefore, api.getCalls, "clear must not trigger a refetch")
	snap := store.Snapshot()
	require.NotNil(t, snap)
	assert.Zero(t, snap.ItemCount)
	assert.Empty(t, snap.Items)
	assert.Equal(t, "0.00", snap.Subtotal)
}

func TestMutationSequenceEndToEnd(t *testing.T) {
	api := newStubAPI()
	store := newTestStore(t, api)
	ctx := context.Background()

	require.NoError(t, store.AddItem(ctx, "watch-1", 2))
	assert.Equal(t, 2, store.ItemCount())

	require.NoError(t, store.UpdateItem(ctx, "watch-1", 1))
	assert.Equal(t, 1, store.ItemCount())

	require.NoError(t, store.RemoveItem(ctx, "watch-1"))
	assert.Zero(t, store.ItemCount())
}

func TestSnapshotIsACopy(t *testing.T) {
	api := newStubAPI()
	api.quantities["watch-1"] = 1
	store := newTestStore(t, api)
	require.NoError(t, store.Refresh(context.Background()))

	snap := store.Snapshot()
	snap.Items[0].Quantity = 99
	snap.ItemCount = 99

	fresh := store.Snapshot()
	assert.Equal(t, 1, fresh.ItemCount, "mutating a snapshot must not touch the mirror")
	assert.Equal(t, 1, fresh.Items[0].Quantity)
}

func TestSubscribeSignalsOnChange(t *testing.T) {
	api := newStubAPI()
	store := newTestStore(t, api)
	ch := store.Subscribe()

	require.NoError(t, store.AddItem(context.Background(), "watch-1", 1))

	select {
	case <-ch:
	default:
		t.Fatal("expected a change notification after a mutation")
	}
}

func TestConcurrentMutationsSerialize(t *testing.T) {
	api := newStubAPI()
	store := newTestStore(t, api)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := "watch-" + strconv.Itoa(n%2+1)
			_ = store.AddItem(ctx, id, 1)
		}(i)
	}
	wg.Wait()

	// All eight adds land and the final refresh reflects every one.
	assert.Equal(t, 8, store.ItemCount())
}
