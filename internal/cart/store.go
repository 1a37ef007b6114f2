// Package cart holds the client-side mirror of the server-authoritative
// cart. The store is the single source of truth for "what is in the cart"
// and the only component permitted to call cart-mutating endpoints. It never
// derives cart state locally: every mutation ends in a refetch, so the
// displayed cart is always a value the server actually returned.
package cart

import (
	"context"
	"fmt"
	"sync"

	pkgerrors "github.com/chronoshop/storefront-client/pkg/errors"
	"github.com/chronoshop/storefront-client/pkg/logger"
	"github.com/chronoshop/storefront-client/pkg/shopapi"
)

// CartAPI is the slice of the storefront client the store depends on.
type CartAPI interface {
	GetCart(ctx context.Context) (*shopapi.Cart, error)
	AddItem(ctx context.Context, productID string, quantity int) (*shopapi.CartMutation, error)
	UpdateItem(ctx context.Context, productID string, quantity int) (*shopapi.CartMutation, error)
	RemoveItem(ctx context.Context, productID string) (*shopapi.CartMutation, error)
	ClearCart(ctx context.Context) (*shopapi.CartMutation, error)
}

// Store mirrors one session cart. Construct it once and hand it to every
// cart-aware view; there is no ambient singleton.
type Store struct {
	api    CartAPI
	logger *logger.Logger

	mu           sync.RWMutex
	mirror       *shopapi.Cart
	loadFailed   bool
	refreshSeq   uint64
	installedSeq uint64
	subs         []chan struct{}

	// mutationMu serializes mutation+refresh pairs so overlapping edits
	// cannot interleave their refetches.
	mutationMu sync.Mutex
}

// New builds a cart store over the provided client.
func New(api CartAPI, logg *logger.Logger) (*Store, error) {
	if api == nil {
		return nil, fmt.Errorf("cart api required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Store{api: api, logger: logg}, nil
}

// Refresh fetches the current cart and replaces the mirror unconditionally,
// unless a newer refresh already landed. On failure the mirror is left
// unchanged and the load-failed flag is set.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.refreshSeq++
	seq := s.refreshSeq
	s.mu.Unlock()

	fetched, err := s.api.GetCart(ctx)
	if err != nil {
		s.mu.Lock()
		s.loadFailed = true
		s.mu.Unlock()
		s.logger.Error(ctx, "cart refresh failed", err)
		return pkgerrors.Wrap(pkgerrors.CodeLoadFailed, err, "refresh cart")
	}

	s.mu.Lock()
	// A stale fetch must never overwrite a newer mirror.
	if seq > s.installedSeq {
		s.mirror = fetched
		s.installedSeq = seq
		s.loadFailed = false
	}
	s.mu.Unlock()

	s.notify()
	return nil
}

// AddItem adds quantity units of a product, then refetches before returning.
func (s *Store) AddItem(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	s.mutationMu.Lock()
	defer s.mutationMu.Unlock()

	if _, err := s.api.AddItem(ctx, productID, quantity); err != nil {
		s.logger.Error(s.logger.WithProductID(ctx, productID), "add to cart failed", err)
		return pkgerrors.Wrap(pkgerrors.CodeMutationFailed, err, "add item to cart")
	}

	s.refreshAfterMutation(ctx)
	return nil
}

// UpdateItem sets the quantity of a product already in the cart. Callers
// that want quantity zero must call RemoveItem instead.
func (s *Store) UpdateItem(ctx context.Context, productID string, quantity int) error {
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	s.mutationMu.Lock()
	defer s.mutationMu.Unlock()

	if _, err := s.api.UpdateItem(ctx, productID, quantity); err != nil {
		s.logger.Error(s.logger.WithProductID(ctx, productID), "update cart failed", err)
		return pkgerrors.Wrap(pkgerrors.CodeMutationFailed, err, "update cart item")
	}

	s.refreshAfterMutation(ctx)
	return nil
}

// RemoveItem drops a product from the cart. Removing an absent product
// resolves cleanly; the refetch is the source of truth either way.
func (s *Store) RemoveItem(ctx context.Context, productID string) error {
	s.mutationMu.Lock()
	defer s.mutationMu.Unlock()

	if _, err := s.api.RemoveItem(ctx, productID); err != nil {
		s.logger.Error(s.logger.WithProductID(ctx, productID), "remove from cart failed", err)
		return pkgerrors.Wrap(pkgerrors.CodeMutationFailed, err, "remove cart item")
	}

	s.refreshAfterMutation(ctx)
	return nil
}

// ClearCart empties the cart server-side and installs the empty value
// locally without a further fetch. "Empty" is unambiguous and depends on no
// server-computed aggregate, so this is the one local write allowed.
func (s *Store) ClearCart(ctx context.Context) error {
	s.mutationMu.Lock()
	defer s.mutationMu.Unlock()

	if _, err := s.api.ClearCart(ctx); err != nil {
		s.logger.Error(ctx, "clear cart failed", err)
		return pkgerrors.Wrap(pkgerrors.CodeMutationFailed, err, "clear cart")
	}

	s.mu.Lock()
	s.refreshSeq++
	s.installedSeq = s.refreshSeq
	s.mirror = shopapi.EmptyCart()
	s.loadFailed = false
	s.mu.Unlock()

	s.notify()
	return nil
}

// refreshAfterMutation re-syncs the mirror once the write is acknowledged.
// A failed refetch is a load failure, not a mutation failure: the mutation
// already succeeded, so it is reported through the load-failed flag rather
// than the mutation's return value.
func (s *Store) refreshAfterMutation(ctx context.Context) {
	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn(ctx, "cart mutation applied but refetch failed")
	}
}

// Snapshot returns a deep copy of the mirror, or nil before the first
// successful load.
func (s *Store) Snapshot() *shopapi.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.mirror == nil {
		return nil
	}
	copied := *s.mirror
	copied.Items = make([]shopapi.CartItem, len(s.mirror.Items))
	copy(copied.Items, s.mirror.Items)
	return &copied
}

// LoadFailed reports whether the most recent fetch failed. It is distinct
// from mutation failures, which are returned to the mutating caller.
func (s *Store) LoadFailed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadFailed
}

// ItemCount returns the mirrored item count, zero before first load.
func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.mirror == nil {
		return 0
	}
	return s.mirror.ItemCount
}

// Subscribe returns a channel that receives a tick whenever the mirror
// changes. Slow subscribers miss intermediate tick coalescing, never data.
func (s *Store) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

func (s *Store) notify() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
