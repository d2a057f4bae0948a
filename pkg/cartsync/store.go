package cartsync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/adityakhanna/trendora-backend/pkg/errors"
	"github.com/adityakhanna/trendora-backend/pkg/logger"
)

const defaultRequestTimeout = 10 * time.Second

// Options configures a Store.
type Options struct {
	Logger *logger.Logger
	// TaxRate is a decimal string such as "0.18". Empty means no tax.
	TaxRate string
	// RequestTimeout bounds each persistence call. A timed-out call is
	// treated exactly like a failed one.
	RequestTimeout time.Duration
}

// Store owns the client-visible cart state. Mutations are applied to
// local state synchronously and persisted in the background; the id of a
// freshly added line is rebound from its pending token to the durable id
// once the server acknowledges the write.
//
// All methods are safe for concurrent use. Background acknowledgements
// are reconciled by id, never by position, so interleaving with further
// user actions is tolerated: an acknowledgement whose target id no longer
// exists is a no-op.
type Store struct {
	backend Backend
	log     *logger.Logger
	timeout time.Duration
	taxRate decimal.Decimal

	mu      sync.Mutex
	items   []LineItem
	loading bool
	lastErr error

	wg sync.WaitGroup
}

// New builds a Store around the given persistence backend.
func New(backend Backend, opts Options) (*Store, error) {
	if backend == nil {
		return nil, fmt.Errorf("cartsync: backend is required")
	}
	rate := decimal.Zero
	if opts.TaxRate != "" {
		parsed, err := decimal.NewFromString(opts.TaxRate)
		if err != nil {
			return nil, fmt.Errorf("cartsync: parsing tax rate %q: %w", opts.TaxRate, err)
		}
		rate = parsed
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Store{
		backend: backend,
		log:     opts.Logger,
		timeout: timeout,
		taxRate: rate,
	}, nil
}

// AddItem applies the candidate optimistically and schedules persistence.
// If a line with the same (productID, size) already exists its quantity is
// incremented in place; otherwise a new line is appended under a pending
// id. The returned id is the one the affected line held at the moment of
// the mutation.
//
// On persistence failure a line still under its pending id is removed
// wholesale, even if later adds merged into it in the meantime; a line
// that absorbed concurrent increments cannot be decremented precisely.
// A failed increment onto an already durable line leaves the line in
// place: the server still holds it, and the next Sync corrects the
// quantity drift.
func (s *Store) AddItem(c Candidate) (ItemID, error) {
	if c.ProductID == "" {
		return ItemID{}, errors.New(errors.CodeValidation, "product id is required")
	}
	if c.Quantity < 1 {
		return ItemID{}, errors.New(errors.CodeValidation, "quantity must be at least 1")
	}

	s.mu.Lock()
	var callID ItemID
	if idx := s.indexByKey(c.Key()); idx >= 0 {
		s.items[idx].Quantity += c.Quantity
		callID = s.items[idx].ID
	} else {
		callID = NewPendingID()
		s.items = append(s.items, LineItem{
			ID:         callID,
			ProductID:  c.ProductID,
			Name:       c.Name,
			PriceCents: c.PriceCents,
			Image:      c.Image,
			Quantity:   c.Quantity,
			Size:       c.Size,
		})
	}
	s.mu.Unlock()

	s.persist("add_item", func(ctx context.Context) error {
		durable, err := s.backend.CreateOrIncrement(ctx, c.ProductID, c.Quantity, c.Size)
		if err != nil {
			if callID.IsPending() {
				s.removeByID(callID)
			}
			return err
		}
		s.rebind(callID, DurableID(durable))
		return nil
	})
	return callID, nil
}

// RemoveItem deletes the line synchronously. A server delete is only
// issued for durable ids; a pending line never existed server-side, and
// dropping it here also makes its in-flight acknowledgement a no-op. The
// local removal is never rolled back on server failure.
func (s *Store) RemoveItem(id ItemID) {
	s.removeByID(id)
	if id.IsPending() || id.IsZero() {
		return
	}
	s.persist("remove_item", func(ctx context.Context) error {
		return s.backend.Delete(ctx, id.String())
	})
}

// UpdateQuantity sets the absolute quantity of a line. A quantity below
// one is a removal, not an error. The server update is skipped for
// pending ids; their creation call carries the merged quantity anyway
// once more adds arrive, and drift is corrected by the next Sync.
func (s *Store) UpdateQuantity(id ItemID, quantity int) {
	if quantity < 1 {
		s.RemoveItem(id)
		return
	}

	s.mu.Lock()
	idx := s.indexByID(id)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.items[idx].Quantity = quantity
	s.mu.Unlock()

	if id.IsPending() {
		return
	}
	s.persist("update_quantity", func(ctx context.Context) error {
		return s.backend.UpdateQuantity(ctx, id.String(), quantity)
	})
}

// Clear empties the cart synchronously and schedules a server-side clear.
// Local state stays empty even if the server call fails.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()

	s.persist("clear", func(ctx context.Context) error {
		return s.backend.Clear(ctx)
	})
}

// Sync fetches the server's cart and merges it with local state. Server
// lines come first and win every (productID, size) collision: their
// durable id and quantity are kept and the colliding local pending line
// is discarded, not summed. Local pending lines without a collision are
// appended. Local durable lines not present in the server list are
// dropped, since the server list is authoritative for persisted state.
// Discarded pending lines are not re-persisted.
func (s *Store) Sync(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	serverItems, err := s.backend.List(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.lastErr = err
		if s.log != nil {
			s.log.Error(ctx, "cart sync failed", err)
		}
		return err
	}

	merged := make([]LineItem, 0, len(serverItems)+len(s.items))
	seen := make(map[ItemKey]struct{}, len(serverItems))
	for _, item := range serverItems {
		merged = append(merged, item)
		seen[item.Key()] = struct{}{}
	}
	for _, item := range s.items {
		if !item.ID.IsPending() {
			continue
		}
		if _, taken := seen[item.Key()]; taken {
			continue
		}
		merged = append(merged, item)
		seen[item.Key()] = struct{}{}
	}
	s.items = merged
	return nil
}

// Items returns a snapshot of the current lines.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of lines.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// IsLoading reports whether a Sync is in flight.
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// LastError returns the most recent persistence failure, if any.
func (s *Store) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// ClearError resets the surfaced failure, typically after the UI has
// shown it.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = nil
}

// Totals holds the derived monetary view of the cart.
type Totals struct {
	SubtotalCents int64
	TaxCents      int64
	TotalCents    int64
}

// Totals recomputes subtotal, tax and grand total from the current lines.
// Nothing is cached; totals are always derived from live state.
func (s *Store) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()

	var subtotal int64
	for _, item := range s.items {
		subtotal += item.PriceCents * int64(item.Quantity)
	}
	tax := decimal.NewFromInt(subtotal).Mul(s.taxRate).Round(0).IntPart()
	return Totals{
		SubtotalCents: subtotal,
		TaxCents:      tax,
		TotalCents:    subtotal + tax,
	}
}

// Wait blocks until every scheduled persistence call has completed. It
// exists so callers can drain background work before shutdown or before
// asserting on reconciled state.
func (s *Store) Wait() {
	s.wg.Wait()
}

func (s *Store) persist(operation string, fn func(ctx context.Context) error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			s.mu.Lock()
			s.lastErr = err
			s.mu.Unlock()
			if s.log != nil {
				s.log.Error(ctx, "cart persistence failed: "+operation, err)
			}
		}
	}()
}

// rebind swaps the pending id for the durable one, preserving everything
// else about the line. Quantity in particular must survive: concurrent
// adds may have merged into the line while the write was in flight. If
// the pending id is gone the line was removed on purpose and the
// acknowledgement is dropped rather than resurrecting it.
func (s *Store) rebind(callID, durable ItemID) {
	if !callID.IsPending() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexByID(callID); idx >= 0 {
		s.items[idx].ID = durable
	}
}

func (s *Store) removeByID(id ItemID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexByID(id); idx >= 0 {
		s.items = append(s.items[:idx], s.items[idx+1:]...)
	}
}

func (s *Store) indexByID(id ItemID) int {
	for i, item := range s.items {
		if item.ID.Equal(id) {
			return i
		}
	}
	return -1
}

func (s *Store) indexByKey(key ItemKey) int {
	for i, item := range s.items {
		if item.Key() == key {
			return i
		}
	}
	return -1
}
