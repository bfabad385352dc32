package basket

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/morislaflame/clo-client/internal/auth"
	"github.com/morislaflame/clo-client/internal/domain"
	"github.com/morislaflame/clo-client/internal/gateway"
	"github.com/morislaflame/clo-client/internal/localstore"
	"golang.org/x/sync/singleflight"
)

// Engine presents one basket API over two backing stores: the local envelope
// for guests and the remote gateway for authenticated users. Which one is
// active is decided per call from the injected session state, so a mid-session
// login changes mode on the very next operation.
//
// Guest mutations apply immediately (there is no network to confirm them).
// Authenticated mutations commit in-memory state only after the server
// confirms, and maintain the aggregates by delta instead of re-summing.
type Engine struct {
	authState auth.State
	store     localstore.Store
	api       gateway.BasketAPI
	log       *slog.Logger
	sfg       singleflight.Group // dedupes concurrent count fetches
	now       func() time.Time

	mu      sync.Mutex
	lines   []domain.BasketLine
	summary domain.BasketSummary
	lastErr error
}

func NewEngine(state auth.State, store localstore.Store, api gateway.BasketAPI, log *slog.Logger) *Engine {
	return &Engine{
		authState: state,
		store:     store,
		api:       api,
		log:       log.With("component", "basket"),
		now:       time.Now,
	}
}

// IsGuest reports the current mode.
func (e *Engine) IsGuest() bool {
	return !e.authState.IsAuthenticated()
}

// Load replaces in-memory state with the backing store's truth: the persisted
// envelope for guests (expiry applied), the server's view for authenticated
// users. Never optimistic.
func (e *Engine) Load(ctx context.Context) error {
	if e.IsGuest() {
		lines, err := e.store.Load(ctx)
		if err != nil {
			return e.fail(fmt.Errorf("load local basket: %w", err))
		}
		e.commit(lines, domain.SummaryOf(lines))
		return nil
	}

	lines, summary, err := e.api.Fetch(ctx)
	if err != nil {
		return e.fail(fmt.Errorf("load basket: %w", err))
	}
	e.commit(lines, summary)
	return nil
}

// Count returns the total item count. Guest mode answers from the already
// known aggregate without I/O; authenticated mode does a lightweight
// count-only fetch, deduplicated across concurrent callers.
func (e *Engine) Count(ctx context.Context) (int, error) {
	if e.IsGuest() {
		e.mu.Lock()
		defer e.mu.Unlock()
		return e.summary.ItemsCount, nil
	}

	v, err, _ := e.sfg.Do("count", func() (interface{}, error) {
		return e.api.Count(ctx)
	})
	if err != nil {
		return 0, e.fail(fmt.Errorf("load basket count: %w", err))
	}

	count := v.(int)
	e.mu.Lock()
	e.summary.ItemsCount = count
	e.mu.Unlock()
	return count, nil
}

// Add puts one unit of the product into the basket. A line with the same
// identity key absorbs the unit instead of producing a duplicate line.
func (e *Engine) Add(ctx context.Context, product domain.ProductSnapshot, colorID, sizeID *int64) (string, error) {
	key := domain.Key(product.ID, colorID, sizeID)

	if e.IsGuest() {
		e.mu.Lock()
		defer e.mu.Unlock()

		lines, err := e.store.Load(ctx)
		if err != nil {
			return "", e.failLocked(fmt.Errorf("load local basket: %w", err))
		}

		if i := indexOf(lines, key); i >= 0 {
			lines[i].Quantity++
			lines[i].UpdatedAt = e.now()
		} else {
			lines = append(lines, domain.BasketLine{
				ProductID:       product.ID,
				SelectedColorID: colorID,
				SelectedSizeID:  sizeID,
				Quantity:        1,
				Product:         product,
				CreatedAt:       e.now(),
				UpdatedAt:       e.now(),
			})
		}

		if err := e.store.Save(ctx, lines); err != nil {
			return "", e.failLocked(fmt.Errorf("save local basket: %w", err))
		}
		e.commitLocked(lines, domain.SummaryOf(lines))
		return "Added to basket", nil
	}

	item, msg, err := e.api.Add(ctx, product.ID, colorID, sizeID)
	if err != nil {
		return "", e.fail(fmt.Errorf("add to basket: %w", err))
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if i := indexOf(e.lines, key); i >= 0 {
		// The server decided the resulting quantity; reconcile by delta.
		delta := item.Quantity - e.lines[i].Quantity
		e.lines[i] = *item
		e.applyDeltaLocked(delta, item.Product)
	} else {
		e.lines = append(e.lines, *item)
		e.applyDeltaLocked(item.Quantity, item.Product)
	}
	return msg, nil
}

// Remove drops the whole line for the identity key.
func (e *Engine) Remove(ctx context.Context, productID int64, colorID, sizeID *int64) error {
	key := domain.Key(productID, colorID, sizeID)

	if e.IsGuest() {
		e.mu.Lock()
		defer e.mu.Unlock()

		lines, err := e.store.Load(ctx)
		if err != nil {
			return e.failLocked(fmt.Errorf("load local basket: %w", err))
		}
		i := indexOf(lines, key)
		if i < 0 {
			return e.failLocked(ErrNotInBasket)
		}
		lines = append(lines[:i], lines[i+1:]...)

		if err := e.store.Save(ctx, lines); err != nil {
			return e.failLocked(fmt.Errorf("save local basket: %w", err))
		}
		e.commitLocked(lines, domain.SummaryOf(lines))
		return nil
	}

	// Resolve the identity key to the server line id from in-memory state;
	// an unknown key fails without a network round-trip.
	e.mu.Lock()
	i := indexOf(e.lines, key)
	if i < 0 {
		e.mu.Unlock()
		return e.fail(ErrNotInBasket)
	}
	line := e.lines[i]
	e.mu.Unlock()

	if err := e.api.Remove(ctx, line.ID); err != nil {
		return e.fail(fmt.Errorf("remove from basket: %w", err))
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if i := indexOf(e.lines, key); i >= 0 {
		removed := e.lines[i]
		e.lines = append(e.lines[:i], e.lines[i+1:]...)
		e.applyDeltaLocked(-removed.Quantity, removed.Product)
	}
	return nil
}

// SetQuantity sets the line's quantity directly. Zero or less removes the
// line entirely, in either mode.
func (e *Engine) SetQuantity(ctx context.Context, productID int64, quantity int, colorID, sizeID *int64) error {
	if quantity <= 0 {
		return e.Remove(ctx, productID, colorID, sizeID)
	}
	key := domain.Key(productID, colorID, sizeID)

	if e.IsGuest() {
		e.mu.Lock()
		defer e.mu.Unlock()

		lines, err := e.store.Load(ctx)
		if err != nil {
			return e.failLocked(fmt.Errorf("load local basket: %w", err))
		}
		i := indexOf(lines, key)
		if i < 0 {
			return e.failLocked(ErrNotInBasket)
		}
		lines[i].Quantity = quantity
		lines[i].UpdatedAt = e.now()

		if err := e.store.Save(ctx, lines); err != nil {
			return e.failLocked(fmt.Errorf("save local basket: %w", err))
		}
		e.commitLocked(lines, domain.SummaryOf(lines))
		return nil
	}

	e.mu.Lock()
	i := indexOf(e.lines, key)
	if i < 0 {
		e.mu.Unlock()
		return e.fail(ErrNotInBasket)
	}
	line := e.lines[i]
	e.mu.Unlock()

	item, err := e.api.UpdateQuantity(ctx, line.ID, quantity)
	if err != nil {
		return e.fail(fmt.Errorf("update quantity: %w", err))
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if i := indexOf(e.lines, key); i >= 0 {
		delta := item.Quantity - e.lines[i].Quantity
		e.lines[i] = *item
		e.applyDeltaLocked(delta, item.Product)
	}
	return nil
}

// Clear empties the basket. Authenticated mode zeroes in-memory state only
// after server confirmation.
func (e *Engine) Clear(ctx context.Context) error {
	if e.IsGuest() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if err := e.store.Clear(ctx); err != nil {
			return e.failLocked(fmt.Errorf("clear local basket: %w", err))
		}
		e.commitLocked(nil, domain.BasketSummary{})
		return nil
	}

	if _, err := e.api.Clear(ctx); err != nil {
		return e.fail(fmt.Errorf("clear basket: %w", err))
	}
	e.commit(nil, domain.BasketSummary{})
	return nil
}

// Contains is an identity-key membership test over the in-memory lines.
func (e *Engine) Contains(productID int64, colorID, sizeID *int64) bool {
	key := domain.Key(productID, colorID, sizeID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return indexOf(e.lines, key) >= 0
}

// Snapshot returns a copy of the current lines and aggregates for display.
func (e *Engine) Snapshot() ([]domain.BasketLine, domain.BasketSummary) {
	e.mu.Lock()
	defer e.mu.Unlock()
	lines := make([]domain.BasketLine, len(e.lines))
	copy(lines, e.lines)
	return lines, e.summary
}

// Checkout captures the snapshot the order engine submits. This is the only
// seam between the two engines.
func (e *Engine) Checkout() domain.CheckoutSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return domain.SnapshotOf(e.lines, e.now())
}

// DiscardLocal drops the guest basket after its items became an order.
func (e *Engine) DiscardLocal(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.store.Clear(ctx); err != nil {
		return e.failLocked(fmt.Errorf("clear local basket: %w", err))
	}
	e.commitLocked(nil, domain.BasketSummary{})
	return nil
}

// Err returns the last operation error for banner display, nil after a
// successful operation.
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

func (e *Engine) commit(lines []domain.BasketLine, summary domain.BasketSummary) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.commitLocked(lines, summary)
}

func (e *Engine) commitLocked(lines []domain.BasketLine, summary domain.BasketSummary) {
	e.lines = lines
	e.summary = summary
	e.lastErr = nil
}

func (e *Engine) applyDeltaLocked(delta int, product domain.ProductSnapshot) {
	e.summary.ItemsCount += delta
	e.summary.TotalKZT += float64(delta) * product.PriceKZT
	e.summary.TotalUSD += float64(delta) * product.PriceUSD
	e.lastErr = nil
}

func (e *Engine) fail(err error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.failLocked(err)
}

func (e *Engine) failLocked(err error) error {
	e.lastErr = err
	return err
}

func indexOf(lines []domain.BasketLine, key domain.LineKey) int {
	for i, l := range lines {
		if l.Key() == key {
			return i
		}
	}
	return -1
}
