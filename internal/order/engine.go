package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/morislaflame/clo-client/internal/address"
	"github.com/morislaflame/clo-client/internal/domain"
	"github.com/morislaflame/clo-client/internal/gateway"
)

var ErrEmptyBasket = errors.New("basket is empty, nothing to order")

// Basket is the handle the submission engine needs from the basket engine:
// the mode, the checkout snapshot, and a way to drop the local basket once
// its items have become an order.
type Basket interface {
	IsGuest() bool
	Checkout() domain.CheckoutSnapshot
	DiscardLocal(ctx context.Context) error
}

// Engine submits orders. Its only state machine is idle -> creating -> idle;
// nothing intermediate persists, a failed submission is simply resubmitted.
type Engine struct {
	api  gateway.OrderAPI
	addr address.Validator
	log  *slog.Logger

	mu       sync.Mutex
	creating bool
	orders   []domain.Order
	current  *domain.Order
	errMsg   string
}

func NewEngine(api gateway.OrderAPI, addr address.Validator, log *slog.Logger) *Engine {
	return &Engine{
		api:  api,
		addr: addr,
		log:  log.With("component", "order"),
	}
}

// Create validates the form and submits the order. Guest orders inline the
// basket's checkout snapshot and clear the local basket on confirmed success;
// authenticated orders carry recipient/payment fields only, the server
// derives the items from its own basket. The basket is never cleared on
// failure.
func (e *Engine) Create(ctx context.Context, form Form, basket Basket) (*domain.Order, string, error) {
	e.setCreating(true)
	defer e.setCreating(false)

	guest := basket.IsGuest()
	if errs := validate(form, guest); errs != nil {
		// Field errors render inline, not in the banner; a banner left over
		// from an earlier network failure must not outlive them.
		e.clearErrMsg()
		return nil, "", errs
	}

	if form.Address != "" {
		res, err := e.addr.Validate(ctx, form.Address)
		if err != nil {
			return nil, "", e.fail(fmt.Errorf("validate address: %w", err))
		}
		if !res.IsValid {
			e.clearErrMsg()
			return nil, "", ValidationErrors{"address": res.ErrorMessage}
		}
		form.Address = res.FormattedAddress
	}

	req := gateway.CreateOrderRequest{
		RecipientName:  form.RecipientName,
		RecipientPhone: form.RecipientPhone,
		RecipientEmail: form.RecipientEmail,
		Address:        form.Address,
		PaymentMethod:  form.PaymentMethod,
	}

	var (
		created *domain.Order
		msg     string
		err     error
	)
	if guest {
		snap := basket.Checkout()
		if len(snap.Items) == 0 {
			e.clearErrMsg()
			return nil, "", ErrEmptyBasket
		}
		created, msg, err = e.api.CreateGuest(ctx, gateway.GuestOrderRequest{
			CreateOrderRequest: req,
			Items:              snap.Items,
			TotalKZT:           snap.TotalKZT,
			TotalUSD:           snap.TotalUSD,
		})
	} else {
		created, msg, err = e.api.Create(ctx, req)
	}
	if err != nil {
		return nil, "", e.fail(fmt.Errorf("create order: %w", err))
	}

	if guest {
		// The server took ownership of the items; only now is the local
		// basket dropped.
		if discardErr := basket.DiscardLocal(ctx); discardErr != nil {
			e.log.Warn("failed to discard local basket after order", "error", discardErr)
		}
	}

	e.mu.Lock()
	e.orders = append([]domain.Order{*created}, e.orders...)
	e.current = created
	e.errMsg = ""
	e.mu.Unlock()
	return created, msg, nil
}

// List refreshes the authenticated user's orders from the backend.
func (e *Engine) List(ctx context.Context) ([]domain.Order, error) {
	orders, err := e.api.ListMine(ctx)
	if err != nil {
		return nil, e.fail(fmt.Errorf("load orders: %w", err))
	}

	e.mu.Lock()
	e.orders = orders
	e.errMsg = ""
	e.mu.Unlock()
	return orders, nil
}

// Cancel requests a server-side transition to CANCELLED. Policy says only
// CREATED orders may be cancelled; that is not re-validated here, the server
// rejects invalid transitions and its message is surfaced as-is.
func (e *Engine) Cancel(ctx context.Context, orderID int64) (*domain.Order, error) {
	cancelled, err := e.api.CancelMine(ctx, orderID)
	if err != nil {
		return nil, e.fail(fmt.Errorf("cancel order: %w", err))
	}

	e.mu.Lock()
	for i := range e.orders {
		if e.orders[i].ID == cancelled.ID {
			e.orders[i] = *cancelled
			break
		}
	}
	if e.current != nil && e.current.ID == cancelled.ID {
		e.current = cancelled
	}
	e.errMsg = ""
	e.mu.Unlock()
	return cancelled, nil
}

// Creating reports whether a submission is in flight.
func (e *Engine) Creating() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.creating
}

// Orders returns a copy of the in-memory order list, newest first.
func (e *Engine) Orders() []domain.Order {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]domain.Order, len(e.orders))
	copy(out, e.orders)
	return out
}

// Current returns the most recently created or cancelled order.
func (e *Engine) Current() *domain.Order {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// ErrMessage is the user-displayable error from the last failed operation,
// empty after a success.
func (e *Engine) ErrMessage() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.errMsg
}

func (e *Engine) clearErrMsg() {
	e.mu.Lock()
	e.errMsg = ""
	e.mu.Unlock()
}

func (e *Engine) setCreating(v bool) {
	e.mu.Lock()
	e.creating = v
	e.mu.Unlock()
}

func (e *Engine) fail(err error) error {
	e.mu.Lock()
	e.errMsg = gateway.Message(err)
	e.mu.Unlock()
	return err
}
