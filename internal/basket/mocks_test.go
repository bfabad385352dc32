package basket

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"

	"github.com/morislaflame/clo-client/internal/domain"
)

var errAddRejected = errors.New("add rejected")

type mockAuthState struct {
	mu     sync.Mutex
	authed bool
}

func (m *mockAuthState) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.authed
}

func (m *mockAuthState) setAuthed(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authed = v
}

type mockStore struct {
	mu       sync.Mutex
	lines    []domain.BasketLine
	loadErr  error
	saveErr  error
	clearErr error
	clears   int
}

func (m *mockStore) Load(context.Context) ([]domain.BasketLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	out := make([]domain.BasketLine, len(m.lines))
	copy(out, m.lines)
	return out, nil
}

func (m *mockStore) Save(_ context.Context, lines []domain.BasketLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.lines = make([]domain.BasketLine, len(lines))
	copy(m.lines, lines)
	return nil
}

func (m *mockStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.clearErr != nil {
		return m.clearErr
	}
	m.clears++
	m.lines = nil
	return nil
}

// mockBasketAPI behaves like the backend: add is idempotent-additive (each
// call bumps the matching line by one), quantities and aggregates are
// server-decided.
type mockBasketAPI struct {
	mu     sync.Mutex
	items  []domain.BasketLine
	nextID int64

	products map[int64]domain.ProductSnapshot

	addErr    error
	fetchErr  error
	removeErr error
	updateErr error
	clearErr  error

	failAddAfter int // >0: add calls beyond this many succeed no more

	addCalls    []int64 // product ids, in call order
	fetchCalls  int
	countCalls  int
	removeCalls int
	updateCalls int
	clearCalls  int
}

func (m *mockBasketAPI) Fetch(context.Context) ([]domain.BasketLine, domain.BasketSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchCalls++
	if m.fetchErr != nil {
		return nil, domain.BasketSummary{}, m.fetchErr
	}
	out := make([]domain.BasketLine, len(m.items))
	copy(out, m.items)
	return out, domain.SummaryOf(out), nil
}

func (m *mockBasketAPI) Count(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.countCalls++
	if m.fetchErr != nil {
		return 0, m.fetchErr
	}
	return domain.SummaryOf(m.items).ItemsCount, nil
}

func (m *mockBasketAPI) Check(_ context.Context, productID int64) (bool, *domain.BasketLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.items {
		if it.ProductID == productID {
			line := it
			return true, &line, nil
		}
	}
	return false, nil, nil
}

func (m *mockBasketAPI) Add(_ context.Context, productID int64, colorID, sizeID *int64) (*domain.BasketLine, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.addErr != nil {
		return nil, "", m.addErr
	}
	if m.failAddAfter > 0 && len(m.addCalls) >= m.failAddAfter {
		return nil, "", errAddRejected
	}
	m.addCalls = append(m.addCalls, productID)

	key := domain.Key(productID, colorID, sizeID)
	for i := range m.items {
		if m.items[i].Key() == key {
			m.items[i].Quantity++
			line := m.items[i]
			return &line, "added", nil
		}
	}

	m.nextID++
	line := domain.BasketLine{
		ID:              m.nextID,
		ProductID:       productID,
		SelectedColorID: colorID,
		SelectedSizeID:  sizeID,
		Quantity:        1,
		Product:         m.products[productID],
	}
	m.items = append(m.items, line)
	return &line, "added", nil
}

func (m *mockBasketAPI) Remove(_ context.Context, basketItemID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeCalls++
	if m.removeErr != nil {
		return m.removeErr
	}
	for i := range m.items {
		if m.items[i].ID == basketItemID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *mockBasketAPI) UpdateQuantity(_ context.Context, basketItemID int64, quantity int) (*domain.BasketLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCalls++
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	for i := range m.items {
		if m.items[i].ID == basketItemID {
			m.items[i].Quantity = quantity
			line := m.items[i]
			return &line, nil
		}
	}
	return nil, ErrNotInBasket
}

func (m *mockBasketAPI) Clear(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearCalls++
	if m.clearErr != nil {
		return 0, m.clearErr
	}
	n := len(m.items)
	m.items = nil
	return n, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func hoodie() domain.ProductSnapshot {
	return domain.ProductSnapshot{ID: 1, Name: "hoodie", PriceKZT: 1000, PriceUSD: 2}
}

func tee() domain.ProductSnapshot {
	return domain.ProductSnapshot{ID: 2, Name: "tee", PriceKZT: 4000, PriceUSD: 8}
}
