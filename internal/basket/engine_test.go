package basket

import (
	"context"
	"testing"

	"github.com/morislaflame/clo-client/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuestEngine(t *testing.T) (*Engine, *mockStore, *mockBasketAPI, *mockAuthState) {
	t.Helper()
	state := &mockAuthState{}
	store := &mockStore{}
	api := &mockBasketAPI{products: map[int64]domain.ProductSnapshot{1: hoodie(), 2: tee()}}
	return NewEngine(state, store, api, testLogger()), store, api, state
}

func newAuthedEngine(t *testing.T) (*Engine, *mockStore, *mockBasketAPI, *mockAuthState) {
	t.Helper()
	e, store, api, state := newGuestEngine(t)
	state.setAuthed(true)
	return e, store, api, state
}

// checkInvariant asserts the aggregate consistency invariant: the summary
// must equal a from-scratch recomputation over the current lines.
func checkInvariant(t *testing.T, e *Engine) {
	t.Helper()
	lines, summary := e.Snapshot()
	assert.Equal(t, domain.SummaryOf(lines), summary)
}

func TestGuest_AddSameProductTwiceMergesLines(t *testing.T) {
	e, _, _, _ := newGuestEngine(t)
	ctx := context.Background()

	_, err := e.Add(ctx, hoodie(), nil, nil)
	require.NoError(t, err)
	_, err = e.Add(ctx, hoodie(), nil, nil)
	require.NoError(t, err)

	lines, summary := e.Snapshot()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, float64(2000), summary.TotalKZT)
	assert.Equal(t, 2, summary.ItemsCount)
	checkInvariant(t, e)
}

func TestGuest_VariantSelectorsMakeDistinctLines(t *testing.T) {
	e, _, _, _ := newGuestEngine(t)
	ctx := context.Background()

	red := int64(10)
	blue := int64(11)
	_, err := e.Add(ctx, hoodie(), &red, nil)
	require.NoError(t, err)
	_, err = e.Add(ctx, hoodie(), &blue, nil)
	require.NoError(t, err)
	_, err = e.Add(ctx, hoodie(), &red, nil)
	require.NoError(t, err)

	lines, summary := e.Snapshot()
	require.Len(t, lines, 2)
	assert.Equal(t, 3, summary.ItemsCount)
	checkInvariant(t, e)
}

func TestGuest_AddPersistsToStore(t *testing.T) {
	e, store, _, _ := newGuestEngine(t)
	ctx := context.Background()

	_, err := e.Add(ctx, hoodie(), nil, nil)
	require.NoError(t, err)

	persisted, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, persisted, 1)
	assert.Equal(t, "hoodie", persisted[0].Product.Name)
}

func TestGuest_RemoveMissingLineFails(t *testing.T) {
	e, _, _, _ := newGuestEngine(t)

	err := e.Remove(context.Background(), 99, nil, nil)
	assert.ErrorIs(t, err, ErrNotInBasket)
	assert.ErrorIs(t, e.Err(), ErrNotInBasket)
}

func TestGuest_SetQuantityZeroRemovesLine(t *testing.T) {
	e, _, _, _ := newGuestEngine(t)
	ctx := context.Background()

	_, err := e.Add(ctx, hoodie(), nil, nil)
	require.NoError(t, err)

	require.NoError(t, e.SetQuantity(ctx, 1, 0, nil, nil))

	lines, summary := e.Snapshot()
	assert.Empty(t, lines)
	assert.Equal(t, domain.BasketSummary{}, summary)
	checkInvariant(t, e)
}

func TestGuest_SetQuantityDirectly(t *testing.T) {
	e, _, _, _ := newGuestEngine(t)
	ctx := context.Background()

	_, err := e.Add(ctx, hoodie(), nil, nil)
	require.NoError(t, err)
	require.NoError(t, e.SetQuantity(ctx, 1, 5, nil, nil))

	lines, summary := e.Snapshot()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.Equal(t, float64(5000), summary.TotalKZT)
	checkInvariant(t, e)
}

func TestGuest_CountNeedsNoNetwork(t *testing.T) {
	e, _, api, _ := newGuestEngine(t)
	ctx := context.Background()

	_, err := e.Add(ctx, hoodie(), nil, nil)
	require.NoError(t, err)
	_, err = e.Add(ctx, tee(), nil, nil)
	require.NoError(t, err)

	count, err := e.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Zero(t, api.countCalls)
}

func TestGuest_LoadAppliesStoreState(t *testing.T) {
	e, store, _, _ := newGuestEngine(t)
	store.lines = []domain.BasketLine{{ProductID: 1, Quantity: 3, Product: hoodie()}}

	require.NoError(t, e.Load(context.Background()))

	lines, summary := e.Snapshot()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, summary.ItemsCount)
	assert.Equal(t, float64(3000), summary.TotalKZT)
}

func TestAuthed_LoadReplacesStateWithServerTruth(t *testing.T) {
	e, _, api, _ := newAuthedEngine(t)
	api.items = []domain.BasketLine{
		{ID: 7, ProductID: 1, Quantity: 2, Product: hoodie()},
	}

	require.NoError(t, e.Load(context.Background()))

	lines, summary := e.Snapshot()
	require.Len(t, lines, 1)
	assert.Equal(t, int64(7), lines[0].ID)
	assert.Equal(t, 2, summary.ItemsCount)
	checkInvariant(t, e)
}

func TestAuthed_AddReconcilesByDelta(t *testing.T) {
	e, _, api, _ := newAuthedEngine(t)
	ctx := context.Background()

	require.NoError(t, e.Load(ctx))

	// Two adds of the same product: the second one must not duplicate the
	// line, and aggregates must track the server-decided quantity.
	_, err := e.Add(ctx, hoodie(), nil, nil)
	require.NoError(t, err)
	checkInvariant(t, e)

	_, err = e.Add(ctx, hoodie(), nil, nil)
	require.NoError(t, err)

	lines, summary := e.Snapshot()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, float64(2000), summary.TotalKZT)
	checkInvariant(t, e)

	// Aggregates were maintained by delta, not by refetching.
	assert.Equal(t, 1, api.fetchCalls)
}

func TestAuthed_RemoveUnknownKeySkipsNetwork(t *testing.T) {
	e, _, api, _ := newAuthedEngine(t)
	require.NoError(t, e.Load(context.Background()))

	err := e.Remove(context.Background(), 42, nil, nil)
	assert.ErrorIs(t, err, ErrNotInBasket)
	assert.Zero(t, api.removeCalls)
}

func TestAuthed_RemoveDecrementsAggregates(t *testing.T) {
	e, _, api, _ := newAuthedEngine(t)
	ctx := context.Background()

	_, err := e.Add(ctx, hoodie(), nil, nil)
	require.NoError(t, err)
	_, err = e.Add(ctx, tee(), nil, nil)
	require.NoError(t, err)

	require.NoError(t, e.Remove(ctx, 1, nil, nil))

	lines, summary := e.Snapshot()
	require.Len(t, lines, 1)
	assert.Equal(t, int64(2), lines[0].ProductID)
	assert.Equal(t, float64(4000), summary.TotalKZT)
	assert.Equal(t, 1, api.removeCalls)
	checkInvariant(t, e)
}

func TestAuthed_RemoveFailureLeavesStateUntouched(t *testing.T) {
	e, _, api, _ := newAuthedEngine(t)
	ctx := context.Background()

	_, err := e.Add(ctx, hoodie(), nil, nil)
	require.NoError(t, err)

	api.removeErr = errAddRejected
	err = e.Remove(ctx, 1, nil, nil)
	require.Error(t, err)

	lines, summary := e.Snapshot()
	assert.Len(t, lines, 1)
	assert.Equal(t, 1, summary.ItemsCount)
	assert.Error(t, e.Err())
	checkInvariant(t, e)
}

func TestAuthed_SetQuantityReconcilesByDelta(t *testing.T) {
	e, _, _, _ := newAuthedEngine(t)
	ctx := context.Background()

	_, err := e.Add(ctx, hoodie(), nil, nil)
	require.NoError(t, err)

	require.NoError(t, e.SetQuantity(ctx, 1, 4, nil, nil))

	lines, summary := e.Snapshot()
	require.Len(t, lines, 1)
	assert.Equal(t, 4, lines[0].Quantity)
	assert.Equal(t, float64(4000), summary.TotalKZT)
	assert.Equal(t, 4, summary.ItemsCount)
	checkInvariant(t, e)
}

func TestAuthed_SetQuantityZeroRemovesViaServer(t *testing.T) {
	e, _, api, _ := newAuthedEngine(t)
	ctx := context.Background()

	_, err := e.Add(ctx, hoodie(), nil, nil)
	require.NoError(t, err)

	require.NoError(t, e.SetQuantity(ctx, 1, 0, nil, nil))

	lines, _ := e.Snapshot()
	assert.Empty(t, lines)
	assert.Equal(t, 1, api.removeCalls)
	assert.Zero(t, api.updateCalls)
	checkInvariant(t, e)
}

func TestAuthed_ClearOnlyAfterConfirmation(t *testing.T) {
	e, _, api, _ := newAuthedEngine(t)
	ctx := context.Background()

	_, err := e.Add(ctx, hoodie(), nil, nil)
	require.NoError(t, err)

	api.clearErr = errAddRejected
	require.Error(t, e.Clear(ctx))

	// Failure leaves the in-memory basket alone.
	lines, _ := e.Snapshot()
	assert.Len(t, lines, 1)

	api.clearErr = nil
	require.NoError(t, e.Clear(ctx))
	lines, summary := e.Snapshot()
	assert.Empty(t, lines)
	assert.Equal(t, domain.BasketSummary{}, summary)
}

func TestAuthed_CountFetchesFromServer(t *testing.T) {
	e, _, api, _ := newAuthedEngine(t)
	api.items = []domain.BasketLine{{ID: 1, ProductID: 1, Quantity: 5, Product: hoodie()}}

	count, err := e.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, count)
	assert.Equal(t, 1, api.countCalls)
}

func TestContains_ChecksActiveArray(t *testing.T) {
	e, _, _, _ := newGuestEngine(t)
	ctx := context.Background()

	size := int64(3)
	_, err := e.Add(ctx, hoodie(), nil, &size)
	require.NoError(t, err)

	assert.True(t, e.Contains(1, nil, &size))
	assert.False(t, e.Contains(1, nil, nil))
	assert.False(t, e.Contains(2, nil, &size))
}

func TestModeSwitchesPerCall(t *testing.T) {
	e, store, api, state := newGuestEngine(t)
	ctx := context.Background()

	_, err := e.Add(ctx, hoodie(), nil, nil)
	require.NoError(t, err)
	assert.Len(t, store.lines, 1)
	assert.Empty(t, api.addCalls)

	// Login mid-session: the very next call goes to the gateway.
	state.setAuthed(true)
	_, err = e.Add(ctx, tee(), nil, nil)
	require.NoError(t, err)
	assert.Len(t, api.addCalls, 1)
}

func TestErrClearedAfterSuccess(t *testing.T) {
	e, _, _, _ := newGuestEngine(t)
	ctx := context.Background()

	require.Error(t, e.Remove(ctx, 1, nil, nil))
	require.Error(t, e.Err())

	_, err := e.Add(ctx, hoodie(), nil, nil)
	require.NoError(t, err)
	assert.NoError(t, e.Err())
}

func TestCheckoutSnapshotSeam(t *testing.T) {
	e, _, _, _ := newGuestEngine(t)
	ctx := context.Background()

	color := int64(7)
	_, err := e.Add(ctx, hoodie(), &color, nil)
	require.NoError(t, err)
	require.NoError(t, e.SetQuantity(ctx, 1, 2, &color, nil))
	_, err = e.Add(ctx, tee(), nil, nil)
	require.NoError(t, err)

	snap := e.Checkout()
	require.Len(t, snap.Items, 2)
	assert.Equal(t, float64(2*1000+4000), snap.TotalKZT)
	assert.Equal(t, float64(2*2+8), snap.TotalUSD)
	require.NotNil(t, snap.Items[0].ColorID)
	assert.Equal(t, int64(7), *snap.Items[0].ColorID)
	assert.False(t, snap.CapturedAt.IsZero())
}

// After every operation in a mixed sequence, the aggregates must equal a
// recomputation over the lines.
func TestInvariantHoldsAfterEveryOperation(t *testing.T) {
	for _, mode := range []string{"guest", "authed"} {
		t.Run(mode, func(t *testing.T) {
			var e *Engine
			if mode == "guest" {
				e, _, _, _ = newGuestEngine(t)
			} else {
				e, _, _, _ = newAuthedEngine(t)
			}
			ctx := context.Background()
			red := int64(10)

			step := func(op func() error) {
				_ = op()
				checkInvariant(t, e)
			}

			step(func() error { _, err := e.Add(ctx, hoodie(), nil, nil); return err })
			step(func() error { _, err := e.Add(ctx, hoodie(), &red, nil); return err })
			step(func() error { _, err := e.Add(ctx, tee(), nil, nil); return err })
			step(func() error { _, err := e.Add(ctx, hoodie(), nil, nil); return err })
			step(func() error { return e.SetQuantity(ctx, 2, 7, nil, nil) })
			step(func() error { return e.Remove(ctx, 1, &red, nil) })
			step(func() error { return e.Remove(ctx, 99, nil, nil) }) // expected failure
			step(func() error { return e.SetQuantity(ctx, 1, 0, nil, nil) })
			step(func() error { return e.Clear(ctx) })
		})
	}
}
