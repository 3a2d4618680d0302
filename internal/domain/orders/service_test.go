package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estampados/printflow/internal/domain/clients"
	"github.com/estampados/printflow/internal/domain/inventory"
	"github.com/estampados/printflow/internal/domain/products"
)

/* In-memory fakes */

type fakeStore struct {
	orders      map[int64]*Order
	stock       map[int64]*inventory.Item
	nextID      int64
	finishCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orders: map[int64]*Order{},
		stock:  map[int64]*inventory.Item{},
	}
}

func (f *fakeStore) Create(_ context.Context, o Order) (*Order, error) {
	f.nextID++
	o.ID = f.nextID
	o.SeqNumber = f.nextID
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
	}
	cp := o
	f.orders[o.ID] = &cp
	return &o, nil
}

func (f *fakeStore) GetByID(_ context.Context, id int64) (*Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeStore) SetStatus(_ context.Context, id int64, s Status) error {
	o, ok := f.orders[id]
	if !ok {
		return ErrNotFound
	}
	o.Status = s
	return nil
}

func (f *fakeStore) Finish(_ context.Context, orderID int64, deds []Deduction) ([]DeductionResult, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return nil, ErrNotFound
	}
	f.finishCalls++
	o.Status = StatusFinished
	out := make([]DeductionResult, 0, len(deds))
	for _, d := range deds {
		it := f.stock[d.ItemID]
		it.Quantity -= d.Qty
		if it.Quantity < 0 {
			it.Quantity = 0
		}
		out = append(out, DeductionResult{ItemID: d.ItemID, Remaining: it.Quantity})
	}
	return out, nil
}

type fakeProducts struct {
	byID      map[int64]*products.Product
	recipes   map[int64][]products.RecipeEntry
	recipeErr map[int64]error
}

func (f *fakeProducts) GetByID(_ context.Context, id int64) (*products.Product, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, products.ErrNotFound
	}
	return p, nil
}

func (f *fakeProducts) ListRecipe(_ context.Context, productID int64) ([]products.RecipeEntry, error) {
	if err := f.recipeErr[productID]; err != nil {
		return nil, err
	}
	return f.recipes[productID], nil
}

type fakeItems struct{ store *fakeStore }

func (f fakeItems) GetByID(_ context.Context, id int64) (*inventory.Item, error) {
	it, ok := f.store.stock[id]
	if !ok {
		return nil, inventory.ErrNotFound
	}
	cp := *it
	return &cp, nil
}

type fakeClients struct{ byID map[int64]*clients.Client }

func (f fakeClients) GetByID(_ context.Context, id int64) (*clients.Client, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, clients.ErrNotFound
	}
	return c, nil
}

type fakeNotifier struct {
	sent    []string
	failing bool
}

func (f *fakeNotifier) SendText(_ context.Context, phone, text string) error {
	if f.failing {
		return errors.New("gateway down")
	}
	f.sent = append(f.sent, text)
	return nil
}

func (f *fakeNotifier) DeepLink(phone, text string) string {
	return "https://wa.me/" + phone
}

type fakeAlerter struct{ alerts []string }

func (f *fakeAlerter) LowStock(_ context.Context, it inventory.Item) error {
	f.alerts = append(f.alerts, it.Name)
	return nil
}

/* Fixture: product "Camiseta Dry" consumes 10ml of "Tinta Preta" per unit. */

type fixture struct {
	store    *fakeStore
	prods    *fakeProducts
	notifier *fakeNotifier
	alerter  *fakeAlerter
	svc      *Service
}

func newFixture(t *testing.T, inkQty float64) *fixture {
	t.Helper()
	store := newFakeStore()
	store.stock[1] = &inventory.Item{ID: 1, Name: "Tinta Preta", Quantity: inkQty, Unit: "ml", MinLevel: 10}

	pid := int64(7)
	prods := &fakeProducts{
		byID: map[int64]*products.Product{
			pid: {ID: pid, Name: "Camiseta Dry", Active: true, Published: true, BasePrice: decimal.NewFromFloat(49.90)},
		},
		recipes: map[int64][]products.RecipeEntry{
			pid: {{ID: 1, ProductID: pid, InventoryItemID: 1, QtyPerUnit: 10}},
		},
		recipeErr: map[int64]error{},
	}
	notifier := &fakeNotifier{}
	alerter := &fakeAlerter{}
	cls := fakeClients{byID: map[int64]*clients.Client{
		3: {ID: 3, Name: "Ana", Phone: "+55 11 98888-7777"},
	}}

	svc := NewService(store, prods, fakeItems{store}, cls, notifier, alerter, true, slog.Default())
	return &fixture{store: store, prods: prods, notifier: notifier, alerter: alerter, svc: svc}
}

func (f *fixture) seedOrder(t *testing.T, status Status, qty int) *Order {
	t.Helper()
	pid := int64(7)
	clientID := int64(3)
	o, err := f.store.Create(context.Background(), Order{
		ClientID: &clientID,
		Status:   status,
		Items: []Item{
			{ProductID: &pid, ProductName: "Camiseta Dry", Quantity: qty, UnitPrice: decimal.NewFromFloat(49.90)},
		},
	})
	require.NoError(t, err)
	return o
}

func TestFinishDeductsRecipeQuantities(t *testing.T) {
	f := newFixture(t, 100)
	o := f.seedOrder(t, StatusInProduction, 3)

	got, err := f.svc.TransitionStatus(context.Background(), o.ID, StatusFinished)
	require.NoError(t, err)
	assert.Equal(t, StatusFinished, got.Status)
	// 100 - 10ml × 3 units
	assert.Equal(t, 70.0, f.store.stock[1].Quantity)
}

func TestFinishClampsStockAtZero(t *testing.T) {
	f := newFixture(t, 20)
	o := f.seedOrder(t, StatusInProduction, 3)

	_, err := f.svc.TransitionStatus(context.Background(), o.ID, StatusFinished)
	require.NoError(t, err)
	assert.Equal(t, 0.0, f.store.stock[1].Quantity)
}

func TestNonFinishedTransitionLeavesStockAlone(t *testing.T) {
	f := newFixture(t, 100)
	o := f.seedOrder(t, StatusReceived, 3)

	_, err := f.svc.TransitionStatus(context.Background(), o.ID, StatusFinalization)
	require.NoError(t, err)
	assert.Equal(t, 100.0, f.store.stock[1].Quantity)
	assert.Zero(t, f.store.finishCalls)
}

func TestRedundantFinishIsNoOp(t *testing.T) {
	f := newFixture(t, 100)
	o := f.seedOrder(t, StatusInProduction, 3)

	_, err := f.svc.TransitionStatus(context.Background(), o.ID, StatusFinished)
	require.NoError(t, err)
	_, err = f.svc.TransitionStatus(context.Background(), o.ID, StatusFinished)
	require.NoError(t, err)

	assert.Equal(t, 70.0, f.store.stock[1].Quantity, "second call must not deduct again")
	assert.Equal(t, 1, f.store.finishCalls)
}

func TestStageSkippingRejected(t *testing.T) {
	f := newFixture(t, 100)
	o := f.seedOrder(t, StatusReceived, 1)

	_, err := f.svc.TransitionStatus(context.Background(), o.ID, StatusFinished)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, 100.0, f.store.stock[1].Quantity)

	_, err = f.svc.TransitionStatus(context.Background(), o.ID, Status("canceled"))
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestFinishedIsTerminal(t *testing.T) {
	f := newFixture(t, 100)
	o := f.seedOrder(t, StatusFinished, 1)

	_, err := f.svc.TransitionStatus(context.Background(), o.ID, StatusInProduction)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.svc.MoveToPrevious(context.Background(), o.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestMoveToPrevious(t *testing.T) {
	f := newFixture(t, 100)
	o := f.seedOrder(t, StatusInProduction, 1)

	got, err := f.svc.MoveToPrevious(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFinalization, got.Status)
}

func TestStorefrontChainMergesIntoMainFlow(t *testing.T) {
	f := newFixture(t, 100)
	o := f.seedOrder(t, StatusStoreRequest, 1)

	for _, s := range []Status{StatusStoreConference, StatusStoreChecked, StatusReceived} {
		got, err := f.svc.TransitionStatus(context.Background(), o.ID, s)
		require.NoError(t, err)
		assert.Equal(t, s, got.Status)
	}
}

func TestRecipeLookupFailureBlocksFinish(t *testing.T) {
	f := newFixture(t, 100)
	f.prods.recipeErr[7] = fmt.Errorf("connection reset")
	o := f.seedOrder(t, StatusInProduction, 3)

	_, err := f.svc.TransitionStatus(context.Background(), o.ID, StatusFinished)
	require.Error(t, err)
	// Nothing committed: status and stock untouched.
	assert.Equal(t, StatusInProduction, f.store.orders[o.ID].Status)
	assert.Equal(t, 100.0, f.store.stock[1].Quantity)
}

func TestFinishRaisesLowStockAlert(t *testing.T) {
	f := newFixture(t, 35) // 35 - 30 = 5, under min level 10
	o := f.seedOrder(t, StatusInProduction, 3)

	_, err := f.svc.TransitionStatus(context.Background(), o.ID, StatusFinished)
	require.NoError(t, err)
	assert.Equal(t, []string{"Tinta Preta"}, f.alerter.alerts)
}

func TestTransitionSendsNotification(t *testing.T) {
	f := newFixture(t, 100)
	o := f.seedOrder(t, StatusReceived, 1)

	_, err := f.svc.TransitionStatus(context.Background(), o.ID, StatusFinalization)
	require.NoError(t, err)
	require.Len(t, f.notifier.sent, 1)
	assert.Contains(t, f.notifier.sent[0], "Ana")
}

func TestNotificationFailureDoesNotBlockTransition(t *testing.T) {
	f := newFixture(t, 100)
	f.notifier.failing = true
	o := f.seedOrder(t, StatusReceived, 1)

	got, err := f.svc.TransitionStatus(context.Background(), o.ID, StatusFinalization)
	require.NoError(t, err)
	assert.Equal(t, StatusFinalization, got.Status)
}

func TestCreateComputesTotalFromItems(t *testing.T) {
	f := newFixture(t, 100)
	pid := int64(7)

	o, err := f.svc.Create(context.Background(), CreateInput{
		Items: []Item{
			{ProductID: &pid, ProductName: "Camiseta Dry", Quantity: 2, UnitPrice: decimal.NewFromFloat(49.90)},
		},
	})
	require.NoError(t, err)
	assert.True(t, o.TotalValue.Equal(decimal.NewFromFloat(99.80)))
	assert.Equal(t, OriginManual, o.Origin)
	assert.Equal(t, StatusReceived, o.Status)
}

func TestCreateKeepsCallerTotal(t *testing.T) {
	f := newFixture(t, 100)
	pid := int64(7)

	o, err := f.svc.Create(context.Background(), CreateInput{
		TotalValue: decimal.NewFromFloat(150),
		Items: []Item{
			{ProductID: &pid, ProductName: "Camiseta Dry", Quantity: 2, UnitPrice: decimal.NewFromFloat(49.90)},
		},
	})
	require.NoError(t, err)

	// Round-trip: the stored total is exactly what was provided.
	back, err := f.store.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.True(t, back.TotalValue.Equal(decimal.NewFromFloat(150)))
	assert.Len(t, back.Items, 1)
}

func TestCheckoutSnapshotsBasePrice(t *testing.T) {
	f := newFixture(t, 100)

	o, err := f.svc.Checkout(context.Background(), nil, []CheckoutItem{
		{ProductID: 7, Grade: "adulto", Size: "M", Quantity: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, OriginStorefront, o.Origin)
	assert.Equal(t, StatusStoreRequest, o.Status)
	assert.True(t, o.TotalValue.Equal(decimal.NewFromFloat(99.80)))
	assert.True(t, o.Items[0].UnitPrice.Equal(decimal.NewFromFloat(49.90)))
}

func TestCheckoutRejectsUnpublishedProduct(t *testing.T) {
	f := newFixture(t, 100)
	f.prods.byID[7].Published = false

	_, err := f.svc.Checkout(context.Background(), nil, []CheckoutItem{
		{ProductID: 7, Quantity: 1},
	})
	require.Error(t, err)

	_, err = f.svc.Checkout(context.Background(), nil, nil)
	require.Error(t, err)
}
