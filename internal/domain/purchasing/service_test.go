package purchasing

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estampados/printflow/internal/domain/inventory"
	"github.com/estampados/printflow/internal/domain/orders"
	"github.com/estampados/printflow/internal/domain/products"
)

type fakeOrders struct{ all []orders.Order }

func (f fakeOrders) ListByStatuses(_ context.Context, statuses []orders.Status) ([]orders.Order, error) {
	want := make(map[orders.Status]bool)
	for _, s := range statuses {
		want[s] = true
	}
	var out []orders.Order
	for _, o := range f.all {
		if want[o.Status] {
			out = append(out, o)
		}
	}
	return out, nil
}

type fakeRecipes struct {
	recipes map[int64][]products.RecipeEntry
	errFor  map[int64]error
}

func (f fakeRecipes) ListRecipe(_ context.Context, productID int64) ([]products.RecipeEntry, error) {
	if err := f.errFor[productID]; err != nil {
		return nil, err
	}
	return f.recipes[productID], nil
}

type fakeStock struct{ items []inventory.Item }

func (f fakeStock) List(_ context.Context) ([]inventory.Item, error) { return f.items, nil }

func orderWith(status orders.Status, productID int64, qty int) orders.Order {
	pid := productID
	return orders.Order{
		Status: status,
		Items:  []orders.Item{{ProductID: &pid, Quantity: qty}},
	}
}

func TestReportExcludesFinishedOrders(t *testing.T) {
	os := fakeOrders{all: []orders.Order{
		orderWith(orders.StatusReceived, 1, 50),
		orderWith(orders.StatusFinished, 1, 1000),
	}}
	rs := fakeRecipes{recipes: map[int64][]products.RecipeEntry{
		1: {{InventoryItemID: 10, QtyPerUnit: 1}},
	}}
	ss := fakeStock{items: []inventory.Item{{ID: 10, Name: "Item X", Quantity: 30}}}

	svc := NewService(os, rs, ss, slog.Default())
	needs, err := svc.Report(context.Background())
	require.NoError(t, err)
	require.Len(t, needs, 1)
	assert.Equal(t, 50.0, needs[0].Required, "finished orders must not count")
	assert.Equal(t, 20.0, needs[0].ToBuy)
}

func TestReportIncludesAllOpenStages(t *testing.T) {
	os := fakeOrders{all: []orders.Order{
		orderWith(orders.StatusReceived, 1, 1),
		orderWith(orders.StatusFinalization, 1, 2),
		orderWith(orders.StatusInProduction, 1, 3),
		orderWith(orders.StatusStoreRequest, 1, 100), // intake, not yet open
	}}
	rs := fakeRecipes{recipes: map[int64][]products.RecipeEntry{
		1: {{InventoryItemID: 10, QtyPerUnit: 1}},
	}}
	ss := fakeStock{items: []inventory.Item{{ID: 10, Name: "Malha", Quantity: 0}}}

	svc := NewService(os, rs, ss, slog.Default())
	needs, err := svc.Report(context.Background())
	require.NoError(t, err)
	require.Len(t, needs, 1)
	assert.Equal(t, 6.0, needs[0].Required)
}

func TestReportSkipsProductOnRecipeError(t *testing.T) {
	os := fakeOrders{all: []orders.Order{
		orderWith(orders.StatusReceived, 1, 5),
		orderWith(orders.StatusReceived, 2, 5),
	}}
	rs := fakeRecipes{
		recipes: map[int64][]products.RecipeEntry{
			1: {{InventoryItemID: 10, QtyPerUnit: 1}},
			2: {{InventoryItemID: 10, QtyPerUnit: 1}},
		},
		errFor: map[int64]error{2: errors.New("timeout")},
	}
	ss := fakeStock{items: []inventory.Item{{ID: 10, Name: "Tinta", Quantity: 0}}}

	svc := NewService(os, rs, ss, slog.Default())
	needs, err := svc.Report(context.Background())
	require.NoError(t, err)
	require.Len(t, needs, 1)
	// Product 2's contribution is silently dropped; the report under-states.
	assert.Equal(t, 5.0, needs[0].Required)
}

func TestReportIgnoresAdHocItems(t *testing.T) {
	os := fakeOrders{all: []orders.Order{
		{Status: orders.StatusReceived, Items: []orders.Item{{ProductID: nil, Quantity: 10}}},
	}}
	svc := NewService(os, fakeRecipes{}, fakeStock{}, slog.Default())
	needs, err := svc.Report(context.Background())
	require.NoError(t, err)
	assert.Empty(t, needs)
}

func TestExportXLSX(t *testing.T) {
	os := fakeOrders{all: []orders.Order{orderWith(orders.StatusReceived, 1, 3)}}
	rs := fakeRecipes{recipes: map[int64][]products.RecipeEntry{
		1: {{InventoryItemID: 10, QtyPerUnit: 10}},
	}}
	ss := fakeStock{items: []inventory.Item{{ID: 10, Name: "Tinta Preta", Unit: "ml", Quantity: 5}}}

	svc := NewService(os, rs, ss, slog.Default())
	data, name, err := svc.ExportXLSX(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Contains(t, name, "compras_")
}
