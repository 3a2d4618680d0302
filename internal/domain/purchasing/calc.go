package purchasing

import (
	"sort"

	"github.com/estampados/printflow/internal/domain/inventory"
	"github.com/estampados/printflow/internal/domain/products"
)

// OpenLine is one line item from a non-terminal order.
type OpenLine struct {
	ProductID int64
	Quantity  int
}

// Need is one row of the purchase-need report.
type Need struct {
	ItemID   int64
	Name     string
	Unit     string
	Required float64
	Stock    float64
	Balance  float64
	ToBuy    float64
}

// Calculate is a pure function of its inputs: it aggregates required
// quantities per inventory item across every open line's recipe,
// compares against the stock snapshot and sorts by urgency. Items
// nothing requires are omitted even when low on stock.
func Calculate(lines []OpenLine, recipes map[int64][]products.RecipeEntry, stock []inventory.Item) []Need {
	required := make(map[int64]float64)
	for _, l := range lines {
		for _, e := range recipes[l.ProductID] {
			required[e.InventoryItemID] += e.QtyPerUnit * float64(l.Quantity)
		}
	}

	byID := make(map[int64]inventory.Item, len(stock))
	for _, it := range stock {
		byID[it.ID] = it
	}

	out := make([]Need, 0, len(required))
	for itemID, req := range required {
		if req == 0 {
			continue
		}
		it := byID[itemID]
		balance := it.Quantity - req
		toBuy := 0.0
		if balance < 0 {
			toBuy = -balance
		}
		out = append(out, Need{
			ItemID:   itemID,
			Name:     it.Name,
			Unit:     it.Unit,
			Required: req,
			Stock:    it.Quantity,
			Balance:  balance,
			ToBuy:    toBuy,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].ToBuy != out[j].ToBuy {
			return out[i].ToBuy > out[j].ToBuy
		}
		return out[i].Name < out[j].Name
	})
	return out
}
