package products

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID           int64
	SKU          string
	Name         string
	Category     string
	Active       bool
	ImageURL     string
	ImageBackURL string
	BasePrice    decimal.Decimal
	CostPrice    *decimal.Decimal
	Description  string
	// Grades maps a grade label to the size labels it allows.
	Grades map[string][]string
	// Measurements is keyed by "grade-size".
	Measurements map[string]Measure
	Published    bool
	CreatedAt    time.Time
}

type Measure struct {
	Height float64 `json:"height"`
	Width  float64 `json:"width"`
}

// RecipeEntry links a product to one inventory item it consumes.
// ItemName and ItemUnit are join fields for display.
type RecipeEntry struct {
	ID              int64
	ProductID       int64
	InventoryItemID int64
	QtyPerUnit      float64
	ItemName        string
	ItemUnit        string
}
