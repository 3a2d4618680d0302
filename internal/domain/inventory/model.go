package inventory

import "time"

type Category string

const (
	CategoryFabric     Category = "fabric"
	CategoryInk        Category = "ink"
	CategoryScreen     Category = "screen"
	CategoryConsumable Category = "consumable"
	CategoryOther      Category = "other"
)

// DefaultMinLevel applies when an item is created without an explicit
// minimum stock level.
const DefaultMinLevel = 10

type Item struct {
	ID        int64
	Name      string
	Category  Category
	Quantity  float64
	Unit      string
	MinLevel  float64
	CreatedAt time.Time
}

// Low is derived on read, never stored.
func (i Item) Low() bool { return i.Quantity <= i.MinLevel }

type MoveReason string

const (
	ReasonDeduction  MoveReason = "deduction"
	ReasonAdjustment MoveReason = "adjustment"
	ReasonRestock    MoveReason = "restock"
)

type Movement struct {
	ID        int64
	ItemID    int64
	OrderID   *int64
	Delta     float64
	Reason    MoveReason
	Note      string
	CreatedAt time.Time
}
