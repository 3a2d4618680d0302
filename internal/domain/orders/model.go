package orders

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusStoreRequest    Status = "store_request"
	StatusStoreConference Status = "store_conference"
	StatusStoreChecked    Status = "store_checked"
	StatusReceived        Status = "received"
	StatusFinalization    Status = "finalization"
	StatusInProduction    Status = "in_production"
	StatusFinished        Status = "finished"
)

// chain is the production pipeline: the storefront intake sub-chain
// merges into the main flow at "received". Transitions move one step
// forward or one step back; "finished" has no outgoing edges.
var chain = []Status{
	StatusStoreRequest,
	StatusStoreConference,
	StatusStoreChecked,
	StatusReceived,
	StatusFinalization,
	StatusInProduction,
	StatusFinished,
}

var ErrInvalidTransition = errors.New("invalid status transition")

func (s Status) Valid() bool {
	return s.index() >= 0
}

func (s Status) index() int {
	for i, v := range chain {
		if v == s {
			return i
		}
	}
	return -1
}

// Next returns the following pipeline stage, or s itself at the end.
func (s Status) Next() Status {
	i := s.index()
	if i < 0 || i == len(chain)-1 {
		return s
	}
	return chain[i+1]
}

// Previous returns the prior pipeline stage, or s itself at the start.
func (s Status) Previous() Status {
	i := s.index()
	if i <= 0 {
		return s
	}
	return chain[i-1]
}

// CanTransition reports whether from→to is an allowed step. A terminal
// order cannot leave "finished", and stages cannot be skipped.
func CanTransition(from, to Status) bool {
	fi, ti := from.index(), to.index()
	if fi < 0 || ti < 0 || fi == ti {
		return false
	}
	if from == StatusFinished {
		return false
	}
	return ti == fi+1 || ti == fi-1
}

// OpenStatuses are the non-terminal, non-storefront stages whose line
// items count toward the purchase-need report.
var OpenStatuses = []Status{StatusReceived, StatusFinalization, StatusInProduction}

type PaymentStatus string

const (
	PaymentFull    PaymentStatus = "full"
	PaymentHalf    PaymentStatus = "half"
	PaymentDeposit PaymentStatus = "deposit"
	PaymentPending PaymentStatus = "pending"
)

type OrderType string

const (
	TypeSale   OrderType = "sale"
	TypeBudget OrderType = "budget"
)

type Origin string

const (
	OriginManual     Origin = "manual"
	OriginStorefront Origin = "storefront"
)

type Order struct {
	ID            int64
	SeqNumber     int64
	ClientID      *int64
	Status        Status
	PaymentStatus PaymentStatus
	OrderType     OrderType
	Origin        Origin
	TotalValue    decimal.Decimal
	AmountPaid    decimal.Decimal
	CreatedAt     time.Time
	DeliveryDate  *time.Time
	Notes         string
	DelayReason   string
	Items         []Item
}

// Item snapshots the product name and unit price at creation; later
// product edits never touch it.
type Item struct {
	ID          int64
	OrderID     int64
	ProductID   *int64
	ProductName string
	Fabric      string
	Grade       string
	Size        string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// ComputeTotal sums quantity × unit price over the items.
func ComputeTotal(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}
