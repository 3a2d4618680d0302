package orders

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/estampados/printflow/internal/domain/clients"
	"github.com/estampados/printflow/internal/domain/inventory"
	"github.com/estampados/printflow/internal/domain/products"
	"github.com/estampados/printflow/internal/infra/metrics"
)

// Store is the persistence surface the workflow needs from the order
// repo. Finish must apply the status write and every deduction
// atomically.
type Store interface {
	Create(ctx context.Context, o Order) (*Order, error)
	GetByID(ctx context.Context, id int64) (*Order, error)
	SetStatus(ctx context.Context, id int64, s Status) error
	Finish(ctx context.Context, orderID int64, deds []Deduction) ([]DeductionResult, error)
}

type ProductSource interface {
	GetByID(ctx context.Context, id int64) (*products.Product, error)
	ListRecipe(ctx context.Context, productID int64) ([]products.RecipeEntry, error)
}

type ItemSource interface {
	GetByID(ctx context.Context, id int64) (*inventory.Item, error)
}

type ClientSource interface {
	GetByID(ctx context.Context, id int64) (*clients.Client, error)
}

// Notifier dispatches a client message; DeepLink is the manual-send
// fallback when dispatch fails.
type Notifier interface {
	SendText(ctx context.Context, phone, text string) error
	DeepLink(phone, text string) string
}

// Alerter raises internal low-stock alerts. Nil disables alerting.
type Alerter interface {
	LowStock(ctx context.Context, it inventory.Item) error
}

type Service struct {
	store      Store
	products   ProductSource
	items      ItemSource
	clients    ClientSource
	notifier   Notifier
	alerter    Alerter
	autoNotify bool
	log        *slog.Logger
}

func NewService(store Store, prods ProductSource, items ItemSource, cls ClientSource,
	notifier Notifier, alerter Alerter, autoNotify bool, log *slog.Logger) *Service {
	return &Service{
		store:      store,
		products:   prods,
		items:      items,
		clients:    cls,
		notifier:   notifier,
		alerter:    alerter,
		autoNotify: autoNotify,
		log:        log,
	}
}

type CreateInput struct {
	ClientID      *int64
	Origin        Origin
	OrderType     OrderType
	PaymentStatus PaymentStatus
	TotalValue    decimal.Decimal
	AmountPaid    decimal.Decimal
	Notes         string
	Items         []Item
}

// Create builds a manual order. An omitted total is computed from the
// line items once, at creation; it is never recomputed on read.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Order, error) {
	if in.Origin == "" {
		in.Origin = OriginManual
	}
	if in.OrderType == "" {
		in.OrderType = TypeSale
	}
	if in.PaymentStatus == "" {
		in.PaymentStatus = PaymentPending
	}
	total := in.TotalValue
	if total.IsZero() {
		total = ComputeTotal(in.Items)
	}

	o := Order{
		ClientID:      in.ClientID,
		Status:        StatusReceived,
		PaymentStatus: in.PaymentStatus,
		OrderType:     in.OrderType,
		Origin:        in.Origin,
		TotalValue:    total,
		AmountPaid:    in.AmountPaid,
		Notes:         in.Notes,
		Items:         in.Items,
	}
	created, err := s.store.Create(ctx, o)
	if err != nil {
		return nil, err
	}
	metrics.OrdersCreated.WithLabelValues(string(created.Origin)).Inc()
	return created, nil
}

type CheckoutItem struct {
	ProductID int64
	Grade     string
	Size      string
	Quantity  int
}

// Checkout creates a storefront order. Prices are snapshotted from the
// current base price; the order enters the storefront intake chain.
func (s *Service) Checkout(ctx context.Context, clientID *int64, items []CheckoutItem) (*Order, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("checkout: empty cart")
	}

	lines := make([]Item, 0, len(items))
	for _, ci := range items {
		p, err := s.products.GetByID(ctx, ci.ProductID)
		if err != nil {
			return nil, fmt.Errorf("checkout: product %d: %w", ci.ProductID, err)
		}
		if !p.Published || !p.Active {
			return nil, fmt.Errorf("checkout: product %q is not available", p.Name)
		}
		pid := p.ID
		lines = append(lines, Item{
			ProductID:   &pid,
			ProductName: p.Name,
			Fabric:      p.Category,
			Grade:       ci.Grade,
			Size:        ci.Size,
			Quantity:    ci.Quantity,
			UnitPrice:   p.BasePrice,
		})
	}

	o := Order{
		ClientID:      clientID,
		Status:        StatusStoreRequest,
		PaymentStatus: PaymentPending,
		OrderType:     TypeSale,
		Origin:        OriginStorefront,
		TotalValue:    ComputeTotal(lines),
		Items:         lines,
	}
	created, err := s.store.Create(ctx, o)
	if err != nil {
		return nil, err
	}
	metrics.OrdersCreated.WithLabelValues(string(created.Origin)).Inc()
	return created, nil
}

// TransitionStatus applies one step of the pipeline. Setting the
// status an order already has is a no-op, so a redundant call can
// never deduct twice. Finishing deducts recipe quantities for every
// line item inside the same transaction as the status write.
func (s *Service) TransitionStatus(ctx context.Context, orderID int64, target Status) (*Order, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, target)
	}

	o, err := s.store.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status == target {
		return o, nil
	}
	if !CanTransition(o.Status, target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, target)
	}

	if target == StatusFinished {
		if err := s.finish(ctx, o); err != nil {
			return nil, err
		}
	} else {
		if err := s.store.SetStatus(ctx, orderID, target); err != nil {
			return nil, err
		}
	}
	metrics.StatusTransitions.WithLabelValues(string(target)).Inc()
	o.Status = target

	s.notify(ctx, o)
	return o, nil
}

// MoveToPrevious sets the order back one pipeline stage.
func (s *Service) MoveToPrevious(ctx context.Context, orderID int64) (*Order, error) {
	o, err := s.store.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	prev := o.Status.Previous()
	if prev == o.Status {
		return nil, fmt.Errorf("%w: %s has no previous stage", ErrInvalidTransition, o.Status)
	}
	return s.TransitionStatus(ctx, orderID, prev)
}

func (s *Service) finish(ctx context.Context, o *Order) error {
	var deds []Deduction
	for _, it := range o.Items {
		if it.ProductID == nil {
			continue
		}
		recipe, err := s.products.ListRecipe(ctx, *it.ProductID)
		if err != nil {
			return fmt.Errorf("finish order %d: recipe for product %d: %w", o.ID, *it.ProductID, err)
		}
		for _, e := range recipe {
			deds = append(deds, Deduction{
				ItemID: e.InventoryItemID,
				Qty:    e.QtyPerUnit * float64(it.Quantity),
				Note:   fmt.Sprintf("pedido #%d: %s x%d", o.SeqNumber, it.ProductName, it.Quantity),
			})
		}
	}

	results, err := s.store.Finish(ctx, o.ID, deds)
	if err != nil {
		return err
	}
	metrics.InventoryDeductions.Add(float64(len(results)))

	if s.alerter == nil {
		return nil
	}
	for _, res := range results {
		it, err := s.items.GetByID(ctx, res.ItemID)
		if err != nil {
			s.log.Warn("low-stock check failed", "item_id", res.ItemID, "err", err)
			continue
		}
		if it.Low() {
			if err := s.alerter.LowStock(ctx, *it); err != nil {
				s.log.Warn("low-stock alert failed", "item", it.Name, "err", err)
			}
		}
	}
	return nil
}

// notify is fire-and-forget: failures are logged with the manual deep
// link and never affect the already-committed transition.
func (s *Service) notify(ctx context.Context, o *Order) {
	if !s.autoNotify || s.notifier == nil || o.ClientID == nil {
		return
	}
	switch o.Status {
	case StatusReceived, StatusFinalization, StatusInProduction, StatusFinished:
	default:
		// Storefront intake stages are internal; clients only hear
		// about the production pipeline.
		return
	}
	c, err := s.clients.GetByID(ctx, *o.ClientID)
	if err != nil || c.Phone == "" {
		return
	}
	text := MessageFor(o.Status, c.Name, o.SeqNumber)
	if err := s.notifier.SendText(ctx, c.Phone, text); err != nil {
		metrics.NotificationsFailed.Inc()
		s.log.Warn("notification dispatch failed, use manual link",
			"order_id", o.ID,
			"link", s.notifier.DeepLink(c.Phone, text),
			"err", err,
		)
		return
	}
	metrics.NotificationsSent.Inc()
}
