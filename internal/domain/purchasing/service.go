package purchasing

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/estampados/printflow/internal/domain/inventory"
	"github.com/estampados/printflow/internal/domain/orders"
	"github.com/estampados/printflow/internal/domain/products"
)

type OrderSource interface {
	ListByStatuses(ctx context.Context, statuses []orders.Status) ([]orders.Order, error)
}

type RecipeSource interface {
	ListRecipe(ctx context.Context, productID int64) ([]products.RecipeEntry, error)
}

type StockSource interface {
	List(ctx context.Context) ([]inventory.Item, error)
}

// Service assembles the purchase-need report from live order and
// inventory state. The report is advisory and recomputed on demand;
// it never persists anything.
type Service struct {
	orders  OrderSource
	recipes RecipeSource
	stock   StockSource
	log     *slog.Logger
}

func NewService(os OrderSource, rs RecipeSource, ss StockSource, log *slog.Logger) *Service {
	return &Service{orders: os, recipes: rs, stock: ss, log: log}
}

// Report aggregates shortfall over all open orders. A product whose
// recipe cannot be loaded is skipped with a warning, so the report can
// under-state need on transient lookup errors.
func (s *Service) Report(ctx context.Context) ([]Need, error) {
	open, err := s.orders.ListByStatuses(ctx, orders.OpenStatuses)
	if err != nil {
		return nil, err
	}

	var lines []OpenLine
	seen := make(map[int64]bool)
	recipes := make(map[int64][]products.RecipeEntry)
	for _, o := range open {
		for _, it := range o.Items {
			if it.ProductID == nil {
				continue
			}
			pid := *it.ProductID
			if !seen[pid] {
				seen[pid] = true
				recipe, err := s.recipes.ListRecipe(ctx, pid)
				if err != nil {
					s.log.Warn("skipping product in purchase-need report", "product_id", pid, "err", err)
					continue
				}
				recipes[pid] = recipe
			}
			lines = append(lines, OpenLine{ProductID: pid, Quantity: it.Quantity})
		}
	}

	stock, err := s.stock.List(ctx)
	if err != nil {
		return nil, err
	}
	return Calculate(lines, recipes, stock), nil
}

// ExportXLSX renders the report as a spreadsheet for the buyer.
func (s *Service) ExportXLSX(ctx context.Context) ([]byte, string, error) {
	needs, err := s.Report(ctx)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{"item_id", "material", "unidade", "necessário", "estoque", "saldo", "comprar"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, "", err
	}

	row := 2
	for _, n := range needs {
		excelRow := []interface{}{n.ItemID, n.Name, n.Unit, n.Required, n.Stock, n.Balance, n.ToBuy}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, "", err
		}
		if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
			return nil, "", err
		}
		row++
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, "", err
	}
	name := fmt.Sprintf("compras_%s.xlsx", time.Now().Format("20060102_150405"))
	return buf.Bytes(), name, nil
}
