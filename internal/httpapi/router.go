package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/estampados/printflow/internal/domain/clients"
	"github.com/estampados/printflow/internal/domain/inventory"
	"github.com/estampados/printflow/internal/domain/orders"
	"github.com/estampados/printflow/internal/domain/products"
	"github.com/estampados/printflow/internal/domain/purchasing"
	"github.com/estampados/printflow/internal/infra/aiparse"
)

type API struct {
	log        *slog.Logger
	orderSvc   *orders.Service
	orderRepo  *orders.Repo
	inventory  *inventory.Repo
	products   *products.Repo
	clients    *clients.Repo
	purchasing *purchasing.Service
	parser     *aiparse.Client
}

func New(log *slog.Logger, orderSvc *orders.Service, orderRepo *orders.Repo,
	inv *inventory.Repo, prods *products.Repo, cls *clients.Repo,
	purch *purchasing.Service, parser *aiparse.Client) *API {
	return &API{
		log:        log,
		orderSvc:   orderSvc,
		orderRepo:  orderRepo,
		inventory:  inv,
		products:   prods,
		clients:    cls,
		purchasing: purch,
		parser:     parser,
	}
}

// Handler returns the API routes; the infra server mounts it at /api/.
func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/orders", a.listOrders)
	mux.HandleFunc("POST /api/orders", a.createOrder)
	mux.HandleFunc("GET /api/orders/{id}", a.getOrder)
	mux.HandleFunc("PUT /api/orders/{id}", a.updateOrder)
	mux.HandleFunc("DELETE /api/orders/{id}", a.deleteOrder)
	mux.HandleFunc("POST /api/orders/{id}/status", a.transitionOrder)
	mux.HandleFunc("POST /api/orders/{id}/previous", a.previousStage)

	mux.HandleFunc("POST /api/storefront/checkout", a.checkout)
	mux.HandleFunc("GET /api/storefront/products", a.storefrontProducts)
	mux.HandleFunc("POST /api/intake/parse", a.parseIntake)

	mux.HandleFunc("GET /api/inventory", a.listInventory)
	mux.HandleFunc("GET /api/inventory/low", a.listLowInventory)
	mux.HandleFunc("POST /api/inventory", a.createInventory)
	mux.HandleFunc("PUT /api/inventory/{id}", a.updateInventory)
	mux.HandleFunc("DELETE /api/inventory/{id}", a.deleteInventory)
	mux.HandleFunc("POST /api/inventory/{id}/quantity", a.setInventoryQuantity)
	mux.HandleFunc("GET /api/inventory/{id}/movements", a.listInventoryMovements)

	mux.HandleFunc("GET /api/products", a.listProducts)
	mux.HandleFunc("POST /api/products", a.createProduct)
	mux.HandleFunc("GET /api/products/{id}", a.getProduct)
	mux.HandleFunc("PUT /api/products/{id}", a.updateProduct)
	mux.HandleFunc("DELETE /api/products/{id}", a.deleteProduct)
	mux.HandleFunc("POST /api/products/{id}/publish", a.publishProduct)
	mux.HandleFunc("GET /api/products/{id}/recipe", a.listRecipe)
	mux.HandleFunc("POST /api/products/{id}/recipe", a.addRecipeEntry)
	mux.HandleFunc("DELETE /api/products/{id}/recipe/{entryID}", a.removeRecipeEntry)

	mux.HandleFunc("GET /api/clients", a.listClients)
	mux.HandleFunc("POST /api/clients", a.createClient)
	mux.HandleFunc("GET /api/clients/{id}", a.getClient)
	mux.HandleFunc("PUT /api/clients/{id}", a.updateClient)
	mux.HandleFunc("DELETE /api/clients/{id}", a.deleteClient)

	mux.HandleFunc("GET /api/purchase-needs", a.purchaseNeeds)
	mux.HandleFunc("GET /api/purchase-needs/export", a.exportPurchaseNeeds)

	return mux
}
