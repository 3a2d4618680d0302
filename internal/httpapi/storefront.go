package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/estampados/printflow/internal/domain/orders"
)

type checkoutPayload struct {
	ClientID *int64 `json:"client_id"`
	Items    []struct {
		ProductID int64  `json:"product_id"`
		Grade     string `json:"grade"`
		Size      string `json:"size"`
		Quantity  int    `json:"quantity"`
	} `json:"items"`
}

func (a *API) checkout(w http.ResponseWriter, r *http.Request) {
	var in checkoutPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	items := make([]orders.CheckoutItem, 0, len(in.Items))
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			writeError(w, http.StatusBadRequest, "quantity must be > 0")
			return
		}
		items = append(items, orders.CheckoutItem{
			ProductID: it.ProductID,
			Grade:     it.Grade,
			Size:      it.Size,
			Quantity:  it.Quantity,
		})
	}
	o, err := a.orderSvc.Checkout(r.Context(), in.ClientID, items)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (a *API) storefrontProducts(w http.ResponseWriter, r *http.Request) {
	out, err := a.products.ListPublished(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) parseIntake(w http.ResponseWriter, r *http.Request) {
	if a.parser == nil {
		writeError(w, http.StatusServiceUnavailable, "intake parser not configured")
		return
	}
	var in struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Text == "" {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	names, err := a.products.ListNames(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	guesses, err := a.parser.Parse(r.Context(), in.Text, names)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, guesses)
}
