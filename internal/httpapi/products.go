package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/estampados/printflow/internal/domain/products"
)

type productPayload struct {
	SKU          string                      `json:"sku"`
	Name         string                      `json:"name"`
	Category     string                      `json:"category"`
	Active       *bool                       `json:"active"`
	ImageURL     string                      `json:"image_url"`
	ImageBackURL string                      `json:"image_back_url"`
	BasePrice    decimal.Decimal             `json:"base_price"`
	CostPrice    *decimal.Decimal            `json:"cost_price"`
	Description  string                      `json:"description"`
	Grades       map[string][]string         `json:"grades"`
	Measurements map[string]products.Measure `json:"measurements"`
	Published    bool                        `json:"published"`
}

func (p productPayload) toProduct(id int64) products.Product {
	active := true
	if p.Active != nil {
		active = *p.Active
	}
	return products.Product{
		ID:           id,
		SKU:          p.SKU,
		Name:         p.Name,
		Category:     p.Category,
		Active:       active,
		ImageURL:     p.ImageURL,
		ImageBackURL: p.ImageBackURL,
		BasePrice:    p.BasePrice,
		CostPrice:    p.CostPrice,
		Description:  p.Description,
		Grades:       p.Grades,
		Measurements: p.Measurements,
		Published:    p.Published,
	}
}

func (a *API) listProducts(w http.ResponseWriter, r *http.Request) {
	onlyActive := r.URL.Query().Get("active") == "true"
	out, err := a.products.List(r.Context(), onlyActive)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) createProduct(w http.ResponseWriter, r *http.Request) {
	var in productPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	p, err := a.products.Create(r.Context(), in.toProduct(0))
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (a *API) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	p, err := a.products.GetByID(r.Context(), id)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *API) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	var in productPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	p, err := a.products.Update(r.Context(), in.toProduct(id))
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *API) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	if err := a.products.Delete(r.Context(), id); err != nil {
		fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) publishProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	var in struct {
		Published bool `json:"published"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if err := a.products.SetPublished(r.Context(), id, in.Published); err != nil {
		fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) listRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	out, err := a.products.ListRecipe(r.Context(), id)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) addRecipeEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	var in struct {
		InventoryItemID int64   `json:"inventory_item_id"`
		QtyPerUnit      float64 `json:"qty_per_unit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if in.QtyPerUnit <= 0 {
		writeError(w, http.StatusBadRequest, "qty_per_unit must be > 0")
		return
	}
	e, err := a.products.AddRecipeEntry(r.Context(), id, in.InventoryItemID, in.QtyPerUnit)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (a *API) removeRecipeEntry(w http.ResponseWriter, r *http.Request) {
	entryID, ok := pathID(r, "entryID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid recipe entry id")
		return
	}
	if err := a.products.RemoveRecipeEntry(r.Context(), entryID); err != nil {
		fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
