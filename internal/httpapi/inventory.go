package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/estampados/printflow/internal/domain/inventory"
)

type inventoryPayload struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	MinLevel float64 `json:"min_level"`
}

func (a *API) listInventory(w http.ResponseWriter, r *http.Request) {
	out, err := a.inventory.List(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) listLowInventory(w http.ResponseWriter, r *http.Request) {
	out, err := a.inventory.ListLow(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) createInventory(w http.ResponseWriter, r *http.Request) {
	var in inventoryPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	it, err := a.inventory.Create(r.Context(), in.Name, inventory.Category(in.Category), in.Quantity, in.Unit, in.MinLevel)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

func (a *API) updateInventory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}
	var in inventoryPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	it, err := a.inventory.Update(r.Context(), id, in.Name, inventory.Category(in.Category), in.Unit, in.MinLevel)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (a *API) deleteInventory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}
	if err := a.inventory.Delete(r.Context(), id); err != nil {
		fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) listInventoryMovements(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}
	out, err := a.inventory.ListMovements(r.Context(), id)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) setInventoryQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}
	var in struct {
		Quantity float64 `json:"quantity"`
		Note     string  `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if in.Quantity < 0 {
		writeError(w, http.StatusBadRequest, "quantity must be >= 0")
		return
	}
	it, err := a.inventory.SetQuantity(r.Context(), id, in.Quantity, in.Note)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}
