package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/estampados/printflow/internal/domain/clients"
)

type clientPayload struct {
	Name           string  `json:"name"`
	Phone          string  `json:"phone"`
	Email          string  `json:"email"`
	Document       string  `json:"document"`
	Address        string  `json:"address"`
	PortalPassword *string `json:"portal_password"`
}

func (a *API) listClients(w http.ResponseWriter, r *http.Request) {
	if phone := r.URL.Query().Get("phone"); phone != "" {
		c, err := a.clients.GetByPhone(r.Context(), phone)
		if err != nil {
			fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, []any{c})
		return
	}
	out, err := a.clients.List(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) createClient(w http.ResponseWriter, r *http.Request) {
	var in clientPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	c, err := a.clients.Create(r.Context(), clients.Client{
		Name:           in.Name,
		Phone:          in.Phone,
		Email:          in.Email,
		Document:       in.Document,
		Address:        in.Address,
		PortalPassword: in.PortalPassword,
	})
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (a *API) getClient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid client id")
		return
	}
	c, err := a.clients.GetByID(r.Context(), id)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (a *API) updateClient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid client id")
		return
	}
	var in clientPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	c, err := a.clients.Update(r.Context(), clients.Client{
		ID:             id,
		Name:           in.Name,
		Phone:          in.Phone,
		Email:          in.Email,
		Document:       in.Document,
		Address:        in.Address,
		PortalPassword: in.PortalPassword,
	})
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (a *API) deleteClient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid client id")
		return
	}
	if err := a.clients.Delete(r.Context(), id); err != nil {
		fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
