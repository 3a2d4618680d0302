package httpapi

import (
	"fmt"
	"net/http"
)

func (a *API) purchaseNeeds(w http.ResponseWriter, r *http.Request) {
	needs, err := a.purchasing.Report(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, needs)
}

func (a *API) exportPurchaseNeeds(w http.ResponseWriter, r *http.Request) {
	data, name, err := a.purchasing.ExportXLSX(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = w.Write(data)
}
