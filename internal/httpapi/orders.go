package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/estampados/printflow/internal/domain/orders"
)

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	return id, err == nil && id > 0
}

type orderItemPayload struct {
	ProductID   *int64          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Fabric      string          `json:"fabric"`
	Grade       string          `json:"grade"`
	Size        string          `json:"size"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type createOrderPayload struct {
	ClientID      *int64             `json:"client_id"`
	OrderType     string             `json:"order_type"`
	PaymentStatus string             `json:"payment_status"`
	TotalValue    decimal.Decimal    `json:"total_value"`
	AmountPaid    decimal.Decimal    `json:"amount_paid"`
	Notes         string             `json:"notes"`
	Items         []orderItemPayload `json:"items"`
}

func (a *API) createOrder(w http.ResponseWriter, r *http.Request) {
	var in createOrderPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	items := make([]orders.Item, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, orders.Item{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Fabric:      it.Fabric,
			Grade:       it.Grade,
			Size:        it.Size,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}
	o, err := a.orderSvc.Create(r.Context(), orders.CreateInput{
		ClientID:      in.ClientID,
		Origin:        orders.OriginManual,
		OrderType:     orders.OrderType(in.OrderType),
		PaymentStatus: orders.PaymentStatus(in.PaymentStatus),
		TotalValue:    in.TotalValue,
		AmountPaid:    in.AmountPaid,
		Notes:         in.Notes,
		Items:         items,
	})
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (a *API) listOrders(w http.ResponseWriter, r *http.Request) {
	out, err := a.orderRepo.List(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}
	o, err := a.orderRepo.GetByID(r.Context(), id)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

type updateOrderPayload struct {
	ClientID      *int64          `json:"client_id"`
	PaymentStatus string          `json:"payment_status"`
	OrderType     string          `json:"order_type"`
	TotalValue    decimal.Decimal `json:"total_value"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	DeliveryDate  *time.Time      `json:"delivery_date"`
	Notes         string          `json:"notes"`
	DelayReason   string          `json:"delay_reason"`
}

func (a *API) updateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}
	var in updateOrderPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	o, err := a.orderRepo.UpdateFields(r.Context(), orders.Order{
		ID:            id,
		ClientID:      in.ClientID,
		PaymentStatus: orders.PaymentStatus(in.PaymentStatus),
		OrderType:     orders.OrderType(in.OrderType),
		TotalValue:    in.TotalValue,
		AmountPaid:    in.AmountPaid,
		DeliveryDate:  in.DeliveryDate,
		Notes:         in.Notes,
		DelayReason:   in.DelayReason,
	})
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (a *API) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}
	if err := a.orderRepo.Delete(r.Context(), id); err != nil {
		fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) transitionOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}
	var in struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	o, err := a.orderSvc.TransitionStatus(r.Context(), id, orders.Status(in.Status))
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (a *API) previousStage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}
	o, err := a.orderSvc.MoveToPrevious(r.Context(), id)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}
