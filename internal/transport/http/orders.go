package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/tilvera/storefront/internal/app"
	"github.com/tilvera/storefront/internal/domain"
)

// OrderLifecycle is the subset of the order service the order handlers need.
type OrderLifecycle interface {
	CreateOrder(ctx context.Context, in app.CreateOrderInput) (domain.Order, error)
	GetOrderByID(ctx context.Context, orderID string) (domain.Order, error)
	UpdateStatus(ctx context.Context, orderID, status string) (domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string, page app.Page) ([]domain.Order, error)
	ListByStatus(ctx context.Context, status string, page app.Page) ([]domain.Order, error)
	ListAll(ctx context.Context, page app.Page) ([]domain.Order, error)
}

type createOrderRequest struct {
	CustomerID string                   `json:"customer_id"`
	Items      []createOrderItemRequest `json:"items"`
}

type createOrderItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// HandleCreateOrder returns the POST /orders handler.
func HandleCreateOrder(svc OrderLifecycle) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createOrderRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		in := app.CreateOrderInput{CustomerID: req.CustomerID}
		for _, item := range req.Items {
			in.Items = append(in.Items, app.OrderLineInput{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			})
		}

		order, err := svc.CreateOrder(r.Context(), in)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toOrderResponse(order))
	}
}

// HandleGetOrder returns the GET /orders/{id} handler.
func HandleGetOrder(svc OrderLifecycle) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := svc.GetOrderByID(r.Context(), r.PathValue("id"))
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toOrderResponse(order))
	}
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

// HandleUpdateOrderStatus returns the PUT /orders/{id}/status handler.
func HandleUpdateOrderStatus(svc OrderLifecycle) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateOrderStatusRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		order, err := svc.UpdateStatus(r.Context(), r.PathValue("id"), req.Status)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toOrderResponse(order))
	}
}

// HandleListOrders returns the GET /orders handler. Optional query filters:
// customer_id, status; limit/offset page through the result.
func HandleListOrders(svc OrderLifecycle) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := pageFromQuery(r)
		customerID := r.URL.Query().Get("customer_id")
		status := r.URL.Query().Get("status")

		var (
			orders []domain.Order
			err    error
		)
		switch {
		case customerID != "":
			orders, err = svc.ListByCustomer(r.Context(), customerID, page)
		case status != "":
			orders, err = svc.ListByStatus(r.Context(), status, page)
		default:
			orders, err = svc.ListAll(r.Context(), page)
		}
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toOrderResponses(orders))
	}
}

func pageFromQuery(r *http.Request) app.Page {
	var page app.Page
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		page.Limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil {
		page.Offset = v
	}
	return page
}
