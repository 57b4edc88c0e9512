package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/tilvera/storefront/internal/domain"
)

// ItemManager is the subset of the item service the item handlers need.
type ItemManager interface {
	AddItem(ctx context.Context, orderID, productID string, quantity int) (domain.OrderItem, error)
	UpdateQuantity(ctx context.Context, orderID, itemID string, quantity int) (domain.OrderItem, error)
	RemoveItem(ctx context.Context, orderID, itemID string) error
	GetItem(ctx context.Context, orderID, itemID string) (domain.OrderItem, error)
	ListItemsForOrder(ctx context.Context, orderID string) ([]domain.OrderItem, error)
	ListItemsForOrderAndProduct(ctx context.Context, orderID, productID string) ([]domain.OrderItem, error)
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// HandleAddItem returns the POST /orders/{id}/items handler.
func HandleAddItem(svc ItemManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addItemRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		item, err := svc.AddItem(r.Context(), r.PathValue("id"), req.ProductID, req.Quantity)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toItemResponse(item))
	}
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

// HandleUpdateItem returns the PUT /orders/{id}/items/{itemID} handler.
func HandleUpdateItem(svc ItemManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateItemRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		item, err := svc.UpdateQuantity(r.Context(), r.PathValue("id"), r.PathValue("itemID"), req.Quantity)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toItemResponse(item))
	}
}

// HandleRemoveItem returns the DELETE /orders/{id}/items/{itemID} handler.
func HandleRemoveItem(svc ItemManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.RemoveItem(r.Context(), r.PathValue("id"), r.PathValue("itemID")); err != nil {
			respondError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleGetItem returns the GET /orders/{id}/items/{itemID} handler.
func HandleGetItem(svc ItemManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, err := svc.GetItem(r.Context(), r.PathValue("id"), r.PathValue("itemID"))
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toItemResponse(item))
	}
}

// HandleListItems returns the GET /orders/{id}/items handler. With a
// product_id query parameter it narrows to that product's line.
func HandleListItems(svc ItemManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID := r.PathValue("id")

		var (
			items []domain.OrderItem
			err   error
		)
		if productID := r.URL.Query().Get("product_id"); productID != "" {
			items, err = svc.ListItemsForOrderAndProduct(r.Context(), orderID, productID)
		} else {
			items, err = svc.ListItemsForOrder(r.Context(), orderID)
		}
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toItemResponses(items))
	}
}
