package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/tilvera/storefront/internal/app"
	"github.com/tilvera/storefront/internal/domain"
)

// PaymentProcessor is the subset of the payment service the payment handlers
// need.
type PaymentProcessor interface {
	CreatePayment(ctx context.Context, in app.CreatePaymentInput) (domain.Payment, error)
	GetPaymentByID(ctx context.Context, paymentID string) (domain.Payment, error)
	UpdatePaymentStatus(ctx context.Context, transactionID, status string) (domain.Payment, error)
}

type createPaymentRequest struct {
	OrderID string          `json:"order_id"`
	Method  string          `json:"method"`
	Amount  decimal.Decimal `json:"amount"`
}

// HandleCreatePayment returns the POST /payments handler. A declined charge
// comes back 402 with the persisted FAILED payment in the body.
func HandleCreatePayment(svc PaymentProcessor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPaymentRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		p, err := svc.CreatePayment(r.Context(), app.CreatePaymentInput{
			OrderID: req.OrderID,
			Method:  req.Method,
			Amount:  req.Amount,
		})
		if errors.Is(err, domain.ErrPaymentFailed) {
			writeJSON(w, http.StatusPaymentRequired, toPaymentResponse(p))
			return
		}
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toPaymentResponse(p))
	}
}

// HandleGetPayment returns the GET /payments/{id} handler.
func HandleGetPayment(svc PaymentProcessor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetPaymentByID(r.Context(), r.PathValue("id"))
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPaymentResponse(p))
	}
}

type paymentCallbackRequest struct {
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
}

// HandlePaymentCallback returns the POST /payments/callback handler, the
// out-of-band reconciliation entry point for provider notifications.
func HandlePaymentCallback(svc PaymentProcessor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req paymentCallbackRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		p, err := svc.UpdatePaymentStatus(r.Context(), req.TransactionID, req.Status)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPaymentResponse(p))
	}
}
