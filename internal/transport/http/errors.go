package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tilvera/storefront/internal/domain"
)

const (
	codeNotFound           = "not_found"
	codeMethodNotAllowed   = "method_not_allowed"
	codeInvalidRequestBody = "invalid_request_body"
	codeForbidden          = "forbidden"
	codeInternalError      = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// domainErrorCodes maps engine errors to a wire code and HTTP status. Errors
// not listed here are treated as infrastructure failures.
var domainErrorCodes = map[error]struct {
	status int
	code   string
}{
	domain.ErrCustomerNotFound:      {http.StatusNotFound, "customer_not_found"},
	domain.ErrProductNotFound:       {http.StatusNotFound, "product_not_found"},
	domain.ErrOrderNotFound:         {http.StatusNotFound, "order_not_found"},
	domain.ErrItemNotFound:          {http.StatusNotFound, "order_item_not_found"},
	domain.ErrPaymentNotFound:       {http.StatusNotFound, "payment_not_found"},
	domain.ErrProductInactive:       {http.StatusConflict, "product_inactive"},
	domain.ErrInsufficientStock:     {http.StatusConflict, "insufficient_stock"},
	domain.ErrOrderNotModifiable:    {http.StatusConflict, "order_not_modifiable"},
	domain.ErrDuplicateLineItem:     {http.StatusConflict, "duplicate_line_item"},
	domain.ErrPaymentAlreadyExists:  {http.StatusConflict, "payment_already_exists"},
	domain.ErrEmailTaken:            {http.StatusConflict, "email_taken"},
	domain.ErrOrderItemsEmpty:       {http.StatusUnprocessableEntity, "order_items_empty"},
	domain.ErrOrderTotalInvalid:     {http.StatusUnprocessableEntity, "order_total_invalid"},
	domain.ErrPaymentAmountMismatch: {http.StatusUnprocessableEntity, "payment_amount_mismatch"},
	domain.ErrUnreasonablePrice:     {http.StatusUnprocessableEntity, "unreasonable_price"},
	domain.ErrPaymentFailed:         {http.StatusPaymentRequired, "payment_failed"},
	domain.ErrInvalidQuantity:       {http.StatusBadRequest, "invalid_quantity"},
	domain.ErrInvalidPrice:          {http.StatusBadRequest, "invalid_price"},
	domain.ErrInvalidOrderStatus:    {http.StatusBadRequest, "invalid_order_status"},
	domain.ErrInvalidPaymentStatus:  {http.StatusBadRequest, "invalid_payment_status"},
	domain.ErrInvalidPaymentMethod:  {http.StatusBadRequest, "invalid_payment_method"},
	domain.ErrNameRequired:          {http.StatusBadRequest, "name_required"},
	domain.ErrEmailRequired:         {http.StatusBadRequest, "email_required"},
	domain.ErrInvalidID:             {http.StatusBadRequest, "invalid_id"},
}

func respondError(w http.ResponseWriter, err error) {
	for sentinel, m := range domainErrorCodes {
		if errors.Is(err, sentinel) {
			writeError(w, m.status, m.code, sentinel.Error())
			return
		}
	}
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
