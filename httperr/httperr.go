package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error is a request-boundary error: a stable machine-readable code plus the
// HTTP status it maps to. Handlers return these from core logic and call
// Respond exactly once at the boundary.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string { return e.Message }

// Is matches errors by code, so errors.Is(err, httperr.EmptyCart) holds for
// copies produced by WithMessage.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// WithMessage returns a copy carrying a more specific human message. The
// code and status stay stable so clients can still switch on them.
func (e *Error) WithMessage(msg string) *Error {
	return &Error{Status: e.Status, Code: e.Code, Message: msg}
}

var (
	Unauthorized            = &Error{http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid credentials"}
	Forbidden               = &Error{http.StatusForbidden, "FORBIDDEN", "You do not have permission to do that"}
	NotFound                = &Error{http.StatusNotFound, "NOT_FOUND", "Resource not found"}
	InvalidArgument         = &Error{http.StatusBadRequest, "INVALID_ARGUMENT", "Invalid input"}
	EmptyCart               = &Error{http.StatusBadRequest, "EMPTY_CART", "Cart is empty"}
	AmountMismatch          = &Error{http.StatusBadRequest, "AMOUNT_MISMATCH", "Declared amount does not match the cart total"}
	ShippingAddressRequired = &Error{http.StatusBadRequest, "SHIPPING_ADDRESS_REQUIRED", "Shipping address is required"}
	PaymentNotVerified      = &Error{http.StatusBadRequest, "PAYMENT_NOT_VERIFIED", "Payment could not be verified"}
	GatewayTimeout          = &Error{http.StatusGatewayTimeout, "GATEWAY_TIMEOUT", "Payment gateway timed out, please retry"}
	Server                  = &Error{http.StatusInternalServerError, "SERVER_ERROR", "Server error"}
)

// Respond maps err to its HTTP response. Unknown errors are logged with full
// context and returned to the client as a bare SERVER_ERROR.
func Respond(c *gin.Context, err error) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.Status, gin.H{"error": apiErr})
		return
	}
	zap.L().Error("unhandled request error",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	c.JSON(Server.Status, gin.H{"error": Server})
}
