package server

import (
	"errors"
	"net/http"

	"storefront/internal/cart"
	"storefront/internal/checkout"
	"storefront/internal/delivery"
	"storefront/internal/menu"
	sessionstore "storefront/internal/storage/redis"

	"github.com/gin-gonic/gin"
)

// errItemUnavailable refuses items the kitchen has switched off.
var errItemUnavailable = errors.New("item is currently unavailable")

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	// Shortfall is set when a delivery order is under the minimum.
	Shortfall int64 `json:"shortfall,omitempty"`
	Minimum   int64 `json:"minimum,omitempty"`
	Computed  int64 `json:"computed_total,omitempty"`
}

// writeError maps domain errors to status codes. Anything unknown is a 500
// and its text is not shown to the client.
func (s *Server) writeError(c *gin.Context, err error) {
	var (
		verr     *cart.ValidationError
		policy   *delivery.PolicyViolation
		mismatch *checkout.TotalMismatchError
	)

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, errorBody{Error: verr.Message, Code: verr.Code.String()})
	case errors.As(err, &policy):
		c.JSON(http.StatusUnprocessableEntity, errorBody{
			Error:     policy.Error(),
			Code:      policy.Code.String(),
			Shortfall: policy.Shortfall,
			Minimum:   policy.Minimum,
		})
	case errors.As(err, &mismatch):
		c.JSON(http.StatusConflict, errorBody{Error: mismatch.Error(), Computed: mismatch.Computed})
	case errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrInvalidContact),
		errors.Is(err, checkout.ErrInvalidStatus),
		errors.Is(err, errItemUnavailable):
		c.JSON(http.StatusConflict, errorBody{Error: err.Error()})
	case errors.Is(err, checkout.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, errorBody{Error: err.Error()})
	case errors.Is(err, checkout.ErrOrderNotFound),
		errors.Is(err, menu.ErrItemNotFound),
		errors.Is(err, sessionstore.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, errorBody{Error: err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}
