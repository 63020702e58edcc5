package cart

import "fmt"

type StatusCode int

const (
	StatusInvalidArgument StatusCode = iota
	StatusFailedPrecondition
)

const (
	ErrMsgUnknownLayout     = "unknown topping layout"
	ErrMsgSectionCount      = "section count does not match layout"
	ErrMsgSectionFull       = "section is over capacity"
	ErrMsgDuplicateTopping  = "topping appears twice in one section"
	ErrMsgUnknownSize       = "unknown size"
	ErrMsgUnknownDough      = "unknown dough type"
	ErrMsgUnknownKind       = "unknown configuration kind"
	ErrMsgNegativeUnits     = "unit count cannot be negative"
	ErrMsgPortionLayout     = "portion toppings must use a full layout"
	ErrMsgItemIDRequired    = "item id is required"
	ErrMsgDuplicateSelector = "ingredient listed twice"
	ErrMsgQuantityTooLarge  = "quantity is over the limit"
)

func (s StatusCode) String() string {
	switch s {
	case StatusInvalidArgument:
		return "INVALID_ARGUMENT"
	case StatusFailedPrecondition:
		return "FAILED_PRECONDITION"
	default:
		return "UNKNOWN"
	}
}

// ValidationError is a refused configuration. Callers reject the action;
// nothing invalid reaches the cart.
type ValidationError struct {
	Code    StatusCode
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(message string) *ValidationError {
	return &ValidationError{Code: StatusInvalidArgument, Message: message}
}

func invalidf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Code: StatusInvalidArgument, Message: fmt.Sprintf(format, args...)}
}
