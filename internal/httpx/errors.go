package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors for the domain layer. Services wrap these with context;
// RespondError translates them at the operation boundary so nothing
// propagates to the transport layer as an uncaught fault.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrDuplicate         = errors.New("duplicate entry")
	ErrValidation        = errors.New("validation failed")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
)

// RespondError maps domain errors to the envelope and an HTTP status.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		JSON(w, http.StatusNotFound, Envelope{Success: false, Message: err.Error()})
	case errors.Is(err, ErrValidation):
		JSON(w, http.StatusBadRequest, Envelope{Success: false, Message: err.Error()})
	case errors.Is(err, ErrDuplicate):
		JSON(w, http.StatusBadRequest, Envelope{Success: false, Message: err.Error()})
	case errors.Is(err, ErrInsufficientStock):
		JSON(w, http.StatusBadRequest, Envelope{Success: false, Message: err.Error()})
	case errors.Is(err, ErrUnauthorized):
		JSON(w, http.StatusUnauthorized, Envelope{Success: false, Message: err.Error()})
	case errors.Is(err, ErrForbidden):
		JSON(w, http.StatusForbidden, Envelope{Success: false, Message: err.Error()})
	default:
		JSON(w, http.StatusInternalServerError, Envelope{
			Success: false,
			Message: "Internal server error",
			Error:   err.Error(),
		})
	}
}
