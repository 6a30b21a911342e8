package controllers

import (
	"errors"
	"net/http"

	"github.com/lasazonmanaba/ordering-app/store"
)

var ErrNoPermission = errors.New("you don't have permission to access this resource")

// statusFor maps store errors onto HTTP status codes so every controller
// reports them the same way.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrIllegalTransition),
		errors.Is(err, store.ErrTableUnavailable),
		errors.Is(err, store.ErrOrderNotEditable):
		return http.StatusConflict
	case errors.Is(err, store.ErrEmptyOrder),
		errors.Is(err, store.ErrInvalidQuantity),
		errors.Is(err, store.ErrInvalidPrice),
		errors.Is(err, store.ErrInvalidCategory),
		errors.Is(err, store.ErrEmptyName):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
