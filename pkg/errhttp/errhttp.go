// Package errhttp maps domain errors to HTTP responses. Every business-rule
// failure carries a domainerr.Kind; the kind alone decides the status code.
package errhttp

import (
	"net/http"

	"github.com/ghuser/mrpcapacity/pkg/domainerr"
	"github.com/ghuser/mrpcapacity/pkg/httpx"
)

// internalMessage replaces the detail of errors outside the taxonomy.
const internalMessage = "An unexpected error occurred"

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// WriteError maps err to an HTTP status code and writes {"error","kind"}.
// Errors that carry no domainerr.Kind are treated as infrastructure failures:
// status 500 with a generic message so driver details never reach clients.
func WriteError(w http.ResponseWriter, err error) {
	kind := domainerr.KindOf(err)
	status := StatusFor(kind)

	msg := internalMessage
	if kind != domainerr.KindUnknown {
		msg = domainerr.Detail(err)
	}
	httpx.JSON(w, status, errorBody{Error: msg, Kind: kind.String()})
}

// StatusFor returns the HTTP status for a failure kind.
func StatusFor(kind domainerr.Kind) int {
	switch kind {
	case domainerr.KindInvalidArgument:
		return http.StatusUnprocessableEntity // 422
	case domainerr.KindNotFound:
		return http.StatusNotFound // 404
	case domainerr.KindConflict, domainerr.KindCapacityExceeded, domainerr.KindAllocationFailed:
		return http.StatusConflict // 409
	default:
		return http.StatusInternalServerError // 500
	}
}
