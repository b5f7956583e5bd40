package transitlos

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/theoremus-urban-solutions/transit-los/feature"
	"github.com/theoremus-urban-solutions/transit-los/los"
	"github.com/theoremus-urban-solutions/transit-los/session"
)

// ErrorResponse is the JSON body of every error reply
type ErrorResponse struct {
	Error string `json:"error"`
}

// RequestError is a client mistake in path, query or body.
type RequestError struct{ Msg string }

func (e *RequestError) Error() string { return e.Msg }

var errUnknownSession = errors.New("unknown session")

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var reqErr *RequestError
	switch {
	case errors.As(err, &reqErr),
		errors.Is(err, los.ErrInvalidWindow),
		errors.Is(err, feature.ErrMalformed):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrUnknownTrip),
		errors.Is(err, session.ErrUnknownRoute),
		errors.Is(err, errUnknownSession),
		errors.Is(err, errUnknownFeed):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), ErrorResponse{Error: err.Error()})
}
