package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/notelace/notelace-server/internal/model"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps service sentinels to HTTP status codes and writes a JSON
// error body. Unknown errors collapse to a generic 500 so internals never
// leak to clients.
func writeError(w http.ResponseWriter, err error) {
	var (
		status  int
		message string
	)
	switch {
	case errors.Is(err, model.ErrInvalidUsername),
		errors.Is(err, model.ErrInvalidFilename),
		errors.Is(err, model.ErrInvalidTimestamp):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, model.ErrInvalidCredentials):
		status, message = http.StatusUnauthorized, err.Error()
	case errors.Is(err, model.ErrInvalidInvite),
		errors.Is(err, model.ErrPermissionDenied):
		status, message = http.StatusForbidden, err.Error()
	case errors.Is(err, model.ErrUserNotFound),
		errors.Is(err, model.ErrPageNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, model.ErrUserExists),
		errors.Is(err, model.ErrPageAlreadyExists):
		status, message = http.StatusConflict, err.Error()
	default:
		status, message = http.StatusInternalServerError, "internal server error"
	}

	writeJSON(w, status, errorResponse{Error: message})
}

// writeBadRequest reports an unparseable request body.
func writeBadRequest(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON parses a request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
