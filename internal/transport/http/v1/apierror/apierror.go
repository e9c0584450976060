package apierror

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aurastore/backend/order/internal/service/models/order"
	"github.com/aurastore/backend/order/internal/service/servicerr"
)

// Payload is the structured error body returned on every failure.
type Payload struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// Write maps a service error to a status code and structured payload.
func Write(w http.ResponseWriter, err error) {
	var verr *servicerr.ValidationError

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, Payload{
			Error:   "Validation failed",
			Details: verr.Fields,
		})
	case errors.Is(err, servicerr.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, Payload{Error: "Unauthorized"})
	case errors.Is(err, servicerr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, Payload{Error: "Not found"})
	case errors.Is(err, order.ErrInvalidStatus):
		writeJSON(w, http.StatusBadRequest, Payload{Error: "Invalid status"})
	default:
		slog.Error("Internal error", "error", err)
		writeJSON(w, http.StatusInternalServerError, Payload{Error: "Internal Server Error"})
	}
}

// BadRequest writes a 400 with a message, for malformed request bodies.
func BadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, Payload{Error: message})
}

// Forbidden writes a 403 for authenticated but unprivileged actors.
func Forbidden(w http.ResponseWriter) {
	writeJSON(w, http.StatusForbidden, Payload{Error: "Forbidden"})
}

func writeJSON(w http.ResponseWriter, status int, payload Payload) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Error writing error response", "error", err)
	}
}
