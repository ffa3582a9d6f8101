package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/notable/internal/directory"
	"github.com/wolfeidau/notable/internal/store"
)

type errorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}

// writeDomainError maps sentinel errors from the stores and the directory to
// their stable status class. Anything unrecognized is a server fault and is
// logged with its detail, which never reaches the response body.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, directory.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, store.ErrNoteQuotaExceeded):
		writeError(w, http.StatusForbidden, "free plan limit reached")
	case errors.Is(err, store.ErrNoteNotFound):
		writeError(w, http.StatusNotFound, "note not found")
	case errors.Is(err, store.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, store.ErrTenantNotFound):
		writeError(w, http.StatusNotFound, "tenant not found")
	case errors.Is(err, store.ErrUserAlreadyExists):
		writeError(w, http.StatusConflict, "user with this email already exists")
	case errors.Is(err, directory.ErrTenantMissing):
		// Data-integrity fault; already logged loudly at the source.
		writeError(w, http.StatusInternalServerError, "server error")
	default:
		log.Error().Err(err).Msg("Unhandled error")
		writeError(w, http.StatusInternalServerError, "server error")
	}
}
