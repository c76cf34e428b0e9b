package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/homescreen/homescreen/internal/domain"
	"github.com/homescreen/homescreen/internal/logger"
)

func writeJSON(w http.ResponseWriter, status int, body any, log logger.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Debug("failed to write response", logger.Error(err))
	}
}

// statusFor maps a domain error to its HTTP status.
func statusFor(err error) int {
	switch {
	case domain.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError sends err as a text/plain body. Storage causes are logged by
// the caller and never echoed to the client.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = storageMessage(err)
	}
	http.Error(w, msg, status)
}

func storageMessage(err error) string {
	var se *domain.StoreError
	if !errors.As(err, &se) {
		return http.StatusText(http.StatusInternalServerError)
	}
	switch se.Op {
	case domain.OpRetrieve:
		if se.Section != nil {
			return "cannot retrieve " + se.Section.String() + " websites"
		}
		return "cannot retrieve websites"
	case domain.OpInsert:
		return "cannot insert website"
	case domain.OpDelete:
		return "cannot delete website"
	}
	return http.StatusText(http.StatusInternalServerError)
}
