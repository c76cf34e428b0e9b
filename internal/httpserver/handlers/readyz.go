package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/homescreen/homescreen/internal/httpserver/deps"
	"github.com/homescreen/homescreen/internal/logger"
)

const defaultReadyTimeout = 2 * time.Second

type readyzResponse struct {
	Ready bool   `json:"ready"`
	Error string `json:"error,omitempty"`
}

// Readyz pings the store and answers 503 while it is unreachable.
func Readyz(d deps.Deps) http.HandlerFunc {
	timeout := d.ReadyTimeout
	if timeout <= 0 {
		timeout = defaultReadyTimeout
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if d.Pinger == nil {
			writeJSON(w, http.StatusOK, readyzResponse{Ready: true}, d.Logger)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		if err := d.Pinger.Ping(ctx); err != nil {
			d.Logger.Warn("store not ready", logger.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, readyzResponse{Ready: false, Error: "store unreachable"}, d.Logger)
			return
		}
		writeJSON(w, http.StatusOK, readyzResponse{Ready: true}, d.Logger)
	}
}
