package handlers

import (
	"net/http"

	"github.com/homescreen/homescreen/internal/httpserver/deps"
	"github.com/homescreen/homescreen/internal/logger"
)

// Import queues a bookmark file import. Only one request can be queued at
// a time; further requests get 429 until the importer picks it up.
func Import(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.ImportTrigger == nil {
			http.Error(w, "bookmark import is not configured", http.StatusNotFound)
			return
		}

		select {
		case d.ImportTrigger <- struct{}{}:
			d.Logger.Info("manual bookmark import triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			w.WriteHeader(http.StatusAccepted)
			if _, err := w.Write([]byte("import triggered\n")); err != nil {
				d.Logger.Debug("failed to write response", logger.Error(err))
			}
		default:
			d.Logger.Warn("bookmark import already queued",
				logger.String("remote_ip", r.RemoteAddr))
			http.Error(w, "import already in progress, please wait", http.StatusTooManyRequests)
		}
	}
}
