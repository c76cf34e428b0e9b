package handlers

import (
	"net/http"
	"time"

	"github.com/homescreen/homescreen/internal/httpserver/deps"
)

type buildInfo struct {
	Version   string `json:"version,omitempty"`
	Commit    string `json:"commit,omitempty"`
	Date      string `json:"date,omitempty"`
	GoVersion string `json:"go_version,omitempty"`
}

type healthzResponse struct {
	Status string    `json:"status"`
	Store  string    `json:"store,omitempty"`
	Uptime string    `json:"uptime"`
	Build  buildInfo `json:"build"`
}

// Healthz answers liveness with the storage backend and build metadata.
// The store itself is never contacted; readiness is Readyz's job.
func Healthz(d deps.Deps) http.HandlerFunc {
	build := buildInfo{
		Version:   d.Version,
		Commit:    d.Commit,
		Date:      d.BuildDate,
		GoVersion: d.GoVersion,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthzResponse{
			Status: "ok",
			Store:  d.Backend,
			Uptime: time.Since(d.StartTime).Truncate(time.Second).String(),
			Build:  build,
		}, d.Logger)
	}
}
