package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/homescreen/homescreen/internal/httpserver/deps"
	"github.com/homescreen/homescreen/internal/httpserver/mw"
)

type (
	Registrar  func(r chi.Router, d deps.Deps)
	Middleware = func(http.Handler) http.Handler
)

type entry struct {
	reg Registrar
	mws []Middleware
}

var registry []entry

// Register a registrar with optional per-route middlewares.
func Register(reg Registrar, mws ...Middleware) {
	registry = append(registry, entry{reg: reg, mws: mws})
}

// RegisterAll mounts every registered route. Called once from server.New().
// State-changing routes draw from one shared limiter.
func RegisterAll(r chi.Router, d deps.Deps) {
	if d.WriteLimit == nil {
		d.WriteLimit = writeLimit(d)
	}
	for _, e := range registry {
		if len(e.mws) == 0 {
			e.reg(r, d)
			continue
		}
		e.reg(r.With(e.mws...), d)
	}
}

// restricted applies the network and Host allowlists shared by every route.
func restricted(r chi.Router, d deps.Deps) chi.Router {
	return r.With(
		mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger),
		mw.EnforceHost(d.AllowedHosts, d.Logger),
	)
}

// writeLimit builds a token bucket for routes that change state. A burst
// of zero disables limiting.
func writeLimit(d deps.Deps) Middleware {
	if d.RateLimit.Burst <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return mw.RateLimit(mw.RateLimitConfig{
		Burst:        d.RateLimit.Burst,
		RefillPerMin: d.RateLimit.RefillPerMin,
		MaxEntries:   10_000,
		TrustProxy:   d.TrustProxy,
	}, d.Logger)
}
