package deps

import (
	"context"
	"net/http"
	"time"

	"github.com/homescreen/homescreen/internal/domain"
	"github.com/homescreen/homescreen/internal/logger"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Logger         logger.Logger
	Store          domain.WebsiteStore // website persistence
	Pinger         Pinger              // readiness probe; nil means always ready
	StartTime      time.Time
	Version        string
	Commit         string
	BuildDate      string
	GoVersion      string
	AllowedCIDRS   []string      // IPs allowed to reach the API; empty disables filtering
	AllowedHosts   []string      // Host header allowlist; empty disables filtering
	AllowedOrigins []string      // CORS origins; empty allows any
	TrustProxy     bool          // true if running behind a trusted reverse proxy (e.g., cloudflared)
	RateLimit      RateLimit     // token bucket applied to write routes
	Backend        string        // storage backend name reported by /healthz
	ReadyTimeout   time.Duration // bound on the readiness ping, defaults to 2s
	ImportTrigger  chan struct{} // manual bookmark import (nil if no bookmark file)

	// WriteLimit is shared by every state-changing route. RegisterAll
	// builds it from RateLimit when nil.
	WriteLimit func(http.Handler) http.Handler
}

// RateLimit configures the per-client token bucket. Burst 0 disables it.
type RateLimit struct {
	Burst        int
	RefillPerMin int
}
