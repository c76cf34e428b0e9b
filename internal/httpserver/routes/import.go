package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/homescreen/homescreen/internal/httpserver/deps"
	"github.com/homescreen/homescreen/internal/httpserver/handlers"
)

func init() { Register(registerImport) }

func registerImport(r chi.Router, d deps.Deps) {
	restricted(r, d).With(d.WriteLimit).Post("/import", handlers.Import(d))
}
