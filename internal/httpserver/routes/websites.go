package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/homescreen/homescreen/internal/domain"
	"github.com/homescreen/homescreen/internal/httpserver/deps"
	"github.com/homescreen/homescreen/internal/httpserver/handlers"
)

func init() { Register(registerWebsites) }

func registerWebsites(r chi.Router, d deps.Deps) {
	api := restricted(r, d)
	api.Get("/websites", handlers.AllWebsites(d))
	api.Get("/websites/coding", handlers.WebsitesBySection(d, domain.SectionCode))
	api.Get("/websites/fun", handlers.WebsitesBySection(d, domain.SectionFun))
	api.Get("/websites/editing", handlers.WebsitesBySection(d, domain.SectionEditing))

	writes := api.With(d.WriteLimit)
	writes.Put("/websites", handlers.PutWebsite(d))
	writes.Delete("/websites/{name}", handlers.DeleteWebsite(d))
}
