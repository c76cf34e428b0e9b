package handlers

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/homescreen/homescreen/internal/domain"
	"github.com/homescreen/homescreen/internal/httpserver/deps"
	"github.com/homescreen/homescreen/internal/logger"
)

// Form field names, with the short aliases accepted when the full name is absent.
const (
	fieldName        = "website_name"
	fieldNameAlias   = "name"
	fieldLink        = "website_link"
	fieldLinkAlias   = "link"
	fieldSection     = "section"
	maxFormBodyBytes = 64 << 10
)

// AllWebsites returns every website grouped by section display name.
func AllWebsites(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Logger.Info("listing all websites")

		all, err := d.Store.All(r.Context())
		if err != nil {
			d.Logger.Error("failed to list websites", logger.Error(err))
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, all, d.Logger)
	}
}

// WebsitesBySection returns the websites of one section.
func WebsitesBySection(d deps.Deps, section domain.Section) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Logger.Info("listing websites", logger.Stringer("section", section))

		websites, err := d.Store.BySection(r.Context(), section)
		if err != nil {
			d.Logger.Error("failed to list websites",
				logger.Stringer("section", section),
				logger.Error(err))
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, websites, d.Logger)
	}
}

// PutWebsite inserts or replaces a website from a form-encoded body.
func PutWebsite(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Logger.Info("upserting website")

		website, err := websiteFromForm(w, r)
		if err != nil {
			d.Logger.Error("rejected website form", logger.Error(err))
			writeError(w, err)
			return
		}

		if err := d.Store.Upsert(r.Context(), website); err != nil {
			d.Logger.Error("failed to upsert website",
				logger.String("name", website.Name),
				logger.Error(err))
			writeError(w, err)
			return
		}

		d.Logger.Info("website upserted",
			logger.String("name", website.Name),
			logger.Stringer("section", website.Section))
		w.WriteHeader(http.StatusCreated)
	}
}

// DeleteWebsite removes the website named by the {name} path segment.
func DeleteWebsite(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, err := pathName(r)
		if err != nil {
			d.Logger.Error("rejected website name", logger.Error(err))
			writeError(w, err)
			return
		}
		d.Logger.Info("deleting website", logger.String("name", name))

		if err := d.Store.DeleteByName(r.Context(), name); err != nil {
			d.Logger.Error("failed to delete website",
				logger.String("name", name),
				logger.Error(err))
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

// websiteFromForm decodes and validates the PUT body. Every failure is a
// validation error.
func websiteFromForm(w http.ResponseWriter, r *http.Request) (domain.Website, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBodyBytes)
	if err := r.ParseForm(); err != nil {
		return domain.Website{}, fmt.Errorf("%w: %v", domain.ErrMalformedForm, err)
	}

	name, err := formField(r.PostForm, fieldName, fieldNameAlias)
	if err != nil {
		return domain.Website{}, err
	}
	link, err := formField(r.PostForm, fieldLink, fieldLinkAlias)
	if err != nil {
		return domain.Website{}, err
	}
	rawSection, err := formField(r.PostForm, fieldSection, "")
	if err != nil {
		return domain.Website{}, err
	}

	section, err := domain.ParseSection(rawSection)
	if err != nil {
		return domain.Website{}, err
	}
	return domain.NewWebsite(name, link, section)
}

// formField returns the first value of key, falling back to alias. Values
// are used verbatim.
func formField(form url.Values, key, alias string) (string, error) {
	if vs, ok := form[key]; ok && len(vs) > 0 {
		return vs[0], nil
	}
	if alias != "" {
		if vs, ok := form[alias]; ok && len(vs) > 0 {
			return vs[0], nil
		}
	}
	return "", fmt.Errorf("%w: missing field %q", domain.ErrMalformedForm, key)
}

// pathName returns the decoded {name} segment. chi matches on the raw path
// when the request path contains escapes, leaving the parameter encoded.
func pathName(r *http.Request) (string, error) {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return name, nil
	}
	decoded, err := url.PathUnescape(name)
	if err != nil {
		return "", fmt.Errorf("%w: invalid name escape: %v", domain.ErrMalformedForm, err)
	}
	return decoded, nil
}
