package bookmarks

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/homescreen/homescreen/internal/domain"
)

// ErrNoWebsites is returned when a bookmarks file yields nothing to import.
var ErrNoWebsites = errors.New("no valid bookmarks found in config")

// Skipped records a bookmark, or a whole category, left out of the import.
type Skipped struct {
	Category string
	Name     string // empty when the whole category was skipped
	Reason   string
}

// Result is the outcome of mapping a bookmarks file.
type Result struct {
	Websites []domain.Website
	Skipped  []Skipped
}

// Map converts parsed bookmarks into websites. The category name, lowercased,
// selects the section; unknown categories are skipped. Bookmark names are kept
// verbatim and hrefs lose their scheme and trailing slashes.
func Map(cfg Config) (Result, error) {
	var res Result

	for _, category := range cfg {
		for _, categoryName := range sortedKeys(category) {
			section, err := domain.ParseSection(strings.ToLower(strings.TrimSpace(categoryName)))
			if err != nil {
				res.Skipped = append(res.Skipped, Skipped{Category: categoryName, Reason: "unknown section"})
				continue
			}

			for _, bookmarkMap := range category[categoryName] {
				for _, name := range sortedKeys(bookmarkMap) {
					website, reason := mapEntry(name, bookmarkMap[name], section)
					if reason != "" {
						res.Skipped = append(res.Skipped, Skipped{Category: categoryName, Name: name, Reason: reason})
						continue
					}
					res.Websites = append(res.Websites, website)
				}
			}
		}
	}

	if len(res.Websites) == 0 {
		return res, ErrNoWebsites
	}
	return res, nil
}

func mapEntry(name string, entries []Entry, section domain.Section) (domain.Website, string) {
	if len(entries) == 0 || entries[0].Href == "" {
		return domain.Website{}, "missing href"
	}

	link := NormalizeLink(entries[0].Href)
	if link == "" {
		return domain.Website{}, "empty link"
	}

	website, err := domain.NewWebsite(name, link, section)
	if err != nil {
		return domain.Website{}, err.Error()
	}
	return website, ""
}

// NormalizeLink drops an http:// or https:// prefix (any case) and trailing
// slashes, leaving the bare host and path the frontend expects.
func NormalizeLink(href string) string {
	link := strings.TrimSpace(href)
	for _, scheme := range []string{"https://", "http://"} {
		if len(link) >= len(scheme) && strings.EqualFold(link[:len(scheme)], scheme) {
			link = link[len(scheme):]
			break
		}
	}
	return strings.TrimRight(link, "/")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String summarises a skipped entry for logs.
func (s Skipped) String() string {
	if s.Name == "" {
		return fmt.Sprintf("%s: %s", s.Category, s.Reason)
	}
	return fmt.Sprintf("%s/%s: %s", s.Category, s.Name, s.Reason)
}
