package bookmarks

import (
	"errors"
	"testing"

	"github.com/homescreen/homescreen/internal/domain"
)

func TestMap(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatal(err)
	}

	res, err := Map(cfg)
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}

	want := []domain.Website{
		{Name: "GitHub", Link: "github.com", Section: domain.SectionCode},
		{Name: "Go Docs", Link: "pkg.go.dev", Section: domain.SectionCode},
		{Name: "Lichess", Link: "lichess.org", Section: domain.SectionFun},
	}
	if len(res.Websites) != len(want) {
		t.Fatalf("Map() returned %d websites, want %d: %v", len(res.Websites), len(want), res.Websites)
	}
	for i := range want {
		if res.Websites[i] != want[i] {
			t.Errorf("website[%d] = %+v, want %+v", i, res.Websites[i], want[i])
		}
	}

	if len(res.Skipped) != 1 || res.Skipped[0].Category != "Media" || res.Skipped[0].Name != "" {
		t.Errorf("Skipped = %v, want the Media category", res.Skipped)
	}
}

func TestMapSkipsBadEntries(t *testing.T) {
	cfg := Config{
		{
			"editing": {
				{"Figma": {{Href: "https://figma.com"}}},
				{"NoHref": {{Abbr: "NH"}}},
				{"NoEntry": {}},
				{"OnlyScheme": {{Href: "https://"}}},
			},
		},
	}

	res, err := Map(cfg)
	if err != nil {
		t.Fatalf("Map() error = %v", err)
	}
	if len(res.Websites) != 1 || res.Websites[0].Name != "Figma" || res.Websites[0].Section != domain.SectionEditing {
		t.Errorf("Websites = %v", res.Websites)
	}
	if len(res.Skipped) != 3 {
		t.Errorf("Skipped = %v, want 3 entries", res.Skipped)
	}
}

func TestMapEmpty(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"empty config", Config{}},
		{"only unknown categories", Config{{"Media": {{"Jellyfin": {{Href: "https://jf.lan"}}}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Map(tt.cfg)
			if !errors.Is(err, ErrNoWebsites) {
				t.Errorf("Map() error = %v, want ErrNoWebsites", err)
			}
			if len(res.Websites) != 0 {
				t.Errorf("Map() returned %d websites", len(res.Websites))
			}
		})
	}
}

func TestNormalizeLink(t *testing.T) {
	tests := []struct {
		href string
		want string
	}{
		{"https://github.com/", "github.com"},
		{"http://example.com/path/", "example.com/path"},
		{"HTTPS://Example.com", "Example.com"},
		{"github.com/org/ide", "github.com/org/ide"},
		{"  https://pad.lan//  ", "pad.lan"},
		{"ftp://files.lan", "ftp://files.lan"},
		{"https://", ""},
	}

	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			if got := NormalizeLink(tt.href); got != tt.want {
				t.Errorf("NormalizeLink(%q) = %q, want %q", tt.href, got, tt.want)
			}
		})
	}
}

func TestSkippedString(t *testing.T) {
	if got := (Skipped{Category: "Media", Reason: "unknown section"}).String(); got != "Media: unknown section" {
		t.Errorf("String() = %q", got)
	}
	if got := (Skipped{Category: "Code", Name: "X", Reason: "missing href"}).String(); got != "Code/X: missing href" {
		t.Errorf("String() = %q", got)
	}
}
