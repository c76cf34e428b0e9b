package bookmarks

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `---
- Code:
    - GitHub:
        - abbr: GH
          href: https://github.com/
    - Go Docs:
        - abbr: GO
          href: https://pkg.go.dev
- Fun:
    - Lichess:
        - abbr: LI
          href: https://lichess.org/
- Media:
    - Jellyfin:
        - abbr: JF
          href: https://jellyfin.domain.ext
`

func TestLoaderLoad(t *testing.T) {
	yamlPath := filepath.Join(t.TempDir(), "bookmarks.yaml")
	if err := os.WriteFile(yamlPath, []byte(sampleYAML), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}

	loader := NewLoader(yamlPath)
	if loader.Path() != yamlPath {
		t.Errorf("Path() = %q, want %q", loader.Path(), yamlPath)
	}

	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg) != 3 {
		t.Fatalf("Load() returned %d categories, want 3", len(cfg))
	}

	code := cfg[0]["Code"]
	if len(code) != 2 {
		t.Fatalf("Code has %d bookmarks, want 2", len(code))
	}
	if got := code[0]["GitHub"][0].Href; got != "https://github.com/" {
		t.Errorf("GitHub href = %q", got)
	}
}

func TestLoaderLoadWithTemplateVariables(t *testing.T) {
	yamlPath := filepath.Join(t.TempDir(), "bookmarks.yaml")
	content := `---
- Code:
    - Forge:
        - abbr: FG
          href: {{HOMEPAGE_VAR_FORGE_URL}}
`
	if err := os.WriteFile(yamlPath, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}

	cfg, err := NewLoader(yamlPath).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := cfg[0]["Code"][0]["Forge"][0].Href; got != "" {
		t.Errorf("templated href = %q, want empty", got)
	}
}

func TestLoaderLoadFileNotFound(t *testing.T) {
	if _, err := NewLoader("/nonexistent/path/bookmarks.yaml").Load(); err == nil {
		t.Error("Load() with non-existent file should return error")
	}
}

func TestParseInvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("- Code: [unclosed")); err == nil {
		t.Error("Parse() with broken yaml should return error")
	}
}

func TestStripTemplateVariables(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"single template variable", "href: {{HOMEPAGE_VAR_URL}}", `href: ""`},
		{"two variables", "a: {{A}}\nb: {{B}}", "a: \"\"\nb: \"\""},
		{"no template variables", "plain text", "plain text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(stripTemplateVariables([]byte(tt.input))); got != tt.expected {
				t.Errorf("stripTemplateVariables() = %q, want %q", got, tt.expected)
			}
		})
	}
}
