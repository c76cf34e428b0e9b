package bookmarks

// Entry is a single bookmark entry in the YAML.
type Entry struct {
	Icon        string `yaml:"icon"`
	Abbr        string `yaml:"abbr"`
	Href        string `yaml:"href"`
	Description string `yaml:"description,omitempty"`
}

// Category maps a category name to its bookmarks.
// The YAML structure is: - CategoryName: [ - BookmarkName: [{ icon, abbr, href }] ]
// Each bookmark name maps to a list holding a single entry.
type Category map[string][]map[string][]Entry

// Config is the root structure of bookmarks.yaml.
type Config []Category
