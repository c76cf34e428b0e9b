package redis

import (
	"testing"

	"github.com/homescreen/homescreen/internal/domain"
)

func TestKeys(t *testing.T) {
	k := keys{prefix: "hs"}

	if got := k.WebsiteKey("my site"); got != "hs:website:my site" {
		t.Errorf("WebsiteKey() = %q", got)
	}
	if got := k.SectionKey(domain.SectionEditing); got != "hs:section:editing" {
		t.Errorf("SectionKey() = %q", got)
	}
	if got := k.pattern(); got != "hs:*" {
		t.Errorf("pattern() = %q", got)
	}
}

func TestSectionKeysTargetFirst(t *testing.T) {
	k := keys{prefix: "hs"}

	got := k.sectionKeys(domain.SectionFun)
	want := []string{"hs:section:fun", "hs:section:code", "hs:section:editing"}
	if len(got) != len(want) {
		t.Fatalf("sectionKeys() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sectionKeys()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNewStoreDefaultPrefix(t *testing.T) {
	s := NewStore(nil, "")
	if s.keys.prefix != DefaultKeyPrefix {
		t.Errorf("prefix = %q, want %q", s.keys.prefix, DefaultKeyPrefix)
	}
}
