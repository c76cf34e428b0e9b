package domain

import "fmt"

// Section is the display column a website belongs to on the homescreen.
type Section uint8

const (
	SectionCode Section = iota
	SectionFun
	SectionEditing
)

// allSections fixes the iteration order used for categorized reads and responses.
var allSections = [...]Section{SectionCode, SectionFun, SectionEditing}

// AllSections returns every section in display order: Code, Fun, Editing.
func AllSections() [3]Section {
	return allSections
}

// ParseSection converts the canonical lowercase text form into a Section.
// Matching is exact: no trimming, no case folding.
func ParseSection(text string) (Section, error) {
	switch text {
	case "code":
		return SectionCode, nil
	case "fun":
		return SectionFun, nil
	case "editing":
		return SectionEditing, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidSection, text)
}

// String returns the canonical lowercase form used for storage and form input.
func (s Section) String() string {
	switch s {
	case SectionCode:
		return "code"
	case SectionFun:
		return "fun"
	case SectionEditing:
		return "editing"
	}
	return fmt.Sprintf("section(%d)", uint8(s))
}

// DisplayName returns the capitalized form used in JSON responses.
func (s Section) DisplayName() string {
	switch s {
	case SectionCode:
		return "Code"
	case SectionFun:
		return "Fun"
	case SectionEditing:
		return "Editing"
	}
	return s.String()
}

// Valid reports whether s is one of the known sections.
func (s Section) Valid() bool {
	return s <= SectionEditing
}

// MarshalText emits the display name, so sections render as "Code" both as
// JSON values and as JSON object keys.
func (s Section) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSection, uint8(s))
	}
	return []byte(s.DisplayName()), nil
}

// UnmarshalText accepts the display name written by MarshalText.
func (s *Section) UnmarshalText(text []byte) error {
	for _, candidate := range allSections {
		if candidate.DisplayName() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidSection, string(text))
}
