package domain

import (
	"fmt"
	"strings"
)

// iconServiceTemplate is the favicon service used by the frontend.
const iconServiceTemplate = "https://icons.duckduckgo.com/ip3/%s.ico"

// transferProtocols are the prefixes a website link must not carry: the
// frontend prepends the scheme itself and the icon service expects a bare host.
var transferProtocols = []string{"http://", "https://"}

// Website is a single homescreen bookmark.
// Name is the natural key; two websites are equal when all fields match.
type Website struct {
	Name    string  `json:"website_name"`
	Link    string  `json:"website_link"`
	Section Section `json:"section"`
}

// NewWebsite builds a validated Website. It performs no I/O.
func NewWebsite(name, link string, section Section) (Website, error) {
	if err := ValidateLink(link); err != nil {
		return Website{}, err
	}
	if !section.Valid() {
		return Website{}, fmt.Errorf("%w: %d", ErrInvalidSection, uint8(section))
	}
	return Website{Name: name, Link: link, Section: section}, nil
}

// ValidateLink rejects links starting with a transfer protocol prefix.
// The check is case-sensitive and does not normalize the link.
func ValidateLink(link string) error {
	for _, prefix := range transferProtocols {
		if strings.HasPrefix(link, prefix) {
			return fmt.Errorf("%w: %q", ErrLinkHasTransferProtocol, link)
		}
	}
	return nil
}

// IconLink returns the favicon URL for the website. The link is embedded
// as-is, without escaping.
func (w Website) IconLink() string {
	return fmt.Sprintf(iconServiceTemplate, w.Link)
}
