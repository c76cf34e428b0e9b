package redis

import "github.com/homescreen/homescreen/internal/domain"

// DefaultKeyPrefix namespaces every key the store writes.
const DefaultKeyPrefix = "homescreen"

// keys builds the Redis key layout for one prefix:
//
//	<prefix>:website:<name>     hash {link, section}
//	<prefix>:section:<section>  set of website names
type keys struct {
	prefix string
}

// WebsiteKey returns the hash key holding one website.
func (k keys) WebsiteKey(name string) string {
	return k.prefix + ":website:" + name
}

// SectionKey returns the set key indexing the names in section.
func (k keys) SectionKey(section domain.Section) string {
	return k.prefix + ":section:" + section.String()
}

// sectionKeys returns the set keys of all sections, target first.
func (k keys) sectionKeys(target domain.Section) []string {
	out := []string{k.SectionKey(target)}
	for _, s := range domain.AllSections() {
		if s != target {
			out = append(out, k.SectionKey(s))
		}
	}
	return out
}

// pattern matches every key under the prefix.
func (k keys) pattern() string {
	return k.prefix + ":*"
}
