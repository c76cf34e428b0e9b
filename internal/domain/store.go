package domain

import "context"

// WebsiteStore is the persistence gateway for websites. Implementations hold
// no cache: every call goes to the backing store, and every write is a single
// atomic statement.
type WebsiteStore interface {
	// BySection returns every website in section. An empty section yields an
	// empty, non-nil slice. Failures are StoreErrors for that section.
	BySection(ctx context.Context, section Section) ([]Website, error)

	// All returns websites grouped by section. The map always has one key per
	// section; any per-section failure fails the whole call.
	All(ctx context.Context) (map[Section][]Website, error)

	// Upsert inserts website, or overwrites link and section of the website
	// with the same name.
	Upsert(ctx context.Context, website Website) error

	// DeleteByName removes the website called name. It returns ErrNotFound
	// when nothing was deleted.
	DeleteByName(ctx context.Context, name string) error
}

// SectionReader is the part of a WebsiteStore that CollectAll needs.
type SectionReader interface {
	BySection(ctx context.Context, section Section) ([]Website, error)
}

// CollectAll runs BySection for each section in AllSections order and
// assembles the result. It returns the first error without a partial map.
func CollectAll(ctx context.Context, r SectionReader) (map[Section][]Website, error) {
	websites := make(map[Section][]Website, len(allSections))
	for _, section := range allSections {
		list, err := r.BySection(ctx, section)
		if err != nil {
			return nil, err
		}
		if list == nil {
			list = []Website{}
		}
		websites[section] = list
	}
	return websites, nil
}
