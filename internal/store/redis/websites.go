package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/homescreen/homescreen/internal/domain"
)

var _ domain.WebsiteStore = (*Store)(nil)

// upsertScript writes the website hash and moves its name into the target
// section set in one atomic step.
// KEYS[1] website hash, KEYS[2] target section set, KEYS[3..] other section sets.
// ARGV[1] name, ARGV[2] link, ARGV[3] section.
var upsertScript = redis.NewScript(`
redis.call('HSET', KEYS[1], 'link', ARGV[2], 'section', ARGV[3])
for i = 3, #KEYS do
	redis.call('SREM', KEYS[i], ARGV[1])
end
redis.call('SADD', KEYS[2], ARGV[1])
return 1
`)

// deleteScript removes the website hash and its section index entry.
// Returns 0 when the website did not exist.
// KEYS[1] website hash, KEYS[2..] section sets. ARGV[1] name.
var deleteScript = redis.NewScript(`
if redis.call('DEL', KEYS[1]) == 0 then
	return 0
end
for i = 2, #KEYS do
	redis.call('SREM', KEYS[i], ARGV[1])
end
return 1
`)

// Store keeps websites in Redis hashes indexed by per-section sets.
type Store struct {
	client *redis.Client
	keys   keys
}

// NewStore creates a new Redis store. An empty prefix uses DefaultKeyPrefix.
func NewStore(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Store{
		client: client,
		keys:   keys{prefix: prefix},
	}
}

// BySection returns the websites indexed under section.
func (s *Store) BySection(ctx context.Context, section domain.Section) ([]domain.Website, error) {
	names, err := s.client.SMembers(ctx, s.keys.SectionKey(section)).Result()
	if err != nil {
		return nil, domain.RetrievalFailed(section, fmt.Errorf("failed to get website names: %w", err))
	}
	if len(names) == 0 {
		return []domain.Website{}, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(names))
	for i, name := range names {
		cmds[i] = pipe.HGetAll(ctx, s.keys.WebsiteKey(name))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, domain.RetrievalFailed(section, fmt.Errorf("failed to get websites: %w", err))
	}

	websites := make([]domain.Website, 0, len(names))
	for i, cmd := range cmds {
		fields := cmd.Val()
		// The website was deleted or moved between the two reads.
		if len(fields) == 0 || fields["section"] != section.String() {
			continue
		}
		websites = append(websites, domain.Website{
			Name:    names[i],
			Link:    fields["link"],
			Section: section,
		})
	}
	return websites, nil
}

// All returns websites grouped by section.
func (s *Store) All(ctx context.Context) (map[domain.Section][]domain.Website, error) {
	return domain.CollectAll(ctx, s)
}

// Upsert stores website, replacing any website with the same name.
func (s *Store) Upsert(ctx context.Context, website domain.Website) error {
	scriptKeys := append([]string{s.keys.WebsiteKey(website.Name)}, s.keys.sectionKeys(website.Section)...)
	err := upsertScript.Run(ctx, s.client, scriptKeys,
		website.Name, website.Link, website.Section.String()).Err()
	if err != nil {
		return domain.InsertFailed(fmt.Errorf("failed to save website: %w", err))
	}
	return nil
}

// DeleteByName removes the website called name.
func (s *Store) DeleteByName(ctx context.Context, name string) error {
	scriptKeys := append([]string{s.keys.WebsiteKey(name)}, s.keys.sectionKeys(domain.SectionCode)...)
	deleted, err := deleteScript.Run(ctx, s.client, scriptKeys, name).Int()
	if err != nil {
		return domain.DeleteFailed(fmt.Errorf("failed to delete website: %w", err))
	}
	if deleted == 0 {
		return fmt.Errorf("%w: %q", domain.ErrNotFound, name)
	}
	return nil
}

// Flush removes every key under the store prefix.
func (s *Store) Flush(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, s.keys.pattern(), 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete key: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to flush store: %w", err)
	}
	return nil
}

// Ping checks the server is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the client's connection pool.
func (s *Store) Close() error {
	return s.client.Close()
}
