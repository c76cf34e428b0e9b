// Package memory is an in-process domain.WebsiteStore for builds and demos
// that run without a database. Contents are lost on restart.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/homescreen/homescreen/internal/domain"
)

var _ domain.WebsiteStore = (*Store)(nil)

// Store keeps websites in a map keyed by name.
type Store struct {
	mu       sync.RWMutex
	websites map[string]domain.Website
	order    []string // insertion order, so reads are stable
}

func New() *Store {
	return &Store{websites: make(map[string]domain.Website)}
}

func (s *Store) BySection(_ context.Context, section domain.Section) ([]domain.Website, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Website, 0)
	for _, name := range s.order {
		if w := s.websites[name]; w.Section == section {
			out = append(out, w)
		}
	}
	return out, nil
}

func (s *Store) All(ctx context.Context) (map[domain.Section][]domain.Website, error) {
	return domain.CollectAll(ctx, s)
}

func (s *Store) Upsert(ctx context.Context, website domain.Website) error {
	if err := ctx.Err(); err != nil {
		return domain.InsertFailed(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.websites[website.Name]; !ok {
		s.order = append(s.order, website.Name)
	}
	s.websites[website.Name] = website
	return nil
}

func (s *Store) DeleteByName(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return domain.DeleteFailed(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.websites[name]; !ok {
		return fmt.Errorf("%w: %q", domain.ErrNotFound, name)
	}
	delete(s.websites, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }
