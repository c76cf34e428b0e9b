package sqlstore

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/homescreen/homescreen/internal/domain"
)

var _ domain.WebsiteStore = (*Store)(nil)

const (
	selectBySectionQuery = `SELECT website_name, website_link, section FROM websites WHERE section = ?`
	deleteByNameQuery    = `DELETE FROM websites WHERE website_name = ?`

	upsertSQLiteQuery = `INSERT INTO websites (website_name, website_link, section) VALUES (?, ?, ?)
ON CONFLICT (website_name) DO UPDATE SET website_link = excluded.website_link, section = excluded.section`

	upsertMySQLQuery = `INSERT INTO websites (website_name, website_link, section) VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE website_link = ?, section = ?`
)

// Store keeps websites in a single table keyed by website_name.
type Store struct {
	db      *sqlx.DB
	dialect Dialect
}

// New wraps an open connection. Migrations must already be applied.
func New(db *sqlx.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// dbWebsite is a row of the websites table.
type dbWebsite struct {
	Name    string `db:"website_name"`
	Link    string `db:"website_link"`
	Section string `db:"section"`
}

func toDomainWebsite(row dbWebsite) (domain.Website, error) {
	section, err := domain.ParseSection(row.Section)
	if err != nil {
		return domain.Website{}, fmt.Errorf("row %q: %w", row.Name, err)
	}
	return domain.Website{Name: row.Name, Link: row.Link, Section: section}, nil
}

// BySection returns the websites stored under section, in store order.
func (s *Store) BySection(ctx context.Context, section domain.Section) ([]domain.Website, error) {
	var rows []dbWebsite
	if err := s.db.SelectContext(ctx, &rows, selectBySectionQuery, section.String()); err != nil {
		return nil, domain.RetrievalFailed(section, err)
	}

	websites := make([]domain.Website, 0, len(rows))
	for _, row := range rows {
		website, err := toDomainWebsite(row)
		if err != nil {
			return nil, domain.RetrievalFailed(section, err)
		}
		websites = append(websites, website)
	}
	return websites, nil
}

// All returns websites grouped by section.
func (s *Store) All(ctx context.Context) (map[domain.Section][]domain.Website, error) {
	return domain.CollectAll(ctx, s)
}

// Upsert inserts website or overwrites the row with the same name.
func (s *Store) Upsert(ctx context.Context, website domain.Website) error {
	section := website.Section.String()

	var err error
	switch s.dialect {
	case DialectMySQL:
		_, err = s.db.ExecContext(ctx, upsertMySQLQuery,
			website.Name, website.Link, section, website.Link, section)
	default:
		_, err = s.db.ExecContext(ctx, upsertSQLiteQuery, website.Name, website.Link, section)
	}
	if err != nil {
		return domain.InsertFailed(err)
	}
	return nil
}

// DeleteByName removes the website called name.
func (s *Store) DeleteByName(ctx context.Context, name string) error {
	result, err := s.db.ExecContext(ctx, deleteByNameQuery, name)
	if err != nil {
		return domain.DeleteFailed(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return domain.DeleteFailed(fmt.Errorf("fetching rows affected: %w", err))
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %q", domain.ErrNotFound, name)
	}
	return nil
}

// Ping checks the connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close terminates the connection pool.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("closing sql store: %w", err)
	}
	return nil
}
