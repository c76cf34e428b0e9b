// Package sqlstore is the relational implementation of domain.WebsiteStore.
//
// It keeps the websites table in SQLite (modernc.org/sqlite) or MySQL
// (github.com/go-sql-driver/mysql), accessed through sqlx. The schema is
// managed by goose with one embedded migration set per dialect, because the
// MySQL table needs a binary collation to keep names case-sensitive.
//
// Every write is a single statement: upserts use the dialect's native
// insert-or-update, deletes report NotFound from the affected row count.
package sqlstore
