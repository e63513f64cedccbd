// Package sqlstore keeps list item version snapshots in SQLite or
// PostgreSQL.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	migrate "github.com/rubenv/sql-migrate"
	_ "modernc.org/sqlite"

	"github.com/custodia-labs/risklists/internal/core/domain"
	"github.com/custodia-labs/risklists/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.VersionStore = (*Store)(nil)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store is a driven.VersionStore over database/sql.
type Store struct {
	db     *sql.DB
	driver string
}

// Open connects to the database and applies migrations.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	var sqlDriver string
	switch driver {
	case DriverSQLite:
		sqlDriver = "sqlite"
	case DriverPostgres:
		sqlDriver = "pgx"
	default:
		return nil, fmt.Errorf("%w: unsupported store driver %q", domain.ErrInvalidInput, driver)
	}

	db, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if driver == DriverSQLite {
		// In-memory databases exist per connection.
		db.SetMaxOpenConns(1)
	} else {
		db.SetConnMaxIdleTime(5 * time.Minute)
		db.SetConnMaxLifetime(30 * time.Minute)
		db.SetMaxIdleConns(10)
		db.SetMaxOpenConns(20)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	s, err := New(db, driver)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database and applies migrations.
func New(db *sql.DB, driver string) (*Store, error) {
	dialect := "sqlite3"
	if driver == DriverPostgres {
		dialect = "postgres"
	}

	ms := migrate.MigrationSet{TableName: migrationTable}
	if _, err := ms.Exec(db, dialect, migrations(driver), migrate.Up); err != nil {
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	return &Store{db: db, driver: driver}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Query returns matching snapshots ordered oldest first.
func (s *Store) Query(ctx context.Context, q domain.VersionQuery) ([]*domain.Object, error) {
	var (
		where = []string{"version_category = ?"}
		args  = []any{q.VersionCategory}
	)
	if q.ID != "" {
		where = append(where, "item_id = ?")
		args = append(args, q.ID)
	}
	if q.StartDate != "" {
		start, err := bound(q.StartDate)
		if err != nil {
			return nil, err
		}
		where = append(where, "created >= ?", "modified >= ?")
		args = append(args, start, start)
	}
	if q.EndDate != "" {
		end, err := bound(q.EndDate)
		if err != nil {
			return nil, err
		}
		where = append(where, "created <= ?", "modified <= ?")
		args = append(args, end, end)
	}

	query := "SELECT doc FROM versions WHERE " + strings.Join(where, " AND ") +
		" ORDER BY modified, created, seq"

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query versions: %w", err)
	}
	defer rows.Close()

	var out []*domain.Object
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		obj := domain.NewObject()
		if err := json.Unmarshal([]byte(doc), obj); err != nil {
			return nil, fmt.Errorf("decode version: %w", err)
		}
		out = append(out, obj)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate versions: %w", err)
	}
	return out, nil
}

// Save upserts snapshots keyed by their id.
func (s *Store) Save(ctx context.Context, versions []*domain.Object) (int, error) {
	rows := make([]row, 0, len(versions))
	for i, v := range versions {
		r, err := toRow(v)
		if err != nil {
			return 0, fmt.Errorf("version %d: %w", i, err)
		}
		rows = append(rows, r)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, s.rebind(`
		INSERT INTO versions (id, version_category, item_id, created, modified, doc)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			version_category = excluded.version_category,
			item_id = excluded.item_id,
			created = excluded.created,
			modified = excluded.modified,
			doc = excluded.doc`))
	if err != nil {
		return 0, fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.id, r.category, r.itemID, r.created, r.modified, r.doc); err != nil {
			return 0, fmt.Errorf("upsert version %s: %w", r.id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(rows), nil
}

type row struct {
	id       string
	category string
	itemID   string
	created  string
	modified string
	doc      string
}

func toRow(v *domain.Object) (row, error) {
	var r row

	id, _ := v.Get("id")
	r.id, _ = id.Text()
	if r.id == "" {
		return r, fmt.Errorf("%w: missing id", domain.ErrInvalidInput)
	}

	category, _ := v.Get("VersionCategory")
	r.category, _ = category.Text()
	if r.category == "" {
		return r, fmt.Errorf("%w: missing VersionCategory", domain.ErrInvalidInput)
	}

	itemID, ok := v.Lookup("fields", "ID")
	if !ok || itemID.IsNull() {
		return r, fmt.Errorf("%w: missing fields.ID", domain.ErrInvalidInput)
	}
	r.itemID = ItemKey(itemID)

	created, _ := v.Get("created")
	createdText, _ := created.Text()
	r.created = domain.SortableTimestamp(createdText)

	modified, _ := v.Lookup("fields", "Modified")
	modifiedText, _ := modified.Text()
	r.modified = domain.SortableTimestamp(modifiedText)
	if r.modified == "" {
		r.modified = r.created
	}

	data, err := json.Marshal(v)
	if err != nil {
		return r, fmt.Errorf("encode version: %w", err)
	}
	r.doc = string(data)
	return r, nil
}

// ItemKey renders an item identity the way queries match it: integral
// numbers in decimal, strings as-is.
func ItemKey(v domain.Value) string {
	if n, ok := v.Int(); ok {
		return strconv.FormatInt(n, 10)
	}
	if s, ok := v.Text(); ok {
		return strings.TrimSpace(s)
	}
	data, _ := json.Marshal(v)
	return string(data)
}

func bound(raw string) (string, error) {
	ts := domain.SortableTimestamp(raw)
	if ts == "" {
		return "", fmt.Errorf("%w: invalid date %q", domain.ErrInvalidInput, raw)
	}
	return ts, nil
}

// rebind rewrites ? placeholders for PostgreSQL.
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
