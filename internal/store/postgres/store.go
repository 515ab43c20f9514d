// Package postgres provides the Postgres-backed announcement store.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fransm/boe-watcher/internal/gazette"
)

// Config controls the Postgres connection pool.
type Config struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type dbPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// Store implements gazette.Store on a pgx connection pool.
type Store struct {
	pool dbPool
}

// New connects a Store using the provided config and applies pending
// migrations before first use.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("db.dsn is required")
	}
	if err := Migrate(cfg.DSN); err != nil {
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Store{pool: pool}, nil
}

// NewWithPool constructs a Store from an existing pool (primarily for testing).
func NewWithPool(pool dbPool) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	return &Store{pool: pool}, nil
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// InsertAnnouncement inserts one row, skipping silently on the dedup keys:
// the detail URL when present, otherwise the (identifier, publication date)
// composite. Each insert is its own atomic unit; no batch transaction spans a
// run, so concurrent runs race harmlessly at the constraint.
func (s *Store) InsertAnnouncement(
	ctx context.Context,
	ann gazette.Announcement,
) (gazette.Announcement, bool, error) {
	query := `
INSERT INTO announcements (
	boe_id,
	control_code,
	title,
	detail_url,
	document_url,
	issuing_body,
	publication_date,
	region
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8
)
ON CONFLICT DO NOTHING
RETURNING id`

	err := s.pool.QueryRow(ctx, query,
		ann.BOEID,
		nullable(ann.ControlCode),
		nullable(ann.Title),
		nullable(ann.DetailURL),
		nullable(ann.DocumentURL),
		nullable(ann.IssuingBody),
		ann.PublicationDate,
		nullable(ann.Region),
	).Scan(&ann.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		// Conflict on a dedup key: the row is already ingested.
		return ann, false, nil
	}
	if err != nil {
		return gazette.Announcement{}, false, fmt.Errorf("insert announcement: %w", err)
	}
	return ann, true, nil
}

// ListIssuingBodies returns the distinct non-null issuing bodies,
// alphabetically.
func (s *Store) ListIssuingBodies(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
SELECT DISTINCT issuing_body
FROM announcements
WHERE issuing_body IS NOT NULL
ORDER BY issuing_body`)
	if err != nil {
		return nil, fmt.Errorf("list issuing bodies: %w", err)
	}
	defer rows.Close()

	var bodies []string
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan issuing body: %w", err)
		}
		bodies = append(bodies, body)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list issuing bodies: %w", err)
	}
	return bodies, nil
}

// ListAnnouncements returns one filtered page ordered newest first, plus the
// total row count under the same filter.
func (s *Store) ListAnnouncements(
	ctx context.Context,
	f gazette.AnnouncementFilter,
) ([]gazette.Announcement, int, error) {
	where, args := buildFilter(f)

	var total int
	countQuery := "SELECT COUNT(*) FROM announcements" + where
	if err := s.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count announcements: %w", err)
	}

	perPage := f.PerPage
	if perPage <= 0 {
		perPage = 15
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}
	listQuery := fmt.Sprintf(`
SELECT id, boe_id, control_code, title, detail_url, document_url, issuing_body, publication_date, region
FROM announcements%s
ORDER BY publication_date DESC, id DESC
LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, perPage, (page-1)*perPage)

	rows, err := s.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list announcements: %w", err)
	}
	defer rows.Close()

	var anns []gazette.Announcement
	for rows.Next() {
		var (
			ann                                            gazette.Announcement
			control, title, detail, document, body, region *string
		)
		if err := rows.Scan(
			&ann.ID,
			&ann.BOEID,
			&control,
			&title,
			&detail,
			&document,
			&body,
			&ann.PublicationDate,
			&region,
		); err != nil {
			return nil, 0, fmt.Errorf("scan announcement: %w", err)
		}
		ann.ControlCode = deref(control)
		ann.Title = deref(title)
		ann.DetailURL = deref(detail)
		ann.DocumentURL = deref(document)
		ann.IssuingBody = deref(body)
		ann.Region = deref(region)
		anns = append(anns, ann)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list announcements: %w", err)
	}
	return anns, total, nil
}

func buildFilter(f gazette.AnnouncementFilter) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}
	if f.IssuingBody != "" {
		add("issuing_body = $%d", f.IssuingBody)
	}
	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf(
			"(boe_id ILIKE $%d OR title ILIKE $%d OR control_code ILIKE $%d)", n, n, n))
	}
	if f.Region != "" {
		add("region = $%d", f.Region)
	}
	if f.FromDate != "" {
		add("publication_date >= $%d", f.FromDate)
	}
	if f.ToDate != "" {
		add("publication_date <= $%d", f.ToDate)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
