// Package postgres implements domain.RecordSource over a PostgreSQL database
// holding the CRM schema under migration.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/migrakit/migrakit/internal/domain"
	"github.com/migrakit/migrakit/internal/log"
)

// SQLSTATE codes mapped to domain.ErrRelationNotFound.
const (
	codeUndefinedTable  = "42P01"
	codeUndefinedColumn = "42703"
)

// Source runs every query on a pool, bounded by a per-query timeout.
type Source struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// Open creates a pool for databaseURL. The pool connects lazily; use Ping to
// verify connectivity.
func Open(ctx context.Context, databaseURL string, timeout time.Duration) (*Source, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database url: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	return &Source{pool: pool, timeout: timeout}, nil
}

func (s *Source) Close() {
	s.pool.Close()
}

func (s *Source) Ping(ctx context.Context) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

func (s *Source) Select(ctx context.Context, q domain.Query) ([]domain.Record, error) {
	sql, args, err := BuildSelect(q)
	if err != nil {
		return nil, err
	}
	rows, err := s.query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", q.Table, err)
	}
	return rows, nil
}

func (s *Source) Call(ctx context.Context, procedure string) ([]domain.Record, error) {
	sql, ok := procedureSQL[procedure]
	if !ok {
		return nil, fmt.Errorf("%w: procedure %s", domain.ErrRelationNotFound, procedure)
	}
	rows, err := s.query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", procedure, err)
	}
	return rows, nil
}

func (s *Source) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Source) query(ctx context.Context, sql string, args ...any) ([]domain.Record, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	log.Debug("postgres: query", "sql", sql, "args", len(args))
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, relationError(err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	var out []domain.Record
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		r := make(domain.Record, len(fields))
		for i, f := range fields {
			r[f.Name] = Normalize(values[i])
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, relationError(err)
	}
	return out, nil
}

func relationError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == codeUndefinedTable || pgErr.Code == codeUndefinedColumn) {
		return fmt.Errorf("%w: %s", domain.ErrRelationNotFound, pgErr.Message)
	}
	return err
}

// Normalize converts a pgx value into the types domain.Record documents.
func Normalize(v any) any {
	switch x := v.(type) {
	case nil, string, bool, int64, float64, time.Time:
		return x
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case int:
		return int64(x)
	case float32:
		return float64(x)
	case pgtype.Numeric:
		if !x.Valid {
			return nil
		}
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case [16]byte:
		return uuid.UUID(x).String()
	case uuid.UUID:
		return x.String()
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = Normalize(e)
		}
		return out
	case []byte:
		return string(x)
	default:
		return fmt.Sprint(x)
	}
}

var _ domain.RecordSource = (*Source)(nil)

// identifier quotes a possibly schema-qualified name such as auth.users.
func identifier(name string) string {
	return pgx.Identifier(splitQualified(name)).Sanitize()
}
