// Package dataset implements domain.RecordSource over an in-memory dataset
// loaded from a YAML or JSON file. It backs offline evaluations of exported
// data and the test fixtures.
package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/migrakit/migrakit/internal/domain"
)

// Source is a read-only RecordSource over named tables. Tables absent from
// the dataset are reported as domain.ErrRelationNotFound.
type Source struct {
	tables map[string][]domain.Record
}

// New wraps tables as a Source. The records are not copied.
func New(tables map[string][]domain.Record) *Source {
	if tables == nil {
		tables = map[string][]domain.Record{}
	}
	return &Source{tables: tables}
}

// Load reads a dataset file. Files ending in .json are decoded as JSON,
// anything else as YAML. The document maps table names to record lists.
func Load(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}
	var raw map[string][]map[string]any
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &raw)
	} else {
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	tables := make(map[string][]domain.Record, len(raw))
	for name, rows := range raw {
		records := make([]domain.Record, len(rows))
		for i, row := range rows {
			records[i] = domain.Record(row)
		}
		tables[name] = records
	}
	return New(tables), nil
}

// Tables returns the table names held by the source.
func (s *Source) Tables() []string {
	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	return names
}

func (s *Source) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Source) Select(ctx context.Context, q domain.Query) ([]domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, ok := s.tables[q.Table]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrRelationNotFound, q.Table)
	}
	var out []domain.Record
	for _, r := range rows {
		if !matches(r, q) {
			continue
		}
		out = append(out, project(r, q.Columns))
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

func (s *Source) Call(ctx context.Context, procedure string) ([]domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	proc, ok := procedures[procedure]
	if !ok {
		return nil, fmt.Errorf("%w: procedure %s", domain.ErrRelationNotFound, procedure)
	}
	return proc(s), nil
}

// rows returns a table, treating an absent table as empty. Procedures use it
// so a partial dataset still answers.
func (s *Source) rows(table string) []domain.Record {
	return s.tables[table]
}

func project(r domain.Record, columns []string) domain.Record {
	if len(columns) == 0 {
		out := make(domain.Record, len(r))
		for k, v := range r {
			out[k] = v
		}
		return out
	}
	out := make(domain.Record, len(columns))
	for _, c := range columns {
		out[c] = r[c]
	}
	return out
}

func matches(r domain.Record, q domain.Query) bool {
	if len(q.Filters) == 0 {
		return true
	}
	for _, f := range q.Filters {
		ok := matchFilter(r, f)
		if q.AnyOf && ok {
			return true
		}
		if !q.AnyOf && !ok {
			return false
		}
	}
	return !q.AnyOf
}

func matchFilter(r domain.Record, f domain.Filter) bool {
	switch f.Op {
	case domain.OpEq:
		return r.Present(f.Field) && sameValue(r[f.Field], f.Value)
	case domain.OpNeq:
		return r.Present(f.Field) && !sameValue(r[f.Field], f.Value)
	case domain.OpIsNull:
		return !r.Present(f.Field)
	case domain.OpNotNull:
		return r.Present(f.Field)
	case domain.OpBlank:
		return r.Blank(f.Field)
	case domain.OpIn:
		return r.Present(f.Field) && containsValue(f.Values, r[f.Field])
	case domain.OpNotIn:
		return r.Present(f.Field) && !containsValue(f.Values, r[f.Field])
	case domain.OpContains:
		items, ok := r.List(f.Field)
		return ok && containsValue(items, f.Value)
	default:
		return false
	}
}

// sameValue compares values by their identifier rendering so that 7, 7.0
// and "7" agree across YAML, JSON and SQL sources.
func sameValue(a, b any) bool {
	return domain.FormatValue(a) == domain.FormatValue(b)
}

func containsValue(values []any, v any) bool {
	for _, x := range values {
		if sameValue(x, v) {
			return true
		}
	}
	return false
}
