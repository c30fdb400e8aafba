package postgres

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/migrakit/migrakit/internal/domain"
)

// BuildSelect renders a Query as a parameterized SELECT. Rows are ordered by
// id when no projection excludes it, so samples are stable across runs.
func BuildSelect(q domain.Query) (string, []any, error) {
	if q.Table == "" {
		return "", nil, fmt.Errorf("query without table")
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	if len(q.Columns) == 0 {
		b.WriteString("*")
	} else {
		cols := make([]string, len(q.Columns))
		for i, c := range q.Columns {
			cols[i] = identifier(c)
		}
		b.WriteString(strings.Join(cols, ", "))
	}
	b.WriteString(" FROM ")
	b.WriteString(identifier(q.Table))

	var args []any
	if len(q.Filters) > 0 {
		conds := make([]string, len(q.Filters))
		for i, f := range q.Filters {
			cond, err := condition(f, &args)
			if err != nil {
				return "", nil, err
			}
			conds[i] = cond
		}
		sep := " AND "
		if q.AnyOf {
			sep = " OR "
		}
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conds, sep))
	}

	if len(q.Columns) == 0 || slices.Contains(q.Columns, "id") {
		b.WriteString(" ORDER BY " + identifier("id"))
	}
	if q.Limit > 0 {
		b.WriteString(" LIMIT " + strconv.Itoa(q.Limit))
	}
	return b.String(), args, nil
}

func condition(f domain.Filter, args *[]any) (string, error) {
	col := identifier(f.Field)
	bind := func(v any) string {
		*args = append(*args, v)
		return "$" + strconv.Itoa(len(*args))
	}
	list := func(values []any) string {
		ph := make([]string, len(values))
		for i, v := range values {
			ph[i] = bind(v)
		}
		return strings.Join(ph, ", ")
	}

	switch f.Op {
	case domain.OpEq:
		return col + " = " + bind(f.Value), nil
	case domain.OpNeq:
		return col + " <> " + bind(f.Value), nil
	case domain.OpIsNull:
		return col + " IS NULL", nil
	case domain.OpNotNull:
		return col + " IS NOT NULL", nil
	case domain.OpBlank:
		return "(" + col + " IS NULL OR btrim(" + col + "::text) = '')", nil
	case domain.OpIn:
		if len(f.Values) == 0 {
			return "FALSE", nil
		}
		return col + " IN (" + list(f.Values) + ")", nil
	case domain.OpNotIn:
		if len(f.Values) == 0 {
			return col + " IS NOT NULL", nil
		}
		return "(" + col + " IS NOT NULL AND " + col + " NOT IN (" + list(f.Values) + "))", nil
	case domain.OpContains:
		return bind(f.Value) + " = ANY(" + col + ")", nil
	default:
		return "", fmt.Errorf("unsupported filter %q on %s", f.Op, f.Field)
	}
}

func splitQualified(name string) []string {
	return strings.Split(name, ".")
}
