package validation_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/migrakit/migrakit/internal/adapters/outbound/dataset"
	"github.com/migrakit/migrakit/internal/domain"
	"github.com/stretchr/testify/require"
)

const fixtureBase = "../../../testdata/datasets"

func loadFixture(t *testing.T, name string) *dataset.Source {
	t.Helper()
	src, err := dataset.Load(filepath.Join(fixtureBase, name))
	require.NoError(t, err)
	return src
}

// brokenSource fails selects on some tables, calls to some procedures, or
// the ping, and otherwise delegates.
type brokenSource struct {
	domain.RecordSource
	tables     map[string]bool
	anyOf      map[string]bool // fail only OR-filtered selects on these tables
	procedures map[string]bool
	pingErr    error
}

var errBroken = errors.New("connection reset by peer")

func (b *brokenSource) Select(ctx context.Context, q domain.Query) ([]domain.Record, error) {
	if b.tables[q.Table] || (q.AnyOf && b.anyOf[q.Table]) {
		return nil, errBroken
	}
	return b.RecordSource.Select(ctx, q)
}

func (b *brokenSource) Call(ctx context.Context, procedure string) ([]domain.Record, error) {
	if b.procedures[procedure] {
		return nil, errBroken
	}
	return b.RecordSource.Call(ctx, procedure)
}

func (b *brokenSource) Ping(ctx context.Context) error {
	if b.pingErr != nil {
		return b.pingErr
	}
	return b.RecordSource.Ping(ctx)
}

func kinds(vs []domain.Violation) []domain.Kind {
	out := make([]domain.Kind, len(vs))
	for i, v := range vs {
		out[i] = v.Kind
	}
	return out
}

func findKind(vs []domain.Violation, kind domain.Kind, entity string) (domain.Violation, bool) {
	for _, v := range vs {
		if v.Kind == kind && v.Entity == entity {
			return v, true
		}
	}
	return domain.Violation{}, false
}
