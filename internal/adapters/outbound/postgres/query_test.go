package postgres_test

import (
	"context"
	"math/big"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/migrakit/migrakit/internal/adapters/outbound/postgres"
	"github.com/migrakit/migrakit/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSelect(t *testing.T) {
	tests := []struct {
		name     string
		query    domain.Query
		wantSQL  string
		wantArgs []any
	}{
		{
			name:    "projection orders by id",
			query:   domain.From(domain.TableCompanies, "id", "name"),
			wantSQL: `SELECT "id", "name" FROM "companies" ORDER BY "id"`,
		},
		{
			name:    "camel case table without id",
			query:   domain.From(domain.TableContactNotes, "contact_id"),
			wantSQL: `SELECT "contact_id" FROM "contactNotes"`,
		},
		{
			name:    "schema qualified with limit",
			query:   domain.Query{Table: domain.TableUsers, Limit: 1},
			wantSQL: `SELECT * FROM "auth"."users" ORDER BY "id" LIMIT 1`,
		},
		{
			name:     "and filters",
			query:    domain.From(domain.TableDeals, "id").Where(domain.NotNull("company_id"), domain.Eq("stage", "lead"), domain.Neq("name", "x")),
			wantSQL:  `SELECT "id" FROM "deals" WHERE "company_id" IS NOT NULL AND "stage" = $1 AND "name" <> $2 ORDER BY "id"`,
			wantArgs: []any{"lead", "x"},
		},
		{
			name:    "or filters",
			query:   domain.From(domain.TableContacts, "id").WhereAny(domain.Blank("first_name"), domain.IsNull("last_name")),
			wantSQL: `SELECT "id" FROM "contacts" WHERE ("first_name" IS NULL OR btrim("first_name"::text) = '') OR "last_name" IS NULL ORDER BY "id"`,
		},
		{
			name:     "in and not in",
			query:    domain.From(domain.TableCompanies, "id").Where(domain.In("sector", "Retail", "Other"), domain.NotIn("id", 1)),
			wantSQL:  `SELECT "id" FROM "companies" WHERE "sector" IN ($1, $2) AND ("id" IS NOT NULL AND "id" NOT IN ($3)) ORDER BY "id"`,
			wantArgs: []any{"Retail", "Other", 1},
		},
		{
			name:    "empty in lists",
			query:   domain.From(domain.TableCompanies, "id").WhereAny(domain.In("sector"), domain.NotIn("sector")),
			wantSQL: `SELECT "id" FROM "companies" WHERE FALSE OR "sector" IS NOT NULL ORDER BY "id"`,
		},
		{
			name:     "array contains",
			query:    domain.From(domain.TableDeals, "id").Where(domain.Contains("contact_ids", 10)),
			wantSQL:  `SELECT "id" FROM "deals" WHERE $1 = ANY("contact_ids") ORDER BY "id"`,
			wantArgs: []any{10},
		},
		{
			name:    "quotes hostile identifiers",
			query:   domain.From(`companies"; drop table x; --`, `na"me`),
			wantSQL: `SELECT "na""me" FROM "companies""; drop table x; --"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := postgres.BuildSelect(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestBuildSelect_Errors(t *testing.T) {
	_, _, err := postgres.BuildSelect(domain.Query{})
	assert.Error(t, err)

	_, _, err = postgres.BuildSelect(domain.From(domain.TableDeals).Where(domain.Filter{Field: "stage", Op: "like"}))
	assert.ErrorContains(t, err, "unsupported filter")
}

func TestNormalize(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	id := [16]byte{0x5b, 0x0e, 0x3a, 0x8c, 0x7d, 0x1f, 0x4c, 0x55, 0x9d, 0x1e, 0x0f, 0x6f, 0x3b, 0x1c, 0x2a, 0x44}

	assert.Nil(t, postgres.Normalize(nil))
	assert.Equal(t, int64(7), postgres.Normalize(int32(7)))
	assert.Equal(t, int64(7), postgres.Normalize(int16(7)))
	assert.Equal(t, float64(1.5), postgres.Normalize(float32(1.5)))
	assert.Equal(t, ts, postgres.Normalize(ts))
	assert.Equal(t, "5b0e3a8c-7d1f-4c55-9d1e-0f6f3b1c2a44", postgres.Normalize(id))
	assert.Equal(t, 1234.5, postgres.Normalize(pgtype.Numeric{Int: big.NewInt(12345), Exp: -1, Valid: true}))
	assert.Nil(t, postgres.Normalize(pgtype.Numeric{}))
	assert.Equal(t, []any{int64(1), "a", nil}, postgres.Normalize([]any{int32(1), "a", nil}))
}

func TestSource_CallUnknownProcedure(t *testing.T) {
	var s postgres.Source
	_, err := s.Call(context.Background(), "drop_everything")
	assert.ErrorIs(t, err, domain.ErrRelationNotFound)
}

func TestOpen_InvalidURL(t *testing.T) {
	_, err := postgres.Open(context.Background(), "postgres://%zz", time.Second)
	assert.ErrorContains(t, err, "parsing database url")
}

// TestSource_Live runs against MIGRAKIT_TEST_DATABASE_URL when set.
func TestSource_Live(t *testing.T) {
	url := os.Getenv("MIGRAKIT_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("MIGRAKIT_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	s, err := postgres.Open(ctx, url, 10*time.Second)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Ping(ctx))

	_, err = s.Select(ctx, domain.From("migrakit_no_such_table", "id"))
	assert.ErrorIs(t, err, domain.ErrRelationNotFound)

	for _, proc := range domain.Procedures {
		_, err := s.Call(ctx, proc)
		assert.NoError(t, err, proc)
	}
}
