package quality_test

import (
	"testing"

	"github.com/migrakit/migrakit/internal/domain"
	"github.com/migrakit/migrakit/internal/domain/quality"
	"github.com/stretchr/testify/assert"
)

func TestWeightTables_SumToHundred(t *testing.T) {
	for _, table := range []quality.WeightTable{
		quality.CompanyWeights,
		quality.ContactWeights,
		quality.DealWeights,
		quality.NoteWeights,
		quality.TaskWeights,
	} {
		assert.Equal(t, 100, table.Total(), table.Entity)
	}
}

func TestWeightTable_Score(t *testing.T) {
	full := domain.Record{
		"first_name": "Ada", "last_name": "Lovelace", "company_id": 1,
		"email": []any{"ada@acme.com"}, "phone": []any{"+1 555 010 1001"},
		"title": "CTO", "avatar_url": "https://acme.com/ada.png", "created_at": "2024-01-01",
	}
	assert.Equal(t, 100.0, quality.ContactWeights.Score(full))
	assert.Equal(t, 0.0, quality.ContactWeights.Score(domain.Record{}))

	partial := domain.Record{"first_name": "Ada", "last_name": "  ", "email": []any{}}
	assert.Equal(t, 20.0, quality.ContactWeights.Score(partial), "blank text and empty arrays are missing")
}

func TestWeightTable_DealFieldRules(t *testing.T) {
	deal := domain.Record{"name": "Renewal", "expected_revenue": 0, "probability": 0}
	assert.Equal(t, 30.0, quality.DealWeights.Score(deal), "zero revenue is missing, zero probability is present")

	deal["expected_revenue"] = 1500.5
	assert.Equal(t, 45.0, quality.DealWeights.Score(deal))
}

func TestWeightTable_NoteTextNeedsSubstance(t *testing.T) {
	assert.Equal(t, 0.0, quality.NoteWeights.Score(domain.Record{"text": " call me   "}))
	assert.Equal(t, 70.0, quality.NoteWeights.Score(domain.Record{"text": "Call me next week"}))
}

func TestWeightTable_TaskAssignment(t *testing.T) {
	assert.Equal(t, 20.0, quality.TaskWeights.Score(domain.Record{"deal_id": 7}))
	assert.Equal(t, 20.0, quality.TaskWeights.Score(domain.Record{"contact_id": 7}))
	assert.Equal(t, 0.0, quality.TaskWeights.Score(domain.Record{"contact_id": nil, "deal_id": nil}))
}
