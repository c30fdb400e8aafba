package validation_test

import (
	"context"
	"testing"

	"github.com/migrakit/migrakit/internal/adapters/outbound/dataset"
	"github.com/migrakit/migrakit/internal/domain"
	"github.com/migrakit/migrakit/internal/domain/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requiredDataset() map[string][]domain.Record {
	return map[string][]domain.Record{
		domain.TableCompanies: {
			{"id": 1, "name": "Acme", "sector": "Technology", "created_at": "2024-01-01"},
			{"id": 2, "name": "  ", "sector": "Aerospace", "created_at": "2024-01-01"},
			{"id": 3, "name": nil, "sector": nil, "created_at": nil},
		},
		domain.TableContacts: {
			{"id": 10, "first_name": "Ada", "last_name": "Lovelace", "company_id": 1,
				"email": []any{"ada@acme.com"}, "phone": []any{}},
			{"id": 11, "first_name": "", "last_name": "Turing", "company_id": nil,
				"email": nil, "phone": nil},
		},
		domain.TableDeals: {
			{"id": 100, "name": "Renewal", "company_id": 1, "stage": "proposal",
				"expected_revenue": 1000, "contact_ids": []any{10}},
			{"id": 101, "name": "", "company_id": nil, "stage": "won",
				"expected_revenue": 0, "contact_ids": nil},
			{"id": 102, "name": "Upsell", "company_id": 1, "stage": nil,
				"expected_revenue": nil, "contact_ids": []any{99}},
		},
		domain.TableContactNotes: {
			{"id": 1000, "contact_id": 10, "text": ""},
		},
		domain.TableDealNotes: {
			{"id": 2000, "deal_id": 100, "text": "Call went well"},
		},
		domain.TableTasks: {
			{"id": 3000, "type": nil, "contact_id": 10, "deal_id": nil},
			{"id": 3001, "type": "Call", "contact_id": nil, "deal_id": nil},
		},
		domain.TableTags: {
			{"id": 4000, "name": "", "entity_type": "deal", "entity_id": 100},
		},
	}
}

func TestRequiredFields_SeverityPolicy(t *testing.T) {
	report, err := validation.NewRequiredFields(dataset.New(requiredDataset())).ValidateAll(context.Background())
	require.NoError(t, err)

	type key struct {
		kind   domain.Kind
		entity string
		field  string
	}
	got := make(map[key]domain.Violation)
	for _, v := range report.Violations {
		got[key{v.Kind, v.Entity, v.Field}] = v
	}

	companyName := got[key{domain.KindMissingRequiredField, domain.TableCompanies, "name"}]
	assert.Equal(t, domain.SeverityCritical, companyName.Severity)
	assert.Equal(t, 2, companyName.Count)
	assert.Equal(t, []string{`Company ID: 2 has name: "  "`, "Company ID: 3 has NULL name"}, companyName.Samples)

	assert.Equal(t, domain.SeverityHigh, got[key{domain.KindMissingRequiredField, domain.TableContacts, "name"}].Severity)
	assert.Equal(t, domain.SeverityHigh, got[key{domain.KindMissingCompanyAssignment, domain.TableContacts, "company_id"}].Severity)
	assert.Equal(t, domain.SeverityCritical, got[key{domain.KindMissingRequiredField, domain.TableDeals, "name"}].Severity)
	assert.Equal(t, domain.SeverityCritical, got[key{domain.KindMissingCompanyAssignment, domain.TableDeals, "company_id"}].Severity)
	assert.Equal(t, domain.SeverityMedium, got[key{domain.KindMissingRequiredField, domain.TableContactNotes, "text"}].Severity)
	assert.Equal(t, domain.SeverityMedium, got[key{domain.KindMissingRequiredField, domain.TableTasks, "type"}].Severity)
	assert.Equal(t, domain.SeverityLow, got[key{domain.KindMissingRequiredField, domain.TableTags, "name"}].Severity)
	assert.Len(t, report.Violations, 8)

	_, ok := findKind(report.Violations, domain.KindMissingRequiredField, domain.TableDealNotes)
	assert.False(t, ok)

	assert.Equal(t, domain.StatusFailed, report.Status)
	assert.Equal(t, 8, report.Summary.FixableCount)
}

func TestRequiredFields_DefaultableValuesAreWarnings(t *testing.T) {
	report, err := validation.NewRequiredFields(dataset.New(requiredDataset())).ValidateAll(context.Background())
	require.NoError(t, err)

	sector, ok := findKind(report.Warnings, domain.KindInvalidSector, domain.TableCompanies)
	require.True(t, ok)
	assert.Equal(t, domain.SeverityMedium, sector.Severity)
	assert.Equal(t, 2, sector.Count, "invalid and null sectors")
	assert.Equal(t, `Company "" (ID: 3) has sector: NULL`, sector.Samples[1])

	stage, ok := findKind(report.Warnings, domain.KindInvalidStage, domain.TableDeals)
	require.True(t, ok)
	assert.Equal(t, 1, stage.Count, "a null stage is not an invalid stage")

	revenue, ok := findKind(report.Warnings, domain.KindMissingRevenue, domain.TableDeals)
	require.True(t, ok)
	assert.Equal(t, domain.SeverityLow, revenue.Severity)
	assert.Equal(t, 2, revenue.Count)
	assert.False(t, revenue.Fixable)

	timestamp, ok := findKind(report.Warnings, domain.KindMissingTimestamp, domain.TableCompanies)
	require.True(t, ok)
	assert.Equal(t, 1, timestamp.Count)

	info, ok := findKind(report.Warnings, domain.KindMissingContactInfo, domain.TableContacts)
	require.True(t, ok)
	assert.Equal(t, 1, info.Count)

	unassigned, ok := findKind(report.Warnings, domain.KindUnassignedTask, domain.TableTasks)
	require.True(t, ok)
	assert.Equal(t, []string{`Task "Call" (ID: 3001)`}, unassigned.Samples)
}

func TestRequiredFields_MigrationSpecificWarnings(t *testing.T) {
	tables := requiredDataset()
	tables[domain.TableContacts] = append(tables[domain.TableContacts],
		domain.Record{"id": 99, "first_name": "Eve", "last_name": "Other", "company_id": 2,
			"email": []any{"eve@example.com"}})

	report, err := validation.NewRequiredFields(dataset.New(tables)).ValidateAll(context.Background())
	require.NoError(t, err)

	childless, ok := findKind(report.Warnings, domain.KindCompanyWithoutContacts, domain.TableCompanies)
	require.True(t, ok)
	assert.Equal(t, domain.SeverityMedium, childless.Severity)
	assert.Equal(t, 1, childless.Count, "only company 3 has no contacts")

	lonely, ok := findKind(report.Warnings, domain.KindDealWithoutContacts, domain.TableDeals)
	require.True(t, ok)
	assert.Equal(t, 1, lonely.Count)

	mismatch, ok := findKind(report.Warnings, domain.KindCompanyMismatch, "deals_contacts")
	require.True(t, ok)
	assert.Equal(t, domain.SeverityHigh, mismatch.Severity)
	assert.False(t, mismatch.Fixable)
	assert.Equal(t, []string{`Deal "Upsell" (Company: 1) has contact from Company: 2`}, mismatch.Samples)

	for _, v := range report.Violations {
		assert.NotEqual(t, domain.KindCompanyMismatch, v.Kind, "cross-entity findings never block")
	}
}

func TestRequiredFields_Recommendations(t *testing.T) {
	report, err := validation.NewRequiredFields(dataset.New(requiredDataset())).ValidateAll(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Recommendations, 4)
	assert.Equal(t, domain.ActionBlock, report.Recommendations[0].Type)
	assert.Equal(t, domain.PriorityCritical, report.Recommendations[0].Priority)
	assert.True(t, report.Recommendations[0].Automated)
	assert.Contains(t, report.Recommendations[1].Fix, "first_name = 'Unknown'")
	assert.False(t, report.Recommendations[2].Automated, "company assignment needs manual review")
	assert.Equal(t, domain.PriorityMedium, report.Recommendations[3].Priority)
	assert.Contains(t, report.Recommendations[3].Fix, "sector = 'Other'")
}

func TestRequiredFields_PartialFindingsOfFailedCheckDiscarded(t *testing.T) {
	// The company check records missing names, then its sector select fails.
	src := &brokenSource{
		RecordSource: dataset.New(requiredDataset()),
		anyOf:        map[string]bool{domain.TableCompanies: true},
	}

	report, err := validation.NewRequiredFields(src).ValidateAll(context.Background())
	require.NoError(t, err)

	_, ok := findKind(report.Violations, domain.KindMissingRequiredField, domain.TableCompanies)
	assert.False(t, ok)
	_, ok = findKind(report.Warnings, domain.KindMissingTimestamp, domain.TableCompanies)
	assert.False(t, ok)

	sysErr, ok := findKind(report.Violations, domain.KindSystemError, "validateCompanyRequiredFields")
	require.True(t, ok)
	assert.Equal(t, 1, sysErr.Count)

	_, ok = findKind(report.Violations, domain.KindMissingRequiredField, domain.TableDeals)
	assert.True(t, ok, "sibling checks still report")
}
