package validation_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/migrakit/migrakit/internal/adapters/outbound/dataset"
	"github.com/migrakit/migrakit/internal/domain"
	"github.com/migrakit/migrakit/internal/domain/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniqueDataset() map[string][]domain.Record {
	contacts := []domain.Record{
		{"id": 10, "first_name": "Ada", "last_name": "L", "company_id": 1,
			"email": []any{"ada@acme.com", "team@acme.com"}, "phone": []any{"+1 (555) 010-1001"}},
		{"id": 11, "first_name": "Alan", "last_name": "T", "company_id": 1,
			"email": []any{"Ada@Acme.com"}, "phone": []any{"+1 555.010.1001", "123"}},
		{"id": 12, "first_name": "Bob", "last_name": "K", "company_id": 2,
			"email": []any{"ada@acme.com"}, "phone": []any{"123"}},
		{"id": 13, "first_name": "Cy", "last_name": "Q", "company_id": 2,
			"email": []any{}, "phone": []any{"123"}},
	}
	// company 3 is crowded
	for i := 0; i < 11; i++ {
		contacts = append(contacts, domain.Record{
			"id": 500 + i, "first_name": "Staff", "last_name": fmt.Sprint(i), "company_id": 3,
			"email": []any{fmt.Sprintf("staff%d@initech.com", i)},
		})
	}
	return map[string][]domain.Record{
		domain.TableCompanies: {
			{"id": 1, "name": "Acme, Inc."},
			{"id": 2, "name": "ACME Inc"},
			{"id": 3, "name": "Initech LLC"},
			{"id": 4, "name": "Initech"},
			{"id": 5, "name": "Globex"},
		},
		domain.TableContacts: contacts,
		domain.TableDeals: {
			{"id": 100, "name": "Renewal", "company_id": 1},
			{"id": 101, "name": "renewal", "company_id": 1},
			{"id": 102, "name": "Renewal", "company_id": 2},
		},
		domain.TableTags: {
			{"id": 1, "name": "VIP"},
			{"id": 2, "name": "vip"},
			{"id": 3, "name": "cold"},
		},
		domain.TableUsers: {
			{"id": "u1", "email": "sam@example.com"},
			{"id": "u2", "email": "SAM@example.com"},
			{"id": "u3", "email": nil},
		},
	}
}

func TestUniqueConstraints_GroupsByTargetScope(t *testing.T) {
	report, err := validation.NewUniqueConstraints(dataset.New(uniqueDataset())).ValidateAll(context.Background())
	require.NoError(t, err)

	names, ok := findKind(report.Violations, domain.KindDuplicateCompanyName, domain.TableCompanies)
	require.True(t, ok)
	assert.Equal(t, domain.SeverityHigh, names.Severity)
	assert.Equal(t, 2, names.Count, "Acme and Initech groups")
	assert.Equal(t, `"Acme, Inc." appears 2 times (IDs: 1, 2)`, names.Samples[0])
	assert.True(t, names.Fixable)

	primary, ok := findKind(report.Violations, domain.KindDuplicateContactEmail, domain.TableContacts)
	require.True(t, ok)
	assert.Equal(t, domain.SeverityMedium, primary.Severity)
	assert.Equal(t, 1, primary.Count, "only company 1 shares a primary email")

	arrays, ok := findKind(report.Violations, domain.KindDuplicateArrayEmail, "contacts.email")
	require.True(t, ok)
	assert.Equal(t, 1, arrays.Count)
	assert.Equal(t, []string{`Email "ada@acme.com" in company 1 (2 contacts)`}, arrays.Samples)

	deals, ok := findKind(report.Violations, domain.KindDuplicateOpportunityName, "opportunities")
	require.True(t, ok)
	assert.Equal(t, 1, deals.Count, "same name in another company is allowed")

	tags, ok := findKind(report.Violations, domain.KindDuplicateTagName, domain.TableTags)
	require.True(t, ok)
	assert.Equal(t, domain.SeverityLow, tags.Severity)

	users, ok := findKind(report.Violations, domain.KindDuplicateUserEmail, domain.TableUsers)
	require.True(t, ok)
	assert.Equal(t, domain.SeverityCritical, users.Severity)
	assert.False(t, users.Fixable)
	assert.Equal(t, []string{`"sam@example.com" appears 2 times`}, users.Samples)

	phones, ok := findKind(report.Warnings, domain.KindDuplicatePhone, "contacts.phone")
	require.True(t, ok)
	assert.Equal(t, domain.SeverityLow, phones.Severity)
	assert.Equal(t, 1, phones.Count, "short numbers are ignored")
	assert.Equal(t, []string{`Phone "+15550101001" in company 1 (2 contacts)`}, phones.Samples)

	crowded, ok := findKind(report.Warnings, domain.KindMultipleContacts, "contact_organizations")
	require.True(t, ok)
	assert.Equal(t, []string{"Company 3 has 11 contacts"}, crowded.Samples)
	assert.False(t, crowded.Fixable)

	assert.Equal(t, domain.StatusFailed, report.Status)
	assert.Equal(t, 5, report.Summary.FixableCount)
}

func TestUniqueConstraints_UnreadableUsersSkipsCheck(t *testing.T) {
	tables := uniqueDataset()
	delete(tables, domain.TableUsers)

	report, err := validation.NewUniqueConstraints(dataset.New(tables)).ValidateAll(context.Background())
	require.NoError(t, err)

	skipped, ok := findKind(report.Warnings, domain.KindSkippedCheck, domain.TableUsers)
	require.True(t, ok)
	assert.Equal(t, domain.SeverityLow, skipped.Severity)
	assert.Equal(t, 0, skipped.Count)
	assert.Contains(t, skipped.Message, "insufficient permissions")

	_, ok = findKind(report.Violations, domain.KindSystemError, "validateUserEmailUniqueness")
	assert.False(t, ok)
}

func TestUniqueConstraints_Recommendations(t *testing.T) {
	report, err := validation.NewUniqueConstraints(dataset.New(uniqueDataset())).ValidateAll(context.Background())
	require.NoError(t, err)

	var actions []string
	for _, r := range report.Recommendations {
		actions = append(actions, string(r.Priority)+" "+string(r.Type))
	}
	assert.Equal(t, []string{"HIGH FIX", "MEDIUM FIX", "MEDIUM FIX", "CRITICAL BLOCK"}, actions)
}

func TestUniqueConstraints_RecommendationsDependOnKindsNotCounts(t *testing.T) {
	tables := uniqueDataset()
	tables[domain.TableCompanies] = append(tables[domain.TableCompanies],
		domain.Record{"id": 6, "name": "Globex Corp"},
		domain.Record{"id": 7, "name": "Hooli"},
		domain.Record{"id": 8, "name": "Hooli Ltd."},
	)

	more, err := validation.NewUniqueConstraints(dataset.New(tables)).ValidateAll(context.Background())
	require.NoError(t, err)
	fewer, err := validation.NewUniqueConstraints(dataset.New(uniqueDataset())).ValidateAll(context.Background())
	require.NoError(t, err)

	names, _ := findKind(more.Violations, domain.KindDuplicateCompanyName, domain.TableCompanies)
	assert.Equal(t, 4, names.Count)
	assert.Equal(t, fewer.Recommendations, more.Recommendations)
}
