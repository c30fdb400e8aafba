package quality

import (
	"context"
	"math"
	"slices"

	"github.com/migrakit/migrakit/internal/domain"
)

// stageTolerance is how far a deal probability may drift from its stage.
const stageTolerance = 25.0

// Consistency sub-checks score agreement between related values.
//
// Details:
//   - name_consistency          total_companies, duplicate_groups, affected_companies
//   - stage_consistency         total_deals, consistent_deals, inconsistent_deals
//   - relationship_consistency  total_deals, consistent_deals, inconsistent_deals
var consistencyChecks = []SubCheck{
	{Name: "name_consistency", Run: nameConsistency},
	{Name: "stage_consistency", Run: stageConsistency},
	{Name: "relationship_consistency", Run: relationshipConsistency},
}

// nameConsistency charges every company beyond the first of a group sharing
// a normalized name.
func nameConsistency(ctx context.Context, src domain.RecordSource) (domain.SubCheckResult, []domain.Violation, error) {
	companies, err := selectRows(ctx, src, domain.From(domain.TableCompanies, "id", "name"))
	if err != nil {
		return domain.SubCheckResult{}, nil, err
	}
	if len(companies) == 0 {
		return neutral(domain.TableCompanies, "No companies found"), nil, nil
	}
	groups := make(map[string]int)
	for _, c := range companies {
		if c.Blank("name") {
			continue
		}
		groups[domain.NormalizeCompanyName(c.Text("name"))]++
	}
	duplicateGroups, affected, extra := 0, 0, 0
	for _, n := range groups {
		if n > 1 {
			duplicateGroups++
			affected += n
			extra += n - 1
		}
	}
	total := len(companies)
	return domain.SubCheckResult{
		Entity: domain.TableCompanies,
		Score:  ratio(total-extra, total),
		Details: map[string]any{
			"total_companies":    total,
			"duplicate_groups":   duplicateGroups,
			"affected_companies": affected,
		},
	}, nil, nil
}

func stageConsistency(ctx context.Context, src domain.RecordSource) (domain.SubCheckResult, []domain.Violation, error) {
	deals, err := selectRows(ctx, src, domain.From(domain.TableDeals, "id", "stage", "probability", "expected_close_date"))
	if err != nil {
		return domain.SubCheckResult{}, nil, err
	}
	if len(deals) == 0 {
		return neutral(domain.TableDeals, "No deals found"), nil, nil
	}
	consistent := 0
	for _, d := range deals {
		if stageConsistent(d) {
			consistent++
		}
	}
	return dealTally(domain.TableDeals, len(deals), consistent), nil, nil
}

// stageConsistent requires a known stage, a probability near the stage's and
// a close date once the deal is closed.
func stageConsistent(d domain.Record) bool {
	stage := d.Text("stage")
	expected, ok := domain.StageProbability[stage]
	if !ok {
		return false
	}
	if d.Present("probability") {
		p, ok := d.Float("probability")
		if !ok || math.Abs(p-expected) > stageTolerance {
			return false
		}
	}
	if domain.IsClosedStage(stage) && !d.Present("expected_close_date") {
		return false
	}
	return true
}

// relationshipConsistency requires every contact of a deal to exist and to
// belong to the deal's company.
func relationshipConsistency(ctx context.Context, src domain.RecordSource) (domain.SubCheckResult, []domain.Violation, error) {
	deals, err := selectRows(ctx, src, domain.From(domain.TableDeals, "id", "company_id", "contact_ids"))
	if err != nil {
		return domain.SubCheckResult{}, nil, err
	}
	deals = slices.DeleteFunc(deals, func(d domain.Record) bool { return !d.NonEmptyList("contact_ids") })
	if len(deals) == 0 {
		return neutral(domain.TableDeals, "No deals with contacts found"), nil, nil
	}
	contacts, err := selectRows(ctx, src, domain.From(domain.TableContacts, "id", "company_id"))
	if err != nil {
		return domain.SubCheckResult{}, nil, err
	}
	companyOf := make(map[string]string, len(contacts))
	for _, c := range contacts {
		companyOf[c.ID("id")] = c.ID("company_id")
	}
	consistent := 0
	for _, d := range deals {
		ok := true
		for _, id := range d.IDs("contact_ids") {
			company, exists := companyOf[id]
			if !exists || company != d.ID("company_id") {
				ok = false
				break
			}
		}
		if ok {
			consistent++
		}
	}
	return dealTally("deals_contacts", len(deals), consistent), nil, nil
}

func dealTally(entity string, total, consistent int) domain.SubCheckResult {
	return domain.SubCheckResult{
		Entity: entity,
		Score:  ratio(consistent, total),
		Details: map[string]any{
			"total_deals":        total,
			"consistent_deals":   consistent,
			"inconsistent_deals": total - consistent,
		},
	}
}
