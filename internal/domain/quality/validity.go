package quality

import (
	"context"
	"slices"

	"github.com/migrakit/migrakit/internal/domain"
)

// Validity sub-checks score the share of set enumerated values the target
// schema accepts. Unset values are left to completeness. Details carry total
// and valid.
var validityChecks = []SubCheck{
	{Name: "sector_values", Run: enumValues(domain.TableCompanies, "sector", domain.Sectors)},
	{Name: "stage_values", Run: enumValues(domain.TableDeals, "stage", domain.Stages)},
	{Name: "tag_entity_types", Run: enumValues(domain.TableTags, "entity_type", domain.TagEntityTypes)},
	{Name: "task_types", Run: enumValues(domain.TableTasks, "type", domain.TaskTypes)},
}

func enumValues(table, field string, allowed []string) func(context.Context, domain.RecordSource) (domain.SubCheckResult, []domain.Violation, error) {
	return func(ctx context.Context, src domain.RecordSource) (domain.SubCheckResult, []domain.Violation, error) {
		rows, err := selectRows(ctx, src, domain.From(table, "id", field))
		if err != nil {
			return domain.SubCheckResult{}, nil, err
		}
		var t formatTally
		for _, r := range rows {
			if r.Blank(field) {
				continue
			}
			t.add(r.ID("id"), r.Text(field), slices.Contains(allowed, r.Text(field)))
		}
		return t.result(table+"."+field, "No "+field+" values set"), nil, nil
	}
}
