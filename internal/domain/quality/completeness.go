package quality

import (
	"context"

	"github.com/migrakit/migrakit/internal/domain"
)

// Record completeness bands used in sub-check details.
const (
	completeThreshold   = 80.0
	incompleteThreshold = 60.0
)

// Completeness sub-checks score the weighted share of populated fields per
// record, averaged per entity.
//
// Details of companies, contacts, deals and tasks:
//   - total                 records scored
//   - complete              records scoring at least 80
//   - incomplete            records scoring below 60
//   - average_completeness  mean record score
//
// notes adds contact_notes and deal_notes to total.
var completenessChecks = []SubCheck{
	{Name: "companies", Run: entityCompleteness(CompanyWeights)},
	{Name: "contacts", Run: entityCompleteness(ContactWeights)},
	{Name: "deals", Run: entityCompleteness(DealWeights)},
	{Name: "notes", Run: noteCompleteness},
	{Name: "tasks", Run: entityCompleteness(TaskWeights)},
}

func entityCompleteness(table WeightTable) func(context.Context, domain.RecordSource) (domain.SubCheckResult, []domain.Violation, error) {
	return func(ctx context.Context, src domain.RecordSource) (domain.SubCheckResult, []domain.Violation, error) {
		rows, err := selectRows(ctx, src, domain.From(table.Entity, table.Columns...))
		if err != nil {
			return domain.SubCheckResult{}, nil, err
		}
		if len(rows) == 0 {
			return neutral(table.Entity, "No "+table.Entity+" found"), nil, nil
		}
		result := scoreRecords(table, rows)
		result.Entity = table.Entity
		return result, nil, nil
	}
}

func noteCompleteness(ctx context.Context, src domain.RecordSource) (domain.SubCheckResult, []domain.Violation, error) {
	contactNotes, err := selectRows(ctx, src, domain.From(domain.TableContactNotes, NoteWeights.Columns...))
	if err != nil {
		return domain.SubCheckResult{}, nil, err
	}
	dealNotes, err := selectRows(ctx, src, domain.From(domain.TableDealNotes, NoteWeights.Columns...))
	if err != nil {
		return domain.SubCheckResult{}, nil, err
	}
	notes := append(append([]domain.Record{}, contactNotes...), dealNotes...)
	if len(notes) == 0 {
		return neutral(NoteWeights.Entity, "No notes found"), nil, nil
	}
	result := scoreRecords(NoteWeights, notes)
	result.Entity = NoteWeights.Entity
	result.Details["contact_notes"] = len(contactNotes)
	result.Details["deal_notes"] = len(dealNotes)
	return result, nil, nil
}

func scoreRecords(table WeightTable, rows []domain.Record) domain.SubCheckResult {
	var sum float64
	complete, incomplete := 0, 0
	for _, r := range rows {
		s := table.Score(r)
		sum += s
		switch {
		case s >= completeThreshold:
			complete++
		case s < incompleteThreshold:
			incomplete++
		}
	}
	avg := sum / float64(len(rows))
	return domain.SubCheckResult{
		Score: avg,
		Details: map[string]any{
			"total":                len(rows),
			"complete":             complete,
			"incomplete":           incomplete,
			"average_completeness": domain.RoundScore(avg),
		},
	}
}
