package validation

import (
	"context"
	"fmt"

	"github.com/migrakit/migrakit/internal/domain"
)

// NewReferentialIntegrity finds records whose references point at nothing.
// A null optional reference is a warning; a dangling one is a violation.
func NewReferentialIntegrity(src domain.RecordSource) *Validator {
	return &Validator{
		name:   domain.ValidatorReferentialIntegrity,
		source: src,
		checks: []Check{
			{Name: "validateContactCompanyReferences", Run: validateContactCompanyReferences},
			{Name: "validateDealCompanyReferences", Run: validateDealCompanyReferences},
			{Name: "validateDealContactReferences", Run: validateDealContactReferences},
			{Name: "validateContactNoteReferences", Run: validateContactNoteReferences},
			{Name: "validateDealNoteReferences", Run: validateDealNoteReferences},
			{Name: "validateTaskReferences", Run: validateTaskReferences},
			{Name: "validateTagReferences", Run: validateTagReferences},
		},
		recommend: referentialRecommendations,
	}
}

func validateContactCompanyReferences(ctx context.Context, src domain.RecordSource, f *Findings) error {
	companies, err := idSet(ctx, src, domain.TableCompanies)
	if err != nil {
		return err
	}
	assigned, err := selectRows(ctx, src, domain.From(domain.TableContacts, "id", "first_name", "last_name", "company_id").
		Where(domain.NotNull("company_id")))
	if err != nil {
		return err
	}
	var orphans []domain.Record
	for _, c := range assigned {
		if !companies[c.ID("company_id")] {
			orphans = append(orphans, c)
		}
	}
	if len(orphans) > 0 {
		f.Violation(domain.NewViolation(domain.KindOrphanedRecord, domain.TableContacts, domain.SeverityHigh,
			"Contacts reference non-existent companies", len(orphans),
			domain.SampleOf(orphans, func(c domain.Record) string {
				return fmt.Sprintf("Contact %s (ID: %s) → Company ID: %s", fullName(c), c.ID("id"), c.ID("company_id"))
			})))
	}

	unassigned, err := selectRows(ctx, src, domain.From(domain.TableContacts, "id", "first_name", "last_name").
		Where(domain.IsNull("company_id")))
	if err != nil {
		return err
	}
	if len(unassigned) > 0 {
		f.Warning(domain.NewViolation(domain.KindMissingAssignment, domain.TableContacts, domain.SeverityMedium,
			"Contacts without company assignment (will need manual assignment post-migration)", len(unassigned),
			domain.SampleOf(unassigned, func(c domain.Record) string {
				return fmt.Sprintf("Contact %s (ID: %s)", fullName(c), c.ID("id"))
			})))
	}
	return nil
}

func validateDealCompanyReferences(ctx context.Context, src domain.RecordSource, f *Findings) error {
	orphans, err := callProc(ctx, src, domain.ProcOrphanedDeals)
	if err != nil {
		return err
	}
	if len(orphans) > 0 {
		f.Violation(domain.NewViolation(domain.KindOrphanedRecord, domain.TableDeals, domain.SeverityCritical,
			"Deals reference non-existent companies", len(orphans),
			domain.SampleOf(orphans, func(d domain.Record) string {
				return fmt.Sprintf("Deal %q (ID: %s) → Company ID: %s", d.Text("name"), d.ID("id"), d.ID("company_id"))
			})))
	}
	return nil
}

type danglingRef struct {
	owner, ownerName, kind, target string
}

func validateDealContactReferences(ctx context.Context, src domain.RecordSource, f *Findings) error {
	contacts, err := idSet(ctx, src, domain.TableContacts)
	if err != nil {
		return err
	}
	deals, err := selectRows(ctx, src, domain.From(domain.TableDeals, "id", "name", "contact_ids"))
	if err != nil {
		return err
	}
	var invalid []danglingRef
	for _, d := range deals {
		for _, id := range d.IDs("contact_ids") {
			if !contacts[id] {
				invalid = append(invalid, danglingRef{owner: d.ID("id"), ownerName: d.Text("name"), target: id})
			}
		}
	}
	if len(invalid) > 0 {
		f.Violation(domain.NewViolation(domain.KindInvalidArrayReference, "deals.contact_ids", domain.SeverityHigh,
			"Deals reference non-existent contacts in contact_ids array", len(invalid),
			domain.SampleOf(invalid, func(r danglingRef) string {
				return fmt.Sprintf("Deal %q (ID: %s) → Contact ID: %s", r.ownerName, r.owner, r.target)
			})))
	}
	return nil
}

func validateContactNoteReferences(ctx context.Context, src domain.RecordSource, f *Findings) error {
	orphans, err := callProc(ctx, src, domain.ProcOrphanedContactNotes)
	if err != nil {
		return err
	}
	if len(orphans) > 0 {
		f.Violation(domain.NewViolation(domain.KindOrphanedRecord, domain.TableContactNotes, domain.SeverityMedium,
			"Contact notes reference non-existent contacts", len(orphans),
			domain.SampleOf(orphans, func(n domain.Record) string {
				return fmt.Sprintf("Note (ID: %s) → Contact ID: %s", n.ID("id"), n.ID("contact_id"))
			})))
	}
	return nil
}

func validateDealNoteReferences(ctx context.Context, src domain.RecordSource, f *Findings) error {
	orphans, err := callProc(ctx, src, domain.ProcOrphanedDealNotes)
	if err != nil {
		return err
	}
	if len(orphans) > 0 {
		f.Violation(domain.NewViolation(domain.KindOrphanedRecord, domain.TableDealNotes, domain.SeverityMedium,
			"Deal notes reference non-existent deals", len(orphans),
			domain.SampleOf(orphans, func(n domain.Record) string {
				return fmt.Sprintf("Note (ID: %s) → Deal ID: %s", n.ID("id"), n.ID("deal_id"))
			})))
	}
	return nil
}

func validateTaskReferences(ctx context.Context, src domain.RecordSource, f *Findings) error {
	contacts, err := idSet(ctx, src, domain.TableContacts)
	if err != nil {
		return err
	}
	deals, err := idSet(ctx, src, domain.TableDeals)
	if err != nil {
		return err
	}
	tasks, err := selectRows(ctx, src, domain.From(domain.TableTasks, "id", "type", "contact_id", "deal_id"))
	if err != nil {
		return err
	}
	var invalid []danglingRef
	for _, t := range tasks {
		if id := t.ID("contact_id"); id != "" && !contacts[id] {
			invalid = append(invalid, danglingRef{owner: t.ID("id"), kind: "contact", target: id})
		}
		if id := t.ID("deal_id"); id != "" && !deals[id] {
			invalid = append(invalid, danglingRef{owner: t.ID("id"), kind: "deal", target: id})
		}
	}
	if len(invalid) > 0 {
		f.Violation(domain.NewViolation(domain.KindOrphanedRecord, domain.TableTasks, domain.SeverityMedium,
			"Tasks reference non-existent contacts or deals", len(invalid),
			domain.SampleOf(invalid, func(r danglingRef) string {
				return fmt.Sprintf("Task (ID: %s) → %s ID: %s", r.owner, r.kind, r.target)
			})))
	}
	return nil
}

// tagTargets maps a polymorphic tag entity_type to its table.
var tagTargets = map[string]string{
	"contact": domain.TableContacts,
	"deal":    domain.TableDeals,
	"company": domain.TableCompanies,
}

func validateTagReferences(ctx context.Context, src domain.RecordSource, f *Findings) error {
	tags, err := selectRows(ctx, src, domain.From(domain.TableTags, "id", "name", "entity_type", "entity_id"))
	if err != nil {
		return err
	}
	targets := make(map[string]map[string]bool)
	var invalid []danglingRef
	for _, t := range tags {
		entityType, entityID := t.Text("entity_type"), t.ID("entity_id")
		if entityType == "" || entityID == "" {
			continue
		}
		exists := false
		if table, ok := tagTargets[entityType]; ok {
			if targets[table] == nil {
				if targets[table], err = idSet(ctx, src, table); err != nil {
					return err
				}
			}
			exists = targets[table][entityID]
		}
		if !exists {
			invalid = append(invalid, danglingRef{owner: t.ID("id"), ownerName: t.Text("name"), kind: entityType, target: entityID})
		}
	}
	if len(invalid) > 0 {
		f.Violation(domain.NewViolation(domain.KindOrphanedRecord, domain.TableTags, domain.SeverityLow,
			"Tags reference non-existent entities", len(invalid),
			domain.SampleOf(invalid, func(r danglingRef) string {
				return fmt.Sprintf("Tag %q (ID: %s) → %s ID: %s", r.ownerName, r.owner, r.kind, r.target)
			})))
	}
	return nil
}

func referentialRecommendations(violations, _ []domain.Violation) []domain.RemediationAction {
	var recs []domain.RemediationAction
	if hasViolation(violations, func(v domain.Violation) bool {
		return v.Entity == domain.TableContacts && v.Kind == domain.KindOrphanedRecord
	}) {
		recs = append(recs, domain.NewAction(domain.ActionFix, domain.PriorityHigh, "data",
			"Remove or reassign contacts with invalid company references before migration",
			"UPDATE contacts SET company_id = NULL WHERE company_id NOT IN (SELECT id FROM companies);"))
	}
	if hasViolation(violations, func(v domain.Violation) bool {
		return v.Entity == domain.TableDeals && v.Kind == domain.KindOrphanedRecord
	}) {
		recs = append(recs, domain.NewAction(domain.ActionBlock, domain.PriorityCritical, "data",
			"Migration cannot proceed with orphaned deals. Fix company references first.", ""))
	}
	if hasViolation(violations, func(v domain.Violation) bool { return v.Entity == "deals.contact_ids" }) {
		recs = append(recs, domain.NewAction(domain.ActionFix, domain.PriorityHigh, "data",
			"Clean invalid contact references from deals.contact_ids arrays", ""))
	}
	return recs
}
