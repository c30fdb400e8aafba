package validation

import (
	"context"
	"fmt"

	"github.com/migrakit/migrakit/internal/domain"
)

// NewRequiredFields flags records missing fields the target schema requires
// and runs the cross-entity checks specific to this migration.
func NewRequiredFields(src domain.RecordSource) *Validator {
	return &Validator{
		name:   domain.ValidatorRequiredFields,
		source: src,
		checks: []Check{
			{Name: "validateCompanyRequiredFields", Run: validateCompanyRequiredFields},
			{Name: "validateContactRequiredFields", Run: validateContactRequiredFields},
			{Name: "validateDealRequiredFields", Run: validateDealRequiredFields},
			{Name: "validateContactNoteRequiredFields", Run: noteRequiredFields(domain.TableContactNotes, "contact_id", "Contact")},
			{Name: "validateDealNoteRequiredFields", Run: noteRequiredFields(domain.TableDealNotes, "deal_id", "Deal")},
			{Name: "validateTaskRequiredFields", Run: validateTaskRequiredFields},
			{Name: "validateTagRequiredFields", Run: validateTagRequiredFields},
			{Name: "validateMigrationSpecificRequirements", Run: validateMigrationSpecificRequirements},
		},
		recommend: requiredRecommendations,
	}
}

func anyOf(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func orNull(s string) string {
	if s == "" {
		return "NULL"
	}
	return s
}

func validateCompanyRequiredFields(ctx context.Context, src domain.RecordSource, f *Findings) error {
	unnamed, err := selectRows(ctx, src, domain.From(domain.TableCompanies, "id", "name").
		Where(domain.Blank("name")))
	if err != nil {
		return err
	}
	if len(unnamed) > 0 {
		f.Violation(domain.NewViolation(domain.KindMissingRequiredField, domain.TableCompanies, domain.SeverityCritical,
			"Companies without names (required for migration)", len(unnamed),
			domain.SampleOf(unnamed, func(c domain.Record) string {
				if c.Present("name") {
					return fmt.Sprintf("Company ID: %s has name: %q", c.ID("id"), c.Text("name"))
				}
				return fmt.Sprintf("Company ID: %s has NULL name", c.ID("id"))
			})).OnField("name"))
	}

	badSector, err := selectRows(ctx, src, domain.From(domain.TableCompanies, "id", "name", "sector").
		WhereAny(domain.Blank("sector"), domain.NotIn("sector", anyOf(domain.Sectors)...)))
	if err != nil {
		return err
	}
	if len(badSector) > 0 {
		f.Warning(domain.NewViolation(domain.KindInvalidSector, domain.TableCompanies, domain.SeverityMedium,
			"Companies with missing or invalid sectors (will default to 'Other')", len(badSector),
			domain.SampleOf(badSector, func(c domain.Record) string {
				return fmt.Sprintf("Company %q (ID: %s) has sector: %s", c.Text("name"), c.ID("id"), orNull(c.Text("sector")))
			})).OnField("sector"))
	}

	untimed, err := selectRows(ctx, src, domain.From(domain.TableCompanies, "id", "name", "created_at").
		Where(domain.IsNull("created_at")))
	if err != nil {
		return err
	}
	if len(untimed) > 0 {
		f.Warning(domain.NewViolation(domain.KindMissingTimestamp, domain.TableCompanies, domain.SeverityLow,
			"Companies without created_at timestamps (will use current time)", len(untimed),
			domain.SampleOf(untimed, func(c domain.Record) string {
				return fmt.Sprintf("Company %q (ID: %s)", c.Text("name"), c.ID("id"))
			})).OnField("created_at"))
	}
	return nil
}

func validateContactRequiredFields(ctx context.Context, src domain.RecordSource, f *Findings) error {
	unnamed, err := selectRows(ctx, src, domain.From(domain.TableContacts, "id", "first_name", "last_name", "company_id").
		WhereAny(domain.Blank("first_name"), domain.Blank("last_name")))
	if err != nil {
		return err
	}
	if len(unnamed) > 0 {
		f.Violation(domain.NewViolation(domain.KindMissingRequiredField, domain.TableContacts, domain.SeverityHigh,
			"Contacts without first_name or last_name (required for migration)", len(unnamed),
			domain.SampleOf(unnamed, func(c domain.Record) string {
				return fmt.Sprintf("Contact ID: %s - First: %q Last: %q (Company: %s)",
					c.ID("id"), c.Text("first_name"), c.Text("last_name"), orNull(c.ID("company_id")))
			})).OnField("name"))
	}

	contacts, err := selectRows(ctx, src, domain.From(domain.TableContacts, "id", "first_name", "last_name", "email", "phone", "company_id"))
	if err != nil {
		return err
	}
	var unreachable []domain.Record
	for _, c := range contacts {
		if !c.NonEmptyList("email") && !c.NonEmptyList("phone") {
			unreachable = append(unreachable, c)
		}
	}
	if len(unreachable) > 0 {
		f.Warning(domain.NewViolation(domain.KindMissingContactInfo, domain.TableContacts, domain.SeverityMedium,
			"Contacts without email or phone (reduces data quality)", len(unreachable),
			domain.SampleOf(unreachable, func(c domain.Record) string {
				return fmt.Sprintf("Contact %q (ID: %s)", fullName(c), c.ID("id"))
			})).OnField("email_or_phone"))
	}

	unassigned, err := selectRows(ctx, src, domain.From(domain.TableContacts, "id", "first_name", "last_name").
		Where(domain.IsNull("company_id")))
	if err != nil {
		return err
	}
	if len(unassigned) > 0 {
		f.Violation(domain.NewViolation(domain.KindMissingCompanyAssignment, domain.TableContacts, domain.SeverityHigh,
			"Contacts without company assignment (required for new multi-org schema)", len(unassigned),
			domain.SampleOf(unassigned, func(c domain.Record) string {
				return fmt.Sprintf("Contact %q (ID: %s)", fullName(c), c.ID("id"))
			})).OnField("company_id"))
	}
	return nil
}

func validateDealRequiredFields(ctx context.Context, src domain.RecordSource, f *Findings) error {
	unnamed, err := selectRows(ctx, src, domain.From(domain.TableDeals, "id", "name", "company_id").
		Where(domain.Blank("name")))
	if err != nil {
		return err
	}
	if len(unnamed) > 0 {
		f.Violation(domain.NewViolation(domain.KindMissingRequiredField, domain.TableDeals, domain.SeverityCritical,
			"Deals without names (required for opportunities)", len(unnamed),
			domain.SampleOf(unnamed, func(d domain.Record) string {
				return fmt.Sprintf("Deal ID: %s (Company: %s)", d.ID("id"), orNull(d.ID("company_id")))
			})).OnField("name"))
	}

	unassigned, err := selectRows(ctx, src, domain.From(domain.TableDeals, "id", "name").
		Where(domain.IsNull("company_id")))
	if err != nil {
		return err
	}
	if len(unassigned) > 0 {
		f.Violation(domain.NewViolation(domain.KindMissingCompanyAssignment, domain.TableDeals, domain.SeverityCritical,
			"Deals without company assignment (required for opportunities)", len(unassigned),
			domain.SampleOf(unassigned, func(d domain.Record) string {
				return fmt.Sprintf("Deal %q (ID: %s)", d.Text("name"), d.ID("id"))
			})).OnField("company_id"))
	}

	badStage, err := selectRows(ctx, src, domain.From(domain.TableDeals, "id", "name", "stage").
		Where(domain.NotIn("stage", anyOf(domain.Stages)...)))
	if err != nil {
		return err
	}
	if len(badStage) > 0 {
		f.Warning(domain.NewViolation(domain.KindInvalidStage, domain.TableDeals, domain.SeverityMedium,
			"Deals with invalid stages (will default to 'lead')", len(badStage),
			domain.SampleOf(badStage, func(d domain.Record) string {
				return fmt.Sprintf("Deal %q (ID: %s) has stage: %s", d.Text("name"), d.ID("id"), d.Text("stage"))
			})).OnField("stage"))
	}

	deals, err := selectRows(ctx, src, domain.From(domain.TableDeals, "id", "name", "expected_revenue"))
	if err != nil {
		return err
	}
	var noRevenue []domain.Record
	for _, d := range deals {
		if rev, ok := d.Float("expected_revenue"); !ok || rev <= 0 {
			noRevenue = append(noRevenue, d)
		}
	}
	if len(noRevenue) > 0 {
		f.Warning(domain.NewViolation(domain.KindMissingRevenue, domain.TableDeals, domain.SeverityLow,
			"Deals without expected revenue (affects reporting)", len(noRevenue),
			domain.SampleOf(noRevenue, func(d domain.Record) string {
				return fmt.Sprintf("Deal %q (ID: %s) has revenue: %s", d.Text("name"), d.ID("id"), orNull(d.Text("expected_revenue")))
			})).OnField("expected_revenue"))
	}
	return nil
}

func noteRequiredFields(table, parentField, parent string) func(context.Context, domain.RecordSource, *Findings) error {
	return func(ctx context.Context, src domain.RecordSource, f *Findings) error {
		empty, err := selectRows(ctx, src, domain.From(table, "id", parentField, "text").
			Where(domain.Blank("text")))
		if err != nil {
			return err
		}
		if len(empty) > 0 {
			f.Violation(domain.NewViolation(domain.KindMissingRequiredField, table, domain.SeverityMedium,
				parent+" notes without text content", len(empty),
				domain.SampleOf(empty, func(n domain.Record) string {
					return fmt.Sprintf("Note ID: %s for %s: %s", n.ID("id"), parent, orNull(n.ID(parentField)))
				})).OnField("text"))
		}
		return nil
	}
}

func validateTaskRequiredFields(ctx context.Context, src domain.RecordSource, f *Findings) error {
	untyped, err := selectRows(ctx, src, domain.From(domain.TableTasks, "id", "type", "contact_id", "deal_id").
		Where(domain.Blank("type")))
	if err != nil {
		return err
	}
	if len(untyped) > 0 {
		f.Violation(domain.NewViolation(domain.KindMissingRequiredField, domain.TableTasks, domain.SeverityMedium,
			"Tasks without type (required for activities migration)", len(untyped),
			domain.SampleOf(untyped, func(t domain.Record) string {
				return fmt.Sprintf("Task ID: %s (Contact: %s, Deal: %s)", t.ID("id"), orNull(t.ID("contact_id")), orNull(t.ID("deal_id")))
			})).OnField("type"))
	}

	unassigned, err := selectRows(ctx, src, domain.From(domain.TableTasks, "id", "type", "contact_id", "deal_id").
		Where(domain.IsNull("contact_id"), domain.IsNull("deal_id")))
	if err != nil {
		return err
	}
	if len(unassigned) > 0 {
		f.Warning(domain.NewViolation(domain.KindUnassignedTask, domain.TableTasks, domain.SeverityLow,
			"Tasks without contact or deal assignment", len(unassigned),
			domain.SampleOf(unassigned, func(t domain.Record) string {
				return fmt.Sprintf("Task %q (ID: %s)", t.Text("type"), t.ID("id"))
			})).OnField("contact_id_or_deal_id"))
	}
	return nil
}

func validateTagRequiredFields(ctx context.Context, src domain.RecordSource, f *Findings) error {
	unnamed, err := selectRows(ctx, src, domain.From(domain.TableTags, "id", "name", "entity_type", "entity_id").
		Where(domain.Blank("name")))
	if err != nil {
		return err
	}
	if len(unnamed) > 0 {
		f.Violation(domain.NewViolation(domain.KindMissingRequiredField, domain.TableTags, domain.SeverityLow,
			"Tags without names", len(unnamed),
			domain.SampleOf(unnamed, func(t domain.Record) string {
				return fmt.Sprintf("Tag ID: %s (%s:%s)", t.ID("id"), t.Text("entity_type"), t.ID("entity_id"))
			})).OnField("name"))
	}
	return nil
}

// validateMigrationSpecificRequirements reports cross-entity gaps as
// warnings only, since no mechanical fix is safe for them.
func validateMigrationSpecificRequirements(ctx context.Context, src domain.RecordSource, f *Findings) error {
	childless, err := callProc(ctx, src, domain.ProcCompaniesWithoutContacts)
	if err != nil {
		return err
	}
	if len(childless) > 0 {
		f.Warning(domain.NewViolation(domain.KindCompanyWithoutContacts, domain.TableCompanies, domain.SeverityMedium,
			"Companies without any contacts (may affect deal creation post-migration)", len(childless),
			domain.SampleOf(childless, func(c domain.Record) string {
				return fmt.Sprintf("Company %q (ID: %s)", c.Text("name"), c.ID("id"))
			})).OnField("contacts_relationship"))
	}

	deals, err := selectRows(ctx, src, domain.From(domain.TableDeals, "id", "name", "contact_ids"))
	if err != nil {
		return err
	}
	var lonely []domain.Record
	for _, d := range deals {
		if !d.NonEmptyList("contact_ids") {
			lonely = append(lonely, d)
		}
	}
	if len(lonely) > 0 {
		f.Warning(domain.NewViolation(domain.KindDealWithoutContacts, domain.TableDeals, domain.SeverityMedium,
			"Deals without contact assignments (will need opportunity participants post-migration)", len(lonely),
			domain.SampleOf(lonely, func(d domain.Record) string {
				return fmt.Sprintf("Deal %q (ID: %s)", d.Text("name"), d.ID("id"))
			})).OnField("contact_ids"))
	}

	mismatched, err := callProc(ctx, src, domain.ProcDealContactCompanyMismatches)
	if err != nil {
		return err
	}
	if len(mismatched) > 0 {
		f.Warning(domain.NewViolation(domain.KindCompanyMismatch, "deals_contacts", domain.SeverityHigh,
			"Deals with contacts from different companies (may indicate data quality issues)", len(mismatched),
			domain.SampleOf(mismatched, func(d domain.Record) string {
				return fmt.Sprintf("Deal %q (Company: %s) has contact from Company: %s",
					d.Text("deal_name"), d.ID("deal_company_id"), orNull(d.ID("contact_company_id")))
			})).OnField("company_consistency"))
	}
	return nil
}

func requiredRecommendations(violations, warnings []domain.Violation) []domain.RemediationAction {
	var recs []domain.RemediationAction
	if hasViolation(violations, func(v domain.Violation) bool {
		return v.Field == "name" && v.Entity == domain.TableCompanies
	}) {
		recs = append(recs, domain.NewAction(domain.ActionBlock, domain.PriorityCritical, "data",
			"Companies without names must be fixed before migration",
			"UPDATE companies SET name = CONCAT('Company ', id::text) WHERE name IS NULL OR name = '';"))
	}
	if hasViolation(violations, func(v domain.Violation) bool {
		return v.Field == "name" && v.Entity == domain.TableContacts
	}) {
		recs = append(recs, domain.NewAction(domain.ActionFix, domain.PriorityHigh, "data",
			"Contacts without names should be fixed or removed",
			"UPDATE contacts SET first_name = 'Unknown' WHERE first_name IS NULL OR first_name = '';"))
	}
	if hasViolation(violations, func(v domain.Violation) bool { return v.Field == "company_id" }) {
		recs = append(recs, domain.NewAction(domain.ActionFix, domain.PriorityHigh, "data",
			"Assign unassigned contacts and deals to appropriate companies", ""))
	}
	if hasViolation(warnings, func(v domain.Violation) bool { return v.Field == "sector" }) {
		recs = append(recs, domain.NewAction(domain.ActionFix, domain.PriorityMedium, "data",
			"Set default sector for companies with missing sectors",
			"UPDATE companies SET sector = 'Other' WHERE sector IS NULL OR sector = '';"))
	}
	return recs
}
