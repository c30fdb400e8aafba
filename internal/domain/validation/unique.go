package validation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/migrakit/migrakit/internal/domain"
)

// maxContactsPerCompany is the contact count above which primary contact
// designation needs review.
const maxContactsPerCompany = 10

// minPhoneDigits is the normalized length below which a phone is ignored.
const minPhoneDigits = 10

// NewUniqueConstraints finds values that will collide under the target
// schema's uniqueness rules.
func NewUniqueConstraints(src domain.RecordSource) *Validator {
	return &Validator{
		name:   domain.ValidatorUniqueConstraints,
		source: src,
		checks: []Check{
			{Name: "validateCompanyNameUniqueness", Run: validateCompanyNameUniqueness},
			{Name: "validateContactEmailUniqueness", Run: validateContactEmailUniqueness},
			{Name: "validateContactPhoneUniqueness", Run: validateContactPhoneUniqueness},
			{Name: "validateOpportunityNameWithinCompany", Run: validateOpportunityNameWithinCompany},
			{Name: "validateContactOrganizationCombinations", Run: validateContactOrganizationCombinations},
			{Name: "validateTagNameUniqueness", Run: validateTagNameUniqueness},
			{Name: "validateUserEmailUniqueness", Run: validateUserEmailUniqueness},
		},
		recommend: uniqueRecommendations,
	}
}

func validateCompanyNameUniqueness(ctx context.Context, src domain.RecordSource, f *Findings) error {
	dups, err := callProc(ctx, src, domain.ProcDuplicateCompanyNames)
	if err != nil {
		return err
	}
	if len(dups) > 0 {
		f.Violation(domain.NewViolation(domain.KindDuplicateCompanyName, domain.TableCompanies, domain.SeverityHigh,
			"Companies with duplicate names (case-insensitive) will cause unique constraint violations", len(dups),
			domain.SampleOf(dups, func(d domain.Record) string {
				return fmt.Sprintf("%q appears %s times (IDs: %s)", d.Text("name"), d.Text("count"), strings.Join(d.IDs("ids"), ", "))
			})))
	}
	return nil
}

// scopedGroup is a set of contacts sharing one value within a company.
type scopedGroup struct {
	company, value string
	contacts       []string
}

// groupByScope groups contacts by company_id and a derived value, keeping
// first-seen order so reports are deterministic.
func groupByScope(contacts []domain.Record, values func(domain.Record) []string) []scopedGroup {
	index := make(map[string]int)
	var groups []scopedGroup
	for _, c := range contacts {
		for _, v := range values(c) {
			key := c.ID("company_id") + ":" + v
			i, ok := index[key]
			if !ok {
				i = len(groups)
				index[key] = i
				groups = append(groups, scopedGroup{company: c.ID("company_id"), value: v})
			}
			groups[i].contacts = append(groups[i].contacts, c.ID("id"))
		}
	}
	var dups []scopedGroup
	for _, g := range groups {
		if len(g.contacts) > 1 {
			dups = append(dups, g)
		}
	}
	return dups
}

func validateContactEmailUniqueness(ctx context.Context, src domain.RecordSource, f *Findings) error {
	primary, err := callProc(ctx, src, domain.ProcDuplicateContactEmails)
	if err != nil {
		return err
	}
	if len(primary) > 0 {
		f.Violation(domain.NewViolation(domain.KindDuplicateContactEmail, domain.TableContacts, domain.SeverityMedium,
			"Contacts with duplicate email addresses within the same organization", len(primary),
			domain.SampleOf(primary, func(d domain.Record) string {
				return fmt.Sprintf("Email %q in company %s (Contact IDs: %s)", d.Text("email"), d.ID("company_id"), strings.Join(d.IDs("contact_ids"), ", "))
			})))
	}

	contacts, err := selectRows(ctx, src, domain.From(domain.TableContacts, "id", "first_name", "last_name", "company_id", "email"))
	if err != nil {
		return err
	}
	dups := groupByScope(contacts, func(c domain.Record) []string {
		var emails []string
		for _, e := range c.Strings("email") {
			if e != "" {
				emails = append(emails, strings.ToLower(e))
			}
		}
		return emails
	})
	if len(dups) > 0 {
		f.Violation(domain.NewViolation(domain.KindDuplicateArrayEmail, "contacts.email", domain.SeverityMedium,
			"Contacts with duplicate emails in JSONB arrays within same organization", len(dups),
			domain.SampleOf(dups, func(g scopedGroup) string {
				return fmt.Sprintf("Email %q in company %s (%d contacts)", g.value, g.company, len(g.contacts))
			})))
	}
	return nil
}

func validateContactPhoneUniqueness(ctx context.Context, src domain.RecordSource, f *Findings) error {
	contacts, err := selectRows(ctx, src, domain.From(domain.TableContacts, "id", "first_name", "last_name", "company_id", "phone"))
	if err != nil {
		return err
	}
	dups := groupByScope(contacts, func(c domain.Record) []string {
		var phones []string
		for _, p := range c.Strings("phone") {
			if n := domain.NormalizePhone(p); len(n) >= minPhoneDigits {
				phones = append(phones, n)
			}
		}
		return phones
	})
	if len(dups) > 0 {
		f.Warning(domain.NewViolation(domain.KindDuplicatePhone, "contacts.phone", domain.SeverityLow,
			"Contacts with duplicate phone numbers within same organization", len(dups),
			domain.SampleOf(dups, func(g scopedGroup) string {
				return fmt.Sprintf("Phone %q in company %s (%d contacts)", g.value, g.company, len(g.contacts))
			})))
	}
	return nil
}

func validateOpportunityNameWithinCompany(ctx context.Context, src domain.RecordSource, f *Findings) error {
	dups, err := callProc(ctx, src, domain.ProcDuplicateDealNames)
	if err != nil {
		return err
	}
	if len(dups) > 0 {
		f.Violation(domain.NewViolation(domain.KindDuplicateOpportunityName, "opportunities", domain.SeverityMedium,
			"Deals/Opportunities with duplicate names within same company", len(dups),
			domain.SampleOf(dups, func(d domain.Record) string {
				return fmt.Sprintf("%q in company %s (%s occurrences)", d.Text("name"), d.ID("company_id"), d.Text("count"))
			})))
	}
	return nil
}

func validateContactOrganizationCombinations(ctx context.Context, src domain.RecordSource, f *Findings) error {
	contacts, err := selectRows(ctx, src, domain.From(domain.TableContacts, "id", "company_id").
		Where(domain.NotNull("company_id")))
	if err != nil {
		return err
	}
	counts := make(map[string]int)
	var order []string
	for _, c := range contacts {
		id := c.ID("company_id")
		if counts[id] == 0 {
			order = append(order, id)
		}
		counts[id]++
	}
	var crowded []string
	for _, id := range order {
		if counts[id] > maxContactsPerCompany {
			crowded = append(crowded, id)
		}
	}
	if len(crowded) > 0 {
		f.Warning(domain.NewViolation(domain.KindMultipleContacts, "contact_organizations", domain.SeverityLow,
			"Companies with many contacts may need primary contact designation review", len(crowded),
			domain.SampleOf(crowded, func(id string) string {
				return fmt.Sprintf("Company %s has %d contacts", id, counts[id])
			})))
	}
	return nil
}

func validateTagNameUniqueness(ctx context.Context, src domain.RecordSource, f *Findings) error {
	dups, err := callProc(ctx, src, domain.ProcDuplicateTagNames)
	if err != nil {
		return err
	}
	if len(dups) > 0 {
		f.Violation(domain.NewViolation(domain.KindDuplicateTagName, domain.TableTags, domain.SeverityLow,
			"Tags with duplicate names (case-insensitive)", len(dups),
			domain.SampleOf(dups, func(d domain.Record) string {
				return fmt.Sprintf("%q appears %s times (IDs: %s)", d.Text("name"), d.Text("count"), strings.Join(d.IDs("ids"), ", "))
			})))
	}
	return nil
}

// validateUserEmailUniqueness reads the auth users relation, which the
// migration role may not be allowed to see. An unreadable relation skips
// the check instead of failing it.
func validateUserEmailUniqueness(ctx context.Context, src domain.RecordSource, f *Findings) error {
	users, err := src.Select(ctx, domain.From(domain.TableUsers, "id", "email"))
	if err != nil {
		msg := "Could not validate user email uniqueness - insufficient permissions"
		if !errors.Is(err, domain.ErrRelationNotFound) {
			msg = "Could not validate user email uniqueness - " + err.Error()
		}
		f.Warning(domain.NewViolation(domain.KindSkippedCheck, domain.TableUsers, domain.SeverityLow, msg, 0, nil))
		return nil
	}
	counts := make(map[string]int)
	var order []string
	for _, u := range users {
		if u.Blank("email") {
			continue
		}
		email := strings.ToLower(u.Text("email"))
		if counts[email] == 0 {
			order = append(order, email)
		}
		counts[email]++
	}
	var dups []string
	for _, e := range order {
		if counts[e] > 1 {
			dups = append(dups, e)
		}
	}
	if len(dups) > 0 {
		f.Violation(domain.NewViolation(domain.KindDuplicateUserEmail, domain.TableUsers, domain.SeverityCritical,
			"Users with duplicate email addresses", len(dups),
			domain.SampleOf(dups, func(e string) string {
				return fmt.Sprintf("%q appears %d times", e, counts[e])
			})))
	}
	return nil
}

func uniqueRecommendations(violations, _ []domain.Violation) []domain.RemediationAction {
	has := func(k domain.Kind) bool {
		return hasViolation(violations, func(v domain.Violation) bool { return v.Kind == k })
	}
	var recs []domain.RemediationAction
	if has(domain.KindDuplicateCompanyName) {
		recs = append(recs, domain.NewAction(domain.ActionFix, domain.PriorityHigh, "data",
			"Merge or rename duplicate companies before migration", ""))
	}
	if has(domain.KindDuplicateContactEmail) {
		recs = append(recs, domain.NewAction(domain.ActionFix, domain.PriorityMedium, "data",
			"Clean up duplicate contact emails within organizations", ""))
	}
	if has(domain.KindDuplicateOpportunityName) {
		recs = append(recs, domain.NewAction(domain.ActionFix, domain.PriorityMedium, "data",
			"Add distinguishing suffixes to duplicate opportunity names",
			"UPDATE deals d SET name = d.name || ' (' || d.id::text || ')' WHERE EXISTS (SELECT 1 FROM deals o WHERE o.company_id = d.company_id AND o.name = d.name AND o.id < d.id);"))
	}
	if has(domain.KindDuplicateUserEmail) {
		recs = append(recs, domain.NewAction(domain.ActionBlock, domain.PriorityCritical, "system",
			"Migration cannot proceed with duplicate user emails in auth system", ""))
	}
	return recs
}
