package quality

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/migrakit/migrakit/internal/domain"
)

var (
	emailPattern   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern   = regexp.MustCompile(`^[+]?[\d\s\-().]{10,}$`)
	websitePattern = regexp.MustCompile(`^https?://.+\..+`)
)

// Plausible value ranges of deal figures.
const (
	maxExpectedRevenue = 10_000_000
	maxProbability     = 100
)

// earliestCloseDate bounds expected close dates from below.
var earliestCloseDate = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)

// Accuracy sub-checks score the share of values in a plausible format.
// Details carry total and valid; numeric_ranges nests them under revenues
// and probabilities.
var accuracyChecks = []SubCheck{
	{Name: "email_formats", Run: emailFormats},
	{Name: "phone_formats", Run: phoneFormats},
	{Name: "website_formats", Run: websiteFormats},
	{Name: "date_formats", Run: dateFormats},
	{Name: "numeric_ranges", Run: numericRanges},
}

type badValue struct {
	owner, value string
}

// formatTally counts values matching a pattern and keeps the mismatches.
type formatTally struct {
	total, valid int
	invalid      []badValue
}

func (t *formatTally) add(owner, value string, ok bool) {
	t.total++
	if ok {
		t.valid++
		return
	}
	t.invalid = append(t.invalid, badValue{owner: owner, value: value})
}

func (t *formatTally) result(entity, note string) domain.SubCheckResult {
	if t.total == 0 {
		return neutral(entity, note)
	}
	return domain.SubCheckResult{
		Entity:  entity,
		Score:   ratio(t.valid, t.total),
		Details: map[string]any{"total": t.total, "valid": t.valid},
	}
}

func (t *formatTally) issue(kind domain.Kind, entity string, severity domain.Severity, message, owner string) []domain.Violation {
	if len(t.invalid) == 0 {
		return nil
	}
	return []domain.Violation{domain.NewViolation(kind, entity, severity, message, len(t.invalid),
		domain.SampleOf(t.invalid, func(b badValue) string {
			return fmt.Sprintf("%s %s: %q", owner, b.owner, b.value)
		}))}
}

func emailFormats(ctx context.Context, src domain.RecordSource) (domain.SubCheckResult, []domain.Violation, error) {
	contacts, err := selectRows(ctx, src, domain.From(domain.TableContacts, "id", "email").
		Where(domain.NotNull("email")))
	if err != nil {
		return domain.SubCheckResult{}, nil, err
	}
	var t formatTally
	for _, c := range contacts {
		for _, email := range c.Strings("email") {
			email = strings.TrimSpace(email)
			t.add(c.ID("id"), email, emailPattern.MatchString(email))
		}
	}
	return t.result("contacts.email", "No emails found"),
		t.issue(domain.KindInvalidEmailFormat, "contacts.email", domain.SeverityMedium,
			"Contact emails with invalid format", "Contact"), nil
}

func phoneFormats(ctx context.Context, src domain.RecordSource) (domain.SubCheckResult, []domain.Violation, error) {
	contacts, err := selectRows(ctx, src, domain.From(domain.TableContacts, "id", "phone").
		Where(domain.NotNull("phone")))
	if err != nil {
		return domain.SubCheckResult{}, nil, err
	}
	var t formatTally
	for _, c := range contacts {
		for _, phone := range c.Strings("phone") {
			phone = strings.TrimSpace(phone)
			t.add(c.ID("id"), phone, phonePattern.MatchString(phone))
		}
	}
	return t.result("contacts.phone", "No phone numbers found"),
		t.issue(domain.KindInvalidPhoneFormat, "contacts.phone", domain.SeverityLow,
			"Contact phone numbers with invalid format", "Contact"), nil
}

func websiteFormats(ctx context.Context, src domain.RecordSource) (domain.SubCheckResult, []domain.Violation, error) {
	companies, err := selectRows(ctx, src, domain.From(domain.TableCompanies, "id", "website").
		Where(domain.NotNull("website")))
	if err != nil {
		return domain.SubCheckResult{}, nil, err
	}
	var t formatTally
	for _, c := range companies {
		website := strings.TrimSpace(c.Text("website"))
		t.add(c.ID("id"), website, websitePattern.MatchString(website))
	}
	return t.result("companies.website", "No websites found"),
		t.issue(domain.KindInvalidWebsiteFormat, "companies.website", domain.SeverityLow,
			"Company websites with invalid format", "Company"), nil
}

func dateFormats(ctx context.Context, src domain.RecordSource) (domain.SubCheckResult, []domain.Violation, error) {
	deals, err := selectRows(ctx, src, domain.From(domain.TableDeals, "id", "expected_close_date").
		Where(domain.NotNull("expected_close_date")))
	if err != nil {
		return domain.SubCheckResult{}, nil, err
	}
	var t formatTally
	for _, d := range deals {
		date, ok := d.Time("expected_close_date")
		t.add(d.ID("id"), d.Text("expected_close_date"), ok && date.After(earliestCloseDate))
	}
	return t.result("deals.expected_close_date", "No close dates found"), nil, nil
}

func numericRanges(ctx context.Context, src domain.RecordSource) (domain.SubCheckResult, []domain.Violation, error) {
	deals, err := selectRows(ctx, src, domain.From(domain.TableDeals, "id", "expected_revenue", "probability").
		Where(domain.NotNull("expected_revenue")))
	if err != nil {
		return domain.SubCheckResult{}, nil, err
	}
	if len(deals) == 0 {
		return neutral(domain.TableDeals, "No deals with revenue found"), nil, nil
	}
	var revenues, probabilities formatTally
	for _, d := range deals {
		rev, ok := d.Float("expected_revenue")
		revenues.add(d.ID("id"), d.Text("expected_revenue"), ok && rev >= 0 && rev <= maxExpectedRevenue)
		if d.Present("probability") {
			p, ok := d.Float("probability")
			probabilities.add(d.ID("id"), d.Text("probability"), ok && p >= 0 && p <= maxProbability)
		}
	}
	return domain.SubCheckResult{
		Entity: domain.TableDeals,
		Score:  (ratio(revenues.valid, revenues.total) + ratio(probabilities.valid, probabilities.total)) / 2,
		Details: map[string]any{
			"revenues":      map[string]any{"total": revenues.total, "valid": revenues.valid},
			"probabilities": map[string]any{"total": probabilities.total, "valid": probabilities.valid},
		},
	}, nil, nil
}
