package quality

import (
	"strings"

	"github.com/migrakit/migrakit/internal/domain"
)

// FieldWeight is the share one field contributes to a record's completeness.
type FieldWeight struct {
	Field   string
	Weight  int
	Present func(r domain.Record) bool
}

// WeightTable scores how complete the records of one entity are.
type WeightTable struct {
	Entity  string
	Columns []string
	Fields  []FieldWeight
}

// Total is the sum of all field weights.
func (t WeightTable) Total() int {
	total := 0
	for _, f := range t.Fields {
		total += f.Weight
	}
	return total
}

// Score returns the weighted share of fields present in r, in [0,100].
func (t WeightTable) Score(r domain.Record) float64 {
	total := t.Total()
	if total == 0 {
		return 100
	}
	got := 0
	for _, f := range t.Fields {
		if f.Present(r) {
			got += f.Weight
		}
	}
	return float64(got*100) / float64(total)
}

func present(field string) FieldWeight {
	return FieldWeight{Field: field, Present: func(r domain.Record) bool { return !r.Blank(field) }}
}

func weighted(w int, f FieldWeight) FieldWeight {
	f.Weight = w
	return f
}

func nonEmptyList(field string) FieldWeight {
	return FieldWeight{Field: field, Present: func(r domain.Record) bool { return r.NonEmptyList(field) }}
}

func positive(field string) FieldWeight {
	return FieldWeight{Field: field, Present: func(r domain.Record) bool {
		v, ok := r.Float(field)
		return ok && v > 0
	}}
}

func nonNegative(field string) FieldWeight {
	return FieldWeight{Field: field, Present: func(r domain.Record) bool {
		v, ok := r.Float(field)
		return ok && v >= 0
	}}
}

// Weight tables. Package-level values, never mutated.
var (
	CompanyWeights = WeightTable{
		Entity:  domain.TableCompanies,
		Columns: []string{"id", "name", "sector", "size", "domain", "website", "phone", "email", "logo_url", "created_at"},
		Fields: []FieldWeight{
			weighted(20, present("name")),
			weighted(15, present("sector")),
			weighted(10, present("size")),
			weighted(10, present("domain")),
			weighted(10, present("website")),
			weighted(8, present("phone")),
			weighted(8, present("email")),
			weighted(7, present("logo_url")),
			weighted(12, present("created_at")),
		},
	}

	ContactWeights = WeightTable{
		Entity:  domain.TableContacts,
		Columns: []string{"id", "first_name", "last_name", "company_id", "email", "phone", "title", "avatar_url", "created_at"},
		Fields: []FieldWeight{
			weighted(20, present("first_name")),
			weighted(20, present("last_name")),
			weighted(15, present("company_id")),
			weighted(15, nonEmptyList("email")),
			weighted(10, nonEmptyList("phone")),
			weighted(10, present("title")),
			weighted(5, present("avatar_url")),
			weighted(5, present("created_at")),
		},
	}

	DealWeights = WeightTable{
		Entity:  domain.TableDeals,
		Columns: []string{"id", "name", "company_id", "stage", "expected_revenue", "contact_ids", "expected_close_date", "probability"},
		Fields: []FieldWeight{
			weighted(25, present("name")),
			weighted(20, present("company_id")),
			weighted(15, present("stage")),
			weighted(15, positive("expected_revenue")),
			weighted(10, nonEmptyList("contact_ids")),
			weighted(10, present("expected_close_date")),
			weighted(5, nonNegative("probability")),
		},
	}

	// NoteWeights applies to contact and deal notes alike.
	NoteWeights = WeightTable{
		Entity:  "notes",
		Columns: []string{"id", "text", "sales_rep", "created_at"},
		Fields: []FieldWeight{
			{Field: "text", Weight: 70, Present: func(r domain.Record) bool {
				return len(strings.TrimSpace(r.Text("text"))) > 10
			}},
			weighted(20, present("sales_rep")),
			weighted(10, present("created_at")),
		},
	}

	TaskWeights = WeightTable{
		Entity:  domain.TableTasks,
		Columns: []string{"id", "type", "text", "contact_id", "deal_id", "due_date", "created_at"},
		Fields: []FieldWeight{
			weighted(30, present("type")),
			weighted(25, present("text")),
			{Field: "assignment", Weight: 20, Present: func(r domain.Record) bool {
				return r.Present("contact_id") || r.Present("deal_id")
			}},
			weighted(15, present("due_date")),
			weighted(10, present("created_at")),
		},
	}
)
