package dataset

import (
	"strings"

	"github.com/migrakit/migrakit/internal/domain"
)

// procedures implements the aggregate procedures of domain.Procedures over
// the in-memory tables. Rows are returned in first-seen order.
var procedures = map[string]func(*Source) []domain.Record{
	domain.ProcOrphanedDeals:                orphanedDeals,
	domain.ProcOrphanedContactNotes:         orphanedNotes(domain.TableContactNotes, "contact_id", domain.TableContacts),
	domain.ProcOrphanedDealNotes:            orphanedNotes(domain.TableDealNotes, "deal_id", domain.TableDeals),
	domain.ProcDuplicateCompanyNames:        duplicateCompanyNames,
	domain.ProcDuplicateContactEmails:       duplicateContactEmails,
	domain.ProcDuplicateDealNames:           duplicateDealNames,
	domain.ProcDuplicateTagNames:            duplicateTagNames,
	domain.ProcCompaniesWithoutContacts:     companiesWithoutContacts,
	domain.ProcDealContactCompanyMismatches: dealContactCompanyMismatches,
}

func (s *Source) ids(table string) map[string]domain.Record {
	out := make(map[string]domain.Record)
	for _, r := range s.rows(table) {
		out[r.ID("id")] = r
	}
	return out
}

func orphanedDeals(s *Source) []domain.Record {
	companies := s.ids(domain.TableCompanies)
	var out []domain.Record
	for _, d := range s.rows(domain.TableDeals) {
		if id := d.ID("company_id"); id != "" && companies[id] == nil {
			out = append(out, domain.Record{"id": d["id"], "name": d["name"], "company_id": d["company_id"]})
		}
	}
	return out
}

func orphanedNotes(table, parentField, parentTable string) func(*Source) []domain.Record {
	return func(s *Source) []domain.Record {
		parents := s.ids(parentTable)
		var out []domain.Record
		for _, n := range s.rows(table) {
			if id := n.ID(parentField); id != "" && parents[id] == nil {
				out = append(out, domain.Record{"id": n["id"], parentField: n[parentField]})
			}
		}
		return out
	}
}

// group accumulates records under a key in first-seen order.
type group struct {
	keys    []string
	members map[string][]domain.Record
}

func newGroup() *group {
	return &group{members: make(map[string][]domain.Record)}
}

func (g *group) add(key string, r domain.Record) {
	if _, ok := g.members[key]; !ok {
		g.keys = append(g.keys, key)
	}
	g.members[key] = append(g.members[key], r)
}

// duplicates calls fn for every key holding more than one record.
func (g *group) duplicates(fn func(members []domain.Record)) {
	for _, k := range g.keys {
		if m := g.members[k]; len(m) > 1 {
			fn(m)
		}
	}
}

func idList(records []domain.Record, field string) []any {
	out := make([]any, len(records))
	for i, r := range records {
		out[i] = r[field]
	}
	return out
}

func duplicateCompanyNames(s *Source) []domain.Record {
	g := newGroup()
	for _, c := range s.rows(domain.TableCompanies) {
		if c.Blank("name") {
			continue
		}
		g.add(domain.NormalizeCompanyName(c.Text("name")), c)
	}
	var out []domain.Record
	g.duplicates(func(m []domain.Record) {
		out = append(out, domain.Record{"name": m[0]["name"], "count": len(m), "ids": idList(m, "id")})
	})
	return out
}

// duplicateContactEmails groups contacts by company and primary email, the
// first entry of the email array.
func duplicateContactEmails(s *Source) []domain.Record {
	g := newGroup()
	for _, c := range s.rows(domain.TableContacts) {
		emails := c.Strings("email")
		if c.ID("company_id") == "" || len(emails) == 0 || strings.TrimSpace(emails[0]) == "" {
			continue
		}
		g.add(c.ID("company_id")+":"+strings.ToLower(strings.TrimSpace(emails[0])), c)
	}
	var out []domain.Record
	g.duplicates(func(m []domain.Record) {
		out = append(out, domain.Record{
			"email":       strings.ToLower(strings.TrimSpace(m[0].Strings("email")[0])),
			"company_id":  m[0]["company_id"],
			"contact_ids": idList(m, "id"),
		})
	})
	return out
}

func duplicateDealNames(s *Source) []domain.Record {
	g := newGroup()
	for _, d := range s.rows(domain.TableDeals) {
		if d.ID("company_id") == "" || d.Blank("name") {
			continue
		}
		g.add(d.ID("company_id")+":"+strings.ToLower(strings.TrimSpace(d.Text("name"))), d)
	}
	var out []domain.Record
	g.duplicates(func(m []domain.Record) {
		out = append(out, domain.Record{"name": m[0]["name"], "company_id": m[0]["company_id"], "count": len(m)})
	})
	return out
}

func duplicateTagNames(s *Source) []domain.Record {
	g := newGroup()
	for _, t := range s.rows(domain.TableTags) {
		if t.Blank("name") {
			continue
		}
		g.add(strings.ToLower(strings.TrimSpace(t.Text("name"))), t)
	}
	var out []domain.Record
	g.duplicates(func(m []domain.Record) {
		out = append(out, domain.Record{"name": m[0]["name"], "count": len(m), "ids": idList(m, "id")})
	})
	return out
}

func companiesWithoutContacts(s *Source) []domain.Record {
	staffed := make(map[string]bool)
	for _, c := range s.rows(domain.TableContacts) {
		staffed[c.ID("company_id")] = true
	}
	var out []domain.Record
	for _, c := range s.rows(domain.TableCompanies) {
		if !staffed[c.ID("id")] {
			out = append(out, domain.Record{"id": c["id"], "name": c["name"]})
		}
	}
	return out
}

func dealContactCompanyMismatches(s *Source) []domain.Record {
	contacts := s.ids(domain.TableContacts)
	var out []domain.Record
	for _, d := range s.rows(domain.TableDeals) {
		for _, id := range d.IDs("contact_ids") {
			c := contacts[id]
			if c == nil || c.ID("company_id") == d.ID("company_id") {
				continue
			}
			out = append(out, domain.Record{
				"deal_id":            d["id"],
				"deal_name":          d["name"],
				"deal_company_id":    d["company_id"],
				"contact_id":         c["id"],
				"contact_company_id": c["company_id"],
			})
		}
	}
	return out
}
