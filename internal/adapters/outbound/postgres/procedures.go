package postgres

import "github.com/migrakit/migrakit/internal/domain"

// normalizedCompanyName mirrors domain.NormalizeCompanyName.
const normalizedCompanyName = `regexp_replace(regexp_replace(lower(name), '[\s\-.,'']', '', 'g'), 'inc|corp|llc|ltd', '', 'g')`

// procedureSQL answers each procedure of domain.Procedures with the columns
// documented there.
var procedureSQL = map[string]string{
	domain.ProcOrphanedDeals: `
SELECT d.id, d.name, d.company_id
FROM deals d
WHERE d.company_id IS NOT NULL
  AND NOT EXISTS (SELECT 1 FROM companies c WHERE c.id = d.company_id)
ORDER BY d.id`,

	domain.ProcOrphanedContactNotes: `
SELECT n.id, n.contact_id
FROM "contactNotes" n
WHERE n.contact_id IS NOT NULL
  AND NOT EXISTS (SELECT 1 FROM contacts c WHERE c.id = n.contact_id)
ORDER BY n.id`,

	domain.ProcOrphanedDealNotes: `
SELECT n.id, n.deal_id
FROM "dealNotes" n
WHERE n.deal_id IS NOT NULL
  AND NOT EXISTS (SELECT 1 FROM deals d WHERE d.id = n.deal_id)
ORDER BY n.id`,

	domain.ProcDuplicateCompanyNames: `
SELECT (array_agg(name ORDER BY id))[1] AS name, count(*) AS count, array_agg(id ORDER BY id) AS ids
FROM companies
WHERE btrim(coalesce(name, '')) <> ''
GROUP BY ` + normalizedCompanyName + `
HAVING count(*) > 1
ORDER BY min(id)`,

	domain.ProcDuplicateContactEmails: `
SELECT lower(btrim(email[1])) AS email, company_id, array_agg(id ORDER BY id) AS contact_ids
FROM contacts
WHERE company_id IS NOT NULL AND btrim(coalesce(email[1], '')) <> ''
GROUP BY company_id, lower(btrim(email[1]))
HAVING count(*) > 1
ORDER BY min(id)`,

	domain.ProcDuplicateDealNames: `
SELECT (array_agg(name ORDER BY id))[1] AS name, company_id, count(*) AS count
FROM deals
WHERE company_id IS NOT NULL AND btrim(coalesce(name, '')) <> ''
GROUP BY company_id, lower(btrim(name))
HAVING count(*) > 1
ORDER BY min(id)`,

	domain.ProcDuplicateTagNames: `
SELECT (array_agg(name ORDER BY id))[1] AS name, count(*) AS count, array_agg(id ORDER BY id) AS ids
FROM tags
WHERE btrim(coalesce(name, '')) <> ''
GROUP BY lower(btrim(name))
HAVING count(*) > 1
ORDER BY min(id)`,

	domain.ProcCompaniesWithoutContacts: `
SELECT c.id, c.name
FROM companies c
WHERE NOT EXISTS (SELECT 1 FROM contacts ct WHERE ct.company_id = c.id)
ORDER BY c.id`,

	domain.ProcDealContactCompanyMismatches: `
SELECT d.id AS deal_id, d.name AS deal_name, d.company_id AS deal_company_id,
       c.id AS contact_id, c.company_id AS contact_company_id
FROM deals d
CROSS JOIN LATERAL unnest(d.contact_ids) AS u(contact_id)
JOIN contacts c ON c.id = u.contact_id
WHERE c.company_id IS DISTINCT FROM d.company_id
ORDER BY d.id, c.id`,
}
