package domain

import (
	"context"
	"errors"
)

// ErrRelationNotFound is returned by a RecordSource for a table or procedure
// it does not know.
var ErrRelationNotFound = errors.New("relation not found")

// Tables of the dataset under migration.
const (
	TableCompanies    = "companies"
	TableContacts     = "contacts"
	TableDeals        = "deals"
	TableContactNotes = "contactNotes"
	TableDealNotes    = "dealNotes"
	TableTasks        = "tasks"
	TableTags         = "tags"
	TableUsers        = "auth.users"
)

// Pre-defined aggregate procedures. The documented columns are what every
// RecordSource must return for each row.
const (
	// id, name, company_id of deals whose company does not exist.
	ProcOrphanedDeals = "check_orphaned_deals"
	// id, contact_id of contact notes whose contact does not exist.
	ProcOrphanedContactNotes = "check_orphaned_contact_notes"
	// id, deal_id of deal notes whose deal does not exist.
	ProcOrphanedDealNotes = "check_orphaned_deal_notes"
	// name, count, ids per group of companies sharing NormalizeCompanyName.
	ProcDuplicateCompanyNames = "find_duplicate_company_names"
	// email, company_id, contact_ids per primary email shared within a company.
	ProcDuplicateContactEmails = "find_duplicate_contact_emails"
	// name, company_id, count per deal name repeated within a company.
	ProcDuplicateDealNames = "find_duplicate_deal_names"
	// name, count, ids per case-insensitive tag name.
	ProcDuplicateTagNames = "find_duplicate_tag_names"
	// id, name of companies without contacts.
	ProcCompaniesWithoutContacts = "find_companies_without_contacts"
	// deal_id, deal_name, deal_company_id, contact_id, contact_company_id
	// for every deal contact attached to another company.
	ProcDealContactCompanyMismatches = "find_deal_contact_company_mismatches"
)

// Procedures lists every procedure a RecordSource must support.
var Procedures = []string{
	ProcOrphanedDeals,
	ProcOrphanedContactNotes,
	ProcOrphanedDealNotes,
	ProcDuplicateCompanyNames,
	ProcDuplicateContactEmails,
	ProcDuplicateDealNames,
	ProcDuplicateTagNames,
	ProcCompaniesWithoutContacts,
	ProcDealContactCompanyMismatches,
}

// FilterOp is a Query filter operator.
type FilterOp string

const (
	OpEq      FilterOp = "eq"
	OpNeq     FilterOp = "neq"
	OpIsNull  FilterOp = "is-null"
	OpNotNull FilterOp = "not-null"
	// OpBlank matches null values and text that is empty after trimming.
	OpBlank FilterOp = "blank"
	OpIn    FilterOp = "in"
	// OpNotIn matches non-null values outside Values.
	OpNotIn FilterOp = "not-in"
	// OpContains matches array fields holding Value.
	OpContains FilterOp = "contains"
)

// Filter restricts a Query on one field.
type Filter struct {
	Field  string
	Op     FilterOp
	Value  any
	Values []any
}

// Filter constructors. The validators and assessor need only a subset; Eq,
// Neq, In and Contains complete the RecordSource filter contract that both
// adapters implement and test.
func Eq(field string, value any) Filter        { return Filter{Field: field, Op: OpEq, Value: value} }
func Neq(field string, value any) Filter       { return Filter{Field: field, Op: OpNeq, Value: value} }
func IsNull(field string) Filter               { return Filter{Field: field, Op: OpIsNull} }
func NotNull(field string) Filter              { return Filter{Field: field, Op: OpNotNull} }
func Blank(field string) Filter                { return Filter{Field: field, Op: OpBlank} }
func In(field string, values ...any) Filter    { return Filter{Field: field, Op: OpIn, Values: values} }
func NotIn(field string, values ...any) Filter { return Filter{Field: field, Op: OpNotIn, Values: values} }
func Contains(field string, value any) Filter  { return Filter{Field: field, Op: OpContains, Value: value} }

// Query is a filtered select with column projection. Filters are combined
// with AND, or with OR when AnyOf is set. A zero Limit means no limit.
type Query struct {
	Table   string
	Columns []string
	Filters []Filter
	AnyOf   bool
	Limit   int
}

// From starts a query on table projecting columns.
func From(table string, columns ...string) Query {
	return Query{Table: table, Columns: columns}
}

// Where returns q with the filters ANDed.
func (q Query) Where(filters ...Filter) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), filters...)
	return q
}

// WhereAny returns q with the filters ORed.
func (q Query) WhereAny(filters ...Filter) Query {
	q = q.Where(filters...)
	q.AnyOf = true
	return q
}

// RecordSource is the read-only data store under migration. An empty result
// is a zero-count answer, never an error.
type RecordSource interface {
	Select(ctx context.Context, q Query) ([]Record, error)
	Call(ctx context.Context, procedure string) ([]Record, error)
	Ping(ctx context.Context) error
}

// ReadinessProbe checks the environment a migration would run in.
type ReadinessProbe interface {
	Check(ctx context.Context) (SystemChecks, error)
}

// ConfigLoader loads project configuration from a directory.
type ConfigLoader interface {
	Load(projectPath string) (Config, error)
}

// ReportStore persists detailed readiness reports.
type ReportStore interface {
	Save(projectPath string, report *ReadinessReport) (string, error)
	Latest(projectPath string) (*ReadinessReport, error)
}

// DecisionHistory persists one entry per evaluation.
type DecisionHistory interface {
	Save(projectPath string, entry DecisionEntry) error
	Load(projectPath string) ([]DecisionEntry, error)
}

// DirtySuffix marks a commit hash whose worktree has uncommitted changes.
const DirtySuffix = "-dirty"

// GitInfo reads repository metadata of the migration scripts.
type GitInfo interface {
	IsGitRepo(path string) bool
	CommitHash(path string) (string, error)
}

// ProgressManager reports evaluation progress to an operator.
type ProgressManager interface {
	StartTask(description string, total int) TaskProgress
	IsInteractive() bool
	Close()
}

// TaskProgress tracks one running task.
type TaskProgress interface {
	Increment(n int)
	Describe(description string)
	Complete()
}
