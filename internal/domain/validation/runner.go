// Package validation implements the constraint validators that scan the
// dataset under migration: referential integrity, unique constraints and
// required fields.
package validation

import (
	"context"
	"fmt"

	"github.com/migrakit/migrakit/internal/domain"
	"github.com/migrakit/migrakit/internal/log"
)

// Findings collects the output of a single check.
type Findings struct {
	Violations []domain.Violation
	Warnings   []domain.Violation
}

func (f *Findings) Violation(v domain.Violation) { f.Violations = append(f.Violations, v) }
func (f *Findings) Warning(v domain.Violation)   { f.Warnings = append(f.Warnings, v) }

// Check is one named, independent unit of a validator.
type Check struct {
	Name string
	Run  func(ctx context.Context, src domain.RecordSource, f *Findings) error
}

// RunChecks executes checks in order. A check that errors or panics
// contributes exactly one CRITICAL SYSTEM_ERROR violation named after it and
// none of its partial findings; later checks still run.
func RunChecks(ctx context.Context, src domain.RecordSource, checks []Check) (violations, warnings []domain.Violation) {
	for _, c := range checks {
		log.Debug("running check", "check", c.Name)
		f, err := runIsolated(ctx, src, c)
		if err != nil {
			log.Warn("check failed", "check", c.Name, "error", err)
			violations = append(violations, SystemError(c.Name, err))
			continue
		}
		violations = append(violations, f.Violations...)
		warnings = append(warnings, f.Warnings...)
	}
	return violations, warnings
}

func runIsolated(ctx context.Context, src domain.RecordSource, c Check) (f *Findings, err error) {
	defer func() {
		if r := recover(); r != nil {
			f, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	f = &Findings{}
	if err := c.Run(ctx, src, f); err != nil {
		return nil, err
	}
	return f, nil
}

// SystemError is the finding recorded in place of a failed check.
func SystemError(check string, err error) domain.Violation {
	return domain.NewViolation(domain.KindSystemError, check, domain.SeverityCritical,
		"Validation check failed: "+err.Error(), 1, nil)
}

// Validator runs an ordered list of checks against a RecordSource. It holds
// no findings between runs.
type Validator struct {
	name      string
	source    domain.RecordSource
	checks    []Check
	recommend func(violations, warnings []domain.Violation) []domain.RemediationAction
}

func (v *Validator) Name() string { return v.name }

// CheckNames returns the names of the checks in execution order.
func (v *Validator) CheckNames() []string {
	names := make([]string, len(v.checks))
	for i, c := range v.checks {
		names[i] = c.Name
	}
	return names
}

// ValidateAll builds a fresh report. The error is reserved for a source that
// cannot be reached before any check runs.
func (v *Validator) ValidateAll(ctx context.Context) (*domain.ValidationReport, error) {
	if err := v.source.Ping(ctx); err != nil {
		return nil, fmt.Errorf("%s: record source unreachable: %w", v.name, err)
	}
	violations, warnings := RunChecks(ctx, v.source, v.checks)
	log.Debug("validator finished", "validator", v.name,
		"violations", len(violations), "warnings", len(warnings))
	return domain.NewValidationReport(v.name, violations, warnings, v.recommend(violations, warnings)), nil
}

// New returns the validator registered under name.
func New(name string, src domain.RecordSource) (*Validator, error) {
	switch name {
	case domain.ValidatorReferentialIntegrity:
		return NewReferentialIntegrity(src), nil
	case domain.ValidatorUniqueConstraints:
		return NewUniqueConstraints(src), nil
	case domain.ValidatorRequiredFields:
		return NewRequiredFields(src), nil
	default:
		return nil, fmt.Errorf("unknown validator %q", name)
	}
}

// Names lists the validators in evaluation order.
var Names = []string{
	domain.ValidatorReferentialIntegrity,
	domain.ValidatorUniqueConstraints,
	domain.ValidatorRequiredFields,
}

func hasViolation(vs []domain.Violation, match func(domain.Violation) bool) bool {
	for _, v := range vs {
		if match(v) {
			return true
		}
	}
	return false
}

// idSet selects the ids of a table into a set.
func idSet(ctx context.Context, src domain.RecordSource, table string) (map[string]bool, error) {
	rows, err := src.Select(ctx, domain.From(table, "id"))
	if err != nil {
		return nil, fmt.Errorf("selecting %s ids: %w", table, err)
	}
	set := make(map[string]bool, len(rows))
	for _, r := range rows {
		set[r.ID("id")] = true
	}
	return set, nil
}

func callProc(ctx context.Context, src domain.RecordSource, proc string) ([]domain.Record, error) {
	rows, err := src.Call(ctx, proc)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", proc, err)
	}
	return rows, nil
}

func selectRows(ctx context.Context, src domain.RecordSource, q domain.Query) ([]domain.Record, error) {
	rows, err := src.Select(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("selecting %s: %w", q.Table, err)
	}
	return rows, nil
}

func fullName(r domain.Record) string {
	return r.Text("first_name") + " " + r.Text("last_name")
}
