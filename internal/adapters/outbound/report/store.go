// Package report persists detailed readiness reports, one file per run.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/migrakit/migrakit/internal/domain"
	"gopkg.in/yaml.v3"
)

const (
	filePrefix      = "migration-go-no-go-"
	timestampLayout = "2006-01-02T15-04-05Z"
)

// Store is a file-based implementation of domain.ReportStore.
type Store struct {
	dir    string
	format string
}

// New creates a store writing to dir in the given format. A relative dir is
// anchored at the project path passed to Save and Latest.
func New(dir, format string) *Store {
	if format == "" {
		format = domain.FormatJSON
	}
	return &Store{dir: dir, format: format}
}

// Encode serializes a report in the given format.
func Encode(report *domain.ReadinessReport, format string) ([]byte, error) {
	switch format {
	case domain.FormatYAML:
		return yaml.Marshal(report)
	case domain.FormatJSON, "":
		return json.MarshalIndent(report, "", "  ")
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}

// Save writes the report and returns the path of the new file.
func (s *Store) Save(projectPath string, report *domain.ReadinessReport) (string, error) {
	dir := s.reportDir(projectPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating report dir: %w", err)
	}

	data, err := Encode(report, s.format)
	if err != nil {
		return "", err
	}

	name := filePrefix + report.Timestamp.UTC().Format(timestampLayout) + "." + s.format
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}

// Latest reads the most recent report. Returns (nil, nil) if none exists.
func (s *Store) Latest(projectPath string) (*domain.ReadinessReport, error) {
	dir := s.reportDir(projectPath)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), filePrefix) {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, nil
	}
	slices.Sort(names)
	latest := names[len(names)-1]

	data, err := os.ReadFile(filepath.Join(dir, latest))
	if err != nil {
		return nil, err
	}

	var report domain.ReadinessReport
	switch filepath.Ext(latest) {
	case ".yaml":
		err = yaml.Unmarshal(data, &report)
	default:
		err = json.Unmarshal(data, &report)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", latest, err)
	}
	return &report, nil
}

func (s *Store) reportDir(projectPath string) string {
	if filepath.IsAbs(s.dir) {
		return s.dir
	}
	return filepath.Join(projectPath, s.dir)
}
