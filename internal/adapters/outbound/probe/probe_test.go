package probe_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/migrakit/migrakit/internal/adapters/outbound/dataset"
	"github.com/migrakit/migrakit/internal/adapters/outbound/probe"
	"github.com/migrakit/migrakit/internal/domain"
	"github.com/migrakit/migrakit/internal/domain/decision"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 2, 25, 12, 0, 0, 0, time.UTC)

type stubGit struct {
	repo bool
	hash string
	err  error
}

func (g stubGit) IsGitRepo(string) bool             { return g.repo }
func (g stubGit) CommitHash(string) (string, error) { return g.hash, g.err }

type downSource struct{ domain.RecordSource }

func (downSource) Ping(context.Context) error { return errors.New("connection refused") }

func source() domain.RecordSource {
	return dataset.New(map[string][]domain.Record{
		domain.TableCompanies: {{"id": 1}},
		domain.TableContacts:  {},
		domain.TableDeals:     {},
	})
}

func plenty(string) (uint64, error) { return 100 << 30, nil }

// readyEnv returns a config whose backup and migration checks all pass.
func readyEnv(t *testing.T) domain.ReadinessConfig {
	t.Helper()
	backups := t.TempDir()
	backup := filepath.Join(backups, "crm-2026-02-25.dump")
	require.NoError(t, os.WriteFile(backup, []byte("dump"), 0o644))
	require.NoError(t, os.Chtimes(backup, now.Add(-2*time.Hour), now.Add(-2*time.Hour)))

	migrations := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(migrations, "001_init.sql"), []byte("select 1;"), 0o644))

	cfg := domain.DefaultConfig().Readiness
	cfg.DataDir = t.TempDir()
	cfg.BackupDir = backups
	cfg.MigrationsDir = migrations
	return cfg
}

func TestProbe_AllReady(t *testing.T) {
	p := probe.New(source(), stubGit{}, readyEnv(t), probe.WithClock(func() time.Time { return now }), probe.WithFreeSpace(plenty))

	checks, err := p.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.SystemChecks{
		domain.CheckDatabaseConnection: true,
		domain.CheckDiskSpace:          true,
		domain.CheckBackupStatus:       true,
		domain.CheckMigrationScripts:   true,
		domain.CheckPermissions:        true,
	}, checks)
}

func TestProbe_UnconfiguredChecksAreOmitted(t *testing.T) {
	cfg := domain.ReadinessConfig{DataDir: t.TempDir()}
	checks, err := probe.New(source(), nil, cfg, probe.WithFreeSpace(plenty)).Check(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.SystemChecks{
		domain.CheckDatabaseConnection: true,
		domain.CheckDiskSpace:          true,
		domain.CheckBackupStatus:       false,
	}, checks)
}

func TestProbe_NoBackupDirIsUnverified(t *testing.T) {
	cfg := readyEnv(t)
	cfg.BackupDir = ""

	checks, err := probe.New(source(), stubGit{}, cfg, probe.WithFreeSpace(plenty)).Check(context.Background())
	require.NoError(t, err)
	require.Contains(t, checks, domain.CheckBackupStatus)
	assert.False(t, checks[domain.CheckBackupStatus])
}

func TestProbe_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *domain.ReadinessConfig)
		src    domain.RecordSource
		git    domain.GitInfo
		free   func(string) (uint64, error)
		failed string
	}{
		{
			name:   "source down",
			src:    downSource{source()},
			failed: domain.CheckDatabaseConnection,
		},
		{
			name:   "low disk",
			free:   func(string) (uint64, error) { return 1 << 20, nil },
			failed: domain.CheckDiskSpace,
		},
		{
			name:   "disk lookup error",
			free:   func(string) (uint64, error) { return 0, errors.New("statfs") },
			failed: domain.CheckDiskSpace,
		},
		{
			name:   "stale backup",
			mutate: func(cfg *domain.ReadinessConfig) { cfg.BackupMaxAge = time.Hour },
			failed: domain.CheckBackupStatus,
		},
		{
			name:   "missing backup dir",
			mutate: func(cfg *domain.ReadinessConfig) { cfg.BackupDir = filepath.Join(cfg.BackupDir, "nope") },
			failed: domain.CheckBackupStatus,
		},
		{
			name:   "no scripts",
			mutate: func(cfg *domain.ReadinessConfig) { cfg.MigrationsDir = cfg.DataDir },
			failed: domain.CheckMigrationScripts,
		},
		{
			name:   "uncommitted scripts",
			git:    stubGit{repo: true, hash: "abc" + domain.DirtySuffix},
			failed: domain.CheckMigrationScripts,
		},
		{
			name:   "unknown revision",
			git:    stubGit{repo: true, err: errors.New("no HEAD")},
			failed: domain.CheckMigrationScripts,
		},
		{
			name:   "unreadable table",
			mutate: func(cfg *domain.ReadinessConfig) { cfg.RequiredTables = append(cfg.RequiredTables, domain.TableUsers) },
			failed: domain.CheckPermissions,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := readyEnv(t)
			if tt.mutate != nil {
				tt.mutate(&cfg)
			}
			src := tt.src
			if src == nil {
				src = source()
			}
			git := tt.git
			if git == nil {
				git = stubGit{repo: true, hash: "0123456789abcdef0123456789abcdef01234567"}
			}
			free := tt.free
			if free == nil {
				free = plenty
			}

			checks, err := probe.New(src, git, cfg, probe.WithClock(func() time.Time { return now }), probe.WithFreeSpace(free)).
				Check(context.Background())
			require.NoError(t, err)

			for name, ok := range checks {
				assert.Equal(t, name != tt.failed, ok, name)
			}
			assert.Contains(t, checks, tt.failed)
		})
	}
}

func TestProbe_SourceDownSkipsPermissions(t *testing.T) {
	checks, err := probe.New(downSource{source()}, nil, readyEnv(t), probe.WithFreeSpace(plenty)).Check(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, checks, domain.CheckPermissions)
}

func TestProbe_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := probe.New(source(), nil, readyEnv(t), probe.WithFreeSpace(plenty)).Check(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFreeBytes(t *testing.T) {
	free, err := probe.FreeBytes(t.TempDir())
	require.NoError(t, err)
	assert.Positive(t, free)
}

func TestProbe_NoBackupDirProceedsWithCaution(t *testing.T) {
	src, err := dataset.Load(filepath.Join("..", "..", "..", "..", "testdata", "datasets", "clean.yaml"))
	require.NoError(t, err)
	cfg := domain.ReadinessConfig{DataDir: t.TempDir()}

	engine := decision.NewEngine(domain.DefaultConfig().Criteria,
		decision.ComponentsFor(src, probe.New(src, nil, cfg, probe.WithFreeSpace(plenty))))
	report, err := engine.EvaluateMigrationReadiness(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.RecommendProceedWithCaution, report.Decision.Recommendation)
	assert.Empty(t, report.Decision.Blockers)
	require.Len(t, report.Decision.Warnings, 1)
	assert.Equal(t, decision.FindingBackupStatus, report.Decision.Warnings[0].Type)
	assert.Less(t, report.Decision.Confidence, 100)
}
