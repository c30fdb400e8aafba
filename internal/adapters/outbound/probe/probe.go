// Package probe checks the environment a migration would run in: the data
// source, local disk, backups, migration scripts and table permissions.
package probe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/migrakit/migrakit/internal/domain"
	"github.com/migrakit/migrakit/internal/log"
)

// Probe implements domain.ReadinessProbe. Checks whose configuration is
// missing are left out of the result rather than reported as failed.
type Probe struct {
	source domain.RecordSource
	git    domain.GitInfo
	cfg    domain.ReadinessConfig
	now    func() time.Time
	free   func(path string) (uint64, error)
}

type Option func(*Probe)

// WithClock overrides the clock used to age backups.
func WithClock(now func() time.Time) Option {
	return func(p *Probe) { p.now = now }
}

// WithFreeSpace overrides the free disk space lookup.
func WithFreeSpace(free func(path string) (uint64, error)) Option {
	return func(p *Probe) { p.free = free }
}

func New(src domain.RecordSource, git domain.GitInfo, cfg domain.ReadinessConfig, opts ...Option) *Probe {
	p := &Probe{source: src, git: git, cfg: cfg, now: time.Now, free: FreeBytes}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Probe) Check(ctx context.Context) (domain.SystemChecks, error) {
	checks := domain.SystemChecks{}

	checks[domain.CheckDatabaseConnection] = p.databaseConnection(ctx)
	checks[domain.CheckDiskSpace] = p.diskSpace()
	// an unconfigured backup dir is an unverified backup
	checks[domain.CheckBackupStatus] = p.cfg.BackupDir != "" && p.backupStatus()
	if p.cfg.MigrationsDir != "" {
		checks[domain.CheckMigrationScripts] = p.migrationScripts()
	}
	if len(p.cfg.RequiredTables) > 0 && checks[domain.CheckDatabaseConnection] {
		checks[domain.CheckPermissions] = p.permissions(ctx)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return checks, nil
}

func (p *Probe) databaseConnection(ctx context.Context) bool {
	if err := p.source.Ping(ctx); err != nil {
		log.Warn("readiness: data source unreachable", "error", err)
		return false
	}
	return true
}

func (p *Probe) diskSpace() bool {
	free, err := p.free(p.cfg.DataDir)
	if err != nil {
		log.Warn("readiness: free disk space unknown", "path", p.cfg.DataDir, "error", err)
		return false
	}
	log.Debug("readiness: free disk space", "path", p.cfg.DataDir, "bytes", free, "required", p.cfg.MinFreeDiskBytes)
	return free >= p.cfg.MinFreeDiskBytes
}

// backupStatus holds when the newest file in BackupDir is younger than
// BackupMaxAge.
func (p *Probe) backupStatus() bool {
	entries, err := os.ReadDir(p.cfg.BackupDir)
	if err != nil {
		log.Warn("readiness: backup dir unreadable", "path", p.cfg.BackupDir, "error", err)
		return false
	}
	var newest time.Time
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(newest) {
			newest = info.ModTime()
		}
	}
	if newest.IsZero() {
		return false
	}
	return p.now().Sub(newest) <= p.cfg.BackupMaxAge
}

// migrationScripts holds when MigrationsDir contains .sql files and, inside a
// git repository, they are all committed.
func (p *Probe) migrationScripts() bool {
	scripts, err := filepath.Glob(filepath.Join(p.cfg.MigrationsDir, "*.sql"))
	if err != nil || len(scripts) == 0 {
		return false
	}
	if p.git == nil || !p.git.IsGitRepo(p.cfg.MigrationsDir) {
		return true
	}
	hash, err := p.git.CommitHash(p.cfg.MigrationsDir)
	if err != nil {
		log.Warn("readiness: migration scripts revision unknown", "error", err)
		return false
	}
	return !strings.HasSuffix(hash, domain.DirtySuffix)
}

func (p *Probe) permissions(ctx context.Context) bool {
	for _, table := range p.cfg.RequiredTables {
		if _, err := p.source.Select(ctx, domain.Query{Table: table, Limit: 1}); err != nil {
			if !errors.Is(err, context.Canceled) {
				log.Warn("readiness: table not readable", "table", table, "error", err)
			}
			return false
		}
	}
	return true
}
