// Package source opens the record source a project configures.
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/migrakit/migrakit/internal/adapters/outbound/dataset"
	"github.com/migrakit/migrakit/internal/adapters/outbound/postgres"
	"github.com/migrakit/migrakit/internal/domain"
)

// ErrNoDatabaseURL is returned when the postgres driver has no URL to use.
var ErrNoDatabaseURL = errors.New("source.database_url is not set (or set MIGRAKIT_DATABASE_URL)")

// Open returns the record source of cfg and a func releasing it.
func Open(ctx context.Context, cfg domain.SourceConfig) (domain.RecordSource, func(), error) {
	switch cfg.Driver {
	case domain.DriverDataset:
		src, err := dataset.Load(cfg.Dataset)
		if err != nil {
			return nil, nil, err
		}
		return src, func() {}, nil
	case domain.DriverPostgres, "":
		if cfg.DatabaseURL == "" {
			return nil, nil, ErrNoDatabaseURL
		}
		src, err := postgres.Open(ctx, cfg.DatabaseURL, cfg.QueryTimeout)
		if err != nil {
			return nil, nil, err
		}
		return src, src.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown source driver %q", cfg.Driver)
	}
}
