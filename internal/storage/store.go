package storage

import (
	"context"
	"fmt"

	"brandpulse/internal"
	"brandpulse/internal/config"
)

// TableStore is the analytical warehouse collaborator. Table ids are fully
// qualified as <project>.<dataset>.<table>; every write is an append.
type TableStore interface {
	AppendResponses(ctx context.Context, tableID string, rows []internal.ResponseRow) (int, error)
	AppendAggregates(ctx context.Context, tableID string, rows []internal.AggregatedRow) (int, error)
	AppendProcessedFile(ctx context.Context, tableID string, rec internal.ProcessedFileRecord) error
	HasProcessedFile(ctx context.Context, tableID, filename string) (bool, error)
	Close() error
}

// Open constructs the table store selected by configuration.
func Open(cfg config.Config) (TableStore, error) {
	switch cfg.StoreDriver {
	case "sqlite":
		return OpenSQLite(cfg.DBPath)
	case "postgres":
		if err := cfg.Require("POSTGRES_DSN", cfg.PostgresDSN); err != nil {
			return nil, err
		}
		return OpenPostgres(cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", cfg.StoreDriver)
	}
}
