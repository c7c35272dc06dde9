// Package tracker is the idempotency ledger: it remembers which source CSV
// files have already been folded into the warehouse so a re-delivered
// archive becomes a no-op.
package tracker

import (
	"context"

	"brandpulse/internal"
	"brandpulse/internal/config"
	"brandpulse/internal/util"
)

const (
	brandLedgerTable  = "processed_brand_surveys"
	customLedgerTable = "processed_custom_surveys"
)

type Tracker struct {
	store storage
	log   *util.Logger

	brandTableID  string
	customTableID string
}

// storage is the slice of the table store the ledger needs.
type storage interface {
	AppendProcessedFile(ctx context.Context, tableID string, rec internal.ProcessedFileRecord) error
	HasProcessedFile(ctx context.Context, tableID, filename string) (bool, error)
}

func New(store storage, cfg config.Config, log *util.Logger) *Tracker {
	return &Tracker{
		store:         store,
		log:           log,
		brandTableID:  cfg.BrandTableID(brandLedgerTable),
		customTableID: cfg.CustomTableID(customLedgerTable),
	}
}

func (t *Tracker) tableFor(surveyType internal.SurveyType) string {
	if surveyType == internal.SurveyBrandTracker {
		return t.brandTableID
	}
	return t.customTableID
}

// IsProcessed reports whether a CSV has already been folded in. The raw CSV
// filename is the ledger key, for both this check and MarkProcessed. When
// the store cannot be reached the file is assumed unprocessed: duplicate
// work beats silently dropping data.
func (t *Tracker) IsProcessed(ctx context.Context, filename string, surveyType internal.SurveyType) bool {
	processed, err := t.store.HasProcessedFile(ctx, t.tableFor(surveyType), filename)
	if err != nil {
		t.log.Error("ledger check failed for %s, assuming unprocessed: %v", filename, err)
		return false
	}
	return processed
}

// MarkProcessed records a CSV in the ledger. Callers invoke this only after
// every row for the file has been durably appended, so a crash in between
// re-processes the file rather than losing it.
func (t *Tracker) MarkProcessed(ctx context.Context, rec internal.ProcessedFileRecord) error {
	return t.store.AppendProcessedFile(ctx, t.tableFor(rec.SurveyType), rec)
}
