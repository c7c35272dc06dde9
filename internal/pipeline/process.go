package pipeline

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"brandpulse/internal"
	"brandpulse/internal/config"
	"brandpulse/internal/geo"
	"brandpulse/internal/objstore"
	"brandpulse/internal/storage"
	"brandpulse/internal/tracker"
	"brandpulse/internal/util"
)

// Response table names, per survey type.
const (
	TableBrandResponses  = "brand_responses"
	TableCustomResponses = "custom_responses"
)

type Processor struct {
	store   storage.TableStore
	tracker *tracker.Tracker
	objects objstore.ObjectStore
	cfg     config.Config
	log     *util.Logger
}

func NewProcessor(store storage.TableStore, trk *tracker.Tracker, objects objstore.ObjectStore, cfg config.Config, log *util.Logger) *Processor {
	return &Processor{store: store, tracker: trk, objects: objects, cfg: cfg, log: log}
}

// Result is the outcome of one archive run. Tables holds the aggregate
// rows produced during the run, keyed by bare table name, for callers that
// export a run summary.
type Result struct {
	Summary internal.ArchiveSummary
	Tables  map[string][]internal.AggregatedRow
}

// ProcessUpload fetches an uploaded object and runs the archive pipeline
// on it. Non-zip keys are skipped without downloading.
func (p *Processor) ProcessUpload(ctx context.Context, bucket, key string) (Result, error) {
	if !strings.HasSuffix(strings.ToLower(key), ".zip") {
		p.log.Info("skipping non-zip upload: %s", key)
		return Result{Summary: internal.ArchiveSummary{Status: internal.StatusSkipped, Reason: "not_zip_file"}}, nil
	}

	exists, err := p.objects.Exists(ctx, bucket, key)
	if err != nil {
		return Result{}, fmt.Errorf("check object %s/%s: %w", bucket, key, err)
	}
	if !exists {
		return Result{}, fmt.Errorf("object not found: %s/%s", bucket, key)
	}

	body, err := p.objects.Fetch(ctx, bucket, key)
	if err != nil {
		return Result{}, fmt.Errorf("fetch object %s/%s: %w", bucket, key, err)
	}
	defer body.Close()

	tmpDir, err := os.MkdirTemp("", "brandpulse-*")
	if err != nil {
		return Result{}, err
	}
	defer os.RemoveAll(tmpDir)

	zipPath := filepath.Join(tmpDir, "survey.zip")
	f, err := os.Create(zipPath)
	if err != nil {
		return Result{}, err
	}
	if _, err := io.Copy(f, body); err != nil {
		_ = f.Close()
		return Result{}, fmt.Errorf("download %s/%s: %w", bucket, key, err)
	}
	if err := f.Close(); err != nil {
		return Result{}, err
	}

	return p.ProcessArchiveFile(ctx, zipPath, filepath.Base(key))
}

// ProcessArchiveFile runs the pipeline on a local archive. originalName is
// the upload's object key basename; geography, survey type and survey date
// are all derived from it, not from the temp path.
func (p *Processor) ProcessArchiveFile(ctx context.Context, zipPath, originalName string) (Result, error) {
	start := time.Now()

	surveyType := internal.SurveyCustom
	if strings.Contains(originalName, "Brand Tracker") {
		surveyType = internal.SurveyBrandTracker
	}
	p.log.Info("processing %s archive: %s", surveyType, originalName)

	resolution := geo.ResolveGeo(originalName)
	if resolution.DMA == geo.UnknownDMA {
		p.log.Warn("could not resolve DMA from archive name: %s", originalName)
	}

	archive, err := zip.OpenReader(zipPath)
	if err != nil {
		return Result{}, fmt.Errorf("open archive %s: %w", originalName, err)
	}
	defer archive.Close()

	entries := csvEntries(archive)
	if len(entries) == 0 {
		return Result{}, fmt.Errorf("no CSV files found in %s", originalName)
	}
	p.log.Info("found %d CSV files in archive", len(entries))

	summary := internal.ArchiveSummary{
		Status:            internal.StatusSuccess,
		SurveyType:        surveyType,
		CSVFilesProcessed: []string{},
		CSVFilesSkipped:   []string{},
		TablesUpdated:     []string{},
		RecordsAdded:      map[string]int{},
	}
	result := Result{Summary: summary, Tables: map[string][]internal.AggregatedRow{}}

	meta := fileMeta{
		SurveyType:    surveyType,
		Geo:           resolution,
		SurveyDate:    geo.ResolveSurveyDate(originalName),
		ProcessedDate: time.Now().Format("2006-01-02"),
	}

	for _, entry := range entries {
		csvName := filepath.Base(entry.Name)

		if p.tracker.IsProcessed(ctx, csvName, surveyType) {
			p.log.Info("already processed, skipping: %s", csvName)
			result.Summary.CSVFilesSkipped = append(result.Summary.CSVFilesSkipped, csvName)
			continue
		}

		// One bad file must not sink its siblings.
		if err := p.processEntry(ctx, entry, csvName, meta, &result); err != nil {
			p.log.Error("failed to process CSV %s: %v", csvName, err)
			continue
		}
		result.Summary.CSVFilesProcessed = append(result.Summary.CSVFilesProcessed, csvName)
	}

	p.log.Info("archive done in %.1fs: processed=%d skipped=%d tables=%v",
		time.Since(start).Seconds(), len(result.Summary.CSVFilesProcessed),
		len(result.Summary.CSVFilesSkipped), result.Summary.TablesUpdated)
	return result, nil
}

// processEntry parses, aggregates and appends one CSV, then records it in
// the ledger. Rows for one file are held in memory only for the duration
// of this call.
func (p *Processor) processEntry(ctx context.Context, entry *zip.File, csvName string, meta fileMeta, result *Result) error {
	meta.StudyNumber = geo.ResolveStudyID(csvName)

	reader, err := entry.Open()
	if err != nil {
		return fmt.Errorf("open entry: %w", err)
	}
	rows, err := parseResponses(reader, meta)
	_ = reader.Close()
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data rows")
	}
	p.log.Info("loaded %d rows from %s", len(rows), csvName)

	responsesTable := TableBrandResponses
	tableID := func(table string) string { return p.cfg.BrandTableID(table) }
	if meta.SurveyType == internal.SurveyCustom {
		responsesTable = TableCustomResponses
		tableID = func(table string) string { return p.cfg.CustomTableID(table) }
	}

	count, err := p.appendResponses(ctx, tableID(responsesTable), rows)
	if err != nil {
		return fmt.Errorf("append %s: %w", responsesTable, err)
	}
	recordAdded(&result.Summary, responsesTable, count)

	for table, aggregated := range BuildQuestionTables(meta.SurveyType, rows) {
		count, err := p.appendAggregates(ctx, tableID(table), aggregated)
		if err != nil {
			return fmt.Errorf("append %s: %w", table, err)
		}
		recordAdded(&result.Summary, table, count)
		result.Tables[table] = append(result.Tables[table], aggregated...)
	}

	record := internal.ProcessedFileRecord{
		Filename:        csvName,
		SurveyType:      meta.SurveyType,
		GroupType:       meta.Geo.GroupType,
		GroupNumber:     meta.Geo.GroupNumber,
		Q1ResponseCount: countAnswered(rows, func(r internal.ResponseRow) string { return r.Q1Answer }),
		Q2ResponseCount: countAnswered(rows, func(r internal.ResponseRow) string { return r.Q2Answer }),
		Q3ResponseCount: countAnswered(rows, func(r internal.ResponseRow) string { return r.Q3Answer }),
		ProcessedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	if err := p.tracker.MarkProcessed(ctx, record); err != nil {
		// The rows are already durably appended; a redelivery will
		// re-check the ledger and at worst re-count this file.
		p.log.Error("failed to mark %s processed: %v", csvName, err)
	}

	return nil
}

// appendResponses retries a failed append once with the essential columns
// only, answers stripped, before surfacing the failure.
func (p *Processor) appendResponses(ctx context.Context, tableID string, rows []internal.ResponseRow) (int, error) {
	count, err := p.store.AppendResponses(ctx, tableID, rows)
	if err == nil {
		return count, nil
	}
	p.log.Warn("append to %s failed (%v), retrying with essential columns", tableID, err)

	essential := make([]internal.ResponseRow, len(rows))
	for i, r := range rows {
		r.RecordedTimestamp = ""
		r.Q1Answer, r.Q2Answer, r.Q3Answer = "", "", ""
		r.Q1Cleaned, r.Q2Cleaned = "", ""
		essential[i] = r
	}
	return p.store.AppendResponses(ctx, tableID, essential)
}

func (p *Processor) appendAggregates(ctx context.Context, tableID string, rows []internal.AggregatedRow) (int, error) {
	count, err := p.store.AppendAggregates(ctx, tableID, rows)
	if err == nil {
		return count, nil
	}
	p.log.Warn("append to %s failed (%v), retrying with essential columns", tableID, err)

	essential := make([]internal.AggregatedRow, len(rows))
	for i, r := range rows {
		r.SurveyDates = ""
		r.Answer = ""
		r.CountResponse = 0
		r.WeightedResponse = 0
		essential[i] = r
	}
	return p.store.AppendAggregates(ctx, tableID, essential)
}

func recordAdded(summary *internal.ArchiveSummary, table string, count int) {
	if _, ok := summary.RecordsAdded[table]; !ok {
		summary.TablesUpdated = append(summary.TablesUpdated, table)
	}
	summary.RecordsAdded[table] += count
}

func countAnswered(rows []internal.ResponseRow, answer func(internal.ResponseRow) string) int {
	count := 0
	for _, row := range rows {
		if answer(row) != "" {
			count++
		}
	}
	return count
}

// csvEntries lists the archive's CSV members, ignoring directories and
// resource-fork junk some zip tools add.
func csvEntries(archive *zip.ReadCloser) []*zip.File {
	var out []*zip.File
	for _, entry := range archive.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		name := filepath.Base(entry.Name)
		if strings.HasPrefix(entry.Name, "__MACOSX/") || strings.HasPrefix(name, ".") {
			continue
		}
		if strings.EqualFold(filepath.Ext(name), ".csv") {
			out = append(out, entry)
		}
	}
	return out
}
