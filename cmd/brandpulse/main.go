package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"brandpulse/internal/config"
	"brandpulse/internal/notify"
	"brandpulse/internal/objstore"
	"brandpulse/internal/pipeline"
	"brandpulse/internal/storage"
	"brandpulse/internal/tracker"
	"brandpulse/internal/util"
)

func main() {
	cfg, err := config.Load()
	must(err)
	log := util.NewLogger()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	switch cmd {
	case "process":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		bucket := fs.String("bucket", "", "bucket holding the uploaded archive")
		key := fs.String("key", "", "object key of the archive")
		export := fs.String("export", "", "optional run-summary xlsx path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*bucket) == "" || strings.TrimSpace(*key) == "" {
			must(fmt.Errorf("--bucket and --key are required"))
		}
		processor, closeStore := makeProcessor(cfg, log)
		defer closeStore()
		result, err := processor.ProcessUpload(context.Background(), *bucket, *key)
		must(err)
		printSummary(result)
		exportIfAsked(cfg, result, *export)
	case "process-zip":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		path := fs.String("path", "", "local archive path")
		name := fs.String("name", "", "original archive name, defaults to the path basename")
		export := fs.String("export", "", "optional run-summary xlsx path")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*path) == "" {
			must(fmt.Errorf("--path is required"))
		}
		originalName := *name
		if originalName == "" {
			originalName = filepath.Base(*path)
		}
		processor, closeStore := makeProcessor(cfg, log)
		defer closeStore()
		result, err := processor.ProcessArchiveFile(context.Background(), *path, originalName)
		must(err)
		printSummary(result)
		exportIfAsked(cfg, result, *export)
	case "notify:test":
		notifier := notify.NewSlackNotifier(cfg.SlackWebhookURL, log)
		if !notifier.Enabled() {
			must(fmt.Errorf("SLACK_WEBHOOK_URL is not set"))
		}
		must(notifier.NotifyTest())
		fmt.Println("test notification sent")
	case "serve":
		must(runServer(cfg, log))
	default:
		usage()
		os.Exit(1)
	}
}

func makeProcessor(cfg config.Config, log *util.Logger) (*pipeline.Processor, func()) {
	store, err := storage.Open(cfg)
	must(err)
	objects, err := objstore.Open(cfg)
	must(err)
	trk := tracker.New(store, cfg, log)
	processor := pipeline.NewProcessor(store, trk, objects, cfg, log)
	return processor, func() { _ = store.Close() }
}

func printSummary(result pipeline.Result) {
	s := result.Summary
	fmt.Printf("status=%s survey_type=%s processed=%d skipped=%d\n",
		s.Status, s.SurveyType, len(s.CSVFilesProcessed), len(s.CSVFilesSkipped))
	for _, table := range s.TablesUpdated {
		fmt.Printf("  %s: +%d rows\n", table, s.RecordsAdded[table])
	}
}

// exportIfAsked writes the run-summary workbook. Relative paths land under
// the configured output directory.
func exportIfAsked(cfg config.Config, result pipeline.Result, path string) {
	if strings.TrimSpace(path) == "" {
		return
	}
	if len(result.Tables) == 0 {
		fmt.Println("no aggregate rows to export")
		return
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.OutputDir, path)
	}
	must(pipeline.WriteSummaryWorkbook(result.Tables, path))
	fmt.Printf("summary workbook written to %s\n", path)
}

func usage() {
	fmt.Println("usage: brandpulse <command>")
	fmt.Println("commands:")
	fmt.Println("  process --bucket=... --key=...zip [--export=summary.xlsx]")
	fmt.Println("  process-zip --path=./survey.zip [--name=original.zip] [--export=summary.xlsx]")
	fmt.Println("  notify:test")
	fmt.Println("  serve")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
