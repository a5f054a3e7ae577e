package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/invoice-to-csv/constants"
	"github.com/joseph-ayodele/invoice-to-csv/internal/categorize"
	"github.com/joseph-ayodele/invoice-to-csv/internal/common"
	"github.com/joseph-ayodele/invoice-to-csv/internal/export"
	"github.com/joseph-ayodele/invoice-to-csv/internal/ingest"
	"github.com/joseph-ayodele/invoice-to-csv/internal/invoice"
	"github.com/joseph-ayodele/invoice-to-csv/internal/pagetext"
	"github.com/joseph-ayodele/invoice-to-csv/internal/pipeline"
	repo "github.com/joseph-ayodele/invoice-to-csv/internal/repository"
)

// printError writes to w, falling back to stdout if that fails
func printError(w io.Writer, format string, args ...interface{}) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	out           string
	xlsx          string
	report        string
	categories    string
	category      string
	yes           bool
	skipProcessed bool
	ledger        string
	inmem         bool
	extractor     string
	envFile       string
	verbose       bool
	logJSON       bool
}

func parseFlags(args []string, stderr io.Writer) (*options, []string, error) {
	fs := flag.NewFlagSet("invoice-to-csv", flag.ContinueOnError)
	fs.SetOutput(stderr)
	o := &options{}
	fs.StringVar(&o.out, "out", "", "output CSV path (default: timestamped file in OUTPUT_DIR)")
	fs.StringVar(&o.xlsx, "xlsx", "", "also write all rows to this XLSX file")
	fs.StringVar(&o.report, "report", "", "write a per-document CSV report to this path")
	fs.StringVar(&o.categories, "categories", "", "category file (JSON); overrides CATEGORIES_FILE")
	fs.StringVar(&o.category, "category", "", "category for unmatched items instead of asking")
	fs.BoolVar(&o.yes, "yes", false, "overwrite an existing output file without asking")
	fs.BoolVar(&o.skipProcessed, "skip-processed", false, "skip documents already exported in an earlier run")
	fs.StringVar(&o.ledger, "ledger", "", "ledger DSN (postgres://... or SQLite path); overrides LEDGER_DSN")
	fs.BoolVar(&o.inmem, "inmem", false, "use an in-memory SQLite ledger")
	fs.StringVar(&o.extractor, "extractor", "", "page text extractor: auto|pdftotext|native")
	fs.StringVar(&o.envFile, "env", ".env", "dotenv file to load before reading the environment")
	fs.BoolVar(&o.verbose, "v", false, "verbose logging")
	fs.BoolVar(&o.logJSON, "log-json", false, "log as JSON")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: invoice-to-csv [flags] [invoice.pdf ...]\n\n")
		fmt.Fprintf(fs.Output(), "Converts vendor invoice PDFs into one CSV row per serial number.\n")
		fmt.Fprintf(fs.Output(), "Without file arguments the names are read from standard input.\n\nFlags:\n")
		fs.PrintDefaults()
	}
	// flag stops at the first non-flag argument; keep parsing after each
	// name so flags may follow filenames. Everything after "--" is a name.
	var names []string
	rest := args
	for len(rest) > 0 {
		if err := fs.Parse(rest); err != nil {
			return nil, nil, err
		}
		left := fs.Args()
		if consumed := len(rest) - len(left); consumed > 0 && rest[consumed-1] == "--" {
			names = append(names, left...)
			break
		}
		if len(left) == 0 {
			break
		}
		names = append(names, left[0])
		rest = left[1:]
	}
	return o, names, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	o, names, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return 2
	}

	if err := common.LoadDotEnv(o.envFile); err != nil {
		printError(stderr, "Error: %v\n", err)
		return 1
	}
	cfg := common.LoadConfig()
	applyFlags(cfg, o)
	if err := cfg.Validate(); err != nil {
		printError(stderr, "Error: %v\n", err)
		return 1
	}

	logger := common.NewLogger(stderr, cfg.Log)
	slog.SetDefault(logger)

	in := bufio.NewReader(stdin)

	if len(names) == 0 {
		if names, err = ingest.PromptFilenames(in, stdout); err != nil {
			logger.Error("failed to read filenames", "error", err)
			return 1
		}
	}
	if names, err = ingest.Expand(names, true); err != nil {
		logger.Error("failed to expand directories", "error", err)
		return 1
	}

	layout, err := invoice.LayoutFromConfig(cfg.Invoice)
	if err != nil {
		logger.Error("invalid invoice layout", "error", err)
		return 1
	}

	classifier, err := buildClassifier(cfg.Categories, in, stdout, logger)
	if err != nil {
		logger.Error("failed to load categories", "error", err)
		return 1
	}

	ledger, closeLedger, err := openLedger(ctx, cfg.Ledger, logger)
	if err != nil {
		logger.Error("failed to open ledger", "error", err)
		return 1
	}
	defer closeLedger()

	outPath := o.out
	if outPath == "" {
		outPath = filepath.Join(cfg.Output.Dir, export.DefaultFilename(time.Now()))
	}
	var confirm export.Confirmer = export.NewPromptConfirmer(in, stdout)
	if o.yes {
		confirm = export.AlwaysOverwrite{}
	}
	outFile, err := export.CreateOutput(outPath, confirm)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrOutputAlreadyExists):
			fmt.Fprintf(stdout, "Not overwriting %s.\n", outPath)
		case errors.Is(err, common.ErrInvalidOutputTarget):
			fmt.Fprintf(stdout, "Invalid filename: %s\n", outPath)
		}
		logger.Error("failed to create output", "path", outPath, "error", err)
		return 1
	}
	defer outFile.Close()

	extractor := pagetext.NewExtractor(pagetext.ConfigFrom(cfg.Extract, cfg.Invoice.Page), logger)
	processor := pipeline.NewProcessor(logger,
		pipeline.NewTextStage(extractor, ledger, logger),
		pipeline.NewParseStage(invoice.NewParser(layout, logger), classifier, cfg.Invoice.Location, logger),
	)

	writer := export.NewWriter(outFile)
	if err := writer.WriteHeader(); err == nil {
		err = writer.Flush()
	}
	if err != nil {
		logger.Error("failed to write output", "path", outPath, "error", err)
		return 1
	}

	batch := pipeline.NewBatch(processor, ledger, writer, pipeline.BatchOptions{
		OutputPath:    outPath,
		SkipProcessed: o.skipProcessed,
		Progress:      stdout,
	}, logger)
	report, err := batch.Run(ctx, names)
	if err != nil {
		logger.Error("batch stopped", "error", err)
		return 1
	}

	if o.xlsx != "" {
		if err := export.NewXLSX(logger).WriteFile(o.xlsx, report.Rows); err != nil {
			logger.Error("failed to write xlsx", "path", o.xlsx, "error", err)
			return 1
		}
	}
	if o.report != "" {
		if err := writeReport(o.report, report.Entries); err != nil {
			logger.Error("failed to write report", "path", o.report, "error", err)
			return 1
		}
	}

	fmt.Fprintf(stdout, "\nWrote %d row(s) from %d document(s) to %s\n", report.RowsWritten, len(report.Exported), outPath)
	if n := len(report.Failed) + len(report.NotFound); n > 0 {
		fmt.Fprintf(stdout, "%d document(s) could not be processed.\n", n)
	}
	return 0
}

func applyFlags(cfg *common.Config, o *options) {
	if o.categories != "" {
		cfg.Categories.File = o.categories
	}
	if o.category != "" {
		cfg.Categories.Default = o.category
	}
	if o.ledger != "" {
		cfg.Ledger.DSN = o.ledger
	}
	if o.inmem {
		cfg.Ledger.DSN = repo.MemoryDSN
	}
	if o.extractor != "" {
		cfg.Extract.Method = o.extractor
	}
	if o.verbose {
		cfg.Log.Level = "debug"
	}
	if o.logJSON {
		cfg.Log.JSON = true
	}
}

func openLedger(ctx context.Context, cfg common.LedgerConfig, logger *slog.Logger) (repo.LedgerRepository, func(), error) {
	if cfg.DSN == "" {
		logger.Debug("ledger disabled")
		return repo.NopLedger{}, func() {}, nil
	}
	db, err := repo.Open(ctx, repo.ConfigFrom(cfg), logger)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close(logger)
		return nil, nil, err
	}
	return repo.NewLedgerRepository(db, logger), func() { db.Close(logger) }, nil
}

func buildClassifier(cfg common.CategoriesConfig, in io.Reader, out io.Writer, logger *slog.Logger) (*categorize.Classifier, error) {
	known := constants.DefaultCategories()
	var overrides map[string]string
	if cfg.File != "" {
		f, err := categorize.LoadFile(cfg.File)
		if err != nil {
			return nil, err
		}
		if len(f.Categories) > 0 {
			known = f.Categories
		}
		overrides = f.Overrides
		logger.Info("categories loaded", "path", cfg.File, "categories", len(known), "overrides", len(overrides))
	}

	var resolver categorize.Resolver = categorize.NewPromptResolver(in, out, known)
	if cfg.Default != "" {
		resolver = categorize.FixedResolver{Category: cfg.Default}
	}
	if len(overrides) > 0 {
		resolver = categorize.MapResolver{Overrides: overrides, Fallback: resolver}
	}
	return categorize.NewClassifier(known, resolver, cfg.MaxAttempts, logger), nil
}

func writeReport(path string, entries []export.ReportEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.WriteReport(f, entries); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
