package pagetext

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/joseph-ayodele/invoice-to-csv/internal/common"
)

type Config struct {
	Method    string        // common.ExtractAuto | ExtractPdftotext | ExtractNative
	Pdftotext string        // binary name or absolute path; if empty -> "pdftotext"
	Page      int           // 1-based page to extract, default 1
	Timeout   time.Duration // per document, default 30s
}

// ConfigFrom maps the application configuration onto an extractor Config.
func ConfigFrom(ec common.ExtractConfig, page int) Config {
	return Config{Method: ec.Method, Pdftotext: ec.Pdftotext, Page: page, Timeout: ec.Timeout}
}

type Result struct {
	Text     string
	Page     int
	Method   string // "pdftotext" | "native"
	Duration time.Duration
	Warnings []string
}

// Extractor produces the layout-preserving text of one PDF page.
type Extractor struct {
	cfg      Config
	runner   PageRunner
	lookPath func(string) (string, error)
	logger   *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Method == "" {
		cfg.Method = common.ExtractAuto
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Page < 1 {
		cfg.Page = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Extractor{cfg: cfg, runner: pdftotextRunner{}, lookPath: exec.LookPath, logger: logger}
}

// Extract returns the text of the configured page of the PDF at path.
func (e *Extractor) Extract(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{}, fmt.Errorf("%w: %s", common.ErrDocumentNotFound, path)
		}
		return Result{}, fmt.Errorf("%w: stat %s: %w", common.ErrUnreadableDocument, path, err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	method := e.resolveMethod()
	e.logger.Debug("starting page text extraction", "path", path, "method", method, "page", e.cfg.Page)

	var (
		res Result
		err error
	)
	switch method {
	case common.ExtractPdftotext:
		res, err = e.extractPdftotext(ctx, path)
		if err != nil && e.cfg.Method == common.ExtractAuto && ctx.Err() == nil {
			e.logger.Warn("pdftotext failed, falling back to native", "path", path, "error", err)
			warn := fmt.Sprintf("pdftotext: %v", err)
			res, err = e.extractNative(path)
			res.Warnings = append([]string{warn}, res.Warnings...)
		}
	case common.ExtractNative:
		res, err = e.extractNative(path)
	default:
		return Result{}, fmt.Errorf("%w: extraction method %q", common.ErrInvalidInput, method)
	}
	if err != nil {
		return res, fmt.Errorf("%w: extract page %d of %s: %w", common.ErrUnreadableDocument, e.cfg.Page, path, err)
	}

	res.Text = Normalize(res.Text)
	res.Page = e.cfg.Page
	res.Duration = time.Since(start)
	return res, nil
}

func (e *Extractor) resolveMethod() string {
	if e.cfg.Method != common.ExtractAuto {
		return e.cfg.Method
	}
	if _, err := e.lookPath(e.cfg.Pdftotext); err == nil {
		return common.ExtractPdftotext
	}
	return common.ExtractNative
}

func (e *Extractor) extractPdftotext(ctx context.Context, path string) (Result, error) {
	text, diag, err := e.runner.RenderPage(ctx, PageRequest{Binary: e.cfg.Pdftotext, Path: path, Page: e.cfg.Page}, e.logger)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, fmt.Errorf("pdftotext: %w", ctxErr)
		}
		var warnings []string
		if diag != "" {
			warnings = []string{diag}
		}
		return Result{Warnings: warnings}, fmt.Errorf("pdftotext: %w", err)
	}
	return Result{Text: text, Method: common.ExtractPdftotext}, nil
}
