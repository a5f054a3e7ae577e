package pagetext

import (
	"bytes"
	"context"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// PageRequest names one page of one document.
type PageRequest struct {
	Binary string // pdftotext executable
	Path   string
	Page   int
}

// Args is the pdftotext command line for the request, layout preserved and
// written to stdout.
func (r PageRequest) Args() []string {
	page := strconv.Itoa(r.Page)
	return []string{"-layout", "-enc", "UTF-8", "-eol", "unix", "-f", page, "-l", page, r.Path, "-"}
}

// PageRunner renders a page to layout text. diag is the tool's stderr,
// already cut down to a size fit for a warning.
type PageRunner interface {
	RenderPage(ctx context.Context, req PageRequest, logger *slog.Logger) (text, diag string, err error)
}

const maxDiag = 1 << 10

type pdftotextRunner struct{}

func (pdftotextRunner) RenderPage(ctx context.Context, req PageRequest, logger *slog.Logger) (string, string, error) {
	start := time.Now()
	logger = logger.With("binary", req.Binary, "page", req.Page)
	logger.Debug("rendering page", "path", req.Path)

	cmd := exec.CommandContext(ctx, req.Binary, req.Args()...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	diag := clip(strings.TrimSpace(errb.String()), maxDiag)
	if err != nil {
		logger.Error("failed to render page",
			"path", req.Path,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
			"stderr", diag,
		)
		return "", diag, err
	}
	logger.Debug("page rendered",
		"path", req.Path,
		"duration_ms", time.Since(start).Milliseconds(),
		"text_bytes", out.Len(),
	)
	return out.String(), diag, nil
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
