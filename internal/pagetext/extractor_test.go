package pagetext

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/invoice-to-csv/internal/common"
)

type fakeRunner struct {
	out   string
	err   error
	req   PageRequest
	calls int
}

func (f *fakeRunner) RenderPage(_ context.Context, req PageRequest, _ *slog.Logger) (string, string, error) {
	f.calls++
	f.req = req
	if f.err != nil {
		return "", "Syntax Error: broken file", f.err
	}
	return f.out, "", nil
}

func tempPDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "invoice.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 not really"), 0o600))
	return path
}

func TestExtract_Pdftotext(t *testing.T) {
	path := tempPDF(t)
	r := &fakeRunner{out: "Service Request Number     531363  \r\nBillable  Products & Other Charges\f"}
	e := NewExtractor(Config{Method: common.ExtractPdftotext, Pdftotext: "/usr/bin/pdftotext"}, nil)
	e.runner = r

	res, err := e.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Service Request Number     531363\nBillable  Products & Other Charges", res.Text)
	assert.Equal(t, common.ExtractPdftotext, res.Method)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, PageRequest{Binary: "/usr/bin/pdftotext", Path: path, Page: 1}, r.req)
}

func TestExtract_MissingFile(t *testing.T) {
	e := NewExtractor(Config{Method: common.ExtractPdftotext}, nil)
	e.runner = &fakeRunner{}
	_, err := e.Extract(context.Background(), filepath.Join(t.TempDir(), "nope.pdf"))
	assert.ErrorIs(t, err, common.ErrDocumentNotFound)
}

func TestExtract_PdftotextFailure(t *testing.T) {
	path := tempPDF(t)
	e := NewExtractor(Config{Method: common.ExtractPdftotext}, nil)
	e.runner = &fakeRunner{err: errors.New("exit status 1")}

	res, err := e.Extract(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdftotext")
	assert.ErrorIs(t, err, common.ErrUnreadableDocument)
	assert.Equal(t, []string{"Syntax Error: broken file"}, res.Warnings)
}

func TestExtract_AutoFallsBackToNative(t *testing.T) {
	path := tempPDF(t)
	r := &fakeRunner{err: errors.New("exit status 1")}
	e := NewExtractor(Config{Method: common.ExtractAuto}, nil)
	e.runner = r
	e.lookPath = func(string) (string, error) { return "/usr/bin/pdftotext", nil }

	_, err := e.Extract(context.Background(), path)
	require.Error(t, err, "the file is not a real PDF, so the native reader fails too")
	assert.Equal(t, 1, r.calls)
}

func TestResolveMethod(t *testing.T) {
	e := NewExtractor(Config{}, nil)
	e.lookPath = func(string) (string, error) { return "", errors.New("not found") }
	assert.Equal(t, common.ExtractNative, e.resolveMethod())

	e.lookPath = func(string) (string, error) { return "/bin/pdftotext", nil }
	assert.Equal(t, common.ExtractPdftotext, e.resolveMethod())

	e = NewExtractor(Config{Method: common.ExtractNative}, nil)
	e.lookPath = func(string) (string, error) { return "/bin/pdftotext", nil }
	assert.Equal(t, common.ExtractNative, e.resolveMethod())
}

func TestNewExtractor_Defaults(t *testing.T) {
	e := NewExtractor(Config{}, nil)
	assert.Equal(t, common.ExtractAuto, e.cfg.Method)
	assert.Equal(t, "pdftotext", e.cfg.Pdftotext)
	assert.Equal(t, 1, e.cfg.Page)
	assert.Equal(t, 30*time.Second, e.cfg.Timeout)

	cfg := ConfigFrom(common.ExtractConfig{Method: "native", Pdftotext: "pt", Timeout: time.Second}, 2)
	assert.Equal(t, Config{Method: "native", Pdftotext: "pt", Page: 2, Timeout: time.Second}, cfg)
}

func TestPageRequest_Args(t *testing.T) {
	req := PageRequest{Binary: "pdftotext", Path: "/tmp/a.pdf", Page: 2}
	assert.Equal(t, []string{"-layout", "-enc", "UTF-8", "-eol", "unix", "-f", "2", "-l", "2", "/tmp/a.pdf", "-"}, req.Args())
}

func TestExtract_PdftotextFailureWithoutStderr(t *testing.T) {
	path := tempPDF(t)
	e := NewExtractor(Config{Method: common.ExtractPdftotext}, nil)
	e.runner = silentFailure{}

	res, err := e.Extract(context.Background(), path)
	require.Error(t, err)
	assert.Empty(t, res.Warnings)
}

type silentFailure struct{}

func (silentFailure) RenderPage(context.Context, PageRequest, *slog.Logger) (string, string, error) {
	return "", "", errors.New("exit status 3")
}

func TestClip(t *testing.T) {
	assert.Equal(t, "abc", clip("abc", 5))
	assert.Equal(t, "ab...(truncated)", clip("abcdef", 2))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "a    b\nc", Normalize("\na    b   \r\nc\t\f"))
}

func TestLayoutRows(t *testing.T) {
	texts := []pdf.Text{
		{S: "Widget", X: 200, Y: 700, W: 30, FontSize: 10},
		{S: "MN-100:", X: 10, Y: 700.5, W: 35, FontSize: 10},
		{S: "2", X: 47, Y: 700, W: 5, FontSize: 10},
		{S: "Pro", X: 232, Y: 699, W: 15, FontSize: 10},
		{S: "Billable", X: 10, Y: 720, W: 40, FontSize: 10},
		{S: "Serial", X: 200, Y: 688, W: 30, FontSize: 10},
	}
	got := layoutRows(texts)
	assert.Equal(t, "Billable\nMN-100: 2    Widget Pro\nSerial", got)
}
