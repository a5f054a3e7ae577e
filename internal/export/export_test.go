package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/invoice-to-csv/constants"
	"github.com/joseph-ayodele/invoice-to-csv/internal/common"
	"github.com/joseph-ayodele/invoice-to-csv/internal/entity"
)

func testAsset(t *testing.T, serials ...string) entity.Asset {
	t.Helper()
	a, err := entity.NewAsset(entity.AssetParams{
		ModelNumber:   "MN-100",
		ItemName:      "Widget Pro",
		Model:         "ModelX",
		UnitPrice:     "500.00",
		SerialNumbers: serials,
		PurchaseDate:  "2024-03-14",
		OrderNumber:   "531363",
		Category:      "Laptop",
	})
	require.NoError(t, err)
	return a
}

func TestRender(t *testing.T) {
	for _, n := range []int{1, 2, 5} {
		serials := make([]string, n)
		for i := range serials {
			serials[i] = "SN" + strings.Repeat("9", i+1)
		}
		lines := Render(testAsset(t, serials...))
		require.Len(t, lines, n)
		for i, line := range lines {
			fields := strings.Split(line, ",")
			require.Len(t, fields, len(constants.CSVColumns))
			assert.Equal(t, serials[i], fields[7])
		}
	}
}

func TestRender_FieldOrder(t *testing.T) {
	lines := Render(testAsset(t, "SN1"))
	assert.Equal(t,
		"Widget Pro,Laptop,Naples Office,2024-03-14,500.00,ModelX,MN-100,SN1,531363,true,2024-03-14",
		lines[0])
	assert.Equal(t,
		"Item Name,Category,Location,Purchase Date,Purchase Cost,Model Name,Model Number,Serial Number,Order Number,Requestable,Last Audit",
		Header())
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	n, err := w.WriteAsset(testAsset(t, "SN1", "SN2"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	n, err = w.WriteAsset(testAsset(t, "SN3"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 3, w.Written())

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, Header(), lines[0])

	var rows []Row
	require.NoError(t, gocsv.UnmarshalString(buf.String(), &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, "SN3", rows[2].SerialNumber)
	assert.Equal(t, "500.00", rows[0].PurchaseCost)
	assert.Equal(t, "2024-03-14", rows[1].LastAudit)
}

func TestWriter_HeaderOnlyOnce(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Flush())
	assert.Equal(t, Header()+"\n", buf.String())
}

func TestDefaultFilename(t *testing.T) {
	now := time.Date(2024, 3, 14, 9, 5, 7, 123456000, time.Local)
	assert.Equal(t, "2024-03-14@09;05;07.123456.csv", DefaultFilename(now))
}

type fixedConfirm bool

func (c fixedConfirm) Confirm(string) (bool, error) { return bool(c), nil }

func TestCreateOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")

	f, err := CreateOutput(path, nil)
	require.NoError(t, err)
	_, _ = f.WriteString("old contents")
	require.NoError(t, f.Close())

	t.Run("existing file without confirmation", func(t *testing.T) {
		_, err := CreateOutput(path, fixedConfirm(false))
		assert.ErrorIs(t, err, common.ErrOutputAlreadyExists)
		_, err = CreateOutput(path, nil)
		assert.ErrorIs(t, err, common.ErrOutputAlreadyExists)
	})

	t.Run("existing file truncated when confirmed", func(t *testing.T) {
		f, err := CreateOutput(path, AlwaysOverwrite{})
		require.NoError(t, err)
		require.NoError(t, f.Close())
		b, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Empty(t, b)
	})

	t.Run("directory target", func(t *testing.T) {
		_, err := CreateOutput(dir, AlwaysOverwrite{})
		assert.ErrorIs(t, err, common.ErrInvalidOutputTarget)
		var appErr *common.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, common.CodeOutput, appErr.Code)
	})

	t.Run("missing parent directory", func(t *testing.T) {
		_, err := CreateOutput(filepath.Join(dir, "nope", "out.csv"), nil)
		assert.ErrorIs(t, err, common.ErrInvalidOutputTarget)
	})
}

func TestPromptConfirmer(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{" Yes \n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"yeah\n", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		ok, err := NewPromptConfirmer(strings.NewReader(tt.input), &out).Confirm("x.csv")
		require.NoError(t, err)
		assert.Equal(t, tt.want, ok, "input %q", tt.input)
		assert.Contains(t, out.String(), "x.csv already exists")
	}
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	err := WriteReport(&buf, []ReportEntry{
		{Path: "a.pdf", Status: "EXPORTED", Rows: 2, ContentHash: "abc"},
		{Path: "b.pdf", Status: "FAILED", Note: "locate item block: anchor not found, \"Total\""},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "path,status,rows,content_hash,note", lines[0])
	assert.Equal(t, "a.pdf,EXPORTED,2,abc,", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], `b.pdf,FAILED,0,,"`))
}

func TestXLSX_Build(t *testing.T) {
	rows := Rows(testAsset(t, "SN1", "SN2"))
	b, err := NewXLSX(nil).Build(rows)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(assetSheet)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, constants.CSVColumns, got[0])
	assert.Equal(t, "SN2", got[2][7])
}

func TestXLSX_WriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assets.xlsx")
	require.NoError(t, NewXLSX(nil).WriteFile(path, Rows(testAsset(t, "SN1"))))
	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, fi.Size())
}
