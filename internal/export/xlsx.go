package export

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/invoice-to-csv/constants"
)

const assetSheet = "Assets"

// XLSX mirrors exported rows into a workbook.
type XLSX struct {
	logger *slog.Logger
}

func NewXLSX(logger *slog.Logger) *XLSX {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSX{logger: logger}
}

// Build returns the workbook bytes for rows.
func (x *XLSX) Build(rows []Row) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), assetSheet); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}
	activeIndex, _ := f.GetSheetIndex(assetSheet)
	f.SetActiveSheet(activeIndex)

	for i, h := range constants.CSVColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(assetSheet, cell, h)
	}

	for r, row := range rows {
		for c, v := range row.Fields() {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(assetSheet, cell, v)
		}
	}

	_ = f.SetColWidth(assetSheet, "A", "A", 32) // item name
	_ = f.SetColWidth(assetSheet, "B", "C", 16) // category, location
	_ = f.SetColWidth(assetSheet, "D", "E", 14) // date, cost
	_ = f.SetColWidth(assetSheet, "F", "I", 18) // model .. order
	_ = f.SetColWidth(assetSheet, "J", "K", 12)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	x.logger.Debug("export.xlsx.ok", "rows", len(rows), "elapsed_ms", time.Since(start).Milliseconds())
	return buf.Bytes(), nil
}

// WriteFile builds the workbook and writes it to path.
func (x *XLSX) WriteFile(path string, rows []Row) error {
	b, err := x.Build(rows)
	if err != nil {
		x.logger.Error("export.xlsx.failed", "path", path, "error", err)
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		x.logger.Error("export.xlsx.failed", "path", path, "error", err)
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
