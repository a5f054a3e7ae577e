package export

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
)

// ReportEntry is one line of the per-batch report.
type ReportEntry struct {
	Path        string `csv:"path"`
	Status      string `csv:"status"`
	Rows        int    `csv:"rows"`
	ContentHash string `csv:"content_hash"`
	Note        string `csv:"note"`
}

// WriteReport writes entries as a quoted CSV with a header line.
func WriteReport(w io.Writer, entries []ReportEntry) error {
	if err := gocsv.Marshal(&entries, w); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
