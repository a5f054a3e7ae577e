package pagetext

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/joseph-ayodele/invoice-to-csv/internal/common"
)

const (
	rowTolerance = 2.0  // points; fragments closer than this in Y share a row
	columnGapEm  = 1.0  // gaps wider than this many font sizes separate columns
	wordGapEm    = 0.15 // gaps wider than this many font sizes separate words
)

// extractNative reads the page with the pure Go PDF reader and rebuilds a
// layout-like text from glyph positions.
func (e *Extractor) extractNative(path string) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("native pdf reader: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	if n := r.NumPage(); e.cfg.Page > n {
		return Result{}, fmt.Errorf("%w: page %d of %d", common.ErrInvalidInput, e.cfg.Page, n)
	}
	p := r.Page(e.cfg.Page)
	if p.V.IsNull() {
		return Result{}, fmt.Errorf("page %d is empty", e.cfg.Page)
	}

	return Result{Text: layoutRows(p.Content().Text), Method: common.ExtractNative}, nil
}

type textRow struct {
	y     float64
	texts []pdf.Text
}

// layoutRows groups text fragments into rows by their baseline, orders rows
// top to bottom and fragments left to right, and separates columns with runs
// of spaces.
func layoutRows(texts []pdf.Text) string {
	var rows []textRow
	for _, t := range texts {
		if t.S == "" {
			continue
		}
		placed := false
		for i := range rows {
			if math.Abs(rows[i].y-t.Y) < rowTolerance {
				rows[i].texts = append(rows[i].texts, t)
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, textRow{y: t.Y, texts: []pdf.Text{t}})
		}
	}

	// PDF user space grows upwards.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].y > rows[j].y })

	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(joinRow(row.texts))
	}
	return b.String()
}

func joinRow(texts []pdf.Text) string {
	sort.SliceStable(texts, func(i, j int) bool { return texts[i].X < texts[j].X })

	var b strings.Builder
	end := math.Inf(-1)
	for _, t := range texts {
		if b.Len() > 0 {
			size := t.FontSize
			if size <= 0 {
				size = 10
			}
			switch gap := t.X - end; {
			case gap > columnGapEm*size:
				b.WriteString("    ")
			case gap > wordGapEm*size && !strings.HasSuffix(b.String(), " ") && !strings.HasPrefix(t.S, " "):
				b.WriteByte(' ')
			}
		}
		b.WriteString(t.S)
		end = t.X + t.W
	}
	return strings.TrimRight(b.String(), " ")
}
