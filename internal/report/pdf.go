// Package report renders adherence summaries as a printable PDF.
package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/julianstephens/habitchain/internal/adherence"
	"github.com/julianstephens/habitchain/internal/constants"
)

type column struct {
	title string
	width float64
	align string
}

var columns = []column{
	{"Habit", 52, "L"},
	{"Cadence", 40, "L"},
	{"Streak", 16, "R"},
	{"Done/Due", 22, "R"},
	{"Rate", 16, "R"},
	{"Status", 24, "L"},
}

// Strip renders a window of days as text: x done, o due and open, - not due.
func Strip(days []adherence.Day) string {
	var b strings.Builder
	for _, d := range days {
		switch {
		case d.Completed:
			b.WriteByte('x')
		case d.Due:
			b.WriteByte('o')
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}

// Write renders summaries to w.
func Write(w io.Writer, summaries []adherence.Summary, generated time.Time) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(constants.AppName+" adherence report", true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Habit Adherence Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, "Generated "+generated.Format("2006-01-02 15:04 MST"))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for _, c := range columns {
		pdf.CellFormat(c.width, 8, c.title, "1", 0, c.align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	if len(summaries) == 0 {
		pdf.CellFormat(0, 8, "No habits tracked yet.", "1", 1, "C", false, 0, "")
	}
	for _, s := range summaries {
		cells := []string{
			tr(s.Title),
			s.Cadence.String(),
			fmt.Sprintf("%d", s.Streak),
			fmt.Sprintf("%d/%d", s.Tally.Completed, s.Tally.Required),
			fmt.Sprintf("%.0f%%", s.Ratio*100),
			s.Status.String(),
		}
		for i, c := range columns {
			pdf.CellFormat(c.width, 7, cells[i], "1", 0, c.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(summaries) > 0 && len(summaries[0].Recent) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 8, fmt.Sprintf("Last %d days", len(summaries[0].Recent)))
		pdf.Ln(8)
		pdf.SetFont("Courier", "", 10)
		for _, s := range summaries {
			pdf.Cell(0, 6, fmt.Sprintf("%-30.30s %s", tr(s.Title), Strip(s.Recent)))
			pdf.Ln(6)
		}
		pdf.SetFont("Arial", "I", 8)
		pdf.Cell(0, 6, "x done   o due, not done   - not due")
		pdf.Ln(6)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render PDF: %w", err)
	}
	return nil
}

// Save renders into a temporary buffer and writes path only on success.
func Save(path string, summaries []adherence.Summary, generated time.Time) error {
	var buf bytes.Buffer
	if err := Write(&buf, summaries, generated); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
