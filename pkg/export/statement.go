// Package export renders tabular statements as CSV or PDF documents.
package export

import (
	"fmt"
	"strings"
)

// Format names an output encoding.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// ParseFormat normalises a user supplied format. Empty means CSV.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", raw)
	}
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "text/csv; charset=utf-8"
}

// Statement is a titled table with optional header notes and a totals row.
type Statement struct {
	Title   string
	Notes   []string
	Columns []string
	Rows    [][]string
	Totals  []string
}

func (s Statement) validate() error {
	if len(s.Columns) == 0 {
		return fmt.Errorf("statement requires at least one column")
	}
	for i, row := range s.Rows {
		if len(row) != len(s.Columns) {
			return fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(s.Columns))
		}
	}
	if len(s.Totals) > 0 && len(s.Totals) != len(s.Columns) {
		return fmt.Errorf("totals row has %d cells, want %d", len(s.Totals), len(s.Columns))
	}
	return nil
}

// Renderer encodes a statement.
type Renderer interface {
	Render(s Statement) ([]byte, error)
}

// RendererFor returns the renderer matching the format.
func RendererFor(f Format) Renderer {
	if f == FormatPDF {
		return NewPDFRenderer()
	}
	return NewCSVRenderer()
}
