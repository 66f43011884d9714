package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSVRenderer writes statements as CSV. Notes become leading single-cell rows.
type CSVRenderer struct{}

func NewCSVRenderer() *CSVRenderer {
	return &CSVRenderer{}
}

func (r *CSVRenderer) Render(s Statement) ([]byte, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	if s.Title != "" {
		if err := w.Write([]string{s.Title}); err != nil {
			return nil, fmt.Errorf("write csv title: %w", err)
		}
	}
	for _, note := range s.Notes {
		if err := w.Write([]string{note}); err != nil {
			return nil, fmt.Errorf("write csv note: %w", err)
		}
	}
	if err := w.Write(s.Columns); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	if err := w.WriteAll(s.Rows); err != nil {
		return nil, fmt.Errorf("write csv rows: %w", err)
	}
	if len(s.Totals) > 0 {
		if err := w.Write(s.Totals); err != nil {
			return nil, fmt.Errorf("write csv totals: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
