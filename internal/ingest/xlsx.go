package ingest

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/fiberwatch/fiberwatch/internal/sla"
)

// ParseXLSX reads an Excel incident export. Only the first sheet is
// consulted; the first non-blank row is taken as the header.
func ParseXLSX(r io.Reader, loc *time.Location) ([]sla.RawIncident, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoHeader
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	var cols map[string]int
	var incidents []sla.RawIncident
	for _, row := range rows {
		if isBlankRow(row) {
			continue
		}
		if cols == nil {
			cols = columnMap(row)
			if len(cols) == 0 {
				return nil, ErrNoHeader
			}
			continue
		}
		incidents = append(incidents, rowToIncident(row, cols, loc))
	}
	if cols == nil {
		return nil, ErrNoHeader
	}
	return incidents, nil
}
