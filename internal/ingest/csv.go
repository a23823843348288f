package ingest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fiberwatch/fiberwatch/internal/sla"
)

// ErrNoHeader is returned when the file has no usable header row.
var ErrNoHeader = errors.New("no recognizable header row")

// ParseCSV reads a CSV incident export. The delimiter is sniffed from the
// header line (the Spanish-locale exports use semicolons).
func ParseCSV(r io.Reader, loc *time.Location) ([]sla.RawIncident, error) {
	br := bufio.NewReader(r)
	headerLine, err := br.Peek(4096)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}

	reader := csv.NewReader(br)
	reader.Comma = detectDelimiter(string(headerLine))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	cols := columnMap(header)
	if len(cols) == 0 {
		return nil, ErrNoHeader
	}

	var incidents []sla.RawIncident
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A malformed line loses that row, not the upload.
			continue
		}
		if isBlankRow(row) {
			continue
		}
		incidents = append(incidents, rowToIncident(row, cols, loc))
	}
	return incidents, nil
}

// detectDelimiter picks the delimiter that splits the header into more
// fields, defaulting to comma.
func detectDelimiter(headerLine string) rune {
	if i := strings.IndexAny(headerLine, "\r\n"); i >= 0 {
		headerLine = headerLine[:i]
	}
	if strings.Count(headerLine, ";") > strings.Count(headerLine, ",") {
		return ';'
	}
	return ','
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
