package imports

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	ErrEmptyBuffer = errors.New("empty spreadsheet buffer")
	ErrNoWorksheet = errors.New("workbook has no worksheet")
)

// Sheet is the in-memory table read from the first worksheet. Cell
// values arrive as formatted strings: excelize resolves cached formula
// results, shared strings and date serials before we see them.
type Sheet struct {
	Headers []string
	Rows    [][]string
}

// OpenSheet reads the first worksheet of an xlsx workbook.
func OpenSheet(data []byte) (*Sheet, error) {
	if len(data) == 0 {
		return nil, ErrEmptyBuffer
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unreadable workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoWorksheet
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read worksheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return &Sheet{}, nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	return &Sheet{
		Headers: headers,
		Rows:    rows[1:],
	}, nil
}

// Cell returns the trimmed value at a 1-indexed column, or "" when the
// row is ragged and the column lies beyond its last cell.
func Cell(row []string, col int) string {
	if col < 1 || col > len(row) {
		return ""
	}
	return strings.TrimSpace(row[col-1])
}
