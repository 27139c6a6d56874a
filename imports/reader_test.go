package imports

import (
	"fmt"
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("SetSheetRow(%s) error: %v", cell, err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer error: %v", err)
	}
	return buf.Bytes()
}

func TestOpenSheet_ReadsFirstWorksheet(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{" UID ", "Tower", "04 - Finance"},
		{"X-1", "IT", 100},
		{"X-2", "IT", 250.5},
	})

	sheet, err := OpenSheet(data)
	if err != nil {
		t.Fatalf("OpenSheet error: %v", err)
	}
	if len(sheet.Headers) != 3 || sheet.Headers[0] != "UID" {
		t.Fatalf("headers must be trimmed, got %v", sheet.Headers)
	}
	if len(sheet.Rows) != 2 {
		t.Fatalf("expected 2 data rows, got %d", len(sheet.Rows))
	}
	if Cell(sheet.Rows[1], 3) != "250.5" {
		t.Fatalf("expected numeric cell as string 250.5, got %q", Cell(sheet.Rows[1], 3))
	}
}

func TestOpenSheet_EmptyBuffer(t *testing.T) {
	if _, err := OpenSheet(nil); err != ErrEmptyBuffer {
		t.Fatalf("expected ErrEmptyBuffer, got %v", err)
	}
}

func TestOpenSheet_GarbageBuffer(t *testing.T) {
	if _, err := OpenSheet([]byte("not a workbook")); err == nil {
		t.Fatalf("expected an error for a non-xlsx buffer")
	}
}

func TestCell_RaggedRowAndBounds(t *testing.T) {
	row := []string{"a", " b "}
	if Cell(row, 2) != "b" {
		t.Fatalf("expected trimmed b, got %q", Cell(row, 2))
	}
	if Cell(row, 3) != "" {
		t.Fatalf("out-of-range column must be empty, got %q", Cell(row, 3))
	}
	if Cell(row, 0) != "" {
		t.Fatalf("columns are 1-indexed, got %q", Cell(row, 0))
	}
}
