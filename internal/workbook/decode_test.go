package workbook

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, build func(f *excelize.File)) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	build(f)
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("Failed to write workbook: %v", err)
	}
	return buf
}

func TestDecode(t *testing.T) {
	buf := buildWorkbook(t, func(f *excelize.File) {
		f.SetCellValue("Sheet1", "A1", "المؤسسة: مدرسة الأمل")
		f.SetCellValue("Sheet1", "B3", "أحمد")
		f.SetCellValue("Sheet1", "C3", 12)
		if _, err := f.NewSheet("رابعة 1"); err != nil {
			t.Fatalf("NewSheet: %v", err)
		}
		f.SetCellValue("رابعة 1", "A1", "x")
	})

	sheets, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(sheets) != 2 {
		t.Fatalf("Expected 2 sheets, got %d", len(sheets))
	}
	if sheets[0].Name != "Sheet1" || sheets[1].Name != "رابعة 1" {
		t.Errorf("Unexpected sheet order: %q, %q", sheets[0].Name, sheets[1].Name)
	}

	want := [][]string{
		{"المؤسسة: مدرسة الأمل"},
		nil,
		{"", "أحمد", "12"},
	}
	if diff := cmp.Diff(want, sheets[0].Rows, cmpEmptyRows()); diff != "" {
		t.Errorf("Rows mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_NormalizesToNFC(t *testing.T) {
	decomposed := "e\u0301cole"
	buf := buildWorkbook(t, func(f *excelize.File) {
		f.SetCellValue("Sheet1", "A1", decomposed)
	})

	sheets, err := Decode(buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got := sheets[0].Rows[0][0]; got != "\u00e9cole" {
		t.Errorf("Expected NFC text, got %q", got)
	}
}

func TestDecode_NotAWorkbook(t *testing.T) {
	_, err := Decode(strings.NewReader("name,surname\n"))
	if !errors.Is(err, ErrUnsupportedFile) {
		t.Fatalf("Expected ErrUnsupportedFile, got %v", err)
	}
}

func TestCheckFileName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"roster.xlsx", false},
		{"ROSTER.XLSX", false},
		{"macros.xlsm", false},
		{"legacy.xls", true},
		{"roster.csv", true},
		{"noext", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckFileName(tt.name)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckFileName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
		})
	}
}

// cmpEmptyRows treats nil and empty rows as equal.
func cmpEmptyRows() cmp.Option {
	return cmp.Comparer(func(a, b []string) bool {
		if len(a) == 0 && len(b) == 0 {
			return true
		}
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
		return true
	})
}
