// Package workbook turns uploaded spreadsheet files into plain sheet grids.
package workbook

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/stemsi/rosterdocs/internal/model"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/unicode/norm"
)

// ErrUnsupportedFile is returned for files that are not readable Office Open XML workbooks.
var ErrUnsupportedFile = errors.New("unsupported workbook file")

var supportedExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
}

// CheckFileName rejects uploads whose extension cannot hold a workbook.
func CheckFileName(name string) error {
	ext := strings.ToLower(filepath.Ext(name))
	if !supportedExtensions[ext] {
		return fmt.Errorf("%w: %q", ErrUnsupportedFile, ext)
	}
	return nil
}

// Decode reads every sheet of the workbook in tab order. Empty rows are kept as
// empty slices so row indices match the sheet; cell text is NFC-normalized.
func Decode(r io.Reader) ([]model.Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFile, err)
	}
	defer f.Close()

	names := f.GetSheetList()
	sheets := make([]model.Sheet, 0, len(names))
	for _, name := range names {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("get rows for sheet %q: %w", name, err)
		}
		for _, row := range rows {
			for i, cell := range row {
				row[i] = norm.NFC.String(cell)
			}
		}
		sheets = append(sheets, model.Sheet{Name: norm.NFC.String(name), Rows: rows})
	}
	return sheets, nil
}
