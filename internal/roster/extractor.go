// Package roster recovers class rosters from loosely structured spreadsheet grids.
//
// The input follows the school records export layout: row 4 carries the school,
// row 5 the academic year, term and class section, and student names start at
// row 10 in columns B and C. Nothing in that layout is validated; every field
// that cannot be found degrades to a configured fallback.
package roster

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stemsi/rosterdocs/internal/model"
)

// ErrNoStudentData is returned when no sheet of a workbook yields a student.
var ErrNoStudentData = errors.New("no student data found in workbook")

// Zero-based grid coordinates of the export layout.
const (
	schoolRow       = 3
	headerRow       = 4
	firstStudentRow = 9
	surnameCol      = 1
	givenNameCol    = 2
)

// Fallbacks are the values used when a header field is missing.
type Fallbacks struct {
	SchoolName   string
	AcademicYear string
	Level        model.Level
}

// DefaultFallbacks returns the fallbacks used by the school records export.
func DefaultFallbacks() Fallbacks {
	return Fallbacks{
		SchoolName:   "مدرسة غير محددة",
		AcademicYear: "2025/2026",
		Level:        model.Level1,
	}
}

// Extractor turns sheet grids into groups.
type Extractor struct {
	fallbacks Fallbacks
	log       zerolog.Logger
}

// NewExtractor creates an Extractor. Empty fallback fields are filled from DefaultFallbacks.
func NewExtractor(fallbacks Fallbacks, log zerolog.Logger) *Extractor {
	def := DefaultFallbacks()
	if fallbacks.SchoolName == "" {
		fallbacks.SchoolName = def.SchoolName
	}
	if fallbacks.AcademicYear == "" {
		fallbacks.AcademicYear = def.AcademicYear
	}
	if !fallbacks.Level.Valid() {
		fallbacks.Level = def.Level
	}
	return &Extractor{
		fallbacks: fallbacks,
		log:       log.With().Str("component", "roster_extractor").Logger(),
	}
}

// Extract builds the group for one sheet. It never fails; the returned group may
// have no students, in which case callers are expected to discard it.
func (e *Extractor) Extract(grid [][]string, sheetName string) model.Group {
	log := e.log.With().Str("sheet", sheetName).Logger()

	schoolName := schoolLabel.ReplaceAllString(joinRow(rowAt(grid, schoolRow)), "")
	schoolName = strings.TrimSpace(schoolName)
	if schoolName == "" {
		schoolName = e.fallbacks.SchoolName
		logFallback(log, "school_name", "default")
	}

	header := joinRow(rowAt(grid, headerRow))

	year := yearPattern.FindString(header)
	if year == "" {
		year = e.fallbacks.AcademicYear
		logFallback(log, "academic_year", "default")
	}

	term := termOf(header)

	section, rule := sectionOf(header, sheetName)
	if rule != ruleMarker {
		logFallback(log, "section", rule)
	}

	level, rule := levelOf(section, sheetName)
	if level == "" {
		level = e.fallbacks.Level
		rule = "default"
	}
	if rule != ruleDigit {
		logFallback(log, "level", rule)
	}

	return model.Group{
		SheetName:    sheetName,
		SchoolName:   schoolName,
		AcademicYear: year,
		Term:         term,
		Section:      section,
		Level:        level,
		Students:     studentsOf(grid),
	}
}

// ExtractSheets extracts every sheet in order and keeps only groups with students.
func (e *Extractor) ExtractSheets(sheets []model.Sheet) ([]model.Group, error) {
	var groups []model.Group
	for _, sheet := range sheets {
		group := e.Extract(sheet.Rows, sheet.Name)
		if len(group.Students) == 0 {
			e.log.Debug().Str("sheet", sheet.Name).Msg("Sheet dropped, no students")
			continue
		}
		groups = append(groups, group)
	}
	if len(groups) == 0 {
		return nil, ErrNoStudentData
	}
	return groups, nil
}

func studentsOf(grid [][]string) []model.Student {
	var students []model.Student
	for i := firstStudentRow; i < len(grid); i++ {
		row := grid[i]
		surname, given := cellAt(row, surnameCol), cellAt(row, givenNameCol)
		if surname == "" && given == "" {
			continue
		}
		name := strings.TrimSpace(surname + " " + given)
		if name == "" || isNumeric(name) {
			continue
		}
		students = append(students, model.Student{ID: len(students) + 1, Name: name})
	}
	return students
}

func logFallback(log zerolog.Logger, field, rule string) {
	log.Debug().Str("field", field).Str("rule", rule).Msg("Header field fell back")
}

func rowAt(grid [][]string, i int) []string {
	if i < 0 || i >= len(grid) {
		return nil
	}
	return grid[i]
}

func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// joinRow concatenates the non-empty cells of a row with single spaces.
func joinRow(row []string) string {
	parts := make([]string, 0, len(row))
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, " ")
}

// isNumeric reports whether s reads as a plain number: serial numbers, totals and
// similar stray cells that must not become student names. Base prefixes count
// only unsigned and digit separators never do.
func isNumeric(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.Contains(s, "_") {
		return false
	}
	if hasBasePrefix(s) {
		_, err := strconv.ParseUint(s, 0, 64)
		return err == nil || errors.Is(err, strconv.ErrRange)
	}
	if hasBasePrefix(strings.TrimLeft(s, "+-")) {
		return false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return false
	}
	if math.IsNaN(f) {
		return false
	}
	if math.IsInf(f, 0) && err == nil {
		return strings.TrimLeft(s, "+-") == "Infinity"
	}
	return true
}

func hasBasePrefix(s string) bool {
	if len(s) < 2 || s[0] != '0' {
		return false
	}
	switch s[1] {
	case 'x', 'X', 'o', 'O', 'b', 'B':
		return true
	}
	return false
}
