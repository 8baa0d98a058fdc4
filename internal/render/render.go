// Package render lays out a group's printable documents as an xlsx workbook,
// one A4 right-to-left sheet per selected page.
package render

import (
	"errors"
	"fmt"

	"github.com/stemsi/rosterdocs/internal/model"
	"github.com/xuri/excelize/v2"
)

// ErrNoPages is returned when a document has no page to render.
var ErrNoPages = errors.New("no pages selected")

// MinRows is the number of table rows every roster page prints, filled or not.
const MinRows = 35

const mmPerInch = 25.4

// Document is everything one render needs.
type Document struct {
	Group      model.Group
	Curriculum model.Curriculum
	Settings   model.DocumentSettings
	Pages      []model.Page
}

type pageSpec struct {
	sheet     string
	landscape bool
	write     func(s *sheet, doc *Document)
}

var pageSpecs = map[model.Page]pageSpec{
	model.PageSeparator:   {sheet: "فاصل", write: writeSeparator},
	model.PageDiagnostic:  {sheet: "التقويم التشخيصي", write: assessmentWriter("تقويم التشخيصي للكفاءة الختامية")},
	model.PageSummative:   {sheet: "التقويم التحصيلي", write: assessmentWriter("تقويم التحصيلي للكفاءة الختامية")},
	model.PagePerformance: {sheet: "بطاقة الأداء", write: writePerformance},
	model.PageAttendance:  {sheet: "سجل الحضور", landscape: true, write: writeAttendance},
}

// Render builds the workbook for doc and returns its bytes.
func Render(doc Document) ([]byte, error) {
	if len(doc.Pages) == 0 {
		return nil, ErrNoPages
	}

	xlsx := excelize.NewFile()
	defer xlsx.Close()

	if err := xlsx.SetAppProps(&excelize.AppProperties{
		Application: "rosterdocs",
	}); err != nil {
		return nil, fmt.Errorf("set app properties: %w", err)
	}

	st, err := newStyles(xlsx)
	if err != nil {
		return nil, fmt.Errorf("register styles: %w", err)
	}

	first := xlsx.GetSheetName(xlsx.GetActiveSheetIndex())
	for i, page := range doc.Pages {
		spec, ok := pageSpecs[page]
		if !ok {
			return nil, fmt.Errorf("unknown page %q", page)
		}

		if i == 0 {
			if err := xlsx.SetSheetName(first, spec.sheet); err != nil {
				return nil, err
			}
		} else if _, err := xlsx.NewSheet(spec.sheet); err != nil {
			return nil, err
		}

		s := &sheet{f: xlsx, name: spec.sheet, st: st}
		s.setup(spec.landscape, doc.Settings.Margins)
		spec.write(s, &doc)
		if s.err != nil {
			return nil, fmt.Errorf("write %s page: %w", page, s.err)
		}
	}

	xlsx.SetActiveSheet(0)

	buf, err := xlsx.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SheetName returns the sheet title used for a page.
func SheetName(page model.Page) string {
	return pageSpecs[page].sheet
}

// rowCount is the number of table rows printed for a group.
func rowCount(g *model.Group) int {
	return max(MinRows, len(g.Students))
}

// studentAt returns the student printed on table row i, if any.
func studentAt(g *model.Group, i int) (model.Student, bool) {
	if i < len(g.Students) {
		return g.Students[i], true
	}
	return model.Student{}, false
}

func levelLine(g *model.Group) string {
	return g.Level.DisplayName() + " " + g.Section
}

// sheet writes into one worksheet and keeps the first error, so page
// writers can lay out cells without checking every call.
type sheet struct {
	f    *excelize.File
	name string
	st   *styles
	err  error
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func (s *sheet) setup(landscape bool, m model.Margins) {
	if s.err != nil {
		return
	}
	size := 9 // A4
	orientation := "portrait"
	if landscape {
		orientation = "landscape"
	}
	one := 1
	zero := 0
	fit := true
	rtl := true
	noGrid := false

	inches := func(mm float64) *float64 {
		v := mm / mmPerInch
		return &v
	}

	steps := []func() error{
		func() error {
			return s.f.SetPageLayout(s.name, &excelize.PageLayoutOptions{
				Size:        &size,
				Orientation: &orientation,
				FitToWidth:  &one,
				FitToHeight: &zero,
			})
		},
		func() error {
			return s.f.SetSheetProps(s.name, &excelize.SheetPropsOptions{FitToPage: &fit})
		},
		func() error {
			return s.f.SetPageMargins(s.name, &excelize.PageLayoutMarginsOptions{
				Top:    inches(m.Top),
				Bottom: inches(m.Bottom),
				Left:   inches(m.Left),
				Right:  inches(m.Right),
			})
		},
		func() error {
			return s.f.SetSheetView(s.name, -1, &excelize.ViewOptions{
				RightToLeft:   &rtl,
				ShowGridLines: &noGrid,
			})
		},
	}
	for _, step := range steps {
		if s.err = step(); s.err != nil {
			return
		}
	}
}

func (s *sheet) value(col, row int, v any, style int) {
	if s.err != nil {
		return
	}
	c := cell(col, row)
	if s.err = s.f.SetCellValue(s.name, c, v); s.err != nil {
		return
	}
	if style != 0 {
		s.err = s.f.SetCellStyle(s.name, c, c, style)
	}
}

// span writes v into the top-left cell of a range, merges the range and styles all of it.
func (s *sheet) span(c1, r1, c2, r2 int, v any, style int) {
	if s.err != nil {
		return
	}
	if v != nil {
		s.value(c1, r1, v, 0)
	}
	if s.err == nil && (c1 != c2 || r1 != r2) {
		s.err = s.f.MergeCell(s.name, cell(c1, r1), cell(c2, r2))
	}
	s.style(c1, r1, c2, r2, style)
}

func (s *sheet) style(c1, r1, c2, r2, style int) {
	if s.err != nil || style == 0 {
		return
	}
	s.err = s.f.SetCellStyle(s.name, cell(c1, r1), cell(c2, r2), style)
}

func (s *sheet) colWidth(from, to int, width float64) {
	if s.err != nil {
		return
	}
	a, err := excelize.ColumnNumberToName(from)
	if err != nil {
		s.err = err
		return
	}
	b, err := excelize.ColumnNumberToName(to)
	if err != nil {
		s.err = err
		return
	}
	s.err = s.f.SetColWidth(s.name, a, b, width)
}

func (s *sheet) rowHeight(row int, height float64) {
	if s.err != nil {
		return
	}
	s.err = s.f.SetRowHeight(s.name, row, height)
}

// infoBlock writes the three-line header shared by assessment and performance pages:
// school, level and teacher on the right half; year, field and term on the left.
func infoBlock(s *sheet, row, lastCol int, doc *Document) {
	g := &doc.Group
	mid := lastCol / 2
	right := []string{
		"المؤسسة: " + g.SchoolName,
		"المستوى: " + levelLine(g),
		"الأستاذ: " + doc.Settings.TeacherName,
	}
	left := []string{
		"السنة الدراسية: " + g.AcademicYear,
		"الميدان: " + doc.Curriculum.Field,
		"الفصل: " + string(g.Term),
	}
	for i := range right {
		s.span(1, row+i, mid, row+i, right[i], s.st.info)
		s.span(mid+1, row+i, lastCol, row+i, left[i], s.st.info)
	}
}
