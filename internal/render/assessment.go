package render

import (
	"fmt"
	"strconv"
)

// Assessment grid: rank, name, four criteria and the final competency
// graded أ..د, then the remark column.
const (
	asmGrades    = 4
	asmBlocks    = 5
	asmFirstGrid = 3
	asmRemark    = asmFirstGrid + asmBlocks*asmGrades
	asmLastCol   = asmRemark
)

var gradeLetters = [asmGrades]string{"أ", "ب", "ج", "د"}

var gradeLegend = []string{
	"د = تملك محدود (3/0)",
	"ج = تملك جزئي (3/1)",
	"ب = تملك مقبول (3/2)",
	"أ = تملك أقصى (3/3)",
}

const exemptFromPractice = "تلميذ معفي من الممارسة"

func assessmentWriter(title string) func(*sheet, *Document) {
	return func(s *sheet, doc *Document) {
		writeAssessment(s, doc, title)
	}
}

func writeAssessment(s *sheet, doc *Document, title string) {
	g := &doc.Group
	cur := doc.Curriculum

	s.colWidth(1, 1, 4)
	s.colWidth(2, 2, 26)
	s.colWidth(asmFirstGrid, asmRemark-1, 3)
	s.colWidth(asmRemark, asmRemark, 18)

	s.span(1, 1, asmLastCol, 1, title, s.st.title)
	s.rowHeight(1, 24)
	infoBlock(s, 2, asmLastCol, doc)

	s.span(1, 5, asmLastCol, 5, "الكفاءة الختامية: "+cur.Competency, s.st.box)
	s.rowHeight(5, 24)
	s.span(1, 6, asmLastCol, 6, "المعايير", s.st.header)

	mid := asmLastCol / 2
	for i := 0; i < 2; i++ {
		s.span(1, 7+i, mid, 7+i, criterion(cur.Criteria, i), s.st.info)
		s.span(mid+1, 7+i, asmLastCol, 7+i, criterion(cur.Criteria, i+2), s.st.info)
	}

	const head = 9
	s.span(1, head, 1, head+1, "رقم", s.st.header)
	s.span(2, head, 2, head+1, "اللقب والاسم", s.st.header)
	for b := 0; b < asmBlocks; b++ {
		from := asmFirstGrid + b*asmGrades
		label := "الكفاءة الختامية"
		style := s.st.headerShade
		if b < asmBlocks-1 {
			label = "المعيار " + strconv.Itoa(b+1)
			style = s.st.header
		}
		s.span(from, head, from+asmGrades-1, head, label, style)
		for i, letter := range gradeLetters {
			s.value(from+i, head+1, letter, style)
		}
	}
	s.span(asmRemark, head, asmRemark, head+1, "الملاحظة", s.st.header)

	row := head + 2
	for i := 0; i < rowCount(g); i++ {
		s.value(1, row, i+1, s.st.index)
		st, ok := studentAt(g, i)
		switch {
		case !ok:
			s.style(2, row, asmLastCol, row, s.st.grid)
			s.style(2, row, 2, row, s.st.name)
		case st.IsExempt:
			s.value(2, row, st.Name, s.st.exemptName)
			s.span(asmFirstGrid, row, asmLastCol, row, exemptFromPractice, s.st.exemptNote)
		default:
			s.value(2, row, st.Name, s.st.name)
			s.style(asmFirstGrid, row, asmRemark-1, row, s.st.grid)
			s.value(asmRemark, row, g.Remarks[st.ID], s.st.remark)
		}
		s.rowHeight(row, 14.2)
		row++
	}

	legend(s, row+1, asmLastCol, gradeLegend)
}

func criterion(criteria []string, i int) string {
	text := ""
	if i < len(criteria) {
		text = criteria[i]
	}
	return fmt.Sprintf("%d- %s", i+1, text)
}

// legend spreads items evenly over one row.
func legend(s *sheet, row, lastCol int, items []string) {
	width := lastCol / len(items)
	for i, item := range items {
		from := 1 + i*width
		to := from + width - 1
		if i == len(items)-1 {
			to = lastCol
		}
		s.span(from, row, to, row, item, s.st.legend)
	}
}
