package render

import "strconv"

type month struct {
	name  string
	weeks int
}

// schoolMonths is the teaching calendar, September to May.
var schoolMonths = []month{
	{"سبتمبر", 2},
	{"أكتوبر", 4},
	{"نوفمبر", 4},
	{"ديسمبر", 2},
	{"جانفي", 4},
	{"فيفري", 4},
	{"مارس", 4},
	{"أفريل", 4},
	{"ماي", 2},
}

var attendanceLegend = []string{"غ: غائب", "م: متأخر", "ب: بدون بدلة", "ض: مريض", "X: معفي"}

const attFirstWeek = 3

func totalWeeks() int {
	n := 0
	for _, m := range schoolMonths {
		n += m.weeks
	}
	return n
}

func writeAttendance(s *sheet, doc *Document) {
	g := &doc.Group
	weeks := totalWeeks()
	lastCol := attFirstWeek + weeks - 1
	third := lastCol / 3

	s.colWidth(1, 1, 4)
	s.colWidth(2, 2, 28)
	s.colWidth(attFirstWeek, lastCol, 3.2)

	s.span(1, 1, lastCol, 1, "سجل المناداة وتتبع الحضور", s.st.title)
	s.rowHeight(1, 24)
	s.span(1, 2, third, 2, "المؤسسة: "+g.SchoolName, s.st.info)
	s.span(third+1, 2, 2*third, 2, "الموسم الدراسي: "+g.AcademicYear, s.st.info)
	s.span(2*third+1, 2, lastCol, 2, "المستوى: "+levelLine(g), s.st.info)
	s.span(1, 3, third, 3, "الأستاذ: "+doc.Settings.TeacherName, s.st.info)
	s.span(2*third+1, 3, lastCol, 3, "المادة: "+doc.Settings.SubjectName, s.st.info)

	const head = 5
	s.span(1, head, 1, head+1, "ر", s.st.headerShade)
	s.span(2, head, 2, head+1, "اللقب والاسم الكامل", s.st.headerShade)
	col := attFirstWeek
	for _, m := range schoolMonths {
		s.span(col, head, col+m.weeks-1, head, m.name, s.st.headerShade)
		for w := 1; w <= m.weeks; w++ {
			s.value(col, head+1, "أ"+strconv.Itoa(w), s.st.header)
			col++
		}
	}

	row := head + 2
	for i := 0; i < rowCount(g); i++ {
		s.value(1, row, i+1, s.st.index)
		st, ok := studentAt(g, i)
		switch {
		case !ok:
			s.style(2, row, lastCol, row, s.st.grid)
			s.style(2, row, 2, row, s.st.name)
		case st.IsExempt:
			s.value(2, row, st.Name, s.st.exemptName)
			s.span(attFirstWeek, row, lastCol, row, exempt, s.st.exemptNote)
		default:
			s.value(2, row, st.Name, s.st.name)
			s.style(attFirstWeek, row, lastCol, row, s.st.grid)
		}
		s.rowHeight(row, 13)
		row++
	}

	legendEnd := 2 * third
	legend(s, row+1, legendEnd, attendanceLegend)
	s.span(legendEnd+1, row+1, lastCol, row+1, "توقيع الأستاذ:", s.st.signature)
}
