package render

const sepLastCol = 8

func writeSeparator(s *sheet, doc *Document) {
	g := &doc.Group

	s.colWidth(1, sepLastCol, 11)

	s.span(1, 4, sepLastCol, 7, string(g.Term), s.st.sepTerm)
	s.span(1, 10, sepLastCol, 11, "دفتر متابعة التقويم التربوي", s.st.sepTitle)
	s.span(1, 13, sepLastCol, 14, "الميدان: "+doc.Curriculum.Field, s.st.sepLine)
	s.span(1, 18, sepLastCol, 19, "الموسم الدراسي: "+g.AcademicYear, s.st.sepLine)
	for _, row := range []int{4, 5, 6, 7} {
		s.rowHeight(row, 30)
	}
}
