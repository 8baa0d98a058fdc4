package render

const (
	perfDiscipline = 3
	perfTechnique  = 6
	perfMark       = 8
	perfRemark     = 9
	perfLastCol    = perfRemark
)

var perfSubColumns = []string{"حضور", "بذلة", "سلوك", "مشاركة", "تنسيق"}

const (
	perfTitle = "بطاقة تقييم أداء التلاميذ"
	perfNote  = "\"يتم تقييم التلميذ بشكل مستمر عن طريق رصد دائم للأداء، مع مراعاة الجوانب الانضباطية والتقنية والسلوك الرياضي القويم.\""
	exempt    = "تلميذ معفي"
)

func writePerformance(s *sheet, doc *Document) {
	g := &doc.Group

	s.colWidth(1, 1, 5)
	s.colWidth(2, 2, 30)
	s.colWidth(perfDiscipline, perfMark-1, 7)
	s.colWidth(perfMark, perfMark, 8)
	s.colWidth(perfRemark, perfRemark, 22)

	s.span(1, 1, perfLastCol, 1, perfTitle, s.st.title)
	s.rowHeight(1, 24)
	infoBlock(s, 2, perfLastCol, doc)
	s.span(1, 5, perfLastCol, 5, perfNote, s.st.box)
	s.rowHeight(5, 28)

	const head = 7
	s.span(1, head, 1, head+1, "رقم", s.st.headerShade)
	s.span(2, head, 2, head+1, "اللقب والاسم", s.st.headerShade)
	s.span(perfDiscipline, head, perfTechnique-1, head, "الانضباط (5ن)", s.st.headerShade)
	s.span(perfTechnique, head, perfMark-1, head, "التقني (5ن)", s.st.headerShade)
	s.span(perfMark, head, perfMark, head+1, "العلامة", s.st.headerShade)
	s.span(perfRemark, head, perfRemark, head+1, "الملاحظة", s.st.headerShade)
	for i, label := range perfSubColumns {
		s.value(perfDiscipline+i, head+1, label, s.st.headerShade)
	}

	row := head + 2
	for i := 0; i < rowCount(g); i++ {
		s.value(1, row, i+1, s.st.index)
		st, ok := studentAt(g, i)
		switch {
		case !ok:
			s.style(2, row, perfLastCol, row, s.st.grid)
			s.style(2, row, 2, row, s.st.name)
		case st.IsExempt:
			s.value(2, row, st.Name, s.st.exemptName)
			s.span(perfDiscipline, row, perfLastCol, row, exempt, s.st.exemptNote)
		default:
			s.value(2, row, st.Name, s.st.name)
			s.style(perfDiscipline, row, perfMark, row, s.st.grid)
			s.value(perfRemark, row, g.Remarks[st.ID], s.st.remark)
		}
		s.rowHeight(row, 14.7)
		row++
	}

	s.span(perfMark-1, row+1, perfLastCol, row+1, "ختم وإمضاء الأستاذ:", s.st.signature)
	s.rowHeight(row+2, 30)
}
