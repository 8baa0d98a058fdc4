package render

import (
	"dario.cat/mergo"
	"github.com/xuri/excelize/v2"
)

const (
	fontFamily = "Arial"
	black      = "#000000"
	red        = "#DC2626"
	blue       = "#1E3A8A"
)

// styles holds the style IDs registered once per workbook.
type styles struct {
	title       int
	info        int
	box         int
	header      int
	headerShade int
	index       int
	name        int
	grid        int
	remark      int
	exemptName  int
	exemptNote  int
	legend      int
	signature   int
	sepTerm     int
	sepTitle    int
	sepLine     int
}

type styleDef struct {
	id    *int
	style *excelize.Style
}

func newStyles(f *excelize.File) (*styles, error) {
	s := &styles{}
	defs := []styleDef{
		{&s.title, mergeStyles(font(14, true, black), align("center"), thickBorder(allSides...))},
		{&s.info, mergeStyles(font(9, true, black), align("right"))},
		{&s.box, mergeStyles(font(9, true, black), wrapAlign("center"), thinBorder(allSides...), shade("#F1F5F9"))},
		{&s.header, mergeStyles(font(8, true, black), wrapAlign("center"), thinBorder(allSides...))},
		{&s.headerShade, mergeStyles(font(8, true, black), wrapAlign("center"), thinBorder(allSides...), shade("#E2E8F0"))},
		{&s.index, mergeStyles(font(8, true, black), align("center"), thinBorder(allSides...))},
		{&s.name, mergeStyles(font(8.5, true, black), align("right"), thinBorder(allSides...))},
		{&s.grid, mergeStyles(thinBorder(allSides...))},
		{&s.remark, mergeStyles(font(6.5, true, blue), shrinkAlign("center"), thinBorder(allSides...))},
		{&s.exemptName, mergeStyles(struckFont(8.5, red), align("right"), thinBorder(allSides...), shade("#FEF2F2"))},
		{&s.exemptNote, mergeStyles(italicFont(7.5, red), align("center"), thinBorder(allSides...), shade("#FEF2F2"))},
		{&s.legend, mergeStyles(font(8, true, black), align("center"), thickBorder("top"))},
		{&s.signature, mergeStyles(font(10, true, black), align("center"))},
		{&s.sepTerm, mergeStyles(font(48, true, black), align("center"), thickBorder(allSides...))},
		{&s.sepTitle, mergeStyles(font(28, true, black), align("center"))},
		{&s.sepLine, mergeStyles(font(18, true, black), align("center"))},
	}

	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return nil, err
		}
		*d.id = id
	}
	return s, nil
}

var allSides = []string{"left", "right", "top", "bottom"}

func font(size float64, bold bool, color string) *excelize.Style {
	return &excelize.Style{
		Font: &excelize.Font{
			Family: fontFamily,
			Size:   size,
			Bold:   bold,
			Color:  color,
		},
	}
}

func struckFont(size float64, color string) *excelize.Style {
	return &excelize.Style{
		Font: &excelize.Font{
			Family: fontFamily,
			Size:   size,
			Italic: true,
			Strike: true,
			Color:  color,
		},
	}
}

func italicFont(size float64, color string) *excelize.Style {
	return &excelize.Style{
		Font: &excelize.Font{
			Family: fontFamily,
			Size:   size,
			Bold:   true,
			Italic: true,
			Color:  color,
		},
	}
}

// align sets horizontal alignment; text always reads right to left.
func align(h string) *excelize.Style {
	return &excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal:   h,
			Vertical:     "center",
			ReadingOrder: 2,
		},
	}
}

func wrapAlign(h string) *excelize.Style {
	s := align(h)
	s.Alignment.WrapText = true
	return s
}

func shrinkAlign(h string) *excelize.Style {
	s := align(h)
	s.Alignment.ShrinkToFit = true
	return s
}

func shade(color string) *excelize.Style {
	return &excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{color},
			Pattern: 1,
		},
	}
}

func thinBorder(where ...string) *excelize.Style {
	return border(1, where)
}

func thickBorder(where ...string) *excelize.Style {
	return border(2, where)
}

func border(style int, where []string) *excelize.Style {
	s := &excelize.Style{}
	for _, w := range where {
		s.Border = append(s.Border, excelize.Border{
			Type:  w,
			Color: black,
			Style: style,
		})
	}
	return s
}

func mergeStyles(ext ...*excelize.Style) *excelize.Style {
	if len(ext) == 0 {
		return nil
	}
	for _, e := range ext[1:] {
		_ = mergo.Merge(ext[0], e, mergo.WithOverride)
	}
	return ext[0]
}
