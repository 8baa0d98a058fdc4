package roster

import (
	"regexp"
	"strings"

	"github.com/stemsi/rosterdocs/internal/model"
)

var (
	schoolLabel = regexp.MustCompile(`المؤسسة[\s\p{Z}]*[:：][\s\p{Z}]*`)
	yearPattern = regexp.MustCompile(`\d{4}[-/]\d{4}`)

	colons = strings.NewReplacer(":", "", "：", "")
)

const (
	groupMarker   = "الفوج التربوي"
	subjectMarker = "مادة"

	secondKeyword = "الثاني"
	thirdKeyword  = "الثالث"
)

var altGroupMarkers = []string{"الفوج:", "الفوج："}

// Section derivation rules, reported in fallback logs.
const (
	ruleMarker      = "marker"
	ruleMarkerSheet = "marker_sheet_name"
	ruleAltMarker   = "alt_marker"
	ruleSheetName   = "sheet_name"
)

// termOf applies the keyword checks in order; the third-term check runs last and
// wins when both keywords are present.
func termOf(header string) model.Term {
	term := model.TermFirst
	if strings.Contains(header, secondKeyword) {
		term = model.TermSecond
	}
	if strings.Contains(header, thirdKeyword) {
		term = model.TermThird
	}
	return term
}

func sectionOf(header, sheetName string) (string, string) {
	if i := strings.Index(header, groupMarker); i >= 0 {
		after := header[i+len(groupMarker):]
		if j := strings.Index(after, groupMarker); j >= 0 {
			after = after[:j]
		}
		after, _, _ = strings.Cut(after, subjectMarker)
		raw := strings.TrimSpace(colons.Replace(after))
		if raw == "" {
			return decorateSection(sheetName), ruleMarkerSheet
		}
		return decorateSection(raw), ruleMarker
	}

	for _, marker := range altGroupMarkers {
		i := strings.Index(header, marker)
		if i < 0 {
			continue
		}
		fields := strings.Fields(header[i+len(marker):])
		if len(fields) == 0 {
			return decorateSection(sheetName), ruleMarkerSheet
		}
		return decorateSection(fields[0]), ruleAltMarker
	}

	return "(" + sheetName + ")", ruleSheetName
}

// decorateSection turns a trailing subgroup digit into a parenthesized letter:
// "تانية 1" becomes "تانية (أ)". Anything else is parenthesized as-is.
func decorateSection(raw string) string {
	switch {
	case strings.HasSuffix(raw, "1"):
		return strings.TrimSpace(strings.TrimSpace(strings.TrimSuffix(raw, "1")) + " (أ)")
	case strings.HasSuffix(raw, "2"):
		return strings.TrimSpace(strings.TrimSpace(strings.TrimSuffix(raw, "2")) + " (ب)")
	default:
		return "(" + raw + ")"
	}
}
