package roster

import (
	"regexp"
	"strings"

	"github.com/stemsi/rosterdocs/internal/model"
)

// levelDigit matches a grade digit standing on its own, so "4 ابتدائي" counts
// while "Sheet4" or "2025" do not.
var levelDigit = regexp.MustCompile(`(?:^|[^\p{L}\p{N}])([1-5١-٥])(?:[^\p{L}\p{N}]|$)`)

var arabicIndic = strings.NewReplacer("١", "1", "٢", "2", "٣", "3", "٤", "4", "٥", "5")

// levelKeywords is searched in order; the first keyword found wins.
var levelKeywords = []struct {
	keyword string
	level   model.Level
}{
	{"أولى", model.Level1},
	{"الأولى", model.Level1},
	{"الاولى", model.Level1},
	{"ثانية", model.Level2},
	{"الثانية", model.Level2},
	{"ثالثة", model.Level3},
	{"الثالثة", model.Level3},
	{"رابعة", model.Level4},
	{"الرابعة", model.Level4},
	{"خامسة", model.Level5},
	{"الخامسة", model.Level5},
}

const (
	ruleDigit   = "digit"
	ruleKeyword = "keyword"
)

// levelOf returns the level found in the section or sheet name, or "" when
// neither names one. A standalone digit wins unless a level keyword comes
// before it in the section, as in "ثانية 3" where the digit is a subgroup.
func levelOf(section, sheetName string) (model.Level, string) {
	if m := levelDigit.FindStringSubmatchIndex(section); m != nil {
		if kw, at := firstKeyword(section); kw == "" || at > m[2] {
			return model.Level(arabicIndic.Replace(section[m[2]:m[3]])), ruleDigit
		}
	}
	for _, kw := range levelKeywords {
		if strings.Contains(section, kw.keyword) || strings.Contains(sheetName, kw.keyword) {
			return kw.level, ruleKeyword
		}
	}
	return "", ""
}

// firstKeyword returns the level of the leftmost keyword in s and its offset.
func firstKeyword(s string) (model.Level, int) {
	var (
		level model.Level
		at    = -1
	)
	for _, kw := range levelKeywords {
		if i := strings.Index(s, kw.keyword); i >= 0 && (at < 0 || i < at) {
			level, at = kw.level, i
		}
	}
	return level, at
}
