package model

// Term is the academic term label a roster belongs to.
type Term string

const (
	TermFirst  Term = "الفصل الأول"
	TermSecond Term = "الفصل الثاني"
	TermThird  Term = "الفصل الثالث"
)

// Terms lists the terms in calendar order.
var Terms = []Term{TermFirst, TermSecond, TermThird}

// Valid reports whether t is one of the known terms.
func (t Term) Valid() bool {
	for _, known := range Terms {
		if t == known {
			return true
		}
	}
	return false
}

// Level is the grade-year code of a group ("1".."5").
type Level string

const (
	Level1 Level = "1"
	Level2 Level = "2"
	Level3 Level = "3"
	Level4 Level = "4"
	Level5 Level = "5"
)

var levelNames = map[Level]string{
	Level1: "أولى إبتدائي",
	Level2: "ثانية إبتدائي",
	Level3: "ثالثة إبتدائي",
	Level4: "رابعة إبتدائي",
	Level5: "خامسة إبتدائي",
}

// Valid reports whether l is one of the known level codes.
func (l Level) Valid() bool {
	_, ok := levelNames[l]
	return ok
}

// DisplayName returns the printable grade name, or the raw code when unknown.
func (l Level) DisplayName() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return string(l)
}

// Student is one roster entry recovered from a sheet.
type Student struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	IsExempt bool   `json:"is_exempt"`
}

// Group is the normalized form of one sheet: school header data and its students.
type Group struct {
	SheetName    string         `json:"sheet_name"`
	SchoolName   string         `json:"school_name"`
	AcademicYear string         `json:"academic_year"`
	Term         Term           `json:"term"`
	Section      string         `json:"section"`
	Level        Level          `json:"level"`
	Students     []Student      `json:"students"`
	Remarks      map[int]string `json:"remarks,omitempty"`
}

// Student returns the student with the given id.
func (g *Group) Student(id int) (*Student, bool) {
	for i := range g.Students {
		if g.Students[i].ID == id {
			return &g.Students[i], true
		}
	}
	return nil, false
}

// Sheet is one decoded worksheet: its display name and raw cell grid.
type Sheet struct {
	Name string
	Rows [][]string
}
