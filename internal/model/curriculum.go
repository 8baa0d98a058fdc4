package model

// Curriculum is the competency and criteria printed on assessment pages.
type Curriculum struct {
	Field      string   `json:"field" yaml:"-"`
	Competency string   `json:"competency" yaml:"competency"`
	Criteria   []string `json:"criteria" yaml:"criteria"`
}

// CurriculumParams are the path parameters of a curriculum lookup.
type CurriculumParams struct {
	Level string `uri:"level" binding:"required,level"`
	Term  string `uri:"term" binding:"required,term"`
}
