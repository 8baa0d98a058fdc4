package model

import "time"

// Setting keys stored in app_settings.
const (
	SettingTeacherName  = "teacher_name"
	SettingSubjectName  = "subject_name"
	SettingMarginTop    = "margin_top_mm"
	SettingMarginBottom = "margin_bottom_mm"
	SettingMarginLeft   = "margin_left_mm"
	SettingMarginRight  = "margin_right_mm"
)

// AppSetting is one persisted key-value pair.
type AppSetting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Margins are page margins in millimetres.
type Margins struct {
	Top    float64 `json:"top" binding:"min=0,max=50"`
	Bottom float64 `json:"bottom" binding:"min=0,max=50"`
	Left   float64 `json:"left" binding:"min=0,max=50"`
	Right  float64 `json:"right" binding:"min=0,max=50"`
}

// DocumentSettings are the operator-level values printed on or shaping every page.
type DocumentSettings struct {
	TeacherName string  `json:"teacher_name" binding:"max=100"`
	SubjectName string  `json:"subject_name" binding:"required,max=100"`
	Margins     Margins `json:"margins"`
}
