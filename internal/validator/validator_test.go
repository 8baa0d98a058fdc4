package validator

import (
	"testing"

	govalidator "github.com/go-playground/validator/v10"
)

type curriculumParams struct {
	Level string `uri:"level" binding:"required,level" validate:"required,level"`
	Term  string `uri:"term" binding:"required,term" validate:"required,term"`
}

func newValidator() *govalidator.Validate {
	v := govalidator.New()
	Register(v)
	return v
}

func TestRegister_RosterTags(t *testing.T) {
	v := newValidator()

	tests := []struct {
		name   string
		params curriculumParams
		fields []string
	}{
		{"valid", curriculumParams{Level: "3", Term: "الفصل الثاني"}, nil},
		{"bad level", curriculumParams{Level: "6", Term: "الفصل الأول"}, []string{"level"}},
		{"bad term", curriculumParams{Level: "1", Term: "الفصل الرابع"}, []string{"term"}},
		{"both missing", curriculumParams{}, []string{"level", "term"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.params)
			if tt.fields == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			got := TranslateErrors(err)
			for _, f := range tt.fields {
				if got[f] == "" {
					t.Errorf("expected a message for %q, got %v", f, got)
				}
			}
		})
	}
}

func TestTranslateErrors_CustomMessage(t *testing.T) {
	err := newValidator().Struct(curriculumParams{Level: "9", Term: "الفصل الأول"})
	got := TranslateErrors(err)
	if got["level"] != "level must be a level between 1 and 5" {
		t.Errorf("level message = %q", got["level"])
	}
}
