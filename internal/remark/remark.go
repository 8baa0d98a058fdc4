// Package remark writes the short encouraging remarks printed next to each student.
package remark

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stemsi/rosterdocs/internal/model"
)

const (
	// FallbackOnError replaces a remark whose generation failed.
	FallbackOnError = "أداء متميز وتطور ملحوظ."
	// FallbackOnEmpty replaces an empty generated remark.
	FallbackOnEmpty = "أداء جيد يحتاج للاستمرار."

	DefaultPerformance = "جيد"
	DefaultLimit       = 35
)

// Model generates one remark for a student of the given level and performance label.
type Model interface {
	Remark(ctx context.Context, level model.Level, performance string) (string, error)
}

// Progress reports one finished student of a group run.
type Progress struct {
	StudentID int    `json:"student_id"`
	Remark    string `json:"remark"`
	Done      int    `json:"done"`
	Total     int    `json:"total"`
}

// Writer drives a Model one student at a time and never fails a run because
// of a single student.
type Writer struct {
	model Model
	limit int
	log   zerolog.Logger
}

// NewWriter creates a Writer. A non-positive limit means DefaultLimit.
func NewWriter(m Model, limit int, log zerolog.Logger) *Writer {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Writer{
		model: m,
		limit: limit,
		log:   log.With().Str("component", "remark_writer").Logger(),
	}
}

// Remark returns a remark for one student, substituting the fallbacks on error
// or empty output.
func (w *Writer) Remark(ctx context.Context, level model.Level, performance string) string {
	if performance == "" {
		performance = DefaultPerformance
	}
	text, err := w.model.Remark(ctx, level, performance)
	if err != nil {
		w.log.Warn().Err(err).Str("level", string(level)).Msg("Remark generation failed, using fallback")
		return FallbackOnError
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return FallbackOnEmpty
	}
	return text
}

// Targets returns the students a group run covers: the first limit students in
// roster order, exempt ones left out.
func (w *Writer) Targets(g *model.Group) []model.Student {
	students := g.Students
	if len(students) > w.limit {
		students = students[:w.limit]
	}
	targets := make([]model.Student, 0, len(students))
	for _, s := range students {
		if !s.IsExempt {
			targets = append(targets, s)
		}
	}
	return targets
}

// ForGroup writes remarks for the group's targets sequentially. onProgress, if
// set, is called after each student. When ctx is cancelled the remarks written
// so far are returned with the context error.
func (w *Writer) ForGroup(ctx context.Context, g *model.Group, performance string, onProgress func(Progress)) (map[int]string, error) {
	targets := w.Targets(g)
	remarks := make(map[int]string, len(targets))

	for i, s := range targets {
		if err := ctx.Err(); err != nil {
			return remarks, err
		}
		text := w.Remark(ctx, g.Level, performance)
		remarks[s.ID] = text
		if onProgress != nil {
			onProgress(Progress{StudentID: s.ID, Remark: text, Done: i + 1, Total: len(targets)})
		}
	}

	w.log.Info().
		Str("sheet", g.SheetName).
		Int("remarks", len(remarks)).
		Msg("Group remarks written")
	return remarks, nil
}
