package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/stemsi/rosterdocs/internal/curriculum"
	"github.com/stemsi/rosterdocs/internal/model"
	"github.com/stemsi/rosterdocs/internal/remark"
	"github.com/stemsi/rosterdocs/internal/render"
	"github.com/stemsi/rosterdocs/internal/service"
)

var defaultPages = []string{
	string(model.PageDiagnostic),
	string(model.PageSummative),
	string(model.PagePerformance),
	string(model.PageAttendance),
}

type renderOptions struct {
	group       int
	out         string
	pages       []string
	teacher     string
	subject     string
	margin      float64
	remarks     bool
	performance string
	curriculum  string
}

func newRenderCommand(a *app) *cobra.Command {
	opts := renderOptions{}

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render the printable documents of one group to an xlsx file",
		Example: `  rosterdocs render export.xlsx
  rosterdocs render --group 2 --pages separator,attendance --out attendance.xlsx export.xlsx
  GEMINI_API_KEY=... rosterdocs render --remarks --performance ممتاز export.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.render(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.group, "group", 0, "index of the group to render")
	f.StringVarP(&opts.out, "out", "o", "", "output file (default: named after the group)")
	f.StringSliceVar(&opts.pages, "pages", defaultPages, "pages to include: separator, diagnostic, summative, performance, attendance")
	f.StringVar(&opts.teacher, "teacher", a.cfg.TeacherName, "teacher name printed on the pages")
	f.StringVar(&opts.subject, "subject", a.cfg.SubjectName, "subject name printed on the pages")
	f.Float64Var(&opts.margin, "margin", a.cfg.PageMarginMM, "page margin in millimetres")
	f.BoolVar(&opts.remarks, "remarks", false, "generate remarks with Gemini (needs GEMINI_API_KEY)")
	f.StringVar(&opts.performance, "performance", remark.DefaultPerformance, "performance label used for remarks")
	f.StringVar(&opts.curriculum, "curriculum", a.cfg.CurriculumFile, "curriculum YAML file (default: built in)")
	return cmd
}

// render writes the documents and returns the output path.
func (a *app) render(ctx context.Context, path string, opts renderOptions) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	pages, err := parsePages(opts.pages)
	if err != nil {
		return "", err
	}

	groups, err := a.loadGroups(path)
	if err != nil {
		return "", err
	}
	if opts.group < 0 || opts.group >= len(groups) {
		return "", fmt.Errorf("group %d out of range: workbook has %d groups", opts.group, len(groups))
	}
	g := groups[opts.group]

	catalog, err := curriculum.Load(opts.curriculum)
	if err != nil {
		return "", err
	}

	if opts.remarks {
		if g.Remarks, err = a.remarks(ctx, &g, opts.performance); err != nil {
			return "", err
		}
	}

	data, err := render.Render(render.Document{
		Group:      g,
		Curriculum: catalog.Lookup(g.Level, g.Term),
		Settings: model.DocumentSettings{
			TeacherName: opts.teacher,
			SubjectName: opts.subject,
			Margins:     model.Margins{Top: opts.margin, Bottom: opts.margin, Left: opts.margin, Right: opts.margin},
		},
		Pages: pages,
	})
	if err != nil {
		return "", err
	}

	out := opts.out
	if out == "" {
		out = filepath.Join(filepath.Dir(path), service.DocumentFileName(&g))
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return "", err
	}

	a.log.Info().Str("out", out).Str("section", g.Section).Int("pages", len(pages)).Msg("Documents written")
	return out, nil
}

func (a *app) remarks(ctx context.Context, g *model.Group, performance string) (map[int]string, error) {
	m, err := remark.NewGeminiModel(ctx, a.cfg.GeminiAPIKey, a.cfg.GeminiModel)
	if err != nil {
		return nil, err
	}
	w := remark.NewWriter(m, a.cfg.RemarkLimit, a.log)
	return w.ForGroup(ctx, g, performance, func(p remark.Progress) {
		a.log.Info().Int("done", p.Done).Int("total", p.Total).Msg("Remark written")
	})
}

// parsePages validates page names and returns them in print order.
func parsePages(names []string) ([]model.Page, error) {
	var sel model.SelectedPages
	for _, name := range names {
		switch model.Page(strings.TrimSpace(name)) {
		case model.PageSeparator:
			sel.Separator = true
		case model.PageDiagnostic:
			sel.Diagnostic = true
		case model.PageSummative:
			sel.Summative = true
		case model.PagePerformance:
			sel.Performance = true
		case model.PageAttendance:
			sel.Attendance = true
		default:
			return nil, fmt.Errorf("unknown page %q", name)
		}
	}
	pages := sel.Ordered()
	if len(pages) == 0 {
		return nil, render.ErrNoPages
	}
	return pages, nil
}
