// Command rosterdocs extracts class groups from school roster workbooks and
// renders their printable follow-up documents without running the server.
package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stemsi/rosterdocs/internal/config"
	"github.com/stemsi/rosterdocs/internal/logger"
	"github.com/stemsi/rosterdocs/internal/model"
	"github.com/stemsi/rosterdocs/internal/roster"
)

func main() {
	if err := newRootCommand(config.Load()).Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries what every subcommand needs.
type app struct {
	cfg       *config.Config
	log       zerolog.Logger
	logLevel  string
	logFormat string
}

func newRootCommand(cfg *config.Config) *cobra.Command {
	a := &app{cfg: cfg, log: zerolog.Nop()}

	root := &cobra.Command{
		Use:           "rosterdocs",
		Short:         "Extract roster workbooks and render follow-up documents",
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			a.log = logger.New(cmd.ErrOrStderr(), a.logLevel, a.logFormat)
		},
	}
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "pretty", "log format: pretty or json")

	root.AddCommand(newExtractCommand(a))
	root.AddCommand(newRenderCommand(a))
	return root
}

func (a *app) extractor() *roster.Extractor {
	return roster.NewExtractor(roster.Fallbacks{
		SchoolName:   a.cfg.DefaultSchoolName,
		AcademicYear: a.cfg.DefaultAcademicYear,
		Level:        model.Level(a.cfg.DefaultLevel),
	}, a.log)
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
