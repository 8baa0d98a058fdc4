package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/stemsi/rosterdocs/internal/model"
	"github.com/stemsi/rosterdocs/internal/workbook"
)

func newExtractCommand(a *app) *cobra.Command {
	var compact bool

	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Print the groups found in a roster workbook as JSON",
		Example: `  rosterdocs extract export.xlsx
  rosterdocs extract --compact export.xlsx | jq '.[].section'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			groups, err := a.loadGroups(args[0])
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if !compact {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(groups)
		},
	}
	cmd.Flags().BoolVar(&compact, "compact", false, "print JSON on a single line")
	return cmd
}

// loadGroups decodes the workbook at path and extracts its groups.
func (a *app) loadGroups(path string) ([]model.Group, error) {
	if err := workbook.CheckFileName(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets, err := workbook.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	groups, err := a.extractor().ExtractSheets(sheets)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	a.log.Info().Str("file", path).Int("sheets", len(sheets)).Int("groups", len(groups)).Msg("Workbook extracted")
	return groups, nil
}
