package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"polyglot/internal/language"
)

type languageRow struct {
	Name string `json:"name"`
	Code string `json:"code"`
	ISO3 string `json:"iso3"`
	Role string `json:"role"`
}

func newLanguagesCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:         "languages",
		Short:       "List supported languages",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			all := language.All()
			rows := make([]languageRow, 0, len(all))
			for _, lang := range all {
				role := "target"
				if !lang.IsTarget() {
					role = "source"
				}
				rows = append(rows, languageRow{Name: lang.Name(), Code: lang.Code(), ISO3: lang.ISO3(), Role: role})
			}
			if asJSON {
				return writeJSON(cmd, rows)
			}
			cells := make([][]string, len(rows))
			for i, row := range rows {
				cells[i] = []string{row.Name, row.Code, row.ISO3, row.Role}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]column{
				left("Language"), left("Code"), left("ISO 639-2"), left("Role"),
			}, cells))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
