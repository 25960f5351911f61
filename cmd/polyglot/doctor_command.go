package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"polyglot/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var offline bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check external tools, directories and service credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			problems := 0

			fmt.Fprintln(out, renderHeading("Dependencies", colorize))
			for _, status := range preflight.CheckSystemDeps(cmd.Context(), cfg) {
				state := checkPass
				detail := status.Detail
				switch {
				case status.Blocking():
					state = checkFail
					problems++
				case !status.Available:
					state = checkWarn
					detail = strings.TrimSpace(detail + " (optional)")
				}
				fmt.Fprintln(out, renderCheckLine(status.Name, state, detail, colorize))
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, renderHeading("Checks", colorize))
			for _, result := range preflight.RunAll(cmd.Context(), cfg, offline) {
				state := checkPass
				if !result.Passed {
					state = checkFail
					problems++
				}
				fmt.Fprintln(out, renderCheckLine(result.Name, state, result.Detail, colorize))
			}
			if offline {
				fmt.Fprintln(out, renderCheckLine("Network checks", checkInfo, "skipped (--offline)", colorize))
			}

			if problems > 0 {
				return fmt.Errorf("doctor found %d problem(s)", problems)
			}
			fmt.Fprintln(out, "\nAll checks passed")
			return nil
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "Skip checks that call remote services")
	return cmd
}
