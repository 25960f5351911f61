package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"polyglot/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded jobs",
	}
	cmd.AddCommand(newHistoryListCommand(ctx))
	cmd.AddCommand(newHistoryShowCommand(ctx))
	cmd.AddCommand(newHistoryClearCommand(ctx))
	return cmd
}

func openHistory(ctx *commandContext) (*history.Store, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	return history.OpenFromConfig(cfg)
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, entries)
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No jobs recorded")
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					e.JobID,
					e.FinishedAt.Local().Format("2006-01-02 15:04"),
					e.Kind,
					e.Status,
					strconv.Itoa(e.Translated) + "/" + strconv.Itoa(len(e.Languages)),
					preview(e.Source, 40),
				})
			}
			fmt.Fprintln(out, renderTable([]column{
				left("Job"), left("Finished"), left("Kind"), left("Status"), right("Languages"), left("Source"),
			}, rows))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of jobs to list (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	var showText bool
	cmd := &cobra.Command{
		Use:   "show <job-id>",
		Short: "Show the result of a recorded job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			jobID := strings.TrimSpace(args[0])
			entry, err := store.Get(cmd.Context(), jobID)
			if err != nil {
				return err
			}
			if entry == nil {
				return fmt.Errorf("job %s not found", jobID)
			}
			if asJSON {
				return writeJSON(cmd, entry)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Status: %s\n", entry.Status)
			if entry.Error != "" {
				fmt.Fprintf(out, "Error:  %s (%s)\n", entry.Error, entry.FailureKind)
			}
			fmt.Fprintf(out, "Source: %s\n\n", entry.Source)
			resultView{showText: showText}.write(out, entry.Result)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&showText, "show-text", false, "Print full transcript and translations")
	return cmd
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d job(s)\n", removed)
			return nil
		},
	}
}
