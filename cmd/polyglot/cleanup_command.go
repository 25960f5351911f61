package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"polyglot/internal/workspace"
)

func newCleanupCommand(ctx *commandContext) *cobra.Command {
	var maxAge time.Duration
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove stale job workspaces",
		Long:  "Remove job workspaces older than --max-age. Refuses to run while a job holds the workspace lock.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			manager := workspace.NewManager(cfg.Paths.WorkDir, cfg.Pipeline.KeepWorkspace, logger)
			out := cmd.OutOrStdout()

			if dryRun {
				dirs, err := manager.List()
				if err != nil {
					return err
				}
				cutoff := time.Now().Add(-maxAge)
				stale := 0
				for _, dir := range dirs {
					if dir.ModTime.Before(cutoff) {
						stale++
						fmt.Fprintf(out, "would remove %s (%s)\n", dir.Path, formatBytes(dir.Size))
					}
				}
				fmt.Fprintf(out, "%d of %d workspace(s) are stale\n", stale, len(dirs))
				return nil
			}

			result, err := manager.Prune(cmd.Context(), maxAge)
			if errors.Is(err, workspace.ErrBusy) {
				return fmt.Errorf("a job is using %s; retry cleanup when it finishes", manager.Root())
			}
			if err != nil {
				return err
			}
			for _, path := range result.Removed {
				fmt.Fprintf(out, "removed %s\n", path)
			}
			for _, failure := range result.Errors {
				fmt.Fprintf(cmd.ErrOrStderr(), "failed to remove %s: %s\n", failure.Path, failure.Error)
			}
			fmt.Fprintf(out, "Removed %d workspace(s)\n", len(result.Removed))
			if len(result.Errors) > 0 {
				return fmt.Errorf("%d workspace(s) could not be removed", len(result.Errors))
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&maxAge, "max-age", 24*time.Hour, "Remove workspaces older than this")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List stale workspaces without removing them")
	return cmd
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
