package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/hoist/internal/app"
	"go.trai.ch/hoist/internal/core/domain"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <path>",
		Short: "Run actions for a single target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.execute(cmd, args, 1)
		},
	}
	addRunFlags(cmd)
	return cmd
}

func (c *CLI) newMultiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "multi <path>...",
		Short: "Run the same actions for many targets concurrently",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parallel, _ := cmd.Flags().GetInt("parallel")
			return c.execute(cmd, args, parallel)
		},
	}
	addRunFlags(cmd)
	cmd.Flags().IntP("parallel", "p", 0, "Maximum number of targets running at once (default: configured parallelism)")
	return cmd
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayP("action", "a", nil, "Action to run as flag or flag=value (repeatable, runs in order)")
	cmd.Flags().Bool("dry-run", false, "Print the commands without running them")
	cmd.Flags().Bool("refresh", false, "Ignore cached detection results")
}

func (c *CLI) execute(cmd *cobra.Command, targets []string, parallelism int) error {
	actions, _ := cmd.Flags().GetStringArray("action")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	refresh, _ := cmd.Flags().GetBool("refresh")

	res, err := c.app.Run(cmd.Context(), targets, app.RunOptions{
		Actions:     actions,
		DryRun:      dryRun,
		Refresh:     refresh,
		Parallelism: parallelism,
	})
	if len(res.Results) > 0 {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), summary(res))
	}
	return err
}

func summary(res domain.BatchResult) string {
	var ok, failed, skipped int
	for _, r := range res.Results {
		switch {
		case !r.Success:
			failed++
		case r.Skipped != domain.SkipNone:
			skipped++
		default:
			ok++
		}
	}
	return fmt.Sprintf("%d succeeded, %d skipped, %d failed", ok, skipped, failed)
}
