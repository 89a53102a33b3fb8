// Package commands implements the CLI commands for hoist.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/hoist/internal/app"
	"go.trai.ch/hoist/internal/build"
	"go.trai.ch/hoist/internal/core/domain"
)

// CLI represents the command line interface for hoist.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Apply(o app.Overrides) error
	Actions(ctx context.Context, targets []string) (domain.Catalog, []domain.TargetDescriptor, error)
	Run(ctx context.Context, targets []string, opts app.RunOptions) (domain.BatchResult, error)
	CacheStats() (domain.CacheStats, error)
	ClearCache() error
	InvalidateCache(targets []string) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "hoist",
		Short:         "Detect a project's ecosystem and run its common actions",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	flags := rootCmd.PersistentFlags()
	flags.String("cache-max-age", "", "Cache validity window (e.g. 30m, or seconds)")
	flags.StringP("output", "o", "", "Output mode: auto, linear, or progrock")
	flags.Bool("json-logs", false, "Emit logs as JSON")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPreRunE = c.applyOverrides

	rootCmd.AddCommand(c.newActionsCmd())
	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newMultiCmd())
	rootCmd.AddCommand(c.newCacheCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

func (c *CLI) applyOverrides(cmd *cobra.Command, _ []string) error {
	maxAge, _ := cmd.Flags().GetString("cache-max-age")
	output, _ := cmd.Flags().GetString("output")
	jsonLogs, _ := cmd.Flags().GetBool("json-logs")
	return c.app.Apply(app.Overrides{
		MaxAge:   maxAge,
		Output:   output,
		JSONLogs: jsonLogs,
	})
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
