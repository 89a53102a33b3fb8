package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/hoist/internal/core/domain"
)

func (c *CLI) newActionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "actions <path>...",
		Short: "List the actions available for one or more targets",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, descs, err := c.app.Actions(cmd.Context(), args)
			if err != nil {
				return err
			}
			printActions(cmd.OutOrStdout(), catalog, descs)
			return nil
		},
	}
}

func printActions(w io.Writer, catalog domain.Catalog, descs []domain.TargetDescriptor) {
	for _, d := range descs {
		_, _ = fmt.Fprintf(w, "%s: %s\n", d.Path, d.Kind.Title())
	}

	if len(catalog) == 0 {
		_, _ = fmt.Fprintln(w, "No actions available")
		return
	}

	header := "Actions:"
	if len(descs) > 1 {
		header = "Common actions:"
	}
	_, _ = fmt.Fprintln(w, header)
	for _, a := range catalog {
		name := a.Flag
		if a.ValueRequired {
			name += "=<value>"
		}
		_, _ = fmt.Fprintf(w, "  %-16s %s\n", name, a.Description)
	}
}
