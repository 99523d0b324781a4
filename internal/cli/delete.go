package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "delete <board-id>",
		Short:         "Delete a stored board and its history",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			id, err := parseBoardID(args[0])
			if err != nil {
				return formatter.Fail(err)
			}

			mgr, closeFn, err := openManager(rootOpts, false)
			if err != nil {
				return formatter.Fail(err)
			}
			defer closeFn()

			if err := mgr.Delete(cmd.Context(), id); err != nil {
				return formatter.Fail(err)
			}

			if formatter.Format == "json" {
				return formatter.Success(map[string]int64{"deleted": id})
			}
			fmt.Fprintf(formatter.Writer, "✓ Deleted board %d\n", id)
			return nil
		},
	}

	return cmd
}
