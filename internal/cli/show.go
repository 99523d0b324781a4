package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/jirban/internal/boardcfg"
	"github.com/roach88/jirban/internal/manager"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	View string
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <board-id|board-code>",
		Short: "Render a stored board",
		Long: `Load a stored board, resolve it against the current host catalog and
print one of its serializations. A board is addressed by numeric id or by
its code.

Example:
  jirban show --catalog host.yaml 1
  jirban show --catalog host.yaml --view config TST`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(opts.RootOptions, cmd)
			if err := checkView(opts.View); err != nil {
				return formatter.Fail(err)
			}

			mgr, closeFn, err := openManager(opts.RootOptions, true)
			if err != nil {
				return formatter.Fail(err)
			}
			defer closeFn()

			cfg, err := lookupBoard(cmd, mgr, args[0])
			if err != nil {
				return formatter.Fail(err)
			}
			return outputView(formatter, cfg, opts.View)
		},
	}

	cmd.Flags().StringVar(&opts.View, "view", ViewBoard, "serialization to print (board|config)")

	return cmd
}

// lookupBoard treats a numeric argument as an id and anything else as a code.
func lookupBoard(cmd *cobra.Command, mgr *manager.Manager, arg string) (*boardcfg.BoardConfig, error) {
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
		return mgr.Get(cmd.Context(), id)
	}
	return mgr.GetByCode(cmd.Context(), arg)
}
