package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// BoardEntry is one board in the list output.
type BoardEntry struct {
	ID       int64  `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Owner    string `json:"owner"`
	Revision string `json:"revision"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List stored boards",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, cmd)
		},
	}

	return cmd
}

func runList(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	mgr, closeFn, err := openManager(opts, false)
	if err != nil {
		return formatter.Fail(err)
	}
	defer closeFn()

	boards, err := mgr.List(cmd.Context())
	if err != nil {
		return formatter.Fail(err)
	}

	entries := make([]BoardEntry, 0, len(boards))
	for _, b := range boards {
		entries = append(entries, BoardEntry{
			ID:       b.ID,
			Code:     b.Code,
			Name:     b.Name,
			Owner:    b.OwningUserKey,
			Revision: b.Revision,
		})
	}

	if formatter.Format == "json" {
		return formatter.Success(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(formatter.Writer, "No boards stored")
		return nil
	}
	fmt.Fprintf(formatter.Writer, "%-6s %-10s %-24s %s\n", "ID", "CODE", "NAME", "OWNER")
	for _, e := range entries {
		fmt.Fprintf(formatter.Writer, "%-6d %-10s %-24s %s\n", e.ID, e.Code, e.Name, e.Owner)
	}
	return nil
}
