package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RevisionEntry is one save in the history output.
type RevisionEntry struct {
	Revision string `json:"revision"`
	User     string `json:"user"`
	Hash     string `json:"hash"`
	Seq      int64  `json:"seq"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <board-id>",
		Short: "Show the save history of a board",
		Long: `List every save of a board, oldest first, with the user who made it
and the hash of the stored configuration. Saves that did not change the
configuration share a hash with the save before them.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runHistory(opts *RootOptions, arg string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	id, err := parseBoardID(arg)
	if err != nil {
		return formatter.Fail(err)
	}

	mgr, closeFn, err := openManager(opts, false)
	if err != nil {
		return formatter.Fail(err)
	}
	defer closeFn()

	revs, err := mgr.History(cmd.Context(), id)
	if err != nil {
		return formatter.Fail(err)
	}

	entries := make([]RevisionEntry, 0, len(revs))
	for _, r := range revs {
		entries = append(entries, RevisionEntry{
			Revision: r.Revision,
			User:     r.UserKey,
			Hash:     r.ConfigHash,
			Seq:      r.Seq,
		})
	}

	if formatter.Format == "json" {
		return formatter.Success(entries)
	}

	fmt.Fprintf(formatter.Writer, "History for board %d:\n", id)
	for _, e := range entries {
		fmt.Fprintf(formatter.Writer, "  [%d] %s by %s\n", e.Seq, e.Revision, e.User)
		fmt.Fprintf(formatter.Writer, "       Hash: %s\n", e.Hash)
	}
	return nil
}
