package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// SaveResult is the JSON payload of a successful save.
type SaveResult struct {
	ID       int64  `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Owner    string `json:"owner"`
	Revision string `json:"revision"`
	Hash     string `json:"hash"`
}

// SaveOptions holds flags for the save command.
type SaveOptions struct {
	*RootOptions
	ID      int64
	UserKey string
}

// NewSaveCommand creates the save command.
func NewSaveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SaveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "save <board-file>",
		Short: "Validate and store a board document",
		Long: `Validate a board document and store its normalized form.

Without --id a new board is created. With --id the stored board is replaced;
the user who created a board stays its owner. Nothing is stored unless the
whole document validates.

Example:
  jirban save --catalog host.yaml --user alice board.json
  jirban save --catalog host.yaml --user bob --id 3 board.cue`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSave(opts, args[0], cmd)
		},
	}

	cmd.Flags().Int64Var(&opts.ID, "id", 0, "id of the board to replace (0 creates a new board)")
	cmd.Flags().StringVar(&opts.UserKey, "user", "", "key of the user saving the board (required)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runSave(opts *SaveOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	if opts.ID < 0 {
		return formatter.Fail(withCode(ErrCodeBadArgument, fmt.Errorf("invalid board id %d", opts.ID)))
	}
	if opts.UserKey == "" {
		return formatter.Fail(withCode(ErrCodeBadArgument, errors.New("a user key is required")))
	}

	data, err := readDocument(path)
	if err != nil {
		return formatter.Fail(err)
	}

	mgr, closeFn, err := openManager(opts.RootOptions, true)
	if err != nil {
		return formatter.Fail(err)
	}
	defer closeFn()

	formatter.VerboseLog("Saving %s as user %s", path, opts.UserKey)
	saved, err := mgr.Save(cmd.Context(), opts.ID, opts.UserKey, data)
	if err != nil {
		return formatter.Fail(err)
	}

	board := saved.Board
	if formatter.Format == "json" {
		return formatter.Success(SaveResult{
			ID:       board.ID(),
			Code:     board.Code(),
			Name:     board.Name(),
			Owner:    board.OwningUserKey(),
			Revision: saved.Revision,
			Hash:     saved.Hash,
		})
	}

	fmt.Fprintf(formatter.Writer, "✓ Saved board %s (id %d)\n", board.Code(), board.ID())
	fmt.Fprintf(formatter.Writer, "  Revision: %s\n", saved.Revision)
	fmt.Fprintf(formatter.Writer, "  Hash:     %s\n", saved.Hash)
	return nil
}
