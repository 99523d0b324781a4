package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/jirban/internal/boardcfg"
)

// Views a board can be rendered as.
const (
	ViewBoard  = "board"
	ViewConfig = "config"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	View string
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render <board-file>",
		Short: "Render a board document as canonical JSON",
		Long: `Resolve a board document and print one of its serializations.

The board view is the payload a board client renders from: ordered states
with headers and backlog/done markers, resolved priorities, issue types and
custom fields, and per-project state mappings. The config view is the
normalized editable document as save would store it.

Example:
  jirban render --catalog host.yaml board.json
  jirban render --catalog host.yaml --view config board.cue`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(opts.RootOptions, cmd)
			if err := checkView(opts.View); err != nil {
				return formatter.Fail(err)
			}
			cfg, err := loadBoard(opts.RootOptions, args[0])
			if err != nil {
				return formatter.Fail(err)
			}
			return outputView(formatter, cfg, opts.View)
		},
	}

	cmd.Flags().StringVar(&opts.View, "view", ViewBoard, "serialization to print (board|config)")

	return cmd
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}

func checkView(view string) error {
	if view != ViewBoard && view != ViewConfig {
		return withCode(ErrCodeBadArgument, fmt.Errorf("invalid view %q: must be %s or %s", view, ViewBoard, ViewConfig))
	}
	return nil
}

// outputView prints the requested serialization. Text output is the bare
// canonical JSON so it can be piped; JSON output wraps it in a response.
func outputView(formatter *OutputFormatter, cfg *boardcfg.BoardConfig, view string) error {
	var (
		out []byte
		err error
	)
	if view == ViewConfig {
		out, err = cfg.MarshalForConfig()
	} else {
		out, err = cfg.MarshalForBoard()
	}
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Format == "json" {
		return formatter.Success(json.RawMessage(out))
	}
	fmt.Fprintln(formatter.Writer, string(out))
	return nil
}
