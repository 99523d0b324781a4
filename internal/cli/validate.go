package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/jirban/internal/boardcfg"
	"github.com/roach88/jirban/internal/watcher"
)

// ValidationResult is the JSON payload of a successful validation.
type ValidationResult struct {
	Valid          bool     `json:"valid"`
	File           string   `json:"file"`
	Code           string   `json:"code"`
	Name           string   `json:"name"`
	States         int      `json:"states"`
	Projects       []string `json:"projects"`
	LinkedProjects []string `json:"linked_projects,omitempty"`
	ConfigHash     string   `json:"config_hash"`
	ViewHash       string   `json:"view_hash"`
}

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Watch bool
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <board-file>",
		Short: "Validate a board document against the host catalog",
		Long: `Validate a board document without storing it.

The document is resolved against the host catalog exactly as save would,
so a document that validates here will save. With --watch the document is
validated again every time it changes on disk until interrupted.

Example:
  jirban validate --catalog host.yaml board.json
  jirban validate --catalog host.yaml --watch board.cue`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Watch {
				return runValidateWatch(opts, args[0], cmd)
			}
			return runValidate(opts.RootOptions, args[0], cmd)
		},
	}

	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "re-validate whenever the file changes")

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	formatter.VerboseLog("Validating %s", path)
	cfg, err := loadBoard(opts, path)
	if err != nil {
		if formatter.Format != "json" {
			fmt.Fprintln(formatter.Writer, "✗ Validation failed")
		}
		return formatter.Fail(err)
	}
	return outputValidateSuccess(formatter, path, cfg)
}

func runValidateWatch(opts *ValidateOptions, path string, cmd *cobra.Command) error {
	logger := opts.Logger()

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	validateOnce := func() {
		// Failures are reported and watching continues.
		_ = runValidate(opts.RootOptions, path, cmd)
	}

	w, err := watcher.New([]string{path}, watcher.DefaultDebounce, validateOnce)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to watch board document", err)
	}
	defer w.Close()

	validateOnce()
	logger.Info("watching board document", "file", path)
	w.Run(ctx, func(err error) {
		logger.Warn("watch error", "file", path, "error", err)
	})
	logger.Info("stopped watching", "file", path)
	return nil
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, path string, cfg *boardcfg.BoardConfig) error {
	if formatter.Format == "json" {
		configHash, err := cfg.ConfigHash()
		if err != nil {
			return formatter.Fail(err)
		}
		viewHash, err := cfg.ViewHash()
		if err != nil {
			return formatter.Fail(err)
		}
		return formatter.Success(ValidationResult{
			Valid:          true,
			File:           path,
			Code:           cfg.Code(),
			Name:           cfg.Name(),
			States:         cfg.States().Len(),
			Projects:       cfg.ProjectCodes(),
			LinkedProjects: cfg.LinkedProjectCodes(),
			ConfigHash:     configHash,
			ViewHash:       viewHash,
		})
	}

	fmt.Fprintf(formatter.Writer, "✓ Board %s valid (%d states, %d projects)\n",
		cfg.Code(), cfg.States().Len(), len(cfg.ProjectCodes()))
	return nil
}
