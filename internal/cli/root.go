package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Version is the jirban release version.
const Version = "0.1.0"

// EnvPrefix prefixes the environment variables that back the global flags,
// e.g. JIRBAN_DB for --db.
const EnvPrefix = "JIRBAN"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose     bool
	Format      string // "json" | "text"
	ConfigFile  string // optional YAML file with flag defaults
	DBPath      string
	CatalogPath string
	RankFieldID int64

	logger *slog.Logger
}

// Logger returns the logger installed by the root command, or a discarding
// logger when the command runs standalone.
func (o *RootOptions) Logger() *slog.Logger {
	if o.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the jirban CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "jirban",
		Version: Version,
		Short:   "Jirban - board configuration for issue trackers",
		Long: `Validate, render and store Kanban board configurations.

A board document declares the board's state columns, the projects feeding it
and how their workflow states map onto the columns. Documents are JSON or CUE
and are resolved against a host catalog of priorities, issue types and custom
fields.

Global flags may also be set through the environment (JIRBAN_DB,
JIRBAN_CATALOG, JIRBAN_RANK_FIELD_ID) or a YAML file passed with --config.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := resolveOptions(opts, cmd.Root().PersistentFlags()); err != nil {
				return err
			}
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}

			level := slog.LevelWarn
			if opts.Verbose {
				level = slog.LevelDebug
			}
			opts.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: level,
			}))
			return nil
		},
	}

	// Global flags
	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	flags.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	flags.StringVar(&opts.ConfigFile, "config", "", "YAML file with default flag values")
	flags.StringVar(&opts.DBPath, "db", "jirban.db", "path to SQLite database")
	flags.StringVar(&opts.CatalogPath, "catalog", "", "path to host catalog YAML")
	flags.Int64Var(&opts.RankFieldID, "rank-field-id", 0, "custom field id holding the issue rank")

	// Add subcommands
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewRenderCommand(opts))
	cmd.AddCommand(NewSaveCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))

	return cmd
}

// resolveOptions layers flags over environment over config file. Flags the
// user set explicitly always win.
func resolveOptions(opts *RootOptions, flags *pflag.FlagSet) error {
	v := viper.New()
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}

	opts.Verbose = v.GetBool("verbose")
	opts.Format = v.GetString("format")
	opts.DBPath = v.GetString("db")
	opts.CatalogPath = v.GetString("catalog")
	opts.RankFieldID = v.GetInt64("rank-field-id")
	return nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
