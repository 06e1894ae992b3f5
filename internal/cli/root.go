package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/methodql/internal/derive"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose   bool
	Format    string // "json" | "text"
	SplitMode string // "fragment" | "substring"
	Separator string // nested path separator inside method names
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the methodql CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "methodql",
		Short: "methodql - queries derived from repository method names",
		Long: `Derive queries from repository method names such as
findByNameAndAgeGreaterThanOrderByNameDesc.

Repository definitions are YAML or CUE files that declare an entity and
the methods to compile. Every method is parsed into a query tree and
rendered as JPQL-style text and as dialect SQL.`,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if _, err := derive.ParseSplitMode(opts.SplitMode); err != nil {
				return err
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.SplitMode, "split-mode", "fragment", "keyword split mode (fragment|substring)")
	cmd.PersistentFlags().StringVar(&opts.Separator, "separator", "_", "nested property separator in method names")

	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewExplainCommand(opts))
	cmd.AddCommand(NewQueryCommand(opts))

	return cmd
}

// deriveOptions converts the global flags to engine options.
func (o *RootOptions) deriveOptions() ([]derive.Option, error) {
	var opts []derive.Option
	if o.SplitMode != "" {
		mode, err := derive.ParseSplitMode(o.SplitMode)
		if err != nil {
			return nil, err
		}
		opts = append(opts, derive.WithSplitMode(mode))
	}
	if o.Separator != "" {
		opts = append(opts, derive.WithPathSeparator(o.Separator))
	}
	return opts, nil
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
