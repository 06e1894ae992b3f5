package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid        bool            `json:"valid"`
	Repositories int             `json:"repositories"`
	Methods      int             `json:"methods"`
	Errors       []MethodFailure `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <definitions>",
		Short: "Check that every declared method can be derived",
		Long: `Load the repository definitions and compile every declared method,
reporting all failures instead of stopping at the first one.

Exits 1 when any method fails to compile and 2 when the definitions
cannot be loaded.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	logger := newLogger(opts, formatter.GetErrWriter())
	defer logger.Sync()

	loaded, err := LoadRepositories(opts, path, logger)
	if err != nil {
		return outputCommandError(formatter, err)
	}
	for _, def := range loaded.Definitions {
		formatter.VerboseLog("Validating %s (%d method(s)) from %s", def.Name, len(def.Methods), def.Source)
	}

	if len(loaded.Failures) > 0 {
		return outputValidationErrors(formatter, loaded.Failures)
	}

	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{
			Valid:        true,
			Repositories: len(loaded.Definitions),
			Methods:      loaded.MethodCount(),
		})
	}
	fmt.Fprintf(formatter.Writer, "✓ All methods valid (%d repositories, %d methods)\n",
		len(loaded.Definitions), loaded.MethodCount())
	return nil
}

// outputValidationErrors outputs method failures and returns exit code 1.
func outputValidationErrors(formatter *OutputFormatter, failures []MethodFailure) error {
	exitErr := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(failures)))

	if formatter.Format == "json" {
		err := formatter.encode(CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: failures},
			Error: &CLIError{
				Code:    failures[0].Code,
				Message: failures[0].Message,
			},
		})
		if err != nil {
			return err
		}
		return exitErr
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, f := range failures {
		if f.Source != "" {
			fmt.Fprintln(formatter.Writer, f.Source)
		}
		fmt.Fprintf(formatter.Writer, "  %s\n\n", describeFailure(f))
	}
	return exitErr
}
