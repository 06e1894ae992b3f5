package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/methodql/internal/derive"
	"github.com/roach88/methodql/internal/querysql"
	"github.com/roach88/methodql/internal/repository"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
	Driver string // SQL dialect driver name
}

// CompiledMethod is one compiled repository method.
type CompiledMethod struct {
	Repository     string                      `json:"repository"`
	Method         string                      `json:"method"`
	Kind           derive.QueryKind            `json:"kind"`
	Query          string                      `json:"query"`
	SQL            string                      `json:"sql"`
	ParameterCount int                         `json:"parameter_count"`
	Transforms     []derive.ParameterTransform `json:"transforms,omitempty"`
	MaxResults     int                         `json:"max_results,omitempty"`
}

// CompilationResult holds every compiled method of a definition path.
type CompilationResult struct {
	Dialect string           `json:"dialect"`
	Methods []CompiledMethod `json:"methods"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <definitions>",
		Short: "Compile repository methods to queries",
		Long: `Compile every declared method of the repository definitions found at
<definitions> (a YAML or CUE file, or a directory of them).

Each method is printed as its derived query, the SQL for the selected
dialect and the parameter transforms the caller must apply.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().StringVar(&opts.Driver, "driver", "sqlite3", "SQL dialect (sqlite3|mysql)")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	dialect, err := querysql.DialectFor(opts.Driver)
	if err != nil {
		return outputCommandError(formatter, err)
	}

	logger := newLogger(opts.RootOptions, formatter.GetErrWriter())
	defer logger.Sync()

	loaded, err := LoadRepositories(opts.RootOptions, path, logger)
	if err != nil {
		return outputCommandError(formatter, err)
	}
	formatter.VerboseLog("Loaded %d repository definition(s) from %s", len(loaded.Definitions), path)

	if len(loaded.Failures) > 0 {
		return outputValidationErrors(formatter, loaded.Failures)
	}

	result, err := compileAll(loaded.Registry, dialect, formatter)
	if err != nil {
		return outputCommandError(formatter, err)
	}

	if opts.Output != "" {
		if err := writeResultToFile(result, opts.Output); err != nil {
			_ = formatter.Error(ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
			return WrapExitError(ExitCommandError, ErrCodeWriteFailed, err)
		}
	}

	return outputCompileSuccess(formatter, result, opts.Output)
}

// compileAll renders every bootstrapped method as SQL for dialect.
func compileAll(reg *repository.Registry, dialect querysql.Dialect, formatter *OutputFormatter) (*CompilationResult, error) {
	compiler := querysql.NewCompiler(dialect)
	result := &CompilationResult{Dialect: dialect.Name(), Methods: []CompiledMethod{}}

	for _, name := range reg.Repositories() {
		for _, m := range reg.Methods(name) {
			formatter.VerboseLog("Compiling %s.%s", name, m.Name)

			sql, _, err := compiler.Compile(m.Root, m.Model, nil)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			result.Methods = append(result.Methods, CompiledMethod{
				Repository:     name,
				Method:         m.Name,
				Kind:           m.Kind(),
				Query:          m.Query(),
				SQL:            sql,
				ParameterCount: m.Root.ParameterCount(),
				Transforms:     m.Root.ParameterTransforms(),
				MaxResults:     m.Root.Prefix().MaxResults(),
			})
		}
	}
	return result, nil
}

// writeResultToFile writes the compilation result as indented JSON.
func writeResultToFile(result *CompilationResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// outputCompileSuccess outputs successful compilation results.
func outputCompileSuccess(formatter *OutputFormatter, result *CompilationResult, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "✓ Compiled %d method(s) for %s\n\n", len(result.Methods), result.Dialect)

	current := ""
	for _, m := range result.Methods {
		if m.Repository != current {
			current = m.Repository
			fmt.Fprintf(w, "%s:\n", current)
		}
		fmt.Fprintf(w, "  %s (%s)\n", m.Method, m.Kind)
		fmt.Fprintf(w, "    query: %s\n", m.Query)
		fmt.Fprintf(w, "    sql:   %s\n", m.SQL)
		for _, t := range m.Transforms {
			fmt.Fprintf(w, "    ?%d -> %s\n", t.Index, t.Kind)
		}
		if m.MaxResults > 0 {
			fmt.Fprintf(w, "    max results: %d\n", m.MaxResults)
		}
	}

	if outputFile != "" {
		fmt.Fprintf(w, "\nOutput written to: %s\n", outputFile)
	}
	return nil
}
