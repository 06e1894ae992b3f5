package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/methodql/internal/derive"
	"github.com/roach88/methodql/internal/querysql"
)

// ExplainOptions holds flags for the explain command.
type ExplainOptions struct {
	*RootOptions
	Driver string
}

// Explanation is the JSON form of the explain command.
type Explanation struct {
	Repository string                      `json:"repository"`
	Method     string                      `json:"method"`
	Declared   bool                        `json:"declared"`
	Prefix     string                      `json:"prefix"`
	Kind       derive.QueryKind            `json:"kind"`
	Tree       []string                    `json:"tree"`
	Query      string                      `json:"query"`
	SQL        string                      `json:"sql"`
	Transforms []derive.ParameterTransform `json:"transforms,omitempty"`
}

// NewExplainCommand creates the explain command.
func NewExplainCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExplainOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "explain <definitions> <repository> <method>",
		Short: "Print the parse tree of a repository method",
		Long: `Derive a single method of a repository and print its part tree,
the rendered query and the SQL.

The method does not need to be declared in the definition file; any
name the entity's properties can satisfy is derived on demand.`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(opts, args[0], args[1], args[2], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Driver, "driver", "sqlite3", "SQL dialect (sqlite3|mysql)")

	return cmd
}

func runExplain(opts *ExplainOptions, path, repo, method string, cmd *cobra.Command) error {
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

	m, err := loaded.Registry.Lookup(repo, method)
	if err != nil {
		code := errorCode(err)
		_ = formatter.Error(code, err.Error(), nil)
		return WrapExitError(ExitFailure, code, err)
	}

	sql, _, err := querysql.NewCompiler(dialect).Compile(m.Root, m.Model, nil)
	if err != nil {
		return outputCommandError(formatter, err)
	}

	tree := m.Root.Tree()
	if formatter.Format == "json" {
		return formatter.Success(Explanation{
			Repository: repo,
			Method:     method,
			Declared:   m.Declared,
			Prefix:     m.Root.Prefix().Text(),
			Kind:       m.Kind(),
			Tree:       strings.Split(strings.TrimRight(tree, "\n"), "\n"),
			Query:      m.Query(),
			SQL:        sql,
			Transforms: m.Root.ParameterTransforms(),
		})
	}

	w := formatter.Writer
	fmt.Fprintf(w, "%s.%s\n\n", repo, method)
	fmt.Fprint(w, tree)
	fmt.Fprintf(w, "\nquery: %s\n", m.Query())
	fmt.Fprintf(w, "sql:   %s\n", sql)
	for _, t := range m.Root.ParameterTransforms() {
		fmt.Fprintf(w, "?%d -> %s\n", t.Index, t.Kind)
	}
	return nil
}
