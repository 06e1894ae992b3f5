package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/roach88/methodql/internal/derive"
	"github.com/roach88/methodql/internal/middleware/metrics"
	"github.com/roach88/methodql/internal/middleware/querylog"
	"github.com/roach88/methodql/internal/middleware/tracing"
	"github.com/roach88/methodql/internal/params"
	"github.com/roach88/methodql/internal/repository"
	"github.com/roach88/methodql/internal/store"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	DBPath      string
	Driver      string
	Migrate     bool
	Single      bool
	MaxResults  int
	FirstResult int
	LogArgs     bool
}

// QueryResult is the JSON form of a query command result.
type QueryResult struct {
	Repository string           `json:"repository"`
	Method     string           `json:"method"`
	Kind       derive.QueryKind `json:"kind"`
	Rows       []repository.Row `json:"rows,omitempty"`
	Row        repository.Row   `json:"row,omitempty"`
	Count      *int64           `json:"count,omitempty"`
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query <definitions> <repository> <method> [args...]",
		Short: "Execute a repository method against a database",
		Long: `Derive a repository method, bind the arguments and execute it against
the database given by --db.

Arguments are parsed as JSON (numbers, booleans, null, arrays) and fall
back to plain strings, so 42, true, [1,2,3] and Alice all work.

findOptionalBy and findAnyBy methods print a single row; --single does
the same for any select with strict single-result semantics.`,
		Args:          cobra.MinimumNArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, args[0], args[1], args[2], args[3:], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "database DSN or sqlite file path (required)")
	cmd.Flags().StringVar(&opts.Driver, "driver", "sqlite3", "database driver (sqlite3|mysql)")
	cmd.Flags().BoolVar(&opts.Migrate, "migrate", false, "create missing entity tables before querying")
	cmd.Flags().BoolVar(&opts.Single, "single", false, "expect exactly one row")
	cmd.Flags().IntVar(&opts.MaxResults, "max-results", 0, "limit the number of rows (0 = no limit)")
	cmd.Flags().IntVar(&opts.FirstResult, "first-result", 0, "number of rows to skip")
	cmd.Flags().BoolVar(&opts.LogArgs, "log-args", false, "include bound arguments in statement logs")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runQuery(opts *QueryOptions, path, repo, method string, rawArgs []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	logger := newLogger(opts.RootOptions, formatter.GetErrWriter())
	defer logger.Sync()

	loaded, err := LoadRepositories(opts.RootOptions, path, logger)
	if err != nil {
		return outputCommandError(formatter, err)
	}
	if len(loaded.Failures) > 0 {
		return outputValidationErrors(formatter, loaded.Failures)
	}

	s, err := store.Open(opts.Driver, opts.DBPath)
	if err != nil {
		_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
		return WrapExitError(ExitCommandError, "opening database", err)
	}
	defer s.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.Migrate {
		if err := s.Migrate(ctx, loaded.Registry.Models()...); err != nil {
			_ = formatter.Error(ErrCodeDatabase, err.Error(), nil)
			return WrapExitError(ExitCommandError, "migrating database", err)
		}
		formatter.VerboseLog("Migrated %d table(s)", len(loaded.Registry.Models()))
	}

	promRegistry := prometheus.NewRegistry()
	exec := repository.NewExecutor(loaded.Registry, s, s.Dialect(),
		repository.WithExecutorLogger(logger),
		repository.WithMiddlewares(
			(&tracing.MiddlewareBuilder{}).Build(),
			metrics.MiddlewareBuilder{
				Namespace:  "methodql",
				Name:       "invocation_duration_ms",
				Help:       "Repository invocation latency in milliseconds",
				Registerer: promRegistry,
			}.Build(),
			querylog.NewBuilder(logger).LogArgs(opts.LogArgs).Build(),
		),
	)

	args := make([]any, 0, len(rawArgs)+2)
	for _, raw := range rawArgs {
		args = append(args, parseArg(raw))
	}
	if opts.MaxResults > 0 {
		args = append(args, params.MaxResults(opts.MaxResults))
	}
	if opts.FirstResult > 0 {
		args = append(args, params.FirstResult(opts.FirstResult))
	}

	res, err := exec.Invoke(ctx, repo, method, args...)
	logMetrics(formatter, promRegistry)
	if err != nil {
		return outputInvocationError(formatter, err)
	}

	out := QueryResult{Repository: repo, Method: method, Kind: res.Kind()}
	single := false
	switch res.Kind() {
	case derive.KindSelect:
		single = opts.Single || res.Method().Root.Prefix().SingleResult() != derive.SingleStrict
		if single {
			row, err := res.Single()
			if err != nil {
				return outputInvocationError(formatter, err)
			}
			out.Row = row
		} else {
			out.Rows = res.List()
		}
	default:
		n := res.Count()
		out.Count = &n
	}

	if formatter.Format == "json" {
		return formatter.SuccessWithID(out, res.InvocationID())
	}
	printQueryResult(formatter, out, single)
	return nil
}

func outputInvocationError(formatter *OutputFormatter, err error) error {
	code := errorCode(err)
	_ = formatter.Error(code, err.Error(), nil)
	return WrapExitError(ExitFailure, code, err)
}

// logMetrics writes the latency summaries gathered during the command to
// the verbose log.
func logMetrics(formatter *OutputFormatter, gatherer prometheus.Gatherer) {
	if !formatter.Verbose {
		return
	}
	families, err := gatherer.Gather()
	if err != nil {
		formatter.VerboseLog("Gathering metrics failed: %v", err)
		return
	}
	for _, family := range families {
		for _, m := range family.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, l.GetName()+"="+l.GetValue())
			}
			formatter.VerboseLog("%s{%s} count=%d sum=%.3fms", family.GetName(), strings.Join(labels, ","),
				m.GetSummary().GetSampleCount(), m.GetSummary().GetSampleSum())
		}
	}
}

// parseArg decodes a command line argument as JSON, falling back to the
// raw string. Integral numbers become int64, other numbers float64.
func parseArg(raw string) any {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return raw
	}
	switch v.(type) {
	case map[string]any:
		return raw
	}
	return normalizeJSON(v)
}

func normalizeJSON(v any) any {
	switch val := v.(type) {
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return n
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeJSON(item)
		}
		return out
	default:
		return v
	}
}

func printQueryResult(formatter *OutputFormatter, out QueryResult, single bool) {
	w := formatter.Writer
	switch {
	case out.Count != nil && out.Kind == derive.KindDelete:
		fmt.Fprintf(w, "✓ Deleted %d row(s)\n", *out.Count)
	case out.Count != nil:
		fmt.Fprintf(w, "✓ Count: %d\n", *out.Count)
	case single && out.Row == nil:
		fmt.Fprintln(w, "✓ No row")
	case single:
		fmt.Fprintln(w, "✓ 1 row")
		fmt.Fprintf(w, "  %s\n", formatRow(out.Row))
	default:
		fmt.Fprintf(w, "✓ %d row(s)\n", len(out.Rows))
		for _, row := range out.Rows {
			fmt.Fprintf(w, "  %s\n", formatRow(row))
		}
	}
}

// formatRow renders a row as path=value pairs sorted by path.
func formatRow(row repository.Row) string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = fmt.Sprintf("%s=%v", k, row[k])
	}
	return strings.Join(pairs, " ")
}
