package cli

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/roach88/methodql/internal/definition"
	"github.com/roach88/methodql/internal/derive"
	"github.com/roach88/methodql/internal/repository"
)

// Error codes reported by the CLI itself. Load and method errors keep the
// codes of the definition and derive packages.
const (
	ErrCodeGeneric     = definition.ErrCodeGeneric
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeDatabase    = "E008" // Database open or migration failed
)

// LoadResult holds the repositories of a definition path after bootstrap.
type LoadResult struct {
	Definitions []definition.Repository
	Registry    *repository.Registry

	// Failures holds one entry per declared method that did not compile.
	Failures []MethodFailure
}

// MethodCount returns the number of declared methods across all definitions.
func (r *LoadResult) MethodCount() int {
	n := 0
	for _, def := range r.Definitions {
		n += len(def.Methods)
	}
	return n
}

// MethodFailure describes a declared method that did not compile.
type MethodFailure struct {
	Code       string `json:"code"`
	Repository string `json:"repository,omitempty"`
	Method     string `json:"method,omitempty"`
	Path       string `json:"path,omitempty"`
	Message    string `json:"message"`
	Source     string `json:"source,omitempty"`
}

// LoadRepositories loads every definition under path, registers the
// repositories and compiles all declared methods. Errors returned are
// load errors; method errors are collected in LoadResult.Failures.
func LoadRepositories(opts *RootOptions, path string, logger *zap.Logger) (*LoadResult, error) {
	deriveOpts, err := opts.deriveOptions()
	if err != nil {
		return nil, &definition.LoadError{Code: definition.ErrCodeGeneric, Message: err.Error()}
	}

	defs, err := definition.Load(path)
	if err != nil {
		return nil, err
	}

	reg := repository.New(
		repository.WithLogger(logger),
		repository.WithDeriveOptions(deriveOpts...),
	)
	sources := make(map[string]string, len(defs))
	for _, def := range defs {
		if err := reg.Register(def); err != nil {
			return nil, &definition.LoadError{Code: definition.ErrCodeInvalid, Path: def.Source, Message: err.Error()}
		}
		sources[def.Name] = def.Source
	}

	result := &LoadResult{Definitions: defs, Registry: reg}
	for _, err := range repository.Errors(reg.Bootstrap(repository.CollectAll)) {
		f := methodFailure(err)
		f.Source = sources[f.Repository]
		result.Failures = append(result.Failures, f)
	}
	return result, nil
}

func methodFailure(err error) MethodFailure {
	var me *derive.MethodExpressionError
	if errors.As(err, &me) {
		return MethodFailure{
			Code:       string(me.Code),
			Repository: me.Repository,
			Method:     me.Method,
			Path:       me.Path,
			Message:    me.Message,
		}
	}
	return MethodFailure{Code: ErrCodeGeneric, Message: err.Error()}
}

// errorCode returns the code to report for err.
func errorCode(err error) string {
	var le *definition.LoadError
	if errors.As(err, &le) {
		return le.Code
	}
	var ie *repository.InvocationError
	if errors.As(err, &ie) {
		return string(ie.Code)
	}
	var me *derive.MethodExpressionError
	if errors.As(err, &me) {
		return string(me.Code)
	}
	return ErrCodeGeneric
}

// outputCommandError reports err and returns it as a command error (exit 2).
func outputCommandError(formatter *OutputFormatter, err error) error {
	code := errorCode(err)
	_ = formatter.Error(code, err.Error(), nil)
	return WrapExitError(ExitCommandError, code, err)
}

// newLogger builds the production JSON logger, writing to w. Verbose
// lowers the level to Debug.
func newLogger(opts *RootOptions, w io.Writer) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.TimeKey = "timestamp"

	level := zapcore.InfoLevel
	if opts.Verbose {
		level = zapcore.DebugLevel
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(w), level)
	return zap.New(core)
}

// describeFailure formats a failure for text output.
func describeFailure(f MethodFailure) string {
	where := f.Repository
	if f.Method != "" {
		where = fmt.Sprintf("%s.%s", f.Repository, f.Method)
	}
	if where == "" {
		return fmt.Sprintf("%s: %s", f.Code, f.Message)
	}
	if f.Path != "" {
		return fmt.Sprintf("%s: %s: %s %q", where, f.Code, f.Message, f.Path)
	}
	return fmt.Sprintf("%s: %s: %s", where, f.Code, f.Message)
}
