package repository

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"

	"github.com/roach88/methodql/internal/definition"
	"github.com/roach88/methodql/internal/derive"
	"github.com/roach88/methodql/internal/entity"
)

// BootstrapMode controls how errors are handled during Bootstrap.
type BootstrapMode int

const (
	// FailFast stops on the first method that does not compile.
	FailFast BootstrapMode = iota
	// CollectAll compiles every method and joins all errors.
	CollectAll
)

// DefaultCacheSize bounds the number of methods compiled on demand.
const DefaultCacheSize = 256

// Registry holds repositories and their compiled methods.
//
// Declared methods are compiled once by Bootstrap and kept for the life of
// the Registry. Other derivable methods are compiled on first Lookup and
// kept in a bounded LRU cache.
type Registry struct {
	mu    sync.RWMutex
	repos map[string]*repo
	order []string

	onDemand   *lru.Cache
	logger     *zap.Logger
	deriveOpts []derive.Option
	cacheSize  int
}

type repo struct {
	name     string
	prefix   string
	model    *entity.Model
	declared []string
	compiled map[string]*Method
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger. nil keeps the no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithDeriveOptions passes options to every method compilation.
func WithDeriveOptions(opts ...derive.Option) Option {
	return func(r *Registry) {
		r.deriveOpts = append(r.deriveOpts, opts...)
	}
}

// WithCacheSize bounds the on-demand cache. Non-positive sizes keep the default.
func WithCacheSize(size int) Option {
	return func(r *Registry) {
		if size > 0 {
			r.cacheSize = size
		}
	}
}

// New creates an empty Registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		repos:     make(map[string]*repo),
		logger:    zap.NewNop(),
		cacheSize: DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	// lru.New only fails for a non-positive size
	r.onDemand, _ = lru.New(r.cacheSize)
	return r
}

// Register adds a repository loaded from a definition file.
func (r *Registry) Register(def definition.Repository) error {
	model, err := def.Model()
	if err != nil {
		return fmt.Errorf("repository %s: %w", def.Name, err)
	}
	return r.RegisterModel(def.Name, def.Prefix, model, def.Methods...)
}

// RegisterModel adds a repository over model. prefix is the custom method
// prefix ("" for the known prefixes only); methods are compiled by Bootstrap.
func (r *Registry) RegisterModel(name, prefix string, model *entity.Model, methods ...string) error {
	if name == "" {
		return fmt.Errorf("repository name is required")
	}
	if model == nil {
		return fmt.Errorf("repository %s: model is required", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.repos[name]; dup {
		return fmt.Errorf("repository %s already registered", name)
	}
	r.repos[name] = &repo{
		name:     name,
		prefix:   prefix,
		model:    model,
		declared: append([]string(nil), methods...),
		compiled: make(map[string]*Method, len(methods)),
	}
	r.order = append(r.order, name)
	return nil
}

// Bootstrap compiles every declared method of every repository. In
// CollectAll mode the returned error joins every failure; use Errors to
// split it.
func (r *Registry) Bootstrap(mode BootstrapMode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for _, name := range r.order {
		rp := r.repos[name]
		for _, method := range rp.declared {
			m, err := r.compile(rp, method, true)
			if err != nil {
				r.logger.Warn("method failed to compile",
					zap.String("repository", rp.name),
					zap.String("method", method),
					zap.Error(err))
				if mode == FailFast {
					return err
				}
				errs = append(errs, err)
				continue
			}
			rp.compiled[method] = m
			r.logger.Debug("method compiled",
				zap.String("repository", rp.name),
				zap.String("method", method),
				zap.String("query", m.Query()))
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) compile(rp *repo, method string, declared bool) (*Method, error) {
	root, err := derive.Create(rp.name, method, metadata{Model: rp.model, prefix: rp.prefix}, r.deriveOpts...)
	if err != nil {
		return nil, err
	}
	return &Method{
		Repository: rp.name,
		Name:       method,
		Declared:   declared,
		Root:       root,
		Model:      rp.model,
	}, nil
}

// Lookup returns the compiled method. Methods that were not declared, or
// not yet bootstrapped, are compiled on demand.
func (r *Registry) Lookup(repository, method string) (*Method, error) {
	r.mu.RLock()
	rp, ok := r.repos[repository]
	var m *Method
	if ok {
		m = rp.compiled[method]
	}
	r.mu.RUnlock()

	if !ok {
		return nil, &InvocationError{
			Code:       ErrCodeUnknownMethod,
			Repository: repository,
			Method:     method,
			Message:    "unknown repository",
		}
	}
	if m != nil {
		return m, nil
	}

	key := repository + "." + method
	if cached, ok := r.onDemand.Get(key); ok {
		return cached.(*Method), nil
	}

	m, err := r.compile(rp, method, false)
	if err != nil {
		return nil, &InvocationError{
			Code:       ErrCodeUnknownMethod,
			Repository: repository,
			Method:     method,
			Message:    "method cannot be derived",
			Err:        err,
		}
	}
	r.onDemand.Add(key, m)
	r.logger.Debug("method compiled on demand",
		zap.String("repository", repository),
		zap.String("method", method),
		zap.String("query", m.Query()))
	return m, nil
}

// Repositories returns the registered repository names in registration order.
func (r *Registry) Repositories() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Model returns the entity model of a repository.
func (r *Registry) Model(repository string) (*entity.Model, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rp, ok := r.repos[repository]
	if !ok {
		return nil, false
	}
	return rp.model, true
}

// Methods returns the compiled declared methods of a repository in
// declaration order. Methods that failed to compile are omitted.
func (r *Registry) Methods(repository string) []*Method {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rp, ok := r.repos[repository]
	if !ok {
		return nil
	}
	out := make([]*Method, 0, len(rp.compiled))
	for _, name := range rp.declared {
		if m, ok := rp.compiled[name]; ok {
			out = append(out, m)
		}
	}
	return out
}

// Models returns every registered model, sorted by table name.
func (r *Registry) Models() []*entity.Model {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[*entity.Model]bool, len(r.repos))
	var out []*entity.Model
	for _, name := range r.order {
		m := r.repos[name].model
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Table() < out[j].Table() })
	return out
}
