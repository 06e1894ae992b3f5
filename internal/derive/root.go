package derive

// Root is the root of a compiled part tree.
//
// A Root is immutable once Create returns and safe for concurrent use.
type Root struct {
	repository string
	method     string
	entityName string
	alias      string
	prefix     Prefix
	children   []Part

	query      string
	transforms []ParameterTransform
	paramCount int
}

// Create compiles method into a part tree over meta and renders it once.
//
// repository only labels errors. Every failure is a *MethodExpressionError.
func Create(repository, method string, meta Metadata, opts ...Option) (*Root, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	alias := meta.Alias()
	if alias == "" {
		alias = DefaultAlias
	}

	root := &Root{
		repository: repository,
		method:     method,
		entityName: meta.EntityName(),
		alias:      alias,
		prefix:     ParsePrefix(meta.MethodPrefix(), method),
	}
	p := &parser{
		repository: repository,
		method:     method,
		meta:       meta,
		alias:      alias,
		opts:       o,
	}
	if err := root.build(p); err != nil {
		return nil, err
	}

	ctx := NewContext()
	root.BuildQuery(ctx)
	root.query = ctx.RenderedText()
	root.transforms = ctx.ParameterTransforms()
	root.paramCount = ctx.ParameterCount()
	return root, nil
}

func (r *Root) partNode() {}

func (r *Root) build(p *parser) error {
	body := r.prefix.Strip(r.method)
	predicates, orderBy, hasOrderBy := splitFirst(body, keywordOrderBy, p.opts.splitMode)

	if predicates != "" {
		segments, err := p.splitConnective(predicates, keywordOr)
		if err != nil {
			return err
		}
		for i, segment := range segments {
			or := &OrPart{first: i == 0}
			if err := or.build(segment, p); err != nil {
				return err
			}
			r.children = append(r.children, or)
		}
	}

	if hasOrderBy {
		switch {
		case orderBy != "":
			part := &OrderByPart{}
			if err := part.build(orderBy, p); err != nil {
				return err
			}
			r.children = append(r.children, part)
		case p.opts.splitMode == SplitFragment:
			return p.fail(ErrCodeInvalidOrderBy, "", "empty order by clause")
		}
	}

	if len(r.children) == 0 {
		return p.fail(ErrCodeNoClause, "", "method name encodes no predicate and no ordering")
	}
	return nil
}

// BuildQuery renders the tree into ctx.
func (r *Root) BuildQuery(ctx *Context) {
	ctx.Append(r.base())
	if len(r.Predicates()) > 0 {
		ctx.Append(" where ")
	}
	for _, child := range r.children {
		child.buildQuery(ctx)
	}
}

func (r *Root) buildQuery(ctx *Context) { r.BuildQuery(ctx) }

func (r *Root) base() string {
	switch r.prefix.Kind() {
	case KindDelete:
		return "delete from " + r.entityName + " " + r.alias
	case KindCount:
		return "select count(" + r.alias + ") from " + r.entityName + " " + r.alias
	default:
		return "select " + r.alias + " from " + r.entityName + " " + r.alias
	}
}

// Render renders the tree into a fresh Context.
func (r *Root) Render() (string, []ParameterTransform) {
	ctx := NewContext()
	r.BuildQuery(ctx)
	return ctx.RenderedText(), ctx.ParameterTransforms()
}

// Query returns the text rendered by Create.
func (r *Root) Query() string { return r.query }

// ParameterTransforms returns the transforms rendered by Create.
func (r *Root) ParameterTransforms() []ParameterTransform {
	out := make([]ParameterTransform, len(r.transforms))
	copy(out, r.transforms)
	return out
}

// ParameterCount returns the number of positional parameters in Query.
func (r *Root) ParameterCount() int { return r.paramCount }

// Repository returns the repository label passed to Create.
func (r *Root) Repository() string { return r.repository }

// Method returns the compiled method name.
func (r *Root) Method() string { return r.method }

// EntityName returns the queried entity name.
func (r *Root) EntityName() string { return r.entityName }

// Alias returns the alias used in Query.
func (r *Root) Alias() string { return r.alias }

// Prefix returns the recognised method prefix.
func (r *Root) Prefix() Prefix { return r.prefix }

// Kind returns the statement shape selected by the prefix.
func (r *Root) Kind() QueryKind { return r.prefix.Kind() }

// Children returns the predicate segments followed by the ordering clause.
func (r *Root) Children() []Part {
	out := make([]Part, len(r.children))
	copy(out, r.children)
	return out
}

// Predicates returns the Or segments in render order.
func (r *Root) Predicates() []*OrPart {
	var out []*OrPart
	for _, child := range r.children {
		if or, ok := child.(*OrPart); ok {
			out = append(out, or)
		}
	}
	return out
}

// OrderBy returns the ordering clause, or nil.
func (r *Root) OrderBy() *OrderByPart {
	for _, child := range r.children {
		if ob, ok := child.(*OrderByPart); ok {
			return ob
		}
	}
	return nil
}
