package derive

// Metadata describes the entity a repository method queries.
type Metadata interface {
	// EntityName is the entity name used in the query text.
	EntityName() string

	// Alias qualifies attribute paths in the query text. Empty means "e".
	Alias() string

	// MethodPrefix is the repository's custom prefix. Empty means only
	// the known prefixes are recognised.
	MethodPrefix() string

	// IsValidPath reports whether the dotted attribute path exists.
	IsValidPath(path string) bool
}

// DefaultAlias is used when the metadata reports no alias.
const DefaultAlias = "e"

// Part is a node of the part tree.
//
// This is a sealed interface: only types in this package implement it.
type Part interface {
	buildQuery(ctx *Context)
	partNode()
}

// parser carries what every build step needs to validate and report.
type parser struct {
	repository string
	method     string
	meta       Metadata
	alias      string
	opts       options
}

func (p *parser) fail(code ErrorCode, path, message string) error {
	return &MethodExpressionError{
		Code:       code,
		Repository: p.repository,
		Method:     p.method,
		Path:       path,
		Message:    message,
	}
}

// attribute turns a capitalized name fragment into a validated dotted path.
func (p *parser) attribute(fragment string) (string, error) {
	path := rewriteSeparator(uncapitalize(fragment), p.opts.separator)
	if !p.meta.IsValidPath(path) {
		return "", p.fail(ErrCodeUnknownProperty, path, "unknown property")
	}
	return path, nil
}

// splitConnective splits segment on a connective keyword. A dangling
// trailing connective is an error in fragment mode and silently dropped in
// substring mode.
func (p *parser) splitConnective(segment, keyword string) ([]string, error) {
	pieces := splitKeyword(segment, keyword, p.opts.splitMode)
	dangling := p.opts.splitMode == SplitFragment && endsWithKeyword(segment, keyword, p.opts.splitMode)
	if len(pieces) == 0 || dangling {
		return nil, p.fail(ErrCodeEmptyFragment, "", "empty predicate around "+keyword)
	}
	return pieces, nil
}

// OrPart is one Or-delimited predicate segment.
type OrPart struct {
	first    bool
	children []*AndPart
}

// First reports whether this is the first Or segment of the root.
func (o *OrPart) First() bool { return o.first }

// Children returns the And sub-segments in render order.
func (o *OrPart) Children() []*AndPart { return o.children }

func (o *OrPart) partNode() {}

func (o *OrPart) build(segment string, p *parser) error {
	pieces, err := p.splitConnective(segment, keywordAnd)
	if err != nil {
		return err
	}
	for i, piece := range pieces {
		and := &AndPart{first: i == 0}
		if err := and.build(piece, p); err != nil {
			return err
		}
		o.children = append(o.children, and)
	}
	return nil
}

func (o *OrPart) buildQuery(ctx *Context) {
	if !o.first {
		ctx.Append(" or ")
	}
	for _, child := range o.children {
		child.buildQuery(ctx)
	}
}

// AndPart is one And-delimited sub-segment holding a single predicate.
type AndPart struct {
	first    bool
	children []*PropertyPart
}

// First reports whether this is the first And sub-segment of its OrPart.
func (a *AndPart) First() bool { return a.first }

// Children returns the predicates in render order.
func (a *AndPart) Children() []*PropertyPart { return a.children }

func (a *AndPart) partNode() {}

func (a *AndPart) build(segment string, p *parser) error {
	prop := &PropertyPart{}
	if err := prop.build(segment, p); err != nil {
		return err
	}
	a.children = append(a.children, prop)
	return nil
}

func (a *AndPart) buildQuery(ctx *Context) {
	if !a.first {
		ctx.Append(" and ")
	}
	for _, child := range a.children {
		child.buildQuery(ctx)
	}
}
