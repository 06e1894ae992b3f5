package derive

import "strconv"

// PropertyPart is a single predicate: attribute, comparator, parameters.
type PropertyPart struct {
	alias      string
	path       string
	comparator Comparator
}

// Path returns the validated dotted attribute path.
func (pp *PropertyPart) Path() string { return pp.path }

// Comparator returns the matched comparator.
func (pp *PropertyPart) Comparator() Comparator { return pp.comparator }

func (pp *PropertyPart) partNode() {}

func (pp *PropertyPart) build(token string, p *parser) error {
	if token == "" {
		return p.fail(ErrCodeEmptyFragment, "", "empty predicate")
	}
	comparator, name := matchComparator(token)
	path, err := p.attribute(name)
	if err != nil {
		return err
	}
	pp.alias = p.alias
	pp.path = path
	pp.comparator = comparator
	return nil
}

func (pp *PropertyPart) buildQuery(ctx *Context) {
	placeholders := make([]string, pp.comparator.ParamCount)
	first := 0
	for i := range placeholders {
		idx := ctx.NextParameterIndex()
		if i == 0 {
			first = idx
		}
		placeholders[i] = "?" + strconv.Itoa(idx)
	}
	ctx.Append(pp.comparator.render(pp.alias+"."+pp.path, placeholders))
	if pp.comparator.CaseInsensitive && first > 0 {
		ctx.RegisterParameterTransform(first, TransformUppercase)
	}
}
