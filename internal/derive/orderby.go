package derive

import "strings"

// Direction is the sort direction of an ordering attribute.
type Direction int

const (
	// DirectionDefault renders no keyword and sorts ascending.
	DirectionDefault Direction = iota
	DirectionAsc
	DirectionDesc
)

func (d Direction) String() string {
	switch d {
	case DirectionAsc:
		return "asc"
	case DirectionDesc:
		return "desc"
	default:
		return ""
	}
}

// directionOf returns the direction encoded as a suffix of piece.
func directionOf(piece string) (Direction, string) {
	switch {
	case strings.HasSuffix(piece, keywordAsc):
		return DirectionAsc, strings.TrimSuffix(piece, keywordAsc)
	case strings.HasSuffix(piece, keywordDesc):
		return DirectionDesc, strings.TrimSuffix(piece, keywordDesc)
	default:
		return DirectionDefault, piece
	}
}

// OrderByAttribute is one ordering entry.
type OrderByAttribute struct {
	Path      string
	Direction Direction
}

// OrderByPart is the ordering clause.
type OrderByPart struct {
	alias      string
	attributes []OrderByAttribute
}

// Attributes returns the ordering entries in render order.
func (o *OrderByPart) Attributes() []OrderByAttribute {
	out := make([]OrderByAttribute, len(o.attributes))
	copy(out, o.attributes)
	return out
}

func (o *OrderByPart) partNode() {}

// build splits on Asc, then on Desc, keeping the direction keyword on
// every piece it terminated. An attribute ordered twice keeps its first
// entry.
func (o *OrderByPart) build(segment string, p *parser) error {
	if segment == "" {
		return p.fail(ErrCodeInvalidOrderBy, "", "empty order by clause")
	}
	o.alias = p.alias

	var pieces []string
	for _, ascPiece := range splitDirection(segment, keywordAsc, p.opts.splitMode) {
		pieces = append(pieces, splitDirection(ascPiece, keywordDesc, p.opts.splitMode)...)
	}

	if len(pieces) == 0 {
		return p.fail(ErrCodeInvalidOrderBy, "", "order by direction without attribute")
	}
	seen := make(map[string]bool, len(pieces))
	for _, piece := range pieces {
		direction, name := directionOf(piece)
		if name == "" {
			return p.fail(ErrCodeInvalidOrderBy, "", "order by direction without attribute")
		}
		path, err := p.attribute(name)
		if err != nil {
			return err
		}
		if seen[path] {
			continue
		}
		seen[path] = true
		o.attributes = append(o.attributes, OrderByAttribute{Path: path, Direction: direction})
	}
	return nil
}

// splitDirection splits s on keyword and re-appends the keyword to each
// piece that does not already carry a direction. In fragment mode only
// pieces the keyword actually terminated get it back, which keeps
// DirectionDefault reachable; substring mode always re-appends.
func splitDirection(s, keyword string, mode SplitMode) []string {
	raw := splitKeyword(s, keyword, mode)
	terminatedLast := endsWithKeyword(s, keyword, mode)
	out := make([]string, 0, len(raw))
	for i, piece := range raw {
		if strings.HasSuffix(piece, keywordAsc) || strings.HasSuffix(piece, keywordDesc) {
			out = append(out, piece)
			continue
		}
		terminated := i < len(raw)-1 || terminatedLast
		if mode == SplitSubstring || terminated {
			piece += keyword
		}
		out = append(out, piece)
	}
	return out
}

func (o *OrderByPart) buildQuery(ctx *Context) {
	ctx.Append(" order by ")
	for i, attr := range o.attributes {
		if i > 0 {
			ctx.Append(", ")
		}
		ctx.Append(o.alias + "." + attr.Path)
		if attr.Direction != DirectionDefault {
			ctx.Append(" " + attr.Direction.String())
		}
	}
}
