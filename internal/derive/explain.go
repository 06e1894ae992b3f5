package derive

import (
	"fmt"
	"strings"
)

// Tree renders the part tree as indented text, one node per line.
func (r *Root) Tree() string {
	var b strings.Builder
	fmt.Fprintf(&b, "root %s %s (prefix=%q alias=%s)\n", r.Kind(), r.entityName, r.prefix.Text(), r.alias)
	for _, child := range r.children {
		switch part := child.(type) {
		case *OrPart:
			fmt.Fprintf(&b, "  or first=%t\n", part.first)
			for _, and := range part.children {
				fmt.Fprintf(&b, "    and first=%t\n", and.first)
				for _, prop := range and.children {
					fmt.Fprintf(&b, "      property %s %s params=%d\n", prop.path, prop.comparator.Op, prop.comparator.ParamCount)
				}
			}
		case *OrderByPart:
			b.WriteString("  order by\n")
			for _, attr := range part.attributes {
				dir := attr.Direction.String()
				if dir == "" {
					dir = "default"
				}
				fmt.Fprintf(&b, "    %s %s\n", attr.Path, dir)
			}
		}
	}
	return b.String()
}
