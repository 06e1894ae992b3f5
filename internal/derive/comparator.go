package derive

import (
	"strconv"
	"strings"
)

// Operator identifies a predicate comparator.
type Operator int

const (
	OpEqual Operator = iota
	OpNotEqual
	OpEqualIgnoreCase
	OpNotEqualIgnoreCase
	OpIgnoreCase
	OpLike
	OpNotLike
	OpLikeIgnoreCase
	OpLessThan
	OpLessThanEquals
	OpGreaterThan
	OpGreaterThanEquals
	OpBetween
	OpIsNull
	OpIsNotNull
	OpIn
	OpNotIn
	OpTrue
	OpFalse
	OpContaining
	OpStartingWith
	OpEndingWith
)

var operatorNames = [...]string{
	OpEqual:              "Equal",
	OpNotEqual:           "NotEqual",
	OpEqualIgnoreCase:    "EqualIgnoreCase",
	OpNotEqualIgnoreCase: "NotEqualIgnoreCase",
	OpIgnoreCase:         "IgnoreCase",
	OpLike:               "Like",
	OpNotLike:            "NotLike",
	OpLikeIgnoreCase:     "LikeIgnoreCase",
	OpLessThan:           "LessThan",
	OpLessThanEquals:     "LessThanEquals",
	OpGreaterThan:        "GreaterThan",
	OpGreaterThanEquals:  "GreaterThanEquals",
	OpBetween:            "Between",
	OpIsNull:             "IsNull",
	OpIsNotNull:          "IsNotNull",
	OpIn:                 "In",
	OpNotIn:              "NotIn",
	OpTrue:               "True",
	OpFalse:              "False",
	OpContaining:         "Containing",
	OpStartingWith:       "StartingWith",
	OpEndingWith:         "EndingWith",
}

func (o Operator) String() string {
	if o < 0 || int(o) >= len(operatorNames) {
		return "Operator(" + strconv.Itoa(int(o)) + ")"
	}
	return operatorNames[o]
}

// Comparator is one entry of the comparator table.
//
// Template uses {0} for the alias-qualified attribute path and {1}, {2}
// for the positional parameters the comparator consumes.
type Comparator struct {
	Op              Operator
	Suffix          string
	Template        string
	ParamCount      int
	CaseInsensitive bool
}

// comparators is scanned in order and the first suffix match wins, so a
// suffix must be listed before any shorter suffix it ends with
// (NotEqualIgnoreCase before EqualIgnoreCase before IgnoreCase).
var comparators = []Comparator{
	{Op: OpNotEqualIgnoreCase, Suffix: "NotEqualIgnoreCase", Template: "upper({0}) <> upper({1})", ParamCount: 1, CaseInsensitive: true},
	{Op: OpEqualIgnoreCase, Suffix: "EqualIgnoreCase", Template: "upper({0}) = upper({1})", ParamCount: 1, CaseInsensitive: true},
	{Op: OpLikeIgnoreCase, Suffix: "LikeIgnoreCase", Template: "upper({0}) like {1}", ParamCount: 1, CaseInsensitive: true},
	{Op: OpIgnoreCase, Suffix: "IgnoreCase", Template: "upper({0}) = upper({1})", ParamCount: 1, CaseInsensitive: true},
	{Op: OpNotEqual, Suffix: "NotEqual", Template: "{0} <> {1}", ParamCount: 1},
	{Op: OpEqual, Suffix: "Equal", Template: "{0} = {1}", ParamCount: 1},
	{Op: OpNotLike, Suffix: "NotLike", Template: "{0} not like {1}", ParamCount: 1},
	{Op: OpLike, Suffix: "Like", Template: "{0} like {1}", ParamCount: 1},
	{Op: OpLessThanEquals, Suffix: "LessThanEquals", Template: "{0} <= {1}", ParamCount: 1},
	{Op: OpLessThan, Suffix: "LessThan", Template: "{0} < {1}", ParamCount: 1},
	{Op: OpGreaterThanEquals, Suffix: "GreaterThanEquals", Template: "{0} >= {1}", ParamCount: 1},
	{Op: OpGreaterThan, Suffix: "GreaterThan", Template: "{0} > {1}", ParamCount: 1},
	{Op: OpBetween, Suffix: "Between", Template: "{0} between {1} and {2}", ParamCount: 2},
	{Op: OpIsNotNull, Suffix: "IsNotNull", Template: "{0} IS NOT NULL"},
	{Op: OpIsNull, Suffix: "IsNull", Template: "{0} IS NULL"},
	{Op: OpNotIn, Suffix: "NotIn", Template: "{0} NOT IN {1}", ParamCount: 1},
	{Op: OpIn, Suffix: "In", Template: "{0} IN {1}", ParamCount: 1},
	{Op: OpTrue, Suffix: "True", Template: "{0} IS TRUE"},
	{Op: OpFalse, Suffix: "False", Template: "{0} IS FALSE"},
	{Op: OpContaining, Suffix: "Containing", Template: "{0} like CONCAT('%', CONCAT({1}, '%'))", ParamCount: 1},
	{Op: OpStartingWith, Suffix: "StartingWith", Template: "{0} like CONCAT({1}, '%')", ParamCount: 1},
	{Op: OpEndingWith, Suffix: "EndingWith", Template: "{0} like CONCAT('%', {1})", ParamCount: 1},
}

// defaultComparator applies when no suffix in the table matches.
var defaultComparator = Comparator{Op: OpEqual, Template: "{0} = {1}", ParamCount: 1}

// Comparators returns a copy of the comparator table in match order,
// followed by the catch-all Equal entry.
func Comparators() []Comparator {
	out := make([]Comparator, 0, len(comparators)+1)
	out = append(out, comparators...)
	return append(out, defaultComparator)
}

// matchComparator returns the comparator for token and the attribute text
// left after removing its suffix. A suffix only matches when something
// remains in front of it.
func matchComparator(token string) (Comparator, string) {
	for _, c := range comparators {
		if len(token) > len(c.Suffix) && strings.HasSuffix(token, c.Suffix) {
			return c, strings.TrimSuffix(token, c.Suffix)
		}
	}
	return defaultComparator, token
}

// render substitutes the attribute path and parameter placeholders into the template.
func (c Comparator) render(path string, placeholders []string) string {
	pairs := make([]string, 0, 2*(len(placeholders)+1))
	pairs = append(pairs, "{0}", path)
	for i, p := range placeholders {
		pairs = append(pairs, "{"+strconv.Itoa(i+1)+"}", p)
	}
	return strings.NewReplacer(pairs...).Replace(c.Template)
}
