package derive

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchComparator(t *testing.T) {
	tests := []struct {
		token string
		op    Operator
		name  string
	}{
		{"Name", OpEqual, "Name"},
		{"NameEqual", OpEqual, "Name"},
		{"NameNotEqual", OpNotEqual, "Name"},
		{"NameNotEqualIgnoreCase", OpNotEqualIgnoreCase, "Name"},
		{"NameEqualIgnoreCase", OpEqualIgnoreCase, "Name"},
		{"NameIgnoreCase", OpIgnoreCase, "Name"},
		{"NameLikeIgnoreCase", OpLikeIgnoreCase, "Name"},
		{"NameNotLike", OpNotLike, "Name"},
		{"NameLike", OpLike, "Name"},
		{"CounterLessThanEquals", OpLessThanEquals, "Counter"},
		{"CounterLessThan", OpLessThan, "Counter"},
		{"CounterGreaterThanEquals", OpGreaterThanEquals, "Counter"},
		{"CounterGreaterThan", OpGreaterThan, "Counter"},
		{"TemporalBetween", OpBetween, "Temporal"},
		{"NameIsNotNull", OpIsNotNull, "Name"},
		{"NameIsNull", OpIsNull, "Name"},
		{"IdNotIn", OpNotIn, "Id"},
		{"IdIn", OpIn, "Id"},
		{"EnabledTrue", OpTrue, "Enabled"},
		{"EnabledFalse", OpFalse, "Enabled"},
		{"NameContaining", OpContaining, "Name"},
		{"NameStartingWith", OpStartingWith, "Name"},
		{"NameEndingWith", OpEndingWith, "Name"},
		// A suffix with nothing in front of it is an attribute name.
		{"In", OpEqual, "In"},
		{"Like", OpEqual, "Like"},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			c, name := matchComparator(tt.token)
			assert.Equal(t, tt.op, c.Op)
			assert.Equal(t, tt.name, name)
		})
	}
}

func TestComparatorTable_SpecificSuffixesFirst(t *testing.T) {
	table := Comparators()
	last := table[len(table)-1]
	assert.Equal(t, OpEqual, last.Op)
	assert.Empty(t, last.Suffix, "catch-all must come last")

	for i, earlier := range table {
		for _, later := range table[i+1:] {
			if later.Suffix == "" {
				continue
			}
			assert.False(t, strings.HasSuffix(later.Suffix, earlier.Suffix) && later.Suffix != earlier.Suffix,
				"%s must be listed before %s", later.Suffix, earlier.Suffix)
		}
	}
}

func TestComparatorTable_Arity(t *testing.T) {
	for _, c := range Comparators() {
		slots := 0
		for i := 1; i <= 2; i++ {
			if strings.Contains(c.Template, "{"+string(rune('0'+i))+"}") {
				slots++
			}
		}
		assert.Equal(t, c.ParamCount, slots, c.Op.String())
		assert.Contains(t, c.Template, "{0}", c.Op.String())
		if c.CaseInsensitive {
			assert.Contains(t, c.Template, "upper({0})", c.Op.String())
		}
	}
}

func TestComparator_Render(t *testing.T) {
	c, _ := matchComparator("TemporalBetween")
	assert.Equal(t, "e.temporal between ?7 and ?8", c.render("e.temporal", []string{"?7", "?8"}))

	c, _ = matchComparator("NameIsNull")
	assert.Equal(t, "e.name IS NULL", c.render("e.name", nil))
}

func TestOperatorString(t *testing.T) {
	assert.Equal(t, "LikeIgnoreCase", OpLikeIgnoreCase.String())
	assert.Equal(t, "Operator(99)", Operator(99).String())
}
