package params

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/methodql/internal/derive"
)

func TestBind(t *testing.T) {
	tests := []struct {
		name       string
		count      int
		args       []any
		defaultMax int
		wantValues []any
		wantMax    int
		wantFirst  int
	}{
		{"positional", 2, []any{"a", 1}, 0, []any{"a", 1}, 0, 0},
		{"no params", 0, nil, 0, []any{}, 0, 0},
		{"prefix limit", 1, []any{true}, 5, []any{true}, 5, 0},
		{"explicit limit wins", 1, []any{MaxResults(3), true}, 5, []any{true}, 3, 0},
		{"restrictions anywhere", 2, []any{"a", FirstResult(10), 2, MaxResults(20)}, 0, []any{"a", 2}, 20, 10},
		{"nil value is positional", 1, []any{nil}, 0, []any{nil}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Bind(tt.count, tt.args, tt.defaultMax)
			require.NoError(t, err)
			assert.Equal(t, tt.wantValues, p.Values())
			assert.Equal(t, len(tt.wantValues), p.Len())
			assert.Equal(t, tt.wantMax, p.MaxResults())
			assert.Equal(t, tt.wantFirst, p.FirstResult())
		})
	}
}

func TestBind_Errors(t *testing.T) {
	tests := []struct {
		name    string
		count   int
		args    []any
		wantErr error
	}{
		{"too few", 2, []any{"a"}, ErrArityMismatch},
		{"too many", 0, []any{"a"}, ErrArityMismatch},
		{"restriction is not positional", 1, []any{MaxResults(1)}, ErrArityMismatch},
		{"negative max", 0, []any{MaxResults(-1)}, ErrInvalidRestriction},
		{"repeated first", 0, []any{FirstResult(1), FirstResult(2)}, ErrInvalidRestriction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Bind(tt.count, tt.args, 0)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestApply_Uppercase(t *testing.T) {
	p, err := Bind(3, []any{"straße", 42, "mIxEd"}, 0)
	require.NoError(t, err)

	err = p.Apply([]derive.ParameterTransform{
		{Index: 1, Kind: derive.TransformUppercase},
		{Index: 2, Kind: derive.TransformUppercase},
		{Index: 3, Kind: derive.TransformUppercase},
	})
	require.NoError(t, err)

	assert.Equal(t, []any{"STRASSE", 42, "MIXED"}, p.Values())
}

func TestApply_Errors(t *testing.T) {
	p, err := Bind(1, []any{"x"}, 0)
	require.NoError(t, err)

	err = p.Apply([]derive.ParameterTransform{{Index: 2, Kind: derive.TransformUppercase}})
	assert.ErrorContains(t, err, "references parameter ?2 of 1")

	err = p.Apply([]derive.ParameterTransform{{Index: 1, Kind: derive.TransformKind(9)}})
	assert.ErrorContains(t, err, "unsupported transform TransformKind(9)")
}

func TestApply_FromDerivedQuery(t *testing.T) {
	meta := &fixedMetadata{paths: map[string]bool{"name": true}}
	root, err := derive.Create("SimpleRepository", "findByNameLikeIgnoreCase", meta)
	require.NoError(t, err)

	p, err := Bind(root.ParameterCount(), []any{"%abc%"}, 0)
	require.NoError(t, err)
	require.NoError(t, p.Apply(root.ParameterTransforms()))

	v, ok := p.Value(1)
	require.True(t, ok)
	assert.Equal(t, "%ABC%", v)

	_, ok = p.Value(2)
	assert.False(t, ok)
}

type fixedMetadata struct {
	paths map[string]bool
}

func (m *fixedMetadata) EntityName() string           { return "Simple" }
func (m *fixedMetadata) Alias() string                { return "e" }
func (m *fixedMetadata) MethodPrefix() string         { return "" }
func (m *fixedMetadata) IsValidPath(path string) bool { return m.paths[path] }
