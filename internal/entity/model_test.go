package entity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModel_Defaults(t *testing.T) {
	m, err := NewModel("SimpleEntity", []Property{
		{Path: "id", Type: TypeInt},
		{Path: "camelCase", Type: TypeString},
		{Path: "embedded.zipCode"},
	})
	require.NoError(t, err)

	assert.Equal(t, "SimpleEntity", m.EntityName())
	assert.Equal(t, DefaultAlias, m.Alias())
	assert.Equal(t, "simple_entity", m.Table())
	assert.Equal(t, []string{"id", "camel_case", "embedded_zip_code"}, m.Columns())

	assert.True(t, m.IsValidPath("embedded.zipCode"))
	assert.False(t, m.IsValidPath("zipCode"))

	col, ok := m.Column("camelCase")
	require.True(t, ok)
	assert.Equal(t, "camel_case", col)

	path, ok := m.PathForColumn("embedded_zip_code")
	require.True(t, ok)
	assert.Equal(t, "embedded.zipCode", path)

	_, ok = m.PathForColumn("missing")
	assert.False(t, ok)
}

func TestNewModel_NestedColumnsDoNotCollide(t *testing.T) {
	m, err := NewModel("Person", []Property{
		{Path: "home.city"},
		{Path: "work.city"},
		{Path: "work.zipCode", Column: "zip"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"home_city", "work_city", "zip"}, m.Columns())

	_, err = NewModel("Person", []Property{
		{Path: "home.city", Column: "city"},
		{Path: "work.city", Column: "city"},
	})
	assert.Error(t, err)
}

func TestNewModel_Options(t *testing.T) {
	m, err := NewModel("Simple", []Property{{Path: "id"}, {Path: "name"}},
		WithAlias("s"),
		WithTableName("simples"),
		WithColumnName("name", "simple_name"),
	)
	require.NoError(t, err)

	assert.Equal(t, "s", m.Alias())
	assert.Equal(t, "simples", m.Table())
	col, _ := m.Column("name")
	assert.Equal(t, "simple_name", col)
}

func TestNewModel_Errors(t *testing.T) {
	tests := []struct {
		name    string
		entity  string
		props   []Property
		opts    []Option
		wantErr string
	}{
		{"no name", "", []Property{{Path: "id"}}, nil, "model name is required"},
		{"no properties", "Simple", nil, nil, "model has no properties"},
		{"empty path", "Simple", []Property{{Path: ""}}, nil, "property path is required"},
		{"duplicate path", "Simple", []Property{{Path: "id"}, {Path: "id", Column: "other"}}, nil, `duplicate property path "id"`},
		{"duplicate column", "Simple", []Property{{Path: "a.name"}, {Path: "b.name"}}, nil, `duplicate column "name"`},
		{"unknown column override", "Simple", []Property{{Path: "id"}}, []Option{WithColumnName("missing", "x")}, `unknown property path "missing"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewModel(tt.entity, tt.props, tt.opts...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewModel_NoPropertiesIsSentinel(t *testing.T) {
	_, err := NewModel("Simple", nil)
	assert.True(t, errors.Is(err, ErrNoProperties))
}

func TestModel_PropertiesIsCopy(t *testing.T) {
	m, err := NewModel("Simple", []Property{{Path: "id"}})
	require.NoError(t, err)

	props := m.Properties()
	props[0].Path = "mutated"
	assert.True(t, m.IsValidPath("id"))
}

func TestParseType(t *testing.T) {
	for _, s := range []string{"", "string", "int", "float", "bool", "time", "bytes"} {
		typ, err := ParseType(s)
		require.NoError(t, err, s)
		assert.Equal(t, Type(s), typ)
	}

	_, err := ParseType("decimal")
	assert.Error(t, err)
}

func TestUnderscoreName(t *testing.T) {
	tests := map[string]string{
		"UserName":  "user_name",
		"camelCase": "camel_case",
		"id":        "id",
		"Simple":    "simple",
		"Ärger":     "ärger",
	}
	for in, want := range tests {
		assert.Equal(t, want, underscoreName(in), in)
	}
}

func TestLowerFirst(t *testing.T) {
	assert.Equal(t, "camelCase", lowerFirst("CamelCase"))
	assert.Equal(t, "", lowerFirst(""))
	assert.Equal(t, "ärger", lowerFirst("Ärger"))
}
