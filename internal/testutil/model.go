package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/methodql/internal/entity"
)

// SimpleProperties are the properties of the Simple test entity.
var SimpleProperties = []entity.Property{
	{Path: "id", Type: entity.TypeInt},
	{Path: "name", Type: entity.TypeString},
	{Path: "enabled", Type: entity.TypeBool},
	{Path: "counter", Type: entity.TypeInt},
	{Path: "temporal", Type: entity.TypeTime},
	{Path: "camelCase", Type: entity.TypeString},
	{Path: "embedded.embedd", Column: "embedd", Type: entity.TypeString},
	{Path: "description", Type: entity.TypeString},
}

// SimpleModel returns the Simple entity stored in table "simple".
func SimpleModel(t testing.TB, opts ...entity.Option) *entity.Model {
	t.Helper()
	m, err := entity.NewModel("Simple", SimpleProperties, opts...)
	require.NoError(t, err)
	return m
}

// Metadata pairs a model with a repository method prefix.
type Metadata struct {
	*entity.Model
	Prefix string
}

// MethodPrefix returns the custom prefix.
func (m Metadata) MethodPrefix() string { return m.Prefix }
