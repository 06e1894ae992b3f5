package definition

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/methodql/internal/entity"
)

func TestLoad_YAML(t *testing.T) {
	repos, err := Load("testdata/simple.yaml")
	require.NoError(t, err)
	require.Len(t, repos, 1)

	r := repos[0]
	assert.Equal(t, "SimpleRepository", r.Name)
	assert.Equal(t, "", r.Prefix)
	assert.Equal(t, "testdata/simple.yaml", r.Source)
	assert.Len(t, r.Methods, 5)
	assert.Equal(t, "findByNameAndEnabledOrderByCounterDescIdAsc", r.Methods[1])

	m, err := r.Model()
	require.NoError(t, err)
	assert.Equal(t, "Simple", m.EntityName())
	assert.Equal(t, "simple_table", m.Table())
	assert.Equal(t, entity.DefaultAlias, m.Alias())
	assert.True(t, m.IsValidPath("embedded.embedd"))

	p, ok := m.Property("temporal")
	require.True(t, ok)
	assert.Equal(t, entity.TypeTime, p.Type)
}

func TestLoad_CUE(t *testing.T) {
	repos, err := Load("testdata/simple.cue")
	require.NoError(t, err)
	require.Len(t, repos, 1)

	r := repos[0]
	assert.Equal(t, "findSimpleBy", r.Prefix)
	assert.Equal(t, []string{"findSimpleByName", "findByIdOrderByNameDesc"}, r.Methods)

	m, err := r.Model()
	require.NoError(t, err)
	assert.Equal(t, "s", m.Alias())
	assert.Equal(t, "simple", m.Table())
}

func TestLoad_Directory(t *testing.T) {
	repos, err := Load("testdata/multi")
	require.NoError(t, err)
	require.Len(t, repos, 2)

	assert.Equal(t, "SimpleRepository", repos[0].Name)
	assert.Equal(t, "HouseRepository", repos[1].Name)
	assert.Equal(t, filepath.Join("testdata", "multi", "b_house.cue"), repos[1].Source)

	m, err := repos[1].Model()
	require.NoError(t, err)
	p, ok := m.Property("area")
	require.True(t, ok)
	assert.Equal(t, entity.TypeFloat, p.Type)
}

func TestFindDefinitionFiles(t *testing.T) {
	files, err := FindDefinitionFiles("testdata")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join("testdata", "multi", "a_simple.yaml"),
		filepath.Join("testdata", "multi", "b_house.cue"),
		filepath.Join("testdata", "simple.cue"),
		filepath.Join("testdata", "simple.yaml"),
	}, files)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Errors(t *testing.T) {
	const validRepo = `
  - name: SimpleRepository
    entity:
      name: Simple
      properties:
        - {path: id}
    methods: [findById]
`

	tests := []struct {
		name     string
		file     string
		content  string
		wantCode string
		wantMsg  string
	}{
		{
			name:     "unknown field",
			file:     "typo.yaml",
			content:  "repositories:\n  - name: R\n    entiti: {}\n",
			wantCode: ErrCodeParseError,
			wantMsg:  "entiti",
		},
		{
			name:     "empty repositories",
			file:     "empty.yaml",
			content:  "repositories: []\n",
			wantCode: ErrCodeInvalid,
			wantMsg:  "repositories list is required",
		},
		{
			name:     "missing entity name",
			file:     "noentity.yaml",
			content:  "repositories:\n  - name: R\n    entity: {properties: [{path: id}]}\n    methods: [findById]\n",
			wantCode: ErrCodeInvalid,
			wantMsg:  "entity name is required",
		},
		{
			name:     "no methods",
			file:     "nomethods.yaml",
			content:  "repositories:\n  - name: R\n    entity: {name: E, properties: [{path: id}]}\n",
			wantCode: ErrCodeInvalid,
			wantMsg:  "methods list is required",
		},
		{
			name:     "duplicate method",
			file:     "dupmethod.yaml",
			content:  "repositories:\n  - name: R\n    entity: {name: E, properties: [{path: id}]}\n    methods: [findById, findById]\n",
			wantCode: ErrCodeInvalid,
			wantMsg:  `duplicate method "findById"`,
		},
		{
			name:     "bad property type",
			file:     "badtype.yaml",
			content:  "repositories:\n  - name: R\n    entity: {name: E, properties: [{path: id, type: decimal}]}\n    methods: [findById]\n",
			wantCode: ErrCodeInvalid,
			wantMsg:  `unknown property type "decimal"`,
		},
		{
			name:     "duplicate repository",
			file:     "duprepo.yaml",
			content:  "repositories:" + validRepo + validRepo,
			wantCode: ErrCodeInvalid,
			wantMsg:  "duplicate repository SimpleRepository",
		},
		{
			name:     "cue syntax error",
			file:     "broken.cue",
			content:  "repositories: [{\n",
			wantCode: ErrCodeParseError,
			wantMsg:  "compiling CUE",
		},
		{
			name:     "cue without repositories",
			file:     "other.cue",
			content:  "concepts: {}\n",
			wantCode: ErrCodeInvalid,
			wantMsg:  "repositories field is required",
		},
		{
			name:     "unsupported extension",
			file:     "repo.json",
			content:  "{}",
			wantCode: ErrCodeGeneric,
			wantMsg:  "unsupported definition format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), tt.file, tt.content)

			_, err := Load(path)
			require.Error(t, err)
			assert.True(t, IsLoadError(err, tt.wantCode), "got %v", err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoad_PathErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing"))
	assert.True(t, IsLoadError(err, ErrCodeNotFound))

	empty := t.TempDir()
	writeFile(t, empty, "README.md", "nothing here")
	_, err = Load(empty)
	assert.True(t, IsLoadError(err, ErrCodeNoFiles))
}

func TestLoad_DuplicateAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	content := "repositories:\n  - name: R\n    entity: {name: E, properties: [{path: id}]}\n    methods: [findById]\n"
	writeFile(t, dir, "a.yaml", content)
	writeFile(t, dir, "b.yml", content)

	_, err := Load(dir)
	require.Error(t, err)
	assert.True(t, IsLoadError(err, ErrCodeInvalid))
	assert.Contains(t, err.Error(), "already defined in")
}

func TestLoadError_Format(t *testing.T) {
	err := &LoadError{Code: ErrCodeInvalid, Path: "repos.yaml", Message: "bad"}
	assert.Equal(t, "repos.yaml: E006: bad", err.Error())

	err = &LoadError{Code: ErrCodeGeneric, Message: "oops"}
	assert.Equal(t, "E001: oops", err.Error())

	assert.False(t, IsLoadError(os.ErrNotExist, ""))
	assert.True(t, IsLoadError(err, ""))
}
