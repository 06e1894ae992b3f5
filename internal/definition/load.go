package definition

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

// Load reads the definition file or directory at path. Repositories are
// returned in file order, files in lexical path order. Repository names
// must be unique across everything loaded.
func Load(path string) ([]Repository, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: "definition path not found"}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: fmt.Sprintf("error accessing path: %v", err)}
	}

	files := []string{path}
	if info.IsDir() {
		files, err = FindDefinitionFiles(path)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeScanError, Path: path, Message: fmt.Sprintf("error scanning directory: %v", err)}
		}
		if len(files) == 0 {
			return nil, &LoadError{Code: ErrCodeNoFiles, Path: path, Message: "no definition files found"}
		}
	}

	var repos []Repository
	owner := make(map[string]string)
	for _, file := range files {
		loaded, err := LoadFile(file)
		if err != nil {
			return nil, err
		}
		for _, r := range loaded {
			if prev, dup := owner[r.Name]; dup {
				return nil, &LoadError{
					Code:    ErrCodeInvalid,
					Path:    file,
					Message: fmt.Sprintf("repository %s already defined in %s", r.Name, prev),
				}
			}
			owner[r.Name] = file
			repos = append(repos, r)
		}
	}
	return repos, nil
}

// LoadFile reads a single definition file.
func LoadFile(path string) ([]Repository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: "definition file not found"}
		}
		return nil, &LoadError{Code: ErrCodeGeneric, Path: path, Message: fmt.Sprintf("failed to read file: %v", err)}
	}
	return Parse(path, data)
}

// Parse decodes definition data. The format is chosen by the extension of
// filename.
func Parse(filename string, data []byte) ([]Repository, error) {
	var (
		file File
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".yaml", ".yml":
		err = decodeYAML(filename, data, &file)
	case ".cue":
		err = decodeCUE(filename, data, &file)
	default:
		err = &LoadError{Code: ErrCodeGeneric, Path: filename, Message: fmt.Sprintf("unsupported definition format %q", ext)}
	}
	if err != nil {
		return nil, err
	}

	if len(file.Repositories) == 0 {
		return nil, &LoadError{Code: ErrCodeInvalid, Path: filename, Message: "repositories list is required and must be non-empty"}
	}
	seen := make(map[string]bool, len(file.Repositories))
	for i := range file.Repositories {
		r := &file.Repositories[i]
		r.Source = filename
		if err := r.validate(); err != nil {
			return nil, &LoadError{Code: ErrCodeInvalid, Path: filename, Message: err.Error()}
		}
		if seen[r.Name] {
			return nil, &LoadError{Code: ErrCodeInvalid, Path: filename, Message: fmt.Sprintf("duplicate repository %s", r.Name)}
		}
		seen[r.Name] = true
	}
	return file.Repositories, nil
}

func decodeYAML(filename string, data []byte, out *File) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(out); err != nil {
		return &LoadError{Code: ErrCodeParseError, Path: filename, Message: fmt.Sprintf("failed to parse YAML: %v", err)}
	}
	return nil
}

func decodeCUE(filename string, data []byte, out *File) error {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return cueLoadError(filename, "compiling CUE", err)
	}

	repos := value.LookupPath(cue.ParsePath("repositories"))
	if !repos.Exists() {
		return &LoadError{Code: ErrCodeInvalid, Path: filename, Message: "repositories field is required"}
	}
	if err := repos.Decode(&out.Repositories); err != nil {
		return cueLoadError(filename, "decoding repositories", err)
	}
	return nil
}

func cueLoadError(filename, action string, err error) *LoadError {
	le := &LoadError{Code: ErrCodeParseError, Path: filename, Message: fmt.Sprintf("%s: %v", action, err)}
	if positions := cueerrors.Positions(err); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}

// FindDefinitionFiles walks dir and returns every .yaml, .yml and .cue
// file in lexical order.
func FindDefinitionFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml", ".cue":
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}
