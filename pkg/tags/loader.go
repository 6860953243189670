package tags

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrNotFound is returned by a [Loader] when no definition exists for a stub.
var ErrNotFound = errors.New("tag not found")

// Def is a loaded tag definition.
type Def struct {
	Stub   string
	Values []string // concrete ids or "#"-prefixed references, in file order
}

// Loader loads tag definitions by stub.
type Loader interface {
	Load(stub string) (*Def, error)
}

// DirLoader loads tag files from a directory tree.
type DirLoader struct {
	Dir string
}

// NewDirLoader returns a loader rooted at dir.
func NewDirLoader(dir string) *DirLoader {
	return &DirLoader{Dir: dir}
}

// Load reads "<Dir>/<stub>.json". It returns ErrNotFound if the file does
// not exist.
func (l *DirLoader) Load(stub string) (*Def, error) {
	if stub == "" || strings.Contains(stub, "..") {
		return nil, fmt.Errorf("invalid tag stub %q", stub)
	}
	path := filepath.Join(l.Dir, filepath.FromSlash(stub)+".json")
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return Parse(stub, data)
}

// Parse decodes a tag file of the form {"values": [...]}. Values may be
// plain strings or objects carrying an "id" field (optional entries);
// objects without an id are skipped.
func Parse(stub string, data []byte) (*Def, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("tag %s: invalid JSON", stub)
	}
	values := gjson.GetBytes(data, "values")
	if !values.IsArray() {
		return nil, fmt.Errorf("tag %s: \"values\" must be an array", stub)
	}

	def := &Def{Stub: stub}
	var bad error
	values.ForEach(func(_, v gjson.Result) bool {
		switch {
		case v.Type == gjson.String:
			def.Values = append(def.Values, v.String())
		case v.IsObject():
			if id := v.Get("id"); id.Type == gjson.String {
				def.Values = append(def.Values, id.String())
			}
		default:
			bad = fmt.Errorf("tag %s: unsupported value %s", stub, v.Raw)
			return false
		}
		return true
	})
	if bad != nil {
		return nil, bad
	}
	return def, nil
}

// MapLoader serves definitions from memory, keyed by stub.
type MapLoader map[string][]string

// Load returns the values stored under stub.
func (m MapLoader) Load(stub string) (*Def, error) {
	values, ok := m[stub]
	if !ok {
		return nil, ErrNotFound
	}
	return &Def{Stub: stub, Values: values}, nil
}
