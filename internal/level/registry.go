package level

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"tilegrid/internal/grid"

	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownLevel is returned when a level ID is not registered.
	ErrUnknownLevel = errors.New("unknown level")
	// ErrInvalid wraps every level validation failure.
	ErrInvalid = errors.New("invalid level")
)

//go:embed data/*.yaml
var builtin embed.FS

// file is the on-disk YAML form of a level. Ground rows are strings with one
// character per cell.
type file struct {
	ID       string             `yaml:"id"`
	Name     string             `yaml:"name"`
	Ground   []string           `yaml:"ground"`
	Spawn    grid.Position      `yaml:"spawn"`
	Entities []EntityDefinition `yaml:"entities"`
	Metadata Metadata           `yaml:"metadata"`
}

func (f file) definition() *Definition {
	ground := make([][]grid.Ground, len(f.Ground))
	for r, row := range f.Ground {
		for _, ch := range row {
			ground[r] = append(ground[r], grid.Ground(string(ch)))
		}
	}
	return &Definition{
		ID:         f.ID,
		Name:       f.Name,
		GroundGrid: ground,
		Entities:   f.Entities,
		SpawnPoint: f.Spawn,
		Metadata:   f.Metadata,
	}
}

// Parse decodes one YAML level document and validates it.
func Parse(data []byte) (*Definition, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode level: %w", err)
	}
	def := f.definition()
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

// Registry maps level IDs to definitions.
type Registry struct {
	levels map[string]*Definition
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{levels: make(map[string]*Definition)}
}

// Builtin returns a registry holding the levels shipped with the binary.
func Builtin() (*Registry, error) {
	r := NewRegistry()
	if err := r.LoadFS(builtin, "data"); err != nil {
		return nil, err
	}
	return r, nil
}

// Add validates and registers def. Registering an ID twice is an error.
func (r *Registry) Add(def *Definition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	if _, dup := r.levels[def.ID]; dup {
		return fmt.Errorf("%w: duplicate level id %q", ErrInvalid, def.ID)
	}
	r.levels[def.ID] = def
	return nil
}

// LoadFS registers every *.yaml / *.yml file in dir of fsys.
func (r *Registry) LoadFS(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("read level dir %s: %w", dir, err)
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !(strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")) {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read level %s: %w", name, err)
		}
		def, err := Parse(data)
		if err != nil {
			return fmt.Errorf("level file %s: %w", name, err)
		}
		if err := r.Add(def); err != nil {
			return fmt.Errorf("level file %s: %w", name, err)
		}
	}
	return nil
}

// LoadDir registers every level file in a directory on disk.
func (r *Registry) LoadDir(dir string) error {
	return r.LoadFS(os.DirFS(dir), ".")
}

// Load returns the built-in levels plus, when dir is not empty, every
// level file in dir.
func Load(dir string) (*Registry, error) {
	r, err := Builtin()
	if err != nil {
		return nil, err
	}
	if dir != "" {
		if err := r.LoadDir(dir); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Get returns the level registered under id.
func (r *Registry) Get(id string) (*Definition, bool) {
	def, ok := r.levels[id]
	return def, ok
}

// Lookup is Get with an ErrUnknownLevel error instead of a bool.
func (r *Registry) Lookup(id string) (*Definition, error) {
	def, ok := r.levels[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLevel, id)
	}
	return def, nil
}

// IDs returns the registered level IDs in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.levels))
	for id := range r.levels {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DanglingDoors returns "<level>/<door id> -> <target>" for every door whose
// target is missing or empty. Such doors are allowed; entering one is a no-op.
func (r *Registry) DanglingDoors() []string {
	var out []string
	for _, id := range r.IDs() {
		for _, d := range r.levels[id].Doors() {
			if _, ok := r.levels[d.TargetLevel()]; !ok {
				out = append(out, fmt.Sprintf("%s/%s -> %q", id, d.ID(), d.TargetLevel()))
			}
		}
	}
	return out
}
