// Package index groups normalized recipes by output and writes the recipe
// index: one artifact per output item plus a sorted manifest.
//
// Group keys are slash-form output ids ("minecraft/torch"), so the
// directory store lays the index out as "<root>/minecraft/torch.json". The
// manifest is stored under [ManifestKey] and lists every group key.
//
// Writing is idempotent: groups are encoded deterministically, groups named
// by the previous manifest that no longer exist are deleted, and the
// manifest is rebuilt from the current groups. Keys the index never wrote
// are left alone, so the index may share a directory with other files.
package index

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"

	cterrors "github.com/matzehuels/crafttable/pkg/errors"
	pkgio "github.com/matzehuels/crafttable/pkg/io"
	"github.com/matzehuels/crafttable/pkg/recipe"
	"github.com/matzehuels/crafttable/pkg/store"
)

// ManifestKey is the store key of the manifest.
const ManifestKey = "_manifest"

// Group is every normalized recipe producing one output.
type Group struct {
	Key     string
	Recipes []*recipe.Normalized
}

// Aggregator collects normalized recipes into groups. Within a group,
// recipes keep the order they were added in. It is not safe for
// concurrent use.
type Aggregator struct {
	groups map[string]*Group
}

// NewAggregator returns an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{groups: make(map[string]*Group)}
}

// Add appends n to the group of its output id. Nil recipes are ignored.
// A recipe whose output id is not a usable group key is rejected with
// INVALID_KEY and nothing is added.
func (a *Aggregator) Add(n *recipe.Normalized) error {
	if n == nil {
		return nil
	}
	key := n.Output.ID
	if err := ValidateGroupKey(key); err != nil {
		return err
	}
	g, ok := a.groups[key]
	if !ok {
		g = &Group{Key: key}
		a.groups[key] = g
	}
	g.Recipes = append(g.Recipes, n)
	return nil
}

// ValidateGroupKey reports whether key can name a recipe group: it must be
// a valid store key and must not look like an internal entry.
func ValidateGroupKey(key string) error {
	if err := store.ValidateKey(key); err != nil {
		return err
	}
	if IsInternal(key) {
		return cterrors.New(cterrors.ErrCodeInvalidKey, "output %q collides with internal keys", key)
	}
	return nil
}

// Len returns the number of groups.
func (a *Aggregator) Len() int { return len(a.groups) }

// Groups returns the groups sorted by key.
func (a *Aggregator) Groups() []*Group {
	out := make([]*Group, 0, len(a.groups))
	for _, g := range a.groups {
		out = append(out, g)
	}
	slices.SortFunc(out, func(x, y *Group) int { return strings.Compare(x.Key, y.Key) })
	return out
}

// Group returns the group for key, if any.
func (a *Aggregator) Group(key string) (*Group, bool) {
	g, ok := a.groups[key]
	return g, ok
}

// WriteStats summarizes an index write.
type WriteStats struct {
	Groups  int
	Deleted int
}

// Write stores every group, removes groups the previous manifest listed
// that no longer exist and writes the manifest.
//
// Every group is encoded before the first store write, so only a failing
// backend can leave a partial index behind.
func (a *Aggregator) Write(ctx context.Context, s store.Store) (WriteStats, error) {
	var stats WriteStats
	groups := a.Groups()
	encoded := make([][]byte, len(groups))
	for i, g := range groups {
		data, err := pkgio.EncodeGroup(g.Recipes)
		if err != nil {
			return stats, fmt.Errorf("encode group %s: %w", g.Key, err)
		}
		encoded[i] = data
	}

	previous, err := ReadManifest(ctx, s)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return stats, fmt.Errorf("read previous manifest: %w", err)
	}

	for i, g := range groups {
		if err := s.Write(ctx, g.Key, encoded[i]); err != nil {
			return stats, fmt.Errorf("write group %s: %w", g.Key, err)
		}
		stats.Groups++
	}

	for _, k := range previous {
		if IsInternal(k) || store.ValidateKey(k) != nil {
			continue
		}
		if _, ok := a.groups[k]; ok {
			continue
		}
		if err := s.Delete(ctx, k); err != nil {
			return stats, fmt.Errorf("delete stale group %s: %w", k, err)
		}
		stats.Deleted++
	}

	keys := make([]string, len(groups))
	for i, g := range groups {
		keys[i] = g.Key
	}
	if err := WriteManifest(ctx, s, keys); err != nil {
		return stats, err
	}
	return stats, nil
}

// WriteManifest writes the manifest listing keys.
func WriteManifest(ctx context.Context, s store.Store, keys []string) error {
	manifest := Manifest(keys)
	data, err := json.MarshalIndent(manifest, "", "    ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if err := s.Write(ctx, ManifestKey, data); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// Manifest filters internal entries out of keys and returns the rest
// sorted. It never returns nil.
func Manifest(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if !IsInternal(k) {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}

// IsInternal reports whether key names an internal entry such as the
// manifest: its last path segment starts with '_'.
func IsInternal(key string) bool {
	return strings.HasPrefix(path.Base(key), "_")
}

// ReadManifest loads the manifest from s.
func ReadManifest(ctx context.Context, s store.Store) ([]string, error) {
	data, err := s.Read(ctx, ManifestKey)
	if err != nil {
		return nil, err
	}
	var keys []string
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return keys, nil
}

// ReadGroup loads the group stored under key.
func ReadGroup(ctx context.Context, s store.Store, key string) ([]*recipe.Normalized, error) {
	data, err := s.Read(ctx, key)
	if err != nil {
		return nil, err
	}
	return pkgio.DecodeGroup(data)
}
