package corpus

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/crafttable/pkg/diag"
	"github.com/matzehuels/crafttable/pkg/errors"
	"github.com/matzehuels/crafttable/pkg/recipe"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, body := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

const stick = `{"type": "crafting_shaped", "pattern": ["#", "#"], "key": {"#": {"tag": "minecraft:planks"}}, "result": {"id": "minecraft:stick", "count": 4}}`

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"stick.json":           stick,
		"_index.json":          `{}`,
		"notes.txt":            `x`,
		"mod/gear.json":        stick,
		"mod/_draft.json":      stick,
		".git/objects/ab.json": stick,
	})

	names, err := Discover(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"mod/gear", "stick"}
	if !slices.Equal(names, want) {
		t.Errorf("Discover = %v, want %v", names, want)
	}
}

func TestLoadMissingDir(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope"), Options{})
	if !errors.Is(err, errors.ErrCodeSourceNotFound) {
		t.Errorf("Load(missing) error = %v, want SOURCE_NOT_FOUND", err)
	}
}

func TestLoadNotADir(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"file.json": `{}`})
	_, err := Load(context.Background(), filepath.Join(dir, "file.json"), Options{})
	if !errors.Is(err, errors.ErrCodeSourceNotFound) {
		t.Errorf("Load(file) error = %v, want SOURCE_NOT_FOUND", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{"broken.json": `{"type": `}
	for i := 0; i < 40; i++ {
		files[filepath.ToSlash(filepath.Join("bulk", string(rune('a'+i%26))+string(rune('a'+i/26))+".json"))] = stick
	}
	writeFiles(t, dir, files)

	sink := diag.NewCollector(nil)
	c, err := Load(context.Background(), dir, Options{Workers: 3, Sink: sink})
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 40 || c.Failed != 1 {
		t.Errorf("Len = %d, Failed = %d; want 40, 1", c.Len(), c.Failed)
	}
	if !slices.IsSortedFunc(c.Definitions, func(a, b *recipe.Definition) int { return strings.Compare(a.Name, b.Name) }) {
		t.Error("definitions are not sorted by name")
	}
	if sink.Count(errors.ErrCodeInvalidRecipe) != 1 {
		t.Errorf("diagnostics = %v", sink.All())
	}
	if got := sink.All()[0].Subject; got != "recipe broken" {
		t.Errorf("Subject = %q", got)
	}
}

func TestLoadDeterministic(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.json": stick, "b.json": stick, "c.json": `nope`, "d.json": `[1]`, "e.json": stick,
	})

	names := func() []string {
		sink := diag.NewCollector(nil)
		c, err := Load(context.Background(), dir, Options{Workers: 4, Sink: sink})
		if err != nil {
			t.Fatal(err)
		}
		var out []string
		for _, d := range c.Definitions {
			out = append(out, d.Name)
		}
		for _, d := range sink.All() {
			out = append(out, d.String())
		}
		return out
	}

	first := names()
	for i := 0; i < 5; i++ {
		if got := names(); !slices.Equal(got, first) {
			t.Fatalf("run %d differs:\n%v\n%v", i, got, first)
		}
	}
}

func TestLoadCanceled(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.json": stick})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Load(ctx, dir, Options{}); err == nil {
		t.Error("Load with canceled context should fail")
	}
}

func TestFromDefinitions(t *testing.T) {
	b, _ := recipe.Decode("b", []byte(stick))
	a, _ := recipe.Decode("a", []byte(stick))
	c := FromDefinitions([]*recipe.Definition{b, a})
	if c.Definitions[0].Name != "a" || c.Len() != 2 {
		t.Errorf("FromDefinitions order = %s, %s", c.Definitions[0].Name, c.Definitions[1].Name)
	}
}
