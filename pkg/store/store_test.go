package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/crafttable/pkg/observability"
	"github.com/matzehuels/crafttable/pkg/store"
	"github.com/matzehuels/crafttable/pkg/store/storetest"
)

func TestMemory(t *testing.T) {
	storetest.Run(t, store.NewMemory())
}

func TestDir(t *testing.T) {
	root := filepath.Join(t.TempDir(), "recipes")
	s, err := store.NewDir(root)
	if err != nil {
		t.Fatal(err)
	}
	storetest.Run(t, s)

	if _, err := os.Stat(filepath.Join(root, "mod", "sub", "gear.json")); err != nil {
		t.Errorf("expected nested file on disk: %v", err)
	}
}

func TestDirIgnoresForeignFiles(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, _ := store.NewDir(root)
	keys, err := s.Keys(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 0 {
		t.Errorf("Keys = %v, want none", keys)
	}
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	data := []byte("abc")
	_ = s.Write(ctx, "k", data)
	data[0] = 'z'

	got, _ := s.Read(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("stored data aliased caller slice: %s", got)
	}
}

type countingHooks struct {
	observability.NoopStoreHooks
	reads, misses, writes, deletes int
}

func (c *countingHooks) OnStoreRead(_ context.Context, _ string, hit bool) {
	if hit {
		c.reads++
	} else {
		c.misses++
	}
}
func (c *countingHooks) OnStoreWrite(context.Context, string, int) { c.writes++ }
func (c *countingHooks) OnStoreDelete(context.Context, string)     { c.deletes++ }

func TestObserved(t *testing.T) {
	hooks := &countingHooks{}
	observability.SetStoreHooks(hooks)
	defer observability.Reset()

	ctx := context.Background()
	s := store.Observed(store.NewMemory(), "memory")
	_ = s.Write(ctx, "a", []byte("1"))
	_, _ = s.Read(ctx, "a")
	_, _ = s.Read(ctx, "b")
	_ = s.Delete(ctx, "a")

	if hooks.writes != 1 || hooks.reads != 1 || hooks.misses != 1 || hooks.deletes != 1 {
		t.Errorf("hooks = %+v", hooks)
	}
}
