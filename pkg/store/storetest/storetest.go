// Package storetest provides a conformance suite for store.Store
// implementations.
package storetest

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/matzehuels/crafttable/pkg/store"
)

// Run exercises s through the full Store contract. The store must start
// empty.
func Run(t *testing.T, s store.Store) {
	t.Helper()
	ctx := context.Background()

	keys, err := s.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys on empty store: %v", err)
	}
	if len(keys) != 0 {
		t.Fatalf("Keys on empty store = %v", keys)
	}

	if _, err := s.Read(ctx, "minecraft/torch"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Read missing = %v, want ErrNotFound", err)
	}

	writes := map[string]string{
		"minecraft/torch":      `[{"a":1}]`,
		"minecraft/iron_ingot": `[]`,
		"mod/sub/gear":         `[{"b":2}]`,
		"_manifest":            `["minecraft/torch"]`,
	}
	for k, v := range writes {
		if err := s.Write(ctx, k, []byte(v)); err != nil {
			t.Fatalf("Write(%s): %v", k, err)
		}
	}
	if err := s.Write(ctx, "minecraft/torch", []byte(`[{"a":2}]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, err := s.Read(ctx, "minecraft/torch")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != `[{"a":2}]` {
		t.Errorf("Read after overwrite = %s", got)
	}

	keys, err = s.Keys(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"_manifest", "minecraft/iron_ingot", "minecraft/torch", "mod/sub/gear"}
	if !slices.Equal(keys, want) {
		t.Errorf("Keys = %v, want %v", keys, want)
	}

	if err := s.Delete(ctx, "minecraft/iron_ingot"); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if err := s.Delete(ctx, "minecraft/iron_ingot"); err != nil {
		t.Errorf("Delete missing: %v", err)
	}
	if _, err := s.Read(ctx, "minecraft/iron_ingot"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Read deleted = %v, want ErrNotFound", err)
	}

	for _, bad := range []string{"", "../escape", "/abs", `a\b`} {
		if err := s.Write(ctx, bad, []byte("x")); err == nil {
			t.Errorf("Write(%q) should fail", bad)
		}
	}
}
