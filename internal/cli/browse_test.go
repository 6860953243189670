package cli

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/crafttable/pkg/loops"
	"github.com/matzehuels/crafttable/pkg/recipe"
)

func testBrowser() BrowseModel {
	keys := []string{"minecraft/iron_ingot", "minecraft/stick", "minecraft/torch_launcher"}
	table := loops.Table{"iron_ingot": {"torch_launcher"}, "torch_launcher": {"iron_ingot"}}
	return NewBrowseModel(keys, table, func(key string) ([]*recipe.Normalized, error) {
		if key == "minecraft/stick" {
			return nil, errors.New("boom")
		}
		return []*recipe.Normalized{{
			Input:  recipe.Placement{1: {"minecraft/stick"}, 2: {"minecraft/iron_ingot"}},
			Output: recipe.Output{ID: key, Count: 1},
		}}, nil
	})
}

func press(m BrowseModel, msgs ...tea.Msg) BrowseModel {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(BrowseModel)
	}
	return m
}

func TestBrowseNavigate(t *testing.T) {
	m := testBrowser()
	if m.Selected() != "minecraft/iron_ingot" {
		t.Fatalf("Selected = %q", m.Selected())
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown})
	if m.Selected() != "minecraft/torch_launcher" {
		t.Errorf("cursor should stop at the last item, got %q", m.Selected())
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyUp})
	if m.Selected() != "minecraft/stick" {
		t.Errorf("Selected = %q", m.Selected())
	}
	if !strings.Contains(m.View(), "boom") {
		t.Error("load errors should be shown")
	}
}

func TestBrowseFilter(t *testing.T) {
	m := testBrowser()
	m = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("torch")})
	if len(m.visible) != 1 || m.Selected() != "minecraft/torch_launcher" {
		t.Fatalf("visible = %v", m.visible)
	}

	view := m.View()
	for _, want := range []string{"loops with: iron_ingot", "minecraft/stick", "makes 1"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyBackspace},
		tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyBackspace})
	if m.Filter != "" || len(m.visible) != 3 {
		t.Errorf("clearing the filter should restore all items, got %v", m.visible)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("zzz")})
	if m.Selected() != "" || !strings.Contains(m.View(), "no matching items") {
		t.Error("empty filter result should render a placeholder")
	}
}

func TestBrowseQuit(t *testing.T) {
	_, cmd := testBrowser().Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Error("esc should quit")
	}
}
