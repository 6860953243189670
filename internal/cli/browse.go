package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/crafttable/pkg/index"
	"github.com/matzehuels/crafttable/pkg/item"
	"github.com/matzehuels/crafttable/pkg/loops"
	"github.com/matzehuels/crafttable/pkg/pipeline"
	"github.com/matzehuels/crafttable/pkg/recipe"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listLoopStyle     = lipgloss.NewStyle().Foreground(colorYellow)
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the built recipe index interactively",
		Long: `Browse the recipe index and loop table in the configured store. Type to
filter items, use the arrow keys to move and esc to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			keys, err := index.ReadManifest(ctx, s)
			if err != nil {
				return fmt.Errorf("read manifest (run '%s build' first): %w", appName, err)
			}
			lt, err := pipeline.ReadLoops(ctx, s)
			if err != nil {
				loggerFromContext(ctx).Warn("no loop table in store", "error", err)
				lt = loops.Table{}
			}

			model := NewBrowseModel(keys, lt, func(key string) ([]*recipe.Normalized, error) {
				return index.ReadGroup(context.WithoutCancel(ctx), s, key)
			})
			_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}
}

// =============================================================================
// BrowseModel - Interactive recipe index browser
// =============================================================================

// GroupLoader reads the recipes of one group.
type GroupLoader func(key string) ([]*recipe.Normalized, error)

// BrowseModel is the bubbletea model for the recipe browser.
type BrowseModel struct {
	Keys   []string
	Loops  loops.Table
	Filter string
	Cursor int
	Offset int
	Height int

	load    GroupLoader
	visible []string
	groups  map[string][]*recipe.Normalized
	errs    map[string]error
}

// NewBrowseModel creates a browser over the manifest keys.
func NewBrowseModel(keys []string, t loops.Table, load GroupLoader) BrowseModel {
	m := BrowseModel{
		Keys:   keys,
		Loops:  t,
		Height: 15,
		load:   load,
		groups: make(map[string][]*recipe.Normalized),
		errs:   make(map[string]error),
	}
	m.applyFilter()
	return m
}

// Selected returns the key under the cursor, or "".
func (m BrowseModel) Selected() string {
	if m.Cursor < len(m.visible) {
		return m.visible[m.Cursor]
	}
	return ""
}

func (m *BrowseModel) applyFilter() {
	m.visible = nil
	for _, k := range m.Keys {
		if strings.Contains(k, m.Filter) {
			m.visible = append(m.visible, k)
		}
	}
	m.Cursor, m.Offset = 0, 0
}

func (m *BrowseModel) ensureLoaded(key string) {
	if key == "" || m.load == nil {
		return
	}
	if _, ok := m.groups[key]; ok {
		return
	}
	if _, ok := m.errs[key]; ok {
		return
	}
	rs, err := m.load(key)
	if err != nil {
		m.errs[key] = err
		return
	}
	m.groups[key] = rs
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case tea.KeyDown:
			if m.Cursor < len(m.visible)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case tea.KeyBackspace:
			if m.Filter != "" {
				r := []rune(m.Filter)
				m.Filter = string(r[:len(r)-1])
				m.applyFilter()
			}
		case tea.KeyRunes:
			m.Filter += string(msg.Runes)
			m.applyFilter()
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height/2-4, 5)
	}
	m.ensureLoaded(m.Selected())
	return m, nil
}

func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Recipe Index"))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render("type to filter  ↑/↓ navigate  esc quit"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("filter: ") + listNormalStyle.Render(m.Filter))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.visible))
	for i := m.Offset; i < end; i++ {
		key := m.visible[i]
		cursor := "  "
		style := listNormalStyle
		if i == m.Cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}
		line := style.Render(cursor + key)
		if n := len(m.Loops.Partners(item.Stub(key))); n > 0 {
			line += " " + listLoopStyle.Render(fmt.Sprintf("⟳%d", n))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.visible)), len(m.visible))))
	b.WriteString("\n\n")

	b.WriteString(m.detailView(m.Selected()))
	return b.String()
}

// detailView renders the recipes and loop partners of key.
func (m BrowseModel) detailView(key string) string {
	if key == "" {
		return listDimStyle.Render("no matching items")
	}
	if err, ok := m.errs[key]; ok {
		return StyleError.Render("load " + key + ": " + err.Error())
	}

	var b strings.Builder
	if partners := m.Loops.Partners(item.Stub(key)); len(partners) > 0 {
		b.WriteString(listLoopStyle.Render("loops with: " + strings.Join(partners, ", ")))
		b.WriteString("\n")
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	for i, r := range m.groups[key] {
		rows := make([][]string, 0, len(r.Input))
		for _, slot := range r.Input.Slots() {
			rows = append(rows, []string{fmt.Sprint(slot), strings.Join(r.Input[slot], " | ")})
		}
		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
			Headers("Slot", "Ingredient").
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				if col == 0 {
					return listDimStyle
				}
				return listNormalStyle
			})
		b.WriteString(StyleHighlight.Render(fmt.Sprintf("recipe %d", i+1)))
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  makes %d", r.Output.Count)))
		b.WriteString("\n")
		b.WriteString(t.Render())
		b.WriteString("\n")
	}
	return b.String()
}
