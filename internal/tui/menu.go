package tui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeanpaul/companion/internal/persona"
)

// MenuType defines which menu context we are in
type MenuType int

const (
	MenuNone MenuType = iota
	MenuSlashCommands
	MenuModes
)

const menuHeight = 14

type item struct {
	title, desc string
	// value is what selecting the item yields: a command line or a mode key.
	value string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.value }

type MenuModel struct {
	list     list.Model
	active   bool
	menuType MenuType
}

func newMenu(title string, menuType MenuType, items []list.Item) MenuModel {
	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = lipgloss.NewStyle().Foreground(Rose).Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(Rose).PaddingLeft(1)
	d.Styles.SelectedDesc = d.Styles.SelectedTitle.Foreground(Dim)

	l := list.New(items, d, 40, menuHeight)
	l.Title = title
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = lipgloss.NewStyle().Foreground(Rose).Bold(true).MarginLeft(2)

	return MenuModel{list: l, menuType: menuType}
}

// NewCommandMenu lists the slash commands.
func NewCommandMenu() MenuModel {
	items := []list.Item{
		item{title: "/help", desc: "Show help", value: "/help"},
		item{title: "/modes", desc: "List conversation modes", value: "/modes"},
		item{title: "/memory", desc: "What I remember about you", value: "/memory"},
		item{title: "/forget", desc: "Forget what I remember", value: "/forget"},
		item{title: "/clear", desc: "Clear conversation history", value: "/clear"},
		item{title: "/stats", desc: "Session statistics", value: "/stats"},
		item{title: "/save", desc: "Export conversation to markdown", value: "/save"},
		item{title: "/quit", desc: "Exit", value: "/quit"},
	}
	return newMenu("Commands", MenuSlashCommands, items)
}

// NewModeMenu lists every mode in catalog order.
func NewModeMenu(catalog *persona.Catalog) MenuModel {
	var items []list.Item
	for _, m := range catalog.Modes() {
		items = append(items, item{title: m.Title(), desc: m.Key, value: m.Key})
	}
	return newMenu("Modes", MenuModes, items)
}

// open activates the menu with the cursor on the first entry.
func (m *MenuModel) open() {
	m.active = true
	m.list.ResetSelected()
	m.list.ResetFilter()
}

// selected returns the value of the highlighted entry.
func (m MenuModel) selected() (string, bool) {
	it, ok := m.list.SelectedItem().(item)
	if !ok {
		return "", false
	}
	return it.value, true
}

func (m MenuModel) Init() tea.Cmd {
	return nil
}

func (m MenuModel) Update(msg tea.Msg) (MenuModel, tea.Cmd) {
	if !m.active {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" && m.list.FilterState() != list.Filtering {
			m.active = false
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m MenuModel) View() string {
	if !m.active {
		return ""
	}
	return MenuBoxStyle.Render(m.list.View())
}
