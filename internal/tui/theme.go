package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Core palette
	Rose     = lipgloss.Color("#FF6F91")
	Peach    = lipgloss.Color("#FFB38A")
	Lavender = lipgloss.Color("#B39DDB")
	Mint     = lipgloss.Color("#7FE0C0")
	Cream    = lipgloss.Color("#F5EBDD")
	Slate    = lipgloss.Color("#5C5470")
	Dim      = lipgloss.Color("#8A8296")
	Crimson  = lipgloss.Color("#FF4136")

	// Header
	TitleStyle = lipgloss.NewStyle().
			Foreground(Rose).
			Bold(true)

	ModeBadgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1E1A24")).
			Background(Peach).
			Bold(true).
			Padding(0, 1)

	SourceBadgeStyle = lipgloss.NewStyle().
				Foreground(Cream).
				Background(Slate).
				Padding(0, 1)

	HeaderStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(Slate).
			PaddingLeft(1)

	// Conversation blocks
	RoleHeaderStyle = lipgloss.NewStyle().
			Bold(true)

	UserBlockStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), false, false, false, true).
			BorderForeground(Mint).
			PaddingLeft(1).
			MarginBottom(1)

	UserMsgStyle = lipgloss.NewStyle().
			Foreground(Cream)

	AssistantBlockStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder(), false, false, false, true).
				BorderForeground(Rose).
				PaddingLeft(1).
				MarginBottom(1)

	AssistantMsgStyle = lipgloss.NewStyle().
				Foreground(Cream)

	SystemMsgStyle = lipgloss.NewStyle().
			Foreground(Lavender).
			Italic(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Crimson).
			Bold(true)

	// Input
	InputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Rose).
			Padding(0, 1)

	InputBusyStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Slate).
			Padding(0, 1)

	ViewportStyle = lipgloss.NewStyle().
			PaddingLeft(1)

	// Spinner
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(Peach)

	// Menus
	MenuBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Lavender).
			Padding(0, 1)

	// Help text
	HelpStyle = lipgloss.NewStyle().
			Foreground(Dim)
)

const Banner = "companion"
