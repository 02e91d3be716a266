package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeanpaul/companion/internal/commands"
	"github.com/jeanpaul/companion/internal/reply"
	"github.com/jeanpaul/companion/internal/session"
)

// TypingSpinner is shown while a reply is being produced.
var TypingSpinner = spinner.Spinner{
	Frames: []string{"·  ", "·· ", "···", " ··", "  ·", "   "},
	FPS:    time.Second / 6,
}

const (
	headerH = 3
	inputH  = 3
	footerH = 1
	menuH   = menuHeight + 2
)

// turnDoneMsg carries a finished reply back to the render loop.
type turnDoneMsg struct {
	reply reply.Reply
	title string
}

type chatMessage struct {
	role    string
	title   string
	content string
	source  reply.Source
}

type Model struct {
	width, height int
	viewport      viewport.Model
	textarea      textarea.Model
	spinner       spinner.Model
	messages      []chatMessage
	busy          bool

	session    *session.Session
	dispatcher *commands.Dispatcher
	ctx        context.Context
	cancel     context.CancelFunc
	renderer   *glamour.TermRenderer
	menu       MenuModel
}

func NewModel(s *session.Session) Model {
	ta := textarea.New()
	ta.Placeholder = "Say something..."
	ta.Focus()
	ta.CharLimit = 2000
	ta.SetHeight(1)
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(Cream)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(Dim)
	ta.BlurredStyle.Base = lipgloss.NewStyle().Foreground(Slate)
	ta.ShowLineNumbers = false

	sp := spinner.New()
	sp.Spinner = TypingSpinner
	sp.Style = SpinnerStyle

	ctx, cancel := context.WithCancel(context.Background())

	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)

	m := Model{
		viewport:   viewport.New(80, 20),
		textarea:   ta,
		spinner:    sp,
		session:    s,
		dispatcher: commands.New(s),
		ctx:        ctx,
		cancel:     cancel,
		renderer:   r,
	}
	m.viewport.MouseWheelEnabled = true

	source := "offline, template replies"
	if s.Online() {
		source = "connected"
	}
	m.messages = append(m.messages, chatMessage{
		role:    "system",
		content: fmt.Sprintf("  %s mode (%s). Tab switches mode, / opens commands.", s.Mode().Title(), source),
	})
	m.rebuildView()
	return m
}

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = max(msg.Width-2, 10)
		m.resizeViewport()
		m.textarea.SetWidth(max(msg.Width-8, 10))
		m.rebuildView()

	case tea.KeyMsg:
		if m.menu.active {
			return m.updateMenu(msg)
		}

		switch msg.Type {
		case tea.KeyPgUp:
			m.viewport.HalfViewUp()
			return m, nil
		case tea.KeyPgDown:
			m.viewport.HalfViewDown()
			return m, nil
		case tea.KeyEsc:
			m.cancel()
			return m, tea.Quit
		case tea.KeyCtrlC:
			if m.busy {
				// The turn still completes with a template reply.
				m.cancel()
				m.ctx, m.cancel = context.WithCancel(context.Background())
				return m, nil
			}
			m.cancel()
			return m, tea.Quit
		case tea.KeyTab:
			if m.busy || m.textarea.Value() != "" {
				break
			}
			m.openMenu(NewModeMenu(m.session.Catalog()))
			return m, nil
		case tea.KeyEnter:
			if msg.Alt {
				break
			}
			return m.send()
		}

		if msg.String() == "/" && m.textarea.Value() == "" && !m.busy {
			m.openMenu(NewCommandMenu())
			var cmd tea.Cmd
			m.menu, cmd = m.menu.Update(msg)
			return m, cmd
		}

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case turnDoneMsg:
		m.busy = false
		m.messages = append(m.messages, chatMessage{
			role:    "assistant",
			title:   msg.title,
			content: msg.reply.Text,
			source:  msg.reply.Source,
		})
		if m.session.TakeRefocus() {
			cmds = append(cmds, m.textarea.Focus())
		}
		m.rebuildView()
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.rebuildView()
		return m, cmd
	}

	if !m.menu.active {
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// send dispatches the input line as a command or starts a turn.
func (m Model) send() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.textarea.Value())
	if m.busy {
		if text != "" {
			m.messages = append(m.messages, chatMessage{role: "system", content: "  Still thinking... (Ctrl+C to stop waiting)"})
			m.rebuildView()
		}
		return m, nil
	}
	if text == "" {
		return m, nil
	}
	m.textarea.Reset()

	if commands.IsCommand(text) {
		return m.runCommand(text)
	}

	m.messages = append(m.messages, chatMessage{role: "user", content: text})
	m.busy = true
	m.rebuildView()
	return m, tea.Batch(m.runTurn(text), m.spinner.Tick)
}

// runTurn handles the message off the render loop. The session is not
// touched by Update while busy.
func (m Model) runTurn(text string) tea.Cmd {
	ctx, s := m.ctx, m.session
	title := s.Mode().Title()
	return func() tea.Msg {
		return turnDoneMsg{reply: s.HandleTurn(ctx, text), title: title}
	}
}

func (m Model) runCommand(text string) (tea.Model, tea.Cmd) {
	res := m.dispatcher.Dispatch(text)
	if res.Cleared {
		m.messages = nil
	}
	role := "system"
	if res.Kind == commands.KindError {
		role = "error"
	}
	m.messages = append(m.messages, chatMessage{role: role, content: res.Output})
	m.session.TakeRefocus()
	m.rebuildView()
	if res.Quit {
		m.cancel()
		return m, tea.Quit
	}
	return m, m.textarea.Focus()
}

func (m *Model) openMenu(menu MenuModel) {
	m.menu = menu
	m.menu.open()
	m.textarea.Blur()
	m.resizeViewport()
	m.rebuildView()
}

func (m *Model) closeMenu() tea.Cmd {
	m.menu.active = false
	m.resizeViewport()
	m.rebuildView()
	return m.textarea.Focus()
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.menu, cmd = m.menu.Update(msg)
	if !m.menu.active {
		return m, m.closeMenu()
	}
	if msg.Type != tea.KeyEnter {
		return m, cmd
	}

	value, ok := m.menu.selected()
	menuType := m.menu.menuType
	focus := m.closeMenu()
	if !ok {
		return m, focus
	}

	switch menuType {
	case MenuModes:
		return m.runCommand("/mode " + value)
	case MenuSlashCommands:
		if value == "/quit" {
			m.cancel()
			return m, tea.Quit
		}
		m.textarea.SetValue(value)
	}
	return m, focus
}

func (m *Model) resizeViewport() {
	if m.height == 0 {
		return
	}
	h := m.height - headerH - inputH - footerH
	if m.menu.active {
		h -= menuH
	}
	m.viewport.Height = max(h, 3)
}

func (m *Model) rebuildView() {
	var sb strings.Builder
	for _, msg := range m.messages {
		switch msg.role {
		case "user":
			sb.WriteString(m.renderUserBlock(msg.content))
		case "assistant":
			sb.WriteString(m.renderAssistantBlock(msg))
		case "system":
			sb.WriteString(SystemMsgStyle.Render(msg.content) + "\n\n")
		case "error":
			sb.WriteString(ErrorStyle.Render("  "+msg.content) + "\n\n")
		}
	}
	if m.busy {
		sb.WriteString(m.spinner.View() + HelpStyle.Render(" "+m.session.Mode().Label+" is typing") + "\n")
	}

	wasAtBottom := m.viewport.AtBottom()
	m.viewport.SetContent(sb.String())
	if wasAtBottom || len(m.messages) <= 1 {
		m.viewport.GotoBottom()
	}
}

func (m *Model) renderUserBlock(content string) string {
	return UserBlockStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			RoleHeaderStyle.Foreground(Mint).Render("You"),
			UserMsgStyle.Render(content),
		),
	) + "\n"
}

func (m *Model) renderAssistantBlock(msg chatMessage) string {
	body := msg.content
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(msg.content); err == nil {
			body = rendered
		}
	}
	body = strings.TrimSpace(body)

	header := RoleHeaderStyle.Foreground(Rose).Render(msg.title)
	if msg.source == reply.SourceTemplate && m.session.Online() {
		header += HelpStyle.Render("  (offline reply)")
	}
	return AssistantBlockStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left, header, AssistantMsgStyle.Render(body)),
	) + "\n"
}

func (m Model) View() string {
	source := "offline"
	if m.session.Online() {
		source = "online"
	}
	header := HeaderStyle.Width(max(m.width, 40)).Render(
		lipgloss.JoinHorizontal(lipgloss.Center,
			TitleStyle.Render(Banner),
			"  ",
			ModeBadgeStyle.Render(m.session.Mode().Title()),
			" ",
			SourceBadgeStyle.Render(source),
		),
	)

	prompt := lipgloss.NewStyle().Foreground(Rose).Bold(true).Render("> ")
	box := InputBoxStyle
	if m.busy {
		prompt = lipgloss.NewStyle().Foreground(Slate).Bold(true).Render("… ")
		box = InputBusyStyle
	}
	inputBox := box.Width(max(m.width-4, 20)).Render(
		lipgloss.JoinHorizontal(lipgloss.Top, prompt, m.textarea.View()),
	)

	help := HelpStyle.Render("Enter: send  •  Tab: modes  •  /: commands  •  Esc: quit")

	mainView := lipgloss.JoinVertical(lipgloss.Left,
		header,
		ViewportStyle.Render(m.viewport.View()),
		inputBox,
		lipgloss.NewStyle().PaddingLeft(2).Render(help),
	)

	if m.menu.active {
		return lipgloss.JoinVertical(lipgloss.Left, mainView, m.menu.View())
	}
	return mainView
}

// Run starts the full-screen chat UI and blocks until it exits.
func Run(s *session.Session) error {
	p := tea.NewProgram(NewModel(s), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
