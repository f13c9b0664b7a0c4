package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"leettrack/internal/llm"
	"leettrack/internal/mentor"
)

type replyMsg struct{ reply mentor.ChatMessage }

type sendErrMsg struct{ err error }

// ChatModel is the private mentor chat UI.
type ChatModel struct {
	manager *mentor.Manager

	input    textinput.Model
	view     viewport.Model
	spin     spinner.Model
	width    int
	height   int
	ready    bool
	thinking bool
	notice   string
}

// NewChatModel builds the mentor chat UI over an existing session
// manager.
func NewChatModel(m *mentor.Manager) *ChatModel {
	input := textinput.New()
	input.Placeholder = "Ask the mentor anything..."
	input.Focus()
	input.CharLimit = 2000

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return &ChatModel{manager: m, input: input, spin: spin}
}

// Init implements tea.Model.
func (m *ChatModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		viewHeight := msg.Height - 4
		if viewHeight < 1 {
			viewHeight = 1
		}
		if !m.ready {
			m.view = viewport.New(msg.Width, viewHeight)
			m.ready = true
		} else {
			m.view.Width = msg.Width
			m.view.Height = viewHeight
		}
		m.input.Width = msg.Width - 4
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyCtrlN:
			if _, err := m.manager.CreateSession(); err != nil {
				m.notice = err.Error()
			} else {
				m.notice = ""
			}
			m.refresh()
			return m, nil
		case tea.KeyCtrlL:
			if m.thinking {
				return m, nil
			}
			if err := m.manager.ClearHistory(); err != nil {
				m.notice = err.Error()
			} else {
				m.notice = ""
			}
			m.refresh()
			return m, nil
		case tea.KeyEnter:
			return m, m.submit()
		}

	case replyMsg:
		m.thinking = false
		m.notice = ""
		m.refresh()
		return m, nil

	case sendErrMsg:
		m.thinking = false
		m.notice = llm.UserMessage(msg.err)
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if !m.thinking {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		m.refresh()
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *ChatModel) submit() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.thinking {
		return nil
	}
	m.input.Reset()
	m.thinking = true
	m.notice = ""

	send := func() tea.Msg {
		reply, err := m.manager.SendMessage(context.Background(), text)
		if err != nil {
			return sendErrMsg{err: err}
		}
		return replyMsg{reply: reply}
	}

	// The optimistic user turn is already in the manager; show it now.
	m.refresh()
	return tea.Batch(m.spin.Tick, send)
}

func (m *ChatModel) refresh() {
	if !m.ready {
		return
	}
	m.view.SetContent(m.renderMessages())
	m.view.GotoBottom()
}

func (m *ChatModel) renderMessages() string {
	msgs := m.manager.ActiveMessages()
	if len(msgs) == 0 {
		return pendingStyle.Render("No messages yet. Ask about a problem, a company, or a topic.")
	}

	var b strings.Builder
	for _, msg := range msgs {
		name := userNameStyle.Render("You")
		if msg.Role == llm.RoleAssistant {
			name = aiNameStyle.Render("Mentor")
		}
		b.WriteString(name + "\n")
		b.WriteString(bodyStyle.Render(msg.Content) + "\n\n")
	}
	if m.thinking {
		b.WriteString(pendingStyle.Render(m.spin.View() + " thinking..."))
	}
	return b.String()
}

// View implements tea.Model.
func (m *ChatModel) View() string {
	if !m.ready {
		return "loading..."
	}

	title := titleStyle.Render("Mentor Chat")
	sessions := m.manager.Sessions()
	for _, s := range sessions {
		if s.ID == m.manager.ActiveID() {
			title += footerStyle.Render(fmt.Sprintf("  %s (%d sessions)", s.Title, len(sessions)))
			break
		}
	}

	footer := footerStyle.Render("enter send | ctrl+n new session | ctrl+l clear session | esc quit")
	if m.notice != "" {
		footer = errorStyle.Render(m.notice)
	}

	return title + "\n" + m.view.View() + "\n" + m.input.View() + "\n" + footer
}
