package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"leettrack/internal/room"
)

type roomUpdateMsg struct{}

type roomSendErrMsg struct{ err error }

type roomSentMsg struct{}

// RoomModel is the shared-room chat UI. It renders the client's message
// cache and re-renders on every sync update.
type RoomModel struct {
	client   *room.Client
	roomName string
	self     room.Identity

	input   textinput.Model
	view    viewport.Model
	spin    spinner.Model
	ready   bool
	sending bool
	notice  string
}

// NewRoomModel builds the room chat UI over a started client.
func NewRoomModel(c *room.Client, roomName string, self room.Identity) *RoomModel {
	input := textinput.New()
	input.Placeholder = "Message the room (@mentor to ask the AI)..."
	input.Focus()
	input.CharLimit = 2000

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return &RoomModel{client: c, roomName: roomName, self: self, input: input, spin: spin}
}

// Init implements tea.Model.
func (m *RoomModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForUpdate(), m.spin.Tick)
}

// waitForUpdate blocks on the client's coalesced update signal.
func (m *RoomModel) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		<-m.client.Updates()
		return roomUpdateMsg{}
	}
}

// Update implements tea.Model.
func (m *RoomModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
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
			m.client.Stop()
			return m, tea.Quit
		case tea.KeyEnter:
			return m, m.submit()
		}

	case roomUpdateMsg:
		m.refresh()
		return m, m.waitForUpdate()

	case roomSentMsg:
		m.sending = false
		m.refresh()
		return m, nil

	case roomSendErrMsg:
		m.sending = false
		m.notice = msg.err.Error()
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		if m.client.AIPending() || m.sending {
			m.refresh()
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *RoomModel) submit() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.sending {
		return nil
	}
	m.input.Reset()
	m.sending = true
	m.notice = ""

	return func() tea.Msg {
		if err := m.client.SendMessage(context.Background(), text); err != nil {
			return roomSendErrMsg{err: err}
		}
		return roomSentMsg{}
	}
}

func (m *RoomModel) refresh() {
	if !m.ready {
		return
	}
	m.view.SetContent(m.renderMessages())
	m.view.GotoBottom()
}

func (m *RoomModel) renderMessages() string {
	msgs := m.client.Messages()
	if len(msgs) == 0 {
		return pendingStyle.Render("No messages yet. Say hello, or mention @mentor for AI help.")
	}

	var b strings.Builder
	for _, msg := range msgs {
		name := peerNameStyle.Render(msg.Username)
		switch {
		case msg.IsAI:
			name = aiNameStyle.Render(msg.Username)
		case msg.UserID == m.self.UserID:
			name = userNameStyle.Render("You")
		}
		stamp := footerStyle.Render(msg.CreatedAt.Local().Format(time.Kitchen))
		if msg.ID.IsLocal() {
			stamp = pendingStyle.Render("sending...")
		}
		b.WriteString(name + " " + stamp + "\n")
		b.WriteString(bodyStyle.Render(msg.Content) + "\n\n")
	}
	if m.client.AIPending() {
		b.WriteString(pendingStyle.Render(m.spin.View() + " mentor is thinking..."))
	}
	return b.String()
}

// View implements tea.Model.
func (m *RoomModel) View() string {
	if !m.ready {
		return "loading..."
	}

	title := titleStyle.Render("Room: " + m.roomName)
	footer := footerStyle.Render("enter send | esc leave")
	if m.notice != "" {
		footer = errorStyle.Render(m.notice)
	}
	return title + "\n" + m.view.View() + "\n" + m.input.View() + "\n" + footer
}
