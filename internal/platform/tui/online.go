package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/lonely-pixel/internal/core"
	"github.com/vovakirdan/lonely-pixel/internal/multiplayer"
)

// lobbyState is the progress of the co-op connection.
type lobbyState int

const (
	lobbyConnecting lobbyState = iota // Opening a lobby or dialing the host
	lobbyEnterCode                    // Guest typing the join code
	lobbyWaiting                      // Host waiting for the guest
	lobbyReady                        // Handshake done
	lobbyFailed                       // Connection failed or lost
)

// hostedMsg reports the outcome of Session.Host.
type hostedMsg struct {
	code string
	err  error
}

// joinedMsg reports the outcome of Session.Join.
type joinedMsg struct {
	err error
}

// lobbyModel walks the host or guest through connecting.
type lobbyModel struct {
	role    Role
	session *multiplayer.Session
	state   lobbyState
	code    string
	input   string
	err     string
}

func newLobby(role Role, session *multiplayer.Session, code string) lobbyModel {
	l := lobbyModel{role: role, session: session, input: code}
	if role == RoleGuest && code == "" {
		l.state = lobbyEnterCode
	}
	return l
}

// connect returns the command that opens or joins a lobby, if one is due.
func (l lobbyModel) connect(ctx context.Context) tea.Cmd {
	switch {
	case l.state != lobbyConnecting:
		return nil
	case l.role == RoleHost:
		return hostCmd(ctx, l.session)
	default:
		return joinCmd(ctx, l.session, l.input)
	}
}

func hostCmd(ctx context.Context, s *multiplayer.Session) tea.Cmd {
	return func() tea.Msg {
		code, err := s.Host(ctx)
		return hostedMsg{code: code, err: err}
	}
}

func joinCmd(ctx context.Context, s *multiplayer.Session, input string) tea.Cmd {
	return func() tea.Msg {
		return joinedMsg{err: s.Join(ctx, input)}
	}
}

// update applies a connection result.
func (l lobbyModel) update(ctx context.Context, msg tea.Msg) (lobbyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case hostedMsg:
		if msg.err != nil {
			l.fail(describeConnErr(msg.err))
			return l, nil
		}
		l.code = msg.code
		l.state = lobbyWaiting
	case joinedMsg:
		if msg.err != nil {
			l.err = describeConnErr(msg.err)
			l.state = lobbyEnterCode
			if errors.Is(msg.err, context.Canceled) {
				l.state = lobbyFailed
			}
			return l, nil
		}
		l.err = ""
	}
	l.sync()
	return l, nil
}

// sync follows the session's connection state.
func (l *lobbyModel) sync() {
	if l.session == nil {
		return
	}
	switch l.session.State() {
	case multiplayer.StateConnected:
		l.state = lobbyReady
		l.err = ""
	case multiplayer.StateDisconnected:
		if l.state == lobbyReady || l.state == lobbyWaiting {
			l.fail("partner disconnected")
		}
	}
}

// fail moves the lobby to the failed state with a reason.
func (l *lobbyModel) fail(reason string) {
	l.state = lobbyFailed
	l.err = reason
}

// describeConnErr turns a connection error into a short player-facing reason.
func describeConnErr(err error) string {
	var ce *multiplayer.ConnError
	switch {
	case errors.Is(err, multiplayer.ErrInvalidCode):
		return "codes are 6 letters or digits"
	case errors.As(err, &ce):
		return ce.Error()
	}
	return err.Error()
}

// handleLobbyKey processes keys while connecting or between co-op runs.
func (m Model) handleLobbyKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	l := &m.lobby
	if l.state == lobbyEnterCode {
		return m.handleCodeKey(msg)
	}

	switch m.keys.Action(msg) {
	case core.ActionQuit, core.ActionBack:
		return m.quit()
	case core.ActionConfirm:
		switch {
		case l.state == lobbyReady && l.role == RoleHost:
			if _, err := m.sim.HostStart(); err != nil {
				m.err = err.Error()
			}
		case l.state == lobbyFailed:
			return m.retry()
		}
	}
	return m, nil
}

// retry starts a fresh connection attempt after a failure.
func (m Model) retry() (tea.Model, tea.Cmd) {
	if err := m.opts.Session.Close(); err != nil {
		m.opts.Logger.Debug("close session", "err", err)
	}
	m.err = ""
	m.lobby = newLobby(m.lobby.role, m.lobby.session, "")
	return m, m.lobby.connect(m.ctx)
}

// handleCodeKey edits the join code. Every printable key goes to the code,
// so only esc and enter act as commands here.
func (m Model) handleCodeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	l := &m.lobby
	switch msg.Type {
	case tea.KeyEsc:
		return m.quit()
	case tea.KeyEnter:
		code, err := multiplayer.NormalizeCode(l.input)
		if err != nil {
			l.err = describeConnErr(err)
			return m, nil
		}
		l.input = code
		l.err = ""
		l.state = lobbyConnecting
		return m, l.connect(m.ctx)
	case tea.KeyBackspace:
		if l.input != "" {
			l.input = l.input[:len(l.input)-1]
		}
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			if len(l.input) >= multiplayer.CodeLength {
				break
			}
			c := strings.ToUpper(string(r))
			if (c[0] >= 'A' && c[0] <= 'Z') || (c[0] >= '0' && c[0] <= '9') {
				l.input += c
			}
		}
	}
	return m, nil
}

// view draws the lobby for the current state.
func (l lobbyModel) view(width, height int, summary string) string {
	var b strings.Builder

	title := "HOST CO-OP"
	if l.role == RoleGuest {
		title = "JOIN CO-OP"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	switch l.state {
	case lobbyConnecting:
		if l.role == RoleHost {
			b.WriteString("Opening a lobby...")
		} else {
			b.WriteString(fmt.Sprintf("Joining %s...", l.input))
		}
	case lobbyEnterCode:
		display := l.input
		if len(display) < multiplayer.CodeLength {
			display += "_" + strings.Repeat(" ", multiplayer.CodeLength-1-len(l.input))
		}
		b.WriteString("Enter the game code:\n\n")
		b.WriteString(panelStyle.Render(display))
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render("enter: connect  esc: quit"))
	case lobbyWaiting:
		b.WriteString("Share this code with your partner:\n\n")
		b.WriteString(panelStyle.Render(hudStyle.Render(l.code)))
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render("waiting for partner...  esc: quit"))
	case lobbyReady:
		partner := l.session.PeerName()
		if partner == "" {
			partner = "partner"
		}
		b.WriteString(fmt.Sprintf("Connected with %s", partner))
		b.WriteString("\n\n")
		if l.role == RoleHost {
			b.WriteString(dimStyle.Render("enter: start run  esc: quit"))
		} else {
			b.WriteString(dimStyle.Render("waiting for the host to start...  esc: quit"))
		}
	case lobbyFailed:
		b.WriteString(dimStyle.Render("enter: try again  esc: quit"))
	}

	if l.err != "" {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render(l.err))
	}
	if summary != "" {
		b.WriteString("\n\n")
		b.WriteString(summary)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Align(lipgloss.Center).Render(b.String()))
}
