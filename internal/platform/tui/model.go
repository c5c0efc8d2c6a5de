package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/lonely-pixel/internal/config"
	"github.com/vovakirdan/lonely-pixel/internal/core"
	"github.com/vovakirdan/lonely-pixel/internal/multiplayer"
	"github.com/vovakirdan/lonely-pixel/internal/sim"
	"github.com/vovakirdan/lonely-pixel/internal/storage"
)

// Role is how this terminal takes part in a run.
type Role int

const (
	RoleOffline Role = iota
	RoleHost
	RoleGuest
)

type mode int

const (
	modeMenu mode = iota
	modeLobby
	modePlay
	modeScores
)

const (
	// Steps a direction stays held after its last key press. Terminal
	// auto-repeat usually fires every 30-50ms.
	holdSteps = 12
	// Steps a toast stays on screen.
	toastSteps = 3 * sim.StepsPerSecond
	// Rows taken by the HUD, toast and help lines.
	chromeRows = 3
)

// Options configures a Model.
type Options struct {
	Runtime  core.RuntimeConfig
	Game     config.GameConfig
	Store    sim.Store
	Session  *multiplayer.Session // Required for RoleHost and RoleGuest
	Role     Role
	JoinCode string // Guest only; empty asks for it
	Logger   *log.Logger
}

type toast struct {
	text string
	ttl  float64
}

// Model is the Bubble Tea model for the climber.
type Model struct {
	opts     Options
	sim      *sim.Simulation
	screen   *core.Screen
	intents  *core.IntentBuffer
	keys     KeyMap
	help     help.Model
	lobby    lobbyModel
	scores   ScoreboardModel
	mode     mode
	width    int
	height   int
	toasts   []toast
	skin     int
	paused   bool
	summary  string
	err      string
	lastTick time.Time
	ctx      context.Context
	cancel   context.CancelFunc
	quitting bool
}

// NewModel creates a model around a fresh simulation.
func NewModel(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Runtime.TickRate <= 0 {
		opts.Runtime.TickRate = core.DefaultConfig().TickRate
	}

	if opts.Store == nil {
		opts.Store = storage.NewMemStore()
	}
	fame, _ := opts.Store.(fameSource)

	// A nil *Session stored in the interface would not compare equal to nil.
	var link sim.Link
	if opts.Session != nil {
		link = opts.Session
	}
	s := sim.New(opts.Game, opts.Store, link, opts.Logger)

	ctx, cancel := context.WithCancel(context.Background())
	m := Model{
		opts:    opts,
		sim:     s,
		screen:  core.NewScreen(opts.Runtime.ScreenW, max(opts.Runtime.ScreenH-chromeRows, 1)),
		intents: core.NewIntentBuffer(holdSteps, opts.Game.Physics.JumpBufferSteps),
		keys:    DefaultKeyMap(),
		help:    help.New(),
		scores:  NewScoreboardModel(fame),
		width:   opts.Runtime.ScreenW,
		height:  opts.Runtime.ScreenH,
		skin:    s.Skin(),
		ctx:     ctx,
		cancel:  cancel,
	}
	if opts.Role != RoleOffline && opts.Session != nil {
		m.mode = modeLobby
		m.lobby = newLobby(opts.Role, opts.Session, opts.JoinCode)
	}
	return m
}

// Init starts the tick loop and, online, the connection attempt.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.opts.Runtime.TickRate)}
	if m.mode == modeLobby {
		cmds = append(cmds, m.lobby.connect(m.ctx))
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.screen.Resize(msg.Width, max(msg.Height-chromeRows, 1))
		m.help.Width = msg.Width
		m.scores.resize(msg.Width, msg.Height)
		return m, nil

	case hostedMsg, joinedMsg:
		var cmd tea.Cmd
		m.lobby, cmd = m.lobby.update(m.ctx, msg)
		return m, cmd

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleTick advances the simulation by the wall time since the last tick.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}

	dt := stepsPerTick(m.opts.Runtime.TickRate)
	if !m.lastTick.IsZero() {
		dt = now.Sub(m.lastTick).Seconds() * sim.StepsPerSecond
	}
	m.lastTick = now

	if m.paused {
		return m, tickCmd(m.opts.Runtime.TickRate)
	}
	res := m.sim.Step(m.intents.Snapshot(), dt)
	if res.JumpConsumed {
		m.intents.ConsumeJump()
	}
	m.intents.Tick(dt)
	m.ageToasts(dt)

	for _, e := range res.Events {
		m.handleEvent(e)
	}
	if m.mode == modeLobby {
		m.lobby.sync()
	}

	return m, tickCmd(m.opts.Runtime.TickRate)
}

func (m *Model) handleEvent(e sim.Event) {
	switch e.Kind {
	case sim.EventRunStarted:
		m.mode = modePlay
		m.paused = false
		m.summary = ""
		m.err = ""
		m.toasts = nil
		m.intents.Reset()
	case sim.EventStory, sim.EventLoopSecured, sim.EventAchievement:
		m.pushToast(e.Text)
	case sim.EventNewBest:
		m.pushToast("NEW BEST!")
	case sim.EventShieldBlock:
		m.pushToast("Shield absorbed the hit")
	case sim.EventSafetyBounce:
		m.pushToast("Safety net!")
	case sim.EventRevivePrompt:
		m.pushToast("Press enter to respawn")
	case sim.EventRemoteDied:
		m.pushToast(m.partner() + " is down")
	case sim.EventRemoteRevived:
		m.pushToast(m.partner() + " is back")
	case sim.EventPeerLost:
		m.err = "connection lost"
		if e.Text != "" {
			m.err += ": " + e.Text
		}
		m.lobby.fail(m.err)
	case sim.EventGameOver:
		st := m.sim.State()
		m.summary = fmt.Sprintf("Reached %dm", st.MaxMeters)
		if st.NewBest {
			m.summary += " (new best)"
		}
		m.paused = false
		m.mode = modeMenu
		if m.opts.Role != RoleOffline {
			m.mode = modeLobby
			m.lobby.sync()
		}
		m.scores.reload()
	}
}

func (m *Model) pushToast(text string) {
	m.toasts = append(m.toasts, toast{text: text, ttl: toastSteps})
	if len(m.toasts) > 3 {
		m.toasts = m.toasts[len(m.toasts)-3:]
	}
}

func (m *Model) ageToasts(dt float64) {
	live := m.toasts[:0]
	for _, t := range m.toasts {
		t.ttl -= dt
		if t.ttl > 0 {
			live = append(live, t)
		}
	}
	m.toasts = live
}

func (m Model) partner() string {
	if name := m.sim.RemoteName(); name != "" {
		return name
	}
	return "Partner"
}

// handleKey dispatches a key press to the active screen.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	switch m.mode {
	case modeLobby:
		return m.handleLobbyKey(msg)
	case modeScores:
		var cmd tea.Cmd
		m.scores, cmd = m.scores.update(msg)
		if m.scores.quitting {
			return m.quit()
		}
		if m.scores.goingBack {
			m.scores.goingBack = false
			m.mode = modeMenu
		}
		return m, cmd
	case modePlay:
		return m.handlePlayKey(msg)
	}
	return m.handleMenuKey(msg)
}

func (m Model) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = ""
	switch m.keys.Action(msg) {
	case core.ActionQuit:
		return m.quit()
	case core.ActionConfirm, core.ActionJump:
		if err := m.sim.Start(sim.Options{Seed: m.opts.Runtime.Seed, Skin: m.skin}); err != nil {
			m.err = err.Error()
		}
	case core.ActionLeft, core.ActionPrevSkin:
		m.cycleSkin(-1)
	case core.ActionRight, core.ActionNextSkin:
		m.cycleSkin(1)
	case core.ActionBoost:
		if err := m.sim.BuyBoost(); err != nil {
			m.err = err.Error()
		} else {
			m.pushToast("Shield ready for the next run")
		}
	default:
		if key.Matches(msg, m.keys.Scores) {
			m.scores.reload()
			m.mode = modeScores
		}
	}
	return m, nil
}

// cycleSkin moves the menu cursor and selects the skin when it is unlocked.
func (m *Model) cycleSkin(delta int) {
	m.skin = sim.WrapSkin(m.skin + delta)
	if err := m.sim.SelectSkin(m.skin); err != nil && !errors.Is(err, sim.ErrSkinLocked) {
		m.err = err.Error()
	}
}

func (m Model) handlePlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keys.Action(msg)
	st := m.sim.State()

	switch action {
	case core.ActionQuit:
		return m.quit()
	case core.ActionLeft, core.ActionRight, core.ActionJump:
		if !m.paused {
			m.intents.Press(action)
		}
	case core.ActionPause:
		// A co-op world keeps moving for the partner.
		if !st.Multiplayer && m.sim.Phase() == sim.PhaseRunning {
			m.paused = !m.paused
		}
	case core.ActionConfirm:
		switch {
		case m.sim.Phase() == sim.PhaseDying:
			if err := m.sim.Revive(); err != nil {
				m.sim.GameOver()
			}
		case st.Multiplayer && m.sim.Player().Dead:
			if err := m.sim.RespawnMultiplayer(); err != nil && !errors.Is(err, sim.ErrCannotRevive) {
				m.err = err.Error()
			}
		case m.paused:
			m.paused = false
		}
	case core.ActionBack:
		switch {
		case m.paused:
			m.paused = false
		case m.sim.Phase() == sim.PhaseDying:
			m.sim.GameOver()
		case !st.Multiplayer:
			m.paused = true
		}
	}
	return m, nil
}

// quit records an unfinished run and leaves the program.
func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.sim.Phase() != sim.PhaseIdle {
		m.sim.GameOver()
	}
	m.cancel()
	if m.opts.Session != nil {
		if err := m.opts.Session.Close(); err != nil {
			m.opts.Logger.Debug("close session", "err", err)
		}
	}
	m.quitting = true
	return m, tea.Quit
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.mode {
	case modeLobby:
		return m.lobby.view(m.width, m.height, m.summary)
	case modeScores:
		return m.scores.View()
	case modePlay:
		return m.viewPlay()
	}
	return m.viewMenu()
}

func (m Model) viewPlay() string {
	DrawWorld(m.screen, m.sim)
	m.drawOverlay()

	var b strings.Builder
	b.WriteString(hudStyle.Render(hudLine(m.sim)))
	b.WriteString("\n")
	b.WriteString(RenderScreen(m.screen))
	b.WriteString("\n")
	b.WriteString(m.toastLine())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// drawOverlay writes prompts over the world for states that wait on the player.
func (m Model) drawOverlay() {
	var lines []string
	st := m.sim.State()
	switch {
	case m.sim.Phase() == sim.PhaseDying:
		lines = []string{"SIGNAL LOST", "enter: revive  esc: give up"}
	case m.paused:
		lines = []string{"PAUSED", "p: resume  q: quit"}
	case st.Multiplayer && m.sim.Player().Dead:
		if left := m.sim.RespawnSecondsLeft(); left > 0 {
			lines = []string{fmt.Sprintf("RESPAWN IN %d", left)}
		} else {
			lines = []string{"enter: respawn"}
		}
	}
	if len(lines) == 0 {
		return
	}
	top := m.screen.Height()/2 - len(lines)/2
	m.screen.FillRect(0, top-1, m.screen.Width(), len(lines)+2, ' ', core.ColorDefault)
	for i, line := range lines {
		m.screen.DrawTextCenteredColored(top+i, line, core.ColorBrightWhite)
	}
}

func (m Model) toastLine() string {
	if m.err != "" {
		return errorStyle.Render(m.err)
	}
	texts := make([]string, 0, len(m.toasts))
	for _, t := range m.toasts {
		texts = append(texts, t.text)
	}
	return toastStyle.Render(strings.Join(texts, "  ·  "))
}

func (m Model) viewMenu() string {
	st := m.sim.State()
	skin := sim.SkinAt(m.skin)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("L O N E L Y   P I X E L"), m.width))
	b.WriteString("\n\n")

	skinLine := fmt.Sprintf("◀ %s ▶", skin.Name)
	if !sim.SkinUnlocked(m.skin, st.Best) {
		skinLine = fmt.Sprintf("◀ %s (locked: %dm) ▶", skin.Name, skin.Unlock)
	}
	swatch := colorStyles[skin.Color].Render("██")
	b.WriteString(centerText(swatch+" "+skinLine, m.width))
	b.WriteString("\n\n")

	stats := fmt.Sprintf("BEST %dm   ◆ %d   LOOPS %d", st.Best, st.Shards, st.Loops)
	if st.BoostPending {
		stats += "   SHIELD READY"
	}
	b.WriteString(centerText(hudStyle.Render(stats), m.width))
	b.WriteString("\n")

	if m.summary != "" {
		b.WriteString("\n")
		b.WriteString(centerText(m.summary, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(m.toastLine(), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.help.View(menuHelp{m.keys}), m.width))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, b.String())
}

// Run starts the Bubble Tea program with the given options.
func Run(opts Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
