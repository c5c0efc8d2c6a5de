package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/lonely-pixel/internal/config"
	"github.com/vovakirdan/lonely-pixel/internal/core"
	"github.com/vovakirdan/lonely-pixel/internal/multiplayer"
	"github.com/vovakirdan/lonely-pixel/internal/sim"
	"github.com/vovakirdan/lonely-pixel/internal/storage"
)

func newTestModel(t *testing.T, opts Options) Model {
	t.Helper()
	opts.Runtime = core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 12345}
	opts.Game = config.DefaultGameConfig()
	if opts.Store == nil {
		opts.Store = storage.NewMemStore()
	}
	return NewModel(opts)
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update() returned %T, expected Model", next)
	}
	return out
}

func TestModelStartsRun(t *testing.T) {
	m := newTestModel(t, Options{})
	if m.mode != modeMenu {
		t.Fatalf("initial mode = %v, expected menu", m.mode)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = send(t, m, TickMsg(time.Now()))

	if m.mode != modePlay {
		t.Errorf("mode after enter and tick = %v, expected play", m.mode)
	}
	if m.sim.Phase() != sim.PhaseRunning {
		t.Errorf("Phase() = %v, expected running", m.sim.Phase())
	}
	if m.View() == "" {
		t.Error("View() is empty during play")
	}
}

func TestModelPauseFreezesWorld(t *testing.T) {
	m := newTestModel(t, Options{})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	now := time.Now()
	m = send(t, m, TickMsg(now))

	m = send(t, m, runeKey('p'))
	if !m.paused {
		t.Fatal("p did not pause a single-player run")
	}
	frames := m.sim.State().Frames
	m = send(t, m, TickMsg(now.Add(100*time.Millisecond)))
	if got := m.sim.State().Frames; got != frames {
		t.Errorf("Frames while paused = %d, expected %d", got, frames)
	}

	m.View()
	top := m.screen.Height()/2 - 1
	if row := screenRow(m.screen, top-1); strings.TrimSpace(row) != "" {
		t.Errorf("row above the pause prompt = %q, expected blank", row)
	}
	if row := screenRow(m.screen, top); !strings.Contains(row, "PAUSED") {
		t.Errorf("pause prompt row = %q, expected PAUSED", row)
	}

	m = send(t, m, runeKey('p'))
	if m.paused {
		t.Error("second p did not resume")
	}
}

func TestModelQuitRecordsRun(t *testing.T) {
	store := storage.NewMemStore()
	m := newTestModel(t, Options{Store: store})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = send(t, m, TickMsg(time.Now()))

	m = send(t, m, runeKey('q'))
	if !m.quitting {
		t.Fatal("q did not quit")
	}
	if m.View() != "" {
		t.Errorf("View() after quit = %q, expected empty", m.View())
	}

	fame, err := store.Fame()
	if err != nil {
		t.Fatalf("Fame() error = %v", err)
	}
	if len(fame) != 1 {
		t.Errorf("len(Fame()) = %d, expected 1 after quitting mid-run", len(fame))
	}
}

func TestModelSkinCycleSkipsSelectionWhenLocked(t *testing.T) {
	store := storage.NewMemStore()
	m := newTestModel(t, Options{Store: store})

	m = send(t, m, runeKey(']'))
	if m.skin != 1 {
		t.Errorf("skin cursor = %d, expected 1", m.skin)
	}
	if m.err != "" {
		t.Errorf("err = %q, expected no error for a locked skin", m.err)
	}
	profile, _ := store.LoadProfile()
	if profile.Skin != 0 {
		t.Errorf("saved skin = %d, expected 0 while skin 1 is locked", profile.Skin)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.err == "" {
		t.Error("starting with a locked skin should report an error")
	}

	m = send(t, m, runeKey('['))
	if m.skin != 0 {
		t.Errorf("skin cursor = %d, expected 0", m.skin)
	}
}

func TestModelBoostNeedsShards(t *testing.T) {
	m := newTestModel(t, Options{})
	m = send(t, m, runeKey('x'))
	if m.err == "" {
		t.Error("buying a boost with no shards should report an error")
	}
}

func TestModelScoresRoundTrip(t *testing.T) {
	m := newTestModel(t, Options{})

	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.mode != modeScores {
		t.Fatalf("mode after tab = %v, expected scores", m.mode)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeMenu {
		t.Errorf("mode after esc = %v, expected menu", m.mode)
	}
	if m.quitting {
		t.Error("esc on the scoreboard should not quit")
	}
}

func TestModelGuestCodeEntry(t *testing.T) {
	cfg := config.DefaultGameConfig()
	session := multiplayer.NewSession(multiplayer.NewLoopback(), cfg.Network, "guest", nil)
	m := newTestModel(t, Options{Session: session, Role: RoleGuest})

	if m.mode != modeLobby || m.lobby.state != lobbyEnterCode {
		t.Fatalf("guest without a code: mode %v state %v, expected lobby code entry", m.mode, m.lobby.state)
	}

	// Letters that are also bindings go to the code.
	for _, r := range "qa3-" {
		m = send(t, m, runeKey(r))
	}
	if m.quitting {
		t.Fatal("typing q in the code field quit the program")
	}
	if m.lobby.input != "QA3" {
		t.Errorf("input = %q, expected %q", m.lobby.input, "QA3")
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	if m.lobby.input != "QA" {
		t.Errorf("input after backspace = %q, expected %q", m.lobby.input, "QA")
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.lobby.state != lobbyEnterCode || m.lobby.err == "" {
		t.Errorf("short code: state %v err %q, expected code entry with an error", m.lobby.state, m.lobby.err)
	}
}

func TestLobbyHostWaitsForGuest(t *testing.T) {
	cfg := config.DefaultGameConfig()
	session := multiplayer.NewSession(multiplayer.NewLoopback(), cfg.Network, "host", nil)
	t.Cleanup(func() { session.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	code, err := session.Host(ctx)
	if err != nil {
		t.Fatalf("Host() error = %v", err)
	}

	l := newLobby(RoleHost, session, "")
	l, _ = l.update(ctx, hostedMsg{code: code})
	if l.state != lobbyWaiting {
		t.Errorf("state = %v, expected waiting", l.state)
	}
	if l.code != code {
		t.Errorf("code = %q, expected %q", l.code, code)
	}
}

func TestLobbyHostFailure(t *testing.T) {
	l := newLobby(RoleHost, nil, "")
	l, _ = l.update(context.Background(), hostedMsg{err: context.DeadlineExceeded})
	if l.state != lobbyFailed || l.err == "" {
		t.Errorf("state %v err %q, expected failed with a reason", l.state, l.err)
	}
}

func TestSessionStoreSharesFame(t *testing.T) {
	shared, err := storage.Open(filepath.Join(t.TempDir(), "pixel.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer shared.Close()

	alice := newSessionStore(shared, "alice")
	bob := newSessionStore(shared, "bob")

	if err := alice.AddFame(storage.FameEntry{Meters: 120, Skin: "Unit 734", PlayedOn: "2026-10-16"}); err != nil {
		t.Fatalf("AddFame() error = %v", err)
	}
	if err := alice.SaveBest(120); err != nil {
		t.Fatalf("SaveBest() error = %v", err)
	}

	fame, err := bob.Fame()
	if err != nil {
		t.Fatalf("Fame() error = %v", err)
	}
	if len(fame) != 1 || fame[0].Meters != 120 {
		t.Errorf("bob's Fame() = %+v, expected alice's 120m run", fame)
	}

	profile, _ := bob.LoadProfile()
	if profile.Best != 0 {
		t.Errorf("bob's Best = %d, expected 0; profiles are per session", profile.Best)
	}
	if profile.Name != "bob" {
		t.Errorf("bob's Name = %q, expected %q", profile.Name, "bob")
	}
}
