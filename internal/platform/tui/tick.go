// Package tui is the terminal front end: a Bubble Tea model that drives the
// climber simulation, draws it into a character screen and serves it over SSH.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/lonely-pixel/internal/sim"
)

// TickMsg is sent to trigger a simulation step.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// stepsPerTick converts the front-end tick rate to nominal simulation steps.
func stepsPerTick(tickRate int) float64 {
	if tickRate <= 0 {
		return 1
	}
	return float64(sim.StepsPerSecond) / float64(tickRate)
}
