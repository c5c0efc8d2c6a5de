package tui

import (
	"fmt"
	"math"

	"github.com/vovakirdan/lonely-pixel/internal/core"
	"github.com/vovakirdan/lonely-pixel/internal/sim"
)

// Viewport projects world units onto screen cells. The whole world width
// always fits the screen; rows are scaled independently.
type Viewport struct {
	cols, rows int
	sx, sy     float64 // Cells per world unit
}

// NewViewport fits a world of w×h units into cols×rows cells.
func NewViewport(cols, rows int, w, h float64) Viewport {
	cols = max(cols, 1)
	rows = max(rows, 1)
	return Viewport{
		cols: cols,
		rows: rows,
		sx:   float64(cols) / w,
		sy:   float64(rows) / h,
	}
}

// Cell returns the cell containing world point (x, y).
func (v Viewport) Cell(x, y float64) (int, int) {
	return int(math.Floor(x * v.sx)), int(math.Floor(y * v.sy))
}

// Span returns the number of cells covered by a world width, at least one.
func (v Viewport) Span(w float64) int {
	return max(1, int(math.Round(w*v.sx)))
}

// DrawWorld renders the simulation's entities into the screen.
func DrawWorld(scr *core.Screen, s *sim.Simulation) {
	cfg := s.Config().World
	v := NewViewport(scr.Width(), scr.Height(), cfg.Width, cfg.Height)
	scr.Clear()

	biome := s.Biome()
	for _, p := range s.Platforms() {
		x, y := v.Cell(p.X, p.Y)
		glyph := '='
		if p.VX != 0 {
			glyph = '~'
		}
		scr.DrawHLine(x, y, v.Span(p.W), glyph, biome.Platform)
	}

	for _, pk := range s.Pickups() {
		x, y := v.Cell(pk.Center())
		if pk.Currency {
			scr.SetColored(x, y, '◆', core.ColorBrightCyan)
		} else {
			scr.SetColored(x, y, '?', core.ColorBrightYellow)
		}
	}

	if gx, gy, ok := s.GhostAt(); ok {
		x, y := v.Cell(gx, gy)
		scr.SetColored(x, y, '░', core.ColorDarkGray)
	}

	for _, e := range s.Enemies() {
		drawEnemy(scr, v, e)
	}

	for _, pr := range s.Projectiles() {
		x, y := v.Cell(pr.Center())
		if pr.Kind == sim.ProjectileMeteor {
			scr.SetColored(x, y, '@', core.ColorOrange)
		} else {
			scr.SetColored(x, y, '•', core.ColorBrightRed)
		}
	}

	if r, ok := s.Remote(); ok {
		drawPlayer(scr, v, r)
	}
	drawPlayer(scr, v, s.Player())
}

func drawEnemy(scr *core.Screen, v Viewport, e *sim.Enemy) {
	x, y := v.Cell(e.X, e.Y)
	switch e.Kind {
	case sim.EnemyDrone:
		scr.DrawTextColored(x, y, "<v>", core.ColorRed)
	case sim.EnemyShooter:
		scr.DrawTextColored(x, y, "<W>", core.ColorOrange)
	case sim.EnemyBoss:
		w := max(v.Span(e.W), 5)
		h := max(int(math.Round(e.H*v.sy)), 3)
		scr.DrawBox(x, y, w, h, core.ColorBrightMagenta)
		scr.DrawTextColored(x+1, y+1, fmt.Sprintf("%d", e.HP), core.ColorBrightWhite)
	}
}

func drawPlayer(scr *core.Screen, v Viewport, p sim.Player) {
	x, y := v.Cell(p.X, p.Y)
	if p.Dead {
		scr.SetColored(x, y, 'x', core.ColorGray)
		return
	}
	color := sim.SkinAt(p.Skin).Color
	glyph := '█'
	if p.Power != sim.PowerNone {
		color = p.Power.Spec().Color
		if p.Has(sim.PowerShield) {
			glyph = '◙'
		}
	}
	scr.SetColored(x, y, glyph, color)
}

// hudLine summarizes the run in one line.
func hudLine(s *sim.Simulation) string {
	st := s.State()
	line := fmt.Sprintf("%dm  BEST %dm  ◆ %d  LOOP %d  %s", s.Meters(), st.Best, st.Shards, st.Loops, s.Biome().Name)
	p := s.Player()
	if p.Power != sim.PowerNone {
		line += fmt.Sprintf("  [%s %ds]", p.Power, int(math.Ceil(p.PowerTimer/sim.StepsPerSecond)))
	}
	if st.Multiplayer {
		partner := s.RemoteName()
		if partner == "" {
			partner = "partner"
		}
		if r, ok := s.Remote(); ok && r.Dead {
			partner += " (down)"
		}
		line += "  with " + partner
	}
	return line
}
