package sim

import (
	"math"

	"github.com/vovakirdan/lonely-pixel/internal/storage"
)

// GhostEvery is the sampling period of the ghost trail, in frames.
const GhostEvery = 5

// GhostRecorder accumulates the current run's trail.
type GhostRecorder struct {
	points []storage.GhostPoint
}

// Sample appends the player's position relative to score on every
// GhostEvery-th frame.
func (g *GhostRecorder) Sample(frame int, x, y, score float64) {
	if frame%GhostEvery != 0 {
		return
	}
	g.points = append(g.points, storage.GhostPoint{
		X: int(math.Round(x)),
		Y: int(math.Round(y - score)),
	})
}

// Points returns the recorded trail.
func (g *GhostRecorder) Points() []storage.GhostPoint {
	return g.points
}

// Reset clears the trail.
func (g *GhostRecorder) Reset() {
	g.points = nil
}

// GhostPlayback replays a stored trail in the current scroll frame.
type GhostPlayback struct {
	points []storage.GhostPoint
}

// NewGhostPlayback wraps a stored trail. A nil trail never yields a position.
func NewGhostPlayback(points []storage.GhostPoint) *GhostPlayback {
	return &GhostPlayback{points: points}
}

// At returns the ghost's screen position at frame for the given score.
func (g *GhostPlayback) At(frame int, score float64) (x, y float64, ok bool) {
	if g == nil {
		return 0, 0, false
	}
	i := frame / GhostEvery
	if i < 0 || i >= len(g.points) {
		return 0, 0, false
	}
	p := g.points[i]
	return float64(p.X), float64(p.Y) + score, true
}
