package sim

// AchievementID identifies an achievement.
type AchievementID string

const (
	Achievement1K       AchievementID = "1km"
	Achievement5K       AchievementID = "5km"
	AchievementMagnet   AchievementID = "magnet"
	AchievementPacifist AchievementID = "pacifist"
	AchievementBoss     AchievementID = "boss"
	AchievementRich     AchievementID = "rich"
)

// Achievement is a named milestone with its unlock predicate.
type Achievement struct {
	ID    AchievementID
	Title string
	met   func(s *Simulation) bool
}

var achievements = []Achievement{
	{Achievement1K, "Kilometer Club", func(s *Simulation) bool {
		return s.state.Score >= 10000
	}},
	{Achievement5K, "Stratosphere", func(s *Simulation) bool {
		return s.state.Score >= 50000
	}},
	{AchievementMagnet, "Attractive", func(s *Simulation) bool {
		return s.player.Has(PowerMagnet)
	}},
	{AchievementPacifist, "Pacifist Pilot", func(s *Simulation) bool {
		return s.state.Score >= 50000 && s.state.PowersCollected == 0
	}},
	{AchievementBoss, "Titan Slayer", func(s *Simulation) bool {
		return s.state.Loops >= 1
	}},
	{AchievementRich, "Data Hoarder", func(s *Simulation) bool {
		return s.state.Shards >= 100
	}},
}

// AchievementTracker remembers what has been shown. A tracker lives as long as
// its Simulation and is shared by every run it plays.
type AchievementTracker struct {
	shown map[AchievementID]bool
}

// NewAchievementTracker creates a tracker with nothing shown.
func NewAchievementTracker() *AchievementTracker {
	return &AchievementTracker{shown: make(map[AchievementID]bool)}
}

// evaluate returns the achievements that became true for the first time.
func (t *AchievementTracker) evaluate(s *Simulation) []Achievement {
	var fired []Achievement
	for _, a := range achievements {
		if t.shown[a.ID] || !a.met(s) {
			continue
		}
		t.shown[a.ID] = true
		fired = append(fired, a)
	}
	return fired
}
