package sim

import "github.com/vovakirdan/lonely-pixel/internal/core"

// Biome is the altitude band the run is currently in.
type Biome struct {
	Threshold int // Meters
	Name      string
	Platform  core.Color
}

var biomes = [...]Biome{
	{0, "Atmosphere", core.ColorBrightCyan},
	{1000, "Ionosphere", core.ColorBrightMagenta},
	{3000, "Low Orbit", core.ColorBrightBlue},
	{6000, "Deep Space", core.ColorGold},
}

// BiomeAt returns the biome for an altitude in meters.
func BiomeAt(meters int) Biome {
	b := biomes[0]
	for _, candidate := range biomes {
		if meters >= candidate.Threshold {
			b = candidate
		}
	}
	return b
}

// StoryBeat is a message shown once the run passes an altitude.
type StoryBeat struct {
	Meters int
	Text   string
}

var story = [...]StoryBeat{
	{100, "SYSTEM: Unit 734. Maintain baseline altitude."},
	{500, "SYSTEM: Detected foreign objects. Use them."},
	{1000, "SYSTEM: Why climb? Gravity is the only law."},
	{2500, "SYSTEM: You are exceeding recommended parameters."},
	{5000, "SYSTEM: Safety protocols disengaged."},
	{8000, "SYSTEM: The lonely pixel is not so lonely anymore."},
}
