package sim

import "github.com/vovakirdan/lonely-pixel/internal/core"

// Ability holds a skin's physics multipliers.
type Ability struct {
	JumpMult    float64
	SpeedMult   float64
	GravityMult float64
}

// Skin is a selectable player look, unlocked by best altitude.
type Skin struct {
	Name   string
	Color  core.Color
	Eye    core.Color
	Unlock int // Best meters required
	Ability
}

var skins = [...]Skin{
	{"Unit 734", core.ColorPink, core.ColorWhite, 0, Ability{1, 1, 1}},
	{"The Ghost", core.ColorBrightWhite, core.ColorDarkGray, 500, Ability{1, 1, 0.85}},
	{"Matrix", core.ColorBrightGreen, core.ColorDarkGray, 1000, Ability{1, 1.2, 1}},
	{"Deep Void", core.ColorPurple, core.ColorBrightMagenta, 2000, Ability{1.15, 1, 1}},
	{"Golden", core.ColorGold, core.ColorOrange, 3500, Ability{1, 1.1, 0.9}},
	{"Glitch", core.ColorBrightCyan, core.ColorWhite, 5000, Ability{1.1, 1.1, 1}},
	{"The End", core.ColorDarkGray, core.ColorRed, 8000, Ability{1, 1, 0.75}},
}

// Skins returns every skin in menu order.
func Skins() []Skin {
	out := make([]Skin, len(skins))
	copy(out, skins[:])
	return out
}

// SkinAt returns the skin at index i, wrapping out-of-range indices.
func SkinAt(i int) Skin {
	return skins[WrapSkin(i)]
}

// WrapSkin maps any index onto the skin list.
func WrapSkin(i int) int {
	n := len(skins)
	return ((i % n) + n) % n
}

// SkinUnlocked reports whether skin i is available with the given best meters.
func SkinUnlocked(i, bestMeters int) bool {
	return bestMeters >= SkinAt(i).Unlock
}
