package sim

import "github.com/vovakirdan/lonely-pixel/internal/core"

// PowerKind identifies a power-up. Values double as wire ids; zero means none.
type PowerKind uint8

const (
	PowerNone PowerKind = iota
	PowerDoubleJump
	PowerSuperJump
	PowerSafetyNet
	PowerMagnet
	PowerJetpack
	PowerShield
	PowerTimeWarp
)

// PowerSpec is one immutable catalog entry.
type PowerSpec struct {
	Kind     PowerKind
	Name     string
	Color    core.Color
	Duration float64 // In nominal steps
}

var powerCatalog = [...]PowerSpec{
	{PowerDoubleJump, "DOUBLE JUMP", core.ColorBrightBlue, 600},
	{PowerSuperJump, "SUPER JUMP", core.ColorOrange, 400},
	{PowerSafetyNet, "SAFETY NET", core.ColorPurple, 800},
	{PowerMagnet, "MAGNET", core.ColorBrightYellow, 500},
	{PowerJetpack, "JETPACK", core.ColorBrightRed, 250},
	{PowerShield, "HARD SHIELD", core.ColorBrightGreen, 600},
	{PowerTimeWarp, "TIME WARP", core.ColorBrightWhite, 500},
}

// PowerByID resolves a wire id.
func PowerByID(id int) (PowerKind, bool) {
	if id < 1 || id > len(powerCatalog) {
		return PowerNone, false
	}
	return PowerKind(id), true
}

// Spec returns the catalog entry. PowerNone yields a zero spec.
func (k PowerKind) Spec() PowerSpec {
	if k == PowerNone || int(k) > len(powerCatalog) {
		return PowerSpec{}
	}
	return powerCatalog[k-1]
}

// ID returns the wire id.
func (k PowerKind) ID() int {
	return int(k)
}

func (k PowerKind) String() string {
	if k == PowerNone {
		return "NONE"
	}
	if s := k.Spec(); s.Name != "" {
		return s.Name
	}
	return "UNKNOWN"
}
