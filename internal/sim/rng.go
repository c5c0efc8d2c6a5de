package sim

import "time"

const (
	lcgMultiplier = 9301
	lcgIncrement  = 49297
	lcgModulus    = 233280
)

// Rand is the world generator's linear-congruential sequence.
// It uses exact integer arithmetic so two peers with the same seed
// draw bit-identical values.
type Rand struct {
	seed int64
}

// NewRand creates a sequence starting from seed.
// The seed is reduced modulo the LCG modulus, which leaves the output unchanged.
func NewRand(seed int64) *Rand {
	seed %= lcgModulus
	if seed < 0 {
		seed += lcgModulus
	}
	return &Rand{seed: seed}
}

// Next advances the sequence and returns a value in [0, 1).
func (r *Rand) Next() float64 {
	r.seed = (r.seed*lcgMultiplier + lcgIncrement) % lcgModulus
	return float64(r.seed) / lcgModulus
}

// State returns the current internal seed.
func (r *Rand) State() int64 {
	return r.seed
}

// DailySeed derives the single-player seed from a calendar date.
func DailySeed(t time.Time) int64 {
	return int64(t.Year())*10000 + int64(t.Month())*100 + int64(t.Day())
}

// SessionSeed derives a co-op seed: the daily seed plus an offset in [0, 10000).
func SessionSeed(t time.Time, offset int) int64 {
	return DailySeed(t) + int64(offset%10000)
}
