package pricing

import (
	"math"
	"time"
)

// Phase describes where a listing's auction window stands relative to a
// point in time.
type Phase string

const (
	PhaseNotStarted Phase = "not_started"
	PhaseActive     Phase = "active"
	PhaseEnded      Phase = "ended"
)

// Quote returns the linearly interpolated unit price of an auction window
// at the given instant, together with the window phase. The price is only
// meaningful when the phase is PhaseActive; callers must not read it
// otherwise.
//
// A zero-duration window (startTime == endTime) is treated as already
// ended.
func Quote(startPrice, endPrice float64, startTime, endTime, now time.Time) (float64, Phase) {
	if !endTime.After(startTime) || !now.Before(endTime) {
		return 0, PhaseEnded
	}
	if !now.After(startTime) {
		return 0, PhaseNotStarted
	}

	progress := float64(now.Sub(startTime)) / float64(endTime.Sub(startTime))
	return startPrice + (endPrice-startPrice)*progress, PhaseActive
}

// RoundCurrency rounds to two decimals with half-even (bankers') rounding.
// Applied once at the boundary to the caller, never inside Quote, so the
// interpolation itself never accumulates rounding error.
func RoundCurrency(v float64) float64 {
	scaled := v * 100
	floor := math.Floor(scaled)
	diff := scaled - floor
	switch {
	case diff > 0.5:
		floor++
	case diff == 0.5:
		if math.Mod(floor, 2) != 0 {
			floor++
		}
	}
	return floor / 100
}
