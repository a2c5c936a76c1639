package stats

// Direction classifies where a difference interval sits relative to zero.
type Direction int

const (
	// Unsure means the interval straddles zero.
	Unsure Direction = iota
	// Faster means the interval lies entirely below zero (A beat B).
	Faster
	// Slower means the interval lies entirely above zero.
	Slower
)

func (d Direction) String() string {
	switch d {
	case Faster:
		return "faster"
	case Slower:
		return "slower"
	default:
		return "unsure"
	}
}

// Resolution is the outcome of checking one pairwise difference against the
// configured horizons. Unsure is a legitimate value for a resolved
// comparison when only signed horizons are configured.
type Resolution struct {
	Resolved  bool      `json:"resolved"`
	Direction Direction `json:"direction"`
}

// Resolve decides whether diff clears every horizon. An unsigned horizon h
// is cleared only when the interval lies entirely above +h or entirely below
// -h; an interval inside or straddling [-h, +h] keeps the comparison open. A
// signed horizon is a single point the interval must not straddle. Relative
// horizons test the relative interval, absolute ones the absolute interval.
func Resolve(diff Difference, horizons []Horizon) Resolution {
	resolved := true
	for _, h := range horizons {
		ci := diff.Absolute
		if h.Relative {
			ci = diff.Relative
		}
		if h.Signed {
			if ci.Low <= h.Value && h.Value <= ci.High {
				resolved = false
			}
		} else {
			if !(ci.Low > h.Value || ci.High < -h.Value) {
				resolved = false
			}
		}
	}
	dir := Unsure
	switch {
	case diff.Absolute.Low > 0:
		dir = Slower
	case diff.Absolute.High < 0:
		dir = Faster
	}
	return Resolution{Resolved: resolved, Direction: dir}
}
