package pp

import "math"

// Hit-window calibration triples, in milliseconds, for the 0/5/10 settings.
const (
	hitWindowODMin = 80.0
	hitWindowODAvg = 50.0
	hitWindowODMax = 20.0

	hitWindowARMin = 1800.0
	hitWindowARAvg = 1200.0
	hitWindowARMax = 450.0
)

// DifficultyRange maps a 0-10 difficulty setting to a millisecond value by
// linear interpolation on each side of the midpoint 5.
func DifficultyRange(val, min, avg, max float64) float64 {
	if val > 5.0 {
		return avg + (max-avg)*(val-5.0)/5.0
	}
	if val < 5.0 {
		return avg - (avg-min)*(5.0-val)/5.0
	}

	return avg
}

func odHitWindow(od float64) float64 {
	return DifficultyRange(od, hitWindowODMin, hitWindowODAvg, hitWindowODMax)
}

func arPreempt(ar float64) float64 {
	return DifficultyRange(ar, hitWindowARMin, hitWindowARAvg, hitWindowARMax)
}

// BeatmapHitWindows are the perceived timing windows after mods and rate.
type BeatmapHitWindows struct {
	// OD is the n300 hit window in milliseconds.
	OD float64
	// AR is the preempt time in milliseconds.
	AR float64
}

// BeatmapAttributesBuilder resolves base difficulty settings under mods,
// clock rate and mode conversion.
type BeatmapAttributesBuilder struct {
	mode      GameMode
	od        float64
	ar        float64
	mods      Mods
	clockRate float64
	converted bool
}

// Attributes starts an attribute resolution chain for the beatmap.
func (m *Beatmap) Attributes() *BeatmapAttributesBuilder {
	return &BeatmapAttributesBuilder{
		mode:      m.Mode,
		od:        m.OD,
		ar:        m.AR,
		clockRate: 1.0,
	}
}

func (b *BeatmapAttributesBuilder) Mods(mods Mods) *BeatmapAttributesBuilder {
	b.mods = mods
	b.clockRate = mods.ClockRate()

	return b
}

func (b *BeatmapAttributesBuilder) ClockRate(clockRate float64) *BeatmapAttributesBuilder {
	b.clockRate = clockRate

	return b
}

func (b *BeatmapAttributesBuilder) Converted(converted bool) *BeatmapAttributesBuilder {
	b.converted = converted

	return b
}

// HitWindows resolves the timing windows for the configured mode.
func (b *BeatmapAttributesBuilder) HitWindows() BeatmapHitWindows {
	multiplier := b.mods.ODARHPMultiplier()
	od := math.Min(b.od*multiplier, 10.0)
	ar := math.Min(b.ar*multiplier, 10.0)

	var odWindow float64

	switch b.mode {
	case ModeMania:
		// Mania keeps integer-ish windows: 34 + 3 * (10 - OD) for native maps,
		// 34 or 47 for converts depending on the rounded OD.
		if !b.converted {
			odWindow = 34.0 + 3.0*(math.Min(10.0, math.Max(0.0, 10.0-od)))
		} else if math.Round(od) > 4.0 {
			odWindow = 34.0
		} else {
			odWindow = 47.0
		}
		odWindow = math.Floor(odWindow*b.clockRate) / b.clockRate
	default:
		odWindow = odHitWindow(od) / b.clockRate
	}

	return BeatmapHitWindows{
		OD: odWindow,
		AR: arPreempt(ar) / b.clockRate,
	}
}
