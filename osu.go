package pp

import "math"

const osuStarScalingFactor = 0.0675

// OsuDifficultyAttributes is the result of a difficulty calculation on a
// standard-ruleset chart.
type OsuDifficultyAttributes struct {
	// Stars is the final star rating.
	Stars float64
	// AimStrain and SpeedStrain are the per-aspect sub-ratings.
	AimStrain   float64
	SpeedStrain float64
	// AR and OD after mods and clock rate.
	AR float64
	OD float64

	MaxCombo  int
	NCircles  int
	NSliders  int
	NSpinners int
}

// OsuPerformanceAttributes is the result of a performance calculation on a
// standard-ruleset chart.
type OsuPerformanceAttributes struct {
	Difficulty OsuDifficultyAttributes

	// PP is the final performance points.
	PP float64
	// PPAim, PPSpeed and PPAcc are the sub-scores PP is blended from.
	PPAim   float64
	PPSpeed float64
	PPAcc   float64
}

// OsuStrains are the per-aspect strain-peak series of a chart, suitable for
// plotting difficulty over time.
type OsuStrains struct {
	// SectionLen is the time in milliseconds between two strains.
	SectionLen float64
	Aim        []float64
	Speed      []float64
}

func (s OsuStrains) Len() int { return len(s.Aim) }

// OsuStars is the difficulty calculator for standard-ruleset charts.
type OsuStars struct {
	m             *Beatmap
	mods          Mods
	passedObjects int
	hasPassed     bool
	clockRate     float64
	hasClockRate  bool
}

// NewOsuStars creates a difficulty calculator for a standard chart.
func NewOsuStars(m *Beatmap) *OsuStars {
	return &OsuStars{m: m}
}

// Mods specifies the game modifiers through their bit values.
func (s *OsuStars) Mods(mods Mods) *OsuStars {
	s.mods = mods

	return s
}

// PassedObjects limits the calculation to the first n objects.
func (s *OsuStars) PassedObjects(n int) *OsuStars {
	s.passedObjects = n
	s.hasPassed = true

	return s
}

// ClockRate overrides the playback rate that would otherwise be taken from
// the mods. Must be positive.
func (s *OsuStars) ClockRate(clockRate float64) *OsuStars {
	s.clockRate = clockRate
	s.hasClockRate = true

	return s
}

// ToMania reinterprets the chart under mania rules, keeping the configured
// mods, object limit and clock rate. The result is marked as a convert.
func (s *OsuStars) ToMania() *ManiaStars {
	mania := NewManiaStars(s.m)
	mania.mods = s.mods
	mania.passedObjects = s.passedObjects
	mania.hasPassed = s.hasPassed
	mania.clockRate = s.clockRate
	mania.hasClockRate = s.hasClockRate

	return mania
}

func (s *OsuStars) resolvedClockRate() float64 {
	if s.hasClockRate {
		return s.clockRate
	}

	return s.mods.ClockRate()
}

func (s *OsuStars) take() int {
	n := len(s.m.HitObjects)
	if s.hasPassed && s.passedObjects < n {
		n = s.passedObjects
	}
	if n < 0 {
		n = 0
	}

	return n
}

// Calculate computes all difficulty attributes including the star rating.
func (s *OsuStars) Calculate() OsuDifficultyAttributes {
	aim, speed := s.calculateSkills()

	aimRating := math.Sqrt(aim.DifficultyValue()) * osuStarScalingFactor
	speedRating := math.Sqrt(speed.DifficultyValue()) * osuStarScalingFactor
	stars := aimRating + speedRating + math.Abs(aimRating-speedRating)/2.0

	clockRate := s.resolvedClockRate()
	multiplier := s.mods.ODARHPMultiplier()

	od := math.Min(s.m.OD*multiplier, 10.0)
	ar := math.Min(s.m.AR*multiplier, 10.0)

	// Express the rate-adjusted windows back on the 0-10 scale.
	odWindow := odHitWindow(od) / clockRate
	od = (hitWindowODMin - odWindow) / 6.0
	preempt := arPreempt(ar) / clockRate
	if preempt > hitWindowARAvg {
		ar = (hitWindowARMin - preempt) / 120.0
	} else {
		ar = (hitWindowARAvg - preempt) / 150.0 + 5.0
	}

	attrs := OsuDifficultyAttributes{
		Stars:       stars,
		AimStrain:   aimRating,
		SpeedStrain: speedRating,
		AR:          ar,
		OD:          od,
	}

	take := s.take()
	for i := 0; i < take; i++ {
		h := &s.m.HitObjects[i]
		switch h.Kind {
		case KindCircle:
			attrs.NCircles++
			attrs.MaxCombo++
		case KindSlider:
			attrs.NSliders++
			attrs.MaxCombo += s.m.sliderComboCount(h)
		case KindSpinner:
			attrs.NSpinners++
			attrs.MaxCombo++
		default:
			attrs.MaxCombo++
		}
	}

	return attrs
}

// Strains computes the raw per-aspect strain-peak series for plotting.
func (s *OsuStars) Strains() OsuStrains {
	aim, speed := s.calculateSkills()

	return OsuStrains{
		SectionLen: sectionLen * s.resolvedClockRate(),
		Aim:        aim.StrainPeaks(),
		Speed:      speed.StrainPeaks(),
	}
}

func (s *OsuStars) calculateSkills() (aim, speed *OsuSkill) {
	clockRate := s.resolvedClockRate()
	if clockRate <= 0 {
		panic("pp: clock rate must be positive")
	}

	objects := osuDifficultyObjects(s.m, s.mods, clockRate, s.take())

	aim = newAimSkill()
	speed = newSpeedSkill()

	for i := range objects {
		var prev *OsuDifficultyObject
		if i > 0 {
			prev = &objects[i-1]
		}
		aim.Process(&objects[i], prev)
		speed.Process(&objects[i], prev)
	}

	return aim, speed
}

// sliderComboCount is the number of combo-giving nested objects of a slider:
// head, span ends (repeats and tail) and slider ticks.
func (m *Beatmap) sliderComboCount(h *HitObject) int {
	spans := h.Repeats
	if spans < 1 {
		spans = 1
	}

	beatLen, speedMultiplier := m.beatLenAt(h.StartTime)
	velocity := m.SliderMultiplier * 100.0 * speedMultiplier

	spanTime := h.PixelLen / velocity * beatLen
	if spanTime <= 0 || math.IsNaN(spanTime) {
		return 1 + spans
	}

	// Ticks stop short of the span end; very short spans carry none.
	ticks := int(math.Floor((spanTime - math.Min(36.0, spanTime/2.0)) / beatLen * m.SliderTickRate))
	if ticks < 0 {
		ticks = 0
	}

	return 1 + spans*(ticks+1)
}
