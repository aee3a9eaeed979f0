package pp

import "math"

const maniaStarScalingFactor = 0.018

// ManiaDifficultyAttributes is the result of a mania difficulty calculation.
type ManiaDifficultyAttributes struct {
	// Stars is the final star rating.
	Stars float64
	// HitWindow is the perceived n300 window inclusive of rate-adjusting mods.
	HitWindow float64
}

// ManiaPerformanceAttributes is the result of a mania performance calculation.
type ManiaPerformanceAttributes struct {
	// Difficulty holds the attributes the performance was computed from.
	Difficulty ManiaDifficultyAttributes
	// PP is the final performance points.
	PP float64
	// PPDifficulty is the difficulty portion of the final pp.
	PPDifficulty float64
}

// ManiaStrains is the strain-peak series of a mania chart, suitable for
// plotting difficulty over time.
type ManiaStrains struct {
	// SectionLen is the time in milliseconds between two strains.
	SectionLen float64
	// Strains are the chronological section peaks.
	Strains []float64
}

func (s ManiaStrains) Len() int { return len(s.Strains) }

// ManiaStars is the difficulty calculator for mania charts.
//
//	attrs := pp.NewManiaStars(m).Mods(pp.ModDoubleTime).Calculate()
//
// The chart is borrowed; converting from another mode creates an owned copy
// and marks the result accordingly.
type ManiaStars struct {
	m             *Beatmap
	isConvert     bool
	mods          Mods
	passedObjects int
	hasPassed     bool
	clockRate     float64
	hasClockRate  bool
}

// NewManiaStars creates a difficulty calculator for a mania chart. A chart in
// another mode is reinterpreted under mania rules and flagged as a convert.
func NewManiaStars(m *Beatmap) *ManiaStars {
	converted := m.Convert(ModeMania)

	return &ManiaStars{
		m:         converted,
		isConvert: converted != m,
	}
}

// Mods specifies the game modifiers through their bit values.
func (s *ManiaStars) Mods(mods Mods) *ManiaStars {
	s.mods = mods

	return s
}

// PassedObjects limits the calculation to the first n objects, e.g. for a
// failed play. For attributes after every few objects use
// ManiaGradualDifficulty instead of repeated calls with growing n.
func (s *ManiaStars) PassedObjects(n int) *ManiaStars {
	s.passedObjects = n
	s.hasPassed = true

	return s
}

// ClockRate overrides the playback rate that would otherwise be taken from
// the mods. Must be positive.
func (s *ManiaStars) ClockRate(clockRate float64) *ManiaStars {
	s.clockRate = clockRate
	s.hasClockRate = true

	return s
}

func (s *ManiaStars) resolvedClockRate() float64 {
	if s.hasClockRate {
		return s.clockRate
	}

	return s.mods.ClockRate()
}

// Calculate computes all difficulty attributes including the star rating.
func (s *ManiaStars) Calculate() ManiaDifficultyAttributes {
	clockRate := s.resolvedClockRate()

	windows := s.m.Attributes().
		Mods(s.mods).
		Converted(s.isConvert).
		ClockRate(clockRate).
		HitWindows()

	strain := s.calculateStrain()

	return ManiaDifficultyAttributes{
		Stars:     strain.DifficultyValue() * maniaStarScalingFactor,
		HitWindow: windows.OD,
	}
}

// Strains computes the raw strain-peak series for plotting.
func (s *ManiaStars) Strains() ManiaStrains {
	clockRate := s.resolvedClockRate()
	strain := s.calculateStrain()

	return ManiaStrains{
		SectionLen: sectionLen * clockRate,
		Strains:    strain.StrainPeaks(),
	}
}

func (s *ManiaStars) calculateStrain() *ManiaStrain {
	clockRate := s.resolvedClockRate()
	if clockRate <= 0 {
		panic("pp: clock rate must be positive")
	}

	totalColumns := maniaTotalColumns(s.m)
	strain := NewManiaStrain(totalColumns)

	for _, curr := range maniaDifficultyObjects(s.m, clockRate, s.take()) {
		strain.Process(&curr)
	}

	return strain
}

// take clamps the passed-object limit silently to the available count.
func (s *ManiaStars) take() int {
	n := len(s.m.HitObjects)
	if s.hasPassed && s.passedObjects < n {
		n = s.passedObjects
	}
	if n < 0 {
		n = 0
	}

	return n
}

func maniaTotalColumns(m *Beatmap) int {
	totalColumns := int(math.Round(m.CS))
	if totalColumns < 1 {
		totalColumns = 1
	}

	return totalColumns
}

// maniaDifficultyObjects builds the ordered difficulty-object sequence over
// the first take notes. The first note has no predecessor and yields none.
func maniaDifficultyObjects(m *Beatmap, clockRate float64, take int) []ManiaDifficultyObject {
	if take > len(m.HitObjects) {
		take = len(m.HitObjects)
	}
	if take < 2 {
		return nil
	}

	totalColumns := maniaTotalColumns(m)
	objects := make([]ManiaDifficultyObject, 0, take-1)

	prev := NewManiaObject(&m.HitObjects[0], totalColumns)
	for i := 1; i < take; i++ {
		base := NewManiaObject(&m.HitObjects[i], totalColumns)
		objects = append(objects, NewManiaDifficultyObject(base, prev, clockRate, i-1))
		prev = base
	}

	return objects
}
