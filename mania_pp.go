package pp

import "math"

// ManiaScoreState are the judgement counts of a (partial) mania play.
type ManiaScoreState struct {
	N320    int
	N300    int
	N200    int
	N100    int
	N50     int
	NMisses int
}

// TotalHits is the number of judged notes.
func (s ManiaScoreState) TotalHits() int {
	return s.N320 + s.N300 + s.N200 + s.N100 + s.N50 + s.NMisses
}

// Accuracy is the judgement-weighted custom accuracy in [0, 1].
func (s ManiaScoreState) Accuracy() float64 {
	total := s.TotalHits()
	if total == 0 {
		return 0.0
	}

	numerator := 320*s.N320 + 300*s.N300 + 200*s.N200 + 100*s.N100 + 50*s.N50

	return float64(numerator) / float64(320*total)
}

// ManiaPP is the performance calculator for mania charts.
//
//	result := pp.NewManiaPP(m).
//	    Mods(mods).
//	    State(state).
//	    Calculate()
//
// Previously computed difficulty attributes can be reused through
// Attributes to skip the strain pass.
type ManiaPP struct {
	stars *ManiaStars
	attrs *ManiaDifficultyAttributes
	mods  Mods
	state ManiaScoreState
}

// NewManiaPP creates a performance calculator for a mania chart.
func NewManiaPP(m *Beatmap) *ManiaPP {
	return &ManiaPP{stars: NewManiaStars(m)}
}

// Attributes provides difficulty attributes from a previous calculation with
// the same chart, mods and clock rate, skipping the strain pass.
func (p *ManiaPP) Attributes(attrs ManiaDifficultyAttributes) *ManiaPP {
	p.attrs = &attrs

	return p
}

func (p *ManiaPP) Mods(mods Mods) *ManiaPP {
	p.mods = mods
	p.stars.Mods(mods)

	return p
}

func (p *ManiaPP) PassedObjects(n int) *ManiaPP {
	p.stars.PassedObjects(n)

	return p
}

func (p *ManiaPP) ClockRate(clockRate float64) *ManiaPP {
	p.stars.ClockRate(clockRate)

	return p
}

// State sets the judgement counts of the play.
func (p *ManiaPP) State(state ManiaScoreState) *ManiaPP {
	p.state = state

	return p
}

// Calculate computes the performance attributes of the play.
func (p *ManiaPP) Calculate() ManiaPerformanceAttributes {
	attrs := p.resolveAttributes()

	return maniaPerformance(attrs, p.mods, p.state)
}

func (p *ManiaPP) resolveAttributes() ManiaDifficultyAttributes {
	if p.attrs != nil {
		return *p.attrs
	}

	return p.stars.Calculate()
}

// maniaPerformance maps difficulty attributes plus judgement counts to the
// final performance points. Shared by the one-shot and gradual paths.
func maniaPerformance(
	attrs ManiaDifficultyAttributes,
	mods Mods,
	state ManiaScoreState,
) ManiaPerformanceAttributes {
	multiplier := 8.0
	if mods.NF() {
		multiplier *= 0.75
	}
	if mods.EZ() {
		multiplier *= 0.5
	}

	difficultyValue := maniaDifficultyValue(attrs.Stars, state)

	return ManiaPerformanceAttributes{
		Difficulty:   attrs,
		PP:           difficultyValue * multiplier,
		PPDifficulty: difficultyValue,
	}
}

// maniaDifficultyValue is the difficulty sub-score: a convex power curve of
// the star rating, gated by accuracy and slightly boosted on long charts.
func maniaDifficultyValue(stars float64, state ManiaScoreState) float64 {
	return math.Pow(math.Max(stars-0.15, 0.05), 2.2) *
		math.Max(0.0, 5.0*state.Accuracy()-4.0) *
		(1.0 + 0.1*math.Min(1.0, float64(state.TotalHits())/1500.0))
}
