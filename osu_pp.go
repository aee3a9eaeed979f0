package pp

import "math"

// OsuScoreState are the judgement counts of a (partial) standard play.
type OsuScoreState struct {
	MaxCombo int
	N300     int
	N100     int
	N50      int
	NMisses  int
}

func (s OsuScoreState) TotalHits() int {
	return s.N300 + s.N100 + s.N50 + s.NMisses
}

// Accuracy is the hit accuracy in [0, 1].
func (s OsuScoreState) Accuracy() float64 {
	total := s.TotalHits()
	if total == 0 {
		return 0.0
	}

	numerator := 6*s.N300 + 2*s.N100 + s.N50

	return float64(numerator) / float64(6*total)
}

// OsuPP is the performance calculator for standard-ruleset charts.
type OsuPP struct {
	stars *OsuStars
	attrs *OsuDifficultyAttributes
	mods  Mods
	state OsuScoreState
}

// NewOsuPP creates a performance calculator for a standard chart.
func NewOsuPP(m *Beatmap) *OsuPP {
	return &OsuPP{stars: NewOsuStars(m)}
}

// Attributes provides difficulty attributes from a previous calculation with
// the same chart, mods and clock rate, skipping the strain pass.
func (p *OsuPP) Attributes(attrs OsuDifficultyAttributes) *OsuPP {
	p.attrs = &attrs

	return p
}

func (p *OsuPP) Mods(mods Mods) *OsuPP {
	p.mods = mods
	p.stars.Mods(mods)

	return p
}

func (p *OsuPP) PassedObjects(n int) *OsuPP {
	p.stars.PassedObjects(n)

	return p
}

func (p *OsuPP) ClockRate(clockRate float64) *OsuPP {
	p.stars.ClockRate(clockRate)

	return p
}

// State sets the judgement counts of the play.
func (p *OsuPP) State(state OsuScoreState) *OsuPP {
	p.state = state

	return p
}

// Calculate computes the performance attributes of the play.
func (p *OsuPP) Calculate() OsuPerformanceAttributes {
	attrs := p.resolveAttributes()
	state := p.state

	aimValue := p.computeAimValue(attrs, state)
	speedValue := p.computeSpeedValue(attrs, state)
	accValue := p.computeAccValue(attrs, state)

	multiplier := 1.12
	if p.mods.NF() {
		multiplier *= 0.90
	}

	total := math.Pow(
		math.Pow(aimValue, 1.1)+math.Pow(speedValue, 1.1)+math.Pow(accValue, 1.1),
		1.0/1.1,
	) * multiplier

	return OsuPerformanceAttributes{
		Difficulty: attrs,
		PP:         total,
		PPAim:      aimValue,
		PPSpeed:    speedValue,
		PPAcc:      accValue,
	}
}

func (p *OsuPP) resolveAttributes() OsuDifficultyAttributes {
	if p.attrs != nil {
		return *p.attrs
	}

	return p.stars.Calculate()
}

func (p *OsuPP) lengthBonus() float64 {
	totalHits := float64(p.state.TotalHits())

	bonus := 0.95 + 0.4*math.Min(totalHits/2000.0, 1.0)
	if totalHits > 2000.0 {
		bonus += math.Log10(totalHits/2000.0) * 0.5
	}

	return bonus
}

func (p *OsuPP) comboScaling(maxCombo int) float64 {
	if maxCombo <= 0 || p.state.MaxCombo <= 0 {
		return 1.0
	}

	return math.Min(
		math.Pow(float64(p.state.MaxCombo), 0.8)/math.Pow(float64(maxCombo), 0.8),
		1.0,
	)
}

func (p *OsuPP) computeAimValue(attrs OsuDifficultyAttributes, state OsuScoreState) float64 {
	aimValue := math.Pow(5.0*math.Max(attrs.AimStrain/0.0675, 1.0)-4.0, 3.0) / 100000.0

	aimValue *= p.lengthBonus()
	if state.NMisses > 0 {
		aimValue *= math.Pow(0.97, float64(state.NMisses))
	}
	aimValue *= p.comboScaling(attrs.MaxCombo)

	arFactor := 1.0
	if attrs.AR > 10.33 {
		arFactor += 0.3 * (attrs.AR - 10.33)
	} else if attrs.AR < 8.0 {
		arFactor += 0.01 * (8.0 - attrs.AR)
	}
	aimValue *= arFactor

	if p.mods.HD() {
		aimValue *= 1.0 + 0.04*(12.0-attrs.AR)
	}

	aimValue *= 0.5 + state.Accuracy()/2.0
	aimValue *= 0.98 + attrs.OD*attrs.OD/2500.0

	return aimValue
}

func (p *OsuPP) computeSpeedValue(attrs OsuDifficultyAttributes, state OsuScoreState) float64 {
	speedValue := math.Pow(5.0*math.Max(attrs.SpeedStrain/0.0675, 1.0)-4.0, 3.0) / 100000.0

	speedValue *= p.lengthBonus()
	if state.NMisses > 0 {
		speedValue *= math.Pow(0.97, float64(state.NMisses))
	}
	speedValue *= p.comboScaling(attrs.MaxCombo)

	if p.mods.HD() {
		speedValue *= 1.0 + 0.04*(12.0-attrs.AR)
	}

	speedValue *= 0.02 + state.Accuracy()
	speedValue *= 0.96 + attrs.OD*attrs.OD/1600.0

	return speedValue
}

func (p *OsuPP) computeAccValue(attrs OsuDifficultyAttributes, state OsuScoreState) float64 {
	totalHits := state.TotalHits()

	// Accuracy pp only considers circles, where timing is fully player-driven.
	nObjectsWithAcc := float64(attrs.NCircles)
	betterAccPercentage := 0.0
	if nObjectsWithAcc > 0 {
		betterAccPercentage = ((float64(state.N300)-(float64(totalHits)-nObjectsWithAcc))*6.0 +
			float64(state.N100)*2.0 + float64(state.N50)) / (nObjectsWithAcc * 6.0)
		betterAccPercentage = math.Max(betterAccPercentage, 0.0)
	}

	accValue := math.Pow(1.52163, attrs.OD) * math.Pow(betterAccPercentage, 24.0) * 2.83
	accValue *= math.Min(1.15, math.Pow(float64(attrs.NCircles)/1000.0, 0.3))

	if p.mods.HD() {
		accValue *= 1.08
	}
	if p.mods.FL() {
		accValue *= 1.02
	}

	return accValue
}
