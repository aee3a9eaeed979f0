package pp

import "math"

// OsuSkill is one strain aspect of the standard ruleset. Aim and Speed are
// independent instances of the same state machine with their own decay base,
// multiplier and per-object increment; their aggregates are blended in
// OsuStars.Calculate.
type OsuSkill struct {
	strainSections

	currentStrain float64
	decayBase     float64
	multiplier    float64
	strainValue   func(curr, prev *OsuDifficultyObject) float64
}

func newAimSkill() *OsuSkill {
	return &OsuSkill{
		decayBase:   0.15,
		multiplier:  26.25,
		strainValue: aimStrainValue,
	}
}

func newSpeedSkill() *OsuSkill {
	return &OsuSkill{
		decayBase:   0.3,
		multiplier:  1400.0,
		strainValue: speedStrainValue,
	}
}

// Process feeds one difficulty object into the skill, closing any elapsed
// sections first. prev is the preceding difficulty object, nil for the first.
func (s *OsuSkill) Process(curr, prev *OsuDifficultyObject) {
	if curr.Idx == 0 {
		s.startAt(curr.StartTime)
	}

	for curr.StartTime > s.curSectionEnd {
		s.saveCurrentPeak()
		prevStart := curr.StartTime - curr.DeltaTime
		s.startNewSection(applyDecay(s.currentStrain, s.curSectionEnd-prevStart, s.decayBase))
		s.curSectionEnd += sectionLen
	}

	s.currentStrain = applyDecay(s.currentStrain, curr.DeltaTime, s.decayBase)
	s.currentStrain += s.strainValue(curr, prev) * s.multiplier

	s.raisePeak(s.currentStrain)
}

// StrainPeaks returns the chronological section peaks including the open
// section. The slice is owned by the caller.
func (s *OsuSkill) StrainPeaks() []float64 {
	return s.currentPeaks()
}

// DifficultyValue aggregates the section peaks into the skill's scalar
// difficulty without mutating the skill.
func (s *OsuSkill) DifficultyValue() float64 {
	return weightedStrainSum(s.currentPeaks())
}

const (
	aimAngleBonusBegin = math.Pi / 3.0
	timingThreshold    = 107.0
)

func diminishingExp(val float64) float64 {
	return math.Pow(val, 0.99)
}

// aimStrainValue rewards distance covered per unit time, with a bonus for
// wide-angle jumps out of long preceding jumps.
func aimStrainValue(curr, prev *OsuDifficultyObject) float64 {
	if curr.IsSpinner() {
		return 0.0
	}

	result := 0.0

	if prev != nil && curr.Angle != nil && *curr.Angle > aimAngleBonusBegin {
		const scale = 90.0

		angleBonus := math.Sqrt(
			math.Max(prev.JumpDistance-scale, 0.0) *
				math.Pow(math.Sin(*curr.Angle-aimAngleBonusBegin), 2.0) *
				math.Max(curr.JumpDistance-scale, 0.0),
		)
		result = 1.5 * diminishingExp(math.Max(0.0, angleBonus)) /
			math.Max(timingThreshold, prev.StrainTime)
	}

	jumpDistExp := diminishingExp(curr.JumpDistance)

	return math.Max(
		result+jumpDistExp/math.Max(curr.StrainTime, timingThreshold),
		jumpDistExp/curr.StrainTime,
	)
}

const (
	singleSpacingThreshold = 125.0
	speedAngleBonusBegin   = 5.0 * math.Pi / 6.0
	piOverFour             = math.Pi / 4.0
	piOverTwo              = math.Pi / 2.0
	minSpeedBonus          = 75.0 // ~200 BPM
	maxSpeedBonus          = 45.0
	speedBalancingFactor   = 40.0
)

// speedStrainValue rewards raw tap rate, boosted for high spacing and for
// sharp direction changes at speed.
func speedStrainValue(curr, _ *OsuDifficultyObject) float64 {
	if curr.IsSpinner() {
		return 0.0
	}

	distance := math.Min(singleSpacingThreshold, curr.JumpDistance)
	deltaTime := math.Max(maxSpeedBonus, curr.DeltaTime)

	speedBonus := 1.0
	if deltaTime < minSpeedBonus {
		speedBonus = 1.0 + math.Pow((minSpeedBonus-deltaTime)/speedBalancingFactor, 2.0)
	}

	angleBonus := 1.0
	if curr.Angle != nil && *curr.Angle < speedAngleBonusBegin {
		angle := *curr.Angle
		angleBonus = 1.0 + math.Pow(math.Sin(1.5*(speedAngleBonusBegin-angle)), 2.0)/3.57

		if angle < piOverTwo {
			angleBonus = 1.28
			if distance < 90.0 && angle < piOverFour {
				angleBonus += (1.0 - angleBonus) * math.Min((90.0-distance)/10.0, 1.0)
			} else if distance < 90.0 {
				angleBonus += (1.0 - angleBonus) * math.Min((90.0-distance)/10.0, 1.0) *
					math.Sin((piOverTwo-angle)/piOverFour)
			}
		}
	}

	return (1.0 + (speedBonus-1.0)*0.75) * angleBonus *
		(0.95 + speedBonus*math.Pow(distance/singleSpacingThreshold, 3.5)) /
		curr.StrainTime
}
