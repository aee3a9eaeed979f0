package pp

import "math"

const (
	individualDecayBase = 0.125
	overallDecayBase    = 0.30
	releaseThreshold    = 24.0
)

// ManiaStrain is the single mania skill: one decaying strain accumulator per
// column plus an overall accumulator spanning all columns, sampled into
// fixed-length section peaks.
type ManiaStrain struct {
	strainSections

	startTimes        []float64
	endTimes          []float64
	individualStrains []float64

	individualStrain float64
	overallStrain    float64
	currentStrain    float64
}

// NewManiaStrain creates the skill for a chart with the given column count.
func NewManiaStrain(totalColumns int) *ManiaStrain {
	return &ManiaStrain{
		startTimes:        make([]float64, totalColumns),
		endTimes:          make([]float64, totalColumns),
		individualStrains: make([]float64, totalColumns),
		overallStrain:     1.0,
	}
}

// Process feeds one difficulty object into the skill, closing any elapsed
// sections first. Objects must arrive in index order.
func (s *ManiaStrain) Process(curr *ManiaDifficultyObject) {
	if curr.Idx == 0 {
		s.startAt(curr.StartTime)
	}

	// Close every section the object skipped over; an empty section's peak is
	// the strain decayed to the section start, so long silences are reflected
	// instead of leaving stale peaks.
	for curr.StartTime > s.curSectionEnd {
		s.saveCurrentPeak()
		s.startNewSection(s.initialStrain(s.curSectionEnd, curr))
		s.curSectionEnd += sectionLen
	}

	s.raisePeak(s.strainValueOf(curr))
}

// initialStrain is the accumulated strain decayed from the previous object's
// start time to the given section boundary.
func (s *ManiaStrain) initialStrain(time float64, curr *ManiaDifficultyObject) float64 {
	prevStart := curr.StartTime - curr.DeltaTime

	individual := applyDecay(s.individualStrain, time-prevStart, individualDecayBase)
	overall := applyDecay(s.overallStrain, time-prevStart, overallDecayBase)

	return individual + overall
}

func (s *ManiaStrain) strainValueOf(curr *ManiaDifficultyObject) float64 {
	startTime := curr.StartTime
	endTime := curr.EndTime
	column := curr.Column

	isOverlapping := false
	closestEndTime := math.Abs(endTime - startTime)
	holdFactor := 1.0
	holdAddition := 0.0

	for i := range s.endTimes {
		// The 1ms leniency mirrors gameplay's precision when comparing
		// release times of simultaneous holds.
		isOverlapping = isOverlapping ||
			(s.endTimes[i] > startTime+1.0 && endTime > s.endTimes[i]+1.0)

		if s.endTimes[i] > endTime+1.0 {
			holdFactor = 1.25
		}

		closestEndTime = math.Min(closestEndTime, math.Abs(endTime-s.endTimes[i]))
	}

	if isOverlapping {
		holdAddition = 1.0 / (1.0 + math.Exp(0.5*(releaseThreshold-closestEndTime)))
	}

	s.individualStrains[column] = applyDecay(
		s.individualStrains[column],
		startTime-s.startTimes[column],
		individualDecayBase,
	)
	s.individualStrains[column] += 2.0 * holdFactor

	// Notes in a chord share the chord's hardest individual strain.
	if curr.DeltaTime <= 1.0 {
		s.individualStrain = math.Max(s.individualStrain, s.individualStrains[column])
	} else {
		s.individualStrain = s.individualStrains[column]
	}

	s.overallStrain = applyDecay(s.overallStrain, curr.DeltaTime, overallDecayBase) +
		(1.0+holdAddition)*holdFactor

	s.startTimes[column] = startTime
	s.endTimes[column] = endTime

	s.currentStrain = s.individualStrain + s.overallStrain

	return s.currentStrain
}

// StrainPeaks returns the chronological section peaks including the open
// section. The slice is owned by the caller.
func (s *ManiaStrain) StrainPeaks() []float64 {
	return s.currentPeaks()
}

// DifficultyValue aggregates the section peaks into the skill's scalar
// difficulty. It does not mutate the skill, so it may be read after every
// processed object.
func (s *ManiaStrain) DifficultyValue() float64 {
	return weightedStrainSum(s.currentPeaks())
}
