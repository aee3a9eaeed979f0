package pp

import (
	"math"
	"sort"
)

const (
	// sectionLen is the strain sampling bucket in rate-adjusted milliseconds.
	sectionLen = 400.0

	// decayWeight is the geometric weight applied to ranked section peaks.
	decayWeight = 0.9
)

// applyDecay decays a strain value across deltaTime milliseconds of
// rate-adjusted time: decayBase^(deltaTime / 1000).
func applyDecay(value, deltaTime, decayBase float64) float64 {
	return value * math.Pow(decayBase, deltaTime/1000.0)
}

// weightedStrainSum ranks section peaks in descending order and sums them
// under geometrically decreasing weights. Sustained difficulty outweighs a
// single outlier spike while the hardest sections still dominate.
func weightedStrainSum(peaks []float64) float64 {
	sorted := make([]float64, len(peaks))
	copy(sorted, peaks)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	difficulty := 0.0
	weight := 1.0
	for _, strain := range sorted {
		difficulty += strain * weight
		weight *= decayWeight
	}

	return difficulty
}

// strainSections buckets strain values into fixed-length sections and records
// the peak of each. The currently open section is kept separate so reading
// the peaks never mutates the saved series; this is what lets the gradual
// evaluators agree bit-for-bit with a one-shot pass.
type strainSections struct {
	peaks          []float64
	curSectionPeak float64
	curSectionEnd  float64
}

// startAt snaps the first section boundary to the section grid at or after
// the first processed object.
func (s *strainSections) startAt(time float64) {
	s.curSectionEnd = math.Ceil(time/sectionLen) * sectionLen
}

func (s *strainSections) saveCurrentPeak() {
	s.peaks = append(s.peaks, s.curSectionPeak)
}

func (s *strainSections) startNewSection(initialStrain float64) {
	s.curSectionPeak = initialStrain
}

func (s *strainSections) raisePeak(strain float64) {
	s.curSectionPeak = math.Max(strain, s.curSectionPeak)
}

// currentPeaks returns the full chronological peak series including the open
// section, leaving the saved series untouched.
func (s *strainSections) currentPeaks() []float64 {
	peaks := make([]float64, 0, len(s.peaks)+1)
	peaks = append(peaks, s.peaks...)
	peaks = append(peaks, s.curSectionPeak)

	return peaks
}
