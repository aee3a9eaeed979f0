package pp

import "math"

// ManiaObject wraps a hit object with its resolved column.
type ManiaObject struct {
	StartTime float64
	EndTime   float64
	Column    int
}

// NewManiaObject resolves the column of a hit object. Native mania charts
// encode the column in the x position; converts are binned the same way:
// column = floor(x * columns / 512), clamped to the last column.
func NewManiaObject(h *HitObject, totalColumns int) ManiaObject {
	column := int(math.Floor(h.Pos.X * float64(totalColumns) / 512.0))
	if column > totalColumns-1 {
		column = totalColumns - 1
	}
	if column < 0 {
		column = 0
	}

	endTime := h.EndTime
	if endTime < h.StartTime {
		endTime = h.StartTime
	}

	return ManiaObject{
		StartTime: h.StartTime,
		EndTime:   endTime,
		Column:    column,
	}
}

// ManiaDifficultyObject pairs a note with its predecessor, carrying
// rate-adjusted times. Idx is strictly increasing and matches the object's
// position among the processed notes.
type ManiaDifficultyObject struct {
	Idx       int
	Column    int
	DeltaTime float64
	StartTime float64
	EndTime   float64
}

// NewManiaDifficultyObject derives the difficulty object for base relative to
// the immediately preceding note. All times are divided by the clock rate.
func NewManiaDifficultyObject(base, prev ManiaObject, clockRate float64, idx int) ManiaDifficultyObject {
	return ManiaDifficultyObject{
		Idx:       idx,
		Column:    base.Column,
		DeltaTime: (base.StartTime - prev.StartTime) / clockRate,
		StartTime: base.StartTime / clockRate,
		EndTime:   base.EndTime / clockRate,
	}
}
