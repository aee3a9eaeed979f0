package pp

import "math"

const (
	// Strain times below 50ms (streams beyond 600 BPM) are capped.
	minStrainTime = 50.0

	normalizedRadius = 52.0
)

// OsuDifficultyObject pairs a hit object with its predecessor, carrying
// rate-adjusted timing and radius-normalized jump geometry.
type OsuDifficultyObject struct {
	Idx       int
	StartTime float64
	DeltaTime float64
	// StrainTime is the delta time floored to minStrainTime.
	StrainTime float64
	// JumpDistance is the distance from the previous object, normalized so a
	// one-radius jump is comparable across circle sizes.
	JumpDistance float64
	// Angle spanned by the last three objects, nil for the first pair.
	Angle *float64

	kind ObjectKind
}

func (h *OsuDifficultyObject) IsSpinner() bool { return h.kind == KindSpinner }

// circleRadius is the playfield radius in osu!pixels for a circle size.
func circleRadius(cs float64) float64 {
	return 54.4 - 4.48*cs
}

// osuDifficultyObjects builds the ordered difficulty-object sequence over the
// first take hit objects. The first object has no predecessor and yields none.
func osuDifficultyObjects(m *Beatmap, mods Mods, clockRate float64, take int) []OsuDifficultyObject {
	if take > len(m.HitObjects) {
		take = len(m.HitObjects)
	}
	if take < 2 {
		return nil
	}

	cs := m.CS
	if mods.HR() {
		cs = math.Min(cs*1.3, 10.0)
	} else if mods.EZ() {
		cs *= 0.5
	}

	radius := circleRadius(cs)
	scalingFactor := normalizedRadius / radius
	if radius < 30.0 {
		// Small-circle bonus.
		scalingFactor *= 1.0 + math.Min(30.0-radius, 5.0)/50.0
	}

	objects := make([]OsuDifficultyObject, 0, take-1)

	for i := 1; i < take; i++ {
		base := &m.HitObjects[i]
		prev := &m.HitObjects[i-1]

		delta := (base.StartTime - prev.StartTime) / clockRate

		var jumpDist float64
		if !base.IsSpinner() && !prev.IsSpinner() {
			jumpDist = base.Pos.Distance(prev.Pos) * scalingFactor
		}

		var angle *float64
		if i >= 2 {
			prevPrev := &m.HitObjects[i-2]
			if !base.IsSpinner() && !prev.IsSpinner() && !prevPrev.IsSpinner() {
				v1x := prevPrev.Pos.X - prev.Pos.X
				v1y := prevPrev.Pos.Y - prev.Pos.Y
				v2x := base.Pos.X - prev.Pos.X
				v2y := base.Pos.Y - prev.Pos.Y

				dot := v1x*v2x + v1y*v2y
				det := v1x*v2y - v1y*v2x

				a := math.Abs(math.Atan2(det, dot))
				angle = &a
			}
		}

		objects = append(objects, OsuDifficultyObject{
			Idx:          i - 1,
			StartTime:    base.StartTime / clockRate,
			DeltaTime:    delta,
			StrainTime:   math.Max(delta, minStrainTime),
			JumpDistance: jumpDist,
			Angle:        angle,
			kind:         base.Kind,
		})
	}

	return objects
}
