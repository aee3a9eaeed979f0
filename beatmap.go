package pp

import (
	"math"

	"github.com/Niotid/akatsuki-pp-go/dotosu"
)

// GameMode enumerates the four osu! rulesets.
type GameMode uint8

const (
	ModeOsu GameMode = iota
	ModeTaiko
	ModeCatch
	ModeMania
)

// ObjectKind is the gameplay-relevant kind of a hit object.
type ObjectKind uint8

const (
	KindCircle ObjectKind = iota
	KindSlider
	KindSpinner
	KindHold
)

type Pos2 struct {
	X, Y float64
}

func (p Pos2) Distance(other Pos2) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// HitObject is one note of a chart: immutable, owned by its Beatmap.
type HitObject struct {
	Pos       Pos2
	StartTime float64
	EndTime   float64 // equal to StartTime for circles and slider heads
	Kind      ObjectKind

	// Slider-only fields.
	Repeats  int
	PixelLen float64
}

func (h *HitObject) IsCircle() bool  { return h.Kind == KindCircle }
func (h *HitObject) IsSlider() bool  { return h.Kind == KindSlider }
func (h *HitObject) IsSpinner() bool { return h.Kind == KindSpinner }
func (h *HitObject) IsHold() bool    { return h.Kind == KindHold }

// TimingPoint is the subset of a control point needed for difficulty:
// uninherited points carry the beat length, inherited ones a velocity multiplier.
type TimingPoint struct {
	Time            float64
	BeatLen         float64
	SpeedMultiplier float64
	Uninherited     bool
}

// Beatmap is the read-only chart handed to the calculators.
//
// HitObjects are guaranteed time-ascending by the chart provider;
// the calculators never re-sort.
type Beatmap struct {
	Mode GameMode

	CS float64
	OD float64
	AR float64
	HP float64

	SliderMultiplier float64
	SliderTickRate   float64

	TimingPoints []TimingPoint
	HitObjects   []HitObject
}

// Convert reinterprets the beatmap under another mode's rules. The receiver is
// returned unchanged when it already is in the requested mode; otherwise an
// owned copy with the new mode tag is returned. Callers use the pointer
// identity to mark results as converted.
func (m *Beatmap) Convert(mode GameMode) *Beatmap {
	if m.Mode == mode {
		return m
	}

	converted := *m
	converted.Mode = mode

	return &converted
}

// FromDotosu builds the calculation model from a decoded .osu file.
func FromDotosu(b *dotosu.Beatmap) *Beatmap {
	m := &Beatmap{
		Mode:             GameMode(b.General.Mode),
		CS:               b.Difficulty.CircleSize,
		OD:               b.Difficulty.OverallDifficulty,
		AR:               b.Difficulty.ApproachRate,
		HP:               b.Difficulty.HPDrainRate,
		SliderMultiplier: b.Difficulty.SliderMultiplier,
		SliderTickRate:   b.Difficulty.SliderTickRate,
	}

	m.TimingPoints = make([]TimingPoint, 0, len(b.TimingPoints))
	for _, tp := range b.TimingPoints {
		m.TimingPoints = append(m.TimingPoints, TimingPoint{
			Time:            float64(tp.Time),
			BeatLen:         tp.BeatLength,
			SpeedMultiplier: tp.SliderVelocityMultiplier,
			Uninherited:     tp.TimingChange,
		})
	}

	m.HitObjects = make([]HitObject, 0, len(b.HitObjects))
	for _, obj := range b.HitObjects {
		pos := Pos2{X: float64(obj.Pos().X), Y: float64(obj.Pos().Y)}
		start := float64(obj.StartTime())

		switch obj := obj.(type) {
		case dotosu.Circle:
			m.HitObjects = append(m.HitObjects, HitObject{
				Pos: pos, StartTime: start, EndTime: start, Kind: KindCircle,
			})
		case dotosu.Slider:
			m.HitObjects = append(m.HitObjects, HitObject{
				Pos: pos, StartTime: start, EndTime: start, Kind: KindSlider,
				Repeats: obj.Slides, PixelLen: obj.Length,
			})
		case dotosu.Spinner:
			m.HitObjects = append(m.HitObjects, HitObject{
				Pos: pos, StartTime: start, EndTime: float64(obj.EndTime), Kind: KindSpinner,
			})
		case dotosu.Hold:
			m.HitObjects = append(m.HitObjects, HitObject{
				Pos: pos, StartTime: start, EndTime: float64(obj.EndTime), Kind: KindHold,
			})
		}
	}

	return m
}

// beatLenAt returns the uninherited beat length and the inherited velocity
// multiplier active at the given time, walking the control points the way
// gameplay does: the last point at or before the object wins.
func (m *Beatmap) beatLenAt(time float64) (beatLen, speedMultiplier float64) {
	beatLen = 600.0 // 100 BPM fallback for charts without timing points
	speedMultiplier = 1.0
	seenUninherited := false

	for i := range m.TimingPoints {
		tp := &m.TimingPoints[i]
		if tp.Time > time && seenUninherited {
			break
		}
		if tp.Uninherited {
			if !math.IsNaN(tp.BeatLen) && tp.BeatLen > 0 {
				beatLen = tp.BeatLen
			}
			speedMultiplier = 1.0
			seenUninherited = true
		} else {
			speedMultiplier = math.Max(0.1, tp.SpeedMultiplier)
		}
	}

	return beatLen, speedMultiplier
}
