package pp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func circleAt(x, y, start float64) HitObject {
	return HitObject{Pos: Pos2{X: x, Y: y}, StartTime: start, EndTime: start, Kind: KindCircle}
}

// jumpChart is a simple back-and-forth jump pattern.
func jumpChart() *Beatmap {
	m := &Beatmap{Mode: ModeOsu, CS: 4.0, OD: 8.0, AR: 9.0}
	for i := 0; i < 16; i++ {
		x := 100.0
		if i%2 == 1 {
			x = 400.0
		}
		m.HitObjects = append(m.HitObjects, circleAt(x, 200.0, float64(i)*300.0))
	}

	return m
}

func TestOsuStarsDeterministic(t *testing.T) {
	m := jumpChart()

	first := NewOsuStars(m).Calculate()
	second := NewOsuStars(m).Calculate()

	require.Equal(t, first, second)
	require.Positive(t, first.Stars)
	require.Positive(t, first.AimStrain)
	require.Positive(t, first.SpeedStrain)
}

func TestOsuStarsBlend(t *testing.T) {
	attrs := NewOsuStars(jumpChart()).Calculate()

	want := attrs.AimStrain + attrs.SpeedStrain +
		math.Abs(attrs.AimStrain-attrs.SpeedStrain)/2.0
	require.InDelta(t, want, attrs.Stars, 1e-12)
}

func TestOsuStarsODARRoundTrip(t *testing.T) {
	m := &Beatmap{Mode: ModeOsu, CS: 4.0, OD: 7.0, AR: 9.0, HitObjects: []HitObject{
		circleAt(100, 100, 0), circleAt(200, 100, 300),
	}}

	attrs := NewOsuStars(m).Calculate()
	require.InDelta(t, 7.0, attrs.OD, 1e-12)
	require.InDelta(t, 9.0, attrs.AR, 1e-12)

	// Double time squeezes the windows, read back on the 0-10 scale.
	dt := NewOsuStars(m).Mods(ModDoubleTime).Calculate()
	require.InDelta(t, (1200.0-600.0/1.5)/150.0+5.0, dt.AR, 1e-12)
	require.Greater(t, dt.OD, attrs.OD)
}

func TestOsuStarsCounts(t *testing.T) {
	m := &Beatmap{
		Mode: ModeOsu, CS: 4.0, OD: 8.0, AR: 9.0,
		SliderMultiplier: 1.0,
		SliderTickRate:   1.0,
		TimingPoints: []TimingPoint{
			{Time: 0, BeatLen: 500.0, SpeedMultiplier: 1.0, Uninherited: true},
		},
		HitObjects: []HitObject{
			circleAt(100, 100, 0),
			{
				Pos: Pos2{X: 200, Y: 100}, StartTime: 500, EndTime: 500,
				Kind: KindSlider, Repeats: 1, PixelLen: 100.0,
			},
			circleAt(300, 100, 1500),
			{Pos: Pos2{X: 256, Y: 192}, StartTime: 2000, EndTime: 3000, Kind: KindSpinner},
		},
	}

	attrs := NewOsuStars(m).Calculate()
	require.Equal(t, 2, attrs.NCircles)
	require.Equal(t, 1, attrs.NSliders)
	require.Equal(t, 1, attrs.NSpinners)

	// The 100px slider spans one 500ms beat and carries no ticks, so it is
	// worth its head plus one span end.
	require.Equal(t, 2+2+1, attrs.MaxCombo)

	limited := NewOsuStars(m).PassedObjects(2).Calculate()
	require.Equal(t, 1, limited.NCircles)
	require.Equal(t, 1, limited.NSliders)
	require.Equal(t, 0, limited.NSpinners)
}

func TestOsuSpacingRaisesAim(t *testing.T) {
	spaced := jumpChart()

	stacked := &Beatmap{Mode: ModeOsu, CS: 4.0, OD: 8.0, AR: 9.0}
	for i := 0; i < 16; i++ {
		stacked.HitObjects = append(stacked.HitObjects, circleAt(256, 192, float64(i)*300.0))
	}

	require.Greater(t,
		NewOsuStars(spaced).Calculate().AimStrain,
		NewOsuStars(stacked).Calculate().AimStrain,
	)
}

func TestOsuStrains(t *testing.T) {
	strains := NewOsuStars(jumpChart()).Strains()

	require.Equal(t, 400.0, strains.SectionLen)
	require.Positive(t, strains.Len())
	require.Len(t, strains.Speed, strains.Len())
}

func TestOsuToManiaCarriesConfig(t *testing.T) {
	m := jumpChart()

	viaOsu := NewOsuStars(m).Mods(ModDoubleTime).PassedObjects(8).ToMania().Calculate()
	direct := NewManiaStars(m).Mods(ModDoubleTime).PassedObjects(8).Calculate()

	require.Equal(t, direct, viaOsu)
}

func TestOsuClockRateMustBePositive(t *testing.T) {
	require.Panics(t, func() {
		NewOsuStars(jumpChart()).ClockRate(-1).Calculate()
	})
}

func TestOsuDifficultyObjects(t *testing.T) {
	m := &Beatmap{Mode: ModeOsu, CS: 4.0, HitObjects: []HitObject{
		circleAt(0, 0, 0),
		circleAt(100, 0, 20),
		circleAt(200, 0, 620),
	}}

	objects := osuDifficultyObjects(m, 0, 1.0, len(m.HitObjects))
	require.Len(t, objects, 2)

	// Delta times below 50ms are floored for strain purposes only.
	require.Equal(t, 20.0, objects[0].DeltaTime)
	require.Equal(t, 50.0, objects[0].StrainTime)
	require.Equal(t, 600.0, objects[1].StrainTime)

	// The first pair spans no angle; a straight line reads as pi.
	require.Nil(t, objects[0].Angle)
	require.NotNil(t, objects[1].Angle)
	require.InDelta(t, math.Pi, *objects[1].Angle, 1e-12)
}

func TestOsuDifficultyObjectsSpinnersCarryNoDistance(t *testing.T) {
	m := &Beatmap{Mode: ModeOsu, CS: 4.0, HitObjects: []HitObject{
		circleAt(0, 0, 0),
		{Pos: Pos2{X: 256, Y: 192}, StartTime: 400, EndTime: 800, Kind: KindSpinner},
		circleAt(400, 0, 1200),
	}}

	objects := osuDifficultyObjects(m, 0, 1.0, len(m.HitObjects))
	require.Len(t, objects, 2)
	require.Zero(t, objects[0].JumpDistance)
	require.Zero(t, objects[1].JumpDistance)
	require.Nil(t, objects[1].Angle)
}
