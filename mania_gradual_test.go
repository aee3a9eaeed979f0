package pp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func gradualTestChart() *Beatmap {
	return &Beatmap{Mode: ModeMania, CS: 4.0, OD: 8.0, HitObjects: []HitObject{
		maniaNote(0, 4, 0),
		maniaNote(1, 4, 0),
		maniaNote(2, 4, 150),
		maniaHold(3, 4, 300, 900),
		maniaNote(0, 4, 450),
		maniaNote(1, 4, 600),
		maniaNote(2, 4, 600),
		maniaNote(0, 4, 1200),
		maniaNote(3, 4, 1350),
		maniaNote(1, 4, 2100),
		maniaNote(2, 4, 2250),
		maniaNote(0, 4, 2400),
	}}
}

func TestManiaGradualMatchesOneShot(t *testing.T) {
	m := gradualTestChart()

	gradual := NewManiaStars(m).GradualDifficulty()
	require.Equal(t, len(m.HitObjects), gradual.Remaining())

	for n := 1; n <= len(m.HitObjects); n++ {
		step, ok := gradual.Next()
		require.True(t, ok)

		oneShot := NewManiaStars(m).PassedObjects(n).Calculate()
		require.Equal(t, oneShot, step, "object %d", n)
	}

	_, ok := gradual.Next()
	require.False(t, ok)
	require.Zero(t, gradual.Remaining())
}

func TestManiaGradualMatchesOneShotWithMods(t *testing.T) {
	m := gradualTestChart()

	gradual := NewManiaStars(m).Mods(ModDoubleTime).GradualDifficulty()

	for n := 1; n <= len(m.HitObjects); n++ {
		step, ok := gradual.Next()
		require.True(t, ok)

		oneShot := NewManiaStars(m).Mods(ModDoubleTime).PassedObjects(n).Calculate()
		require.Equal(t, oneShot, step, "object %d", n)
	}
}

func TestManiaGradualFirstNote(t *testing.T) {
	m := gradualTestChart()

	attrs, ok := NewManiaStars(m).GradualDifficulty().Next()
	require.True(t, ok)

	// A single note carries no strain but the hit window is already known.
	require.Zero(t, attrs.Stars)
	require.Equal(t, 40.0, attrs.HitWindow)
}

func TestManiaGradualHonorsPassedObjects(t *testing.T) {
	m := gradualTestChart()

	gradual := NewManiaStars(m).PassedObjects(5).GradualDifficulty()
	require.Equal(t, 5, gradual.Remaining())

	var last ManiaDifficultyAttributes
	for {
		attrs, ok := gradual.Next()
		if !ok {
			break
		}
		last = attrs
	}

	require.Equal(t, NewManiaStars(m).PassedObjects(5).Calculate(), last)
}

func TestManiaGradualPerformance(t *testing.T) {
	m := gradualTestChart()
	total := len(m.HitObjects)

	gradual := NewManiaPP(m).GradualPerformance()

	var last ManiaPerformanceAttributes
	for n := 1; n <= total; n++ {
		state := ManiaScoreState{N320: n}
		perf, ok := gradual.Process(state)
		require.True(t, ok)
		last = perf
	}

	_, ok := gradual.Process(ManiaScoreState{N320: total})
	require.False(t, ok)

	// The final step agrees with a one-shot calculation over the full chart.
	full := NewManiaPP(m).State(ManiaScoreState{N320: total}).Calculate()
	require.Equal(t, full, last)
}

func TestManiaGradualPerformanceProcessMany(t *testing.T) {
	m := gradualTestChart()
	total := len(m.HitObjects)

	gradual := NewManiaPP(m).GradualPerformance()

	state := ManiaScoreState{N320: total}

	// Too many or too few notes leave the evaluator untouched.
	_, ok := gradual.ProcessMany(state, total+1)
	require.False(t, ok)
	_, ok = gradual.ProcessMany(state, 0)
	require.False(t, ok)
	require.Equal(t, total, gradual.Remaining())

	perf, ok := gradual.ProcessMany(state, total)
	require.True(t, ok)

	full := NewManiaPP(m).State(state).Calculate()
	require.Equal(t, full, perf)
}
