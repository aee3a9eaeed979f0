package pp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func osuTestAttributes() OsuDifficultyAttributes {
	return OsuDifficultyAttributes{
		Stars:       5.2,
		AimStrain:   2.6,
		SpeedStrain: 2.2,
		AR:          9.0,
		OD:          8.0,
		MaxCombo:    500,
		NCircles:    300,
		NSliders:    90,
		NSpinners:   2,
	}
}

func TestOsuScoreStateAccuracy(t *testing.T) {
	require.Zero(t, OsuScoreState{}.Accuracy())

	ss := OsuScoreState{N300: 100}
	require.Equal(t, 1.0, ss.Accuracy())

	mixed := OsuScoreState{N300: 95, N100: 3, N50: 1, NMisses: 1}
	require.Equal(t, 100, mixed.TotalHits())
	require.InDelta(t, float64(6*95+2*3+1)/float64(6*100), mixed.Accuracy(), 1e-12)
}

func TestOsuPPPerfectPlay(t *testing.T) {
	attrs := osuTestAttributes()
	state := OsuScoreState{MaxCombo: 500, N300: 392}

	perf := NewOsuPP(&Beatmap{Mode: ModeOsu}).
		Attributes(attrs).
		State(state).
		Calculate()

	require.Positive(t, perf.PP)
	require.Positive(t, perf.PPAim)
	require.Positive(t, perf.PPSpeed)
	require.Positive(t, perf.PPAcc)

	// The blend never exceeds the weighted sum of its parts.
	upper := (perf.PPAim + perf.PPSpeed + perf.PPAcc) * 1.12
	require.LessOrEqual(t, perf.PP, upper)
}

func TestOsuPPMissesReducePP(t *testing.T) {
	attrs := osuTestAttributes()

	perfect := NewOsuPP(&Beatmap{Mode: ModeOsu}).
		Attributes(attrs).
		State(OsuScoreState{MaxCombo: 500, N300: 392}).
		Calculate()
	missed := NewOsuPP(&Beatmap{Mode: ModeOsu}).
		Attributes(attrs).
		State(OsuScoreState{MaxCombo: 500, N300: 387, NMisses: 5}).
		Calculate()

	require.Less(t, missed.PP, perfect.PP)
}

func TestOsuPPComboScaling(t *testing.T) {
	attrs := osuTestAttributes()

	full := NewOsuPP(&Beatmap{Mode: ModeOsu}).
		Attributes(attrs).
		State(OsuScoreState{MaxCombo: 500, N300: 392}).
		Calculate()
	broken := NewOsuPP(&Beatmap{Mode: ModeOsu}).
		Attributes(attrs).
		State(OsuScoreState{MaxCombo: 250, N300: 392}).
		Calculate()

	require.Less(t, broken.PPAim, full.PPAim)
	require.Less(t, broken.PPSpeed, full.PPSpeed)
	// Accuracy pp ignores combo.
	require.Equal(t, full.PPAcc, broken.PPAcc)
}

func TestOsuPPNoFailMultiplier(t *testing.T) {
	attrs := osuTestAttributes()
	state := OsuScoreState{MaxCombo: 500, N300: 392}

	base := NewOsuPP(&Beatmap{Mode: ModeOsu}).
		Attributes(attrs).
		State(state).
		Calculate()
	nf := NewOsuPP(&Beatmap{Mode: ModeOsu}).
		Attributes(attrs).
		Mods(ModNoFail).
		State(state).
		Calculate()

	require.InDelta(t, base.PP*0.90, nf.PP, 1e-9)
}

func TestOsuPPAccValue(t *testing.T) {
	attrs := osuTestAttributes()
	// SS: every judged object is a 300.
	state := OsuScoreState{MaxCombo: 500, N300: 392}

	perf := NewOsuPP(&Beatmap{Mode: ModeOsu}).
		Attributes(attrs).
		State(state).
		Calculate()

	want := math.Pow(1.52163, attrs.OD) * 2.83 *
		math.Min(1.15, math.Pow(float64(attrs.NCircles)/1000.0, 0.3))
	require.InDelta(t, want, perf.PPAcc, 1e-9)
}

func TestOsuPPHiddenBoostsAcc(t *testing.T) {
	attrs := osuTestAttributes()
	state := OsuScoreState{MaxCombo: 500, N300: 392}

	base := NewOsuPP(&Beatmap{Mode: ModeOsu}).
		Attributes(attrs).
		State(state).
		Calculate()
	hd := NewOsuPP(&Beatmap{Mode: ModeOsu}).
		Attributes(attrs).
		Mods(ModHidden).
		State(state).
		Calculate()

	require.InDelta(t, base.PPAcc*1.08, hd.PPAcc, 1e-9)
}

func TestOsuPPWithoutAttributesRunsStrainPass(t *testing.T) {
	m := jumpChart()
	attrs := NewOsuStars(m).Calculate()

	perf := NewOsuPP(m).
		State(OsuScoreState{MaxCombo: attrs.MaxCombo, N300: len(m.HitObjects)}).
		Calculate()

	require.Equal(t, attrs, perf.Difficulty)
}
