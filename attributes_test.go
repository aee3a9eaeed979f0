package pp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDifficultyRange(t *testing.T) {
	// The calibration triple is hit exactly at the 0/5/10 settings.
	require.Equal(t, 80.0, DifficultyRange(0, 80, 50, 20))
	require.Equal(t, 50.0, DifficultyRange(5, 80, 50, 20))
	require.Equal(t, 20.0, DifficultyRange(10, 80, 50, 20))

	// Each side interpolates linearly.
	require.Equal(t, 65.0, DifficultyRange(2.5, 80, 50, 20))
	require.Equal(t, 35.0, DifficultyRange(7.5, 80, 50, 20))

	// Settings beyond the scale extrapolate on the same line.
	require.Equal(t, 14.0, DifficultyRange(11, 80, 50, 20))
}

func TestHitWindowsOsu(t *testing.T) {
	m := &Beatmap{Mode: ModeOsu, OD: 5.0, AR: 5.0}

	windows := m.Attributes().HitWindows()
	require.Equal(t, 50.0, windows.OD)
	require.Equal(t, 1200.0, windows.AR)

	// Rate-adjusting mods shrink the perceived windows.
	dt := m.Attributes().Mods(ModDoubleTime).HitWindows()
	require.InDelta(t, 50.0/1.5, dt.OD, 1e-12)
	require.InDelta(t, 1200.0/1.5, dt.AR, 1e-12)
}

func TestHitWindowsOsuHardRockCap(t *testing.T) {
	m := &Beatmap{Mode: ModeOsu, OD: 9.0, AR: 9.0}

	// 9 * 1.4 caps at 10.
	windows := m.Attributes().Mods(ModHardRock).HitWindows()
	require.Equal(t, 20.0, windows.OD)
	require.Equal(t, 450.0, windows.AR)
}

func TestHitWindowsManiaNative(t *testing.T) {
	m := &Beatmap{Mode: ModeMania, OD: 8.2}

	windows := m.Attributes().HitWindows()
	// 34 + 3 * 1.8 floored to a whole millisecond.
	require.Equal(t, 39.0, windows.OD)
}

func TestHitWindowsManiaNativeWithRate(t *testing.T) {
	m := &Beatmap{Mode: ModeMania, OD: 8.2}

	windows := m.Attributes().ClockRate(1.5).HitWindows()
	// Flooring happens in real time, then maps back to rate-adjusted time.
	require.InDelta(t, 59.0/1.5, windows.OD, 1e-12)
}

func TestHitWindowsManiaConvert(t *testing.T) {
	strict := (&Beatmap{Mode: ModeMania, OD: 8.0}).Attributes().Converted(true).HitWindows()
	require.Equal(t, 34.0, strict.OD)

	lenient := (&Beatmap{Mode: ModeMania, OD: 4.0}).Attributes().Converted(true).HitWindows()
	require.Equal(t, 47.0, lenient.OD)
}

func TestHitWindowsClockRateOverridesMods(t *testing.T) {
	m := &Beatmap{Mode: ModeOsu, OD: 5.0, AR: 5.0}

	windows := m.Attributes().Mods(ModDoubleTime).ClockRate(1.0).HitWindows()
	require.Equal(t, 50.0, windows.OD)
}
