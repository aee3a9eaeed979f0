package pp

// Mods is the osu!api bitset encoding of game modifiers.
//
// See https://github.com/ppy/osu-api/wiki#mods
type Mods uint32

const (
	ModNoFail Mods = 1 << iota
	ModEasy
	ModTouchDevice
	ModHidden
	ModHardRock
	ModSuddenDeath
	ModDoubleTime
	ModRelax
	ModHalfTime
	ModNightcore // always set together with DoubleTime
	ModFlashlight
)

func (m Mods) NF() bool { return m&ModNoFail != 0 }
func (m Mods) EZ() bool { return m&ModEasy != 0 }
func (m Mods) TD() bool { return m&ModTouchDevice != 0 }
func (m Mods) HD() bool { return m&ModHidden != 0 }
func (m Mods) HR() bool { return m&ModHardRock != 0 }
func (m Mods) DT() bool { return m&ModDoubleTime != 0 }
func (m Mods) HT() bool { return m&ModHalfTime != 0 }
func (m Mods) FL() bool { return m&ModFlashlight != 0 }

// ClockRate resolves the playback rate implied by the speed-changing mods:
// 1.5 for DT/NC, 0.75 for HT and 1.0 otherwise.
func (m Mods) ClockRate() float64 {
	if m.DT() {
		return 1.5
	}
	if m.HT() {
		return 0.75
	}

	return 1.0
}

// ODARHPMultiplier is the scaling HR/EZ apply to the base difficulty settings.
func (m Mods) ODARHPMultiplier() float64 {
	if m.HR() {
		return 1.4
	}
	if m.EZ() {
		return 0.5
	}

	return 1.0
}
