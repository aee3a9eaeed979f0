package pp

// ManiaGradualDifficulty processes a mania chart note by note and yields the
// difficulty attributes after each one. The n-th yielded attributes equal a
// one-shot calculation limited to the first n objects; both paths share the
// same strain skill, so the equality holds by construction.
//
// The evaluator retains its accumulator state across calls, making every step
// O(1) amortized. It is stateful and must not be shared across goroutines.
type ManiaGradualDifficulty struct {
	objects   []ManiaDifficultyObject
	strain    *ManiaStrain
	hitWindow float64
	processed int
	total     int
}

// GradualDifficulty creates a gradual evaluator from the configured
// calculator. Mods, clock rate and passed-object limit are honored.
func (s *ManiaStars) GradualDifficulty() *ManiaGradualDifficulty {
	clockRate := s.resolvedClockRate()
	if clockRate <= 0 {
		panic("pp: clock rate must be positive")
	}

	windows := s.m.Attributes().
		Mods(s.mods).
		Converted(s.isConvert).
		ClockRate(clockRate).
		HitWindows()

	take := s.take()

	return &ManiaGradualDifficulty{
		objects:   maniaDifficultyObjects(s.m, clockRate, take),
		strain:    NewManiaStrain(maniaTotalColumns(s.m)),
		hitWindow: windows.OD,
		total:     take,
	}
}

// Remaining is the number of notes not yet processed.
func (g *ManiaGradualDifficulty) Remaining() int {
	return g.total - g.processed
}

// Next feeds the next note into the strain skill and returns the attributes
// of the prefix processed so far. ok is false once all notes are consumed.
func (g *ManiaGradualDifficulty) Next() (attrs ManiaDifficultyAttributes, ok bool) {
	if g.processed >= g.total {
		return ManiaDifficultyAttributes{}, false
	}

	// The first note has no predecessor and therefore no difficulty object.
	if g.processed > 0 {
		curr := &g.objects[g.processed-1]
		g.strain.Process(curr)
	}
	g.processed++

	return ManiaDifficultyAttributes{
		Stars:     g.strain.DifficultyValue() * maniaStarScalingFactor,
		HitWindow: g.hitWindow,
	}, true
}

// ManiaGradualPerformance layers the performance calculator on top of
// ManiaGradualDifficulty, yielding performance attributes for a growing play.
type ManiaGradualPerformance struct {
	difficulty *ManiaGradualDifficulty
	mods       Mods
}

// GradualPerformance creates a gradual performance evaluator from the
// configured calculator.
func (p *ManiaPP) GradualPerformance() *ManiaGradualPerformance {
	return &ManiaGradualPerformance{
		difficulty: p.stars.GradualDifficulty(),
		mods:       p.mods,
	}
}

// Remaining is the number of notes not yet processed.
func (g *ManiaGradualPerformance) Remaining() int {
	return g.difficulty.Remaining()
}

// Process advances by one note and computes the performance attributes for
// the given cumulative judgement state.
func (g *ManiaGradualPerformance) Process(state ManiaScoreState) (ManiaPerformanceAttributes, bool) {
	return g.ProcessMany(state, 1)
}

// ProcessMany advances by n notes and computes the performance attributes for
// the given cumulative judgement state. ok is false when fewer than n notes
// remain; the evaluator is left unchanged in that case.
func (g *ManiaGradualPerformance) ProcessMany(state ManiaScoreState, n int) (ManiaPerformanceAttributes, bool) {
	if n < 1 || n > g.Remaining() {
		return ManiaPerformanceAttributes{}, false
	}

	var attrs ManiaDifficultyAttributes
	for i := 0; i < n; i++ {
		attrs, _ = g.difficulty.Next()
	}

	return maniaPerformance(attrs, g.mods, state), true
}
