package deal

// transitions is the static stage-transition table. It is a lookup only; the
// deal service enforces the same rules authoritatively, the table here exists
// so the CLI can reject obviously illegal moves before a round trip.
var transitions = map[Stage][]Stage{
	StageInbound:     {StageScreening, StageDead},
	StageScreening:   {StageDiligence, StageDead},
	StageDiligence:   {StageNegotiation, StageDead},
	StageNegotiation: {StageClosing, StageDiligence, StageDead},
	StageClosing:     {StageClosed, StageNegotiation, StageDead},
	StageClosed:      {},
	StageDead:        {StageInbound},
}

// Next returns the stages a deal in the given stage may move to. The returned
// slice is a copy; callers may mutate it.
func Next(from Stage) []Stage {
	next, ok := transitions[from]
	if !ok {
		return nil
	}
	out := make([]Stage, len(next))
	copy(out, next)
	return out
}

// CanTransition reports whether the table allows moving from one stage
// to another.
func CanTransition(from, to Stage) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
