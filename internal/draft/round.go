package draft

// Round owns one pack per player plus the parallel hand-off flags. Both
// slices are built together at the same length and never resized, so a valid
// pack index is always a valid ready index. Ready[i] means pack i has just
// been vacated by a pick and may be handed to the next player in rotation;
// it says nothing about the pack's contents.
type Round struct {
	Packs []Pack
	Ready []bool
}

func NewRound(packs []Pack) *Round {
	return &Round{
		Packs: packs,
		Ready: make([]bool, len(packs)),
	}
}

// Exhausted reports whether every pack in the round is empty.
func (r *Round) Exhausted() bool {
	for _, p := range r.Packs {
		if len(p) > 0 {
			return false
		}
	}
	return true
}
