package shipcaptaincrew

import "encoding/json"

// Phase is a step in a hand
type Phase int

// Phase constants, in the order a hand moves through them
const (
	PhaseLobby Phase = iota
	PhaseAnte
	PhaseRoll1
	PhaseLock1
	PhaseBet1
	PhaseRoll2
	PhaseLock2
	PhaseBet2
	PhaseRoll3
	PhaseLock3
	PhaseRoll4
	PhaseBet3
	PhaseShowdown
	PhasePayout
	PhaseHandEnd
)

var phaseNames = map[Phase]string{
	PhaseLobby:    "lobby",
	PhaseAnte:     "ante",
	PhaseRoll1:    "roll1",
	PhaseLock1:    "lock1",
	PhaseBet1:     "bet1",
	PhaseRoll2:    "roll2",
	PhaseLock2:    "lock2",
	PhaseBet2:     "bet2",
	PhaseRoll3:    "roll3",
	PhaseLock3:    "lock3",
	PhaseRoll4:    "roll4",
	PhaseBet3:     "bet3",
	PhaseShowdown: "showdown",
	PhasePayout:   "payout",
	PhaseHandEnd:  "handEnd",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}

	return "unknown"
}

// MarshalJSON encodes the phase by name
func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// transitions are the only moves a hand can make
// HandEnd returns to Ante or falls back to Lobby, and any in-hand phase can short-circuit to HandEnd.
var transitions = map[Phase][]Phase{
	PhaseLobby:    {PhaseAnte},
	PhaseAnte:     {PhaseRoll1, PhaseLobby},
	PhaseRoll1:    {PhaseLock1},
	PhaseLock1:    {PhaseBet1},
	PhaseBet1:     {PhaseRoll2},
	PhaseRoll2:    {PhaseLock2},
	PhaseLock2:    {PhaseBet2},
	PhaseBet2:     {PhaseRoll3},
	PhaseRoll3:    {PhaseLock3},
	PhaseLock3:    {PhaseRoll4},
	PhaseRoll4:    {PhaseBet3},
	PhaseBet3:     {PhaseShowdown},
	PhaseShowdown: {PhasePayout},
	PhasePayout:   {PhaseHandEnd},
	PhaseHandEnd:  {PhaseAnte, PhaseLobby},
}

// canTransition returns true if a hand may move from one phase to the other
func canTransition(from, to Phase) bool {
	if to == PhaseHandEnd && from.InHand() {
		return true
	}

	for _, p := range transitions[from] {
		if p == to {
			return true
		}
	}

	return false
}

// next returns the phase that follows in a normal hand
func (p Phase) next() Phase {
	return transitions[p][0]
}

// InHand returns true while a hand is being played
func (p Phase) InHand() bool {
	return p >= PhaseAnte && p < PhaseHandEnd
}

// IsRoll returns true for a roll phase
func (p Phase) IsRoll() bool {
	return p == PhaseRoll1 || p == PhaseRoll2 || p == PhaseRoll3 || p == PhaseRoll4
}

// IsLock returns true for a lock phase
func (p Phase) IsLock() bool {
	return p == PhaseLock1 || p == PhaseLock2 || p == PhaseLock3
}

// IsBet returns true for a betting phase
func (p Phase) IsBet() bool {
	return p == PhaseBet1 || p == PhaseBet2 || p == PhaseBet3
}

// Round returns which of the three rounds the phase belongs to, or zero
// Roll4 belongs to the third round.
func (p Phase) Round() int {
	switch p {
	case PhaseRoll1, PhaseLock1, PhaseBet1:
		return 1
	case PhaseRoll2, PhaseLock2, PhaseBet2:
		return 2
	case PhaseRoll3, PhaseLock3, PhaseRoll4, PhaseBet3:
		return 3
	}

	return 0
}

// rollsRemaining is how many more times unlocked dice will be rolled after this phase
func (p Phase) rollsRemaining() int {
	switch {
	case p <= PhaseBet1 && p >= PhaseRoll1:
		return 3
	case p <= PhaseBet2 && p >= PhaseRoll2:
		return 2
	case p <= PhaseLock3 && p >= PhaseRoll3:
		return 1
	}

	return 0
}
