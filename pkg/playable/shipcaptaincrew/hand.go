package shipcaptaincrew

import (
	"shipcaptaincrew-server/pkg/dice"
	"shipcaptaincrew-server/pkg/playable/shipcaptaincrew/cargochest"
	"shipcaptaincrew-server/pkg/playable/shipcaptaincrew/potmanager"
	"shipcaptaincrew-server/pkg/playable/shipcaptaincrew/roles"
)

// Hand is a single played round at the table
// It is created at Ante and discarded when the next hand starts.
type Hand struct {
	ID     string
	Number int
	Dealer int64
	Ante   int

	// seats are the seats dealt in, in betting order starting after the dealer
	seats    []*Seat
	pot      *potmanager.PotManager
	antePaid map[int64]int

	// startTotal is every chip at the table before the ante, for the conservation audit
	startTotal int
	showdown   *Showdown
	result     *HandResult
	settled    bool
}

// Showdown is the evaluation of final dice, before anything is paid
type Showdown struct {
	Payout        *roles.Result       `json:"payout"`
	ChestEligible map[int64]bool      `json:"chestEligible"`
	Claims        []cargochest.Claim  `json:"claims"`
	ChestWinner   *cargochest.Claim   `json:"chestWinner,omitempty"`
	Dice          map[int64]dice.Hand `json:"dice"`
}

// HandResult is what a finished hand paid out
type HandResult struct {
	HandID      string              `json:"handId"`
	Number      int                 `json:"number"`
	Winnings    map[int64]int       `json:"winnings"`
	Payout      *roles.Result       `json:"payout,omitempty"`
	ChestWinner *cargochest.Claim   `json:"chestWinner,omitempty"`
	ChestAward  int                 `json:"chestAward"`
	BustFees    []roles.Charge      `json:"bustFees,omitempty"`
	Rake        int                 `json:"rake"`
	Carryover   int                 `json:"carryover"`
	EarlyFinish bool                `json:"earlyFinish"`
	Dice        map[int64]dice.Hand `json:"dice,omitempty"`
	// Flagged is set when the hand failed the conservation audit
	Flagged bool `json:"flagged"`
}

// active returns the seats that have not folded
func (h *Hand) active() []*Seat {
	seats := make([]*Seat, 0, len(h.seats))
	for _, s := range h.seats {
		if !h.isFolded(s) {
			seats = append(seats, s)
		}
	}

	return seats
}

func (h *Hand) isFolded(s *Seat) bool {
	pip, err := h.pot.Participant(s.PlayerID)
	if err != nil {
		return true
	}

	return pip.IsFolded()
}

// publicCounts returns each active seat's revealed dice by face
func (h *Hand) publicCounts() map[int64][dice.Sides + 1]int {
	counts := make(map[int64][dice.Sides + 1]int)
	for _, s := range h.active() {
		counts[s.PlayerID] = s.dice.PublicCounts()
	}

	return counts
}

// opponentCounts returns the revealed dice of every active seat except one
func (h *Hand) opponentCounts(except int64) [][dice.Sides + 1]int {
	counts := make([][dice.Sides + 1]int, 0, len(h.seats))
	for _, s := range h.active() {
		if s.PlayerID != except {
			counts = append(counts, s.dice.PublicCounts())
		}
	}

	return counts
}
