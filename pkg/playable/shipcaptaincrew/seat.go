package shipcaptaincrew

import (
	"time"

	"shipcaptaincrew-server/pkg/dice"
	"shipcaptaincrew-server/pkg/playable/shipcaptaincrew/ai"
)

// Seat is a player sitting at the table
// A seat persists across hands until the player stands.
type Seat struct {
	PlayerID    int64
	Name        string
	Index       int
	Personality string

	stack int
	dice  dice.Hand
	bot   *ai.Bot

	inHand     bool
	sittingOut bool
	lockDone   bool
	allowance  int
	lastLockAt time.Time
	leaving    bool
}

// ID returns the player's ID
func (s *Seat) ID() int64 {
	return s.PlayerID
}

// Balance returns the seat's table stack
func (s *Seat) Balance() int {
	return s.stack
}

// AdjustBalance adds to the table stack
func (s *Seat) AdjustBalance(amount int) {
	s.stack += amount
}

// IsBot returns true if the seat is played by the computer
func (s *Seat) IsBot() bool {
	return s.bot != nil
}

// Dice returns the seat's dice
func (s *Seat) Dice() dice.Hand {
	return s.dice
}

func (s *Seat) resetForHand() {
	s.dice.Reset()
	s.inHand = false
	s.sittingOut = false
	s.lockDone = false
	s.allowance = 0
	s.lastLockAt = time.Time{}
}
