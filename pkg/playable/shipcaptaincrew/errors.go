package shipcaptaincrew

import (
	"errors"
	"fmt"
)

// ErrWrongPhase is returned when an action is not allowed in the current phase
var ErrWrongPhase = errors.New("that action is not allowed right now")

// ErrStaleAction is returned when an action targets a phase that has already ended
var ErrStaleAction = errors.New("that action is for a phase that has ended")

// ErrNotSeated is returned when a player without a seat acts
var ErrNotSeated = errors.New("you are not seated at this table")

// ErrNotInHand is returned when a seat that is not in the hand acts
var ErrNotInHand = errors.New("you are not in this hand")

// ErrAlreadySeated is returned when a seated player tries to join again
var ErrAlreadySeated = errors.New("you are already seated")

// ErrSeatTaken is returned when joining an occupied seat
var ErrSeatTaken = errors.New("that seat is taken")

// ErrInvalidSeat is returned when joining a seat that does not exist
var ErrInvalidSeat = errors.New("invalid seat")

// ErrLockDone is returned when locking after signaling the lock phase done
var ErrLockDone = errors.New("you have already finished locking")

// ErrMissingAmount is returned when a bet or raise has no amount
var ErrMissingAmount = errors.New("missing amount")

// ErrMissingDie is returned when a lock toggle has no die
var ErrMissingDie = errors.New("missing die")

// ErrCannotAdvance is returned when an advance is requested while the hand is waiting on players
var ErrCannotAdvance = errors.New("the game cannot be advanced right now")

// ErrNotEnoughPlayers is returned when a hand cannot be started
var ErrNotEnoughPlayers = errors.New("need at least two funded players")

// BuyInError is returned when a buy-in is below the table minimum
type BuyInError struct {
	Min int
	Got int
}

func (b BuyInError) Error() string {
	return fmt.Sprintf("buy-in must be at least %d, got %d", b.Min, b.Got)
}

// UnknownActionError is returned for an action the game does not recognize
type UnknownActionError string

func (u UnknownActionError) Error() string {
	return fmt.Sprintf("unknown action: %s", string(u))
}
