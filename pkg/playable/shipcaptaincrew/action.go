package shipcaptaincrew

import (
	"shipcaptaincrew-server/pkg/playable"
)

// ActionType is something a seat can do
type ActionType string

// ActionType constants
const (
	ActionJoin       ActionType = "join"
	ActionStand      ActionType = "stand"
	ActionToggleLock ActionType = "toggleLock"
	ActionLockDone   ActionType = "lockDone"
	ActionBet        ActionType = "bet"
	ActionCall       ActionType = "call"
	ActionRaise      ActionType = "raise"
	ActionFold       ActionType = "fold"
	ActionCheck      ActionType = "check"
	ActionAdvance    ActionType = "advance"
)

// Action is a request from a human or bot
type Action struct {
	Type   ActionType
	Amount int
	Die    int
	Seat   int
	Name   string
	// PhaseID, when set, must match the current phase or the action is rejected
	PhaseID uint64
}

// ActionFromPayload parses a client message
func ActionFromPayload(msg *playable.PayloadIn) (Action, error) {
	a := Action{Type: ActionType(msg.Action)}

	if phaseID, ok := msg.AdditionalData.GetInt("phaseId"); ok && phaseID > 0 {
		a.PhaseID = uint64(phaseID)
	}

	switch a.Type {
	case ActionJoin:
		seat, ok := msg.AdditionalData.GetInt("seat")
		if !ok {
			seat = -1
		}

		amount, ok := msg.AdditionalData.GetInt("buyIn")
		if !ok {
			return a, ErrMissingAmount
		}

		a.Seat = seat
		a.Amount = amount
		a.Name, _ = msg.AdditionalData.GetString("name")
	case ActionToggleLock:
		die, ok := msg.AdditionalData.GetInt("die")
		if !ok {
			return a, ErrMissingDie
		}

		a.Die = die
	case ActionBet, ActionRaise:
		amount, ok := msg.AdditionalData.GetInt("amount")
		if !ok {
			return a, ErrMissingAmount
		}

		a.Amount = amount
	case ActionStand, ActionLockDone, ActionCall, ActionFold, ActionCheck, ActionAdvance:
	default:
		return a, UnknownActionError(msg.Action)
	}

	return a, nil
}
