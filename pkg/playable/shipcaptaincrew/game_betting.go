package shipcaptaincrew

import (
	"github.com/sirupsen/logrus"
)

func (g *Game) bet(s *Seat, action Action) error {
	if !g.phase.IsBet() {
		return ErrWrongPhase
	}

	if !s.inHand {
		return ErrNotInHand
	}

	pot := g.hand.pot
	var paid int
	var err error

	switch action.Type {
	case ActionFold:
		err = pot.ParticipantFolds(s.PlayerID)
	case ActionCheck:
		err = pot.ParticipantChecks(s.PlayerID)
	case ActionCall:
		paid, err = pot.ParticipantCalls(s.PlayerID)
	case ActionBet:
		paid, err = pot.ParticipantBets(s.PlayerID, action.Amount)
	case ActionRaise:
		paid, err = pot.ParticipantRaises(s.PlayerID, action.Amount)
	default:
		return UnknownActionError(action.Type)
	}

	if err != nil {
		return err
	}

	g.logger.WithFields(logrus.Fields{
		"handID":   g.hand.ID,
		"playerID": s.PlayerID,
		"action":   string(action.Type),
		"paid":     paid,
	}).Debug("bet action")

	g.sendLogMessages(betLogMessage(s, action.Type, paid, pot.ActionAmount()))
	g.afterBetAction()
	return nil
}

// afterBetAction ends the hand, ends the round, or opens the next turn
func (g *Game) afterBetAction() {
	if g.shortCircuit() {
		return
	}

	if g.hand.pot.IsRoundOver() {
		g.transition(g.phase.next())
		return
	}

	g.startTurn()
}

// defaultBetAction checks if nothing is owed, otherwise folds
func (g *Game) defaultBetAction(s *Seat) Action {
	if g.hand.pot.Owed(s.PlayerID) == 0 {
		return Action{Type: ActionCheck}
	}

	return Action{Type: ActionFold}
}

// forceFold removes a seat from the hand regardless of turn
func (g *Game) forceFold(s *Seat) {
	if err := g.hand.pot.ForceFold(s.PlayerID); err != nil {
		g.logger.WithError(err).WithField("playerID", s.PlayerID).Error("could not fold seat")
		return
	}

	g.sendLogMessages(newLogMessage(s.PlayerID, "{} was folded"))

	switch {
	case g.phase.IsBet():
		g.afterBetAction()
	case g.shortCircuit():
	case g.phase.IsLock():
		g.checkLocksDone()
	}
}
