package shipcaptaincrew

import (
	"shipcaptaincrew-server/pkg/playable/shipcaptaincrew/ai"
)

// driveAI lets bots and defaulted seats act until a human is needed
func (g *Game) driveAI() {
	for i := 0; i < maxAutoActions; i++ {
		if !g.phase.IsBet() || g.hand == nil {
			return
		}

		pip := g.hand.pot.GetInTurnParticipant()
		if pip == nil {
			return
		}

		s := g.byPlayer[pip.ID()]
		var action Action
		switch {
		case s.bot != nil:
			action = g.botBet(s)
		case g.isDefaulted(s):
			action = g.defaultBetAction(s)
		default:
			return
		}

		if err := g.apply(s.PlayerID, action); err != nil {
			g.logger.WithError(err).WithField("playerID", s.PlayerID).Warn("automatic action rejected")
			if err := g.apply(s.PlayerID, g.defaultBetAction(s)); err != nil {
				g.logger.WithError(err).WithField("playerID", s.PlayerID).Error("could not apply default action")
				return
			}
		}
	}

	g.logger.Error("too many automatic actions in a row")
}

// botLocks toggles a bot's dice and finishes its lock phase
func (g *Game) botLocks(s *Seat) {
	toggles := s.bot.Locks(ai.LockView{
		Hand:      s.dice,
		Minimum:   g.lockMinimum(),
		Allowance: s.allowance,
		Opponents: g.hand.opponentCounts(s.PlayerID),
	})

	for _, die := range toggles {
		if err := g.apply(s.PlayerID, Action{Type: ActionToggleLock, Die: die}); err != nil {
			g.logger.WithError(err).WithField("playerID", s.PlayerID).Warn("bot lock rejected")
		}
	}

	if s.dice.LockedCount() < g.lockMinimum() {
		g.autoLock(s)
		return
	}

	if err := g.apply(s.PlayerID, Action{Type: ActionLockDone}); err != nil {
		g.logger.WithError(err).WithField("playerID", s.PlayerID).Error("bot could not finish locking")
	}
}

// botBet asks a bot what to do on its turn
func (g *Game) botBet(s *Seat) Action {
	pot := g.hand.pot
	eligible := g.chestEligible()
	decision := s.bot.Bet(ai.BetView{
		Hand:           s.dice,
		Opponents:      g.hand.opponentCounts(s.PlayerID),
		RollsRemaining: g.phase.rollsRemaining(),
		Owed:           pot.Owed(s.PlayerID),
		CallAmount:     pot.CallAmount(s.PlayerID),
		ActionAmount:   pot.ActionAmount(),
		Stack:          s.stack,
		Pot:            pot.Total(),
		Limit:          pot.Round().Limit,
		Increment:      pot.Round().Increment,
		CanRaise:       pot.CanRaise(),
		ChestBalance:   g.chest.Balance(),
		ChestEligible:  eligible[s.PlayerID],
	})

	switch decision.Move {
	case ai.MoveFold:
		return Action{Type: ActionFold}
	case ai.MoveCall:
		return Action{Type: ActionCall}
	case ai.MoveBet:
		return Action{Type: ActionBet, Amount: decision.Amount}
	case ai.MoveRaise:
		return Action{Type: ActionRaise, Amount: decision.Amount}
	}

	return Action{Type: ActionCheck}
}
