package shipcaptaincrew

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Interval determines how often Tick() should be called
func (g *Game) Interval() time.Duration {
	return 250 * time.Millisecond
}

// Tick fires the current deadline and applies disconnect timeouts
// Returns true if the state changed.
func (g *Game) Tick() (bool, error) {
	now := g.clock.Now()
	changed := g.checkDisconnects(now)

	if !g.deadline.IsZero() && g.deadlineID == g.phaseID && !now.Before(g.deadline) {
		g.deadline = time.Time{}
		g.onDeadline()
		changed = true
	}

	if changed {
		g.driveAI()
	}

	return changed, nil
}

// onDeadline applies the default for whatever the current phase was waiting on
func (g *Game) onDeadline() {
	log := g.logger.WithFields(logrus.Fields{
		"phase":   g.phase.String(),
		"phaseID": g.phaseID,
	})

	switch {
	case g.phase == PhaseLobby:
		if g.canStartHand() {
			g.transition(PhaseAnte)
		}
	case g.phase.IsLock():
		log.Debug("lock window closed")
		phaseID := g.phaseID
		for _, s := range g.hand.active() {
			if g.phaseID != phaseID {
				return
			}

			if !s.lockDone {
				g.autoLock(s)
			}
		}
	case g.phase.IsBet():
		pip := g.hand.pot.GetInTurnParticipant()
		if pip == nil {
			return
		}

		s := g.byPlayer[pip.ID()]
		log.WithField("playerID", s.PlayerID).Info("turn timed out")
		if err := g.apply(s.PlayerID, g.defaultBetAction(s)); err != nil {
			log.WithError(err).Error("could not apply default action")
		}
	case g.phase == PhaseShowdown, g.phase == PhasePayout:
		g.transition(g.phase.next())
	case g.phase == PhaseHandEnd:
		g.nextHand()
	}
}

// checkDisconnects folds and evicts seats that have been gone too long
func (g *Game) checkDisconnects(now time.Time) bool {
	changed := false
	for _, id := range g.sortedDisconnected() {
		s, ok := g.byPlayer[id]
		if !ok {
			delete(g.disconnected, id)
			continue
		}

		elapsed, _ := g.disconnectedFor(id, now)
		if elapsed >= g.options.DisconnectEvict && !s.leaving {
			g.logger.WithField("playerID", id).Info("evicting disconnected player")
			g.stand(s)
			changed = true
			continue
		}

		if elapsed >= g.options.DisconnectFold && g.inPlay(s) {
			g.logger.WithField("playerID", id).Info("folding disconnected player")
			g.forceFold(s)
			changed = true
			continue
		}

		if elapsed < g.options.DisconnectGrace || !g.inPlay(s) {
			continue
		}

		switch {
		case g.phase.IsLock() && !s.lockDone:
			g.autoLock(s)
			changed = true
		case g.phase.IsBet() && g.turn == id:
			// driveAI acts for the seat
			changed = true
		}
	}

	return changed
}

// inPlay returns true if the seat can still act in the current hand
// Nobody can act once Showdown has resolved the roles.
func (g *Game) inPlay(s *Seat) bool {
	return g.hand != nil && g.phase >= PhaseRoll1 && g.phase < PhaseShowdown && s.inHand && !g.hand.isFolded(s)
}
