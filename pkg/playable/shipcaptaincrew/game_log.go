package shipcaptaincrew

import (
	"shipcaptaincrew-server/pkg/playable"
)

// sendLogMessages never blocks the game; messages are dropped if nobody is reading
func (g *Game) sendLogMessages(msg ...*playable.LogMessage) {
	if g.logChan == nil {
		return
	}

	select {
	case g.logChan <- msg:
	default:
		g.logger.WithField("messages", len(msg)).Warn("log channel full, dropping messages")
	}
}

func newLogMessage(playerID int64, format string, a ...interface{}) *playable.LogMessage {
	return playable.SimpleLogMessage(playerID, format, a...)
}

func betLogMessage(s *Seat, action ActionType, paid, actionAmount int) *playable.LogMessage {
	switch action {
	case ActionFold:
		return newLogMessage(s.PlayerID, "{} folded")
	case ActionCheck:
		return newLogMessage(s.PlayerID, "{} checked")
	case ActionCall:
		return newLogMessage(s.PlayerID, "{} called with %d", paid)
	case ActionBet:
		return newLogMessage(s.PlayerID, "{} bet %d", paid)
	}

	return newLogMessage(s.PlayerID, "{} raised to %d", actionAmount)
}
