package shipcaptaincrew

import (
	"time"

	"shipcaptaincrew-server/pkg/dice"
	"shipcaptaincrew-server/pkg/playable"
	"shipcaptaincrew-server/pkg/playable/shipcaptaincrew/potmanager"
)

// GameState is the table as everyone sees it
type GameState struct {
	Phase        Phase             `json:"phase"`
	PhaseID      uint64            `json:"phaseId"`
	Deadline     *time.Time        `json:"deadline,omitempty"`
	HandID       string            `json:"handId,omitempty"`
	HandNumber   int               `json:"handNumber"`
	Dealer       int64             `json:"dealer"`
	Turn         int64             `json:"turn"`
	Seats        []*SeatState      `json:"seats"`
	Pot          int               `json:"pot"`
	Pots         []*potmanager.Pot `json:"pots,omitempty"`
	ActionAmount int               `json:"actionAmount"`
	Chest        int               `json:"chest"`
	Carryover    int               `json:"carryover"`
	Ante         int               `json:"ante"`
	AnteMode     AnteMode          `json:"anteMode"`
	StreetLimit  int               `json:"streetLimit"`
	Showdown     *Showdown         `json:"showdown,omitempty"`
	LastResult   *HandResult       `json:"lastResult,omitempty"`
}

// SeatState is a seat as everyone sees it
type SeatState struct {
	PlayerID     int64               `json:"playerId"`
	Name         string              `json:"name"`
	Index        int                 `json:"index"`
	IsBot        bool                `json:"isBot"`
	Personality  string              `json:"personality,omitempty"`
	Stack        int                 `json:"stack"`
	InHand       bool                `json:"inHand"`
	SittingOut   bool                `json:"sittingOut"`
	Folded       bool                `json:"folded"`
	AllIn        bool                `json:"allIn"`
	RoundBet     int                 `json:"roundBet"`
	Contributed  int                 `json:"contributed"`
	LockDone     bool                `json:"lockDone"`
	Dice         dice.Hand           `json:"dice"`
	Tier         potmanager.EdgeTier `json:"tier"`
	Disconnected bool                `json:"disconnected"`
	Leaving      bool                `json:"leaving"`
}

// Response is what a single player is sent
type Response struct {
	GameState *GameState   `json:"gameState"`
	Seat      *SeatState   `json:"seat,omitempty"`
	Dice      dice.Hand    `json:"dice"`
	Actions   []ActionType `json:"actions"`
	// Owed is how far behind the current bet the player is; CallAmount is what calling costs after the edge tier
	Owed          int  `json:"owed"`
	CallAmount    int  `json:"callAmount"`
	MinLock       int  `json:"minLock"`
	Allowance     int  `json:"allowance"`
	ChestEligible bool `json:"chestEligible"`
	Stamps        int  `json:"stamps"`
}

// GetPlayerState returns the current state of the game for the player
func (g *Game) GetPlayerState(playerID int64) (*playable.Response, error) {
	return &playable.Response{
		Key:   "game",
		Value: g.Name(),
		Data:  g.View(playerID),
	}, nil
}

// View returns the table from one player's point of view
// Opponents' dice are hidden until revealed. A player not seated gets a spectator's view.
func (g *Game) View(playerID int64) *Response {
	gs := g.gameState(playerID)
	res := &Response{
		GameState: gs,
		Actions:   []ActionType{},
	}

	s, ok := g.byPlayer[playerID]
	if !ok {
		return res
	}

	for _, ss := range gs.Seats {
		if ss.PlayerID == playerID {
			res.Seat = ss
		}
	}

	res.Dice = s.dice
	res.Actions = g.legalActions(s)
	res.Stamps = g.stamps.Count(playerID)
	res.ChestEligible = g.chestEligible()[playerID]

	if g.hand != nil && g.phase.InHand() && s.inHand {
		res.Owed = g.hand.pot.Owed(playerID)
		res.CallAmount = g.hand.pot.CallAmount(playerID)
	}

	if g.phase.IsLock() {
		res.MinLock = g.lockMinimum()
		res.Allowance = s.allowance
	}

	return res
}

// chestEligible decides stamp eligibility across everyone seated, folded or sitting out included
// Only seats still in the hand can claim the chest, so callers filter to them.
func (g *Game) chestEligible() map[int64]bool {
	return g.stamps.Eligible(g.seatIDs(), g.options.StampThreshold)
}

func (g *Game) seatIDs() []int64 {
	seats := g.occupied()
	ids := make([]int64, len(seats))
	for i, s := range seats {
		ids[i] = s.PlayerID
	}

	return ids
}

func (g *Game) gameState(viewer int64) *GameState {
	gs := &GameState{
		Phase:       g.phase,
		PhaseID:     g.phaseID,
		HandNumber:  g.handNumber,
		Turn:        g.turn,
		Chest:       g.chest.Balance(),
		Carryover:   g.carryover,
		Ante:        g.options.Ante,
		AnteMode:    g.options.AnteMode,
		StreetLimit: g.options.streetLimit(g.phase.Round()),
		LastResult:  g.lastResult,
		Seats:       make([]*SeatState, 0, len(g.seats)),
	}

	if deadline, ok := g.Deadline(); ok {
		gs.Deadline = &deadline
	}

	h := g.hand
	live := h != nil && g.phase.InHand()
	if h != nil {
		gs.HandID = h.ID
		gs.Dealer = h.Dealer
		if h.showdown != nil {
			gs.Showdown = h.showdown
		}
	}

	if live {
		gs.Pot = h.pot.Total()
		gs.ActionAmount = h.pot.ActionAmount()
		if len(h.active()) > 1 {
			gs.Pots = h.pot.Pots()
		}
	}

	for _, s := range g.occupied() {
		ss := &SeatState{
			PlayerID:    s.PlayerID,
			Name:        s.Name,
			Index:       s.Index,
			IsBot:       s.IsBot(),
			Personality: s.Personality,
			Stack:       s.stack,
			InHand:      s.inHand,
			SittingOut:  s.sittingOut,
			LockDone:    s.lockDone,
			Leaving:     s.leaving,
		}

		_, ss.Disconnected = g.disconnected[s.PlayerID]

		if s.PlayerID == viewer || g.phase == PhaseShowdown || g.phase == PhasePayout {
			ss.Dice = s.dice
		} else {
			ss.Dice = s.dice.View()
		}

		if live && s.inHand {
			if pip, err := h.pot.Participant(s.PlayerID); err == nil {
				ss.Folded = pip.IsFolded()
				ss.AllIn = pip.IsAllIn()
				ss.RoundBet = pip.RoundBet()
				ss.Contributed = pip.Gross()
				ss.Tier = h.pot.Tier(s.PlayerID)
			}
		}

		gs.Seats = append(gs.Seats, ss)
	}

	return gs
}

// legalActions returns what the seat can do right now
func (g *Game) legalActions(s *Seat) []ActionType {
	actions := []ActionType{ActionStand}

	switch {
	case g.phase == PhaseLobby || g.phase == PhaseShowdown || g.phase == PhasePayout || g.phase == PhaseHandEnd:
		if g.phase != PhaseLobby || g.canStartHand() {
			actions = append(actions, ActionAdvance)
		}
	case g.phase.IsLock():
		if g.inPlay(s) && !s.lockDone {
			actions = append(actions, ActionToggleLock)
			if s.dice.LockedCount() >= g.lockMinimum() {
				actions = append(actions, ActionLockDone)
			}
		}
	case g.phase.IsBet():
		pot := g.hand.pot
		pip := pot.GetInTurnParticipant()
		if pip == nil || pip.ID() != s.PlayerID {
			break
		}

		actions = append(actions, ActionFold)
		if pot.Owed(s.PlayerID) == 0 {
			actions = append(actions, ActionCheck)
		} else {
			actions = append(actions, ActionCall)
		}

		if pot.ActionAmount() == 0 {
			actions = append(actions, ActionBet)
		} else if pot.CanRaise() && s.stack > pot.CallAmount(s.PlayerID) {
			actions = append(actions, ActionRaise)
		}
	}

	return actions
}
