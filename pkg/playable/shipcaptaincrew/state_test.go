package shipcaptaincrew

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"shipcaptaincrew-server/pkg/playable/shipcaptaincrew/potmanager"
)

func TestGame_GetPlayerState(t *testing.T) {
	a := assert.New(t)
	tt := newTestTable(t, testOptions(), nil)
	tt.seatTwo(t)

	tt.faces.push(6, 5, 4, 2, 2, 6, 3, 3, 1, 1)
	a.NoError(tt.Apply(1, Action{Type: ActionAdvance}))
	tt.lock(t, 2, 0, 1)

	res, err := tt.GetPlayerState(1)
	a.NoError(err)
	a.Equal("game", res.Key)
	a.Equal("shipcaptaincrew", res.Value)

	view := res.Data.(*Response)
	a.Equal(PhaseLock1, view.GameState.Phase)
	a.Equal(tt.PhaseID(), view.GameState.PhaseID)
	a.NotNil(view.GameState.Deadline)
	a.Equal([]ActionType{ActionStand, ActionToggleLock}, view.Actions)
	a.Equal(1, view.MinLock)
	a.Equal(5, view.Allowance)
	a.Equal([]int{6, 3, 3, 1, 1}, view.Dice.Values())

	// opponents' dice stay hidden until revealed
	bob := view.GameState.Seats[1]
	a.Equal(int64(2), bob.PlayerID)
	a.True(bob.LockDone)
	a.Equal([]int{0, 0, 0, 0, 0}, bob.Dice.Values())
	a.Equal(view.Seat, view.GameState.Seats[0])

	tt.lock(t, 1, 0)
	a.Equal(PhaseBet1, tt.Phase())

	view = tt.View(1)
	bob = view.GameState.Seats[1]
	a.Equal([]int{6, 0, 0, 0, 0}, bob.Dice.Values(), "only the minimum is revealed")
	a.Equal([]ActionType{ActionStand}, view.Actions)
	a.Equal(int64(2), view.GameState.Turn)
	a.Equal(100, view.GameState.StreetLimit)
	a.Equal(50, view.GameState.Pot)

	view = tt.View(2)
	a.Equal([]ActionType{ActionStand, ActionFold, ActionCheck, ActionBet}, view.Actions)
	a.Equal(potmanager.TierCo, view.Seat.Tier)

	a.NoError(tt.Apply(2, Action{Type: ActionBet, Amount: 100}))
	view = tt.View(1)
	a.Equal([]ActionType{ActionStand, ActionFold, ActionCall, ActionRaise}, view.Actions)
	a.Equal(100, view.Owed)
	a.Equal(90, view.CallAmount)
	a.Equal(100, view.GameState.ActionAmount)
	a.Equal(100, view.GameState.Seats[1].RoundBet)
	a.Equal(125, view.GameState.Seats[1].Contributed)

	_, err = json.Marshal(view)
	a.NoError(err)
}

func TestGame_View_spectator(t *testing.T) {
	a := assert.New(t)
	tt := newTestTable(t, testOptions(), nil)
	tt.seatTwo(t)

	view := tt.View(99)
	a.Nil(view.Seat)
	a.Empty(view.Actions)
	a.Len(view.GameState.Seats, 2)
	a.Equal(PhaseLobby, view.GameState.Phase)

	view = tt.View(1)
	a.Equal([]ActionType{ActionStand, ActionAdvance}, view.Actions)
	a.Equal(0, view.Stamps)
	a.False(view.ChestEligible)
}

func TestGame_View_showdown(t *testing.T) {
	a := assert.New(t)
	tt := newTestTable(t, testOptions(), nil)
	tt.seatTwo(t)

	tt.faces.push(6, 6, 5, 4, 4, 3, 3, 3, 2, 1)
	a.NoError(tt.Apply(1, Action{Type: ActionAdvance}))
	tt.lockAll(t, 2)
	tt.lockAll(t, 1)
	tt.lockedToShowdown(t, 2, 1)

	view := tt.View(2)
	a.Equal([]int{3, 3, 3, 2, 1}, view.GameState.Seats[0].Dice.Values())
	a.NotNil(view.GameState.Showdown)
	a.Equal([]ActionType{ActionStand, ActionAdvance}, view.Actions)
	a.Equal(1, view.Stamps)
}
