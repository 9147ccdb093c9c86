package potmanager

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shipcaptaincrew-server/pkg/playable/shipcaptaincrew/cargochest"
)

type participant struct {
	id      int64
	balance int
}

func (p *participant) ID() int64 {
	return p.id
}

func (p *participant) Balance() int {
	return p.balance
}

func (p *participant) AdjustBalance(amount int) {
	p.balance += amount
}

var unitMultipliers = Multipliers{Behind: 1, Co: 1, Leader: 1, Dominant: 1}

func newPotManager(d Dripper, balances ...int) (*PotManager, []*participant) {
	pm := New(d, 0)
	pts := make([]*participant, len(balances))
	for i, b := range balances {
		pts[i] = &participant{id: int64(i + 1), balance: b}
		pm.SeatParticipant(pts[i])
	}

	return pm, pts
}

func TestPotManager_AnteBetCallFold(t *testing.T) {
	a := assert.New(t)

	pm, pts := newPotManager(nil, 1000, 1000, 1000, 1000)
	for _, pt := range pts {
		paid, err := pm.PostAnte(pt.id, 100)
		a.NoError(err)
		a.Equal(100, paid)
	}

	pm.StartRound(RoundConfig{Limit: 500, Increment: 10, Multipliers: unitMultipliers}, nil, 0)
	a.Equal(int64(1), pm.GetInTurnParticipant().ID())

	paid, err := pm.ParticipantBets(1, 500)
	a.NoError(err)
	a.Equal(500, paid)

	paid, err = pm.ParticipantCalls(2)
	a.NoError(err)
	a.Equal(500, paid)

	a.NoError(pm.ParticipantFolds(3))

	paid, err = pm.ParticipantCalls(4)
	a.NoError(err)
	a.Equal(500, paid)

	a.True(pm.IsRoundOver())
	a.Equal(100*4+500*3, pm.Total())
	a.Len(pm.ActiveParticipants(), 3)

	pots := pm.Pots()
	a.Len(pots, 1)
	a.Equal(1900, pots[0].Amount)
	a.Equal([]int64{1, 2, 4}, pots[0].Eligible)

	a.Equal(400, pts[0].balance)
	a.Equal(900, pts[2].balance)
}

func TestPotManager_SidePot(t *testing.T) {
	a := assert.New(t)

	pm, pts := newPotManager(nil, 200, 1000, 1000)
	pm.StartRound(RoundConfig{Multipliers: unitMultipliers}, nil, 1)

	_, err := pm.ParticipantBets(2, 500)
	a.NoError(err)
	_, err = pm.ParticipantCalls(3)
	a.NoError(err)

	paid, err := pm.ParticipantCalls(1)
	a.NoError(err)
	a.Equal(200, paid)
	a.Equal(0, pts[0].balance)

	pip, _ := pm.Participant(1)
	a.True(pip.IsAllIn())
	a.True(pm.IsRoundOver())

	pots := pm.Pots()
	a.Len(pots, 2)
	a.Equal(&Pot{Amount: 600, Eligible: []int64{1, 2, 3}}, pots[0])
	a.Equal(&Pot{Amount: 600, Eligible: []int64{2, 3}}, pots[1])
}

func TestPotManager_SidePotWithFoldedContribution(t *testing.T) {
	a := assert.New(t)

	pm, _ := newPotManager(nil, 100, 1000, 1000)
	pm.StartRound(RoundConfig{Multipliers: unitMultipliers}, nil, 1)

	_, err := pm.ParticipantBets(2, 300)
	a.NoError(err)
	_, err = pm.ParticipantCalls(3)
	a.NoError(err)
	_, err = pm.ParticipantCalls(1)
	a.NoError(err)

	a.NoError(pm.ForceFold(3))

	pots := pm.Pots()
	a.Len(pots, 2)
	a.Equal(&Pot{Amount: 300, Eligible: []int64{1, 2}}, pots[0])
	a.Equal(&Pot{Amount: 400, Eligible: []int64{2}}, pots[1])

	sum := 0
	for _, p := range pots {
		sum += p.Amount
	}

	a.Equal(pm.Total(), sum)
}

func TestPotManager_SidePotWithDrip(t *testing.T) {
	a := assert.New(t)

	// equal wagers net to 493/492/493 once the drip remainder rolls over
	pm, pts := newPotManager(cargochest.New(0, 0, 1.5), 1000, 500, 1000)
	pm.StartRound(RoundConfig{Multipliers: unitMultipliers}, nil, 0)

	_, err := pm.ParticipantBets(1, 500)
	a.NoError(err)
	_, err = pm.ParticipantCalls(2)
	a.NoError(err)
	_, err = pm.ParticipantCalls(3)
	a.NoError(err)

	a.Equal(0, pts[1].balance)
	pip, _ := pm.Participant(2)
	a.True(pip.IsAllIn())
	a.Equal(492, pip.Net())

	pots := pm.Pots()
	a.Len(pots, 1)
	a.Equal(&Pot{Amount: 1478, Eligible: []int64{1, 2, 3}}, pots[0])

	pm, _ = newPotManager(cargochest.New(0, 0, 10), 1000, 200, 1000)
	pm.StartRound(RoundConfig{Multipliers: unitMultipliers}, nil, 0)

	_, err = pm.ParticipantBets(1, 500)
	a.NoError(err)
	_, err = pm.ParticipantCalls(2)
	a.NoError(err)
	_, err = pm.ParticipantCalls(3)
	a.NoError(err)

	pots = pm.Pots()
	a.Len(pots, 2)
	a.Equal(&Pot{Amount: 540, Eligible: []int64{1, 2, 3}}, pots[0])
	a.Equal(&Pot{Amount: 540, Eligible: []int64{1, 3}}, pots[1])
	a.Equal(pm.Total(), pots[0].Amount+pots[1].Amount)
}

func TestPotManager_EdgeTierDiscount(t *testing.T) {
	a := assert.New(t)

	pm, _ := newPotManager(nil, 1000, 1000)
	pm.StartRound(RoundConfig{Increment: 10, Multipliers: DefaultMultipliers}, map[int64]EdgeTier{
		1: TierBehind,
		2: TierLeader,
	}, 1)

	paid, err := pm.ParticipantBets(2, 500)
	a.NoError(err)
	a.Equal(500, paid)

	a.Equal(500, pm.Owed(1))
	a.Equal(380, pm.CallAmount(1))

	paid, err = pm.ParticipantCalls(1)
	a.NoError(err)
	a.Equal(380, paid)

	pip, _ := pm.Participant(1)
	a.Equal(500, pip.RoundBet())
	a.Equal(380, pip.Gross())
	a.True(pm.IsRoundOver())
}

func TestPotManager_RaiseRequeues(t *testing.T) {
	a := assert.New(t)

	pm, _ := newPotManager(nil, 1000, 1000, 1000)
	pm.StartRound(RoundConfig{Limit: 100, Increment: 10, MaxRaises: 1, Multipliers: unitMultipliers}, nil, 0)

	_, err := pm.ParticipantBets(1, 100)
	a.NoError(err)

	paid, err := pm.ParticipantRaises(2, 150)
	a.NoError(err)
	a.Equal(200, paid)
	a.Equal(200, pm.ActionAmount())
	a.Equal(1, pm.Raises())
	a.False(pm.CanRaise())

	_, err = pm.ParticipantRaises(3, 100)
	a.Equal(ErrRaiseCap, err)

	_, err = pm.ParticipantCalls(3)
	a.NoError(err)

	a.Equal(int64(1), pm.GetInTurnParticipant().ID())
	paid, err = pm.ParticipantCalls(1)
	a.NoError(err)
	a.Equal(100, paid)

	a.True(pm.IsRoundOver())
	a.Equal(600, pm.Total())
}

func TestPotManager_BetClamping(t *testing.T) {
	a := assert.New(t)

	pm, _ := newPotManager(nil, 1000, 1000)
	pm.StartRound(RoundConfig{Limit: 500, Increment: 25, Multipliers: unitMultipliers}, nil, 0)
	paid, err := pm.ParticipantBets(1, 512)
	a.NoError(err)
	a.Equal(500, paid)

	pm, _ = newPotManager(nil, 1000, 1000)
	pm.StartRound(RoundConfig{Limit: 500, Increment: 25, Multipliers: unitMultipliers}, nil, 0)
	paid, err = pm.ParticipantBets(1, 7)
	a.NoError(err)
	a.Equal(25, paid)

	pm, _ = newPotManager(nil, 300, 1000)
	pm.StartRound(RoundConfig{Limit: 500, Increment: 25, Multipliers: unitMultipliers}, nil, 0)
	paid, err = pm.ParticipantBets(1, 1000)
	a.NoError(err)
	a.Equal(300, paid)

	pip, _ := pm.Participant(1)
	a.True(pip.IsAllIn())
}

func TestPotManager_Errors(t *testing.T) {
	a := assert.New(t)

	pm, _ := newPotManager(nil, 1000, 1000, 1000)
	pm.StartRound(RoundConfig{Multipliers: unitMultipliers}, nil, 0)

	_, err := pm.ParticipantRaises(1, 100)
	a.Equal(ErrNoBetToRaise, err)

	_, err = pm.ParticipantCalls(1)
	a.Equal(ErrNothingToCall, err)

	_, err = pm.ParticipantBets(2, 100)
	a.Equal(ErrNotInTurn, err)

	_, err = pm.ParticipantBets(1, 0)
	a.Equal(ErrInvalidAmount, err)

	_, err = pm.ParticipantBets(9, 100)
	a.Equal(ErrParticipantNotFound, err)

	_, err = pm.ParticipantBets(1, 100)
	a.NoError(err)

	a.Equal(ErrCannotCheck, pm.ParticipantChecks(2))

	_, err = pm.ParticipantBets(2, 100)
	a.Equal(ErrBetOutstanding, err)

	a.NoError(pm.ParticipantFolds(2))
	a.NoError(pm.ParticipantFolds(3))
	a.True(pm.IsRoundOver())

	_, err = pm.ParticipantCalls(2)
	a.Equal(ErrRoundOver, err)
}

func TestPotManager_ForceFold(t *testing.T) {
	a := assert.New(t)

	pm, _ := newPotManager(nil, 1000, 1000, 1000)
	pm.StartRound(RoundConfig{Multipliers: unitMultipliers}, nil, 0)

	a.NoError(pm.ForceFold(3))
	a.Equal(int64(1), pm.GetInTurnParticipant().ID())

	a.NoError(pm.ParticipantChecks(1))
	a.NoError(pm.ForceFold(2))
	a.True(pm.IsRoundOver())
	a.Len(pm.ActiveParticipants(), 1)
}

func TestPotManager_CheckAround(t *testing.T) {
	a := assert.New(t)

	pm, _ := newPotManager(nil, 1000, 1000, 1000)
	pm.StartRound(RoundConfig{Multipliers: unitMultipliers}, nil, 2)

	a.Equal(int64(3), pm.GetInTurnParticipant().ID())
	a.NoError(pm.ParticipantChecks(3))
	a.NoError(pm.ParticipantChecks(1))
	a.False(pm.IsRoundOver())
	a.NoError(pm.ParticipantChecks(2))
	a.True(pm.IsRoundOver())
}

func TestPotManager_Drip(t *testing.T) {
	a := assert.New(t)

	chest := cargochest.New(0, 0, 10)
	pm, _ := newPotManager(chest, 1000, 1000)
	for _, id := range []int64{1, 2} {
		_, err := pm.PostAnte(id, 100)
		a.NoError(err)
	}

	a.Equal(20, pm.Dripped())
	a.Equal(20, chest.Balance())
	a.Equal(180, pm.Total())
	a.Equal(200, pm.Wagered())

	pip, _ := pm.Participant(1)
	a.Equal(90, pip.Net())
	a.Equal(100, pip.Gross())
}

func TestPotManager_LoneActorSkipsRound(t *testing.T) {
	a := assert.New(t)

	pm, _ := newPotManager(nil, 100, 1000)
	_, err := pm.PostAnte(1, 100)
	a.NoError(err)

	pm.StartRound(RoundConfig{Multipliers: unitMultipliers}, nil, 0)
	a.True(pm.IsRoundOver())
}
