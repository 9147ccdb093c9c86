package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shipcaptaincrew-server/pkg/dice"
)

// fixed always returns the same offset from n
type fixed struct {
	high bool
}

func (f fixed) Intn(n int) int {
	if f.high {
		return n - 1
	}

	return 0
}

var (
	never  = fixed{high: true}
	always = fixed{}
)

func rolled(values ...int) dice.Hand {
	var h dice.Hand
	for i, v := range values {
		h[i].Value = v
	}

	return h
}

func lockedHand(values ...int) dice.Hand {
	h := rolled(values...)
	for i := range h {
		h[i].Locked = true
	}

	return h
}

func TestBot_LocksTargetFace(t *testing.T) {
	a := assert.New(t)

	b := New(Personalities["balanced"], never)
	toggles := b.Locks(LockView{
		Hand:      rolled(6, 6, 5, 2, 1),
		Minimum:   1,
		Allowance: dice.Count,
	})

	a.Equal([]int{0, 1}, toggles)
}

func TestBot_LocksAvoidContestedRole(t *testing.T) {
	a := assert.New(t)

	b := New(Personalities["balanced"], never)
	toggles := b.Locks(LockView{
		Hand:      rolled(6, 5, 5, 2, 1),
		Minimum:   1,
		Allowance: dice.Count,
		Opponents: [][dice.Sides + 1]int{{6: 3}},
	})

	a.Equal([]int{1, 2}, toggles)
}

func TestBot_LocksTopUpToMinimum(t *testing.T) {
	a := assert.New(t)

	b := New(Personalities["cautious"], never)
	toggles := b.Locks(LockView{
		Hand:      rolled(3, 2, 2, 1, 1),
		Minimum:   2,
		Allowance: dice.Count,
	})

	a.Equal([]int{0, 1}, toggles)
}

func TestBot_LocksMistake(t *testing.T) {
	a := assert.New(t)

	p := Personalities["balanced"]
	p.MistakeChance = 0.5
	b := New(p, always)
	toggles := b.Locks(LockView{
		Hand:      rolled(6, 5, 3, 2, 1),
		Minimum:   1,
		Allowance: dice.Count,
	})

	a.Equal([]int{0, 4, 0}, toggles)
}

func TestBot_LocksRespectAllowance(t *testing.T) {
	a := assert.New(t)

	b := New(Personalities["balanced"], never)
	toggles := b.Locks(LockView{
		Hand:      rolled(6, 6, 6, 6, 1),
		Minimum:   1,
		Allowance: 2,
	})

	a.Equal([]int{0, 1}, toggles)
}

func TestBot_Bet(t *testing.T) {
	a := assert.New(t)

	b := New(Personalities["balanced"], never)

	d := b.Bet(BetView{
		Hand:      lockedHand(6, 6, 6, 6, 5),
		Pot:       400,
		Increment: 10,
		Stack:     1000,
	})
	a.Equal(MoveBet, d.Move)
	a.Equal(207, d.Amount)

	d = b.Bet(BetView{
		Hand:       lockedHand(1, 2, 3, 2, 1),
		Opponents:  [][dice.Sides + 1]int{{6: 3}},
		Owed:       100,
		CallAmount: 100,
		Stack:      1000,
	})
	a.Equal(MoveFold, d.Move)

	d = b.Bet(BetView{
		Hand:  lockedHand(1, 2, 3, 2, 1),
		Stack: 1000,
	})
	a.Equal(MoveCheck, d.Move)

	d = b.Bet(BetView{
		Hand:         lockedHand(6, 6, 2, 1, 3),
		Owed:         100,
		CallAmount:   100,
		ActionAmount: 100,
		CanRaise:     true,
		Stack:        1000,
	})
	a.Equal(MoveCall, d.Move)

	d = b.Bet(BetView{
		Hand:         lockedHand(6, 6, 6, 6, 5),
		Owed:         100,
		CallAmount:   100,
		ActionAmount: 100,
		CanRaise:     true,
		Stack:        1000,
		Increment:    10,
	})
	a.Equal(MoveRaise, d.Move)
	a.True(d.Amount >= 10)
}

func TestStrength(t *testing.T) {
	a := assert.New(t)

	a.InDelta(5.3, Strength(lockedHand(6, 6, 6, 6, 5), nil, 0), 0.0001)
	a.InDelta(0, Strength(lockedHand(1, 2, 3, 2, 1), [][dice.Sides + 1]int{{6: 3}}, 0), 0.0001)
	a.InDelta(6, Strength(rolled(6, 6, 6, 5, 4), nil, 3), 0.0001)
}

func TestChestValue(t *testing.T) {
	a := assert.New(t)

	v := BetView{
		Hand:          lockedHand(1, 1, 1, 2, 3),
		Pot:           100,
		ChestBalance:  1000,
		ChestEligible: true,
	}
	a.InDelta(0.8, chestValue(v), 0.0001)

	v.ChestEligible = false
	a.Equal(0.0, chestValue(v))
}

func TestLookup(t *testing.T) {
	a := assert.New(t)

	p, err := Lookup("cautious")
	a.NoError(err)
	a.Equal(0.2, p.RiskTolerance)

	_, err = Lookup("pirate")
	a.EqualError(err, "unknown personality: pirate")

	a.Equal([]string{"aggressive", "balanced", "cautious", "deckhand"}, PersonalityNames())

	name, _ := Random(always)
	a.Equal("aggressive", name)
}
