package cargochest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		values  []int
		ok      bool
		trigger Trigger
	}{
		{"five threes", []int{3, 3, 3, 3, 3}, true, Trigger{KindFiveOfAKind, 3, 5}},
		{"four ones", []int{1, 6, 1, 1, 1}, true, Trigger{KindFourOfAKind, 1, 4}},
		{"three twos", []int{2, 2, 5, 2, 3}, true, Trigger{KindThreeOfAKind, 2, 4}},
		{"three sixes do not count", []int{6, 6, 6, 1, 2}, false, Trigger{}},
		{"pairs do not count", []int{1, 1, 2, 2, 3}, false, Trigger{}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			trigger, ok := Detect(test.values)
			assert.Equal(t, test.ok, ok)
			assert.Equal(t, test.trigger, trigger)
		})
	}
}

func TestTrigger_Compare(t *testing.T) {
	a := assert.New(t)

	five := Trigger{KindFiveOfAKind, 1, 5}
	fourThrees := Trigger{KindFourOfAKind, 3, 4}
	fourOnes := Trigger{KindFourOfAKind, 1, 5}

	a.Equal(1, five.Compare(fourThrees))
	a.Equal(1, fourThrees.Compare(fourOnes))
	a.Equal(-1, fourOnes.Compare(fourThrees))
	a.Equal(1, Trigger{KindThreeOfAKind, 2, 5}.Compare(Trigger{KindThreeOfAKind, 2, 4}))
	a.Equal(0, five.Compare(five))
}

func TestWinner(t *testing.T) {
	a := assert.New(t)

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	claims := []Claim{
		{PlayerID: 1, Trigger: Trigger{KindThreeOfAKind, 3, 3}, At: now},
		{PlayerID: 2, Trigger: Trigger{KindFourOfAKind, 1, 4}, At: now.Add(time.Second)},
		{PlayerID: 3, Trigger: Trigger{KindFourOfAKind, 1, 4}, At: now.Add(time.Millisecond)},
	}

	w, ok := Winner(claims, TieBreakRankThenTime)
	a.True(ok)
	a.Equal(int64(3), w.PlayerID)

	w, ok = Winner(claims, TieBreakTimeThenRank)
	a.True(ok)
	a.Equal(int64(1), w.PlayerID)

	// exact timestamp tie falls back to rank
	claims[1].At = now
	w, _ = Winner(claims, TieBreakTimeThenRank)
	a.Equal(int64(2), w.PlayerID)

	_, ok = Winner(nil, TieBreakRankThenTime)
	a.False(ok)
}

func TestPayoutPercents_For(t *testing.T) {
	p := PayoutPercents{Three: 20, Four: 50, Five: 100}
	assert.Equal(t, 100, p.For(KindFiveOfAKind))
	assert.Equal(t, 50, p.For(KindFourOfAKind))
	assert.Equal(t, 20, p.For(KindThreeOfAKind))
	assert.Equal(t, 0, p.For(KindNone))

	c := New(1000, 0, 0)
	assert.Equal(t, 1000, c.Award(p.For(KindFiveOfAKind)))
	assert.Equal(t, 0, c.Balance())
}
