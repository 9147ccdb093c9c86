package cargochest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStamps_Window(t *testing.T) {
	a := assert.New(t)

	s := NewStamps(3)
	s.Record(1, true)
	s.Record(1, true)
	s.Record(1, false)
	s.Record(1, true)

	a.Equal([]bool{true, false, true}, s.History(1))
	a.Equal(2, s.Count(1))

	s.Resize(1)
	a.Equal([]bool{true}, s.History(1))
}

func TestStamps_Eligible(t *testing.T) {
	a := assert.New(t)

	s := NewStamps(5)
	players := []int64{1, 2, 3}

	// fresh table, nobody has reached the threshold yet
	eligible := s.Eligible(players, 3)
	a.Len(eligible, 3)

	for i := 0; i < 3; i++ {
		s.Record(1, true)
		s.Record(2, i > 0)
	}

	eligible = s.Eligible(players, 3)
	a.True(eligible[1])
	a.False(eligible[2])
	a.False(eligible[3])
}

func TestStamps_Load(t *testing.T) {
	s := NewStamps(2)
	s.Load(9, []bool{false, true, true})
	assert.Equal(t, []bool{true, true}, s.History(9))
	assert.Equal(t, 2, s.Count(9))
}
