package rng

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestCrypto_Intn(t *testing.T) {
	a := assert.New(t)

	c := Crypto{}
	found := make(map[int]bool)
	// it's possible this could fail, but not likely
	for i := 0; i < 1000; i++ {
		found[c.Intn(6)] = true
	}

	for i := 0; i < 6; i++ {
		a.True(found[i])
	}
	a.False(found[6])
}

func TestSeeded_Intn(t *testing.T) {
	a := assert.New(t)

	s1 := NewSeeded(42)
	s2 := NewSeeded(42)
	for i := 0; i < 100; i++ {
		a.Equal(s1.Intn(6), s2.Intn(6))
	}
}

func TestChance(t *testing.T) {
	a := assert.New(t)

	s := NewSeeded(1)
	a.False(Chance(s, 0))
	a.True(Chance(s, 1))

	hits := 0
	for i := 0; i < 10000; i++ {
		if Chance(s, 0.25) {
			hits++
		}
	}

	a.InDelta(2500, hits, 300)
}
