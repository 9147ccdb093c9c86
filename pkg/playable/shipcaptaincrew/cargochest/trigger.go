package cargochest

import (
	"fmt"
	"sort"
	"time"
)

// Kind is the strength of a chest-qualifying combination
type Kind int

// Kind constants, weakest first
const (
	KindNone Kind = iota
	KindThreeOfAKind
	KindFourOfAKind
	KindFiveOfAKind
)

// lowFaces are the faces that can trigger the chest
var lowFaces = []int{3, 2, 1}

func (k Kind) String() string {
	switch k {
	case KindThreeOfAKind:
		return "three of a kind"
	case KindFourOfAKind:
		return "four of a kind"
	case KindFiveOfAKind:
		return "five of a kind"
	}

	return "none"
}

// Trigger is a qualifying combination of low dice
type Trigger struct {
	Kind  Kind `json:"kind"`
	Value int  `json:"value"`
	// LowDice is how many of the five dice show a 1, 2, or 3
	LowDice int `json:"lowDice"`
}

func (t Trigger) String() string {
	return fmt.Sprintf("%s of %ds", t.Kind, t.Value)
}

// Compare returns 1 if t beats o, -1 if o beats t, and 0 if they are equal
// Kind is compared first, then die value, then the number of low dice.
func (t Trigger) Compare(o Trigger) int {
	switch {
	case t.Kind != o.Kind:
		return sign(int(t.Kind) - int(o.Kind))
	case t.Value != o.Value:
		return sign(t.Value - o.Value)
	}

	return sign(t.LowDice - o.LowDice)
}

// Detect finds the best chest combination in the final dice
func Detect(values []int) (Trigger, bool) {
	var counts [7]int
	low := 0
	for _, v := range values {
		if v >= 1 && v <= 6 {
			counts[v]++
		}

		if v >= 1 && v <= 3 {
			low++
		}
	}

	best := Trigger{}
	for _, face := range lowFaces {
		kind := kindForCount(counts[face])
		if kind == KindNone {
			continue
		}

		// faces are visited highest first, so only a stronger kind replaces the best
		if kind > best.Kind {
			best = Trigger{Kind: kind, Value: face, LowDice: low}
		}
	}

	return best, best.Kind != KindNone
}

func kindForCount(n int) Kind {
	switch {
	case n >= 5:
		return KindFiveOfAKind
	case n == 4:
		return KindFourOfAKind
	case n == 3:
		return KindThreeOfAKind
	}

	return KindNone
}

// TieBreak determines how simultaneous chest claims are settled
type TieBreak string

// TieBreak constants
const (
	TieBreakRankThenTime TieBreak = "rank_then_time"
	TieBreakTimeThenRank TieBreak = "time_then_rank"
)

// IsValid returns true for a known tie-break mode
func (t TieBreak) IsValid() bool {
	return t == TieBreakRankThenTime || t == TieBreakTimeThenRank
}

// Claim is a seat's qualifying combination at showdown
type Claim struct {
	PlayerID int64     `json:"playerId"`
	Trigger  Trigger   `json:"trigger"`
	At       time.Time `json:"at"`
}

// Winner picks the single winning claim
// Claims are expected in seat order; a complete tie goes to the earlier seat.
func Winner(claims []Claim, mode TieBreak) (Claim, bool) {
	if len(claims) == 0 {
		return Claim{}, false
	}

	sorted := append([]Claim{}, claims...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if mode == TieBreakTimeThenRank {
			if !a.At.Equal(b.At) {
				return a.At.Before(b.At)
			}

			return a.Trigger.Compare(b.Trigger) > 0
		}

		if cmp := a.Trigger.Compare(b.Trigger); cmp != 0 {
			return cmp > 0
		}

		return a.At.Before(b.At)
	})

	return sorted[0], true
}

// PayoutPercents is the share of the chest each kind of combination wins
type PayoutPercents struct {
	Three int `yaml:"three" json:"three"`
	Four  int `yaml:"four" json:"four"`
	Five  int `yaml:"five" json:"five"`
}

// For returns the percentage for the kind
func (p PayoutPercents) For(k Kind) int {
	switch k {
	case KindThreeOfAKind:
		return p.Three
	case KindFourOfAKind:
		return p.Four
	case KindFiveOfAKind:
		return p.Five
	}

	return 0
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}

	return 0
}
