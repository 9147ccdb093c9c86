package ai

import (
	"math"
	"sort"

	"shipcaptaincrew-server/internal/rng"
	"shipcaptaincrew-server/pkg/dice"
)

// Bot makes decisions for one seat
type Bot struct {
	Personality Personality
	rng         rng.Generator
}

// New returns a bot with the personality
func New(p Personality, g rng.Generator) *Bot {
	return &Bot{
		Personality: p,
		rng:         g,
	}
}

// LockView is what a bot can see during a lock phase
type LockView struct {
	Hand      dice.Hand
	Minimum   int
	Allowance int
	// Opponents holds each opponent's revealed dice counts, indexed by face
	Opponents [][dice.Sides + 1]int
}

// Locks returns the die indexes to toggle, in order
func (b *Bot) Locks(v LockView) []int {
	hand := v.Hand
	toggles := make([]int, 0)
	toggle := func(i int) bool {
		if err := hand.ToggleLock(i, v.Minimum, v.Allowance); err != nil {
			return false
		}

		toggles = append(toggles, i)
		return true
	}

	faces := b.faceOrder(hand, v.Opponents)
	target := faces[0]

	// everything showing the target face
	for i, d := range hand {
		if !d.Locked && d.Value == target {
			toggle(i)
		}
	}

	// top up to the minimum with the best remaining dice
	for _, face := range faces {
		for i, d := range hand {
			if hand.LockedCount() >= v.Minimum {
				break
			}

			if !d.Locked && d.IsRolled() && d.Value == face {
				toggle(i)
			}
		}
	}

	if rng.Chance(b.rng, b.Personality.MistakeChance) {
		b.blunder(&hand, v, &toggles)
	}

	return toggles
}

// blunder swaps a locked die for a worse unlocked one
func (b *Bot) blunder(hand *dice.Hand, v LockView, toggles *[]int) {
	better, worse := -1, -1
	for i, d := range hand {
		if d.Locked && !d.Public && (better < 0 || d.Value > hand[better].Value) {
			better = i
		}
	}

	if better < 0 {
		return
	}

	for i, d := range hand {
		if !d.Locked && d.IsRolled() && d.Value < hand[better].Value && (worse < 0 || d.Value < hand[worse].Value) {
			worse = i
		}
	}

	if worse < 0 {
		return
	}

	if hand.ToggleLock(worse, v.Minimum, v.Allowance) != nil {
		return
	}

	*toggles = append(*toggles, worse)
	if hand.ToggleLock(better, v.Minimum, v.Allowance) == nil {
		*toggles = append(*toggles, better)
	}
}

// faceOrder ranks faces by how worthwhile they are to lock
// Role faces are scored by how many the bot holds, how hard opponents contest them, the bot's role
// priority, and whether the bot is already committed. Non-role faces follow, highest first.
func (b *Bot) faceOrder(hand dice.Hand, opponents [][dice.Sides + 1]int) []int {
	counts := hand.Counts()
	locked := hand.LockedCounts()
	priority := b.Personality.priority()

	type scored struct {
		face  int
		score float64
	}

	ranked := make([]scored, 0, len(priority))
	for i, role := range priority {
		face := role.Face()
		competition := 0
		for _, opp := range opponents {
			if opp[face] > competition {
				competition = opp[face]
			}
		}

		score := float64(counts[face]) + float64(len(priority)-i)*0.5
		switch {
		case locked[face] > 0:
			score += 1.5
		case competition > counts[face]:
			score -= 2 * (1 - b.Personality.RiskTolerance)
		}

		score -= float64(competition) * 0.5
		ranked = append(ranked, scored{face: face, score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	faces := make([]int, 0, dice.Sides)
	for _, s := range ranked {
		faces = append(faces, s.face)
	}

	for face := 3; face >= 1; face-- {
		faces = append(faces, face)
	}

	return faces
}

// Move is a betting action
type Move int

// Move constants
const (
	MoveCheck Move = iota
	MoveCall
	MoveFold
	MoveBet
	MoveRaise
)

func (m Move) String() string {
	switch m {
	case MoveCall:
		return "call"
	case MoveFold:
		return "fold"
	case MoveBet:
		return "bet"
	case MoveRaise:
		return "raise"
	}

	return "check"
}

// Decision is a bot's betting action
type Decision struct {
	Move   Move
	Amount int
}

// BetView is what a bot can see during a betting round
type BetView struct {
	Hand           dice.Hand
	Opponents      [][dice.Sides + 1]int
	RollsRemaining int
	Owed           int
	CallAmount     int
	ActionAmount   int
	Stack          int
	Pot            int
	Limit          int
	Increment      int
	CanRaise       bool
	ChestBalance   int
	ChestEligible  bool
}

// Strength scores dice from 0 to 6 against what opponents have revealed
func Strength(hand dice.Hand, opponents [][dice.Sides + 1]int, rollsRemaining int) float64 {
	counts := hand.Counts()
	best := 0.0
	leads := 0
	for _, face := range []int{6, 5, 4} {
		competition := 0
		for _, opp := range opponents {
			if opp[face] > competition {
				competition = opp[face]
			}
		}

		s := float64(counts[face])*1.2 - float64(competition)*0.6
		if s > best {
			best = s
		}

		if counts[face] > competition {
			leads++
		}
	}

	strength := best
	if leads > 1 {
		strength += 0.5 * float64(leads-1)
	}

	// unlocked dice still have rolls to improve
	open := dice.Count - hand.LockedCount()
	strength += float64(open*rollsRemaining) * 0.15

	return math.Max(0, math.Min(6, strength))
}

// chestValue adds to strength when low dice could win the chest
func chestValue(v BetView) float64 {
	if !v.ChestEligible || v.ChestBalance <= 0 {
		return 0
	}

	counts := v.Hand.Counts()
	low := 0
	for face := 1; face <= 3; face++ {
		if counts[face] > low {
			low = counts[face]
		}
	}

	if low < 2 {
		return 0
	}

	ratio := float64(v.ChestBalance) / math.Max(1, float64(v.Pot))
	return float64(low-1) * 0.4 * math.Min(1, ratio)
}

// Bet decides a betting action
func (b *Bot) Bet(v BetView) Decision {
	p := b.Personality
	strength := Strength(v.Hand, v.Opponents, v.RollsRemaining) + chestValue(v)

	if rng.Chance(b.rng, p.BluffFrequency) {
		strength += 1.5
	}

	if rng.Chance(b.rng, p.MistakeChance) {
		strength -= 1.5
	}

	betLine := 3.5 - p.RiskTolerance
	raiseLine := 4.5 - p.RiskTolerance*1.5

	if v.Owed > 0 {
		if strength < p.FoldThreshold {
			return Decision{Move: MoveFold}
		}

		if v.CanRaise && strength >= raiseLine && v.Stack > v.CallAmount {
			return Decision{Move: MoveRaise, Amount: b.size(v, strength)}
		}

		return Decision{Move: MoveCall}
	}

	if strength >= betLine {
		return Decision{Move: MoveBet, Amount: b.size(v, strength)}
	}

	return Decision{Move: MoveCheck}
}

// size picks a wager before the table's limit and rounding are applied
func (b *Bot) size(v BetView, strength float64) int {
	base := v.ActionAmount
	if base <= 0 {
		base = v.Pot / 4
	}

	if v.Limit > 0 && base > v.Limit {
		base = v.Limit
	}

	mult := b.Personality.RaiseMultiplier
	if mult <= 0 {
		mult = 1
	}

	amount := int(float64(base) * mult * (strength/6 + 0.5))
	if amount < v.Increment {
		amount = v.Increment
	}

	if amount < 1 {
		amount = 1
	}

	return amount
}
