package dice

import (
	"errors"
	"sort"
	"strings"

	"shipcaptaincrew-server/internal/rng"
)

// Count is the number of dice each seat rolls
const Count = 5

// ErrInvalidDie is returned when a die index is out of range
var ErrInvalidDie = errors.New("invalid die")

// ErrDieNotRolled is returned when a lock is attempted on a die that has not been rolled
var ErrDieNotRolled = errors.New("die has not been rolled")

// ErrLockAllowance is returned when a lock would exceed the seat's allowance for the round
var ErrLockAllowance = errors.New("you cannot lock any more dice this round")

// ErrLockMinimum is returned when an unlock would drop the seat below the round's minimum
var ErrLockMinimum = errors.New("you must keep the minimum number of dice locked")

// ErrDieRevealed is returned when an unlock is attempted on a die opponents have already seen
var ErrDieRevealed = errors.New("a revealed die cannot be unlocked")

// DefaultPriority is the order dice are auto-locked in: ship, captain, crew, then the rest
var DefaultPriority = []int{6, 5, 4, 3, 2, 1}

// Hand is the five dice belonging to a seat
type Hand [Count]Die

// Reset clears all dice for a new hand
func (h *Hand) Reset() {
	for i := range h {
		h[i] = Die{}
	}
}

// Roll replaces every unlocked die with a fresh value
func (h *Hand) Roll(g rng.Generator) {
	for i := range h {
		if h[i].Locked {
			continue
		}

		h[i].Value = g.Intn(Sides) + 1
		h[i].Public = false
	}
}

// LockedCount returns how many dice are locked
func (h Hand) LockedCount() int {
	n := 0
	for _, d := range h {
		if d.Locked {
			n++
		}
	}

	return n
}

// PublicCount returns how many dice have been revealed
func (h Hand) PublicCount() int {
	n := 0
	for _, d := range h {
		if d.Public {
			n++
		}
	}

	return n
}

// Counts returns the number of dice showing each face. Index 0 is unused.
func (h Hand) Counts() [Sides + 1]int {
	var counts [Sides + 1]int
	for _, d := range h {
		if d.IsRolled() {
			counts[d.Value]++
		}
	}

	return counts
}

// LockedCounts returns the number of locked dice showing each face
func (h Hand) LockedCounts() [Sides + 1]int {
	var counts [Sides + 1]int
	for _, d := range h {
		if d.Locked && d.IsRolled() {
			counts[d.Value]++
		}
	}

	return counts
}

// PublicCounts returns the number of revealed dice showing each face
func (h Hand) PublicCounts() [Sides + 1]int {
	var counts [Sides + 1]int
	for _, d := range h {
		if d.Public && d.IsRolled() {
			counts[d.Value]++
		}
	}

	return counts
}

// Values returns the face values in seat order
func (h Hand) Values() []int {
	values := make([]int, 0, Count)
	for _, d := range h {
		values = append(values, d.Value)
	}

	return values
}

// ToggleLock locks an unlocked die, or unlocks a locked die
// A lock fails if the seat already holds allowance locked dice. An unlock fails if it would leave fewer
// than minimum dice locked, or if the die has been revealed.
func (h *Hand) ToggleLock(index, minimum, allowance int) error {
	if index < 0 || index >= Count {
		return ErrInvalidDie
	}

	d := &h[index]
	if !d.IsRolled() {
		return ErrDieNotRolled
	}

	if !d.Locked {
		if h.LockedCount() >= allowance {
			return ErrLockAllowance
		}

		d.Locked = true
		return nil
	}

	if d.Public {
		return ErrDieRevealed
	}

	if h.LockedCount()-1 < minimum {
		return ErrLockMinimum
	}

	d.Locked = false
	return nil
}

// AutoLock locks dice in priority order until minimum dice are locked
// It returns the indexes of the dice that were locked.
func (h *Hand) AutoLock(minimum int, priority []int) []int {
	if len(priority) == 0 {
		priority = DefaultPriority
	}

	locked := make([]int, 0)
	for _, value := range priority {
		for i := range h {
			if h.LockedCount() >= minimum {
				return locked
			}

			if !h[i].Locked && h[i].IsRolled() && h[i].Value == value {
				h[i].Locked = true
				locked = append(locked, i)
			}
		}
	}

	return locked
}

// Reveal makes the highest locked dice public until at least n are public
// Previously revealed dice stay revealed. Returns true if anything changed.
func (h *Hand) Reveal(n int) bool {
	if h.PublicCount() >= n {
		return false
	}

	indexes := make([]int, 0, Count)
	for i, d := range h {
		if d.Locked && !d.Public {
			indexes = append(indexes, i)
		}
	}

	sort.SliceStable(indexes, func(i, j int) bool {
		return h[indexes[i]].Value > h[indexes[j]].Value
	})

	changed := false
	for _, i := range indexes {
		if h.PublicCount() >= n {
			break
		}

		h[i].Public = true
		changed = true
	}

	return changed
}

// View returns the hand as an opponent sees it: only revealed dice are shown
func (h Hand) View() Hand {
	var view Hand
	for i, d := range h {
		if d.Public {
			view[i] = d
		}
	}

	return view
}

// String returns a human readable form, e.g., "[6] [5] 3 2 1"
func (h Hand) String() string {
	parts := make([]string, len(h))
	for i, d := range h {
		parts[i] = d.String()
	}

	return strings.Join(parts, " ")
}
