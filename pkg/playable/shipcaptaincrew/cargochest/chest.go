// Package cargochest implements the progressive jackpot that persists across hands at a table.
//
// Every wager drips a fraction into the chest. Sub-chip fractions are carried forward in a
// remainder measured in millionths of a chip, so the chest never gains or loses value to rounding
// regardless of how a total wager is split.
package cargochest

import (
	"encoding/json"
	"math"
)

// microsPerChip is the resolution of the drip remainder
const microsPerChip = 1_000_000

// Chest is a table's cargo chest
type Chest struct {
	balance   int
	remainder int64
	rate      int64
}

// New returns a chest with a restored balance and remainder
func New(balance int, remainder int64, dripPercent float64) *Chest {
	c := &Chest{
		balance:   balance,
		remainder: remainder,
	}

	c.SetDripPercent(dripPercent)
	return c
}

// SetDripPercent changes the fraction of each wager that is diverted into the chest
func (c *Chest) SetDripPercent(percent float64) {
	if percent < 0 {
		percent = 0
	} else if percent > 100 {
		percent = 100
	}

	c.rate = int64(math.Round(percent * microsPerChip / 100))
}

// Drip diverts a fraction of the wager into the chest and returns the number of whole chips taken
// The caller is expected to credit wager - Drip(wager) to the pot.
func (c *Chest) Drip(wager int) int {
	if wager <= 0 || c.rate == 0 {
		return 0
	}

	exact := int64(wager)*c.rate + c.remainder
	taken := exact / microsPerChip
	c.remainder = exact % microsPerChip

	c.balance += int(taken)
	return int(taken)
}

// Deposit adds chips directly (vacant role shares, bust fees)
func (c *Chest) Deposit(amount int) {
	if amount > 0 {
		c.balance += amount
	}
}

// Award removes percent of the balance from the chest and returns it
func (c *Chest) Award(percent int) int {
	if percent <= 0 || c.balance <= 0 {
		return 0
	}

	if percent > 100 {
		percent = 100
	}

	amount := c.balance * percent / 100
	c.balance -= amount
	return amount
}

// Balance returns the whole chips in the chest
func (c *Chest) Balance() int {
	return c.balance
}

// Remainder returns the carried fractional drip, in millionths of a chip
func (c *Chest) Remainder() int64 {
	return c.remainder
}

// MarshalJSON encodes the chest for the table state
func (c *Chest) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Balance int `json:"balance"`
	}{
		Balance: c.balance,
	})
}
