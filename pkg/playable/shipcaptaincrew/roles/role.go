// Package roles assigns Ship, Captain and Crew from final dice and splits pots between the role holders.
package roles

import (
	"encoding/json"
	"fmt"
)

// Role is a payout position
type Role int

// Role constants, highest priority first after RoleNone
const (
	RoleNone Role = iota
	RoleShip
	RoleCaptain
	RoleCrew
)

// All is every role in priority order
var All = []Role{RoleShip, RoleCaptain, RoleCrew}

// Face returns the die face that decides the role
func (r Role) Face() int {
	switch r {
	case RoleShip:
		return 6
	case RoleCaptain:
		return 5
	case RoleCrew:
		return 4
	}

	return 0
}

func (r Role) String() string {
	switch r {
	case RoleShip:
		return "ship"
	case RoleCaptain:
		return "captain"
	case RoleCrew:
		return "crew"
	}

	return "none"
}

// MarshalJSON encodes the role by name
func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// MarshalText allows roles as JSON map keys
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// FromString returns the role for a name
func FromString(s string) (Role, error) {
	for _, r := range All {
		if r.String() == s {
			return r, nil
		}
	}

	return RoleNone, fmt.Errorf("unknown role: %s", s)
}

// Minimums is the fewest matching dice needed to claim each role
type Minimums struct {
	Ship    int `yaml:"ship" json:"ship"`
	Captain int `yaml:"captain" json:"captain"`
	Crew    int `yaml:"crew" json:"crew"`
}

// For returns the minimum for the role
func (m Minimums) For(r Role) int {
	switch r {
	case RoleShip:
		return m.Ship
	case RoleCaptain:
		return m.Captain
	case RoleCrew:
		return m.Crew
	}

	return 0
}

// Contender is a seat's final dice at showdown
type Contender struct {
	PlayerID int64
	Dice     []int
}

func (c Contender) count(face int) int {
	n := 0
	for _, v := range c.Dice {
		if v == face {
			n++
		}
	}

	return n
}

// Assignment is who holds each role
type Assignment struct {
	Holders map[Role]int64 `json:"holders"`
	// Ties records the seats that tied for a role, leaving it vacant
	Ties map[Role][]int64 `json:"ties,omitempty"`
}

// Holder returns the player holding the role
func (a Assignment) Holder(r Role) (int64, bool) {
	id, ok := a.Holders[r]
	return id, ok
}

// IsVacant returns true if nobody holds the role
func (a Assignment) IsVacant(r Role) bool {
	_, ok := a.Holders[r]
	return !ok
}

// RoleOf returns the role a player holds
func (a Assignment) RoleOf(playerID int64) Role {
	for r, id := range a.Holders {
		if id == playerID {
			return r
		}
	}

	return RoleNone
}

// Assign hands out roles in priority order
// A role goes to the one seat with strictly the most matching dice among the seats that do not already
// hold a role, provided the count meets the minimum. Ties leave the role vacant.
func Assign(contenders []Contender, mins Minimums) Assignment {
	a := Assignment{
		Holders: make(map[Role]int64),
		Ties:    make(map[Role][]int64),
	}

	taken := make(map[int64]bool)
	for _, role := range All {
		best := 0
		var leaders []int64
		for _, c := range contenders {
			if taken[c.PlayerID] {
				continue
			}

			n := c.count(role.Face())
			if n == 0 {
				continue
			}

			if n > best {
				best = n
				leaders = []int64{c.PlayerID}
			} else if n == best {
				leaders = append(leaders, c.PlayerID)
			}
		}

		if best == 0 || best < mins.For(role) {
			continue
		}

		if len(leaders) > 1 {
			a.Ties[role] = leaders
			continue
		}

		a.Holders[role] = leaders[0]
		taken[leaders[0]] = true
	}

	return a
}
