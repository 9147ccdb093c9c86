// Package ai decides locks and wagers for computer-controlled seats
package ai

import (
	"fmt"
	"sort"

	"shipcaptaincrew-server/internal/rng"
	"shipcaptaincrew-server/pkg/playable/shipcaptaincrew/roles"
)

// Personality tunes how a bot plays
type Personality struct {
	// RiskTolerance from 0 (timid) to 1 (reckless) lowers the strength needed to bet and raise
	RiskTolerance float64 `yaml:"riskTolerance" json:"riskTolerance"`
	// BluffFrequency is the chance a bot plays as if its dice were better
	BluffFrequency float64 `yaml:"bluffFrequency" json:"bluffFrequency"`
	// FoldThreshold is the strength below which a bot folds rather than pay
	FoldThreshold float64 `yaml:"foldThreshold" json:"foldThreshold"`
	// RaiseMultiplier scales bet and raise sizes
	RaiseMultiplier float64 `yaml:"raiseMultiplier" json:"raiseMultiplier"`
	// MistakeChance is the chance a bot misjudges a lock or its strength
	MistakeChance float64 `yaml:"mistakeChance" json:"mistakeChance"`
	// RolePriority is the order the bot chases roles in
	RolePriority []roles.Role `yaml:"-" json:"rolePriority"`
}

// Personalities are the named presets
var Personalities = map[string]Personality{
	"cautious": {
		RiskTolerance:   0.2,
		BluffFrequency:  0.02,
		FoldThreshold:   2,
		RaiseMultiplier: 1,
		MistakeChance:   0.02,
		RolePriority:    []roles.Role{roles.RoleShip, roles.RoleCaptain, roles.RoleCrew},
	},
	"balanced": {
		RiskTolerance:   0.5,
		BluffFrequency:  0.08,
		FoldThreshold:   1.5,
		RaiseMultiplier: 1.5,
		MistakeChance:   0.05,
		RolePriority:    []roles.Role{roles.RoleShip, roles.RoleCaptain, roles.RoleCrew},
	},
	"aggressive": {
		RiskTolerance:   0.8,
		BluffFrequency:  0.2,
		FoldThreshold:   1,
		RaiseMultiplier: 2,
		MistakeChance:   0.05,
		RolePriority:    []roles.Role{roles.RoleShip, roles.RoleCaptain, roles.RoleCrew},
	},
	"deckhand": {
		RiskTolerance:   0.4,
		BluffFrequency:  0.1,
		FoldThreshold:   1.25,
		RaiseMultiplier: 1.25,
		MistakeChance:   0.1,
		RolePriority:    []roles.Role{roles.RoleCrew, roles.RoleCaptain, roles.RoleShip},
	},
}

// ErrUnknownPersonality is returned for a personality name that has no preset
type ErrUnknownPersonality string

func (e ErrUnknownPersonality) Error() string {
	return fmt.Sprintf("unknown personality: %s", string(e))
}

// PersonalityNames returns the preset names in sorted order
func PersonalityNames() []string {
	names := make([]string, 0, len(Personalities))
	for name := range Personalities {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// Lookup returns a preset by name
func Lookup(name string) (Personality, error) {
	p, ok := Personalities[name]
	if !ok {
		return Personality{}, ErrUnknownPersonality(name)
	}

	return p, nil
}

// Random picks a preset
func Random(g rng.Generator) (string, Personality) {
	names := PersonalityNames()
	name := names[g.Intn(len(names))]
	return name, Personalities[name]
}

func (p Personality) priority() []roles.Role {
	if len(p.RolePriority) == 0 {
		return roles.All
	}

	return p.RolePriority
}
