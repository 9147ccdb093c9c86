package potmanager

import "encoding/json"

// EdgeTier is a participant's standing on the revealed dice, which discounts catch-up wagers
type EdgeTier int

// EdgeTier constants
const (
	TierBehind EdgeTier = iota
	TierCo
	TierLeader
	TierDominant
)

func (e EdgeTier) String() string {
	switch e {
	case TierCo:
		return "co"
	case TierLeader:
		return "leader"
	case TierDominant:
		return "dominant"
	}

	return "behind"
}

// MarshalJSON encodes the tier by name
func (e EdgeTier) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

// Multipliers scale what a participant pays to catch up to the current bet
type Multipliers struct {
	Behind   float64 `yaml:"behind" json:"behind"`
	Co       float64 `yaml:"co" json:"co"`
	Leader   float64 `yaml:"leader" json:"leader"`
	Dominant float64 `yaml:"dominant" json:"dominant"`
}

// DefaultMultipliers favors the participant who is behind
var DefaultMultipliers = Multipliers{
	Behind:   0.75,
	Co:       0.9,
	Leader:   1,
	Dominant: 1,
}

// For returns the multiplier for the tier
func (m Multipliers) For(t EdgeTier) float64 {
	switch t {
	case TierCo:
		return m.Co
	case TierLeader:
		return m.Leader
	case TierDominant:
		return m.Dominant
	}

	return m.Behind
}

// roleFaces are the faces that decide Ship, Captain and Crew
var roleFaces = [3]int{6, 5, 4}

// ComputeTiers ranks each participant by its revealed, locked dice
// counts holds a participant's revealed locked dice, indexed by face.
// Leading outright in two or more role faces is dominant, in exactly one is leader, and sharing the lead
// in any is co. A face nobody has revealed counts as shared by everyone.
func ComputeTiers(counts map[int64][7]int) map[int64]EdgeTier {
	outright := make(map[int64]int, len(counts))
	shared := make(map[int64]int, len(counts))

	for _, face := range roleFaces {
		best := 0
		var leaders []int64
		for id, c := range counts {
			switch {
			case c[face] > best:
				best = c[face]
				leaders = []int64{id}
			case c[face] == best:
				leaders = append(leaders, id)
			}
		}

		if len(leaders) == 1 {
			outright[leaders[0]]++
			continue
		}

		for _, id := range leaders {
			shared[id]++
		}
	}

	tiers := make(map[int64]EdgeTier, len(counts))
	for id := range counts {
		switch {
		case outright[id] >= 2:
			tiers[id] = TierDominant
		case outright[id] == 1:
			tiers[id] = TierLeader
		case shared[id] > 0:
			tiers[id] = TierCo
		default:
			tiers[id] = TierBehind
		}
	}

	return tiers
}
