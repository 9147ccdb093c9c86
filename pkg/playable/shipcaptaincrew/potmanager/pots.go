package potmanager

import "sort"

// Pot is a main or side pot and the participants who can win it
type Pot struct {
	Amount   int     `json:"amount"`
	Eligible []int64 `json:"eligible"`
}

// Pots splits the pot by contribution. The main pot is first.
// Side pots exist only when a participant who has not folded is all-in for less than someone else
// wagered. Layers are cut on gross wagers so the drip never makes equal wagers look unequal; each
// side pot then takes its share of the pot after drip, and the main pot keeps the rounding along
// with the carryover.
func (p *PotManager) Pots() []*Pot {
	active := p.ActiveParticipants()
	highest := 0
	for _, pip := range p.tableOrder {
		if pip.gross > highest {
			highest = pip.gross
		}
	}

	thresholds := make([]int, 0)
	seen := make(map[int]bool)
	for _, pip := range active {
		if pip.isAllIn && !seen[pip.gross] && pip.gross < highest {
			seen[pip.gross] = true
			thresholds = append(thresholds, pip.gross)
		}
	}

	if len(thresholds) == 0 {
		return []*Pot{{Amount: p.Total(), Eligible: ids(active)}}
	}

	sort.Ints(thresholds)
	thresholds = append(thresholds, highest)

	// gross holds each layer's gross wagers until they are scaled to the pot
	layers := make([]*Pot, 0, len(thresholds))
	gross := make([]int, 0, len(thresholds))
	prev := 0
	for _, t := range thresholds {
		amount := 0
		for _, pip := range p.tableOrder {
			amount += layer(pip.gross, prev, t)
		}

		eligible := make([]int64, 0, len(active))
		for _, pip := range active {
			if pip.gross > prev {
				eligible = append(eligible, pip.ID())
			}
		}

		switch {
		case amount == 0:
		case len(eligible) == 0 && len(layers) > 0:
			gross[len(gross)-1] += amount
		default:
			layers = append(layers, &Pot{Eligible: eligible})
			gross = append(gross, amount)
		}

		prev = t
	}

	if len(layers) == 0 {
		return []*Pot{{Amount: p.carryover, Eligible: ids(active)}}
	}

	wagered := p.Wagered()
	net := p.Total() - p.carryover
	remaining := net
	for i := 1; i < len(layers); i++ {
		layers[i].Amount = int(int64(net) * int64(gross[i]) / int64(wagered))
		remaining -= layers[i].Amount
	}

	layers[0].Amount = remaining + p.carryover
	return layers
}

// layer returns the part of a contribution between low and high
func layer(contribution, low, high int) int {
	if contribution <= low {
		return 0
	}

	if contribution > high {
		return high - low
	}

	return contribution - low
}

func ids(pips []*ParticipantInPot) []int64 {
	out := make([]int64, len(pips))
	for i, pip := range pips {
		out[i] = pip.ID()
	}

	return out
}
