package potmanager

// Participant provides an interface for retrieving and adjusting a participant's table stack
type Participant interface {
	ID() int64
	Balance() int
	AdjustBalance(amount int)
}

// ParticipantInPot is a participant in the hand's pot
type ParticipantInPot struct {
	Participant
	// tableIndex is the participant's position in betting order
	tableIndex int
	// roundBet is the bet level the participant has matched this round
	roundBet int
	// gross is every chip the participant has put in this hand
	gross int
	// net is gross less what was dripped into the chest
	net      int
	hasActed bool
	isAllIn  bool
	isFolded bool
}

// RoundBet returns the bet level the participant has matched this round
func (p *ParticipantInPot) RoundBet() int {
	return p.roundBet
}

// Gross returns the chips the participant has wagered this hand
func (p *ParticipantInPot) Gross() int {
	return p.gross
}

// Net returns the participant's contribution to the pot after drip
func (p *ParticipantInPot) Net() int {
	return p.net
}

// IsAllIn returns true if the participant has no chips left to wager
func (p *ParticipantInPot) IsAllIn() bool {
	return p.isAllIn
}

// IsFolded returns true if the participant folded
func (p *ParticipantInPot) IsFolded() bool {
	return p.isFolded
}

// HasActed returns true if the participant acted since the bet last changed
func (p *ParticipantInPot) HasActed() bool {
	return p.hasActed
}

// CanAct returns true if the participant can check, call, bet, raise, or fold
func (p *ParticipantInPot) CanAct() bool {
	return !p.isFolded && !p.isAllIn
}

func (p *ParticipantInPot) resetRound() {
	p.roundBet = 0
	p.hasActed = false
}
