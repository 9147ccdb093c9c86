// Package potmanager tracks wagers, turn order, and pots for a single hand
package potmanager

import (
	"errors"
	"math"
)

// ErrParticipantNotFound is an error when a participant with a provided ID cannot be found
var ErrParticipantNotFound = errors.New("participant not found")

// ErrParticipantCannotAct is an error when the participant cannot act
var ErrParticipantCannotAct = errors.New("participant cannot act")

// ErrNotInTurn is an error when a participant acts out of turn
var ErrNotInTurn = errors.New("it is not your turn")

// ErrRoundOver is an error when the betting round is not accepting actions
var ErrRoundOver = errors.New("betting round is over")

// ErrCannotCheck is an error when a participant owes chips
var ErrCannotCheck = errors.New("you cannot check, you must call, raise, or fold")

// ErrNothingToCall is an error when a participant calls without owing
var ErrNothingToCall = errors.New("there is nothing to call")

// ErrBetOutstanding is an error when a participant bets into an existing bet
var ErrBetOutstanding = errors.New("there is already a bet, you must call, raise, or fold")

// ErrNoBetToRaise is an error when a participant raises before anyone bets
var ErrNoBetToRaise = errors.New("there is no bet to raise")

// ErrRaiseCap is an error when the round has already been raised the maximum number of times
var ErrRaiseCap = errors.New("the maximum number of raises has been reached")

// ErrInvalidAmount is an error when a wager amount is not positive
var ErrInvalidAmount = errors.New("amount must be greater than zero")

// Dripper skims part of every wager away from the pot
type Dripper interface {
	// Drip returns how much of the wager was taken
	Drip(wager int) int
}

// RoundConfig is the wager limits for one betting round
type RoundConfig struct {
	// Limit is the largest bet or raise; zero means no limit
	Limit int
	// Increment is the unit wagers are rounded to
	Increment   int
	MaxRaises   int
	Multipliers Multipliers
}

// PotManager keeps track of wagers and pots for a hand
type PotManager struct {
	participants map[int64]*ParticipantInPot
	tableOrder   []*ParticipantInPot
	dripper      Dripper
	carryover    int
	dripped      int

	round        RoundConfig
	tiers        map[int64]EdgeTier
	actionAmount int
	raises       int
	// actionAtIndex is the tableOrder index of the participant to act; -1 when the round is over
	actionAtIndex int
}

// New returns a PotManager seeded with the carryover from the previous hand
func New(dripper Dripper, carryover int) *PotManager {
	return &PotManager{
		participants:  make(map[int64]*ParticipantInPot),
		tableOrder:    make([]*ParticipantInPot, 0),
		dripper:       dripper,
		carryover:     carryover,
		tiers:         make(map[int64]EdgeTier),
		actionAtIndex: -1,
	}
}

// SeatParticipant adds a participant in betting order
func (p *PotManager) SeatParticipant(pt Participant) {
	pip := &ParticipantInPot{
		Participant: pt,
		tableIndex:  len(p.tableOrder),
	}

	p.participants[pt.ID()] = pip
	p.tableOrder = append(p.tableOrder, pip)
}

// Participant returns the participant in the pot
func (p *PotManager) Participant(id int64) (*ParticipantInPot, error) {
	pip, ok := p.participants[id]
	if !ok {
		return nil, ErrParticipantNotFound
	}

	return pip, nil
}

// Participants returns every participant in betting order
func (p *PotManager) Participants() []*ParticipantInPot {
	return p.tableOrder
}

// PostAnte takes the ante from a participant. Returns the amount taken.
func (p *PotManager) PostAnte(id int64, amount int) (int, error) {
	pip, err := p.Participant(id)
	if err != nil {
		return 0, err
	}

	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	return p.wager(pip, amount), nil
}

// StartRound opens a betting round with action at the first participant who can act,
// starting from tableOrder index start
func (p *PotManager) StartRound(cfg RoundConfig, tiers map[int64]EdgeTier, start int) {
	if cfg.Increment < 1 {
		cfg.Increment = 1
	}

	p.round = cfg
	p.tiers = tiers
	if p.tiers == nil {
		p.tiers = make(map[int64]EdgeTier)
	}

	p.actionAmount = 0
	p.raises = 0
	for _, pip := range p.tableOrder {
		pip.resetRound()
	}

	p.actionAtIndex = -1
	if p.activeCount() < 2 {
		return
	}

	n := len(p.tableOrder)
	for i := 0; i < n; i++ {
		idx := (start + i) % n
		if idx < 0 {
			idx += n
		}

		if p.tableOrder[idx].CanAct() {
			p.actionAtIndex = idx
			break
		}
	}

	// a lone participant who can act with nobody to match has nothing to do
	if p.actionAtIndex >= 0 && p.canActCount() < 2 {
		p.actionAtIndex = -1
	}
}

// IsRoundOver returns true if the betting round is complete
func (p *PotManager) IsRoundOver() bool {
	return p.actionAtIndex < 0
}

// GetInTurnParticipant returns the participant to act, or nil if the round is over
func (p *PotManager) GetInTurnParticipant() *ParticipantInPot {
	if p.actionAtIndex < 0 {
		return nil
	}

	return p.tableOrder[p.actionAtIndex]
}

// ActionAmount returns the current bet level
func (p *PotManager) ActionAmount() int {
	return p.actionAmount
}

// Raises returns the number of raises this round
func (p *PotManager) Raises() int {
	return p.raises
}

// Round returns the current round's limits
func (p *PotManager) Round() RoundConfig {
	return p.round
}

// Tier returns the participant's edge tier for this round
func (p *PotManager) Tier(id int64) EdgeTier {
	return p.tiers[id]
}

// Tiers returns every participant's edge tier for this round
func (p *PotManager) Tiers() map[int64]EdgeTier {
	return p.tiers
}

// Owed returns how far the participant is behind the current bet
func (p *PotManager) Owed(id int64) int {
	pip, ok := p.participants[id]
	if !ok || pip.roundBet >= p.actionAmount {
		return 0
	}

	return p.actionAmount - pip.roundBet
}

// CallAmount returns the chips a call costs the participant after its edge tier and stack
func (p *PotManager) CallAmount(id int64) int {
	pip, ok := p.participants[id]
	if !ok {
		return 0
	}

	return p.clampToStack(pip, p.catchUp(pip))
}

// CanRaise returns true if another raise is allowed this round
func (p *PotManager) CanRaise() bool {
	return p.actionAmount > 0 && (p.round.MaxRaises <= 0 || p.raises < p.round.MaxRaises)
}

// ParticipantFolds handles a fold
func (p *PotManager) ParticipantFolds(id int64) error {
	pip, err := p.getInTurnParticipant(id)
	if err != nil {
		return err
	}

	pip.isFolded = true
	pip.hasActed = true
	p.completeTurn()
	return nil
}

// ParticipantChecks handles a check
func (p *PotManager) ParticipantChecks(id int64) error {
	pip, err := p.getInTurnParticipant(id)
	if err != nil {
		return err
	}

	if pip.roundBet < p.actionAmount {
		return ErrCannotCheck
	}

	pip.hasActed = true
	p.completeTurn()
	return nil
}

// ParticipantCalls handles a call. Returns the chips paid.
func (p *PotManager) ParticipantCalls(id int64) (int, error) {
	pip, err := p.getInTurnParticipant(id)
	if err != nil {
		return 0, err
	}

	if pip.roundBet >= p.actionAmount {
		return 0, ErrNothingToCall
	}

	due := p.catchUp(pip)
	paid := p.wager(pip, due)
	if paid == due {
		pip.roundBet = p.actionAmount
	} else {
		pip.roundBet += paid
	}

	pip.hasActed = true
	p.completeTurn()
	return paid, nil
}

// ParticipantBets opens the betting. Returns the chips paid.
// The amount is clamped to the round's limit, rounded to the increment, then clamped to the stack.
func (p *PotManager) ParticipantBets(id int64, amount int) (int, error) {
	pip, err := p.getInTurnParticipant(id)
	if err != nil {
		return 0, err
	}

	if p.actionAmount > 0 {
		return 0, ErrBetOutstanding
	}

	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	amount = p.roundToIncrement(p.clampToLimit(amount))
	paid := p.wager(pip, amount)

	pip.roundBet = paid
	p.actionAmount = paid
	p.requeueOthers(pip)
	pip.hasActed = true
	p.completeTurn()
	return paid, nil
}

// ParticipantRaises calls the current bet and raises it by raiseBy. Returns the chips paid.
// raiseBy is clamped to the round's limit and rounded to the increment. The catch-up part is discounted
// by the participant's edge tier. The total is clamped to the stack.
func (p *PotManager) ParticipantRaises(id int64, raiseBy int) (int, error) {
	pip, err := p.getInTurnParticipant(id)
	if err != nil {
		return 0, err
	}

	if p.actionAmount == 0 {
		return 0, ErrNoBetToRaise
	}

	if !p.CanRaise() {
		return 0, ErrRaiseCap
	}

	if raiseBy <= 0 {
		return 0, ErrInvalidAmount
	}

	raiseBy = p.roundToIncrement(p.clampToLimit(raiseBy))
	catchUp := p.catchUp(pip)
	paid := p.wager(pip, catchUp+raiseBy)

	switch {
	case paid > catchUp:
		p.actionAmount += paid - catchUp
		pip.roundBet = p.actionAmount
		p.raises++
		p.requeueOthers(pip)
	case paid == catchUp:
		pip.roundBet = p.actionAmount
	default:
		pip.roundBet += paid
	}

	pip.hasActed = true
	p.completeTurn()
	return paid, nil
}

// ForceFold folds a participant regardless of turn order
func (p *PotManager) ForceFold(id int64) error {
	pip, err := p.Participant(id)
	if err != nil {
		return err
	}

	if pip.isFolded {
		return nil
	}

	pip.isFolded = true
	pip.hasActed = true
	if p.IsRoundOver() {
		return nil
	}

	// search again from the participant whose turn it was
	n := len(p.tableOrder)
	p.actionAtIndex = (p.actionAtIndex + n - 1) % n
	p.completeTurn()
	return nil
}

// ActiveParticipants returns the participants who have not folded
func (p *PotManager) ActiveParticipants() []*ParticipantInPot {
	active := make([]*ParticipantInPot, 0, len(p.tableOrder))
	for _, pip := range p.tableOrder {
		if !pip.isFolded {
			active = append(active, pip)
		}
	}

	return active
}

// Carryover returns the chips carried in from the previous hand
func (p *PotManager) Carryover() int {
	return p.carryover
}

// Dripped returns how much of this hand's wagers went to the chest
func (p *PotManager) Dripped() int {
	return p.dripped
}

// Total returns every chip in the pot including carryover
func (p *PotManager) Total() int {
	total := p.carryover
	for _, pip := range p.tableOrder {
		total += pip.net
	}

	return total
}

// Wagered returns the gross chips wagered this hand
func (p *PotManager) Wagered() int {
	total := 0
	for _, pip := range p.tableOrder {
		total += pip.gross
	}

	return total
}

func (p *PotManager) getInTurnParticipant(id int64) (*ParticipantInPot, error) {
	pip, err := p.Participant(id)
	if err != nil {
		return nil, err
	}

	if p.IsRoundOver() {
		return nil, ErrRoundOver
	}

	if !pip.CanAct() {
		return nil, ErrParticipantCannotAct
	}

	if p.tableOrder[p.actionAtIndex] != pip {
		return nil, ErrNotInTurn
	}

	return pip, nil
}

// wager moves chips from the participant's stack into the pot, skimming the drip
func (p *PotManager) wager(pip *ParticipantInPot, amount int) int {
	if amount >= pip.Balance() {
		amount = pip.Balance()
		pip.isAllIn = true
	}

	if amount <= 0 {
		return 0
	}

	pip.AdjustBalance(-1 * amount)
	pip.gross += amount

	dripped := 0
	if p.dripper != nil {
		dripped = p.dripper.Drip(amount)
	}

	p.dripped += dripped
	pip.net += amount - dripped
	return amount
}

// catchUp is what the participant pays to match the current bet after its edge tier discount
func (p *PotManager) catchUp(pip *ParticipantInPot) int {
	owed := p.actionAmount - pip.roundBet
	if owed <= 0 {
		return 0
	}

	discounted := float64(owed) * p.round.Multipliers.For(p.tiers[pip.ID()])
	inc := p.increment()
	due := int(math.Round(discounted/float64(inc))) * inc
	if due > owed {
		due = owed
	}

	if due <= 0 {
		due = inc
		if due > owed {
			due = owed
		}
	}

	return due
}

func (p *PotManager) clampToLimit(amount int) int {
	if p.round.Limit > 0 && amount > p.round.Limit {
		return p.round.Limit
	}

	return amount
}

func (p *PotManager) roundToIncrement(amount int) int {
	inc := p.increment()
	rounded := (amount + inc/2) / inc * inc
	if rounded < inc {
		rounded = inc
	}

	// rounding up must not break the limit
	if p.round.Limit > 0 && rounded > p.round.Limit {
		rounded -= inc
		if rounded < inc {
			rounded = p.round.Limit
		}
	}

	return rounded
}

func (p *PotManager) clampToStack(pip *ParticipantInPot, amount int) int {
	if amount > pip.Balance() {
		return pip.Balance()
	}

	return amount
}

func (p *PotManager) increment() int {
	if p.round.Increment < 1 {
		return 1
	}

	return p.round.Increment
}

// requeueOthers makes everyone else who can act respond to a changed bet
func (p *PotManager) requeueOthers(actor *ParticipantInPot) {
	for _, pip := range p.tableOrder {
		if pip != actor && pip.CanAct() {
			pip.hasActed = false
		}
	}
}

func (p *PotManager) activeCount() int {
	n := 0
	for _, pip := range p.tableOrder {
		if !pip.isFolded {
			n++
		}
	}

	return n
}

func (p *PotManager) canActCount() int {
	n := 0
	for _, pip := range p.tableOrder {
		if pip.CanAct() {
			n++
		}
	}

	return n
}

func (p *PotManager) needsAction(pip *ParticipantInPot) bool {
	if !pip.CanAct() {
		return false
	}

	return !pip.hasActed || pip.roundBet < p.actionAmount
}

// completeTurn must be called after a participant bets, raises, checks, calls, or folds
func (p *PotManager) completeTurn() {
	if p.activeCount() < 2 {
		p.actionAtIndex = -1
		return
	}

	n := len(p.tableOrder)
	for i := 1; i <= n; i++ {
		idx := (p.actionAtIndex + i) % n
		pip := p.tableOrder[idx]
		if !p.needsAction(pip) {
			continue
		}

		// the last one standing with chips has nobody left to bet against
		if p.canActCount() == 1 && pip.roundBet >= p.actionAmount {
			continue
		}

		p.actionAtIndex = idx
		return
	}

	p.actionAtIndex = -1
}
