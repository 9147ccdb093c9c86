package shipcaptaincrew

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"shipcaptaincrew-server/pkg/dice"
	"shipcaptaincrew-server/pkg/playable/shipcaptaincrew/cargochest"
	"shipcaptaincrew-server/pkg/playable/shipcaptaincrew/potmanager"
	"shipcaptaincrew-server/pkg/playable/shipcaptaincrew/roles"
)

// transition moves to the next phase and runs its entry side effects
// The previous phase's deadline is cleared in the same step, so it can never fire late.
func (g *Game) transition(to Phase) {
	if !canTransition(g.phase, to) {
		g.logger.WithFields(logrus.Fields{
			"from": g.phase.String(),
			"to":   to.String(),
		}).Error("illegal phase transition")
		return
	}

	from := g.phase
	g.phase = to
	g.phaseID++
	g.deadline = time.Time{}
	g.turn = 0

	g.logger.WithFields(logrus.Fields{
		"from":    from.String(),
		"to":      to.String(),
		"phaseID": g.phaseID,
	}).Debug("phase transition")

	switch {
	case to == PhaseLobby:
		g.enterLobby()
	case to == PhaseAnte:
		g.enterAnte()
	case to.IsRoll():
		g.enterRoll()
	case to.IsLock():
		g.enterLock()
	case to.IsBet():
		g.enterBet()
	case to == PhaseShowdown:
		g.enterShowdown()
	case to == PhasePayout:
		g.enterPayout()
	case to == PhaseHandEnd:
		g.enterHandEnd()
	}
}

func (g *Game) setDeadline(d time.Duration) {
	g.deadline = g.clock.Now().Add(d)
	g.deadlineID = g.phaseID
}

// Deadline returns when the current phase or turn times out
func (g *Game) Deadline() (time.Time, bool) {
	if g.deadline.IsZero() || g.deadlineID != g.phaseID {
		return time.Time{}, false
	}

	return g.deadline, true
}

// shortCircuit ends the hand if fewer than two seats remain
func (g *Game) shortCircuit() bool {
	if g.hand == nil || !g.phase.InHand() || g.phase < PhaseRoll1 {
		return false
	}

	if len(g.hand.active()) >= 2 {
		return false
	}

	g.transition(PhaseHandEnd)
	return true
}

func (g *Game) enterLobby() {
	g.hand = nil
	g.applyPendingOptions()
	g.sendLogMessages(newLogMessage(0, "Waiting for players"))
	g.afterSeatChange()
}

// nextDealer returns the seat index of the funded seat after the button
func (g *Game) nextDealer(funded []*Seat, after int) int {
	if len(funded) == 0 {
		return -1
	}

	for _, s := range funded {
		if s.Index > after {
			return s.Index
		}
	}

	return funded[0].Index
}

// pickDealer moves the button to the next funded seat
// In dealer ante mode the button skips seats that cannot cover everyone's ante.
func (g *Game) pickDealer(funded []*Seat) int {
	if len(funded) < 2 {
		return -1
	}

	after := g.dealer
	for range funded {
		candidate := g.nextDealer(funded, after)
		if g.options.AnteMode != AnteModeDealer || g.seats[candidate].stack >= g.options.Ante*len(funded) {
			return candidate
		}

		after = candidate
	}

	return -1
}

// canStartHand returns true if a hand could be dealt now
func (g *Game) canStartHand() bool {
	return g.pickDealer(g.fundedSeats()) >= 0
}

func (g *Game) enterAnte() {
	g.applyPendingOptions()

	for _, s := range g.occupied() {
		s.resetForHand()
	}

	funded := g.fundedSeats()
	dealer := g.pickDealer(funded)
	ante := g.options.Ante

	if len(funded) < 2 || dealer < 0 {
		g.sendLogMessages(newLogMessage(0, "Not enough funded players to start a hand"))
		g.transition(PhaseLobby)
		return
	}

	g.dealer = dealer
	g.handNumber++

	order := make([]*Seat, 0, len(funded))
	for _, s := range funded {
		if s.Index > dealer {
			order = append(order, s)
		}
	}

	for _, s := range funded {
		if s.Index <= dealer {
			order = append(order, s)
		}
	}

	h := &Hand{
		ID:         uuid.New().String(),
		Number:     g.handNumber,
		Dealer:     g.seats[dealer].PlayerID,
		Ante:       ante,
		seats:      order,
		antePaid:   make(map[int64]int),
		startTotal: g.tableTotal(),
	}

	h.pot = potmanager.New(g.chest, g.carryover)
	g.carryover = 0
	g.hand = h

	for _, s := range order {
		s.inHand = true
		h.pot.SeatParticipant(s)
	}

	for _, s := range g.occupied() {
		if !s.inHand {
			s.sittingOut = true
		}
	}

	charge := func(s *Seat, amount int) {
		paid, err := h.pot.PostAnte(s.PlayerID, amount)
		if err != nil {
			g.logger.WithError(err).WithField("playerID", s.PlayerID).Error("could not post ante")
			return
		}

		h.antePaid[s.PlayerID] = paid
		g.ledger.ApplyBalanceDelta(newBalanceDelta(h.ID, s.PlayerID, ReasonAnte, -paid))
	}

	if g.options.AnteMode == AnteModeDealer {
		charge(g.seats[dealer], ante*len(order))
		g.sendLogMessages(newLogMessage(h.Dealer, "{} paid the %d ante for %d players", ante*len(order), len(order)))
	} else {
		for _, s := range order {
			charge(s, ante)
		}

		g.sendLogMessages(newLogMessage(0, "Hand #%d started, everyone paid the %d ante", h.Number, ante))
	}

	g.logger.WithFields(logrus.Fields{
		"handID":  h.ID,
		"number":  h.Number,
		"dealer":  h.Dealer,
		"players": len(order),
		"pot":     h.pot.Total(),
	}).Info("hand started")

	g.transition(PhaseRoll1)
}

func (g *Game) enterRoll() {
	if g.shortCircuit() {
		return
	}

	for _, s := range g.hand.active() {
		s.dice.Roll(g.rng)
	}

	if g.phase == PhaseRoll4 {
		g.sendLogMessages(newLogMessage(0, "Final roll"))
	}

	g.transition(g.phase.next())
}

// lockMinimum is how many dice must be locked by the end of the current lock phase
func (g *Game) lockMinimum() int {
	return g.phase.Round()
}

func (g *Game) enterLock() {
	if g.shortCircuit() {
		return
	}

	minimum := g.lockMinimum()
	for _, s := range g.hand.active() {
		s.lockDone = false
		s.allowance = s.dice.LockedCount() + g.options.MaxNewLocks
		if s.allowance > dice.Count {
			s.allowance = dice.Count
		}

		if s.allowance < minimum {
			s.allowance = minimum
		}
	}

	g.setDeadline(g.options.LockWindow)
	g.sendLogMessages(newLogMessage(0, "Lock at least %d dice", minimum))

	phaseID := g.phaseID
	for _, s := range g.hand.active() {
		if g.phaseID != phaseID {
			return
		}

		switch {
		case s.bot != nil:
			g.botLocks(s)
		case g.isDefaulted(s):
			g.autoLock(s)
		}
	}
}

// autoLock locks by priority up to the minimum and finishes the seat's lock phase
func (g *Game) autoLock(s *Seat) {
	if locked := s.dice.AutoLock(g.lockMinimum(), dice.DefaultPriority); len(locked) > 0 {
		s.lastLockAt = g.clock.Now()
	}

	if err := g.apply(s.PlayerID, Action{Type: ActionLockDone}); err != nil {
		g.logger.WithError(err).WithField("playerID", s.PlayerID).Error("could not finish locking")
	}
}

func (g *Game) toggleLock(s *Seat, die int) error {
	if !g.phase.IsLock() {
		return ErrWrongPhase
	}

	if !s.inHand || g.hand.isFolded(s) {
		return ErrNotInHand
	}

	if s.lockDone {
		return ErrLockDone
	}

	if err := s.dice.ToggleLock(die, g.lockMinimum(), s.allowance); err != nil {
		return err
	}

	s.lastLockAt = g.clock.Now()
	return nil
}

func (g *Game) lockDone(s *Seat) error {
	if !g.phase.IsLock() {
		return ErrWrongPhase
	}

	if !s.inHand || g.hand.isFolded(s) {
		return ErrNotInHand
	}

	if s.lockDone {
		return ErrLockDone
	}

	if s.dice.LockedCount() < g.lockMinimum() {
		return dice.ErrLockMinimum
	}

	s.lockDone = true
	g.checkLocksDone()
	return nil
}

func (g *Game) checkLocksDone() {
	for _, s := range g.hand.active() {
		if !s.lockDone {
			return
		}
	}

	g.closeLock()
}

// closeLock enforces the minimum and reveals locked dice, then moves on
func (g *Game) closeLock() {
	minimum := g.lockMinimum()
	for _, s := range g.hand.active() {
		if s.dice.LockedCount() < minimum {
			if locked := s.dice.AutoLock(minimum, dice.DefaultPriority); len(locked) > 0 {
				s.lastLockAt = g.clock.Now()
			}
		}

		s.dice.Reveal(minimum)
		s.lockDone = true
	}

	g.transition(g.phase.next())
}

func (g *Game) enterBet() {
	if g.shortCircuit() {
		return
	}

	round := g.phase.Round()
	tiers := potmanager.ComputeTiers(g.hand.publicCounts())
	g.hand.pot.StartRound(potmanager.RoundConfig{
		Limit:       g.options.streetLimit(round),
		Increment:   g.options.Increment,
		MaxRaises:   g.options.MaxRaises,
		Multipliers: g.options.Multipliers,
	}, tiers, 0)

	if g.hand.pot.IsRoundOver() {
		g.transition(g.phase.next())
		return
	}

	g.startTurn()
}

// startTurn opens the decision window for whoever is to act
func (g *Game) startTurn() {
	pip := g.hand.pot.GetInTurnParticipant()
	if pip == nil {
		return
	}

	if pip.ID() != g.turn {
		g.turn = pip.ID()
		g.setDeadline(g.options.TurnTimeout)
	}
}

func (g *Game) enterShowdown() {
	h := g.hand
	active := h.active()

	diceByPlayer := make(map[int64]dice.Hand, len(active))
	contenders := make([]roles.Contender, 0, len(active))
	for _, s := range active {
		for i := range s.dice {
			s.dice[i].Public = true
		}

		diceByPlayer[s.PlayerID] = s.dice
		contenders = append(contenders, roles.Contender{PlayerID: s.PlayerID, Dice: s.dice.Values()})
	}

	// stamps count this hand before anyone's eligibility is decided
	for _, s := range g.occupied() {
		g.stamps.Record(s.PlayerID, s.inHand)
		if s.bot == nil {
			g.ledger.SaveStamps(s.PlayerID, g.stamps.History(s.PlayerID))
		}
	}

	pots := h.pot.Pots()
	rolePots := make([]roles.Pot, len(pots))
	for i, p := range pots {
		rolePots[i] = roles.Pot{Amount: p.Amount, Eligible: p.Eligible}
	}

	payout := roles.Resolve(rolePots, contenders, g.options.payoutRules())

	eligible := g.chestEligible()
	claims := make([]cargochest.Claim, 0)
	for _, s := range active {
		if !eligible[s.PlayerID] {
			continue
		}

		if trigger, ok := cargochest.Detect(s.dice.Values()); ok {
			claims = append(claims, cargochest.Claim{
				PlayerID: s.PlayerID,
				Trigger:  trigger,
				At:       s.lastLockAt,
			})
		}
	}

	h.showdown = &Showdown{
		Payout:        payout,
		ChestEligible: eligible,
		Claims:        claims,
		Dice:          diceByPlayer,
	}

	if winner, ok := cargochest.Winner(claims, g.options.ChestTieBreak); ok {
		h.showdown.ChestWinner = &winner
	}

	for _, pot := range payout.Pots {
		for role, id := range pot.Assignment.Holders {
			g.sendLogMessages(newLogMessage(id, "{} is the %s", role).WithDice(diceByPlayer[id].Values()))
		}
	}

	g.setDeadline(g.options.ShowdownPause)
}

func (g *Game) enterPayout() {
	h := g.hand
	sd := h.showdown
	payout := sd.Payout

	credits := make(map[int64]int)
	for id, amount := range payout.Winnings {
		if s, ok := g.byPlayer[id]; ok {
			s.AdjustBalance(amount)
			credits[id] += amount
		}
	}

	g.rakeCollected += payout.Rake
	g.chest.Deposit(payout.ToChest)

	result := &HandResult{
		HandID:    h.ID,
		Number:    h.Number,
		Winnings:  make(map[int64]int),
		Payout:    payout,
		Rake:      payout.Rake,
		Carryover: payout.Carryover,
		Dice:      sd.Dice,
	}

	if w := sd.ChestWinner; w != nil {
		// the chest only pays out to a seat that can receive it
		if s, ok := g.byPlayer[w.PlayerID]; ok {
			if award := g.chest.Award(g.options.ChestPayouts.For(w.Trigger.Kind)); award > 0 {
				s.AdjustBalance(award)
				credits[w.PlayerID] += award
				result.ChestWinner = w
				result.ChestAward = award
				g.sendLogMessages(newLogMessage(w.PlayerID, "{} opened the cargo chest with %s for %d", w.Trigger, award))
			}
		}
	}

	fee := g.options.BustFee.For(h.Ante)
	stacks := make([]roles.Stack, 0, len(h.seats))
	for _, s := range h.active() {
		stacks = append(stacks, roles.Stack{PlayerID: s.PlayerID, Amount: s.stack})
	}

	result.BustFees = roles.ChargeBustFees(stacks, payout.RoleHolders(), fee)
	for _, c := range result.BustFees {
		s := g.byPlayer[c.PlayerID]
		s.AdjustBalance(-c.Charged)
		if g.options.BustFee.Destination == BustFeeToRake {
			g.rakeCollected += c.Charged
			result.Rake += c.Charged
		} else {
			g.chest.Deposit(c.Charged)
		}

		if c.Charged > 0 {
			g.ledger.ApplyBalanceDelta(newBalanceDelta(h.ID, c.PlayerID, ReasonBustFee, -c.Charged))
		}

		if c.Shortfall > 0 {
			g.logger.WithFields(logrus.Fields{
				"audit":     true,
				"handID":    h.ID,
				"playerID":  c.PlayerID,
				"shortfall": c.Shortfall,
			}).Warn("bust fee shortfall")
		}
	}

	g.carryover = payout.Carryover
	g.settle(result, credits)
	g.setDeadline(g.options.PayoutPause)
}

// settle records what every seat in the hand won or lost and audits the table
func (g *Game) settle(result *HandResult, credits map[int64]int) {
	h := g.hand
	h.settled = true
	h.result = result

	for _, s := range h.seats {
		pip, err := h.pot.Participant(s.PlayerID)
		if err != nil {
			continue
		}

		wagered := pip.Gross() - h.antePaid[s.PlayerID]
		net := credits[s.PlayerID] - wagered
		result.Winnings[s.PlayerID] = credits[s.PlayerID]
		if net != 0 {
			g.ledger.ApplyBalanceDelta(newBalanceDelta(h.ID, s.PlayerID, ReasonPayout, net))
		}
	}

	if end := g.tableTotal(); end != h.startTotal {
		result.Flagged = true
		g.logger.WithFields(logrus.Fields{
			"audit":  true,
			"handID": h.ID,
			"start":  h.startTotal,
			"end":    end,
		}).Error("chip conservation check failed")
	}

	g.lastResult = result
	g.ledger.SaveTableState(g.tableState())

	g.logger.WithFields(logrus.Fields{
		"handID":    h.ID,
		"winnings":  result.Winnings,
		"rake":      result.Rake,
		"carryover": result.Carryover,
		"chest":     g.chest.Balance(),
	}).Info("hand settled")
}

func (g *Game) tableState() TableState {
	return TableState{
		ChestBalance:   g.chest.Balance(),
		ChestRemainder: g.chest.Remainder(),
		Carryover:      g.carryover,
		RakeCollected:  g.rakeCollected,
	}
}

// earlyFinish pays a hand that ended before showdown to the last seat standing
func (g *Game) earlyFinish() {
	h := g.hand
	total := h.pot.Total()
	result := &HandResult{
		HandID:      h.ID,
		Number:      h.Number,
		Winnings:    make(map[int64]int),
		EarlyFinish: true,
	}

	credits := make(map[int64]int)
	active := h.active()
	if len(active) == 1 {
		rake := 0
		if g.options.RakePercent > 0 {
			rake = int(float64(total) * g.options.RakePercent / 100)
			if g.options.RakeCap > 0 && rake > g.options.RakeCap {
				rake = g.options.RakeCap
			}
		}

		winner := active[0]
		winner.AdjustBalance(total - rake)
		credits[winner.PlayerID] = total - rake
		g.rakeCollected += rake
		result.Rake = rake
		g.sendLogMessages(newLogMessage(winner.PlayerID, "{} is the last one standing and takes %d", total-rake))
	} else {
		g.carryover += total
		result.Carryover = total
	}

	g.settle(result, credits)
}

func (g *Game) enterHandEnd() {
	if g.hand != nil && !g.hand.settled {
		g.earlyFinish()
	}

	for _, s := range g.occupied() {
		if s.leaving {
			g.removeSeat(s)
		}
	}

	g.applyPendingOptions()
	g.setDeadline(g.options.HandEndPause)
}

// nextHand starts another hand, or returns to the lobby
func (g *Game) nextHand() {
	if g.canStartHand() {
		g.transition(PhaseAnte)
		return
	}

	g.transition(PhaseLobby)
}

// advance skips a pause, or starts a hand from the lobby
func (g *Game) advance() error {
	switch g.phase {
	case PhaseLobby:
		if !g.canStartHand() {
			return ErrNotEnoughPlayers
		}

		g.transition(PhaseAnte)
	case PhaseShowdown, PhasePayout:
		g.transition(g.phase.next())
	case PhaseHandEnd:
		g.nextHand()
	default:
		return ErrCannotAdvance
	}

	return nil
}
