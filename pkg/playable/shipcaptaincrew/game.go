// Package shipcaptaincrew runs a table of Ship, Captain & Crew
//
// A Game is a table session. Seats persist across hands and each hand moves through a fixed
// sequence of phases: three rounds of roll, lock and bet, a final roll, showdown, and payout.
// Game is not safe for concurrent use; the room's dealer serializes every call.
package shipcaptaincrew

import (
	"fmt"
	"sort"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"shipcaptaincrew-server/internal/rng"
	"shipcaptaincrew-server/internal/util"
	"shipcaptaincrew-server/pkg/playable"
	"shipcaptaincrew-server/pkg/playable/shipcaptaincrew/ai"
	"shipcaptaincrew-server/pkg/playable/shipcaptaincrew/cargochest"
)

// maxAutoActions bounds how many bot and default actions run back to back
const maxAutoActions = 1000

var (
	_ playable.Playable    = (*Game)(nil)
	_ playable.Tickable    = (*Game)(nil)
	_ playable.Connectable = (*Game)(nil)
)

// Game is a Ship, Captain & Crew table
type Game struct {
	tableUUID      string
	options        Options
	pendingOptions *Options

	clock   quartz.Clock
	rng     rng.Generator
	logger  logrus.FieldLogger
	ledger  Ledger
	logChan chan []*playable.LogMessage

	seats    []*Seat
	byPlayer map[int64]*Seat
	dealer   int
	nextBot  int64

	chest         *cargochest.Chest
	stamps        *cargochest.Stamps
	carryover     int
	rakeCollected int
	handNumber    int

	phase Phase
	// phaseID identifies the current phase instance; it changes on every transition
	phaseID    uint64
	deadline   time.Time
	deadlineID uint64
	turn       int64

	hand         *Hand
	lastResult   *HandResult
	disconnected map[int64]time.Time
}

// Config is everything needed to open a table
type Config struct {
	TableUUID string
	Options   Options
	Clock     quartz.Clock
	Rng       rng.Generator
	Ledger    Ledger
	Restore   *Restore
}

// NewGame opens a table
func NewGame(logger logrus.FieldLogger, cfg Config) (*Game, error) {
	if err := cfg.Options.Validate(); err != nil {
		return nil, err
	}

	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}

	if cfg.Rng == nil {
		cfg.Rng = rng.Crypto{}
	}

	if cfg.Ledger == nil {
		cfg.Ledger = nopLedger{}
	}

	g := &Game{
		tableUUID:    cfg.TableUUID,
		options:      cfg.Options,
		clock:        cfg.Clock,
		rng:          cfg.Rng,
		logger:       logger.WithField("table", cfg.TableUUID),
		ledger:       cfg.Ledger,
		logChan:      make(chan []*playable.LogMessage, 256),
		seats:        make([]*Seat, cfg.Options.Seats),
		byPlayer:     make(map[int64]*Seat),
		dealer:       -1,
		chest:        cargochest.New(0, 0, cfg.Options.DripPercent),
		stamps:       cargochest.NewStamps(cfg.Options.StampWindow),
		phase:        PhaseLobby,
		phaseID:      1,
		disconnected: make(map[int64]time.Time),
	}

	if r := cfg.Restore; r != nil {
		g.chest = cargochest.New(r.Table.ChestBalance, r.Table.ChestRemainder, cfg.Options.DripPercent)
		g.carryover = r.Table.Carryover
		g.rakeCollected = r.Table.RakeCollected
		for playerID, flags := range r.Stamps {
			g.stamps.Load(playerID, flags)
		}
	}

	return g, nil
}

// Name returns the name of the game
func (g *Game) Name() string {
	return "shipcaptaincrew"
}

// LogChan returns a channel for sending log messages
func (g *Game) LogChan() <-chan []*playable.LogMessage {
	return g.logChan
}

// Phase returns the current phase
func (g *Game) Phase() Phase {
	return g.phase
}

// PhaseID returns the current phase instance
func (g *Game) PhaseID() uint64 {
	return g.phaseID
}

// Options returns the options in effect
func (g *Game) Options() Options {
	return g.options
}

// ChestBalance returns the cargo chest's balance
func (g *Game) ChestBalance() int {
	return g.chest.Balance()
}

// Carryover returns the chips waiting for the next hand's pot
func (g *Game) Carryover() int {
	return g.carryover
}

// RakeCollected returns the house's take for the life of the table
func (g *Game) RakeCollected() int {
	return g.rakeCollected
}

// LastResult returns the result of the most recent hand
func (g *Game) LastResult() *HandResult {
	return g.lastResult
}

// Seat returns a player's seat
func (g *Game) Seat(playerID int64) (*Seat, bool) {
	s, ok := g.byPlayer[playerID]
	return s, ok
}

// Seats returns the occupied seats in seat order
func (g *Game) Seats() []*Seat {
	return g.occupied()
}

// SetOptions replaces the options at the next hand boundary
// Invalid options are rejected and the current options stay in effect.
func (g *Game) SetOptions(opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	if g.phase.InHand() {
		g.pendingOptions = &opts
		return nil
	}

	g.applyOptions(opts)
	return nil
}

func (g *Game) applyPendingOptions() {
	if g.pendingOptions == nil {
		return
	}

	opts := *g.pendingOptions
	g.pendingOptions = nil
	g.applyOptions(opts)
}

func (g *Game) applyOptions(opts Options) {
	// seats beyond a reduced capacity are kept until they stand
	if opts.Seats > len(g.seats) {
		seats := make([]*Seat, opts.Seats)
		copy(seats, g.seats)
		g.seats = seats
	}

	g.options = opts
	g.chest.SetDripPercent(opts.DripPercent)
	g.stamps.Resize(opts.StampWindow)
	g.logger.WithField("options", opts).Info("options applied")
}

// Action performs an action from a client
func (g *Game) Action(playerID int64, message *playable.PayloadIn) (*playable.Response, bool, error) {
	action, err := ActionFromPayload(message)
	if err != nil {
		return nil, false, err
	}

	if err := g.Apply(playerID, action); err != nil {
		return nil, false, err
	}

	return playable.OK(), true, nil
}

// Apply validates and applies an action, then lets bots and defaulted seats respond
func (g *Game) Apply(playerID int64, action Action) error {
	if err := g.apply(playerID, action); err != nil {
		return err
	}

	g.driveAI()
	return nil
}

// apply is the single path every human and bot action takes
func (g *Game) apply(playerID int64, action Action) error {
	if action.PhaseID != 0 && action.PhaseID != g.phaseID {
		return ErrStaleAction
	}

	switch action.Type {
	case ActionJoin:
		return g.Join(playerID, action.Name, action.Seat, action.Amount)
	case ActionAdvance:
		if _, ok := g.byPlayer[playerID]; !ok {
			return ErrNotSeated
		}

		return g.advance()
	}

	seat, ok := g.byPlayer[playerID]
	if !ok {
		return ErrNotSeated
	}

	switch action.Type {
	case ActionStand:
		g.stand(seat)
		return nil
	case ActionToggleLock:
		return g.toggleLock(seat, action.Die)
	case ActionLockDone:
		return g.lockDone(seat)
	case ActionBet, ActionCall, ActionRaise, ActionFold, ActionCheck:
		return g.bet(seat, action)
	}

	return UnknownActionError(action.Type)
}

// Join seats a player with a buy-in
// A negative seat index takes the first open seat.
func (g *Game) Join(playerID int64, name string, seatIndex, buyIn int) error {
	seat, err := g.seatPlayer(playerID, name, seatIndex, buyIn)
	if err != nil {
		return err
	}

	g.ledger.ApplyBalanceDelta(newBalanceDelta(uuid.New().String(), playerID, ReasonBuyIn, buyIn))
	g.sendLogMessages(newLogMessage(playerID, "{} sat down in seat %d with %d", seat.Index+1, buyIn))
	g.afterSeatChange()
	return nil
}

// AddBot seats a computer player
// An empty personality picks one at random.
func (g *Game) AddBot(personality string, buyIn int) (*Seat, error) {
	var p ai.Personality
	if personality == "" {
		personality, p = ai.Random(g.rng)
	} else {
		var err error
		if p, err = ai.Lookup(personality); err != nil {
			return nil, err
		}
	}

	g.nextBot--
	seat, err := g.seatPlayer(g.nextBot, util.RandomName(g.rng), -1, buyIn)
	if err != nil {
		g.nextBot++
		return nil, err
	}

	seat.bot = ai.New(p, g.rng)
	seat.Personality = personality
	g.sendLogMessages(newLogMessage(seat.PlayerID, "{} (%s bot) sat down in seat %d", personality, seat.Index+1))
	g.afterSeatChange()
	return seat, nil
}

func (g *Game) seatPlayer(playerID int64, name string, seatIndex, buyIn int) (*Seat, error) {
	if _, ok := g.byPlayer[playerID]; ok {
		return nil, ErrAlreadySeated
	}

	if buyIn < g.options.MinBuyIn {
		return nil, BuyInError{Min: g.options.MinBuyIn, Got: buyIn}
	}

	if seatIndex < 0 {
		seatIndex = g.openSeat()
		if seatIndex < 0 {
			return nil, ErrSeatTaken
		}
	}

	if seatIndex >= len(g.seats) || seatIndex >= g.options.Seats {
		return nil, ErrInvalidSeat
	}

	if g.seats[seatIndex] != nil {
		return nil, ErrSeatTaken
	}

	if name == "" {
		name = fmt.Sprintf("Player %d", playerID)
	}

	seat := &Seat{
		PlayerID: playerID,
		Name:     name,
		Index:    seatIndex,
		stack:    buyIn,
	}

	g.seats[seatIndex] = seat
	g.byPlayer[playerID] = seat

	// chips that arrive mid-hand are outside the hand's audit
	if g.hand != nil && g.phase.InHand() {
		g.hand.startTotal += buyIn
	}

	g.logger.WithFields(logrus.Fields{
		"playerID": playerID,
		"seat":     seatIndex,
		"buyIn":    buyIn,
	}).Info("player seated")

	return seat, nil
}

func (g *Game) openSeat() int {
	for i := 0; i < g.options.Seats && i < len(g.seats); i++ {
		if g.seats[i] == nil {
			return i
		}
	}

	return -1
}

// Stand removes a player at the next hand boundary, or now if no hand is being played
func (g *Game) Stand(playerID int64) error {
	seat, ok := g.byPlayer[playerID]
	if !ok {
		return ErrNotSeated
	}

	g.stand(seat)
	g.driveAI()
	return nil
}

func (g *Game) stand(seat *Seat) {
	if !g.phase.InHand() || !seat.inHand {
		g.removeSeat(seat)
		return
	}

	seat.leaving = true
	g.sendLogMessages(newLogMessage(seat.PlayerID, "{} will stand after this hand"))

	// roles are settled from Showdown on, so the seat keeps its share
	if g.phase >= PhaseRoll1 && g.phase < PhaseShowdown && !g.hand.isFolded(seat) {
		g.forceFold(seat)
	}
}

func (g *Game) removeSeat(seat *Seat) {
	if g.seats[seat.Index] == seat {
		g.seats[seat.Index] = nil
	}

	delete(g.byPlayer, seat.PlayerID)
	delete(g.disconnected, seat.PlayerID)

	if seat.stack > 0 {
		g.ledger.ApplyBalanceDelta(newBalanceDelta(uuid.New().String(), seat.PlayerID, ReasonCashOut, -seat.stack))
	}

	g.logger.WithFields(logrus.Fields{
		"playerID": seat.PlayerID,
		"stack":    seat.stack,
	}).Info("player stood up")
	g.sendLogMessages(newLogMessage(seat.PlayerID, "{} stood up with %d", seat.stack))
}

// afterSeatChange starts a hand from the lobby once enough seats are funded
func (g *Game) afterSeatChange() {
	if g.phase == PhaseLobby && g.deadline.IsZero() && g.canStartHand() {
		g.setDeadline(g.options.HandEndPause)
	}
}

// occupied returns every seat in seat order
func (g *Game) occupied() []*Seat {
	seats := make([]*Seat, 0, len(g.seats))
	for _, s := range g.seats {
		if s != nil {
			seats = append(seats, s)
		}
	}

	return seats
}

// fundedSeats returns the seats that can be dealt into the next hand
func (g *Game) fundedSeats() []*Seat {
	seats := make([]*Seat, 0, len(g.seats))
	for _, s := range g.occupied() {
		if s.leaving {
			continue
		}

		if g.options.AnteMode == AnteModeDealer {
			if s.stack > 0 {
				seats = append(seats, s)
			}

			continue
		}

		if s.stack >= g.options.Ante {
			seats = append(seats, s)
		}
	}

	return seats
}

// tableTotal is every chip the table is responsible for
func (g *Game) tableTotal() int {
	total := g.carryover + g.chest.Balance() + g.rakeCollected
	for _, s := range g.occupied() {
		total += s.stack
	}

	if g.hand != nil && !g.hand.settled {
		total += g.hand.pot.Total()
	}

	return total
}

// PlayerDisconnected starts the disconnect timers for a seated player
func (g *Game) PlayerDisconnected(playerID int64) {
	if _, ok := g.byPlayer[playerID]; !ok {
		return
	}

	if _, ok := g.disconnected[playerID]; !ok {
		g.disconnected[playerID] = g.clock.Now()
		g.logger.WithField("playerID", playerID).Info("player disconnected")
	}
}

// PlayerReconnected clears the disconnect timers
func (g *Game) PlayerReconnected(playerID int64) {
	if _, ok := g.disconnected[playerID]; ok {
		delete(g.disconnected, playerID)
		g.logger.WithField("playerID", playerID).Info("player reconnected")
	}
}

func (g *Game) disconnectedFor(playerID int64, now time.Time) (time.Duration, bool) {
	since, ok := g.disconnected[playerID]
	if !ok {
		return 0, false
	}

	return now.Sub(since), true
}

// isDefaulted returns true if the seat has been gone past the grace period
func (g *Game) isDefaulted(seat *Seat) bool {
	elapsed, ok := g.disconnectedFor(seat.PlayerID, g.clock.Now())
	return ok && elapsed >= g.options.DisconnectGrace
}

func (g *Game) sortedDisconnected() []int64 {
	ids := make([]int64, 0, len(g.disconnected))
	for id := range g.disconnected {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool {
		return ids[i] < ids[j]
	})

	return ids
}
