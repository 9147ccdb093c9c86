package room

import (
	"context"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/sirupsen/logrus"

	"shipcaptaincrew-server/pkg/playable/shipcaptaincrew"
)

const (
	minRetryBackoff = 500 * time.Millisecond
	maxRetryBackoff = 30 * time.Second
)

// Store persists a table's balances, chest and stamps
// Every write must be safe to repeat.
type Store interface {
	ApplyBalanceDelta(ctx context.Context, delta shipcaptaincrew.BalanceDelta) error
	SaveTableState(ctx context.Context, state shipcaptaincrew.TableState) error
	SaveStamps(ctx context.Context, playerID int64, flags []bool) error
}

type ledgerWrite struct {
	description string
	fields      logrus.Fields
	write       func(ctx context.Context, store Store) error
}

// LedgerWriter queues a game's ledger calls and writes them to the store in order
// Writes that fail are retried with a backoff; the game never waits on the database.
type LedgerWriter struct {
	store  Store
	clock  quartz.Clock
	logger logrus.FieldLogger

	lock  sync.Mutex
	queue []ledgerWrite
	wake  chan struct{}
}

var _ shipcaptaincrew.Ledger = (*LedgerWriter)(nil)

// NewLedgerWriter returns a writer for the store
func NewLedgerWriter(logger logrus.FieldLogger, store Store, clock quartz.Clock) *LedgerWriter {
	if clock == nil {
		clock = quartz.NewReal()
	}

	return &LedgerWriter{
		store:  store,
		clock:  clock,
		logger: logger,
		wake:   make(chan struct{}, 1),
	}
}

// ApplyBalanceDelta queues a balance change
// Computer players have no persisted balance.
func (l *LedgerWriter) ApplyBalanceDelta(delta shipcaptaincrew.BalanceDelta) {
	if delta.PlayerID < 0 {
		return
	}

	l.enqueue(ledgerWrite{
		description: "balance delta",
		fields: logrus.Fields{
			"key":    delta.Key,
			"amount": delta.Amount,
		},
		write: func(ctx context.Context, store Store) error {
			return store.ApplyBalanceDelta(ctx, delta)
		},
	})
}

// SaveTableState queues a save of the chest, carryover and rake
func (l *LedgerWriter) SaveTableState(state shipcaptaincrew.TableState) {
	l.enqueue(ledgerWrite{
		description: "table state",
		fields: logrus.Fields{
			"chest":     state.ChestBalance,
			"carryover": state.Carryover,
		},
		write: func(ctx context.Context, store Store) error {
			return store.SaveTableState(ctx, state)
		},
	})
}

// SaveStamps queues a save of the player's stamp window
func (l *LedgerWriter) SaveStamps(playerID int64, flags []bool) {
	if playerID < 0 {
		return
	}

	flags = append([]bool{}, flags...)
	l.enqueue(ledgerWrite{
		description: "stamps",
		fields:      logrus.Fields{"playerID": playerID},
		write: func(ctx context.Context, store Store) error {
			return store.SaveStamps(ctx, playerID, flags)
		},
	})
}

// Pending returns the number of writes that have not been stored yet
func (l *LedgerWriter) Pending() int {
	l.lock.Lock()
	defer l.lock.Unlock()

	return len(l.queue)
}

func (l *LedgerWriter) enqueue(w ledgerWrite) {
	l.lock.Lock()
	l.queue = append(l.queue, w)
	l.lock.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *LedgerWriter) peek() (ledgerWrite, bool) {
	l.lock.Lock()
	defer l.lock.Unlock()

	if len(l.queue) == 0 {
		return ledgerWrite{}, false
	}

	return l.queue[0], true
}

func (l *LedgerWriter) pop() {
	l.lock.Lock()
	l.queue[0] = ledgerWrite{}
	l.queue = l.queue[1:]
	l.lock.Unlock()
}

// Run writes queued entries until the context is canceled
func (l *LedgerWriter) Run(ctx context.Context) error {
	backoff := minRetryBackoff
	for {
		w, ok := l.peek()
		if !ok {
			select {
			case <-ctx.Done():
				return nil
			case <-l.wake:
				continue
			}
		}

		if err := w.write(ctx, l.store); err != nil {
			if ctx.Err() != nil {
				return nil
			}

			l.logger.WithError(err).WithFields(w.fields).WithFields(logrus.Fields{
				"audit":   true,
				"write":   w.description,
				"backoff": backoff.String(),
				"pending": l.Pending(),
			}).Warn("could not write ledger entry, will retry")

			timer := l.clock.NewTimer(backoff, "ledger", "retry")
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil
			case <-timer.C:
			}

			if backoff *= 2; backoff > maxRetryBackoff {
				backoff = maxRetryBackoff
			}

			continue
		}

		l.pop()
		backoff = minRetryBackoff
	}
}
