package shipcaptaincrew

import "fmt"

// Reason is why a seat's stack changed
type Reason string

// Reason constants
const (
	ReasonBuyIn   Reason = "buy_in"
	ReasonAnte    Reason = "ante"
	ReasonPayout  Reason = "payout"
	ReasonBustFee Reason = "bust_fee"
	ReasonCashOut Reason = "cash_out"
)

// BalanceDelta is a change to a seat's persisted stack
type BalanceDelta struct {
	// Key is unique per hand, player and reason so the write can be retried
	Key      string `json:"key"`
	HandID   string `json:"handId"`
	PlayerID int64  `json:"playerId"`
	Reason   Reason `json:"reason"`
	Amount   int    `json:"amount"`
}

func newBalanceDelta(handID string, playerID int64, reason Reason, amount int) BalanceDelta {
	return BalanceDelta{
		Key:      fmt.Sprintf("%s:%d:%s", handID, playerID, reason),
		HandID:   handID,
		PlayerID: playerID,
		Reason:   reason,
		Amount:   amount,
	}
}

// TableState is the part of a table that outlives a hand
type TableState struct {
	ChestBalance   int   `json:"chestBalance"`
	ChestRemainder int64 `json:"chestRemainder"`
	Carryover      int   `json:"carryover"`
	RakeCollected  int   `json:"rakeCollected"`
}

// Ledger receives the game's persistent changes
// Calls must not block; implementations are expected to queue and retry.
type Ledger interface {
	ApplyBalanceDelta(delta BalanceDelta)
	SaveTableState(state TableState)
	SaveStamps(playerID int64, flags []bool)
}

// Restore is state loaded from storage when a table opens
type Restore struct {
	Table  TableState
	Stamps map[int64][]bool
}

type nopLedger struct{}

func (nopLedger) ApplyBalanceDelta(BalanceDelta) {}
func (nopLedger) SaveTableState(TableState)      {}
func (nopLedger) SaveStamps(int64, []bool)       {}
