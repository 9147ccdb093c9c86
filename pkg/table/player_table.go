package table

import (
	"context"
	"time"

	"shipcaptaincrew-server/pkg/db"
	"shipcaptaincrew-server/pkg/playable/shipcaptaincrew"
)

const playerTableColumns = `
players_tables.id,
players_tables.player_id,
players_tables.table_uuid,
players_tables.balance,
players_tables.created,
players_tables.updated`

const ledgerColumns = `
ledger.key,
ledger.hand_id,
ledger.player_id,
ledger.reason,
ledger.amount,
ledger.created`

// PlayerTable represents a row in the players_tables table
// Balance is the sum of the player's ledger entries at the table
type PlayerTable struct {
	ID        int64     `json:"id"`
	PlayerID  int64     `json:"playerId"`
	TableUUID string    `json:"tableUuid"`
	Balance   int       `json:"balance"`
	Created   time.Time `json:"created"`
	Updated   time.Time `json:"updated"`
}

// LedgerEntry is a recorded balance change
type LedgerEntry struct {
	shipcaptaincrew.BalanceDelta
	Created time.Time `json:"created"`
}

func getPlayerTableByRow(row db.Scanner) (*PlayerTable, error) {
	var pt PlayerTable
	if err := row.Scan(&pt.ID, &pt.PlayerID, &pt.TableUUID, &pt.Balance, &pt.Created, &pt.Updated); err != nil {
		return nil, err
	}

	return &pt, nil
}

// GetPlayerTable returns the player's balance record at the table
func (t *Table) GetPlayerTable(ctx context.Context, playerID int64) (*PlayerTable, error) {
	const query = `
SELECT ` + playerTableColumns + `
FROM players_tables
WHERE table_uuid = $1
  AND player_id = $2`

	row := db.Instance().QueryRowContext(ctx, query, t.UUID, playerID)
	return getPlayerTableByRow(row)
}

// GetLedger returns the player's ledger entries at the table, newest first
func (t *Table) GetLedger(ctx context.Context, playerID int64, offset int64, limit int) ([]*LedgerEntry, error) {
	const query = `
SELECT ` + ledgerColumns + `
FROM ledger
WHERE table_uuid = $1
  AND player_id = $2
ORDER BY created DESC, key
OFFSET $3
LIMIT $4`

	rows, err := db.Instance().QueryContext(ctx, query, t.UUID, playerID, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*LedgerEntry, 0)
	for rows.Next() {
		var e LedgerEntry
		var reason string
		if err := rows.Scan(&e.Key, &e.HandID, &e.PlayerID, &reason, &e.Amount, &e.Created); err != nil {
			return nil, err
		}

		e.Reason = shipcaptaincrew.Reason(reason)
		entries = append(entries, &e)
	}

	return entries, rows.Err()
}
