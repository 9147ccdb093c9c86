package table

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"shipcaptaincrew-server/pkg/db"
	"shipcaptaincrew-server/pkg/playable/shipcaptaincrew"
)

const tableColumns = `
tables.uuid,
tables.name,
tables.created`

// Table represents a Ship, Captain & Crew table
// A table keeps its chest, carryover, stamps and player balances between server restarts
type Table struct {
	UUID    string    `json:"uuid"`
	Name    string    `json:"name"`
	Created time.Time `json:"created"`
}

// EnsureTable creates the table if it does not exist, or renames it if it does
func EnsureTable(ctx context.Context, uuid, name string) (*Table, error) {
	const query = `
INSERT INTO tables (uuid, name)
VALUES ($1, $2)
ON CONFLICT (uuid) DO UPDATE SET name = EXCLUDED.name
RETURNING ` + tableColumns

	row := db.Instance().QueryRowContext(ctx, query, uuid, name)
	return getTableByRow(row)
}

func getTableByRow(row db.Scanner) (*Table, error) {
	var t Table
	if err := row.Scan(&t.UUID, &t.Name, &t.Created); err != nil {
		return nil, err
	}

	return &t, nil
}

// GetTableByUUID returns a table by its UUID
func GetTableByUUID(ctx context.Context, uuid string) (*Table, error) {
	const query = `
SELECT ` + tableColumns + `
FROM tables
WHERE uuid = $1`

	row := db.Instance().QueryRowContext(ctx, query, uuid)
	return getTableByRow(row)
}

// Reload will refresh the data from the database
func (t *Table) Reload(ctx context.Context) error {
	tbl, err := GetTableByUUID(ctx, t.UUID)
	if err != nil {
		return err
	}

	*t = *tbl
	return nil
}

// LoadRestore returns the chest, carryover, rake and stamp windows saved for the table
func (t *Table) LoadRestore(ctx context.Context) (*shipcaptaincrew.Restore, error) {
	const query = `
SELECT chest_balance, chest_remainder, carryover, rake_collected
FROM table_state
WHERE table_uuid = $1`

	restore := &shipcaptaincrew.Restore{Stamps: make(map[int64][]bool)}
	s := &restore.Table
	row := db.Instance().QueryRowContext(ctx, query, t.UUID)
	if err := row.Scan(&s.ChestBalance, &s.ChestRemainder, &s.Carryover, &s.RakeCollected); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
	}

	const stampsQuery = `
SELECT player_id, flags
FROM stamps
WHERE table_uuid = $1`

	rows, err := db.Instance().QueryContext(ctx, stampsQuery, t.UUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var playerID int64
		var flags []bool
		if err := rows.Scan(&playerID, pq.Array(&flags)); err != nil {
			return nil, err
		}

		restore.Stamps[playerID] = flags
	}

	return restore, rows.Err()
}

// ApplyBalanceDelta records a ledger entry and adjusts the player's balance at the table
// A delta whose key was already recorded is ignored, so callers may retry freely.
func (t *Table) ApplyBalanceDelta(ctx context.Context, delta shipcaptaincrew.BalanceDelta) error {
	tx, err := db.Instance().BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	const query = `
INSERT INTO ledger (key, table_uuid, hand_id, player_id, reason, amount)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (key) DO NOTHING`

	res, err := tx.ExecContext(ctx, query, delta.Key, t.UUID, delta.HandID, delta.PlayerID, string(delta.Reason), delta.Amount)
	if err != nil {
		rollback(tx)
		return err
	}

	if ra, _ := res.RowsAffected(); ra == 0 {
		logrus.WithField("key", delta.Key).Debug("ledger entry already recorded")
		rollback(tx)
		return nil
	}

	const query2 = `
INSERT INTO players_tables (player_id, table_uuid, balance)
VALUES ($1, $2, $3)
ON CONFLICT (player_id, table_uuid) DO UPDATE
SET balance = players_tables.balance + EXCLUDED.balance, updated = (NOW() AT TIME ZONE 'UTC')`

	if _, err := tx.ExecContext(ctx, query2, delta.PlayerID, t.UUID, delta.Amount); err != nil {
		rollback(tx)
		return err
	}

	return tx.Commit()
}

// SaveTableState saves the chest, carryover and rake totals
func (t *Table) SaveTableState(ctx context.Context, state shipcaptaincrew.TableState) error {
	const query = `
INSERT INTO table_state (table_uuid, chest_balance, chest_remainder, carryover, rake_collected)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (table_uuid) DO UPDATE
SET chest_balance = EXCLUDED.chest_balance,
    chest_remainder = EXCLUDED.chest_remainder,
    carryover = EXCLUDED.carryover,
    rake_collected = EXCLUDED.rake_collected,
    updated = (NOW() AT TIME ZONE 'UTC')`

	_, err := db.Instance().ExecContext(ctx, query, t.UUID, state.ChestBalance, state.ChestRemainder, state.Carryover, state.RakeCollected)
	return err
}

// SaveStamps replaces the player's stamp window
func (t *Table) SaveStamps(ctx context.Context, playerID int64, flags []bool) error {
	const query = `
INSERT INTO stamps (table_uuid, player_id, flags)
VALUES ($1, $2, $3)
ON CONFLICT (table_uuid, player_id) DO UPDATE
SET flags = EXCLUDED.flags, updated = (NOW() AT TIME ZONE 'UTC')`

	_, err := db.Instance().ExecContext(ctx, query, t.UUID, playerID, pq.Array(flags))
	return err
}

// GetPlayers returns every player with a balance record at the table
func (t *Table) GetPlayers(ctx context.Context) ([]*PlayerTable, error) {
	const query = `
SELECT ` + playerTableColumns + `
FROM players_tables
WHERE players_tables.table_uuid = $1
ORDER BY players_tables.id`

	rows, err := db.Instance().QueryContext(ctx, query, t.UUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*PlayerTable, 0)
	for rows.Next() {
		p, err := getPlayerTableByRow(rows)
		if err != nil {
			return nil, err
		}

		records = append(records, p)
	}

	return records, rows.Err()
}

func rollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil {
		logrus.WithError(err).Error("could not rollback transaction")
	}
}
