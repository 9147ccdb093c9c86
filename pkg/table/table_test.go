package table

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"shipcaptaincrew-server/pkg/db"
	"shipcaptaincrew-server/pkg/playable/shipcaptaincrew"
)

var cbg = context.Background()

func TestMain(m *testing.M) {
	if os.Getenv("SCC_PG_DSN") == "" {
		fmt.Println("SCC_PG_DSN is not set, skipping database tests")
		os.Exit(0)
	}

	if os.Getenv("SCC_MIGRATIONS_PATH") == "" {
		_ = os.Setenv("SCC_MIGRATIONS_PATH", "../../sql")
	}

	if err := db.Migrate(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

func newTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := EnsureTable(cbg, uuid.New().String(), "test table")
	if err != nil {
		t.Fatal(err)
	}

	return tbl
}

func delta(handID string, playerID int64, reason shipcaptaincrew.Reason, amount int) shipcaptaincrew.BalanceDelta {
	return shipcaptaincrew.BalanceDelta{
		Key:      fmt.Sprintf("%s:%d:%s", handID, playerID, reason),
		HandID:   handID,
		PlayerID: playerID,
		Reason:   reason,
		Amount:   amount,
	}
}

func TestEnsureTable(t *testing.T) {
	a := assert.New(t)
	tbl := newTable(t)

	again, err := EnsureTable(cbg, tbl.UUID, "renamed")
	a.NoError(err)
	a.Equal("renamed", again.Name)
	a.True(tbl.Created.Equal(again.Created))

	a.NoError(tbl.Reload(cbg))
	a.Equal("renamed", tbl.Name)
}

func TestGetTableByUUID(t *testing.T) {
	tbl, err := GetTableByUUID(cbg, uuid.New().String())
	assert.Equal(t, sql.ErrNoRows, err)
	assert.Nil(t, tbl)
}

func TestTable_ApplyBalanceDelta(t *testing.T) {
	a := assert.New(t)
	tbl := newTable(t)
	hand := uuid.New().String()

	a.NoError(tbl.ApplyBalanceDelta(cbg, delta(uuid.New().String(), 1, shipcaptaincrew.ReasonBuyIn, 1000)))
	a.NoError(tbl.ApplyBalanceDelta(cbg, delta(hand, 1, shipcaptaincrew.ReasonAnte, -25)))
	// a retried write is ignored
	a.NoError(tbl.ApplyBalanceDelta(cbg, delta(hand, 1, shipcaptaincrew.ReasonAnte, -25)))
	a.NoError(tbl.ApplyBalanceDelta(cbg, delta(hand, 1, shipcaptaincrew.ReasonPayout, 60)))
	a.NoError(tbl.ApplyBalanceDelta(cbg, delta(hand, 2, shipcaptaincrew.ReasonAnte, -25)))

	pt, err := tbl.GetPlayerTable(cbg, 1)
	a.NoError(err)
	a.Equal(1035, pt.Balance)

	players, err := tbl.GetPlayers(cbg)
	a.NoError(err)
	if a.Len(players, 2) {
		a.Equal(int64(1), players[0].PlayerID)
		a.Equal(int64(2), players[1].PlayerID)
		a.Equal(-25, players[1].Balance)
	}

	entries, err := tbl.GetLedger(cbg, 1, 0, 10)
	a.NoError(err)
	a.Len(entries, 3)

	entries, err = tbl.GetLedger(cbg, 1, 2, 10)
	a.NoError(err)
	a.Len(entries, 1)
}

func TestTable_LoadRestore(t *testing.T) {
	a := assert.New(t)
	tbl := newTable(t)

	restore, err := tbl.LoadRestore(cbg)
	a.NoError(err)
	a.Equal(shipcaptaincrew.TableState{}, restore.Table)
	a.Empty(restore.Stamps)

	state := shipcaptaincrew.TableState{ChestBalance: 512, ChestRemainder: 37, Carryover: 14, RakeCollected: 90}
	a.NoError(tbl.SaveTableState(cbg, state))
	a.NoError(tbl.SaveStamps(cbg, 1, []bool{true, false, true}))
	a.NoError(tbl.SaveStamps(cbg, 1, []bool{false, true, true}))
	a.NoError(tbl.SaveStamps(cbg, 2, []bool{true}))

	restore, err = tbl.LoadRestore(cbg)
	a.NoError(err)
	a.Equal(state, restore.Table)
	a.Equal(map[int64][]bool{
		1: {false, true, true},
		2: {true},
	}, restore.Stamps)
}
