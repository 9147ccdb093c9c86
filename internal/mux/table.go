package mux

import (
	"net/http"
	"strconv"
	"time"

	gmux "github.com/gorilla/mux"

	"shipcaptaincrew-server/pkg/playable/shipcaptaincrew"
	"shipcaptaincrew-server/pkg/room"
	"shipcaptaincrew-server/pkg/table"
)

type tableSummary struct {
	UUID     string                `json:"uuid"`
	Name     string                `json:"name"`
	Phase    shipcaptaincrew.Phase `json:"phase"`
	Seated   int                   `json:"seated"`
	Seats    int                   `json:"seats"`
	Ante     int                   `json:"ante"`
	MinBuyIn int                   `json:"minBuyIn"`
	Chest    int                   `json:"chest"`
	Hands    int                   `json:"hands"`
	Deadline *time.Time            `json:"deadline,omitempty"`
}

func summarize(d *room.Dealer) tableSummary {
	summary := tableSummary{
		UUID: d.UUID(),
		Name: d.Name(),
	}

	d.Exec(func(game *shipcaptaincrew.Game) {
		opts := game.Options()
		gs := game.View(0).GameState
		summary.Phase = gs.Phase
		summary.Seated = len(gs.Seats)
		summary.Seats = opts.Seats
		summary.Ante = opts.Ante
		summary.MinBuyIn = opts.MinBuyIn
		summary.Chest = gs.Chest
		summary.Hands = gs.HandNumber
		summary.Deadline = gs.Deadline
	})

	return summary
}

func (m *Mux) getTable() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dealers := m.pitBoss.Dealers()
		tables := make([]tableSummary, 0, len(dealers))
		for _, d := range dealers {
			tables = append(tables, summarize(d))
		}

		writeJSON(w, http.StatusOK, tables)
	}
}

type getTableUUIDResponse struct {
	tableSummary
	State *shipcaptaincrew.Response `json:"state"`
}

func (m *Mux) getTableUUID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dealer := r.Context().Value(ctxDealerKey).(*room.Dealer)
		who := r.Context().Value(ctxPlayerKey).(identity)

		res := getTableUUIDResponse{tableSummary: summarize(dealer)}
		dealer.Exec(func(game *shipcaptaincrew.Game) {
			res.State = game.View(who.PlayerID)
		})

		writeJSON(w, http.StatusOK, res)
	}
}

func (m *Mux) postTableUUIDOptions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dealer := r.Context().Value(ctxDealerKey).(*room.Dealer)

		var opts shipcaptaincrew.Options
		dealer.Exec(func(game *shipcaptaincrew.Game) {
			opts = game.Options()
		})

		// fields missing from the body keep their current values
		if !decodeRequest(w, r, &opts) {
			return
		}

		var err error
		dealer.Exec(func(game *shipcaptaincrew.Game) {
			err = game.SetOptions(opts)
		})

		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		writeJSON(w, http.StatusAccepted, opts)
	}
}

type ledgerResponse struct {
	Balance int                  `json:"balance"`
	Entries []*table.LedgerEntry `json:"entries"`
}

func (m *Mux) getTableUUIDPlayerIDLedger() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := parsePage(r)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		playerID, _ := strconv.ParseInt(gmux.Vars(r)["id"], 10, 64)
		dealer := r.Context().Value(ctxDealerKey).(*room.Dealer)

		tbl, err := table.GetTableByUUID(r.Context(), dealer.UUID())
		if err != nil {
			writeMaybeNotFoundError(w, err)
			return
		}

		pt, err := tbl.GetPlayerTable(r.Context(), playerID)
		if err != nil {
			writeMaybeNotFoundError(w, err)
			return
		}

		entries, err := tbl.GetLedger(r.Context(), playerID, p.Offset, p.Limit)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		writeJSON(w, http.StatusOK, ledgerResponse{
			Balance: pt.Balance,
			Entries: entries,
		})
	}
}
