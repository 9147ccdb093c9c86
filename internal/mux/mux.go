package mux

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	gmux "github.com/gorilla/mux"

	"shipcaptaincrew-server/pkg/room"
)

type ctxKey int

const (
	ctxPlayerKey ctxKey = iota
	ctxDealerKey
)

// playerHeader carries the caller's player ID
// Identity is asserted by the client; there is no authentication.
const playerHeader = "ShipCaptainCrew-PlayerID"

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	version string
	pitBoss *room.PitBoss
}

// identity is who is making the request
// A zero player ID is a spectator.
type identity struct {
	PlayerID int64
	Name     string
}

// NewMux returns a new HTTP mux
func NewMux(version string, pitBoss *room.PitBoss) *Mux {
	this := &Mux{
		Router:  gmux.NewRouter(),
		version: version,
		pitBoss: pitBoss,
	}

	r := this.Router
	r.Use(this.playerMiddleware)
	r.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
	r.Methods(http.MethodGet).Path("/table").Handler(this.getTable())

	tr := r.PathPrefix("/table/{uuid:(?i)[a-f0-9]{8}(?:-[a-f0-9]{4}){3}-[a-f0-9]{12}}").Subrouter()
	tr.Use(this.tableMiddleware)

	tr.Methods(http.MethodGet).Path("").Handler(this.getTableUUID())
	tr.Methods(http.MethodGet).Path("/ws").Handler(this.getTableUUIDWS())
	tr.Methods(http.MethodPost).Path("/options").Handler(this.postTableUUIDOptions())
	tr.Methods(http.MethodGet).Path("/player/{id:[0-9]+}/ledger").Handler(this.getTableUUIDPlayerIDLedger())

	return this
}

// playerMiddleware reads the player ID from the header or the player_id query parameter
func (m *Mux) playerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var who identity

		raw := r.Header.Get(playerHeader)
		if raw == "" {
			raw = r.FormValue("player_id")
		}

		if raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				writeJSONError(w, http.StatusBadRequest, errors.New("player id must be a positive integer"))
				return
			}

			who.PlayerID = id
			w.Header().Set(playerHeader, strconv.FormatInt(id, 10))
		}

		who.Name = r.FormValue("name")
		if who.Name == "" && who.PlayerID > 0 {
			who.Name = "Player " + strconv.FormatInt(who.PlayerID, 10)
		}

		newCtx := context.WithValue(r.Context(), ctxPlayerKey, who)
		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}

func (m *Mux) tableMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dealer, ok := m.pitBoss.Dealer(gmux.Vars(r)["uuid"])
		if !ok {
			writeJSONError(w, http.StatusNotFound, nil)
			return
		}

		newCtx := context.WithValue(r.Context(), ctxDealerKey, dealer)
		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}
