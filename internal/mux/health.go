package mux

import "net/http"

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Tables  int    `json:"tables"`
}

// getHealth reports the build version and how many tables are open
func (m *Mux) getHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{
			Status:  "OK",
			Version: m.version,
			Tables:  len(m.pitBoss.Dealers()),
		})
	}
}
