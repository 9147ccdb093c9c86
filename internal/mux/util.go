package mux

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

// page is an offset/limit window read from the start and rows query parameters
type page struct {
	Offset int64
	Limit  int
}

func parsePage(r *http.Request) (page, error) {
	p := page{Limit: defaultPageSize}

	if s := r.FormValue("start"); s != "" {
		offset, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return page{}, fmt.Errorf("start: %w", err)
		}

		if offset < 0 {
			return page{}, errors.New("start cannot be less than zero")
		}

		p.Offset = offset
	}

	if s := r.FormValue("rows"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil {
			return page{}, fmt.Errorf("rows: %w", err)
		}

		switch {
		case limit <= 0:
			return page{}, errors.New("rows must be greater than zero")
		case limit > maxPageSize:
			return page{}, fmt.Errorf("rows cannot be greater than %d", maxPageSize)
		}

		p.Limit = limit
	}

	return p, nil
}

// remoteAddr strips the port from the request's remote address
func remoteAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}

// decodeRequest decodes a JSON body into payload, writing the error response on failure
func decodeRequest(w http.ResponseWriter, r *http.Request, payload interface{}) bool {
	switch r.Header.Get("Content-Type") {
	case "application/json", "text/json":
	default:
		writeJSONError(w, http.StatusUnsupportedMediaType, nil)
		return false
	}

	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, err)
		return false
	}

	return true
}

func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.WithError(err).Error("could not write JSON response")
	}
}

type errorResponse struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

// writeMaybeNotFoundError maps sql.ErrNoRows to a 404 and anything else to a 500
func writeMaybeNotFoundError(w http.ResponseWriter, err error) {
	if errors.Is(err, sql.ErrNoRows) {
		writeJSONError(w, http.StatusNotFound, nil)
		return
	}

	writeJSONError(w, http.StatusInternalServerError, err)
}

// writeJSONError only exposes err to the caller for client errors
func writeJSONError(w http.ResponseWriter, statusCode int, err error) {
	msg := http.StatusText(statusCode)
	if statusCode < http.StatusInternalServerError && err != nil {
		msg = err.Error()
	}

	if statusCode >= http.StatusInternalServerError {
		logrus.WithField("statusCode", statusCode).WithError(err).Error("request failed")
	}

	writeJSON(w, statusCode, errorResponse{
		Message:    msg,
		StatusCode: statusCode,
	})
}
