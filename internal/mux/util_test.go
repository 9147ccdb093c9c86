package mux

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_remoteAddr(t *testing.T) {
	a := assert.New(t)

	a.Equal("127.0.0.1", remoteAddr(&http.Request{RemoteAddr: "127.0.0.1:5000"}))
	a.Equal("::1", remoteAddr(&http.Request{RemoteAddr: "[::1]:5000"}))
	a.Equal("pipe", remoteAddr(&http.Request{RemoteAddr: "pipe"}))
}

func Test_parsePage(t *testing.T) {
	a := assert.New(t)

	req := func(query string) *http.Request {
		r, _ := http.NewRequest(http.MethodGet, "https://example.domain/"+query, nil)
		return r
	}

	p, err := parsePage(req(""))
	a.NoError(err)
	a.Equal(page{Offset: 0, Limit: defaultPageSize}, p)

	p, err = parsePage(req("?start=10&rows=25"))
	a.NoError(err)
	a.Equal(page{Offset: 10, Limit: 25}, p)

	_, err = parsePage(req("?start=-1"))
	a.EqualError(err, "start cannot be less than zero")

	_, err = parsePage(req("?start=abc"))
	a.Error(err)

	_, err = parsePage(req("?rows=0"))
	a.EqualError(err, "rows must be greater than zero")

	_, err = parsePage(req(fmt.Sprintf("?rows=%d", maxPageSize+1)))
	a.EqualError(err, fmt.Sprintf("rows cannot be greater than %d", maxPageSize))
}

func Test_writeMaybeNotFoundError(t *testing.T) {
	a := assert.New(t)

	w := httptest.NewRecorder()
	writeMaybeNotFoundError(w, fmt.Errorf("lookup: %w", sql.ErrNoRows))
	a.Equal(http.StatusNotFound, w.Code)
	a.JSONEq(`{"message":"Not Found","statusCode":404}`, w.Body.String())

	w = httptest.NewRecorder()
	writeMaybeNotFoundError(w, errors.New("connection refused"))
	a.Equal(http.StatusInternalServerError, w.Code)
	a.JSONEq(`{"message":"Internal Server Error","statusCode":500}`, w.Body.String())
}

func Test_writeJSONError(t *testing.T) {
	a := assert.New(t)

	w := httptest.NewRecorder()
	writeJSONError(w, http.StatusBadRequest, errors.New("ante must be positive"))
	a.Equal(http.StatusBadRequest, w.Code)
	a.JSONEq(`{"message":"ante must be positive","statusCode":400}`, w.Body.String())
}
