package mux

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// doRequest sends req as playerID (when given) and decodes the body into respObj
// The returned response has a closed body; nil means the request failed.
func doRequest(t *testing.T, req *http.Request, respObj interface{}, statusCode int, playerID ...int64) *http.Response {
	t.Helper()

	if len(playerID) > 0 {
		req.Header.Set(playerHeader, strconv.FormatInt(playerID[0], 10))
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Error(err)
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Error(err)
		return nil
	}

	if !assert.Equal(t, statusCode, resp.StatusCode, string(body)) {
		return nil
	}

	if respObj != nil {
		if err := json.Unmarshal(body, respObj); err != nil {
			t.Error(err)
			return nil
		}
	}

	return resp
}

func assertGetWithResp(t *testing.T, ts *httptest.Server, path string, respObj interface{}, statusCode int, playerID ...int64) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, ts.URL+path, nil)
	if err != nil {
		t.Error(err)
		return nil
	}

	return doRequest(t, req, respObj, statusCode, playerID...)
}

func assertGet(t *testing.T, ts *httptest.Server, path string, respObj interface{}, statusCode int, playerID ...int64) {
	t.Helper()
	assertGetWithResp(t, ts, path, respObj, statusCode, playerID...)
}

// assertPost sends payload as JSON; a string payload is sent verbatim
func assertPost(t *testing.T, ts *httptest.Server, path string, payload interface{}, respObj interface{}, statusCode int, playerID ...int64) {
	t.Helper()

	var body io.Reader
	if s, ok := payload.(string); ok {
		body = strings.NewReader(s)
	} else {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Error(err)
			return
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(http.MethodPost, ts.URL+path, body)
	if err != nil {
		t.Error(err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	doRequest(t, req, respObj, statusCode, playerID...)
}
