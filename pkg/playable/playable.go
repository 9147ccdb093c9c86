package playable

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Playable is a game hosted by a dealer
// Every method is called from the dealer's run loop.
type Playable interface {
	// Action applies a player's message
	// playerResponse goes only to the sender; updateState asks the dealer to broadcast fresh state
	Action(playerID int64, message *PayloadIn) (playerResponse *Response, updateState bool, err error)

	// GetPlayerState returns the view of the table for playerID (zero for a spectator)
	GetPlayerState(playerID int64) (*Response, error)

	// Name returns the name shown to clients
	Name() string

	// LogChan receives narration for the table's log
	LogChan() <-chan []*LogMessage
}

// LogMessage is one line of table narration
// When PlayerIDs is set the client renders it as "{player} did X"
type LogMessage struct {
	UUID      string    `json:"uuid"`
	PlayerIDs []int64   `json:"playerIds"`
	Dice      []int     `json:"dice,omitempty"`
	Message   string    `json:"message"`
	Time      time.Time `json:"time"`
}

// WithDice attaches dice faces to a log message
func (l *LogMessage) WithDice(values []int) *LogMessage {
	l.Dice = values
	return l
}

// SimpleLogMessage builds a log message about playerID
// Bots have negative IDs, so only zero means the table as a whole.
func SimpleLogMessage(playerID int64, format string, a ...interface{}) *LogMessage {
	lm := &LogMessage{
		UUID:    uuid.New().String(),
		Message: fmt.Sprintf(format, a...),
		Time:    time.Now(),
	}

	if playerID != 0 {
		lm.PlayerIDs = []int64{playerID}
	}

	return lm
}

// Response is an outgoing message
type Response struct {
	Key     string      `json:"key"`
	Value   string      `json:"value"`
	Data    interface{} `json:"data"`
	Context string      `json:"context"`
}

// OK acknowledges a message, echoing its context when given
func OK(ctx ...string) *Response {
	res := &Response{Key: "status", Value: "OK"}
	if len(ctx) == 1 {
		res.Context = ctx[0]
	}

	return res
}

// PayloadIn is a message from a client
type PayloadIn struct {
	Action         string         `json:"action"`
	Subject        string         `json:"subject"`
	AdditionalData AdditionalData `json:"additionalData"`
	// Context is echoed on the reply
	Context string `json:"context"`
}

// AdditionalData holds action arguments as decoded from JSON
type AdditionalData map[string]interface{}

// GetString returns the string at key
func (a AdditionalData) GetString(key string) (string, bool) {
	s, ok := a[key].(string)
	return s, ok
}

// GetInt returns the number at key truncated to an int
// JSON numbers decode as float64; Go callers may also pass an int directly.
func (a AdditionalData) GetInt(key string) (int, bool) {
	switch v := a[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}

	return 0, false
}
