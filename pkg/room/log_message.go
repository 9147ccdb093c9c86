package room

import (
	"shipcaptaincrew-server/pkg/playable"
)

const logMessageLimit = 25

// addLogMessages adds log messages to the history sent to new clients
// Note: this must only be called from within the run loop
func (d *Dealer) addLogMessages(messages []*playable.LogMessage) {
	m := append(d.logMessages, messages...)
	count := len(m)
	if count > logMessageLimit {
		m = m[count-logMessageLimit:]
	}

	d.logMessages = m
}

// NOTE: must only be called from the run loop
func (d *Dealer) sendLogMessages(messages []*playable.LogMessage) {
	d.addLogMessages(messages)

	res := newLogResponse(messages)
	for _, client := range d.Clients() {
		client.Send(res)
	}
}
