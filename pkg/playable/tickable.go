package playable

import "time"

// Tickable is a game whose state moves on its own, for timeouts and deadlines
type Tickable interface {
	// Interval is how long to wait between each tick
	Interval() time.Duration

	// Tick will be called periodically
	// Return true if the dealer should send updated state
	Tick() (bool, error)
}

// Connectable is a game that reacts to players coming and going
type Connectable interface {
	PlayerDisconnected(playerID int64)
	PlayerReconnected(playerID int64)
}
