package room

import (
	"errors"
	"sync"

	"github.com/coder/quartz"
	"github.com/sirupsen/logrus"

	"shipcaptaincrew-server/pkg/playable"
	"shipcaptaincrew-server/pkg/playable/shipcaptaincrew"
)

type state int

const (
	stateClientEvent state = iota
	stateGameEvent
)

// ErrSpectator is returned when a client without a player ID tries to act
var ErrSpectator = errors.New("spectators cannot act")

// Dealer is responsible for controlling the game at a table
// Every call into the game happens on the dealer's run loop.
type Dealer struct {
	uuid    string
	name    string
	game    *shipcaptaincrew.Game
	clock   quartz.Clock
	logger  logrus.FieldLogger
	clients map[*Client]bool
	lock    sync.RWMutex

	logMessages []*playable.LogMessage

	execInRunLoop chan func()
	stateChanged  chan state
	close         chan bool
}

// NewDealer creates a new dealer object
// This is called from a blocking state, so it needs to return quickly
func NewDealer(logger logrus.FieldLogger, uuid, name string, game *shipcaptaincrew.Game, clock quartz.Clock) *Dealer {
	if clock == nil {
		clock = quartz.NewReal()
	}

	return &Dealer{
		uuid:          uuid,
		name:          name,
		game:          game,
		clock:         clock,
		logger:        logger.WithFields(logrus.Fields{"uuid": uuid, "name": name}),
		clients:       make(map[*Client]bool),
		execInRunLoop: make(chan func(), 256),
		stateChanged:  make(chan state, 256),
		close:         make(chan bool),
	}
}

// UUID returns the table's UUID
func (d *Dealer) UUID() string {
	return d.uuid
}

// Name returns the table's name
func (d *Dealer) Name() string {
	return d.name
}

// Clients will return a slice of connected (at the time) clients
func (d *Dealer) Clients() []*Client {
	d.lock.RLock()
	defer d.lock.RUnlock()

	clients := make([]*Client, 0, len(d.clients))
	for client := range d.clients {
		clients = append(clients, client)
	}

	return clients
}

// StartShift starts the run loop
func (d *Dealer) StartShift() {
	go d.runLoop()
}

func (d *Dealer) runLoop() {
	d.logger.Debug("creating dealer run loop")

	ticker := d.clock.NewTicker(d.game.Interval(), "dealer", "tick")
	defer ticker.Stop()

	for {
		select {
		case s := <-d.stateChanged:
			switch s {
			case stateClientEvent:
				d.sendPlayerData()
			case stateGameEvent:
				d.sendGameData()
			}
		case fn := <-d.execInRunLoop:
			fn()
		case messages := <-d.game.LogChan():
			d.sendLogMessages(messages)
		case <-ticker.C:
			d.tick()
		case <-d.close:
			d.logger.Debug("terminating dealer run loop")
			return
		}
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) tick() {
	changed, err := d.game.Tick()
	if err != nil {
		d.logger.WithError(err).Error("could not tick game")
		return
	}

	if changed {
		d.sendGameData()
	}
}

// Exec runs fn on the run loop and waits for it to finish
// fn may safely read the game.
func (d *Dealer) Exec(fn func(game *shipcaptaincrew.Game)) {
	done := make(chan bool)
	d.execInRunLoop <- func() {
		fn(d.game)
		close(done)
	}

	select {
	case <-done:
	case <-d.close:
	}
}

// AddClient adds a client
// This method must return quickly
func (d *Dealer) AddClient(client *Client) {
	d.lock.Lock()
	client.dealer = d
	d.clients[client] = true
	d.lock.Unlock()

	d.execInRunLoop <- func() {
		if !client.IsSpectator() {
			d.game.PlayerReconnected(client.playerID)
		}

		if len(d.logMessages) > 0 {
			client.Send(newLogResponse(d.logMessages))
		}

		d.sendPlayerData()
		d.sendGameData()
	}
}

// RemoveClient removes a client
// When a player's last connection goes away their seat starts the disconnect timers.
// This method must return quickly
func (d *Dealer) RemoveClient(client *Client) {
	d.lock.Lock()
	delete(d.clients, client)
	stillConnected := false
	for c := range d.clients {
		if c.playerID == client.playerID {
			stillConnected = true
			break
		}
	}
	d.lock.Unlock()

	d.execInRunLoop <- func() {
		if !client.IsSpectator() && !stillConnected {
			d.game.PlayerDisconnected(client.playerID)
		}

		d.sendPlayerData()
	}
}

// EndShift is called when the dealer is no longer needed
func (d *Dealer) EndShift() {
	close(d.close)
}

// NOTE: must only be called from the run loop
func (d *Dealer) sendGameData() {
	for _, client := range d.Clients() {
		data, err := d.game.GetPlayerState(client.playerID)
		if err != nil {
			d.logger.WithError(err).Error("could not get player state")
			continue
		}

		client.Send(data)
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) sendPlayerData() {
	players := make(map[int64]*clientStatePlayer)
	for _, seat := range d.game.Seats() {
		players[seat.PlayerID] = &clientStatePlayer{
			PlayerID:    seat.PlayerID,
			Name:        seat.Name,
			IsConnected: seat.IsBot(),
			IsSeated:    true,
			IsBot:       seat.IsBot(),
		}
	}

	clients := d.Clients()
	for _, client := range clients {
		if client.IsSpectator() {
			continue
		}

		if p, ok := players[client.playerID]; ok {
			p.IsConnected = true
			continue
		}

		players[client.playerID] = &clientStatePlayer{
			PlayerID:    client.playerID,
			Name:        client.name,
			IsConnected: true,
		}
	}

	res := &playable.Response{
		Key:  "clientState",
		Data: players,
	}

	for _, client := range clients {
		client.Send(res)
	}
}

// ReceivedMessage is called when a client sends a message to the server
func (d *Dealer) ReceivedMessage(c *Client, msg *playable.PayloadIn) {
	if c.IsSpectator() {
		c.Send(newErrorResponse(msg.Context, ErrSpectator))
		return
	}

	switch msg.Action {
	case "addBot":
		d.execInRunLoop <- func() {
			buyIn, ok := msg.AdditionalData.GetInt("buyIn")
			if !ok {
				buyIn = d.game.Options().MinBuyIn
			}

			seat, err := d.game.AddBot(msg.Subject, buyIn)
			if err != nil {
				c.Send(newErrorResponse(msg.Context, err))
				return
			}

			d.logger.WithFields(logrus.Fields{
				"client": c.String(),
				"bot":    seat.PlayerID,
			}).Info("bot added")

			c.Send(playable.OK(msg.Context))
			d.sendPlayerData()
			d.sendGameData()
		}
	default:
		if msg.Action == string(shipcaptaincrew.ActionJoin) {
			if _, ok := msg.AdditionalData.GetString("name"); !ok {
				if msg.AdditionalData == nil {
					msg.AdditionalData = make(playable.AdditionalData)
				}
				msg.AdditionalData["name"] = c.name
			}
		}

		d.execInRunLoop <- func() {
			res, updateState, err := d.game.Action(c.playerID, msg)
			if err != nil {
				d.logger.WithError(err).WithField("client", c.String()).Debug("could not perform action")
				c.Send(newErrorResponse(msg.Context, err))
				return
			}

			if res != nil {
				res.Context = msg.Context
				c.Send(res)
			}

			if msg.Action == string(shipcaptaincrew.ActionJoin) || msg.Action == string(shipcaptaincrew.ActionStand) {
				d.sendPlayerData()
			}

			if updateState {
				d.sendGameData()
			}
		}
	}
}
