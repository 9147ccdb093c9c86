package room

import (
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"shipcaptaincrew-server/pkg/playable"
)

// Client is a client connected to the server via websockets
type Client struct {
	// Conn is the underlying websocket connection
	Conn *websocket.Conn

	// send is a channel for sending messages to the client
	send chan interface{}

	// Close is a channel for closing the client
	Close chan string

	// CloseError contains the reason why the connection was closed
	CloseError error

	dealer *Dealer

	tableUUID string
	// playerID is zero for spectators
	playerID int64
	name     string
}

// NewClient returns a new client object
func NewClient(conn *websocket.Conn, tableUUID string, playerID int64, name string) *Client {
	return &Client{
		send:      make(chan interface{}, 256),
		Close:     make(chan string, 1),
		Conn:      conn,
		tableUUID: tableUUID,
		playerID:  playerID,
		name:      name,
	}
}

// PlayerID returns the ID of the connected player
func (c *Client) PlayerID() int64 {
	return c.playerID
}

// IsSpectator returns true if the client only watches
func (c *Client) IsSpectator() bool {
	return c.playerID <= 0
}

// Send send a message to the web client
// A full buffer drops the message and returns false.
func (c *Client) Send(msg interface{}) bool {
	select {
	case c.send <- msg:
		return true
	default:
		logrus.WithField("client", c.String()).Warn("client buffer is full, dropping message")
		return false
	}
}

// SendChan returns a read-only channel
func (c *Client) SendChan() <-chan interface{} {
	return c.send
}

// String returns a traceable identifier for the player and table
func (c *Client) String() string {
	return fmt.Sprintf("%d:%s", c.playerID, c.tableUUID)
}

// ReceivedMessage is called when the server receives a message from a connected client
func (c *Client) ReceivedMessage(msg *playable.PayloadIn) {
	if c.dealer == nil {
		logrus.WithField("msg", msg).Warn("received message, but dealer not found")
		return
	}

	c.dealer.ReceivedMessage(c, msg)
}
