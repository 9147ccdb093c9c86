package room

import (
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// PitBoss is responsible for dispatching players to tables
type PitBoss struct {
	dealers    map[string]*Dealer
	lock       sync.RWMutex
	connect    chan *Client
	disconnect chan *Client
	close      chan bool
}

// NewPitBoss returns a new dispatch object
func NewPitBoss() *PitBoss {
	return &PitBoss{
		dealers:    make(map[string]*Dealer),
		connect:    make(chan *Client, 256),
		disconnect: make(chan *Client, 256),
		close:      make(chan bool),
	}
}

// OpenTable starts the dealer's shift and makes the table available to clients
func (p *PitBoss) OpenTable(dealer *Dealer) {
	p.lock.Lock()
	defer p.lock.Unlock()

	if existing, ok := p.dealers[dealer.UUID()]; ok {
		existing.EndShift()
	}

	p.dealers[dealer.UUID()] = dealer
	dealer.StartShift()
}

// Dealer returns the dealer for a table
func (p *PitBoss) Dealer(uuid string) (*Dealer, bool) {
	p.lock.RLock()
	defer p.lock.RUnlock()

	d, ok := p.dealers[uuid]
	return d, ok
}

// Dealers returns every open table sorted by name
func (p *PitBoss) Dealers() []*Dealer {
	p.lock.RLock()
	dealers := make([]*Dealer, 0, len(p.dealers))
	for _, d := range p.dealers {
		dealers = append(dealers, d)
	}
	p.lock.RUnlock()

	sort.Slice(dealers, func(i, j int) bool {
		if dealers[i].Name() == dealers[j].Name() {
			return dealers[i].UUID() < dealers[j].UUID()
		}

		return dealers[i].Name() < dealers[j].Name()
	})

	return dealers
}

// StartShift starts the PitBoss run loop
func (p *PitBoss) StartShift() {
	go p.runLoop()
}

// EndShift stops the run loop and every dealer
func (p *PitBoss) EndShift() {
	close(p.close)

	p.lock.Lock()
	defer p.lock.Unlock()
	for uuid, d := range p.dealers {
		d.EndShift()
		delete(p.dealers, uuid)
	}
}

func (p *PitBoss) runLoop() {
	for {
		select {
		case client := <-p.connect:
			logrus.WithField("player", client.String()).Debug("client connected")
			dealer, found := p.Dealer(client.tableUUID)
			if !found {
				logrus.WithField("uuid", client.tableUUID).Warn("table not found")
				client.Close <- "table not found"
				continue
			}

			dealer.AddClient(client)
		case client := <-p.disconnect:
			logrus.WithField("player", client.String()).Debug("client disconnected")
			if client.dealer == nil {
				continue
			}

			client.dealer.RemoveClient(client)
		case <-p.close:
			return
		}
	}
}

// ClientConnected is called when a client connects to the server
func (p *PitBoss) ClientConnected(client *Client) {
	p.connect <- client
}

// ClientDisconnected is called when a client disconnects from the server
func (p *PitBoss) ClientDisconnected(client *Client) {
	p.disconnect <- client
}
