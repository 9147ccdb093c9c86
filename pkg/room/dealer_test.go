package room

import (
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"

	"shipcaptaincrew-server/internal/rng"
	"shipcaptaincrew-server/pkg/playable"
	"shipcaptaincrew-server/pkg/playable/shipcaptaincrew"
)

const testTableUUID = "8c3f6bd6-3a6b-4f0e-9a55-2f4bd1d7a001"

func newTestDealer(t *testing.T) *Dealer {
	t.Helper()
	logger, _ := test.NewNullLogger()

	opts := shipcaptaincrew.DefaultOptions()
	opts.HandEndPause = time.Hour
	game, err := shipcaptaincrew.NewGame(logger, shipcaptaincrew.Config{
		TableUUID: testTableUUID,
		Options:   opts,
		Clock:     quartz.NewReal(),
		Rng:       rng.NewSeeded(1),
	})
	if err != nil {
		t.Fatal(err)
	}

	d := NewDealer(logger, testTableUUID, "The Salty Dog", game, quartz.NewReal())
	d.StartShift()
	t.Cleanup(d.EndShift)
	return d
}

// receive reads messages until one with the key arrives
func receive(t *testing.T, c *Client, key string) *playable.Response {
	t.Helper()
	timeout := time.After(time.Second)
	for {
		select {
		case msg := <-c.SendChan():
			if res, ok := msg.(*playable.Response); ok && res.Key == key {
				return res
			}
		case <-timeout:
			t.Fatalf("did not receive %q", key)
			return nil
		}
	}
}

func join(d *Dealer, c *Client, buyIn int) {
	d.ReceivedMessage(c, &playable.PayloadIn{
		Action:         "join",
		AdditionalData: playable.AdditionalData{"buyIn": float64(buyIn)},
		Context:        "join",
	})
}

func TestDealer_AddClient(t *testing.T) {
	a := assert.New(t)
	d := newTestDealer(t)

	c := NewClient(nil, testTableUUID, 1, "Alice")
	d.AddClient(c)
	a.Equal(d, c.dealer)
	a.Len(d.Clients(), 1)

	res := receive(t, c, "clientState")
	players := res.Data.(map[int64]*clientStatePlayer)
	if a.Contains(players, int64(1)) {
		a.Equal("Alice", players[1].Name)
		a.True(players[1].IsConnected)
		a.False(players[1].IsSeated)
	}

	res = receive(t, c, "game")
	a.Equal("shipcaptaincrew", res.Value)
	view := res.Data.(*shipcaptaincrew.Response)
	a.Nil(view.Seat)

	d.RemoveClient(c)
	a.Len(d.Clients(), 0)
}

func TestDealer_ReceivedMessage(t *testing.T) {
	a := assert.New(t)
	d := newTestDealer(t)

	alice := NewClient(nil, testTableUUID, 1, "Alice")
	watcher := NewClient(nil, testTableUUID, 0, "")
	d.AddClient(alice)
	d.AddClient(watcher)

	join(d, alice, 1000)
	res := receive(t, alice, "status")
	a.Equal("OK", res.Value)
	a.Equal("join", res.Context)

	res = receive(t, watcher, "log")
	messages := res.Data.([]*playable.LogMessage)
	if a.NotEmpty(messages) {
		a.Equal([]int64{1}, messages[0].PlayerIDs)
	}

	d.Exec(func(game *shipcaptaincrew.Game) {
		seat, ok := game.Seat(1)
		if a.True(ok) {
			a.Equal("Alice", seat.Name, "name comes from the connection")
			a.Equal(1000, seat.Balance())
		}
	})

	join(d, alice, 1000)
	res = receive(t, alice, "error")
	a.Equal(shipcaptaincrew.ErrAlreadySeated.Error(), res.Value)

	join(d, watcher, 1000)
	res = receive(t, watcher, "error")
	a.Equal(ErrSpectator.Error(), res.Value)

	d.ReceivedMessage(alice, &playable.PayloadIn{Action: "addBot", Subject: "nope"})
	res = receive(t, alice, "error")
	a.Equal("unknown personality: nope", res.Value)

	d.ReceivedMessage(alice, &playable.PayloadIn{Action: "addBot", Subject: "cautious", Context: "bot"})
	res = receive(t, alice, "status")
	a.Equal("bot", res.Context)

	d.Exec(func(game *shipcaptaincrew.Game) {
		seats := game.Seats()
		if a.Len(seats, 2) {
			a.True(seats[1].IsBot())
			a.Equal("cautious", seats[1].Personality)
			a.Equal(game.Options().MinBuyIn, seats[1].Balance())
		}
	})
}

func TestDealer_RemoveClient(t *testing.T) {
	a := assert.New(t)
	d := newTestDealer(t)

	first := NewClient(nil, testTableUUID, 1, "Alice")
	second := NewClient(nil, testTableUUID, 1, "Alice")
	d.AddClient(first)
	d.AddClient(second)
	join(d, first, 1000)
	receive(t, first, "status")

	disconnected := func() bool {
		var result bool
		d.Exec(func(game *shipcaptaincrew.Game) {
			for _, s := range game.View(0).GameState.Seats {
				if s.PlayerID == 1 {
					result = s.Disconnected
				}
			}
		})
		return result
	}

	// another tab is still open
	d.RemoveClient(first)
	a.False(disconnected())

	d.RemoveClient(second)
	a.True(disconnected())

	third := NewClient(nil, testTableUUID, 1, "Alice")
	d.AddClient(third)
	a.False(disconnected())
}

func TestPitBoss(t *testing.T) {
	a := assert.New(t)
	p := NewPitBoss()
	p.StartShift()
	defer p.EndShift()

	logger, _ := test.NewNullLogger()
	game, err := shipcaptaincrew.NewGame(logger, shipcaptaincrew.Config{
		TableUUID: testTableUUID,
		Options:   shipcaptaincrew.DefaultOptions(),
	})
	if !a.NoError(err) {
		return
	}

	p.OpenTable(NewDealer(logger, testTableUUID, "The Salty Dog", game, nil))
	d, ok := p.Dealer(testTableUUID)
	a.True(ok)
	a.Equal("The Salty Dog", d.Name())
	a.Len(p.Dealers(), 1)

	c := NewClient(nil, testTableUUID, 1, "Alice")
	p.ClientConnected(c)
	receive(t, c, "clientState")

	lost := NewClient(nil, "00000000-0000-0000-0000-000000000000", 1, "Alice")
	p.ClientConnected(lost)
	select {
	case reason := <-lost.Close:
		a.Equal("table not found", reason)
	case <-time.After(time.Second):
		t.Error("client was not closed")
	}

	p.ClientDisconnected(c)
	a.Eventually(func() bool {
		return len(d.Clients()) == 0
	}, time.Second, 5*time.Millisecond)
}
