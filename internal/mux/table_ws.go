package mux

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"shipcaptaincrew-server/pkg/playable"
	"shipcaptaincrew-server/pkg/room"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	// closeWait is how long to wait for the peer's close frame after sending ours
	closeWait = time.Second
)

// wsSession pumps messages between one websocket and the pit boss
type wsSession struct {
	client *room.Client
	logger logrus.FieldLogger
	// readDone is closed once the read loop has returned
	readDone chan struct{}
}

func (m *Mux) getTableUUIDWS() http.HandlerFunc {
	upgrader := &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		dealer := r.Context().Value(ctxDealerKey).(*room.Dealer)
		who := r.Context().Value(ctxPlayerKey).(identity)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logrus.WithError(err).Error("could not upgrade websocket")
			return
		}

		client := room.NewClient(conn, dealer.UUID(), who.PlayerID, who.Name)
		s := &wsSession{
			client: client,
			logger: logrus.WithFields(logrus.Fields{
				"client":     client.String(),
				"table":      dealer.UUID(),
				"remoteAddr": remoteAddr(r),
			}),
			readDone: make(chan struct{}),
		}

		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})

		s.logger.Info("websocket connected")
		m.pitBoss.ClientConnected(client)

		go s.writeLoop()
		s.readLoop()

		m.pitBoss.ClientDisconnected(client)
		_ = conn.Close()
		close(s.readDone)
		s.logger.Info("websocket disconnected")
	}
}

// writeLoop owns all writes to the connection
func (s *wsSession) writeLoop() {
	conn := s.client.Conn
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case reason := <-s.client.Close:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason))

			select {
			case <-s.readDone:
			case <-time.After(closeWait):
			}
			return
		case msg, ok := <-s.client.SendChan():
			if !ok {
				return
			}

			if logrus.IsLevelEnabled(logrus.TraceLevel) {
				b, _ := json.Marshal(msg)
				s.logger.WithField("message", string(b)).Trace("sending message")
			}

			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				s.logger.WithError(err).Error("could not write message")
				return
			}
		}
	}
}

// readLoop hands each action to the client until the connection fails
func (s *wsSession) readLoop() {
	for {
		var msg playable.PayloadIn
		if err := s.client.Conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				s.logger.WithError(err).Warn("websocket closed unexpectedly")
			} else {
				s.logger.WithError(err).Debug("websocket read ended")
			}

			s.client.CloseError = err
			return
		}

		s.client.ReceivedMessage(&msg)
	}
}
