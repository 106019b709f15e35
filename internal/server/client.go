package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Kobrals/feeriequest-3d/internal/domain"
	"github.com/Kobrals/feeriequest-3d/pkg/api"
	"github.com/Kobrals/feeriequest-3d/pkg/logger"
	"github.com/Kobrals/feeriequest-3d/pkg/utils"

	"github.com/sirupsen/logrus"

	"github.com/gorilla/websocket"
)

// WebSocket settings
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client sits between one WebSocket and the game service.
type Client struct {
	server  *Server
	conn    *websocket.Conn
	send    chan api.ServerMessage
	session domain.SessionID

	ctx    context.Context
	cancel context.CancelFunc
}

func NewClient(s *Server, conn *websocket.Conn) *Client {
	session := domain.SessionID(utils.GenerateID())
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		server:  s,
		conn:    conn,
		send:    s.Hub.Register(session),
		session: session,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// readPump reads client commands until the connection drops.
func (c *Client) readPump() {
	log := logger.Log.WithField("session_id", c.session)
	defer func() {
		c.cancel()
		// detach is a no-op for sessions that never joined
		detach := domain.InternalCommand{Action: domain.ActionDetach, Session: c.session}
		ctx, cancel := context.WithTimeout(context.Background(), writeWait)
		if err := c.server.Game.Submit(ctx, detach); err != nil {
			log.WithError(err).Warn("failed to submit detach")
		}
		cancel()
		c.server.Hub.Unregister(c.session)
		if err := c.conn.Close(); err != nil {
			log.WithError(err).Debug("failed to close websocket connection")
		}
		log.Info("Client disconnected")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.WithError(err).Warn("failed to set read deadline")
	}
	c.conn.SetPongHandler(func(string) error {
		if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	log.Info("Client connected")

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.WithError(err).Error("WS Error")
			}
			return
		}

		var cmd api.ClientCommand
		if err := json.Unmarshal(data, &cmd); err != nil {
			log.WithError(err).Debug("Malformed message dropped.")
			continue
		}
		c.server.handleCommand(c.ctx, c.session, cmd)
	}
}

// writePump forwards hub messages to the socket and keeps the connection alive.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.conn.Close(); err != nil {
			logger.Log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					logger.Log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				logger.Log.WithFields(logrus.Fields{
					"session_id": c.session,
					"type":       message.Type,
				}).WithError(err).Debug("write json message failed")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
