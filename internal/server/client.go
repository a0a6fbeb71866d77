package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/llehouerou/carousel/internal/carousel"
	"github.com/llehouerou/carousel/internal/media"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// inbound is a message from a browser.
type inbound struct {
	Type   string `json:"type"` // prev, next, goto, key, hint, toggle-pause, media, embed-ready, embed-state
	Index  int    `json:"index"`
	Key    string `json:"key,omitempty"`
	InView bool   `json:"inView,omitempty"`
	Hint   string `json:"hint,omitempty"`
	Event  string `json:"event,omitempty"`
	State  *int   `json:"state,omitempty"`
}

type errorMsg struct {
	Type    string `json:"type"` // "error"
	Message string `json:"message"`
}

var (
	errUnknownMessage = errors.New("unknown message type")
	errUnknownKey     = errors.New("unknown key")
	errMissingState   = errors.New("embed-state without state")
)

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("server: websocket upgrade", "error", err)
		return
	}

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
	s.remote.register(c)

	go s.writePump(c)
	s.readPump(c)
}

// readPump dispatches browser messages to the controller until the
// connection fails.
func (s *Server) readPump(c *client) {
	defer func() {
		s.remote.unregister(c.id)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("server: websocket read", "client", c.id, "error", err)
			}
			return
		}

		var msg inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			s.reply(c, errorMsg{Type: "error", Message: "invalid message format"})
			continue
		}

		if err := s.dispatch(msg); err != nil {
			if errors.Is(err, carousel.ErrClosed) {
				return
			}
			s.log.Debug("server: message rejected", "client", c.id, "type", msg.Type, "error", err)
			s.reply(c, errorMsg{Type: "error", Message: err.Error()})
		}
	}
}

func (s *Server) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.log.Debug("server: websocket write", "client", c.id, "error", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// reply queues msg for c alone.
func (s *Server) reply(c *client, msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	s.remote.mu.Lock()
	defer s.remote.mu.Unlock()
	if _, ok := s.remote.clients[c.id]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (s *Server) dispatch(msg inbound) error {
	ctrl := s.ctrl
	switch msg.Type {
	case "next":
		return ctrl.Next()
	case "prev":
		return ctrl.Prev()
	case "goto":
		return ctrl.Navigate(msg.Index)
	case "toggle-pause":
		return ctrl.TogglePause()
	case "key":
		k, ok := carousel.ParseKey(msg.Key)
		if !ok {
			return fmt.Errorf("%w: %q", errUnknownKey, msg.Key)
		}
		return ctrl.Key(k, msg.InView)
	case "hint":
		h, err := carousel.ParseHint(msg.Hint)
		if err != nil {
			return err
		}
		return ctrl.Hint(h)
	case "media":
		ev, err := media.ParseEvent(msg.Event)
		if err != nil {
			return err
		}
		if err := ctrl.MediaEvent(msg.Index, ev); err != nil {
			return err
		}
		s.remote.observe(msg.Index, ev)
		return nil
	case "embed-ready":
		return ctrl.EmbedReady(msg.Index)
	case "embed-state":
		if msg.State == nil {
			return errMissingState
		}
		return ctrl.EmbedState(msg.Index, *msg.State)
	default:
		return fmt.Errorf("%w: %q", errUnknownMessage, msg.Type)
	}
}
