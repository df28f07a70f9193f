package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/liangxing/matchsite/backend/directory"
)

// DirectoryEvent is sent by the browser when a control changes. Criteria
// may be partial: omitted fields keep their current value.
type DirectoryEvent struct {
	Type     string          `json:"type"` // "criteria" | "page" | "next" | "prev" | "reset"
	Criteria json.RawMessage `json:"criteria,omitempty"`
	Page     int             `json:"page,omitempty"`
}

// ServerEvent represents a server-sent event
type ServerEvent struct {
	Type string `json:"type"` // "view" | "info" | "error"
	Data any    `json:"data,omitempty"`
}

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 30 * time.Second
	wsReadLimit  = 16 << 10
)

// session is one websocket connection with its own directory state. The
// browser is only touched by the reader goroutine.
type session struct {
	conn    *websocket.Conn
	send    chan ServerEvent
	browser *directory.Browser
	log     zerolog.Logger
}

// Hub tracks open directory sessions so they can be closed on shutdown.
type Hub struct {
	sessions map[*session]struct{}
	mu       sync.Mutex
}

func newHub() *Hub {
	return &Hub{sessions: make(map[*session]struct{})}
}

func (h *Hub) register(s *session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[s] = struct{}{}
}

func (h *Hub) unregister(s *session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, s)
}

func (h *Hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// closeAll drops every connection. The readers notice and clean up.
func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.sessions {
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		_ = s.conn.Close()
	}
}

// push queues evt without blocking; a client that stops reading loses events.
func (s *session) push(evt ServerEvent) {
	select {
	case s.send <- evt:
	default:
		s.log.Warn().Str("event", evt.Type).Msg("Directory session buffer full, dropping event")
	}
}

func newUpgrader(origins []string) *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || slices.Contains(origins, origin) {
				return true
			}
			u, err := url.Parse(origin)
			return err == nil && u.Host == r.Host
		},
	}
}

// GET /ws/directory
//
// The query string may carry initial criteria in the same form as
// /api/members. Invalid initial criteria fall back to the defaults.
func wsDirectoryHandler(cat *Catalog, hub *Hub, origins []string) http.HandlerFunc {
	upgrader := newUpgrader(origins)
	return func(w http.ResponseWriter, r *http.Request) {
		log := hlog.FromRequest(r).With().Str("component", "ws_directory").Logger()

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Debug().Err(err).Msg("WS upgrade failed")
			return
		}

		s := &session{
			conn:    conn,
			send:    make(chan ServerEvent, 16),
			browser: directory.NewBrowser(cat.All()),
			log:     log,
		}
		if c, err := criteriaFromQuery(r.URL.Query()); err == nil {
			_ = s.browser.SetCriteria(c)
			s.browser.GoTo(pageFromQuery(r.URL.Query()))
		}
		hub.register(s)
		log.Debug().Int("sessions", hub.count()).Msg("Directory session opened")

		s.push(ServerEvent{Type: "info", Data: "connected"})
		s.push(ServerEvent{Type: "view", Data: s.browser.View()})

		go sessionWriter(s)
		sessionReader(s, hub)
	}
}

func sessionReader(s *session, hub *Hub) {
	defer func() {
		hub.unregister(s)
		close(s.send)
		s.conn.Close()
		s.log.Debug().Msg("Directory session closed")
	}()

	s.conn.SetReadLimit(wsReadLimit)
	_ = s.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	s.conn.SetPongHandler(func(string) error {
		_ = s.conn.SetReadDeadline(time.Now().Add(wsPongWait))
		return nil
	})

	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			return
		}

		var evt DirectoryEvent
		if err := json.Unmarshal(payload, &evt); err != nil {
			s.push(ServerEvent{Type: "error", Data: "invalid message format"})
			continue
		}
		s.push(applyDirectoryEvent(s.browser, evt))
	}
}

// applyDirectoryEvent updates b and returns the event to send back: the new
// view, or an error that leaves the session unchanged.
func applyDirectoryEvent(b *directory.Browser, evt DirectoryEvent) ServerEvent {
	switch evt.Type {
	case "criteria":
		if len(evt.Criteria) == 0 || string(evt.Criteria) == "null" {
			return ServerEvent{Type: "error", Data: "criteria missing"}
		}
		c := b.Criteria()
		if err := json.Unmarshal(evt.Criteria, &c); err != nil {
			return ServerEvent{Type: "error", Data: "invalid criteria format"}
		}
		if err := b.SetCriteria(c); err != nil {
			if errors.Is(err, directory.ErrInvalidCriteria) {
				return ServerEvent{Type: "error", Data: err.Error()}
			}
			return ServerEvent{Type: "error", Data: "cannot apply criteria"}
		}
	case "page":
		b.GoTo(evt.Page)
	case "next":
		b.Next()
	case "prev":
		b.Prev()
	case "reset":
		b.Reset()
	default:
		return ServerEvent{Type: "error", Data: "unknown message type"}
	}
	return ServerEvent{Type: "view", Data: b.View()}
}

func sessionWriter(s *session) {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case evt, ok := <-s.send:
			if !ok {
				return
			}
			_ = s.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := s.conn.WriteJSON(evt); err != nil {
				return
			}
		case <-ticker.C:
			// ping to keep the connection alive
			_ = s.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
