package handlers

import (
	"encoding/json"
	"log"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/websocket"
)

// realtimeHub fans scheduler lifecycle events out to connected operators
// (admin UI) and to the external publisher, which listens for post.due.
type realtimeHub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func newRealtimeHub() *realtimeHub {
	return &realtimeHub{conns: make(map[*websocket.Conn]struct{})}
}

func (h *realtimeHub) add(c *websocket.Conn) {
	if h == nil || c == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c] = struct{}{}
}

func (h *realtimeHub) remove(c *websocket.Conn) {
	if h == nil || c == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, c)
}

func (h *realtimeHub) broadcast(msg []byte) {
	if h == nil || len(msg) == 0 {
		return
	}

	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		if err := websocket.Message.Send(c, string(msg)); err != nil {
			_ = c.Close()
			h.remove(c)
		}
	}
}

func (h *realtimeHub) count() int {
	if h == nil {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

func isLocalhostRemoteAddr(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil && h != "" {
		host = h
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	return ip.IsLoopback()
}

// internalWSAllowed gates the events socket. In production set
// INTERNAL_WS_SECRET and send it via X-Internal-WS-Secret; loopback
// connections are always allowed for local development.
func internalWSAllowed(r *http.Request) bool {
	if isLocalhostRemoteAddr(r.RemoteAddr) {
		return true
	}
	sec := strings.TrimSpace(os.Getenv("INTERNAL_WS_SECRET"))
	if sec == "" {
		return false
	}
	return strings.TrimSpace(r.Header.Get("X-Internal-WS-Secret")) == sec
}

type realtimeEvent struct {
	Type     string `json:"type"`
	PostID   string `json:"postId,omitempty"`
	JobID    string `json:"jobId,omitempty"`
	Platform string `json:"platform,omitempty"`
	Status   string `json:"status,omitempty"`
	At       string `json:"at"`
}

// EventsWebSocket streams post lifecycle events (post.created, post.due,
// post.updated) to any connected listener.
//
// URL: /ws/events
func (h *Handler) EventsWebSocket(w http.ResponseWriter, r *http.Request) {
	if !internalWSAllowed(r) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	// x/net/websocket's default handshake rejects mismatched Origins; the
	// socket is internal, so any origin is fine (auth is the secret header).
	wsServer := websocket.Server{
		Handshake: func(cfg *websocket.Config, req *http.Request) error {
			return nil
		},
		Handler: func(c *websocket.Conn) {
			log.Printf("[RealtimeWS] connect remote=%s", r.RemoteAddr)
			h.rt.add(c)
			defer h.rt.remove(c)
			defer log.Printf("[RealtimeWS] disconnect remote=%s", r.RemoteAddr)

			hello := realtimeEvent{Type: "hello", At: time.Now().UTC().Format(time.RFC3339)}
			if b, err := json.Marshal(hello); err == nil {
				_ = websocket.Message.Send(c, string(b))
			}

			// Read loop keeps the connection open and detects disconnects.
			for {
				var ignored string
				if err := websocket.Message.Receive(c, &ignored); err != nil {
					break
				}
			}
		},
	}

	wsServer.ServeHTTP(w, r)
}

func (h *Handler) emitEvent(ev realtimeEvent) {
	if h == nil || h.rt == nil {
		return
	}
	if strings.TrimSpace(ev.At) == "" {
		ev.At = time.Now().UTC().Format(time.RFC3339)
	}
	b, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[Realtime] marshal_failed err=%v", err)
		return
	}
	h.rt.broadcast(b)
}
