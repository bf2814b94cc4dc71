// Package burstfeed accepts burst requests over a websocket so remote
// collaborators (an overlay UI, a test rig) can trigger effects in a running
// engine. Events are handed to the host through a channel; the host drains
// it from its own loop and calls CreateBurst, so the engine never sees
// concurrent mutation.
package burstfeed

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

// Event is one remote burst request in surface coordinates.
type Event struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Intensity int     `json:"intensity"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server listens for websocket connections on /ws and forwards decoded
// events. The event channel is buffered; when the host falls behind, excess
// bursts are dropped rather than blocking the read pump.
type Server struct {
	srv    *http.Server
	events chan Event
}

func NewServer(addr string) *Server {
	s := &Server{
		events: make(chan Event, 64),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	s.srv = &http.Server{Addr: addr, Handler: mux}
	return s
}

// Events is the stream of decoded burst requests.
func (s *Server) Events() <-chan Event { return s.events }

// ListenAndServe blocks serving the feed until Shutdown.
func (s *Server) ListenAndServe() error {
	return s.srv.ListenAndServe()
}

// Shutdown stops accepting connections and unblocks ListenAndServe.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// Handler exposes the websocket endpoint for embedding in another mux.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(s.handleWS)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		if _, ok := err.(websocket.HandshakeError); !ok {
			log.Println(err)
		}
		return
	}
	go s.readSocket(conn)
}

// readSocket decodes events off one connection until it closes. Malformed
// messages are logged and skipped; the connection stays up.
func (s *Server) readSocket(conn *websocket.Conn) {
	defer conn.Close()

	for {
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				log.Printf("burstfeed: dropping malformed event: %v", err)
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("burstfeed: %v", err)
			}
			return
		}
		if ev.Intensity <= 0 {
			continue
		}
		select {
		case s.events <- ev:
		default:
			// Host is not draining; drop instead of stalling the pump.
		}
	}
}
