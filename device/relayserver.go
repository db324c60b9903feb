package device

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// RelayServer exposes a local Channel to RelayChannel clients over a
// websocket. The channel is held by one client at a time; a second
// connection is refused so a scan can never receive interleaved
// commands from two operators.
type RelayServer struct {
	ch Channel

	mx   sync.Mutex
	busy bool

	upgrader websocket.Upgrader
}

func NewRelayServer(ch Channel) *RelayServer {
	return &RelayServer{ch: ch}
}

func (s *RelayServer) acquire() bool {
	s.mx.Lock()
	defer s.mx.Unlock()
	if s.busy {
		return false
	}
	s.busy = true
	return true
}

func (s *RelayServer) release() {
	s.mx.Lock()
	s.busy = false
	s.mx.Unlock()
}

func (s *RelayServer) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if !s.acquire() {
		http.Error(w, "relay busy", http.StatusConflict)
		return
	}
	defer s.release()

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		log.Println("ERROR: upgrade:", err)
		return
	}
	defer conn.Close()
	log.Println("Relay client connected:", req.RemoteAddr)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Println("Relay client disconnected:", req.RemoteAddr)
			return
		}
		resp := s.handle(string(data))
		err = conn.WriteMessage(websocket.TextMessage, []byte(resp))
		if err != nil {
			log.Println("ERROR: relay write:", err)
			return
		}
	}
}

func (s *RelayServer) handle(msg string) string {
	if msg == "" {
		return "error: empty message"
	}
	switch msg[0] {
	case 'G':
		if len(msg) == 1 {
			return "error: empty command"
		}
		err := s.ch.SendCommand(msg[1:])
		if err != nil {
			log.Println("ERROR: relay command:", err)
			return "error: " + err.Error()
		}
		return "ok"
	case 'P':
		triggered, err := s.ch.Triggered()
		if err != nil {
			log.Println("ERROR: relay probe query:", err)
			return "error: " + err.Error()
		}
		if triggered {
			return "1"
		}
		return "0"
	}
	return "error: unknown message"
}
