package device

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

// Relay wire protocol: a text message starting with 'G' carries a
// command line, a bare "P" queries the probe switch. The server
// answers "ok" or "error: ..." for commands and "1"/"0" for queries.

// RelayChannel is a Channel served by a remote RelayServer. It lets a
// UI process connect and disconnect without resetting the hardware.
type RelayChannel struct {
	mx   sync.Mutex
	conn *websocket.Conn
}

var _ Channel = &RelayChannel{}

// DialRelay connects to a RelayServer at the given websocket URL.
func DialRelay(url string) (*RelayChannel, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("connect to relay %s: %v", url, err)
	}
	return &RelayChannel{conn: conn}, nil
}

func (r *RelayChannel) roundTrip(req string) (string, error) {
	r.mx.Lock()
	defer r.mx.Unlock()

	err := r.conn.WriteMessage(websocket.TextMessage, []byte(req))
	if err != nil {
		return "", fmt.Errorf("relay write: %v", err)
	}
	_, data, err := r.conn.ReadMessage()
	if err != nil {
		return "", fmt.Errorf("relay read: %v", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (r *RelayChannel) SendCommand(cmd string) error {
	resp, err := r.roundTrip("G" + cmd)
	if err != nil {
		return err
	}
	if resp != "ok" {
		return errors.New("relay: " + resp)
	}
	return nil
}

func (r *RelayChannel) Triggered() (bool, error) {
	resp, err := r.roundTrip("P")
	if err != nil {
		return false, err
	}
	switch resp {
	case "1":
		return true, nil
	case "0":
		return false, nil
	}
	return false, errors.New("relay: " + resp)
}

func (r *RelayChannel) Close() error {
	return r.conn.Close()
}
