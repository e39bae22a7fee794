package websocket

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	readLimit    = 4096
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
	writeWait    = 10 * time.Second
	sendBuffer   = 16
)

// connection is one player socket. Writes go through send so only writePump touches the writer.
type connection struct {
	playerID string
	conn     *websocket.Conn
	send     chan []byte

	closeOnce sync.Once
	done      chan struct{}
}

func newConnection(playerID string, conn *websocket.Conn) *connection {
	return &connection{
		playerID: playerID,
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		done:     make(chan struct{}),
	}
}

func (that *connection) prepareRead() {
	that.conn.SetReadLimit(readLimit)
	_ = that.conn.SetReadDeadline(time.Now().Add(pongWait))
	that.conn.SetPongHandler(func(string) error {
		return that.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
}

func (that *connection) read() (*Message, error) {
	for {
		_, data, err := that.conn.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("failed to read message: %w", err)
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			// malformed frames are skipped
			continue
		}

		return &message, nil
	}
}

// enqueue hands a frame to writePump. It reports false once the connection is closed.
func (that *connection) enqueue(data []byte) bool {
	select {
	case <-that.done:
		return false
	case that.send <- data:
		return true
	}
}

func (that *connection) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		that.close()
	}()

	for {
		select {
		case <-that.done:
			return
		case data := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// close is safe to call from any goroutine; WriteControl and Close may run concurrently with the pumps.
func (that *connection) close() {
	that.closeOnce.Do(func() {
		close(that.done)

		message := websocket.FormatCloseMessage(websocket.CloseGoingAway, "")
		_ = that.conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(writeWait))
		_ = that.conn.Close()
	})
}
