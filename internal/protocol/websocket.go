package protocol

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-dungeon/internal/errors"
)

const (
	pongWait     = 60 * time.Second
	pingPeriod   = 30 * time.Second
	writeWait    = 10 * time.Second
	sendCapacity = 256
)

// WSTransport carries messages over a websocket connection. Writes are
// queued and flushed by a single write pump that also keeps the connection
// alive with pings.
type WSTransport struct {
	conn *websocket.Conn
	send chan []byte

	done      chan struct{}
	closeOnce sync.Once
}

var _ Transport = (*WSTransport)(nil)

// NewWSTransport wraps an established connection and starts its write pump.
func NewWSTransport(conn *websocket.Conn) *WSTransport {
	t := &WSTransport{
		conn: conn,
		send: make(chan []byte, sendCapacity),
		done: make(chan struct{}),
	}

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go t.writePump()
	return t
}

// DialWS connects to a websocket server.
func DialWS(ctx context.Context, url string) (*WSTransport, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDisconnect, "dial "+url)
	}
	return NewWSTransport(conn), nil
}

// ReadMessage blocks for the next text frame. Cancelling ctx unblocks the
// read and leaves the connection unusable.
func (t *WSTransport) ReadMessage(ctx context.Context) ([]byte, error) {
	stop := context.AfterFunc(ctx, func() {
		t.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	_, data, err := t.conn.ReadMessage()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.WrapWithCode(err, errors.CodeDisconnect, "read")
	}
	return data, nil
}

// WriteMessage queues data for the write pump. A peer too slow to drain its
// queue is disconnected.
func (t *WSTransport) WriteMessage(data []byte) error {
	select {
	case <-t.done:
		return errors.Disconnect("connection closed")
	default:
	}

	select {
	case t.send <- data:
		return nil
	default:
		t.Close()
		return errors.Disconnect("send queue full")
	}
}

// Close stops the write pump, which says goodbye and closes the socket.
func (t *WSTransport) Close() error {
	t.closeOnce.Do(func() { close(t.done) })
	return nil
}

func (t *WSTransport) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		t.conn.Close()
	}()

	for {
		select {
		case data := <-t.send:
			t.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := t.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				t.Close()
				return
			}

		case <-ticker.C:
			t.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := t.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				t.Close()
				return
			}

		case <-t.done:
			// Flush what is already queued so a final game-end still arrives.
			for {
				select {
				case data := <-t.send:
					t.conn.SetWriteDeadline(time.Now().Add(writeWait))
					if err := t.conn.WriteMessage(websocket.TextMessage, data); err != nil {
						return
					}
				default:
					t.conn.SetWriteDeadline(time.Now().Add(writeWait))
					t.conn.WriteMessage(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
					return
				}
			}
		}
	}
}
