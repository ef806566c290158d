package stream

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"

	"github.com/doctor-spaghetti-md/mrdarcy/pkg/streaming"
)

const (
	sendChSize = 256
	writeWait  = 10 * time.Second
)

// client is one connected viewer with a single write goroutine. Frames
// are pushed through a bounded channel; a slow viewer drops frames
// rather than stalling the replay loop.
type client struct {
	mu     sync.Mutex
	conn   *ws.Conn
	sendCh chan []byte
	done   chan struct{} // closed on shutdown
	closed bool

	dropped uint64

	logger *slog.Logger
}

func newClient(conn *ws.Conn, logger *slog.Logger) *client {
	return &client{
		conn:   conn,
		sendCh: make(chan []byte, sendChSize),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// writeLoop drains sendCh and writes messages to the WebSocket.
// Returns on write error or shutdown.
func (c *client) writeLoop() {
	for {
		select {
		case <-c.done:
			return
		case data := <-c.sendCh:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Warn("viewer SetWriteDeadline error", "error", err)
				c.close()
				return
			}
			if err := c.conn.WriteMessage(ws.TextMessage, data); err != nil {
				c.logger.Warn("viewer write error", "error", err)
				c.close()
				return
			}
		}
	}
}

// readLoop reads command envelopes from the viewer and passes them to
// dispatch. The result is sent back on this client's own channel.
func (c *client) readLoop(dispatch DispatchFunc) {
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			default:
				c.logger.Debug("viewer read error", "error", err)
				c.close()
			}
			return
		}

		var env streaming.Envelope
		if err := json.Unmarshal(message, &env); err != nil {
			c.logger.Debug("non-envelope message received", "raw", string(message))
			continue
		}
		if env.Type != streaming.TypeCommand {
			continue
		}

		var cmd streaming.CommandPayload
		if err := json.Unmarshal(env.Payload, &cmd); err != nil {
			c.logger.Debug("malformed command payload", "raw", string(env.Payload))
			continue
		}

		result := streaming.ResultPayload{For: cmd.Name, OK: true}
		value, err := dispatch(cmd.Name, cmd.Args)
		if err != nil {
			result.OK = false
			result.Error = err.Error()
		} else {
			result.Value = value
		}

		if data, err := marshalEnvelope(streaming.TypeResult, result); err == nil {
			c.send(data)
		}
	}
}

// send pushes data to the write loop. Non-blocking; drops if channel full.
func (c *client) send(data []byte) {
	select {
	case c.sendCh <- data:
	default:
		c.dropped++
		if c.dropped%100 == 1 {
			c.logger.Warn("viewer send channel full, dropping frames", "dropped", c.dropped)
		}
	}
}

// close sends a WebSocket close frame and shuts down the client.
func (c *client) close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.done)
	c.mu.Unlock()

	_ = c.conn.WriteMessage(
		ws.CloseMessage,
		ws.FormatCloseMessage(ws.CloseNormalClosure, ""),
	)
	_ = c.conn.Close()
}
