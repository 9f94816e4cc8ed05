// Package wsio carries canonical values over WebSocket, one value per
// binary message. Each message must hold exactly one encoding; trailing
// bytes are rejected like any other non-canonical input.
package wsio

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"

	"github.com/zefchain/bcs"
)

// DefaultReadLimit bounds a single incoming message.
const DefaultReadLimit = 1 << 20

// Conn is a WebSocket connection that sends and receives canonical values.
// Send and Receive may be called from different goroutines, but each must
// only be called from one goroutine at a time.
type Conn struct {
	ws    *websocket.Conn
	codec *bcs.Codec
	log   *slog.Logger
}

func newConn(ws *websocket.Conn, codec *bcs.Codec, logger *slog.Logger) *Conn {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ws.SetReadLimit(DefaultReadLimit)
	return &Conn{ws: ws, codec: codec, log: logger}
}

// Dial connects to url.
func Dial(ctx context.Context, url string, codec *bcs.Codec, logger *slog.Logger) (*Conn, error) {
	ws, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("wsio: dialing %s: %w", url, err)
	}
	c := newConn(ws, codec, logger)
	c.log.Info("wsio: connected", "url", url)
	return c, nil
}

// Accept upgrades an HTTP request to a Conn.
func Accept(w http.ResponseWriter, r *http.Request, codec *bcs.Codec, logger *slog.Logger) (*Conn, error) {
	ws, err := websocket.Accept(w, r, nil)
	if err != nil {
		return nil, fmt.Errorf("wsio: accepting %s: %w", r.RemoteAddr, err)
	}
	c := newConn(ws, codec, logger)
	c.log.Info("wsio: accepted", "remote", r.RemoteAddr)
	return c, nil
}

// SetReadLimit sets the maximum size of an incoming message.
func (c *Conn) SetReadLimit(n int64) {
	c.ws.SetReadLimit(n)
}

// Send encodes v and writes it as one binary message.
func (c *Conn) Send(ctx context.Context, v bcs.Serializable) error {
	data, err := c.codec.Marshal(v)
	if err != nil {
		return err
	}
	if err := c.ws.Write(ctx, websocket.MessageBinary, data); err != nil {
		return fmt.Errorf("wsio: sending %d bytes: %w", len(data), err)
	}
	return nil
}

// Receive reads one binary message and decodes it into v.
func (c *Conn) Receive(ctx context.Context, v bcs.Deserializable) error {
	typ, data, err := c.ws.Read(ctx)
	if err != nil {
		return fmt.Errorf("wsio: receiving: %w", err)
	}
	if typ != websocket.MessageBinary {
		c.log.Warn("wsio: rejected non-binary message", "type", typ.String(), "len", len(data))
		return fmt.Errorf("wsio: expected a binary message, got %s", typ)
	}
	if err := c.codec.Unmarshal(data, v); err != nil {
		c.log.Warn("wsio: rejected message",
			"len", len(data),
			"kind", bcs.KindOf(err).String(),
			"err", err)
		return err
	}
	return nil
}

// Close closes the connection with a normal closure status.
func (c *Conn) Close(reason string) error {
	c.log.Info("wsio: closing", "reason", reason)
	return c.ws.Close(websocket.StatusNormalClosure, reason)
}
