package wsio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zefchain/bcs"
)

type ping struct {
	Seq  uint64
	Note string
}

func (p *ping) SerializeBCS(s *bcs.Serializer) error {
	return s.SerializeStruct("Ping", func() error {
		if err := s.SerializeU64(p.Seq); err != nil {
			return err
		}
		return s.SerializeStr(p.Note)
	})
}

func (p *ping) DeserializeBCS(d *bcs.Deserializer) error {
	return d.DeserializeStruct("Ping", func() (err error) {
		if p.Seq, err = d.DeserializeU64(); err != nil {
			return err
		}
		p.Note, err = d.DeserializeStr()
		return err
	})
}

func newCodec(t *testing.T) *bcs.Codec {
	t.Helper()
	c, err := bcs.New(bcs.DefaultConfig())
	require.NoError(t, err)
	return c
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

// echoServer decodes each value and sends it back with Seq incremented.
func echoServer(t *testing.T, codec *bcs.Codec) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := Accept(w, r, codec, nil)
		if err != nil {
			return
		}
		defer conn.Close("done")
		for {
			var p ping
			if err := conn.Receive(r.Context(), &p); err != nil {
				return
			}
			p.Seq++
			if err := conn.Send(r.Context(), &p); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSendReceive(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	codec := newCodec(t)
	srv := echoServer(t, codec)

	conn, err := Dial(ctx, wsURL(srv), codec, nil)
	require.NoError(t, err)
	defer conn.Close("bye")

	for i := range uint64(3) {
		require.NoError(t, conn.Send(ctx, &ping{Seq: i, Note: "hello"}))
		var got ping
		require.NoError(t, conn.Receive(ctx, &got))
		assert.Equal(t, ping{Seq: i + 1, Note: "hello"}, got)
	}
}

func TestReceiveRejectsNonCanonical(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	codec := newCodec(t)
	frames := [][]byte{
		// Trailing byte after a complete value.
		{1, 0, 0, 0, 0, 0, 0, 0, 0x00, 0xff},
		// Truncated.
		{1, 0, 0},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer ws.CloseNow()
		for _, f := range frames {
			if err := ws.Write(r.Context(), websocket.MessageBinary, f); err != nil {
				return
			}
		}
		_ = ws.Write(r.Context(), websocket.MessageText, []byte("not binary"))
		// Hold the connection open until the client closes it.
		_, _, _ = ws.Read(r.Context())
	}))
	t.Cleanup(srv.Close)

	conn, err := Dial(ctx, wsURL(srv), codec, nil)
	require.NoError(t, err)
	defer conn.Close("bye")

	var p ping
	require.ErrorIs(t, conn.Receive(ctx, &p), bcs.ErrRemainingInput)
	require.ErrorIs(t, conn.Receive(ctx, &p), bcs.ErrEOF)
	assert.ErrorContains(t, conn.Receive(ctx, &p), "expected a binary message")
}
