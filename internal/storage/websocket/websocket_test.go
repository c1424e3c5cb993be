package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrolab/envsim/internal/storage"
	"github.com/astrolab/envsim/pkg/core"
	"github.com/astrolab/envsim/pkg/streaming"
)

// Compile-time interface check.
var _ storage.Backend = (*Backend)(nil)

type messageLog struct {
	mu       sync.Mutex
	messages []streaming.Envelope
	secrets  []string
}

func (m *messageLog) add(env streaming.Envelope) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, env)
}

func (m *messageLog) all() []streaming.Envelope {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]streaming.Envelope, len(m.messages))
	copy(cp, m.messages)
	return cp
}

func (m *messageLog) countType(typ string) int {
	n := 0
	for _, e := range m.all() {
		if e.Type == typ {
			n++
		}
	}
	return n
}

// testServer upgrades to WebSocket, records envelopes and acks session
// boundaries. When dropAfter > 0 the first connection is closed after that
// many messages.
func testServer(t *testing.T, dropAfter int) (*httptest.Server, *messageLog) {
	t.Helper()
	ml := &messageLog{}
	var conns atomic.Int32

	upgrader := ws.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ml.mu.Lock()
		ml.secrets = append(ml.secrets, r.URL.Query().Get("secret"))
		ml.mu.Unlock()

		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer c.Close()
		first := conns.Add(1) == 1

		received := 0
		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				return
			}

			var env streaming.Envelope
			if err := json.Unmarshal(msg, &env); err != nil {
				continue
			}
			ml.add(env)
			received++

			if env.Type == streaming.TypeStartSession || env.Type == streaming.TypeEndSession {
				data, _ := json.Marshal(streaming.AckMessage{Type: streaming.TypeAck, For: env.Type})
				if err := c.WriteMessage(ws.TextMessage, data); err != nil {
					return
				}
			}

			if first && dropAfter > 0 && received >= dropAfter {
				return
			}
		}
	}))

	return srv, ml
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func testInfo() *core.SessionInfo {
	return &core.SessionInfo{
		UUID:        "4d9a",
		Environment: core.Environment{Name: "Moon", Gravity: 1.62},
		Vehicle:     core.Vehicle{Name: "Mini CubeSat", Mass: 1.3},
	}
}

func TestStartAndEndSession(t *testing.T) {
	srv, ml := testServer(t, 0)
	defer srv.Close()

	b := New(Config{URL: wsURL(srv), Secret: "test"}, nil)
	require.NoError(t, b.Init())
	defer b.Close()

	require.NoError(t, b.StartSession(testInfo()))
	require.NoError(t, b.EndSession())

	msgs := ml.all()
	require.Len(t, msgs, 2)
	assert.Equal(t, streaming.TypeStartSession, msgs[0].Type)
	assert.Equal(t, streaming.TypeEndSession, msgs[1].Type)

	var payload streaming.StartSessionPayload
	require.NoError(t, json.Unmarshal(msgs[0].Payload, &payload))
	assert.Equal(t, "Moon", payload.Session.Environment.Name)
	assert.Equal(t, []string{"test"}, ml.secrets)
}

func TestFireAndForgetMessages(t *testing.T) {
	srv, ml := testServer(t, 0)
	defer srv.Close()

	b := New(Config{URL: wsURL(srv), Secret: "s"}, nil)
	require.NoError(t, b.Init())
	defer b.Close()

	require.NoError(t, b.StartSession(testInfo()))
	require.NoError(t, b.RecordSnapshot(&core.StatusSnapshot{Tick: 1, Fuel: 100}))
	require.NoError(t, b.RecordSnapshot(&core.StatusSnapshot{Tick: 2, Fuel: 99}))
	require.NoError(t, b.RecordThrust(&core.ThrustCommand{Tick: 2, Intensity: 1}))
	require.NoError(t, b.EndSession())

	// end_session is acked only after everything before it was read
	assert.Equal(t, 1, ml.countType(streaming.TypeStartSession))
	assert.Equal(t, 2, ml.countType(streaming.TypeSnapshot))
	assert.Equal(t, 1, ml.countType(streaming.TypeThrust))
	assert.Equal(t, 1, ml.countType(streaming.TypeEndSession))
	assert.Zero(t, b.Dropped())
}

func TestReconnectReplaysStartSession(t *testing.T) {
	srv, ml := testServer(t, 2)
	defer srv.Close()

	b := New(Config{URL: wsURL(srv), Secret: "s"}, nil)
	b.conn.initialBackoff = 10 * time.Millisecond
	require.NoError(t, b.Init())
	defer b.Close()

	require.NoError(t, b.StartSession(testInfo()))
	require.NoError(t, b.RecordSnapshot(&core.StatusSnapshot{Tick: 1}))

	// the server drops the first connection after the snapshot
	assert.Eventually(t, func() bool {
		return ml.countType(streaming.TypeStartSession) == 2
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, b.RecordSnapshot(&core.StatusSnapshot{Tick: 2}))
	require.NoError(t, b.EndSession())
	assert.Equal(t, 2, ml.countType(streaming.TypeSnapshot))
}

func TestInit_DialFailure(t *testing.T) {
	b := New(Config{URL: "ws://127.0.0.1:1/api"}, nil)
	assert.Error(t, b.Init())
	assert.NoError(t, b.Close())
}

func TestInit_InvalidURL(t *testing.T) {
	b := New(Config{URL: "://bad"}, nil)
	err := b.Init()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid websocket URL")
}

func TestEndSession_TimesOutWithoutServer(t *testing.T) {
	b := New(Config{}, nil)
	require.NoError(t, b.Close())

	err := b.EndSession()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection closed")
}
