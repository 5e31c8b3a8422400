package live

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"testhub/internal/modules/attempts"
)

// wsPair opens a real websocket and returns both ends.
func wsPair(t *testing.T) (serverConn, clientConn *websocket.Conn) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	accepted := make(chan *websocket.Conn, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		accepted <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	clientConn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = clientConn.Close() })

	select {
	case serverConn = <-accepted:
	case <-time.After(2 * time.Second):
		t.Fatal("websocket upgrade timed out")
	}
	return serverConn, clientConn
}

func TestHub_NotifyReachesWatcher(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	serverConn, clientConn := wsPair(t)
	hub.Register(7, serverConn)

	hub.NotifyLeaderboard(7, []attempts.LeaderboardEntry{
		{AttemptID: 1, DisplayName: "Alice", Score: 100},
	})

	require.NoError(t, clientConn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var msg map[string]interface{}
	require.NoError(t, clientConn.ReadJSON(&msg))

	assert.Equal(t, "leaderboard", msg["type"])
	assert.Equal(t, float64(7), msg["test_id"])
	entries := msg["leaderboard"].([]interface{})
	require.Len(t, entries, 1)
	assert.Equal(t, "Alice", entries[0].(map[string]interface{})["display_name"])
}

func TestHub_NotifyIsScopedPerTest(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	serverConn, clientConn := wsPair(t)
	hub.Register(1, serverConn)

	hub.NotifyLeaderboard(2, []attempts.LeaderboardEntry{
		{AttemptID: 9, DisplayName: "Elsewhere", Score: 50},
	})

	require.NoError(t, clientConn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))

	var msg map[string]interface{}
	err := clientConn.ReadJSON(&msg)
	assert.Error(t, err, "watcher of test 1 must not see test 2 updates")
}

func TestHub_Unregister(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	serverConn, _ := wsPair(t)
	hub.Register(3, serverConn)
	require.Equal(t, 1, hub.WatcherCount(3))

	hub.Unregister(3, serverConn)
	assert.Equal(t, 0, hub.WatcherCount(3))
}

func TestHub_DropsDeadConnOnWrite(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	serverConn, _ := wsPair(t)
	hub.Register(4, serverConn)
	require.NoError(t, serverConn.Close())

	hub.NotifyLeaderboard(4, []attempts.LeaderboardEntry{
		{AttemptID: 2, DisplayName: "Bob", Score: 80},
	})

	assert.Equal(t, 0, hub.WatcherCount(4))
}

func TestHub_NotifyWithoutWatchers(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	hub.NotifyLeaderboard(42, nil)
	assert.Equal(t, 0, hub.WatcherCount(42))
}
