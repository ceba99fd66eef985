// hab/pkg/runtime/dashboard_test.go

package runtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"

	"smarthab/hab/pkg/store"
)

func TestNewDashboard(t *testing.T) {
	engine := NewEngine(store.NewMemoryStore())
	port := 8080
	updateInterval := time.Second

	dashboard := NewDashboard(engine, port, updateInterval)

	assert.NotNil(t, dashboard)
	assert.Equal(t, engine, dashboard.engine)
	assert.Equal(t, port, dashboard.port)
	assert.Equal(t, updateInterval, dashboard.updateInterval)
	assert.NotNil(t, dashboard.clients)
}

func TestWebSocketBroadcast(t *testing.T) {
	mem := store.NewMemoryStore()
	engine := NewEngine(mem)
	mem.SetDevice("temperature", 30)
	engine.ExecuteRules()

	dashboard := NewDashboard(engine, 0, 10*time.Millisecond)

	server := httptest.NewServer(http.HandlerFunc(dashboard.handleWebSocket))
	defer server.Close()

	go dashboard.broadcastUpdates()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	assert.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, message, err := conn.ReadMessage()
	assert.NoError(t, err)

	var stats EngineStats
	assert.NoError(t, json.Unmarshal(message, &stats))
	assert.Equal(t, 1, stats.Passes)
	assert.Len(t, stats.Devices, 7)
	assert.Len(t, stats.Rules, 3)
}

func TestHealthEndpoint(t *testing.T) {
	engine := NewEngine(store.NewMemoryStore())
	dashboard := NewDashboard(engine, 0, time.Second)

	req := httptest.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()
	dashboard.routes().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Server is running")
}

func TestClientRegistration(t *testing.T) {
	engine := NewEngine(store.NewMemoryStore())
	dashboard := NewDashboard(engine, 0, time.Second)

	server := httptest.NewServer(http.HandlerFunc(dashboard.handleWebSocket))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	assert.NoError(t, err)

	// Wait a short time for the handler to register the client.
	time.Sleep(50 * time.Millisecond)

	dashboard.clientsMutex.Lock()
	assert.Equal(t, 1, len(dashboard.clients))
	dashboard.clientsMutex.Unlock()

	conn.Close()
	time.Sleep(50 * time.Millisecond)

	dashboard.clientsMutex.Lock()
	assert.Equal(t, 0, len(dashboard.clients))
	dashboard.clientsMutex.Unlock()
}
