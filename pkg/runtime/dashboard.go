// hab/pkg/runtime/dashboard.go

package runtime

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"smarthab/hab/pkg/logging"
)

// Dashboard pushes engine stats to websocket clients on an interval.
// It only ever reads the stats copy; it never drives the engine.
type Dashboard struct {
	engine         *Engine
	port           int
	clients        map[*websocket.Conn]bool
	clientsMutex   sync.Mutex
	updateInterval time.Duration
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for now. In production, this should be more restrictive.
	},
}

func NewDashboard(engine *Engine, port int, updateInterval time.Duration) *Dashboard {
	return &Dashboard{
		engine:         engine,
		port:           port,
		clients:        make(map[*websocket.Conn]bool),
		updateInterval: updateInterval,
	}
}

func (d *Dashboard) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "Server is running")
	})

	mux.HandleFunc("/events", d.handleWebSocket)
	return mux
}

// Start serves the dashboard endpoints and blocks until the listener
// fails. Run it on its own goroutine.
func (d *Dashboard) Start() error {
	mux := d.routes()

	go d.broadcastUpdates()

	addr := fmt.Sprintf(":%d", d.port)
	logging.Logger.Info().Str("addr", addr).Msg("Dashboard starting")
	return http.ListenAndServe(addr, mux)
}

func (d *Dashboard) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Logger.Error().Err(err).Msg("Error upgrading to WebSocket")
		return
	}
	defer conn.Close()

	logging.Logger.Debug().Str("client", conn.RemoteAddr().String()).Msg("Dashboard client connected")

	d.clientsMutex.Lock()
	d.clients[conn] = true
	d.clientsMutex.Unlock()

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			break
		}
	}

	d.clientsMutex.Lock()
	delete(d.clients, conn)
	d.clientsMutex.Unlock()

	logging.Logger.Debug().Str("client", conn.RemoteAddr().String()).Msg("Dashboard client disconnected")
}

func (d *Dashboard) broadcastUpdates() {
	ticker := time.NewTicker(d.updateInterval)
	defer ticker.Stop()

	for range ticker.C {
		stats := d.engine.GetStats()
		message, err := json.Marshal(stats)
		if err != nil {
			logging.Logger.Error().Err(err).Msg("Error marshaling stats")
			continue
		}

		d.clientsMutex.Lock()
		for client := range d.clients {
			err := client.WriteMessage(websocket.TextMessage, message)
			if err != nil {
				logging.Logger.Error().Err(err).Msg("Error sending message to client")
				client.Close()
				delete(d.clients, client)
			}
		}
		d.clientsMutex.Unlock()
	}
}
