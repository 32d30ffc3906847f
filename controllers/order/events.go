package orderControllers

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/ahmed50f/new-commerce/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

var (
	wsMu      sync.Mutex
	wsClients = make(map[*websocket.Conn]bool)
)

type wsEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// EventsWebSocketHandler streams settled orders and payment results to
// connected dashboards.
func EventsWebSocketHandler(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	wsMu.Lock()
	wsClients[conn] = true
	wsMu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			wsMu.Lock()
			delete(wsClients, conn)
			wsMu.Unlock()
			break
		}
	}
}

func broadcast(event wsEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	wsMu.Lock()
	defer wsMu.Unlock()
	for client := range wsClients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			client.Close()
			delete(wsClients, client)
		}
	}
}

// BroadcastOrderSettled pushes a freshly settled order to all listeners.
func BroadcastOrderSettled(order models.Order) {
	broadcast(wsEvent{Type: "order_settled", Payload: order})
}

// BroadcastPaymentResult pushes a transaction status change to all listeners.
func BroadcastPaymentResult(txn models.Transaction) {
	broadcast(wsEvent{Type: "payment_result", Payload: txn})
}
