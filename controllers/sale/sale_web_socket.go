package saleControllers

import (
	"encoding/json"
	"net/http"

	"github.com/bcastillo-2022474/sales-testing/models"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

var wsClients = make(map[*websocket.Conn]bool)

// GET /invoices/ws — live feed of completed sales for the admin dashboard.
func SaleWebSocketHandler(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	wsClients[conn] = true

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			delete(wsClients, conn)
			break
		}
	}
}

func broadcastNewSale(sale models.Sale) {
	data, err := json.Marshal(sale)
	if err != nil {
		return
	}
	for client := range wsClients {
		client.WriteMessage(websocket.TextMessage, data)
	}
}
