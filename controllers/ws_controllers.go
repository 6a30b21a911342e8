package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/lasazonmanaba/ordering-app/hub"
	"github.com/lasazonmanaba/ordering-app/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WSController struct {
	Hub *hub.Hub
}

func NewWSController(h *hub.Hub) *WSController {
	return &WSController{Hub: h}
}

// AdminSocket -> staff dashboard stream. Requires the websocket auth
// middleware to have set the role.
func (wc *WSController) AdminSocket(c *gin.Context) {
	if c.GetString("role") != "admin" {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("Websocket upgrade failed: %v", err)
		return
	}

	wc.Hub.RegisterAdmin(ws)
	wc.readLoop(ws)
}

// TableSocket -> customer stream scoped to one table.
func (wc *WSController) TableSocket(c *gin.Context) {
	id, ok := parseTableID(c)
	if !ok {
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("Websocket upgrade failed: %v", err)
		return
	}

	wc.Hub.RegisterTable(ws, id)
	wc.readLoop(ws)
}

// readLoop drains incoming frames until the peer disconnects, then drops
// the registration.
func (wc *WSController) readLoop(ws *websocket.Conn) {
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
	wc.Hub.Unregister(ws)
}
