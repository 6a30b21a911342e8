// Package hub is the push side of the sync relay: store mutations arrive on
// the event bus and fan out to connected browser tabs over websockets, so
// every tab tracks the authoritative state without re-reading it blindly.
package hub

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lasazonmanaba/ordering-app/events"
	"github.com/lasazonmanaba/ordering-app/models"
	"github.com/lasazonmanaba/ordering-app/store"
	"github.com/lasazonmanaba/ordering-app/utils"
)

// Event types pushed to clients
const (
	EventTableUpdate    = "table_update"
	EventMenuUpdate     = "menu_update"
	EventOrderUpdate    = "order_update"
	EventOrderReady     = "order_ready"
	EventSessionWarning = "session_warning"
	EventSessionExpired = "session_expired"
	EventSessionEnded   = "session_ended"
	EventStaffNotif     = "staff_notification"
)

const RoleAdmin = "admin"

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type client struct {
	id      string
	role    string
	tableID uint
	// notified dedups the one-shot ready notification per order id for the
	// lifetime of this connection.
	notified map[string]bool
}

type Hub struct {
	store *store.Store
	bus   *events.Bus

	mu      sync.Mutex
	clients map[*websocket.Conn]*client

	// ReadySweepInterval drives the periodic ready check that covers events
	// missed while a tab was disconnected or backgrounded.
	ReadySweepInterval time.Duration

	sub      *events.Subscription
	stopChan chan struct{}
	stopOnce sync.Once
}

func New(st *store.Store, bus *events.Bus) *Hub {
	return &Hub{
		store:              st,
		bus:                bus,
		clients:            make(map[*websocket.Conn]*client),
		ReadySweepInterval: 3 * time.Second,
		stopChan:           make(chan struct{}),
	}
}

// RegisterAdmin adds a staff dashboard connection.
func (h *Hub) RegisterAdmin(conn *websocket.Conn) {
	h.register(conn, RoleAdmin, 0)
}

// RegisterTable adds a customer tab viewing one table.
func (h *Hub) RegisterTable(conn *websocket.Conn, tableID uint) {
	h.register(conn, "customer", tableID)
}

func (h *Hub) register(conn *websocket.Conn, role string, tableID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = &client{
		id:       utils.NewReferenceID(),
		role:     role,
		tableID:  tableID,
		notified: make(map[string]bool),
	}
}

// Unregister drops the connection and closes it.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
	conn.Close()
}

// Run starts forwarding bus events and the ready sweep.
func (h *Hub) Run() {
	h.sub = h.bus.Subscribe(
		events.CollectionTables,
		events.CollectionMenu,
		events.CollectionOrders,
	)

	go func() {
		ticker := time.NewTicker(h.ReadySweepInterval)
		defer ticker.Stop()

		for {
			select {
			case ev, ok := <-h.sub.C:
				if !ok {
					return
				}
				h.handleEvent(ev)
			case <-ticker.C:
				h.readySweep()
			case <-h.stopChan:
				return
			}
		}
	}()
	utils.InfoLogger.Println("Sync relay started")
}

func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.stopChan)
		if h.sub != nil {
			h.bus.Unsubscribe(h.sub)
		}
	})
}

func (h *Hub) handleEvent(ev events.Event) {
	switch ev.Collection {
	case events.CollectionTables:
		h.broadcast(Message{Event: EventTableUpdate, Data: ev.Record})
	case events.CollectionMenu:
		h.broadcast(Message{Event: EventMenuUpdate, Data: ev.Record})
	case events.CollectionOrders:
		order, ok := ev.Record.(models.Order)
		if !ok {
			return
		}
		h.broadcastOrder(order)
	}
}

// broadcastOrder sends the update to staff and to the order's table, with a
// one-shot ready notification per connection.
func (h *Hub) broadcastOrder(order models.Order) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn, cl := range h.clients {
		if cl.role != RoleAdmin && cl.tableID != order.TableID {
			continue
		}
		h.send(conn, Message{Event: EventOrderUpdate, Data: order})

		if order.Status == models.OrderReady && cl.role != RoleAdmin && !cl.notified[order.ID] {
			cl.notified[order.ID] = true
			h.send(conn, Message{Event: EventOrderReady, Data: order})
		}
	}
}

// readySweep re-checks ready orders for every customer connection. A tab
// that reconnected after missing the push still gets exactly one ready
// notification per order.
func (h *Hub) readySweep() {
	h.mu.Lock()
	tables := make(map[uint]bool)
	for _, cl := range h.clients {
		if cl.tableID != 0 {
			tables[cl.tableID] = true
		}
	}
	h.mu.Unlock()

	for tableID := range tables {
		orders, err := h.store.ListTableOrders(tableID)
		if err != nil {
			utils.ErrorLogger.Printf("Ready sweep: listing orders for table %d: %v", tableID, err)
			continue
		}
		for _, order := range orders {
			if order.Status != models.OrderReady {
				continue
			}
			h.mu.Lock()
			for conn, cl := range h.clients {
				if cl.tableID == order.TableID && !cl.notified[order.ID] {
					cl.notified[order.ID] = true
					h.send(conn, Message{Event: EventOrderReady, Data: order})
				}
			}
			h.mu.Unlock()
		}
	}
}

// NotifyTable pushes a message to every connection seated at the table.
func (h *Hub) NotifyTable(tableID uint, msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, cl := range h.clients {
		if cl.tableID == tableID {
			h.send(conn, msg)
		}
	}
}

// BroadcastStaffNotification pushes a plain text notice to admin clients.
func (h *Hub) BroadcastStaffNotification(text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, cl := range h.clients {
		if cl.role == RoleAdmin {
			h.send(conn, Message{Event: EventStaffNotif, Data: text})
		}
	}
}

func (h *Hub) broadcast(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		h.send(conn, msg)
	}
}

// send writes one message; callers hold h.mu.
func (h *Hub) send(conn *websocket.Conn, msg Message) {
	if err := conn.WriteJSON(msg); err != nil {
		utils.ErrorLogger.Printf("Error sending %s to client: %v", msg.Event, err)
	}
}
