package main

import (
	"github.com/gin-gonic/gin"

	"github.com/lasazonmanaba/ordering-app/config"
	"github.com/lasazonmanaba/ordering-app/events"
	"github.com/lasazonmanaba/ordering-app/hub"
	"github.com/lasazonmanaba/ordering-app/middlewares"
	"github.com/lasazonmanaba/ordering-app/models"
	"github.com/lasazonmanaba/ordering-app/router"
	"github.com/lasazonmanaba/ordering-app/session"
	"github.com/lasazonmanaba/ordering-app/store"
	"github.com/lasazonmanaba/ordering-app/utils"
	"github.com/lasazonmanaba/ordering-app/watch"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to load config: %v", err)
	}

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := cfg.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := store.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to migrate: %v", err)
	}

	bus := events.NewBus(utils.ErrorLogger)
	st := store.New(db, bus, cfg.SessionTimeout)

	if err := st.Seed(cfg.TableCount); err != nil {
		utils.ErrorLogger.Fatalf("Failed to seed: %v", err)
	}

	// Push layer: store events out to browser tabs.
	relay := hub.New(st, bus)
	relay.Run()
	defer relay.Stop()

	// Session lifecycle: inactivity sweep plus forced ends on deactivation.
	sessions := session.NewManager(st, bus)
	sessions.Timeout = cfg.SessionTimeout
	sessions.WarningAfter = cfg.WarningAfter
	sessions.OnWarning = func(s *session.Session) {
		relay.NotifyTable(s.TableID, hub.Message{Event: hub.EventSessionWarning, Data: s})
	}
	sessions.OnExpired = func(s *session.Session) {
		relay.NotifyTable(s.TableID, hub.Message{Event: hub.EventSessionExpired, Data: s})
	}
	sessions.OnEnded = func(s *session.Session) {
		relay.NotifyTable(s.TableID, hub.Message{Event: hub.EventSessionEnded, Data: s})
	}
	sessions.Start()
	defer sessions.Stop()

	// Server-side watchers back the customer order tracking view: each new
	// order gets a poller that pushes a staff notice when it lands.
	orderSub := bus.Subscribe(events.CollectionOrders)
	defer bus.Unsubscribe(orderSub)
	go watchNewOrders(st, relay, orderSub)

	r := router.SetupRouter(st, sessions, relay, cfg)
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())

	utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

// watchNewOrders attaches a status watcher to every created order so staff
// hear about completions even with no customer tab open.
func watchNewOrders(st *store.Store, relay *hub.Hub, sub *events.Subscription) {
	for ev := range sub.C {
		if ev.Action != events.ActionCreate {
			continue
		}
		order, ok := ev.Record.(models.Order)
		if !ok {
			continue
		}

		w := watch.New(st, order.ID)
		w.OnReady = func(o *models.Order) {
			relay.BroadcastStaffNotification("Order " + o.ID + " is ready for pickup")
		}
		w.Start()
	}
}
