package router

import (
	"github.com/gin-gonic/gin"

	"github.com/lasazonmanaba/ordering-app/config"
	"github.com/lasazonmanaba/ordering-app/controllers"
	"github.com/lasazonmanaba/ordering-app/hub"
	"github.com/lasazonmanaba/ordering-app/middlewares"
	"github.com/lasazonmanaba/ordering-app/session"
	"github.com/lasazonmanaba/ordering-app/store"
)

func SetupRouter(st *store.Store, sessions *session.Manager, h *hub.Hub, cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	tableCtrl := controllers.NewTableController(st)
	menuCtrl := controllers.NewMenuController(st)
	orderCtrl := controllers.NewOrderController(st)
	sessionCtrl := controllers.NewSessionController(st, sessions)
	adminCtrl := controllers.NewAdminController(st, cfg)
	wsCtrl := controllers.NewWSController(h)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Login is rate limited; everything else under /admin needs the token.
	login := r.Group("/")
	login.Use(middlewares.NewStrictRateLimiter())
	{
		login.POST("/login", adminCtrl.Login)
	}

	// ----------------------------------------------------------------
	//                      CUSTOMER ROUTES (no auth)
	// ----------------------------------------------------------------
	r.GET("/menu", menuCtrl.GetMenu)
	r.GET("/menu/:item_id", menuCtrl.GetMenuItem)

	r.GET("/tables", tableCtrl.GetAllTables)
	r.GET("/tables/:table_id", tableCtrl.GetTableByID)
	r.POST("/tables/:table_id/claim", sessionCtrl.ClaimTable)
	r.GET("/tables/:table_id/orders", orderCtrl.GetTableOrders)

	r.GET("/orders/:order_id", orderCtrl.GetOrder)
	r.PATCH("/orders/:order_id/items", orderCtrl.UpdateOrderItems)
	r.DELETE("/orders/:order_id", orderCtrl.DeleteOrder)

	sess := r.Group("/sessions/:session_id")
	{
		sess.POST("/heartbeat", sessionCtrl.Heartbeat)
		sess.POST("/leave", sessionCtrl.LeaveTable)
		sess.POST("/switch", sessionCtrl.SwitchTable)

		sess.GET("/cart", sessionCtrl.GetCart)
		sess.POST("/cart", sessionCtrl.AddToCart)
		sess.PATCH("/cart", sessionCtrl.UpdateCartItem)
		sess.DELETE("/cart/item", sessionCtrl.RemoveCartItem)
		sess.DELETE("/cart", sessionCtrl.ClearCart)
		sess.POST("/checkout", sessionCtrl.Checkout)
	}

	// Customer table stream; scoped by table, no token.
	r.GET("/ws/tables/:table_id", wsCtrl.TableSocket)

	// ----------------------------------------------------------------
	//                      ADMIN ROUTES
	// ----------------------------------------------------------------
	admin := r.Group("/admin")
	admin.Use(middlewares.AuthMiddleware())
	{
		admin.POST("/logout", adminCtrl.Logout)
		admin.GET("/stats", adminCtrl.GetDashboardStats)

		admin.GET("/orders", orderCtrl.GetAllOrders)
		admin.GET("/orders/history", orderCtrl.GetHistory)
		admin.POST("/orders/:order_id/confirm", orderCtrl.ConfirmOrder)
		admin.POST("/orders/:order_id/preparing", orderCtrl.StartPreparing)
		admin.POST("/orders/:order_id/ready", orderCtrl.MarkReady)
		admin.POST("/orders/:order_id/complete", orderCtrl.CompleteOrder)
		admin.POST("/orders/:order_id/reject", orderCtrl.RejectOrder)

		admin.POST("/tables/:table_id/activate", tableCtrl.ActivateTable)
		admin.POST("/tables/:table_id/deactivate", tableCtrl.DeactivateTable)
		admin.POST("/tables/:table_id/reset", tableCtrl.ResetTable)
		admin.POST("/tables/:table_id/free", tableCtrl.FreeTable)

		admin.GET("/menu", menuCtrl.GetFullMenu)
		admin.POST("/menu", menuCtrl.CreateMenuItem)
		admin.PATCH("/menu/:item_id", menuCtrl.UpdateMenuItem)
		admin.POST("/menu/:item_id/toggle", menuCtrl.ToggleMenuItem)
		admin.DELETE("/menu/:item_id", menuCtrl.DeleteMenuItem)
	}

	// Staff dashboard stream authenticates via query token.
	ws := r.Group("/ws")
	ws.Use(middlewares.WebSocketAuthMiddleware())
	{
		ws.GET("/admin", wsCtrl.AdminSocket)
	}

	return r
}
