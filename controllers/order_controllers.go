package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lasazonmanaba/ordering-app/models"
	"github.com/lasazonmanaba/ordering-app/store"
	"github.com/lasazonmanaba/ordering-app/utils"
)

type OrderController struct {
	Store *store.Store
}

func NewOrderController(st *store.Store) *OrderController {
	return &OrderController{Store: st}
}

// GetAllOrders -> every active order, kitchen view.
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	var (
		orders []models.Order
		err    error
	)
	switch c.Query("filter") {
	case "pending":
		orders, err = oc.Store.ListPendingOrders()
	case "active":
		orders, err = oc.Store.ListActiveOrders()
	default:
		orders, err = oc.Store.ListOrders()
	}
	if err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetOrder resolves archived orders too, so a customer tab polling a
// finished order still sees its terminal status.
func (oc *OrderController) GetOrder(c *gin.Context) {
	order, err := oc.Store.FindOrder(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

func (oc *OrderController) GetTableOrders(c *gin.Context) {
	id, ok := parseTableID(c)
	if !ok {
		return
	}
	orders, err := oc.Store.ListTableOrders(id)
	if err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Orders for table", orders)
}

// updateStatus is the shared body of the transition endpoints.
func (oc *OrderController) updateStatus(c *gin.Context, status, message string) {
	order, err := oc.Store.UpdateOrderStatus(c.Param("order_id"), status)
	if err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}
	utils.InfoLogger.Printf("Order %s -> %s", order.ID, order.Status)
	utils.RespondJSON(c, http.StatusOK, message, order)
}

func (oc *OrderController) ConfirmOrder(c *gin.Context) {
	oc.updateStatus(c, models.OrderConfirmed, "Order confirmed")
}

func (oc *OrderController) StartPreparing(c *gin.Context) {
	oc.updateStatus(c, models.OrderPreparing, "Order in preparation")
}

func (oc *OrderController) MarkReady(c *gin.Context) {
	oc.updateStatus(c, models.OrderReady, "Order ready for pickup")
}

func (oc *OrderController) CompleteOrder(c *gin.Context) {
	oc.updateStatus(c, models.OrderCompleted, "Order completed")
}

// RejectOrder cancels a pending order from the staff side.
func (oc *OrderController) RejectOrder(c *gin.Context) {
	oc.updateStatus(c, models.OrderCancelled, "Order cancelled")
}

// UpdateOrderItems replaces the item list while the order is still pending.
func (oc *OrderController) UpdateOrderItems(c *gin.Context) {
	var req struct {
		Items []models.OrderLine `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Store.UpdateOrderItems(c.Param("order_id"), req.Items)
	if err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}
	utils.InfoLogger.Printf("Order %s items updated, new total %s", order.ID, utils.FormatCurrency(order.Total))
	utils.RespondJSON(c, http.StatusOK, "Order updated", order)
}

// DeleteOrder removes a pending order entirely (customer changed their mind
// before the kitchen saw it).
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	id := c.Param("order_id")
	if err := oc.Store.DeleteOrder(id); err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}
	utils.InfoLogger.Printf("Order %s deleted", id)
	utils.RespondJSON(c, http.StatusOK, "Order deleted", gin.H{"id": id})
}

// GetHistory -> completed and cancelled orders, newest first.
func (oc *OrderController) GetHistory(c *gin.Context) {
	history, err := oc.Store.ListHistory()
	if err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order history", history)
}
