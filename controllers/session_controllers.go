package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lasazonmanaba/ordering-app/session"
	"github.com/lasazonmanaba/ordering-app/store"
	"github.com/lasazonmanaba/ordering-app/utils"
)

var errSessionNotFound = errors.New("session not found or expired")

type SessionController struct {
	Store    *store.Store
	Sessions *session.Manager
}

func NewSessionController(st *store.Store, mgr *session.Manager) *SessionController {
	return &SessionController{Store: st, Sessions: mgr}
}

// touch refreshes activity after a cart mutation. A failed refresh only
// loses the idle-clock reset, never the mutation itself, so it is logged
// rather than returned.
func (sc *SessionController) touch(sess *session.Session) {
	if err := sc.Sessions.Touch(sess.ID); err != nil {
		utils.ErrorLogger.Printf("Error refreshing session %s activity: %v", sess.ID, err)
	}
}

func (sc *SessionController) lookup(c *gin.Context) (*session.Session, bool) {
	sess, ok := sc.Sessions.Get(c.Param("session_id"))
	if !ok {
		utils.RespondError(c, http.StatusNotFound, errSessionNotFound)
		return nil, false
	}
	return sess, true
}

// ClaimTable seats a customer: occupies the table and opens a session with
// an empty cart.
func (sc *SessionController) ClaimTable(c *gin.Context) {
	id, ok := parseTableID(c)
	if !ok {
		return
	}
	sess, err := sc.Sessions.Claim(id)
	if err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Table claimed", sess)
}

// Heartbeat refreshes the inactivity clock. The customer UI calls this on
// any interaction.
func (sc *SessionController) Heartbeat(c *gin.Context) {
	if err := sc.Sessions.Touch(c.Param("session_id")); err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Session refreshed", nil)
}

// LeaveTable ends the session explicitly and frees the table.
func (sc *SessionController) LeaveTable(c *gin.Context) {
	id := c.Param("session_id")
	if err := sc.Sessions.Leave(id); err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Session ended", gin.H{"id": id})
}

// SwitchTable moves the customer to another table. The cart does not follow.
func (sc *SessionController) SwitchTable(c *gin.Context) {
	var req struct {
		TableID uint `json:"table_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	sess, err := sc.Sessions.Switch(c.Param("session_id"), req.TableID)
	if err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Switched table", sess)
}

func cartPayload(sess *session.Session) gin.H {
	return gin.H{
		"items":      sess.Cart.Lines(),
		"total":      sess.Cart.Total(),
		"item_count": sess.Cart.ItemCount(),
	}
}

func (sc *SessionController) GetCart(c *gin.Context) {
	sess, ok := sc.lookup(c)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cart contents", cartPayload(sess))
}

// AddToCart adds an active dish to the session cart, merging with an
// existing line when the item and notes match.
func (sc *SessionController) AddToCart(c *gin.Context) {
	sess, ok := sc.lookup(c)
	if !ok {
		return
	}

	var req struct {
		ItemID   string `json:"item_id" binding:"required"`
		Quantity int    `json:"quantity"`
		Notes    string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	item, err := sc.Store.GetMenuItem(req.ItemID)
	if err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}
	if !item.Active {
		utils.RespondError(c, http.StatusConflict, errors.New("menu item is not available"))
		return
	}

	if !sess.Cart.AddItem(item, req.Quantity, req.Notes) {
		utils.RespondError(c, http.StatusBadRequest, store.ErrInvalidQuantity)
		return
	}
	sc.touch(sess)
	utils.RespondJSON(c, http.StatusOK, "Item added to cart", cartPayload(sess))
}

// UpdateCartItem sets a line's quantity; zero removes the line.
func (sc *SessionController) UpdateCartItem(c *gin.Context) {
	sess, ok := sc.lookup(c)
	if !ok {
		return
	}

	var req struct {
		ItemID   string `json:"item_id" binding:"required"`
		Quantity int    `json:"quantity"`
		Notes    string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if !sess.Cart.UpdateQuantity(req.ItemID, req.Notes, req.Quantity) {
		utils.RespondError(c, http.StatusNotFound, errors.New("item not in cart"))
		return
	}
	sc.touch(sess)
	utils.RespondJSON(c, http.StatusOK, "Cart updated", cartPayload(sess))
}

func (sc *SessionController) RemoveCartItem(c *gin.Context) {
	sess, ok := sc.lookup(c)
	if !ok {
		return
	}

	var req struct {
		ItemID string `json:"item_id" binding:"required"`
		Notes  string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if !sess.Cart.RemoveItem(req.ItemID, req.Notes) {
		utils.RespondError(c, http.StatusNotFound, errors.New("item not in cart"))
		return
	}
	sc.touch(sess)
	utils.RespondJSON(c, http.StatusOK, "Item removed from cart", cartPayload(sess))
}

func (sc *SessionController) ClearCart(c *gin.Context) {
	sess, ok := sc.lookup(c)
	if !ok {
		return
	}
	sess.Cart.Clear()
	sc.touch(sess)
	utils.RespondJSON(c, http.StatusOK, "Cart cleared", cartPayload(sess))
}

// Checkout turns the cart into a pending order. The cart is cleared only
// after the order is stored; on any failure it stays intact so the customer
// can retry.
func (sc *SessionController) Checkout(c *gin.Context) {
	sess, ok := sc.lookup(c)
	if !ok {
		return
	}

	if sess.Cart.IsEmpty() {
		utils.RespondError(c, http.StatusBadRequest, store.ErrEmptyOrder)
		return
	}

	order, err := sc.Store.CreateOrder(sess.TableID, sess.Cart.OrderLines(), sess.ID)
	if err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}

	sess.Cart.Clear()
	sc.touch(sess)
	utils.InfoLogger.Printf("Order %s placed from session %s, total %s", order.ID, sess.ID, utils.FormatCurrency(order.Total))
	utils.RespondJSON(c, http.StatusCreated, "Order placed", order)
}
