package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lasazonmanaba/ordering-app/store"
	"github.com/lasazonmanaba/ordering-app/utils"
)

type MenuController struct {
	Store *store.Store
}

func NewMenuController(st *store.Store) *MenuController {
	return &MenuController{Store: st}
}

// GetMenu -> the customer catalog, active dishes only.
func (mc *MenuController) GetMenu(c *gin.Context) {
	catalog, err := mc.Store.ListMenu(true)
	if err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu catalog", catalog)
}

// GetFullMenu -> the staff catalog including disabled dishes.
func (mc *MenuController) GetFullMenu(c *gin.Context) {
	catalog, err := mc.Store.ListMenu(false)
	if err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Full menu catalog", catalog)
}

func (mc *MenuController) GetMenuItem(c *gin.Context) {
	item, err := mc.Store.GetMenuItem(c.Param("item_id"))
	if err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item detail", item)
}

func (mc *MenuController) CreateMenuItem(c *gin.Context) {
	var input store.MenuItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item, err := mc.Store.AddMenuItem(input)
	if err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}
	utils.InfoLogger.Printf("New menu item created: %s (%s)", item.ID, item.Name)
	utils.RespondJSON(c, http.StatusCreated, "Menu item created", item)
}

func (mc *MenuController) UpdateMenuItem(c *gin.Context) {
	var update store.MenuItemUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item, err := mc.Store.UpdateMenuItem(c.Param("item_id"), update)
	if err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item updated", item)
}

// ToggleMenuItem flips availability without losing the record.
func (mc *MenuController) ToggleMenuItem(c *gin.Context) {
	item, err := mc.Store.ToggleMenuItem(c.Param("item_id"))
	if err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}
	utils.InfoLogger.Printf("Menu item %s active=%t", item.ID, item.Active)
	utils.RespondJSON(c, http.StatusOK, "Menu item toggled", item)
}

func (mc *MenuController) DeleteMenuItem(c *gin.Context) {
	id := c.Param("item_id")
	if err := mc.Store.DeleteMenuItem(id); err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}
	utils.InfoLogger.Printf("Menu item %s deleted", id)
	utils.RespondJSON(c, http.StatusOK, "Menu item deleted", gin.H{"id": id})
}
