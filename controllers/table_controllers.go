package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lasazonmanaba/ordering-app/store"
	"github.com/lasazonmanaba/ordering-app/utils"
)

type TableController struct {
	Store *store.Store
}

func NewTableController(st *store.Store) *TableController {
	return &TableController{Store: st}
}

func parseTableID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("table_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return 0, false
	}
	return uint(id), true
}

// GetAllTables -> the floor map, every table with its status.
func (tc *TableController) GetAllTables(c *gin.Context) {
	tables, err := tc.Store.ListTables()
	if err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

func (tc *TableController) GetTableByID(c *gin.Context) {
	id, ok := parseTableID(c)
	if !ok {
		return
	}
	table, err := tc.Store.GetTable(id)
	if err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// ActivateTable brings an out-of-service table back to available.
func (tc *TableController) ActivateTable(c *gin.Context) {
	id, ok := parseTableID(c)
	if !ok {
		return
	}
	table, err := tc.Store.ActivateTable(id)
	if err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}
	utils.InfoLogger.Printf("Table %d activated", table.ID)
	utils.RespondJSON(c, http.StatusOK, "Table activated", table)
}

// DeactivateTable takes the table out of service. A seated session is ended
// downstream via the table event.
func (tc *TableController) DeactivateTable(c *gin.Context) {
	id, ok := parseTableID(c)
	if !ok {
		return
	}
	table, err := tc.Store.DeactivateTable(id)
	if err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}
	utils.InfoLogger.Printf("Table %d deactivated", table.ID)
	utils.RespondJSON(c, http.StatusOK, "Table deactivated", table)
}

// FreeTable releases an occupied table without touching its orders. Staff
// use it when the customer walked out after settling.
func (tc *TableController) FreeTable(c *gin.Context) {
	id, ok := parseTableID(c)
	if !ok {
		return
	}
	table, err := tc.Store.FreeTable(id)
	if err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}
	utils.InfoLogger.Printf("Table %d freed by staff", table.ID)
	utils.RespondJSON(c, http.StatusOK, "Table freed", table)
}

// ResetTable cancels the table's active orders and frees it.
func (tc *TableController) ResetTable(c *gin.Context) {
	id, ok := parseTableID(c)
	if !ok {
		return
	}
	table, err := tc.Store.ResetTable(id)
	if err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}
	utils.InfoLogger.Printf("Table %d reset by staff", table.ID)
	utils.RespondJSON(c, http.StatusOK, "Table reset", table)
}
