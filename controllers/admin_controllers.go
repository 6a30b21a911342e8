package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/lasazonmanaba/ordering-app/config"
	"github.com/lasazonmanaba/ordering-app/store"
	"github.com/lasazonmanaba/ordering-app/utils"
)

var errBadCredentials = errors.New("invalid username or password")

type AdminController struct {
	Store *store.Store
	Cfg   *config.Config
}

func NewAdminController(st *store.Store, cfg *config.Config) *AdminController {
	return &AdminController{Store: st, Cfg: cfg}
}

// Login checks the staff credential and issues a 12-hour token.
func (ac *AdminController) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Username != ac.Cfg.AdminUsername {
		utils.RespondError(c, http.StatusUnauthorized, errBadCredentials)
		return
	}
	if err := bcrypt.CompareHashAndPassword(ac.Cfg.AdminPasswordHash, []byte(req.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errBadCredentials)
		return
	}

	token, err := utils.GenerateToken(req.Username, "admin")
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Admin %s logged in", req.Username)
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token": token,
		"role":  "admin",
	})
}

// Logout blacklists the presented token for the rest of its lifetime.
func (ac *AdminController) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("no token provided"))
		return
	}

	utils.BlacklistToken(tokenString)
	utils.InfoLogger.Printf("Admin %s logged out", c.GetString("username"))
	utils.RespondJSON(c, http.StatusOK, "Logout successful", nil)
}

// GetDashboardStats -> the admin panel summary.
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	if c.GetString("role") != "admin" {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	stats, err := ac.Store.GetDashboardStats()
	if err != nil {
		utils.RespondError(c, statusFor(err), err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats retrieved successfully", gin.H{
		"stats":         stats,
		"today_revenue": utils.FormatCurrency(stats.TodayRevenue),
	})
}
