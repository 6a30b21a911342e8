package store

import (
	"time"

	"github.com/lasazonmanaba/ordering-app/models"
)

// DashboardStats is the admin panel's at-a-glance summary.
type DashboardStats struct {
	TotalTables    int64   `json:"total_tables"`
	ActiveTables   int64   `json:"active_tables"`
	OccupiedTables int64   `json:"occupied_tables"`
	PendingOrders  int64   `json:"pending_orders"`
	ActiveOrders   int64   `json:"active_orders"`
	TodayRevenue   float64 `json:"today_revenue"`
}

// GetDashboardStats computes table occupancy, order load and today's
// completed revenue from history.
func (s *Store) GetDashboardStats() (*DashboardStats, error) {
	var stats DashboardStats

	if err := s.db.Model(&models.Table{}).Count(&stats.TotalTables).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Table{}).
		Where("status <> ?", models.TableInactive).
		Count(&stats.ActiveTables).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Table{}).
		Where("status = ?", models.TableOccupied).
		Count(&stats.OccupiedTables).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Order{}).
		Where("status = ?", models.OrderPending).
		Count(&stats.PendingOrders).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Order{}).
		Where("status IN ?", []string{models.OrderPending, models.OrderConfirmed, models.OrderPreparing}).
		Count(&stats.ActiveOrders).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	row := s.db.Model(&models.ArchivedOrder{}).
		Where("status = ? AND completed_at >= ?", models.OrderCompleted, midnight).
		Select("COALESCE(SUM(total), 0)").
		Row()
	if err := row.Scan(&stats.TodayRevenue); err != nil {
		return nil, err
	}
	return &stats, nil
}
