package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/internal/apperrors"
	"github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/internal/forecast"
)

// handleV1Dashboard returns the snapshot currently shown on the page
// GET /api/v1/dashboard
func (s *Server) handleV1Dashboard(c *gin.Context) {
	snap := s.controller.Snapshot()
	if snap == nil {
		_ = c.Error(apperrors.NotFound("dashboard", "current"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"header":      snap.Header(),
			"city":        snap.City,
			"unit":        snap.Unit,
			"summaries":   snap.Summaries,
			"days":        snap.Days,
			"default_day": snap.DefaultDay,
			"buckets":     snap.Buckets,
		},
		"meta": gin.H{
			"entries":        len(snap.Entries),
			"loaded_at":      snap.LoadedAt,
			"preferred_unit": s.controller.Unit(),
		},
	})
}

// handleV1DashboardDay returns the hourly entries of one weekday
// GET /api/v1/dashboard/days/:day
func (s *Server) handleV1DashboardDay(c *gin.Context) {
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil || day < 0 || day > 6 {
		_ = c.Error(apperrors.ValidationFailed("invalid day", "day must be a weekday index from 0 (Sunday) to 6"))
		return
	}

	snap := s.controller.Snapshot()
	if snap == nil {
		_ = c.Error(apperrors.NotFound("dashboard", "current"))
		return
	}

	entries := snap.Hourly(day)
	hours := make([]string, 0, len(entries))
	for _, e := range entries {
		hours = append(hours, forecast.HourLabel(forecast.ToLocal(e.DT, snap.City.Timezone)))
	}

	c.JSON(http.StatusOK, gin.H{
		"data": entries,
		"meta": gin.H{
			"day":   day,
			"count": len(entries),
			"hours": hours,
		},
	})
}
