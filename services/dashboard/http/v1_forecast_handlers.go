package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/internal/apperrors"
	"github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/internal/dashboard"
	"github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/internal/forecast"
)

// handleV1Forecast fetches, groups and summarizes a forecast without touching the
// page state.
// GET /api/v1/forecast?city=Berlin&units=metric
// GET /api/v1/forecast?lat=52.52&lon=13.40
func (s *Server) handleV1Forecast(c *gin.Context) {
	unit := s.cfg.DefaultUnits
	if unitStr := c.Query("units"); unitStr != "" {
		parsed, err := forecast.ParseUnit(unitStr)
		if err != nil {
			_ = c.Error(err)
			return
		}
		unit = parsed
	}

	ctx := c.Request.Context()
	city := strings.TrimSpace(c.Query("city"))
	latStr, lonStr := c.Query("lat"), c.Query("lon")

	var (
		fc  *forecast.Forecast
		err error
	)
	switch {
	case city != "":
		fc, err = s.weather.ForecastByCity(ctx, city, unit)
	case latStr != "" && lonStr != "":
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lon, lonErr := strconv.ParseFloat(lonStr, 64)
		if latErr != nil || lonErr != nil || !validCoords(lat, lon) {
			_ = c.Error(apperrors.ValidationFailed("invalid coordinates", "lat must be in [-90, 90] and lon in [-180, 180]"))
			return
		}
		fc, err = s.weather.ForecastByCoords(ctx, lat, lon, unit)
	default:
		_ = c.Error(apperrors.ValidationFailed("missing location", "provide city or both lat and lon"))
		return
	}
	if err != nil {
		_ = c.Error(err)
		return
	}

	snap := dashboard.NewSnapshot(fc, unit, s.now())
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"header":      snap.Header(),
			"city":        snap.City,
			"summaries":   snap.Summaries,
			"days":        snap.Days,
			"default_day": snap.DefaultDay,
			"buckets":     snap.Buckets,
		},
		"meta": gin.H{
			"unit":    unit,
			"entries": len(snap.Entries),
		},
	})
}
