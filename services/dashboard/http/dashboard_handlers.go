package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/internal/apperrors"
	"github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/internal/dashboard"
	"github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/internal/forecast"
	"github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/internal/logger"
	"github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/internal/render"
)

const (
	alertSearchFailed = "City not found or API error"
	alertInvalidUnit  = "Unknown unit system"
	alertInvalidCoord = "Invalid coordinates"
)

// handleDashboard renders the page, loading the initial forecast on first visit.
// GET /?day=N
func (s *Server) handleDashboard(c *gin.Context) {
	if err := s.controller.EnsureLoaded(c.Request.Context()); err != nil {
		logger.GetLogger().Warnw("Initial forecast load failed", "error", err)
	}

	opts := render.PageOptions{}
	if dayStr := c.Query("day"); dayStr != "" {
		if day, err := strconv.Atoi(dayStr); err == nil {
			opts.Day = &day
		}
	}
	s.renderPage(c, http.StatusOK, opts)
}

// handleSearch loads a city typed into the search box.
// POST /search (form: city)
func (s *Server) handleSearch(c *gin.Context) {
	city := c.PostForm("city")

	err := s.controller.Search(c.Request.Context(), city)
	switch {
	case err == nil, errors.Is(err, dashboard.ErrEmptyQuery):
		c.Redirect(http.StatusSeeOther, "/")
	default:
		s.renderPage(c, apperrors.StatusOf(err), render.PageOptions{
			Alert: alertSearchFailed,
			Query: strings.TrimSpace(city),
		})
	}
}

// handleUnit switches between metric and imperial and reloads the displayed city.
// POST /unit (form: units)
func (s *Server) handleUnit(c *gin.Context) {
	unit, err := forecast.ParseUnit(c.PostForm("units"))
	if err != nil {
		s.renderPage(c, http.StatusBadRequest, render.PageOptions{Alert: alertInvalidUnit})
		return
	}

	s.controller.ChangeUnit(c.Request.Context(), unit)
	c.Redirect(http.StatusSeeOther, "/")
}

// handleLocate loads the forecast for coordinates reported by the browser.
// POST /locate (form: lat, lon)
func (s *Server) handleLocate(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.PostForm("lat"), 64)
	lon, lonErr := strconv.ParseFloat(c.PostForm("lon"), 64)
	if latErr != nil || lonErr != nil || !validCoords(lat, lon) {
		s.renderPage(c, http.StatusBadRequest, render.PageOptions{Alert: alertInvalidCoord})
		return
	}

	if err := s.controller.LocateAt(c.Request.Context(), lat, lon); err != nil {
		logger.GetLogger().Warnw("Locate failed", "lat", lat, "lon", lon, "error", err)
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) renderPage(c *gin.Context, status int, opts render.PageOptions) {
	opts.Unit = s.controller.Unit()
	opts.IconBase = s.cfg.IconBaseURL
	opts.GeoMaxAge = s.cfg.GeoMaxAge
	opts.GeoTimeout = s.cfg.GeoTimeout

	c.HTML(status, render.TemplatePage, render.Page(s.controller.Snapshot(), opts))
}

func validCoords(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
