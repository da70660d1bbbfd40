package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/internal/apperrors"
	"github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/internal/chat"
	"github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/internal/forecast"
)

type chatRequest struct {
	Message string `json:"message" binding:"required"`
	Units   string `json:"units"`
}

// handleV1Chat answers the page widget with a canned reply
// POST /api/v1/chat
func (s *Server) handleV1Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.ValidationFailed("invalid chat request", err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"reply": chat.CannedReply(req.Message)},
	})
}

// handleV1ChatWeather answers with live current conditions for the city in the message
// POST /api/v1/chat/weather
func (s *Server) handleV1ChatWeather(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.ValidationFailed("invalid chat request", err.Error()))
		return
	}

	unit := s.controller.Unit()
	if req.Units != "" {
		parsed, err := forecast.ParseUnit(req.Units)
		if err != nil {
			_ = c.Error(err)
			return
		}
		unit = parsed
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"reply": chat.WeatherReply(c.Request.Context(), s.weather, req.Message, unit)},
		"meta": gin.H{"unit": unit},
	})
}
