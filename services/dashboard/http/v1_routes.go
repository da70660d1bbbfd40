package http

// registerV1Routes sets up the JSON API.
// Groups: /api/v1/dashboard, /api/v1/forecast, /api/v1/chat
func (s *Server) registerV1Routes() {
	v1 := s.engine.Group("/api/v1")
	v1.Use(apiVersionMiddleware())
	v1.Use(errorResponder())

	// Dashboard endpoints - the state shown on the page
	board := v1.Group("/dashboard")
	{
		board.GET("", s.handleV1Dashboard)
		board.GET("/days/:day", s.handleV1DashboardDay)
	}

	// Stateless forecast lookup, does not touch the page state
	v1.GET("/forecast", s.handleV1Forecast)

	chat := v1.Group("/chat")
	{
		chat.POST("", s.handleV1Chat)
		chat.POST("/weather", s.handleV1ChatWeather)
	}
}
