package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/protomem/shift-tracker/docs"

	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func (app *application) confiureSwagger() {
	docs.SwaggerInfo.Title = "Shift Tracker"
	docs.SwaggerInfo.Description = "Web API - Shift and presence tracking"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Host = fmtHTTPAddr("localhost", app.config.httpPort)
	docs.SwaggerInfo.BasePath = "/api/v1"
	docs.SwaggerInfo.Schemes = []string{"http"}
}

func (app *application) routes() http.Handler {
	mux := chi.NewRouter()

	mux.NotFound(app.notFound)
	mux.MethodNotAllowed(app.methodNotAllowed)

	mux.Use(app.traceID)
	mux.Use(app.logAccess)
	mux.Use(app.recoverPanic)

	mux.Use(app.CORS)

	mux.Route("/api/v1", func(mux chi.Router) {
		mux.Get("/status", app.handleStatus)

		mux.Group(func(mux chi.Router) {
			mux.Use(app.authenticate)

			mux.Post("/sessions/checkin", app.handleCheckIn)
			mux.Post("/sessions/checkout", app.handleCheckOut)
			mux.Post("/sessions/pause", app.handlePause)
			mux.Post("/sessions/resume", app.handleResume)
			mux.Get("/sessions/current", app.handleCurrentSession)
			mux.Get("/sessions/history", app.handleSessionHistory)
			mux.Post("/sessions/activities", app.handleStartActivity)
			mux.Post("/sessions/activities/end", app.handleEndActivities)

			mux.Post("/heartbeat", app.handleHeartbeat)

			mux.Route("/admin", func(mux chi.Router) {
				mux.Use(app.requireAdmin)

				mux.Get("/sessions/active", app.handleListActiveSessions)
				mux.Post("/sessions/{sessionId}/end", app.handleForceEndSession)
				mux.Post("/sessions/cleanup", app.handleCleanupOrphaned)
			})
		})
	})

	mux.Handle("/metrics", promhttp.Handler())

	mux.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(
			"http://"+fmtHTTPAddr("localhost", app.config.httpPort)+"/swagger/doc.json",
		), // The url pointing to API definition
	))

	app.logger.Debug("routes configured", "routes", chiRoutesToStrings(mux.Routes()))

	return mux
}

func chiRoutesToStrings(routes []chi.Route) []string {
	parsedRoutes := make([]string, 0, len(routes))
	for _, route := range routes {
		parsedRoutes = append(parsedRoutes, route.Pattern)
	}
	return parsedRoutes
}
