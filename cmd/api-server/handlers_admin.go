package main

import (
	"net/http"
	"time"

	"github.com/protomem/shift-tracker/internal/request"
	"github.com/protomem/shift-tracker/internal/response"
	"github.com/protomem/shift-tracker/internal/validator"
)

// Handle List Active Sessions
// @Summary List Active Sessions
// @Description All currently-active work and activity sessions across users
// @Tags admin
// @Produce json
// @Success 200 {object} tracking.ActiveOverview
// @Failure 403 {object} any "Not an admin"
// @Failure 500 {object} any "Internal server error"
// @Router /admin/sessions/active [get]
func (app *application) handleListActiveSessions(w http.ResponseWriter, r *http.Request) {
	overview, err := app.overseer.ListActive(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	app.metrics.ActiveSessions.Set(float64(len(overview.WorkSessions)))

	if err := response.JSON(w, http.StatusOK, overview); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Force End Session
// @Summary Force End Session
// @Description Close a specific work session on behalf of its owner
// @Tags admin
// @Produce json
// @Param sessionId path int true "Session ID"
// @Success 200 {object} tracking.CheckOutResult
// @Failure 400 {object} any "Bad request input"
// @Failure 403 {object} any "Not an admin"
// @Failure 404 {object} any "Unknown session"
// @Failure 409 {object} any "Session already closed"
// @Failure 500 {object} any "Internal server error"
// @Router /admin/sessions/{sessionId}/end [post]
func (app *application) handleForceEndSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionIDFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	result, err := app.overseer.ForceEnd(r.Context(), sessionID, actorFromRequest(r))
	if err != nil {
		app.trackingError(w, r, err)
		return
	}

	app.metrics.ForceEnds.Inc()
	app.metrics.ActiveSessions.Dec()

	if err := response.JSON(w, http.StatusOK, result); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Cleanup Orphaned
// @Summary Cleanup Orphaned Sessions
// @Description Close every session active longer than the threshold
// @Tags admin
// @Accept json
// @Produce json
// @Param input body main.requestCleanup false "Optional threshold override in hours"
// @Success 200 {object} map[string]int
// @Failure 400 {object} any "Bad request input"
// @Failure 403 {object} any "Not an admin"
// @Failure 422 {object} validator.Validator "Invalid input data"
// @Failure 500 {object} any "Internal server error"
// @Router /admin/sessions/cleanup [post]
func (app *application) handleCleanupOrphaned(w http.ResponseWriter, r *http.Request) {
	var input requestCleanup
	if hasJSONBody(r) {
		if err := request.DecodeJSONStrict(w, r, &input); err != nil {
			app.badRequest(w, r, err)
			return
		}
	}

	hours := app.config.tracking.cleanupThresholdHours
	if input.ThresholdHours != nil {
		hours = *input.ThresholdHours
	}

	var v validator.Validator
	validateCleanupThreshold(&v, hours)

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	closed, err := app.overseer.Cleanup(r.Context(), time.Duration(hours)*time.Hour, actorFromRequest(r))
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	app.metrics.CleanupsClosed.Add(float64(closed))

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"closed": closed}); err != nil {
		app.serverError(w, r, err)
	}
}

type requestCleanup struct {
	ThresholdHours *int `json:"thresholdHours"`
}
