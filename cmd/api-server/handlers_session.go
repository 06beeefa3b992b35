package main

import (
	"net/http"
	"time"

	"github.com/protomem/shift-tracker/internal/ctxstore"
	"github.com/protomem/shift-tracker/internal/model"
	"github.com/protomem/shift-tracker/internal/response"
	"github.com/protomem/shift-tracker/internal/tracking"
	"github.com/protomem/shift-tracker/internal/validator"

	"github.com/protomem/shift-tracker/internal/request"
)

// Handle Check In
// @Summary Check In
// @Description Open a new work session for the authenticated user
// @Tags sessions
// @Accept json
// @Produce json
// @Param input body main.requestCheckIn false "Optional session date and notes"
// @Success 201 {object} tracking.CheckInResult
// @Failure 400 {object} any "Bad request input"
// @Failure 401 {object} any "Missing actor identity"
// @Failure 409 {object} any "Session already active"
// @Failure 422 {object} validator.Validator "Invalid input data"
// @Failure 500 {object} any "Internal server error"
// @Router /sessions/checkin [post]
func (app *application) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.logger.With(
		_traceIDKey.String(), ctxstore.MustFrom[string](ctx, _traceIDKey),
	)

	var input requestCheckIn
	if hasJSONBody(r) {
		if err := request.DecodeJSONStrict(w, r, &input); err != nil {
			app.badRequest(w, r, err)
			return
		}
	}

	var v validator.Validator

	var date *time.Time
	if input.Date != nil {
		parsed, err := time.Parse(_dateLayout, *input.Date)
		if err != nil {
			v.AddFieldError("date", "must be a valid date in the form YYYY-MM-DD")
		} else {
			date = &parsed
		}
	}
	if input.Notes != nil {
		validateNotes(&v, *input.Notes)
	}

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	result, err := app.sessions.CheckIn(ctx, actorFromRequest(r), date, input.Notes)
	if err != nil {
		app.trackingError(w, r, err)
		return
	}

	app.metrics.CheckIns.Inc()
	app.metrics.ActiveSessions.Inc()

	logger.Debug("check-in accepted", "sessionId", result.SessionID)

	if err := response.JSON(w, http.StatusCreated, result); err != nil {
		app.serverError(w, r, err)
	}
}

type requestCheckIn struct {
	Date  *string `json:"date"`
	Notes *string `json:"notes"`
}

// Handle Check Out
// @Summary Check Out
// @Description Close the authenticated user's active work session
// @Tags sessions
// @Produce json
// @Success 200 {object} tracking.CheckOutResult
// @Failure 401 {object} any "Missing actor identity"
// @Failure 404 {object} any "No active session"
// @Failure 500 {object} any "Internal server error"
// @Router /sessions/checkout [post]
func (app *application) handleCheckOut(w http.ResponseWriter, r *http.Request) {
	result, err := app.sessions.CheckOut(r.Context(), actorFromRequest(r))
	if err != nil {
		app.trackingError(w, r, err)
		return
	}

	app.metrics.CheckOuts.Inc()
	app.metrics.ActiveSessions.Dec()

	if err := response.JSON(w, http.StatusOK, result); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Pause
// @Summary Pause Session
// @Description Suspend the authenticated user's active work session
// @Tags sessions
// @Accept json
// @Produce json
// @Param input body main.requestPause false "Optional pause reason"
// @Success 201 {object} tracking.PauseResult
// @Failure 400 {object} any "Bad request input"
// @Failure 409 {object} any "No active session or already paused"
// @Failure 422 {object} validator.Validator "Invalid input data"
// @Failure 500 {object} any "Internal server error"
// @Router /sessions/pause [post]
func (app *application) handlePause(w http.ResponseWriter, r *http.Request) {
	var input requestPause
	if hasJSONBody(r) {
		if err := request.DecodeJSONStrict(w, r, &input); err != nil {
			app.badRequest(w, r, err)
			return
		}
	}

	reason := model.PauseReasonBreak
	if input.Reason != nil {
		reason = model.PauseReason(*input.Reason)
	}

	var v validator.Validator
	validatePauseReason(&v, reason)

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	result, err := app.sessions.Pause(r.Context(), actorFromRequest(r), reason)
	if err != nil {
		app.trackingError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusCreated, result); err != nil {
		app.serverError(w, r, err)
	}
}

type requestPause struct {
	Reason *string `json:"reason"`
}

// Handle Resume
// @Summary Resume Session
// @Description Close the active pause on the authenticated user's session
// @Tags sessions
// @Produce json
// @Success 200 {object} tracking.ResumeResult
// @Failure 404 {object} any "No active pause"
// @Failure 500 {object} any "Internal server error"
// @Router /sessions/resume [post]
func (app *application) handleResume(w http.ResponseWriter, r *http.Request) {
	result, err := app.sessions.Resume(r.Context(), actorFromRequest(r))
	if err != nil {
		app.trackingError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, result); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Current Session
// @Summary Current Session
// @Description Live view of the authenticated user's active session
// @Tags sessions
// @Produce json
// @Success 200 {object} main.responseCurrentSession
// @Failure 500 {object} any "Internal server error"
// @Router /sessions/current [get]
func (app *application) handleCurrentSession(w http.ResponseWriter, r *http.Request) {
	current, err := app.sessions.Current(r.Context(), actorFromRequest(r))
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, responseCurrentSession{Session: current}); err != nil {
		app.serverError(w, r, err)
	}
}

type responseCurrentSession struct {
	Session *tracking.CurrentSession `json:"session"`
}

// Handle Session History
// @Summary Session History
// @Description Closed and open sessions with their pauses, newest first
// @Tags sessions
// @Produce json
// @Param from query string false "Window start"
// @Param to query string false "Window end"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} tracking.HistoryEntry
// @Failure 400 {object} any "Bad request input"
// @Failure 422 {object} validator.Validator "Invalid input data"
// @Failure 500 {object} any "Internal server error"
// @Router /sessions/history [get]
func (app *application) handleSessionHistory(w http.ResponseWriter, r *http.Request) {
	from, ok, err := timeQueryParams(r, "from")
	if err != nil {
		app.badRequest(w, r, err)
		return
	}
	if !ok {
		from = time.Time{}
	}

	to, ok, err := timeQueryParams(r, "to")
	if err != nil {
		app.badRequest(w, r, err)
		return
	}
	if !ok {
		to = time.Now().Add(24 * time.Hour)
	}

	limit := defaultIntQueryParams(r, "limit", 50)
	offset := defaultIntQueryParams(r, "offset", 0)

	var v validator.Validator
	validateHistoryWindow(&v, limit, offset)

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	entries, err := app.sessions.History(r.Context(), actorFromRequest(r), from, to, limit, offset)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, entries); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Start Activity
// @Summary Start Activity
// @Description Open an annotation inside the active session
// @Tags sessions
// @Accept json
// @Produce json
// @Param input body main.requestStartActivity true "Activity kind and optional project/note"
// @Success 201 {object} tracking.StartActivityResult
// @Failure 400 {object} any "Bad request input"
// @Failure 409 {object} any "No active session"
// @Failure 422 {object} validator.Validator "Invalid input data"
// @Failure 500 {object} any "Internal server error"
// @Router /sessions/activities [post]
func (app *application) handleStartActivity(w http.ResponseWriter, r *http.Request) {
	var input requestStartActivity
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	kind := model.ActivityKind(input.Kind)

	var v validator.Validator
	validateActivityKind(&v, kind)
	if input.Note != nil {
		validateNotes(&v, *input.Note)
	}

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	result, err := app.sessions.StartActivity(r.Context(), actorFromRequest(r), kind, input.Project, input.Note)
	if err != nil {
		app.trackingError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusCreated, result); err != nil {
		app.serverError(w, r, err)
	}
}

type requestStartActivity struct {
	Kind    string    `json:"kind"`
	Project *model.ID `json:"projectId"`
	Note    *string   `json:"note"`
}

// Handle End Activities
// @Summary End Activities
// @Description Close every open annotation on the active session
// @Tags sessions
// @Produce json
// @Success 200 {object} map[string]int
// @Failure 404 {object} any "No active session"
// @Failure 500 {object} any "Internal server error"
// @Router /sessions/activities/end [post]
func (app *application) handleEndActivities(w http.ResponseWriter, r *http.Request) {
	closed, err := app.sessions.EndActivities(r.Context(), actorFromRequest(r))
	if err != nil {
		app.trackingError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"closed": closed}); err != nil {
		app.serverError(w, r, err)
	}
}
