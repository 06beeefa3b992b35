package main

import (
	"net/http"

	"github.com/protomem/shift-tracker/internal/response"
)

// Handle Heartbeat
// @Summary Heartbeat
// @Description Record a liveness ping; always acknowledged
// @Tags heartbeat
// @Produce json
// @Success 202 {object} map[string]string
// @Failure 401 {object} any "Missing actor identity"
// @Router /heartbeat [post]
func (app *application) handleHeartbeat(w http.ResponseWriter, r *http.Request) {
	// Bookkeeping is best-effort inside the tracker; the only contract
	// here is the acknowledgement.
	seen := app.heartbeats.Heartbeat(r.Context(), actorFromRequest(r))

	app.metrics.Heartbeats.Inc()

	err := response.JSON(w, http.StatusAccepted, response.JSONObject{
		"status": "acknowledged",
		"seenAt": seen,
	})
	if err != nil {
		app.serverError(w, r, err)
	}
}
