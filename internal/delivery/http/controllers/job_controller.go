package controllers

import (
	"log/slog"
	"net/http"

	"eventplanner/internal/delivery/http/helpers"
	"eventplanner/internal/domain"
)

// Pinger checks liveness of every registered push connection.
type Pinger interface {
	PingAll() int
}

// SweepSuccessResponse is the success response envelope for job endpoints.
type SweepSuccessResponse struct {
	Data  *domain.SweepReport `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// JobController exposes the scheduled-job endpoints. They are guarded by
// a shared job token, not a user session; the external scheduler calls them.
type JobController struct {
	Logger    *slog.Logger
	Reminders domain.ReminderService
	Pinger    Pinger
}

func NewJobController(logger *slog.Logger, reminders domain.ReminderService, pinger Pinger) *JobController {
	return &JobController{
		Logger:    logger,
		Reminders: reminders,
		Pinger:    pinger,
	}
}

// Remind godoc
// @Summary Dispatch reminders for the current minute
// @Description Pushes a reminder to each subscriber of every event starting in the current minute window.
// @Tags jobs
// @Produce json
// @Param X-Job-Token header string true "Shared job token"
// @Success 200 {object} controllers.SweepSuccessResponse "data contains the sweep report"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /jobs/remind [post]
func (c *JobController) Remind(w http.ResponseWriter, r *http.Request) {
	report, err := c.Reminders.RemindUpcoming(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "reminder sweep failed", "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal server error")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, report)
}

// RemindAll godoc
// @Summary Dispatch reminders for every event
// @Description Pushes a reminder to each subscriber of every stored event regardless of start date. Intended for manual testing of the push path.
// @Tags jobs
// @Produce json
// @Param X-Job-Token header string true "Shared job token"
// @Success 200 {object} controllers.SweepSuccessResponse "data contains the sweep report"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /jobs/remind-all [post]
func (c *JobController) RemindAll(w http.ResponseWriter, r *http.Request) {
	report, err := c.Reminders.RemindAll(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "reminder sweep failed", "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal server error")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, report)
}

// Ping godoc
// @Summary Ping all live connections
// @Description Sends a ping frame over every registered push connection and drops the dead ones.
// @Tags jobs
// @Produce json
// @Param X-Job-Token header string true "Shared job token"
// @Success 200 {object} helpers.APIResponse "data contains the live connection count"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /jobs/ping [post]
func (c *JobController) Ping(w http.ResponseWriter, r *http.Request) {
	alive := c.Pinger.PingAll()
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]int{"connections": alive})
}
