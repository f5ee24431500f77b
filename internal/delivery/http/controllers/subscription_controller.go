package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"eventplanner/internal/delivery/http/helpers"
	"eventplanner/internal/delivery/http/middleware"
	"eventplanner/internal/domain"
)

const maxCommentLen = 500

// SubscribeRequest is the request body for POST /events/{eventID}/subscribe.
type SubscribeRequest struct {
	Comment *string `json:"comment,omitempty"`
}

// Validate implements Validator.
func (s SubscribeRequest) Validate() []string {
	var errs []string
	if s.Comment != nil && len(*s.Comment) > maxCommentLen {
		errs = append(errs, "comment must be at most 500 characters")
	}
	return errs
}

// SubscriptionSuccessResponse is the success response envelope for subscription endpoints.
type SubscriptionSuccessResponse struct {
	Data  *domain.Subscription `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// SubscriptionController handles event subscription endpoints.
type SubscriptionController struct {
	Logger  *slog.Logger
	Service domain.SubscriptionService
}

func NewSubscriptionController(logger *slog.Logger, svc domain.SubscriptionService) *SubscriptionController {
	return &SubscriptionController{
		Logger:  logger,
		Service: svc,
	}
}

// Subscribe godoc
// @Summary Subscribe to an event
// @Description Subscribes the authenticated user to an event. A user may hold at most three subscriptions, may not subscribe to their own event, and may not subscribe to the same event twice. Subscribing twice returns the existing subscription.
// @Tags subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param subscription body SubscribeRequest false "Optional comment"
// @Success 201 {object} controllers.SubscriptionSuccessResponse "data contains the created subscription"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} controllers.SubscriptionSuccessResponse "error.code: conflict, data contains the existing subscription"
// @Router /events/{eventID}/subscribe [post]
func (c *SubscriptionController) Subscribe(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req SubscribeRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	sub, err := c.Service.Subscribe(r.Context(), userID, eventID, req.Comment)
	if err != nil {
		c.writeError(w, r, sub, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, sub)
}

func (c *SubscriptionController) writeError(w http.ResponseWriter, r *http.Request, sub *domain.Subscription, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
	case errors.Is(err, domain.ErrAlreadySubscribed):
		// The existing subscription rides along so the client can show it.
		helpers.WriteJSONErrorWithData(w, http.StatusConflict, helpers.ErrCodeConflict, err.Error(), sub)
	case errors.Is(err, domain.ErrSelfSubscription),
		errors.Is(err, domain.ErrSubscriptionLimitExceeded):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal server error")
	}
}
