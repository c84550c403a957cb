package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"eventrsvp/internal/delivery/http/helpers"
	"eventrsvp/internal/delivery/http/middleware"
	"eventrsvp/internal/domain"
)

// UpsertRsvpRequest is the request body for PUT /events/{eventID}/rsvp
type UpsertRsvpRequest struct {
	Rsvp string `json:"rsvp"`
}

// Validate implements Validator.
func (u UpsertRsvpRequest) Validate() []string {
	if strings.TrimSpace(u.Rsvp) == "" {
		return []string{"rsvp is required"}
	}
	if !domain.RSVPStatus(u.Rsvp).Valid() {
		return []string{"rsvp must be one of no_response, accepted, declined, maybe, failed_delivery"}
	}
	return nil
}

// RsvpController handles the authenticated direct RSVP endpoints.
type RsvpController struct {
	Logger  *slog.Logger
	Service domain.RSVPService
}

// NewRsvpController creates an RsvpController with the given logger and service.
func NewRsvpController(logger *slog.Logger, svc domain.RSVPService) *RsvpController {
	return &RsvpController{Logger: logger, Service: svc}
}

func (c *RsvpController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrExpired):
		helpers.WriteJSONError(w, http.StatusGone, helpers.ErrCodeGone, "the event has already started")
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "not found")
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}

// UpsertRsvp godoc
// @Summary Set my RSVP for an event
// @Description Creates or updates the caller's RSVP for the event. Requires Bearer token.
// @Tags rsvps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body UpsertRsvpRequest true "RSVP value"
// @Success 200 {object} helpers.APIResponse "data contains the guest record"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 410 {object} helpers.APIResponse "error.code: gone (event already started)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/rsvp [put]
func (c *RsvpController) UpsertRsvp(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	eventID := r.PathValue("eventID")
	var req UpsertRsvpRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	record, err := c.Service.UpsertRsvp(r.Context(), userID, eventID, domain.RSVPStatus(req.Rsvp))
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, record)
}

// CancelRsvp godoc
// @Summary Cancel my RSVP
// @Description Resets the caller's RSVP for the event to no_response. Requires Bearer token.
// @Tags rsvps
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the guest record"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/rsvp [delete]
func (c *RsvpController) CancelRsvp(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	eventID := r.PathValue("eventID")
	record, err := c.Service.CancelRsvp(r.Context(), userID, eventID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, record)
}

// GetRsvpStatus godoc
// @Summary Get my RSVP for an event
// @Description Returns the caller's RSVP value for the event. Requires Bearer token.
// @Tags rsvps
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the rsvp value"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/rsvp [get]
func (c *RsvpController) GetRsvpStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	eventID := r.PathValue("eventID")
	status, err := c.Service.GetRsvpStatus(r.Context(), userID, eventID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"rsvp": string(status)})
}

// ListMyRsvps godoc
// @Summary List my RSVPs
// @Description Returns all of the caller's guest records across events. Requires Bearer token.
// @Tags rsvps
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the guest records"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/me/rsvps [get]
func (c *RsvpController) ListMyRsvps(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	records, err := c.Service.ListUserRsvps(r.Context(), userID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	if records == nil {
		records = []*domain.GuestRecord{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, records)
}
