package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"eventrsvp/internal/delivery/http/helpers"
	"eventrsvp/internal/delivery/http/middleware"
	"eventrsvp/internal/domain"
)

// CreateSubEventRequest is the request body for POST /events/{eventID}/sub-events
type CreateSubEventRequest struct {
	Title         string    `json:"title"`
	Location      string    `json:"location"`
	Address       string    `json:"address"`
	StartsAt      time.Time `json:"starts_at"`
	EndsAt        time.Time `json:"ends_at"`
	InviteMessage string    `json:"invite_message"`
	Image         string    `json:"image"`
	GuestIDs      []string  `json:"guest_ids"`
}

// Validate implements Validator.
func (c CreateSubEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	if strings.TrimSpace(c.Location) == "" {
		errs = append(errs, "location is required")
	}
	if strings.TrimSpace(c.Address) == "" {
		errs = append(errs, "address is required")
	}
	if c.StartsAt.IsZero() {
		errs = append(errs, "starts_at is required")
	}
	if c.EndsAt.IsZero() {
		errs = append(errs, "ends_at is required")
	}
	if !c.StartsAt.IsZero() && !c.EndsAt.IsZero() && c.EndsAt.Before(c.StartsAt) {
		errs = append(errs, "ends_at must not precede starts_at")
	}
	return errs
}

// UpdateSubEventRequest is the request body for PATCH /sub-events/{subEventID}. All fields are optional.
type UpdateSubEventRequest struct {
	Title         *string    `json:"title"`
	Location      *string    `json:"location"`
	Address       *string    `json:"address"`
	StartsAt      *time.Time `json:"starts_at"`
	EndsAt        *time.Time `json:"ends_at"`
	InviteMessage *string    `json:"invite_message"`
	Image         *string    `json:"image"`
}

// Validate implements Validator.
func (u UpdateSubEventRequest) Validate() []string {
	var errs []string
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		errs = append(errs, "title cannot be empty")
	}
	if u.Location != nil && strings.TrimSpace(*u.Location) == "" {
		errs = append(errs, "location cannot be empty")
	}
	if u.Address != nil && strings.TrimSpace(*u.Address) == "" {
		errs = append(errs, "address cannot be empty")
	}
	return errs
}

// AddSubEventGuestRequest is the request body for POST /sub-events/{subEventID}/guests
type AddSubEventGuestRequest struct {
	GuestID string `json:"guest_id"`
}

// Validate implements Validator.
func (a AddSubEventGuestRequest) Validate() []string {
	if strings.TrimSpace(a.GuestID) == "" {
		return []string{"guest_id is required"}
	}
	return nil
}

// SubEventController handles sub-event endpoints.
type SubEventController struct {
	Logger  *slog.Logger
	Service domain.SubEventService
}

// NewSubEventController creates a SubEventController with the given logger and service.
func NewSubEventController(logger *slog.Logger, svc domain.SubEventService) *SubEventController {
	return &SubEventController{Logger: logger, Service: svc}
}

// CreateSubEvent godoc
// @Summary Create a sub-event
// @Description Creates an activity under the event, optionally assigning guest records to it. Caller must be host or co-host. Requires Bearer token.
// @Tags sub-events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body CreateSubEventRequest true "Sub-event details"
// @Success 201 {object} helpers.APIResponse "data contains the created sub-event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/sub-events [post]
func (c *SubEventController) CreateSubEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	eventID := r.PathValue("eventID")
	var req CreateSubEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	sub := &domain.SubEvent{
		EventID:       eventID,
		Title:         strings.TrimSpace(req.Title),
		Location:      strings.TrimSpace(req.Location),
		Address:       strings.TrimSpace(req.Address),
		StartsAt:      req.StartsAt,
		EndsAt:        req.EndsAt,
		InviteMessage: req.InviteMessage,
		Image:         req.Image,
	}
	if err := c.Service.CreateSubEvent(r.Context(), sub, req.GuestIDs, userID); err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "only the host or a co-host can create sub-events")
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event or guest not found")
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, sub)
}

// ListSubEvents godoc
// @Summary List an event's sub-events
// @Description Returns the event's sub-events ordered by start time. Requires Bearer token.
// @Tags sub-events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the sub-events"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/sub-events [get]
func (c *SubEventController) ListSubEvents(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	subs, err := c.Service.ListSubEvents(r.Context(), eventID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if subs == nil {
		subs = []*domain.SubEvent{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, subs)
}

// GetSubEvent godoc
// @Summary Get a sub-event
// @Description Returns one sub-event by ID. Requires Bearer token.
// @Tags sub-events
// @Produce json
// @Security BearerAuth
// @Param subEventID path string true "Sub-event ID"
// @Success 200 {object} helpers.APIResponse "data contains the sub-event"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sub-events/{subEventID} [get]
func (c *SubEventController) GetSubEvent(w http.ResponseWriter, r *http.Request) {
	subEventID := r.PathValue("subEventID")
	sub, err := c.Service.GetSubEvent(r.Context(), subEventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "sub-event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, sub)
}

// UpdateSubEvent godoc
// @Summary Update a sub-event
// @Description Updates sub-event details. Caller must be host or co-host of the parent event. Requires Bearer token.
// @Tags sub-events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param subEventID path string true "Sub-event ID"
// @Param body body UpdateSubEventRequest true "Fields to update"
// @Success 200 {object} helpers.APIResponse "data contains the updated sub-event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sub-events/{subEventID} [patch]
func (c *SubEventController) UpdateSubEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	subEventID := r.PathValue("subEventID")
	var req UpdateSubEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	sub, err := c.Service.GetSubEvent(r.Context(), subEventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "sub-event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if req.Title != nil {
		sub.Title = strings.TrimSpace(*req.Title)
	}
	if req.Location != nil {
		sub.Location = strings.TrimSpace(*req.Location)
	}
	if req.Address != nil {
		sub.Address = strings.TrimSpace(*req.Address)
	}
	if req.StartsAt != nil {
		sub.StartsAt = *req.StartsAt
	}
	if req.EndsAt != nil {
		sub.EndsAt = *req.EndsAt
	}
	if req.InviteMessage != nil {
		sub.InviteMessage = *req.InviteMessage
	}
	if req.Image != nil {
		sub.Image = *req.Image
	}
	if err := c.Service.UpdateSubEvent(r.Context(), sub, userID); err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "only the host or a co-host can update sub-events")
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, sub)
}

// DeleteSubEvent godoc
// @Summary Delete a sub-event
// @Description Deletes the sub-event and its guest assignments. Caller must be host or co-host of the parent event. Requires Bearer token.
// @Tags sub-events
// @Produce json
// @Security BearerAuth
// @Param subEventID path string true "Sub-event ID"
// @Success 204 "sub-event deleted"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sub-events/{subEventID} [delete]
func (c *SubEventController) DeleteSubEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	subEventID := r.PathValue("subEventID")
	if err := c.Service.DeleteSubEvent(r.Context(), subEventID, userID); err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "only the host or a co-host can delete sub-events")
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "sub-event not found")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddGuest godoc
// @Summary Assign a guest to a sub-event
// @Description Assigns one of the parent event's guest records to the sub-event. Caller must be host or co-host. Requires Bearer token.
// @Tags sub-events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param subEventID path string true "Sub-event ID"
// @Param body body AddSubEventGuestRequest true "Guest record to assign"
// @Success 204 "guest assigned"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sub-events/{subEventID}/guests [post]
func (c *SubEventController) AddGuest(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	subEventID := r.PathValue("subEventID")
	var req AddSubEventGuestRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.AddGuest(r.Context(), subEventID, strings.TrimSpace(req.GuestID), userID); err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "only the host or a co-host can assign guests")
		case errors.Is(err, domain.ErrAlreadyExists):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "guest is already assigned to this sub-event")
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "sub-event or guest not found")
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveGuest godoc
// @Summary Unassign a guest from a sub-event
// @Description Removes the guest's assignment. The guest record itself stays on the parent event. Requires Bearer token.
// @Tags sub-events
// @Produce json
// @Security BearerAuth
// @Param subEventID path string true "Sub-event ID"
// @Param guestID path string true "Guest record ID"
// @Success 204 "guest unassigned"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sub-events/{subEventID}/guests/{guestID} [delete]
func (c *SubEventController) RemoveGuest(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	subEventID := r.PathValue("subEventID")
	guestID := r.PathValue("guestID")
	if err := c.Service.RemoveGuest(r.Context(), subEventID, guestID, userID); err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "only the host or a co-host can unassign guests")
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "assignment not found")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListGuests godoc
// @Summary List a sub-event's guests
// @Description Returns the guest records assigned to the sub-event. Requires Bearer token.
// @Tags sub-events
// @Produce json
// @Security BearerAuth
// @Param subEventID path string true "Sub-event ID"
// @Success 200 {object} helpers.APIResponse "data contains the guest records"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sub-events/{subEventID}/guests [get]
func (c *SubEventController) ListGuests(w http.ResponseWriter, r *http.Request) {
	subEventID := r.PathValue("subEventID")
	guests, err := c.Service.ListGuests(r.Context(), subEventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "sub-event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if guests == nil {
		guests = []*domain.GuestRecord{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, guests)
}
