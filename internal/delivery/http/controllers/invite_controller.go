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

// SubmitRsvpRequest is the request body for POST /invite/{groupID}/rsvp.
// Name and phone are required for anonymous submissions only.
type SubmitRsvpRequest struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Rsvp          string `json:"rsvp"`
	Food          string `json:"food"`
	Alcohol       string `json:"alcohol"`
	Accommodation string `json:"accommodation"`
	Count         int    `json:"count"`
}

// Validate implements Validator.
func (s SubmitRsvpRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(s.Rsvp) == "" {
		errs = append(errs, "rsvp is required")
	} else if !domain.RSVPStatus(s.Rsvp).Valid() {
		errs = append(errs, "rsvp must be one of no_response, accepted, declined, maybe, failed_delivery")
	}
	if s.Count < 0 {
		errs = append(errs, "count must be positive")
	}
	if s.Phone != "" && !phoneRegexp.MatchString(strings.TrimSpace(s.Phone)) {
		errs = append(errs, "phone must be in E.164 format")
	}
	return errs
}

// SubmitRsvpSuccessResponse is the success response envelope for POST /invite/{groupID}/rsvp (200/201).
type SubmitRsvpSuccessResponse struct {
	Data  *domain.RsvpResult `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// InviteController handles the public invite-link endpoints. Routes are
// wrapped with OptionalAuth: a valid Bearer token switches the submission to
// the authenticated channel.
type InviteController struct {
	Logger  *slog.Logger
	Service domain.RSVPService
}

// NewInviteController creates an InviteController with the given logger and service.
func NewInviteController(logger *slog.Logger, svc domain.RSVPService) *InviteController {
	return &InviteController{Logger: logger, Service: svc}
}

// GetInviteDetails godoc
// @Summary Get invite details
// @Description Returns the group and event behind an invite link, plus viewer context when authenticated.
// @Tags invites
// @Produce json
// @Param groupID path string true "Group ID"
// @Success 200 {object} helpers.APIResponse "data contains group, event and optional user_context"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 410 {object} helpers.APIResponse "error.code: gone (event already started)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invite/{groupID} [get]
func (c *InviteController) GetInviteDetails(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("groupID")
	userID, _ := middleware.UserIDFromContext(r.Context())
	details, err := c.Service.GetInviteDetails(r.Context(), groupID, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrExpired):
			helpers.WriteJSONError(w, http.StatusGone, helpers.ErrCodeGone, "the event has already started")
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "invite not found")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, details)
}

// GetInviteDetailsByToken godoc
// @Summary Get invite details by token
// @Description Resolves a minted invite-link token and returns the same payload as GET /invite/{groupID}.
// @Tags invites
// @Produce json
// @Param token path string true "Invite link token"
// @Success 200 {object} helpers.APIResponse "data contains group, event and optional user_context"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 410 {object} helpers.APIResponse "error.code: gone (event already started)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invite/t/{token} [get]
func (c *InviteController) GetInviteDetailsByToken(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	userID, _ := middleware.UserIDFromContext(r.Context())
	details, err := c.Service.GetInviteDetailsByToken(r.Context(), token, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrExpired):
			helpers.WriteJSONError(w, http.StatusGone, helpers.ErrCodeGone, "the event has already started")
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "invite not found")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, details)
}

// SubmitRsvp godoc
// @Summary Submit an RSVP through an invite link
// @Description Anonymous submissions need name and phone and are single-shot per phone; a repeat returns the existing record with already_submitted=true. Authenticated submissions update in place.
// @Tags invites
// @Accept json
// @Produce json
// @Param groupID path string true "Group ID"
// @Param body body SubmitRsvpRequest true "RSVP details"
// @Success 200 {object} controllers.SubmitRsvpSuccessResponse "data contains the guest record and a message"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 410 {object} helpers.APIResponse "error.code: gone (event already started)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invite/{groupID}/rsvp [post]
func (c *InviteController) SubmitRsvp(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("groupID")
	userID, _ := middleware.UserIDFromContext(r.Context())
	var req SubmitRsvpRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	result, err := c.Service.SubmitRsvp(r.Context(), groupID, domain.RsvpSubmission{
		Name:          req.Name,
		Phone:         req.Phone,
		Email:         req.Email,
		RSVP:          domain.RSVPStatus(req.Rsvp),
		Food:          req.Food,
		Alcohol:       req.Alcohol,
		Accommodation: req.Accommodation,
		Count:         req.Count,
	}, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrExpired):
			helpers.WriteJSONError(w, http.StatusGone, helpers.ErrCodeGone, "the event has already started")
		case errors.Is(err, domain.ErrUserNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "user not found")
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "invite not found")
		case errors.Is(err, domain.ErrConflict):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "an rsvp for this phone already exists")
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	// A repeat web submission is not an error; the response carries
	// already_submitted so the page can explain itself.
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}

// GetRsvpStatus godoc
// @Summary Look up an RSVP by phone
// @Description Returns the phone's response in this group: the account-linked record when one exists, otherwise the web submission.
// @Tags invites
// @Produce json
// @Param groupID path string true "Group ID"
// @Param phone query string true "Phone in E.164 format"
// @Success 200 {object} helpers.APIResponse "data contains the guest record"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invite/{groupID}/status [get]
func (c *InviteController) GetRsvpStatus(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("groupID")
	phone := strings.TrimSpace(r.URL.Query().Get("phone"))
	if phone == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "phone query parameter is required")
		return
	}
	record, err := c.Service.GetGroupRsvpStatus(r.Context(), groupID, phone)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "no rsvp found for that phone")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, record)
}
