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

// BulkInviteRow is one row of a bulk invite import.
type BulkInviteRow struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	GroupID string `json:"group_id"`
}

// BulkInvitesRequest is the request body for POST /events/{eventID}/invites
type BulkInvitesRequest struct {
	Invites []BulkInviteRow `json:"invites"`
}

// Validate implements Validator.
func (b BulkInvitesRequest) Validate() []string {
	if len(b.Invites) == 0 {
		return []string{"invites must not be empty"}
	}
	return nil
}

// GuestListSuccessResponse is the success response envelope for GET /events/{eventID}/guests (200).
type GuestListSuccessResponse struct {
	Data  *domain.GuestListResult `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// RsvpSummaryResponse is the payload of GET /events/{eventID}/summary.
type RsvpSummaryResponse struct {
	Rows   []*domain.RSVPSummaryRow `json:"rows"`
	Totals *domain.RSVPTotals       `json:"totals"`
}

// InviteListResponse is the payload of GET /events/{eventID}/invites.
type InviteListResponse struct {
	Invites    []*domain.Invite       `json:"invites"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ReportController handles host-facing reporting endpoints.
type ReportController struct {
	Logger  *slog.Logger
	Service domain.ReportService
	Invites domain.InviteRepository
}

// NewReportController creates a ReportController with the given logger, service and invite repository.
func NewReportController(logger *slog.Logger, svc domain.ReportService, invites domain.InviteRepository) *ReportController {
	return &ReportController{Logger: logger, Service: svc, Invites: invites}
}

func (c *ReportController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "only the host or a co-host can view reports")
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}

// parseGuestListFilters reads the optional query filters of the guest list.
func parseGuestListFilters(r *http.Request) domain.GuestListFilters {
	q := r.URL.Query()
	f := domain.GuestListFilters{
		RSVP:          domain.RSVPStatus(q.Get("rsvp")),
		Food:          q.Get("food"),
		Alcohol:       q.Get("alcohol"),
		Accommodation: q.Get("accommodation"),
		GroupID:       q.Get("group_id"),
	}
	switch strings.ToLower(q.Get("linked")) {
	case "true":
		v := true
		f.Linked = &v
	case "false":
		v := false
		f.Linked = &v
	}
	return f
}

// GuestList godoc
// @Summary Get the event guest list
// @Description Returns the event's guest records partitioned into linked and unlinked. Supports rsvp, food, alcohol, accommodation, group_id and linked query filters. Caller must be host or co-host. Requires Bearer token.
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param rsvp query string false "Filter by RSVP value"
// @Param group_id query string false "Filter by group"
// @Param linked query bool false "Filter by identity kind"
// @Success 200 {object} controllers.GuestListSuccessResponse "data contains linked, unlinked and total"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/guests [get]
func (c *ReportController) GuestList(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	eventID := r.PathValue("eventID")
	f := parseGuestListFilters(r)
	if f.RSVP != "" && !f.RSVP.Valid() {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid rsvp filter")
		return
	}
	result, err := c.Service.GuestList(r.Context(), eventID, userID, f)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}

// RsvpSummary godoc
// @Summary Get the event RSVP summary
// @Description Returns aggregate counts grouped by RSVP value and preferences, plus invited and confirmed totals. Caller must be host or co-host. Requires Bearer token.
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains rows and totals"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/summary [get]
func (c *ReportController) RsvpSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	eventID := r.PathValue("eventID")
	rows, totals, err := c.Service.RsvpSummary(r.Context(), eventID, userID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	if rows == nil {
		rows = []*domain.RSVPSummaryRow{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, RsvpSummaryResponse{Rows: rows, Totals: totals})
}

// BulkCreateInvites godoc
// @Summary Bulk import invites
// @Description Creates invite rows for the event, reporting created and failed rows individually. Caller must be host or co-host. Requires Bearer token.
// @Tags reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body BulkInvitesRequest true "Invite rows"
// @Success 200 {object} helpers.APIResponse "data contains created and failed rows"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/invites [post]
func (c *ReportController) BulkCreateInvites(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	eventID := r.PathValue("eventID")
	var req BulkInvitesRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	rows := make([]*domain.Invite, 0, len(req.Invites))
	for _, row := range req.Invites {
		rows = append(rows, &domain.Invite{
			Name:    row.Name,
			Phone:   row.Phone,
			Email:   row.Email,
			GroupID: row.GroupID,
		})
	}
	result, err := c.Service.BulkCreateInvites(r.Context(), eventID, userID, rows)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}

// ListInvites godoc
// @Summary List the event's invites
// @Description Returns the event's invite rows, paginated with page and page_size. Requires Bearer token.
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains invites and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/invites [get]
func (c *ReportController) ListInvites(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	eventID := r.PathValue("eventID")
	invites, err := c.Invites.ListByEvent(r.Context(), eventID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	p := helpers.ParsePagination(r)
	start, end := p.Slice(len(invites))
	helpers.WriteJSONSuccess(w, http.StatusOK, InviteListResponse{
		Invites:    invites[start:end],
		Pagination: helpers.NewPaginationMeta(p.Page, p.PageSize, len(invites)),
	})
}
