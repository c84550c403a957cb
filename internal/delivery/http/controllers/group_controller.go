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

// CreateGroupRequest is the request body for POST /events/{eventID}/groups
type CreateGroupRequest struct {
	Name string `json:"name"`
}

// Validate implements Validator.
func (c CreateGroupRequest) Validate() []string {
	if strings.TrimSpace(c.Name) == "" {
		return []string{"name is required"}
	}
	return nil
}

// AddMemberRequest is the request body for POST /groups/{groupID}/members
type AddMemberRequest struct {
	Phone string `json:"phone"`
}

// Validate implements Validator.
func (a AddMemberRequest) Validate() []string {
	phone := strings.TrimSpace(a.Phone)
	if phone == "" {
		return []string{"phone is required"}
	}
	if !phoneRegexp.MatchString(phone) {
		return []string{"phone must be in E.164 format"}
	}
	return nil
}

// GroupDetailResponse is the payload of GET /groups/{groupID}.
type GroupDetailResponse struct {
	Group   *domain.GuestGroup    `json:"group"`
	Members []*domain.GroupMember `json:"members"`
}

// AttachGroupResponse is the payload of POST /events/{eventID}/groups/{groupID}/attach.
type AttachGroupResponse struct {
	CreatedGuests []*domain.GuestRecord `json:"created_guests"`
}

// InviteLinkResponse is the payload of POST /events/{eventID}/groups/{groupID}/invite-link.
type InviteLinkResponse struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

// GroupController handles guest group endpoints.
type GroupController struct {
	Logger  *slog.Logger
	Service domain.GroupService
}

// NewGroupController creates a GroupController with the given logger and service.
func NewGroupController(logger *slog.Logger, svc domain.GroupService) *GroupController {
	return &GroupController{Logger: logger, Service: svc}
}

// CreateGroup godoc
// @Summary Create a guest group
// @Description Creates a named group and attaches it to the event. Requires Bearer token.
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body CreateGroupRequest true "Group name"
// @Success 201 {object} helpers.APIResponse "data contains the created group"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/groups [post]
func (c *GroupController) CreateGroup(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	eventID := r.PathValue("eventID")
	var req CreateGroupRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	group, err := c.Service.CreateGroup(r.Context(), req.Name, userID, eventID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, group)
}

// ListGroups godoc
// @Summary List an event's groups
// @Description Returns the groups attached to an event. Requires Bearer token.
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the groups"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/groups [get]
func (c *GroupController) ListGroups(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	groups, err := c.Service.ListGroupsByEvent(r.Context(), eventID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if groups == nil {
		groups = []*domain.GuestGroup{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, groups)
}

// GetGroup godoc
// @Summary Get a group
// @Description Returns the group and its members. Requires Bearer token.
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param groupID path string true "Group ID"
// @Success 200 {object} helpers.APIResponse "data contains the group and members"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /groups/{groupID} [get]
func (c *GroupController) GetGroup(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("groupID")
	group, members, err := c.Service.GetGroup(r.Context(), groupID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "group not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if members == nil {
		members = []*domain.GroupMember{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, GroupDetailResponse{Group: group, Members: members})
}

// AddMember godoc
// @Summary Add a member to a group
// @Description Adds a phone number to the group. A phone with no account gets an unverified placeholder user. Requires Bearer token.
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param groupID path string true "Group ID"
// @Param body body AddMemberRequest true "Member phone in E.164 format"
// @Success 201 {object} helpers.APIResponse "data contains the member"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /groups/{groupID}/members [post]
func (c *GroupController) AddMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	groupID := r.PathValue("groupID")
	var req AddMemberRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	member, err := c.Service.AddMember(r.Context(), groupID, strings.TrimSpace(req.Phone), userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyMember):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "phone is already a member of this group")
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "group not found")
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, member)
}

// UpdateGroupRequest is the request body for PATCH /groups/{groupID}
type UpdateGroupRequest struct {
	Name string `json:"name"`
}

// Validate implements Validator.
func (u UpdateGroupRequest) Validate() []string {
	if strings.TrimSpace(u.Name) == "" {
		return []string{"name is required"}
	}
	return nil
}

// UpdateGroup godoc
// @Summary Rename a group
// @Description Updates the group name. Requires Bearer token.
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param groupID path string true "Group ID"
// @Param body body UpdateGroupRequest true "New name"
// @Success 200 {object} helpers.APIResponse "data contains the updated group"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /groups/{groupID} [patch]
func (c *GroupController) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("groupID")
	var req UpdateGroupRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	group, err := c.Service.UpdateGroup(r.Context(), groupID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "group not found")
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, group)
}

// RemoveMember godoc
// @Summary Remove a member from a group
// @Description Removes the membership. Attendance records stay, detached from the group. Requires Bearer token.
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param groupID path string true "Group ID"
// @Param phone path string true "Member phone in E.164 format"
// @Success 204 "member removed"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /groups/{groupID}/members/{phone} [delete]
func (c *GroupController) RemoveMember(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("groupID")
	phone := r.PathValue("phone")
	if err := c.Service.RemoveMember(r.Context(), groupID, phone); err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "no account for that phone")
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "membership not found")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AttachGroup godoc
// @Summary Attach a group to an event
// @Description Associates the group with the event and seeds a no_response guest record for each member. Idempotent. Requires Bearer token.
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param groupID path string true "Group ID"
// @Success 200 {object} helpers.APIResponse "data contains the created guest records"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/groups/{groupID}/attach [post]
func (c *GroupController) AttachGroup(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	groupID := r.PathValue("groupID")
	created, err := c.Service.AttachGroupToEvent(r.Context(), eventID, groupID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event or group not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, AttachGroupResponse{CreatedGuests: created})
}

// DeleteGroup godoc
// @Summary Delete a group
// @Description Deletes the group and its memberships, event links, invite links and pending invites. Guest records survive detached. Requires Bearer token.
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param groupID path string true "Group ID"
// @Success 204 "group deleted"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /groups/{groupID} [delete]
func (c *GroupController) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("groupID")
	if err := c.Service.DeleteGroup(r.Context(), groupID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "group not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GenerateInviteLink godoc
// @Summary Generate an invite link
// @Description Issues a shareable public RSVP link for the group within the event. Requires Bearer token.
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param groupID path string true "Group ID"
// @Success 201 {object} helpers.APIResponse "data contains the token and public url"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/groups/{groupID}/invite-link [post]
func (c *GroupController) GenerateInviteLink(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	groupID := r.PathValue("groupID")
	link, url, err := c.Service.GenerateInviteLink(r.Context(), eventID, groupID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "group is not associated with this event")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, InviteLinkResponse{Token: link.Token, URL: url})
}
