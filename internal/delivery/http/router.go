package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventrsvp/internal/delivery/http/controllers"
	"eventrsvp/internal/delivery/http/middleware"
	"eventrsvp/internal/domain"
)

// Controllers bundles the controllers the router wires up.
type Controllers struct {
	Onboarding *controllers.OnboardingController
	User       *controllers.UserController
	Event      *controllers.EventController
	SubEvent   *controllers.SubEventController
	Group      *controllers.GroupController
	Invite     *controllers.InviteController
	Rsvp       *controllers.RsvpController
	Report     *controllers.ReportController
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(c Controllers, verifier domain.TokenVerifier, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)
	optional := middleware.OptionalAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /auth/otp/send", c.Onboarding.SendOTP)
	mux.HandleFunc("POST /auth/otp/verify", c.Onboarding.VerifyOTP)
	mux.HandleFunc("POST /auth/onboard", c.Onboarding.Onboard)

	// Users
	mux.HandleFunc("GET /users/me", auth(c.User.GetMe))
	mux.HandleFunc("PATCH /users/me", auth(c.User.UpdateMe))
	mux.HandleFunc("POST /users/me/picture", auth(c.User.UploadProfilePicture))
	mux.HandleFunc("POST /users/me/link-rsvps", auth(c.User.LinkRsvps))
	mux.HandleFunc("GET /users/me/rsvps", auth(c.Rsvp.ListMyRsvps))
	mux.HandleFunc("GET /users/me/events", auth(c.Event.ListMyEvents))

	// Events
	mux.HandleFunc("POST /events", auth(c.Event.CreateEvent))
	mux.HandleFunc("GET /events/{eventID}", auth(c.Event.GetEvent))
	mux.HandleFunc("PATCH /events/{eventID}", auth(c.Event.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", auth(c.Event.DeleteEvent))
	mux.HandleFunc("POST /events/{eventID}/co-hosts", auth(c.Event.AddCoHost))
	mux.HandleFunc("DELETE /events/{eventID}/co-hosts/{userID}", auth(c.Event.RemoveCoHost))
	mux.HandleFunc("POST /events/{eventID}/image", auth(c.Event.UploadEventImage))

	// Sub-events
	mux.HandleFunc("POST /events/{eventID}/sub-events", auth(c.SubEvent.CreateSubEvent))
	mux.HandleFunc("GET /events/{eventID}/sub-events", auth(c.SubEvent.ListSubEvents))
	mux.HandleFunc("GET /sub-events/{subEventID}", auth(c.SubEvent.GetSubEvent))
	mux.HandleFunc("PATCH /sub-events/{subEventID}", auth(c.SubEvent.UpdateSubEvent))
	mux.HandleFunc("DELETE /sub-events/{subEventID}", auth(c.SubEvent.DeleteSubEvent))
	mux.HandleFunc("POST /sub-events/{subEventID}/guests", auth(c.SubEvent.AddGuest))
	mux.HandleFunc("GET /sub-events/{subEventID}/guests", auth(c.SubEvent.ListGuests))
	mux.HandleFunc("DELETE /sub-events/{subEventID}/guests/{guestID}", auth(c.SubEvent.RemoveGuest))

	// Direct RSVPs
	mux.HandleFunc("PUT /events/{eventID}/rsvp", auth(c.Rsvp.UpsertRsvp))
	mux.HandleFunc("GET /events/{eventID}/rsvp", auth(c.Rsvp.GetRsvpStatus))
	mux.HandleFunc("DELETE /events/{eventID}/rsvp", auth(c.Rsvp.CancelRsvp))

	// Groups
	mux.HandleFunc("POST /events/{eventID}/groups", auth(c.Group.CreateGroup))
	mux.HandleFunc("GET /events/{eventID}/groups", auth(c.Group.ListGroups))
	mux.HandleFunc("GET /groups/{groupID}", auth(c.Group.GetGroup))
	mux.HandleFunc("PATCH /groups/{groupID}", auth(c.Group.UpdateGroup))
	mux.HandleFunc("DELETE /groups/{groupID}", auth(c.Group.DeleteGroup))
	mux.HandleFunc("POST /groups/{groupID}/members", auth(c.Group.AddMember))
	mux.HandleFunc("DELETE /groups/{groupID}/members/{phone}", auth(c.Group.RemoveMember))
	mux.HandleFunc("POST /events/{eventID}/groups/{groupID}/attach", auth(c.Group.AttachGroup))
	mux.HandleFunc("POST /events/{eventID}/groups/{groupID}/invite-link", auth(c.Group.GenerateInviteLink))

	// Public invite pages; a Bearer token upgrades to the authenticated channel.
	mux.HandleFunc("GET /invite/t/{token}", optional(c.Invite.GetInviteDetailsByToken))
	mux.HandleFunc("GET /invite/{groupID}", optional(c.Invite.GetInviteDetails))
	mux.HandleFunc("POST /invite/{groupID}/rsvp", optional(c.Invite.SubmitRsvp))
	mux.HandleFunc("GET /invite/{groupID}/status", c.Invite.GetRsvpStatus)

	// Reports
	mux.HandleFunc("GET /events/{eventID}/guests", auth(c.Report.GuestList))
	mux.HandleFunc("GET /events/{eventID}/summary", auth(c.Report.RsvpSummary))
	mux.HandleFunc("POST /events/{eventID}/invites", auth(c.Report.BulkCreateInvites))
	mux.HandleFunc("GET /events/{eventID}/invites", auth(c.Report.ListInvites))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
