package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"eventrsvp/internal/delivery/http/helpers"
	"eventrsvp/internal/domain"
)

var phoneRegexp = regexp.MustCompile(`^\+[1-9][0-9]{6,14}$`)

// SendOTPRequest is the request body for POST /auth/otp/send
type SendOTPRequest struct {
	Phone string `json:"phone"`
}

// Validate implements Validator.
func (s SendOTPRequest) Validate() []string {
	var errs []string
	phone := strings.TrimSpace(s.Phone)
	if phone == "" {
		errs = append(errs, "phone is required")
	} else if !phoneRegexp.MatchString(phone) {
		errs = append(errs, "phone must be in E.164 format")
	}
	return errs
}

// VerifyOTPRequest is the request body for POST /auth/otp/verify
type VerifyOTPRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

// Validate implements Validator.
func (v VerifyOTPRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(v.Phone) == "" {
		errs = append(errs, "phone is required")
	}
	if strings.TrimSpace(v.Code) == "" {
		errs = append(errs, "code is required")
	}
	return errs
}

// OnboardRequest is the request body for POST /auth/onboard
type OnboardRequest struct {
	Phone string `json:"phone"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Validate implements Validator.
func (o OnboardRequest) Validate() []string {
	var errs []string
	phone := strings.TrimSpace(o.Phone)
	if phone == "" {
		errs = append(errs, "phone is required")
	} else if !phoneRegexp.MatchString(phone) {
		errs = append(errs, "phone must be in E.164 format")
	}
	if strings.TrimSpace(o.Name) == "" {
		errs = append(errs, "name is required")
	}
	if o.Email != "" && !emailRegexp.MatchString(strings.TrimSpace(strings.ToLower(o.Email))) {
		errs = append(errs, "invalid email format")
	}
	return errs
}

// VerifyOTPSuccessResponse is the success response envelope for POST /auth/otp/verify (200).
type VerifyOTPSuccessResponse struct {
	Data  *domain.VerifyOTPResult `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// OnboardingController handles the OTP challenge and account creation flow.
type OnboardingController struct {
	Logger  *slog.Logger
	Service domain.OnboardingService
}

// NewOnboardingController creates an OnboardingController with the given logger and service.
func NewOnboardingController(logger *slog.Logger, svc domain.OnboardingService) *OnboardingController {
	return &OnboardingController{Logger: logger, Service: svc}
}

// SendOTP godoc
// @Summary Send a verification code
// @Description Sends a one-time code to the given phone via SMS.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body SendOTPRequest true "Phone in E.164 format"
// @Success 200 {object} helpers.APIResponse "data contains a confirmation message"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/otp/send [post]
func (c *OnboardingController) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req SendOTPRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.SendOTP(r.Context(), strings.TrimSpace(req.Phone)); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "could not send verification code")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "verification code sent"})
}

// VerifyOTP godoc
// @Summary Verify a code
// @Description Checks the one-time code. For existing accounts, returns a JWT and the result of linking previous RSVPs. For new phones, returns needs_onboarding=true.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body VerifyOTPRequest true "Phone and code"
// @Success 200 {object} controllers.VerifyOTPSuccessResponse "data contains token, user and link result, or needs_onboarding"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/otp/verify [post]
func (c *OnboardingController) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req VerifyOTPRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	result, err := c.Service.VerifyOTP(r.Context(), strings.TrimSpace(req.Phone), strings.TrimSpace(req.Code))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "incorrect verification code")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "could not verify code")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}

// Onboard godoc
// @Summary Create an account for a verified phone
// @Description Creates (or promotes) the account for a phone that passed OTP verification, links previous RSVPs, and returns a JWT.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body OnboardRequest true "Profile details"
// @Success 201 {object} controllers.VerifyOTPSuccessResponse "data contains token, user and link result"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (phone not verified)"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/onboard [post]
func (c *OnboardingController) Onboard(w http.ResponseWriter, r *http.Request) {
	var req OnboardRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	result, err := c.Service.Onboard(r.Context(), strings.TrimSpace(req.Phone), strings.TrimSpace(req.Name), strings.TrimSpace(req.Email))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPhoneNotVerified):
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "phone has not been verified")
		case errors.Is(err, domain.ErrAlreadyExists):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "phone already registered")
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "could not create account")
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, result)
}
