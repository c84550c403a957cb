package otp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"eventrsvp/internal/domain"
)

// TwilioConfig holds configuration for the Twilio Verify API.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	ServiceSID string
}

// ProviderConfig holds configuration for creating an OTP provider.
type ProviderConfig struct {
	Provider string
	Twilio   TwilioConfig
}

// NewProvider creates an OTP provider from config. Provider "twilio" uses the
// Twilio Verify API; "noop" or unknown uses a no-op provider that approves
// every code.
func NewProvider(config ProviderConfig) (domain.OTPProvider, error) {
	switch config.Provider {
	case "twilio":
		if config.Twilio.AccountSID == "" || config.Twilio.AuthToken == "" || config.Twilio.ServiceSID == "" {
			return nil, fmt.Errorf("twilio otp provider requires account sid, auth token and service sid")
		}
		return &twilioProvider{
			config: config.Twilio,
			client: &http.Client{Timeout: 10 * time.Second},
		}, nil
	case "noop":
		return &noopProvider{}, nil
	default:
		log.Printf("[OTP] Unknown otp provider %q, using noop", config.Provider)
		return &noopProvider{}, nil
	}
}

type twilioProvider struct {
	config TwilioConfig
	client *http.Client
}

func (p *twilioProvider) Send(ctx context.Context, phone string) error {
	form := url.Values{}
	form.Set("To", phone)
	form.Set("Channel", "sms")

	var body struct {
		Status string `json:"status"`
	}
	if err := p.post(ctx, "Verifications", form, &body); err != nil {
		return fmt.Errorf("failed to send verification: %w", err)
	}
	return nil
}

func (p *twilioProvider) Verify(ctx context.Context, phone, code string) (bool, error) {
	form := url.Values{}
	form.Set("To", phone)
	form.Set("Code", code)

	var body struct {
		Status string `json:"status"`
	}
	if err := p.post(ctx, "VerificationCheck", form, &body); err != nil {
		return false, fmt.Errorf("failed to check verification: %w", err)
	}
	return body.Status == "approved", nil
}

func (p *twilioProvider) post(ctx context.Context, resource string, form url.Values, out interface{}) error {
	endpoint := fmt.Sprintf("https://verify.twilio.com/v2/Services/%s/%s", p.config.ServiceSID, resource)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(p.config.AccountSID, p.config.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call twilio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("twilio api returned status: %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode twilio response: %w", err)
	}
	return nil
}

type noopProvider struct{}

func (n *noopProvider) Send(ctx context.Context, phone string) error {
	log.Println("[OTP] Code would be sent (noop)", "to", phone)
	return nil
}

func (n *noopProvider) Verify(ctx context.Context, phone, code string) (bool, error) {
	log.Println("[OTP] Code would be checked (noop)", "to", phone)
	return true, nil
}
