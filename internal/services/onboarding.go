package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventrsvp/internal/domain"
)

type onboardingService struct {
	store       domain.Store
	otp         domain.OTPProvider
	tokens      domain.TokenIssuer
	tokenExpiry time.Duration
	policy      domain.ConflictPolicy
}

// NewOnboardingService wires the OTP challenge flow to account creation and
// the reconciliation pass that follows every successful verification.
func NewOnboardingService(store domain.Store, otp domain.OTPProvider, tokens domain.TokenIssuer, tokenExpiry time.Duration, policy domain.ConflictPolicy) domain.OnboardingService {
	if policy == "" {
		policy = domain.LinkedWins
	}
	return &onboardingService{
		store:       store,
		otp:         otp,
		tokens:      tokens,
		tokenExpiry: tokenExpiry,
		policy:      policy,
	}
}

func (s *onboardingService) SendOTP(ctx context.Context, phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return fmt.Errorf("%w: phone is required", domain.ErrInvalidInput)
	}
	if err := s.otp.Send(ctx, phone); err != nil {
		return fmt.Errorf("send otp: %w", err)
	}
	return nil
}

func (s *onboardingService) VerifyOTP(ctx context.Context, phone, code string) (*domain.VerifyOTPResult, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" || code == "" {
		return nil, fmt.Errorf("%w: phone and code are required", domain.ErrInvalidInput)
	}
	approved, err := s.otp.Verify(ctx, phone, code)
	if err != nil {
		return nil, fmt.Errorf("verify otp: %w", err)
	}
	if !approved {
		return nil, fmt.Errorf("%w: incorrect verification code", domain.ErrInvalidInput)
	}

	user, err := s.store.Users().GetByPhone(ctx, phone)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("get user by phone: %w", err)
		}
		// No account: remember the proof so Onboard can consume it.
		if err := s.store.VerifiedPhones().Record(ctx, phone, time.Now()); err != nil {
			return nil, fmt.Errorf("record verified phone: %w", err)
		}
		return &domain.VerifyOTPResult{NeedsOnboarding: true}, nil
	}

	result := &domain.VerifyOTPResult{User: user, Link: &domain.LinkResult{LinkedRecords: []*domain.GuestRecord{}}}
	err = s.store.RunTx(ctx, func(ctx context.Context, txs domain.Store) error {
		if !user.Verified() {
			if err := txs.Users().SetVerificationStatus(ctx, user.ID, domain.VerificationVerified); err != nil {
				return fmt.Errorf("mark user verified: %w", err)
			}
			user.VerificationStatus = domain.VerificationVerified
		}
		return linkRsvpsTx(ctx, txs, user.ID, phone, s.policy, result.Link)
	})
	if err != nil {
		return nil, err
	}
	setLinkMessage(result.Link)

	token, err := s.tokens.Issue(user.ID, s.tokenExpiry)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	result.Token = token
	return result, nil
}

func (s *onboardingService) Onboard(ctx context.Context, phone, name, email string) (*domain.VerifyOTPResult, error) {
	phone = strings.TrimSpace(phone)
	name = strings.TrimSpace(name)
	if phone == "" || name == "" {
		return nil, fmt.Errorf("%w: phone and name are required", domain.ErrInvalidInput)
	}

	verified, err := s.store.VerifiedPhones().IsVerified(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("check verified phone: %w", err)
	}
	if !verified {
		return nil, domain.ErrPhoneNotVerified
	}

	result := &domain.VerifyOTPResult{Link: &domain.LinkResult{LinkedRecords: []*domain.GuestRecord{}}}
	err = s.store.RunTx(ctx, func(ctx context.Context, txs domain.Store) error {
		now := time.Now()

		existing, err := txs.Users().GetByPhone(ctx, phone)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("get user by phone: %w", err)
		}
		var user *domain.User
		if existing != nil {
			// A placeholder from a group roster; promote it instead of
			// creating a second account for the phone.
			existing.Name = name
			existing.Email = strings.TrimSpace(email)
			existing.VerificationStatus = domain.VerificationVerified
			existing.UpdatedAt = now
			if err := txs.Users().Update(ctx, existing); err != nil {
				return fmt.Errorf("promote placeholder user: %w", err)
			}
			user = existing
		} else {
			user = domain.NewUser(phone, name, strings.TrimSpace(email), domain.VerificationVerified, now, now)
			if err := txs.Users().Create(ctx, user); err != nil {
				if errors.Is(err, domain.ErrAlreadyExists) {
					return fmt.Errorf("%w: phone already registered", domain.ErrAlreadyExists)
				}
				return fmt.Errorf("create user: %w", err)
			}
		}

		// The proof is consumed, not deleted; the audit trail stays.
		consumed, err := txs.VerifiedPhones().Consume(ctx, phone, now)
		if err != nil {
			return fmt.Errorf("consume verified phone: %w", err)
		}
		if !consumed {
			return domain.ErrPhoneNotVerified
		}

		result.User = user
		return linkRsvpsTx(ctx, txs, user.ID, phone, s.policy, result.Link)
	})
	if err != nil {
		return nil, err
	}
	setLinkMessage(result.Link)

	token, err := s.tokens.Issue(result.User.ID, s.tokenExpiry)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	result.Token = token
	return result, nil
}
