package domain

import (
	"context"
	"time"
)

// VerificationStatus tracks whether a user's phone number has passed an OTP
// challenge. Users created as group-member placeholders start unverified.
type VerificationStatus string

const (
	VerificationUnverified VerificationStatus = "unverified"
	VerificationVerified   VerificationStatus = "verified"
)

// User represents an account holder. Phone is the immutable identity key:
// one user per phone number, enforced by a unique constraint.
// swagger:model User
type User struct {
	ID                 string             `json:"id"`
	Phone              string             `json:"phone"`
	Name               string             `json:"name"`
	Email              string             `json:"email,omitempty"`
	ProfilePic         string             `json:"profile_pic,omitempty"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// NewUser returns a new User with the given fields. ID is typically set by the repository on create.
func NewUser(phone, name, email string, status VerificationStatus, createdAt, updatedAt time.Time) *User {
	return &User{
		Phone:              phone,
		Name:               name,
		Email:              email,
		VerificationStatus: status,
		CreatedAt:          createdAt,
		UpdatedAt:          updatedAt,
	}
}

// Verified reports whether the user has completed OTP verification.
func (u *User) Verified() bool {
	return u.VerificationStatus == VerificationVerified
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// OTPProvider sends and checks one-time codes for phone verification.
// The core only acts on the boolean approved result of Verify.
type OTPProvider interface {
	Send(ctx context.Context, phone string) error
	Verify(ctx context.Context, phone, code string) (approved bool, err error)
}

// ObjectStorage stores uploaded blobs (profile and event images).
type ObjectStorage interface {
	Upload(ctx context.Context, data []byte, key, contentType string) (url string, err error)
	Delete(ctx context.Context, key string) error
}

// UserRepository defines the interface for user storage.
// Create must surface ErrAlreadyExists on a duplicate phone.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByPhone(ctx context.Context, phone string) (*User, error)
	Update(ctx context.Context, user *User) error
	SetVerificationStatus(ctx context.Context, userID string, status VerificationStatus) error
}

// VerifiedPhoneRepository tracks phone numbers that passed an OTP challenge
// before any User row exists. Entries are consumed, not deleted, when the
// account is finally created.
type VerifiedPhoneRepository interface {
	Record(ctx context.Context, phone string, verifiedAt time.Time) error
	IsVerified(ctx context.Context, phone string) (bool, error)
	Consume(ctx context.Context, phone string, consumedAt time.Time) (consumed bool, err error)
}

// UserService defines profile operations for account holders.
type UserService interface {
	GetByID(ctx context.Context, id string) (*User, error)
	GetByPhone(ctx context.Context, phone string) (*User, error)
	UpdateProfile(ctx context.Context, user *User) error
	UploadProfilePicture(ctx context.Context, userID string, data []byte, contentType string) (string, error)
}
