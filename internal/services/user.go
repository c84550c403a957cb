package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"eventrsvp/internal/domain"
)

type userService struct {
	store   domain.Store
	storage domain.ObjectStorage
}

// NewUserService creates the profile service.
func NewUserService(store domain.Store, storage domain.ObjectStorage) domain.UserService {
	return &userService{store: store, storage: storage}
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *userService) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	user, err := s.store.Users().GetByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("get user by phone: %w", err)
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, user *domain.User) error {
	if strings.TrimSpace(user.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	user.UpdatedAt = time.Now()
	if err := s.store.Users().Update(ctx, user); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

func (s *userService) UploadProfilePicture(ctx context.Context, userID string, data []byte, contentType string) (string, error) {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("get user: %w", err)
	}

	key := fmt.Sprintf("profiles/%s/%s%s", userID, uuid.NewString(), extensionFor(contentType))
	url, err := s.storage.Upload(ctx, data, key, contentType)
	if err != nil {
		return "", fmt.Errorf("upload profile picture: %w", err)
	}

	user.ProfilePic = url
	user.UpdatedAt = time.Now()
	if err := s.store.Users().Update(ctx, user); err != nil {
		return "", fmt.Errorf("save profile picture url: %w", err)
	}
	return url, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
