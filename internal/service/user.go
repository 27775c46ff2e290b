package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spinlist/spinlist-server/internal/domain"
	domainerrors "github.com/spinlist/spinlist-server/internal/errors"
	"github.com/spinlist/spinlist-server/internal/media/images"
	"github.com/spinlist/spinlist-server/internal/store"
	"github.com/spinlist/spinlist-server/internal/store/sqlite"
)

// UserService handles account listing, deletion, and profile pictures.
type UserService struct {
	store    *sqlite.Store
	pictures *images.Processor
	logger   *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(store *sqlite.Store, pictures *images.Processor, logger *slog.Logger) *UserService {
	return &UserService{
		store:    store,
		pictures: pictures,
		logger:   logger,
	}
}

// Get retrieves a user by ID or username.
func (s *UserService) Get(ctx context.Context, identifier string) (*domain.User, error) {
	user, err := s.resolve(ctx, identifier)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

// List returns all users.
func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	clean := make([]*domain.User, len(users))
	for i, u := range users {
		clean[i] = sanitizeUser(u)
	}
	return clean, nil
}

// Delete removes a user account, identified by ID or username.
//
// Anyone may delete themselves. Admins may delete non-admin users but
// not other admins.
func (s *UserService) Delete(ctx context.Context, actor *domain.User, identifier string) error {
	target, err := s.resolve(ctx, identifier)
	if err != nil {
		return err
	}

	if !actor.CanDelete(target) {
		return domainerrors.Forbidden("not allowed to delete this user")
	}

	if err := s.store.DeleteUser(ctx, target.ID); err != nil {
		if store.IsNotFound(err) {
			return domainerrors.NotFoundf("user %q not found", identifier)
		}
		return fmt.Errorf("delete user: %w", err)
	}

	if target.PicturePath != "" {
		if err := s.pictures.Remove(target.PicturePath); err != nil {
			s.logger.Warn("failed to remove profile image", "user_id", target.ID, "error", err)
		}
	}

	s.logger.Info("user deleted", "user_id", target.ID, "actor_id", actor.ID)
	return nil
}

// UploadPicture stores a new profile image for the user and replaces any
// previous one.
func (s *UserService) UploadPicture(ctx context.Context, userID string, imgData []byte, contentType string) (*domain.User, error) {
	if len(imgData) == 0 {
		return nil, domainerrors.Validation("image data is empty")
	}
	if !images.SupportedContentType(contentType) {
		return nil, domainerrors.Validationf("unsupported image type %q", contentType)
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	picturePath, blurHash, err := s.pictures.Process(imgData, contentType)
	if err != nil {
		return nil, domainerrors.Validation("could not process image").WithCause(err)
	}

	if err := s.store.SetUserPicture(ctx, userID, picturePath, blurHash); err != nil {
		return nil, fmt.Errorf("set user picture: %w", err)
	}

	if user.PicturePath != "" {
		if err := s.pictures.Remove(user.PicturePath); err != nil {
			s.logger.Warn("failed to remove old profile image", "user_id", userID, "error", err)
		}
	}

	user.PicturePath = picturePath
	user.BlurHash = blurHash
	user.Touch()
	return sanitizeUser(user), nil
}

// DeletePicture clears the user's profile image.
func (s *UserService) DeletePicture(ctx context.Context, userID string) error {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if store.IsNotFound(err) {
			return domainerrors.NotFound("user not found")
		}
		return fmt.Errorf("get user: %w", err)
	}

	if err := s.store.SetUserPicture(ctx, userID, "", ""); err != nil {
		return fmt.Errorf("clear user picture: %w", err)
	}

	if user.PicturePath != "" {
		if err := s.pictures.Remove(user.PicturePath); err != nil {
			s.logger.Warn("failed to remove profile image", "user_id", userID, "error", err)
		}
	}

	return nil
}

// resolve looks a user up by ID first, then by username.
func (s *UserService) resolve(ctx context.Context, identifier string) (*domain.User, error) {
	if strings.HasPrefix(identifier, "user-") {
		user, err := s.store.GetUser(ctx, identifier)
		if err == nil {
			return user, nil
		}
		if !store.IsNotFound(err) {
			return nil, fmt.Errorf("get user: %w", err)
		}
	}

	user, err := s.store.GetUserByUsername(ctx, identifier)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, domainerrors.NotFoundf("user %q not found", identifier)
		}
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return user, nil
}
