package service

import (
	"context"

	"roomie/internal/cache"
	"roomie/internal/config"
	"roomie/internal/models"
	"roomie/internal/repository"
	"roomie/internal/session"
	"roomie/internal/validation"
)

// UserService covers profile reads and account lifecycle.
type UserService struct {
	userRepo     repository.UserRepository
	postRepo     repository.PostRepository
	roomRepo     repository.RoomRepository
	sessions     *session.Manager
	deletePolicy string
}

// NewUserService returns a new UserService. deletePolicy is one of
// config.DeletePolicyCascade or config.DeletePolicyRestrict.
func NewUserService(userRepo repository.UserRepository, postRepo repository.PostRepository, roomRepo repository.RoomRepository, sessions *session.Manager, deletePolicy string) *UserService {
	return &UserService{
		userRepo:     userRepo,
		postRepo:     postRepo,
		roomRepo:     roomRepo,
		sessions:     sessions,
		deletePolicy: deletePolicy,
	}
}

// GetProfile returns the public profile for a username. Usernames are
// immutable, so the profile view is cached under the username itself.
func (s *UserService) GetProfile(ctx context.Context, username string) (*models.PublicProfile, error) {
	var profile models.PublicProfile
	err := cache.Aside(ctx, cache.ProfileKey(username), &profile, cache.ProfileTTL, func() error {
		user, fetchErr := s.userRepo.GetByUsername(ctx, username)
		if fetchErr != nil {
			return fetchErr
		}
		profile = user.Public()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfileInput carries partial profile updates. Nil fields are left
// unchanged; Bio and AvatarURL accept the empty string to clear the value.
type UpdateProfileInput struct {
	DisplayName *string
	Bio         *string
	AvatarURL   *string
}

// UpdateProfile applies a partial update to the user's own profile and
// returns the updated user.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.DisplayName != nil {
		if err := validation.ValidateDisplayName(*in.DisplayName); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.DisplayName = *in.DisplayName
	}
	if in.Bio != nil {
		if err := validation.ValidateBio(*in.Bio); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Bio = *in.Bio
	}
	if in.AvatarURL != nil {
		if err := validation.ValidateAvatarURL(*in.AvatarURL); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.AvatarURL = *in.AvatarURL
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	s.invalidateAuthoredViews(ctx, user.ID)
	return user, nil
}

// invalidateAuthoredViews drops the post read views that embed the user's
// public projection, so a profile change shows up in feeds immediately
// instead of waiting out the list TTLs.
func (s *UserService) invalidateAuthoredViews(ctx context.Context, authorID string) {
	cache.Invalidate(ctx, cache.FeedKey())
	cache.Invalidate(ctx, cache.AuthorPostsKey(authorID))

	posts, err := s.postRepo.ListByAuthor(ctx, authorID, MaxListLimit)
	if err != nil {
		return
	}
	for _, p := range posts {
		cache.Invalidate(ctx, cache.PostKey(p.ID))
		cache.Invalidate(ctx, cache.ContentTypeKey(p.ContentType.String()))
	}
}

// DeleteUser removes the account. Under the restrict policy an account that
// still owns posts cannot be deleted; under the cascade policy its posts are
// deleted first. The personal room always goes with the account, and all
// sessions of the user are revoked either way.
func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	count, err := s.postRepo.CountByAuthor(ctx, userID)
	if err != nil {
		return err
	}

	if count > 0 {
		switch s.deletePolicy {
		case config.DeletePolicyCascade:
			if err := s.postRepo.DeleteByAuthor(ctx, userID); err != nil {
				return err
			}
		default:
			return models.NewConflictError("Account still owns posts; delete them first")
		}
	}

	if err := s.roomRepo.DeleteByOwner(ctx, userID); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}
	return s.sessions.RevokeAll(ctx, userID)
}
