// Package service implements the application's business operations on top of
// the repository layer. Every operation takes the identity it acts for as an
// explicit parameter; there is no ambient auth state.
package service

import (
	"context"
	"strings"

	"roomie/internal/cache"
	"roomie/internal/middleware"
	"roomie/internal/models"
	"roomie/internal/repository"
	"roomie/internal/session"
	"roomie/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the fixed work factor for password hashing.
const bcryptCost = 10

// invalidCredentials is the one message every failed login gets: a missing
// account and a wrong password must be indistinguishable to the caller.
const invalidCredentials = "Invalid email or password"

// AuthService turns credentials into sessions and sessions into users.
type AuthService struct {
	userRepo repository.UserRepository
	sessions *session.Manager
}

// NewAuthService returns a new AuthService.
func NewAuthService(userRepo repository.UserRepository, sessions *session.Manager) *AuthService {
	return &AuthService{userRepo: userRepo, sessions: sessions}
}

// RegisterInput carries registration fields. Bio and AvatarURL are optional.
type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	DisplayName string
	Bio         string
	AvatarURL   string
}

// Register validates the input, creates the user, and establishes a session
// bound to it. Validation happens before any side effect and reports the
// first failing field. Uniqueness is enforced by the store constraint, so
// two concurrent registrations cannot both pass a pre-check.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, *session.Session, error) {
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, nil, models.NewValidationError(err.Error())
	}
	email := normalizeEmail(in.Email)
	if err := validation.ValidateEmail(email); err != nil {
		return nil, nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateDisplayName(in.DisplayName); err != nil {
		return nil, nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateBio(in.Bio); err != nil {
		return nil, nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateAvatarURL(in.AvatarURL); err != nil {
		return nil, nil, models.NewValidationError(err.Error())
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:     in.Username,
		Email:        email,
		PasswordHash: string(hashed),
		DisplayName:  in.DisplayName,
		Bio:          in.Bio,
		AvatarURL:    in.AvatarURL,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		middleware.AuthAttempts.WithLabelValues("register", "failure").Inc()
		return nil, nil, err
	}

	sess, err := s.sessions.Issue(user)
	if err != nil {
		return nil, nil, models.NewInternalError(err)
	}

	cache.InvalidateUser(ctx, user.ID, user.Username)
	middleware.AuthAttempts.WithLabelValues("register", "success").Inc()
	return user, sess, nil
}

// Login verifies credentials and establishes a session. Store connectivity
// errors propagate; they are never folded into the credential error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*session.Session, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		middleware.AuthAttempts.WithLabelValues("login", "failure").Inc()
		return nil, models.NewAuthError(invalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		middleware.AuthAttempts.WithLabelValues("login", "failure").Inc()
		return nil, models.NewAuthError(invalidCredentials)
	}

	sess, err := s.sessions.Issue(user)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	cache.InvalidateUser(ctx, user.ID, user.Username)
	middleware.AuthAttempts.WithLabelValues("login", "success").Inc()
	return sess, nil
}

// Logout revokes the presented session token. Idempotent: a missing,
// expired, or already-revoked token is not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	sess, err := s.sessions.Parse(ctx, token)
	if err != nil {
		return nil
	}
	cache.InvalidateUser(ctx, sess.UserID, sess.Username)
	return s.sessions.RevokeSession(ctx, sess)
}

// CurrentUser resolves the presented session token to its user.
//
// An absent, invalid, or expired session and a session whose user no longer
// exists all return (nil, nil): not being logged in is an expected state,
// not an error. A store connectivity failure returns the error unchanged so
// callers can show a retry path instead of treating the user as logged out.
// The result is cached per user; login, logout, register, and profile
// updates invalidate it immediately. The cached payload never carries
// password material.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}

	sess, err := s.sessions.Parse(ctx, token)
	if err != nil {
		return nil, nil
	}

	var user models.User
	err = cache.Aside(ctx, cache.SessionUserKey(sess.UserID), &user, cache.SessionUserTTL, func() error {
		fetched, fetchErr := s.userRepo.GetByID(ctx, sess.UserID)
		if fetchErr != nil {
			return fetchErr
		}
		user = *fetched
		return nil
	})
	if err != nil {
		if models.IsNotFound(err) {
			// The account behind the session was deleted.
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// ChangePassword verifies the old password, stores a new hash, and revokes
// every other session of the user.
func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return models.NewAuthError("Current password is incorrect")
	}
	if err := validation.ValidatePassword(newPassword); err != nil {
		return models.NewValidationError(err.Error())
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return models.NewInternalError(err)
	}
	user.PasswordHash = string(hashed)

	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}
	return s.sessions.RevokeAll(ctx, userID)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
