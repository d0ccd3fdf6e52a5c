package service

import (
	"context"
	"errors"
	"testing"

	"roomie/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn       func(context.Context, string) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	updateFn        func(context.Context, *models.User) error
	deleteFn        func(context.Context, string) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:       func(_ context.Context, id string) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(_ context.Context, u string) (*models.User, error) { return &models.User{Username: u}, nil },
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		updateFn:        func(_ context.Context, _ *models.User) error { return nil },
		deleteFn:        func(_ context.Context, _ string) error { return nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn            func(context.Context, *models.Post) error
	getByIDFn           func(context.Context, string) (*models.Post, error)
	listFn              func(context.Context, int) ([]*models.Post, error)
	listByAuthorFn      func(context.Context, string, int) ([]*models.Post, error)
	listByContentTypeFn func(context.Context, models.ContentType, int) ([]*models.Post, error)
	searchFn            func(context.Context, string, int) ([]*models.Post, error)
	updateFn            func(context.Context, *models.Post) error
	deleteFn            func(context.Context, string) error
	countByAuthorFn     func(context.Context, string) (int64, error)
	deleteByAuthorFn    func(context.Context, string) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id string) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, limit int) ([]*models.Post, error) {
	return s.listFn(ctx, limit)
}
func (s *postRepoStub) ListByAuthor(ctx context.Context, authorID string, limit int) ([]*models.Post, error) {
	return s.listByAuthorFn(ctx, authorID, limit)
}
func (s *postRepoStub) ListByContentType(ctx context.Context, ct models.ContentType, limit int) ([]*models.Post, error) {
	return s.listByContentTypeFn(ctx, ct, limit)
}
func (s *postRepoStub) Search(ctx context.Context, query string, limit int) ([]*models.Post, error) {
	return s.searchFn(ctx, query, limit)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	return s.countByAuthorFn(ctx, authorID)
}
func (s *postRepoStub) DeleteByAuthor(ctx context.Context, authorID string) error {
	return s.deleteByAuthorFn(ctx, authorID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:            func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn:           func(_ context.Context, id string) (*models.Post, error) { return &models.Post{ID: id}, nil },
		listFn:              func(_ context.Context, _ int) ([]*models.Post, error) { return nil, nil },
		listByAuthorFn:      func(_ context.Context, _ string, _ int) ([]*models.Post, error) { return nil, nil },
		listByContentTypeFn: func(_ context.Context, _ models.ContentType, _ int) ([]*models.Post, error) { return nil, nil },
		searchFn:            func(_ context.Context, _ string, _ int) ([]*models.Post, error) { return nil, nil },
		updateFn:            func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:            func(_ context.Context, _ string) error { return nil },
		countByAuthorFn:     func(_ context.Context, _ string) (int64, error) { return 0, nil },
		deleteByAuthorFn:    func(_ context.Context, _ string) error { return nil },
	}
}

// roomRepoStub is a stub for repository.RoomRepository.
type roomRepoStub struct {
	createFn        func(context.Context, *models.Room) error
	listFn          func(context.Context, int) ([]*models.Room, error)
	getByOwnerFn    func(context.Context, string) (*models.Room, error)
	updateFn        func(context.Context, *models.Room) error
	deleteByOwnerFn func(context.Context, string) error
}

func (s *roomRepoStub) Create(ctx context.Context, room *models.Room) error {
	return s.createFn(ctx, room)
}
func (s *roomRepoStub) List(ctx context.Context, limit int) ([]*models.Room, error) {
	return s.listFn(ctx, limit)
}
func (s *roomRepoStub) GetByOwner(ctx context.Context, ownerID string) (*models.Room, error) {
	return s.getByOwnerFn(ctx, ownerID)
}
func (s *roomRepoStub) Update(ctx context.Context, room *models.Room) error {
	return s.updateFn(ctx, room)
}
func (s *roomRepoStub) DeleteByOwner(ctx context.Context, ownerID string) error {
	return s.deleteByOwnerFn(ctx, ownerID)
}

func noopRoomRepo() *roomRepoStub {
	return &roomRepoStub{
		createFn: func(_ context.Context, _ *models.Room) error { return nil },
		listFn:   func(_ context.Context, _ int) ([]*models.Room, error) { return nil, nil },
		getByOwnerFn: func(_ context.Context, ownerID string) (*models.Room, error) {
			return nil, models.NewNotFoundError("Room", ownerID)
		},
		updateFn:        func(_ context.Context, _ *models.Room) error { return nil },
		deleteByOwnerFn: func(_ context.Context, _ string) error { return nil },
	}
}

// hashPassword is a test helper producing a real bcrypt hash.
func hashPassword(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, models.CodeValidation, appErr.Code)
}

// assertAuthError asserts that err is an AppError with code UNAUTHORIZED.
func assertAuthError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, models.CodeUnauthorized, appErr.Code)
}
