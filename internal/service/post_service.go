package service

import (
	"context"
	"strings"
	"time"

	"roomie/internal/cache"
	"roomie/internal/models"
	"roomie/internal/repository"
	"roomie/internal/validation"
)

const (
	// DefaultListLimit is the page size when the caller does not ask for one.
	DefaultListLimit = 20
	// MaxListLimit caps any requested page size.
	MaxListLimit = 100
)

// PostService covers post authoring, reads, and search.
type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
}

// NewPostService returns a new PostService.
func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository) *PostService {
	return &PostService{postRepo: postRepo, userRepo: userRepo}
}

// CreatePostInput carries the fields for a new post.
type CreatePostInput struct {
	Title       string
	Content     string
	ContentType models.ContentType
}

// Create validates the input and stores a new post for the author. The
// returned shape carries the joined author projection.
func (s *PostService) Create(ctx context.Context, authorID string, in CreatePostInput) (*models.PostWithAuthor, error) {
	if err := validatePostInput(in.Title, in.Content, in.ContentType); err != nil {
		return nil, err
	}

	author, err := s.userRepo.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:       strings.TrimSpace(in.Title),
		Content:     in.Content,
		ContentType: in.ContentType,
		AuthorID:    author.ID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	post.Author = *author
	return post.WithAuthor(), nil
}

// GetByID returns a single post with its author. The joined shape is cached
// by post id; post updates and deletes invalidate it.
func (s *PostService) GetByID(ctx context.Context, id string) (*models.PostWithAuthor, error) {
	var view models.PostWithAuthor
	err := cache.Aside(ctx, cache.PostKey(id), &view, cache.PostTTL, func() error {
		post, fetchErr := s.postRepo.GetByID(ctx, id)
		if fetchErr != nil {
			return fetchErr
		}
		view = *post.WithAuthor()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// UpdatePostInput carries partial post updates. Nil fields are left
// unchanged. ContentType is accepted only to reject attempts to change it.
type UpdatePostInput struct {
	Title       *string
	Content     *string
	ContentType *models.ContentType
}

// Update applies a partial update to a post the caller owns. The content
// type of a post is fixed at creation; the post's own type governs content
// validation. Concurrent updates resolve last-write-wins.
func (s *PostService) Update(ctx context.Context, userID, postID string, in UpdatePostInput) (*models.PostWithAuthor, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, models.NewAuthError("You can only edit your own posts")
	}

	if in.ContentType != nil && *in.ContentType != post.ContentType {
		return nil, models.NewValidationError("Content type cannot be changed after creation")
	}
	if in.Title != nil {
		if err := validation.ValidateTitle(*in.Title); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		post.Title = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil {
		if err := validation.ValidateContent(*in.Content, post.ContentType); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		post.Content = *in.Content
	}
	post.UpdatedAt = time.Now()

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post.WithAuthor(), nil
}

// Delete removes a post the caller owns. Deleting a missing post reports
// not found rather than succeeding silently.
func (s *PostService) Delete(ctx context.Context, userID, postID string) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != userID {
		return models.NewAuthError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, postID)
}

// ListAll returns the newest posts across all authors. Only the default
// page size is served from the feed cache.
func (s *PostService) ListAll(ctx context.Context, limit int) ([]*models.PostWithAuthor, error) {
	limit = clampLimit(limit)
	if limit != DefaultListLimit {
		posts, err := s.postRepo.List(ctx, limit)
		if err != nil {
			return nil, err
		}
		return withAuthors(posts), nil
	}
	return s.cachedList(ctx, cache.FeedKey(), cache.FeedTTL, func() ([]*models.Post, error) {
		return s.postRepo.List(ctx, limit)
	})
}

// ListByAuthor returns the newest posts of one author.
func (s *PostService) ListByAuthor(ctx context.Context, authorID string, limit int) ([]*models.PostWithAuthor, error) {
	limit = clampLimit(limit)
	if limit != DefaultListLimit {
		posts, err := s.postRepo.ListByAuthor(ctx, authorID, limit)
		if err != nil {
			return nil, err
		}
		return withAuthors(posts), nil
	}
	return s.cachedList(ctx, cache.AuthorPostsKey(authorID), cache.AuthorListTTL, func() ([]*models.Post, error) {
		return s.postRepo.ListByAuthor(ctx, authorID, limit)
	})
}

// ListByContentType returns the newest posts of one content type.
func (s *PostService) ListByContentType(ctx context.Context, contentType models.ContentType, limit int) ([]*models.PostWithAuthor, error) {
	if !contentType.Valid() {
		return nil, models.NewValidationError("Unknown content type: " + contentType.String())
	}
	limit = clampLimit(limit)
	if limit != DefaultListLimit {
		posts, err := s.postRepo.ListByContentType(ctx, contentType, limit)
		if err != nil {
			return nil, err
		}
		return withAuthors(posts), nil
	}
	return s.cachedList(ctx, cache.ContentTypeKey(contentType.String()), cache.ContentTypeTTL, func() ([]*models.Post, error) {
		return s.postRepo.ListByContentType(ctx, contentType, limit)
	})
}

// Search matches posts whose title or content contains the query,
// case-insensitively, newest first. An empty query lists everything.
// Results are never cached.
func (s *PostService) Search(ctx context.Context, query string, limit int) ([]*models.PostWithAuthor, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.ListAll(ctx, limit)
	}
	posts, err := s.postRepo.Search(ctx, query, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	return withAuthors(posts), nil
}

func (s *PostService) cachedList(ctx context.Context, key string, ttl time.Duration, fetch func() ([]*models.Post, error)) ([]*models.PostWithAuthor, error) {
	var views []*models.PostWithAuthor
	err := cache.Aside(ctx, key, &views, ttl, func() error {
		posts, fetchErr := fetch()
		if fetchErr != nil {
			return fetchErr
		}
		views = withAuthors(posts)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

func validatePostInput(title, content string, contentType models.ContentType) error {
	if err := validation.ValidateTitle(title); err != nil {
		return models.NewValidationError(err.Error())
	}
	if err := validation.ValidateContentType(contentType); err != nil {
		return models.NewValidationError(err.Error())
	}
	if err := validation.ValidateContent(content, contentType); err != nil {
		return models.NewValidationError(err.Error())
	}
	return nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

func withAuthors(posts []*models.Post) []*models.PostWithAuthor {
	views := make([]*models.PostWithAuthor, 0, len(posts))
	for _, p := range posts {
		views = append(views, p.WithAuthor())
	}
	return views
}
