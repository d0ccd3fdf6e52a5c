package repository

import (
	"context"
	"strings"

	"roomie/internal/cache"
	"roomie/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context, limit int) ([]*models.Post, error)
	ListByAuthor(ctx context.Context, authorID string, limit int) ([]*models.Post, error)
	ListByContentType(ctx context.Context, contentType models.ContentType, limit int) ([]*models.Post, error)
	Search(ctx context.Context, query string, limit int) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id string) error
	CountByAuthor(ctx context.Context, authorID string) (int64, error)
	DeleteByAuthor(ctx context.Context, authorID string) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return mapStoreError(err, "Post", post.ID)
	}
	cache.InvalidatePostLists(ctx, post.AuthorID, post.ContentType.String())
	return nil
}

// GetByID reads the store directly; the cached by-id view holds the joined
// post-with-author shape and is owned by the service layer.
func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var post models.Post
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("id = ?", id).
		First(&post).Error; err != nil {
		return nil, mapStoreError(err, "Post", id)
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, limit int) ([]*models.Post, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, mapStoreError(err, "Post", "feed")
	}
	return posts, nil
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID string, limit int) ([]*models.Post, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, mapStoreError(err, "Post", authorID)
	}
	return posts, nil
}

func (r *postRepository) ListByContentType(ctx context.Context, contentType models.ContentType, limit int) ([]*models.Post, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("content_type = ?", contentType).
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, mapStoreError(err, "Post", contentType)
	}
	return posts, nil
}

// Search matches a case-insensitive substring against title or content.
// LOWER(...) LIKE keeps the query portable between PostgreSQL and the
// SQLite test driver; ILIKE would not be.
func (r *postRepository) Search(ctx context.Context, query string, limit int) ([]*models.Post, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	like := "%" + strings.ToLower(query) + "%"
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", like, like).
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, mapStoreError(err, "Post", query)
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return mapStoreError(err, "Post", post.ID)
	}
	cache.InvalidatePost(ctx, post.ID, post.AuthorID, post.ContentType.String())
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	// Load the discriminant fields first so the exact list views can be
	// invalidated after the delete.
	var post models.Post
	if err := r.db.WithContext(ctx).
		Select("id", "author_id", "content_type").
		Where("id = ?", id).
		First(&post).Error; err != nil {
		return mapStoreError(err, "Post", id)
	}

	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Post{}).Error; err != nil {
		return mapStoreError(err, "Post", id)
	}
	cache.InvalidatePost(ctx, post.ID, post.AuthorID, post.ContentType.String())
	return nil
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("author_id = ?", authorID).
		Count(&count).Error; err != nil {
		return 0, mapStoreError(err, "Post", authorID)
	}
	return count, nil
}

// DeleteByAuthor removes every post of an author. Used by the cascade
// user-deletion policy.
func (r *postRepository) DeleteByAuthor(ctx context.Context, authorID string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var posts []*models.Post
	if err := r.db.WithContext(ctx).
		Select("id", "content_type").
		Where("author_id = ?", authorID).
		Find(&posts).Error; err != nil {
		return mapStoreError(err, "Post", authorID)
	}

	if err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Delete(&models.Post{}).Error; err != nil {
		return mapStoreError(err, "Post", authorID)
	}

	for _, p := range posts {
		cache.InvalidatePost(ctx, p.ID, authorID, p.ContentType.String())
	}
	return nil
}
