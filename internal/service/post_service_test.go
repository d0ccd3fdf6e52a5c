package service

import (
	"context"
	"testing"
	"time"

	"roomie/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ctPtr(ct models.ContentType) *models.ContentType { return &ct }

func testAuthor() *models.User {
	return &models.User{ID: "u1", Username: "alice", DisplayName: "Alice"}
}

func TestCreatePost_Success(t *testing.T) {
	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, _ string) (*models.User, error) {
		return testAuthor(), nil
	}
	posts := noopPostRepo()
	var created *models.Post
	posts.createFn = func(_ context.Context, p *models.Post) error {
		created = p
		p.ID = "p1"
		return nil
	}

	svc := NewPostService(posts, users)
	view, err := svc.Create(context.Background(), "u1", CreatePostInput{
		Title:       "Getting Started with Widgets",
		Content:     "# Intro\n\nWidgets are great.",
		ContentType: models.ContentTypeMarkdown,
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "p1", view.ID)
	assert.Equal(t, models.ContentTypeMarkdown, view.ContentType)
	assert.Equal(t, "alice", view.Author.Username)
	assert.Equal(t, "u1", view.AuthorID)
}

func TestCreatePost_Validation(t *testing.T) {
	tests := []struct {
		name string
		in   CreatePostInput
	}{
		{"empty title", CreatePostInput{Title: "", Content: "x", ContentType: models.ContentTypeMarkdown}},
		{"empty content", CreatePostInput{Title: "t", Content: "", ContentType: models.ContentTypeMarkdown}},
		{"unknown content type", CreatePostInput{Title: "t", Content: "x", ContentType: "image"}},
		{"audio without url", CreatePostInput{Title: "t", Content: "not a url", ContentType: models.ContentTypeAudio}},
		{"video without url", CreatePostInput{Title: "t", Content: "not a url", ContentType: models.ContentTypeVideo}},
		{"gif without url", CreatePostInput{Title: "t", Content: "not a url", ContentType: models.ContentTypeGif}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts := noopPostRepo()
			posts.createFn = func(_ context.Context, _ *models.Post) error {
				t.Fatal("create must not be reached on validation failure")
				return nil
			}
			svc := NewPostService(posts, noopUserRepo())
			_, err := svc.Create(context.Background(), "u1", tt.in)
			assertValidationError(t, err)
		})
	}
}

func TestCreatePost_UnknownAuthor(t *testing.T) {
	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, id string) (*models.User, error) {
		return nil, models.NewNotFoundError("User", id)
	}

	svc := NewPostService(noopPostRepo(), users)
	_, err := svc.Create(context.Background(), "ghost", CreatePostInput{
		Title:       "t",
		Content:     "x",
		ContentType: models.ContentTypeMarkdown,
	})
	require.Error(t, err)
	assert.True(t, models.IsNotFound(err))
}

func TestGetPost_NotFound(t *testing.T) {
	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id string) (*models.Post, error) {
		return nil, models.NewNotFoundError("Post", id)
	}

	svc := NewPostService(posts, noopUserRepo())
	_, err := svc.GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, models.IsNotFound(err))
}

func TestUpdatePost(t *testing.T) {
	existing := func() *models.Post {
		return &models.Post{
			ID:          "p1",
			Title:       "Old title",
			Content:     "Old content",
			ContentType: models.ContentTypeMarkdown,
			AuthorID:    "u1",
			Author:      *testAuthor(),
			CreatedAt:   time.Now().Add(-time.Hour),
		}
	}

	t.Run("partial update keeps other fields", func(t *testing.T) {
		posts := noopPostRepo()
		posts.getByIDFn = func(_ context.Context, _ string) (*models.Post, error) { return existing(), nil }
		var saved *models.Post
		posts.updateFn = func(_ context.Context, p *models.Post) error {
			saved = p
			return nil
		}

		svc := NewPostService(posts, noopUserRepo())
		view, err := svc.Update(context.Background(), "u1", "p1", UpdatePostInput{
			Title: strPtr("New title"),
		})
		require.NoError(t, err)
		assert.Equal(t, "New title", view.Title)
		assert.Equal(t, "Old content", view.Content)
		require.NotNil(t, saved)
		assert.True(t, saved.UpdatedAt.After(saved.CreatedAt))
	})

	t.Run("not the owner", func(t *testing.T) {
		posts := noopPostRepo()
		posts.getByIDFn = func(_ context.Context, _ string) (*models.Post, error) { return existing(), nil }

		svc := NewPostService(posts, noopUserRepo())
		_, err := svc.Update(context.Background(), "u2", "p1", UpdatePostInput{
			Title: strPtr("New title"),
		})
		assertAuthError(t, err)
	})

	t.Run("content type is immutable", func(t *testing.T) {
		posts := noopPostRepo()
		posts.getByIDFn = func(_ context.Context, _ string) (*models.Post, error) { return existing(), nil }
		posts.updateFn = func(_ context.Context, _ *models.Post) error {
			t.Fatal("update must not be reached when changing the content type")
			return nil
		}

		svc := NewPostService(posts, noopUserRepo())
		_, err := svc.Update(context.Background(), "u1", "p1", UpdatePostInput{
			ContentType: ctPtr(models.ContentTypeVideo),
		})
		assertValidationError(t, err)
	})

	t.Run("restating the same content type is fine", func(t *testing.T) {
		posts := noopPostRepo()
		posts.getByIDFn = func(_ context.Context, _ string) (*models.Post, error) { return existing(), nil }

		svc := NewPostService(posts, noopUserRepo())
		_, err := svc.Update(context.Background(), "u1", "p1", UpdatePostInput{
			ContentType: ctPtr(models.ContentTypeMarkdown),
			Content:     strPtr("Updated content"),
		})
		assert.NoError(t, err)
	})

	t.Run("content validated against the post's own type", func(t *testing.T) {
		audioPost := existing()
		audioPost.ContentType = models.ContentTypeAudio
		audioPost.Content = "https://cdn.example.com/a.mp3"
		posts := noopPostRepo()
		posts.getByIDFn = func(_ context.Context, _ string) (*models.Post, error) { return audioPost, nil }

		svc := NewPostService(posts, noopUserRepo())
		_, err := svc.Update(context.Background(), "u1", "p1", UpdatePostInput{
			Content: strPtr("this is not a url"),
		})
		assertValidationError(t, err)
	})

	t.Run("missing post", func(t *testing.T) {
		posts := noopPostRepo()
		posts.getByIDFn = func(_ context.Context, id string) (*models.Post, error) {
			return nil, models.NewNotFoundError("Post", id)
		}

		svc := NewPostService(posts, noopUserRepo())
		_, err := svc.Update(context.Background(), "u1", "missing", UpdatePostInput{
			Title: strPtr("x"),
		})
		assert.True(t, models.IsNotFound(err))
	})
}

func TestDeletePost(t *testing.T) {
	t.Run("owner deletes", func(t *testing.T) {
		posts := noopPostRepo()
		posts.getByIDFn = func(_ context.Context, id string) (*models.Post, error) {
			return &models.Post{ID: id, AuthorID: "u1"}, nil
		}
		deleted := false
		posts.deleteFn = func(_ context.Context, id string) error {
			deleted = true
			return nil
		}

		svc := NewPostService(posts, noopUserRepo())
		require.NoError(t, svc.Delete(context.Background(), "u1", "p1"))
		assert.True(t, deleted)
	})

	t.Run("missing post is not found, not success", func(t *testing.T) {
		posts := noopPostRepo()
		posts.getByIDFn = func(_ context.Context, id string) (*models.Post, error) {
			return nil, models.NewNotFoundError("Post", id)
		}

		svc := NewPostService(posts, noopUserRepo())
		err := svc.Delete(context.Background(), "u1", "missing")
		require.Error(t, err)
		assert.True(t, models.IsNotFound(err))
	})

	t.Run("not the owner", func(t *testing.T) {
		posts := noopPostRepo()
		posts.getByIDFn = func(_ context.Context, id string) (*models.Post, error) {
			return &models.Post{ID: id, AuthorID: "u1"}, nil
		}

		svc := NewPostService(posts, noopUserRepo())
		assertAuthError(t, svc.Delete(context.Background(), "u2", "p1"))
	})
}

func TestListAll_ClampsLimit(t *testing.T) {
	var gotLimit int
	posts := noopPostRepo()
	posts.listFn = func(_ context.Context, limit int) ([]*models.Post, error) {
		gotLimit = limit
		return nil, nil
	}

	svc := NewPostService(posts, noopUserRepo())

	_, err := svc.ListAll(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultListLimit, gotLimit)

	_, err = svc.ListAll(context.Background(), 1000)
	require.NoError(t, err)
	assert.Equal(t, MaxListLimit, gotLimit)

	_, err = svc.ListAll(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 5, gotLimit)
}

func TestListByContentType_RejectsUnknown(t *testing.T) {
	svc := NewPostService(noopPostRepo(), noopUserRepo())
	_, err := svc.ListByContentType(context.Background(), "image", DefaultListLimit)
	assertValidationError(t, err)
}

func TestSearch_EmptyQueryListsAll(t *testing.T) {
	listCalled := false
	posts := noopPostRepo()
	posts.listFn = func(_ context.Context, _ int) ([]*models.Post, error) {
		listCalled = true
		return nil, nil
	}
	posts.searchFn = func(_ context.Context, _ string, _ int) ([]*models.Post, error) {
		t.Fatal("search must not run for an empty query")
		return nil, nil
	}

	svc := NewPostService(posts, noopUserRepo())
	_, err := svc.Search(context.Background(), "   ", DefaultListLimit)
	require.NoError(t, err)
	assert.True(t, listCalled)
}

func TestSearch_PassesQueryThrough(t *testing.T) {
	var gotQuery string
	posts := noopPostRepo()
	posts.searchFn = func(_ context.Context, query string, _ int) ([]*models.Post, error) {
		gotQuery = query
		return []*models.Post{{ID: "p1", Author: *testAuthor()}}, nil
	}

	svc := NewPostService(posts, noopUserRepo())
	results, err := svc.Search(context.Background(), "widgets", DefaultListLimit)
	require.NoError(t, err)
	assert.Equal(t, "widgets", gotQuery)
	require.Len(t, results, 1)
	assert.Equal(t, "alice", results[0].Author.Username)
}
