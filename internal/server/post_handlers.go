package server

import (
	"roomie/internal/models"
	"roomie/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts
// @Summary Create a post
// @Description Create a post of one of the supported content types
// @Tags posts
// @Accept json
// @Produce json
// @Param request body object{title=string,content=string,contentType=string} true "New post"
// @Success 201 {object} models.PostWithAuthor
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	var req struct {
		Title       string             `json:"title"`
		Content     string             `json:"content"`
		ContentType models.ContentType `json:"contentType"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.Create(c.Context(), userID, service.CreatePostInput{
		Title:       req.Title,
		Content:     req.Content,
		ContentType: req.ContentType,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusFor(err), err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost handles GET /api/posts/:id
// @Summary Read a post
// @Description Fetch a single post with its author
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} models.PostWithAuthor
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	post, err := s.postService.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return models.RespondWithError(c, models.StatusFor(err), err)
	}
	return c.JSON(post)
}

// GetPosts handles GET /api/posts
// @Summary Browse posts
// @Description List posts newest first, optionally filtered by content type
// @Tags posts
// @Produce json
// @Param type query string false "Content type filter (markdown, audio, video, gif)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Success 200 {array} models.PostWithAuthor
// @Failure 400 {object} models.ErrorResponse
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	limit := parseLimit(c)

	var (
		posts []*models.PostWithAuthor
		err   error
	)
	if filter := c.Query("type"); filter != "" {
		posts, err = s.postService.ListByContentType(c.Context(), models.ContentType(filter), limit)
	} else {
		posts, err = s.postService.ListAll(c.Context(), limit)
	}
	if err != nil {
		return models.RespondWithError(c, models.StatusFor(err), err)
	}
	return c.JSON(posts)
}

// SearchPosts handles GET /api/posts/search
// @Summary Search posts
// @Description Case-insensitive substring match over title and content
// @Tags posts
// @Produce json
// @Param q query string false "Search query; empty lists everything"
// @Param limit query int false "Page size (default 20, max 100)"
// @Success 200 {array} models.PostWithAuthor
// @Router /posts/search [get]
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	posts, err := s.postService.Search(c.Context(), c.Query("q"), parseLimit(c))
	if err != nil {
		return models.RespondWithError(c, models.StatusFor(err), err)
	}
	return c.JSON(posts)
}

// UpdatePost handles PUT /api/posts/:id
// @Summary Update a post
// @Description Apply a partial update to a post the caller owns
// @Tags posts
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param request body object{title=string,content=string} true "Fields to update"
// @Success 200 {object} models.PostWithAuthor
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [put]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	var req struct {
		Title       *string             `json:"title"`
		Content     *string             `json:"content"`
		ContentType *models.ContentType `json:"contentType"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.Update(c.Context(), userID, c.Params("id"), service.UpdatePostInput{
		Title:       req.Title,
		Content:     req.Content,
		ContentType: req.ContentType,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusFor(err), err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
// @Summary Delete a post
// @Description Delete a post the caller owns
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} object{message=string}
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	if err := s.postService.Delete(c.Context(), userID, c.Params("id")); err != nil {
		return models.RespondWithError(c, models.StatusFor(err), err)
	}
	return c.JSON(fiber.Map{
		"message": "Post deleted",
	})
}
