package server

import (
	"encoding/json"

	"roomie/internal/models"
	"roomie/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateRoom handles POST /api/rooms
// @Summary Create a room
// @Description Create the caller's personal room
// @Tags rooms
// @Accept json
// @Produce json
// @Param request body object{name=string,config=object,posterItems=array,musicLinks=array,library=array} true "New room"
// @Success 201 {object} models.RoomWithOwner
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /rooms [post]
func (s *Server) CreateRoom(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	var req struct {
		Name        string          `json:"name"`
		Config      json.RawMessage `json:"config"`
		PosterItems json.RawMessage `json:"posterItems"`
		MusicLinks  json.RawMessage `json:"musicLinks"`
		Library     json.RawMessage `json:"library"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	room, err := s.roomService.Create(c.Context(), userID, service.CreateRoomInput{
		Name:        req.Name,
		Config:      req.Config,
		PosterItems: req.PosterItems,
		MusicLinks:  req.MusicLinks,
		Library:     req.Library,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusFor(err), err)
	}
	return c.Status(fiber.StatusCreated).JSON(room)
}

// GetRooms handles GET /api/rooms
// @Summary Browse rooms
// @Description List rooms newest first
// @Tags rooms
// @Produce json
// @Param limit query int false "Page size (default 20, max 100)"
// @Success 200 {array} models.RoomWithOwner
// @Router /rooms [get]
func (s *Server) GetRooms(c *fiber.Ctx) error {
	rooms, err := s.roomService.ListAll(c.Context(), parseLimit(c))
	if err != nil {
		return models.RespondWithError(c, models.StatusFor(err), err)
	}
	return c.JSON(rooms)
}

// GetPersonalRoom handles GET /api/rooms/personal/:username
// @Summary Personal room
// @Description Fetch the personal room of a username
// @Tags rooms
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} models.RoomWithOwner
// @Failure 404 {object} models.ErrorResponse
// @Router /rooms/personal/{username} [get]
func (s *Server) GetPersonalRoom(c *fiber.Ctx) error {
	room, err := s.roomService.GetPersonal(c.Context(), c.Params("username"))
	if err != nil {
		return models.RespondWithError(c, models.StatusFor(err), err)
	}
	return c.JSON(room)
}

// UpdateMyRoom handles PUT /api/rooms/me
// @Summary Update own room
// @Description Apply a partial update to the caller's room
// @Tags rooms
// @Accept json
// @Produce json
// @Param request body object{name=string,config=object,posterItems=array,musicLinks=array,library=array} true "Fields to update"
// @Success 200 {object} models.RoomWithOwner
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /rooms/me [put]
func (s *Server) UpdateMyRoom(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	var req struct {
		Name        *string         `json:"name"`
		Config      json.RawMessage `json:"config"`
		PosterItems json.RawMessage `json:"posterItems"`
		MusicLinks  json.RawMessage `json:"musicLinks"`
		Library     json.RawMessage `json:"library"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	room, err := s.roomService.Update(c.Context(), userID, service.UpdateRoomInput{
		Name:        req.Name,
		Config:      req.Config,
		PosterItems: req.PosterItems,
		MusicLinks:  req.MusicLinks,
		Library:     req.Library,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusFor(err), err)
	}
	return c.JSON(room)
}
