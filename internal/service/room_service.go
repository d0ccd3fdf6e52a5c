package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"roomie/internal/cache"
	"roomie/internal/models"
	"roomie/internal/repository"
	"roomie/internal/validation"
)

var (
	emptyJSONObject = json.RawMessage("{}")
	emptyJSONArray  = json.RawMessage("[]")
)

// RoomService covers personal rooms: the hub listing, the per-user room
// page, and room authoring.
type RoomService struct {
	roomRepo repository.RoomRepository
	userRepo repository.UserRepository
}

// NewRoomService returns a new RoomService.
func NewRoomService(roomRepo repository.RoomRepository, userRepo repository.UserRepository) *RoomService {
	return &RoomService{roomRepo: roomRepo, userRepo: userRepo}
}

// CreateRoomInput carries the fields for a new room. The JSON collections
// default to empty when omitted.
type CreateRoomInput struct {
	Name        string
	Config      json.RawMessage
	PosterItems json.RawMessage
	MusicLinks  json.RawMessage
	Library     json.RawMessage
}

// Create validates the input and stores a new room for the owner. An owner
// has at most one room; a second create reports a conflict.
func (s *RoomService) Create(ctx context.Context, ownerID string, in CreateRoomInput) (*models.RoomWithOwner, error) {
	if err := validateRoomInput(in); err != nil {
		return nil, err
	}

	owner, err := s.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if _, err := s.roomRepo.GetByOwner(ctx, ownerID); err == nil {
		return nil, models.NewConflictError("You already have a room")
	} else if !models.IsNotFound(err) {
		return nil, err
	}

	room := &models.Room{
		OwnerID:     owner.ID,
		Name:        strings.TrimSpace(in.Name),
		Config:      defaultJSON(in.Config, emptyJSONObject),
		PosterItems: defaultJSON(in.PosterItems, emptyJSONArray),
		MusicLinks:  defaultJSON(in.MusicLinks, emptyJSONArray),
		Library:     defaultJSON(in.Library, emptyJSONArray),
	}
	if err := s.roomRepo.Create(ctx, room); err != nil {
		return nil, err
	}

	room.Owner = *owner
	return room.WithOwner(), nil
}

// UpdateRoomInput carries partial room updates. Nil fields are left
// unchanged.
type UpdateRoomInput struct {
	Name        *string
	Config      json.RawMessage
	PosterItems json.RawMessage
	MusicLinks  json.RawMessage
	Library     json.RawMessage
}

// Update applies a partial update to the caller's own room.
func (s *RoomService) Update(ctx context.Context, ownerID string, in UpdateRoomInput) (*models.RoomWithOwner, error) {
	room, err := s.roomRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if err := validation.ValidateRoomName(*in.Name); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		room.Name = strings.TrimSpace(*in.Name)
	}
	if in.Config != nil {
		if err := validation.ValidateJSONObject("config", in.Config); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		room.Config = in.Config
	}
	for _, f := range []struct {
		name string
		raw  json.RawMessage
		dst  *json.RawMessage
	}{
		{"posterItems", in.PosterItems, &room.PosterItems},
		{"musicLinks", in.MusicLinks, &room.MusicLinks},
		{"library", in.Library, &room.Library},
	} {
		if f.raw == nil {
			continue
		}
		if err := validation.ValidateJSONArray(f.name, f.raw); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		*f.dst = f.raw
	}
	room.UpdatedAt = time.Now()

	if err := s.roomRepo.Update(ctx, room); err != nil {
		return nil, err
	}
	return room.WithOwner(), nil
}

// ListAll returns the newest rooms across all owners. Only the default page
// size is served from the hub cache.
func (s *RoomService) ListAll(ctx context.Context, limit int) ([]*models.RoomWithOwner, error) {
	limit = clampLimit(limit)
	if limit != DefaultListLimit {
		rooms, err := s.roomRepo.List(ctx, limit)
		if err != nil {
			return nil, err
		}
		return withOwners(rooms), nil
	}

	var views []*models.RoomWithOwner
	err := cache.Aside(ctx, cache.RoomHubKey(), &views, cache.RoomHubTTL, func() error {
		rooms, fetchErr := s.roomRepo.List(ctx, limit)
		if fetchErr != nil {
			return fetchErr
		}
		views = withOwners(rooms)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// GetPersonal returns the personal room of a username. Both a missing user
// and a user without a room report not found.
func (s *RoomService) GetPersonal(ctx context.Context, username string) (*models.RoomWithOwner, error) {
	owner, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	var view models.RoomWithOwner
	err = cache.Aside(ctx, cache.RoomKey(owner.ID), &view, cache.RoomTTL, func() error {
		room, fetchErr := s.roomRepo.GetByOwner(ctx, owner.ID)
		if fetchErr != nil {
			return fetchErr
		}
		view = *room.WithOwner()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func validateRoomInput(in CreateRoomInput) error {
	if err := validation.ValidateRoomName(in.Name); err != nil {
		return models.NewValidationError(err.Error())
	}
	if err := validation.ValidateJSONObject("config", in.Config); err != nil {
		return models.NewValidationError(err.Error())
	}
	for _, f := range []struct {
		name string
		raw  json.RawMessage
	}{
		{"posterItems", in.PosterItems},
		{"musicLinks", in.MusicLinks},
		{"library", in.Library},
	} {
		if err := validation.ValidateJSONArray(f.name, f.raw); err != nil {
			return models.NewValidationError(err.Error())
		}
	}
	return nil
}

func defaultJSON(raw, fallback json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return fallback
	}
	return raw
}

func withOwners(rooms []*models.Room) []*models.RoomWithOwner {
	views := make([]*models.RoomWithOwner, 0, len(rooms))
	for _, r := range rooms {
		views = append(views, r.WithOwner())
	}
	return views
}
