package repository

import (
	"context"

	"roomie/internal/cache"
	"roomie/internal/models"

	"gorm.io/gorm"
)

// RoomRepository defines the interface for room data operations
type RoomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	List(ctx context.Context, limit int) ([]*models.Room, error)
	GetByOwner(ctx context.Context, ownerID string) (*models.Room, error)
	Update(ctx context.Context, room *models.Room) error
	DeleteByOwner(ctx context.Context, ownerID string) error
}

// roomRepository implements RoomRepository
type roomRepository struct {
	db *gorm.DB
}

// NewRoomRepository creates a new room repository
func NewRoomRepository(db *gorm.DB) RoomRepository {
	return &roomRepository{db: db}
}

func (r *roomRepository) Create(ctx context.Context, room *models.Room) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if err := r.db.WithContext(ctx).Create(room).Error; err != nil {
		return mapStoreError(err, "Room", room.ID)
	}
	cache.InvalidateRoom(ctx, room.OwnerID)
	return nil
}

func (r *roomRepository) List(ctx context.Context, limit int) ([]*models.Room, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var rooms []*models.Room
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Order("created_at DESC").
		Limit(limit).
		Find(&rooms).Error
	if err != nil {
		return nil, mapStoreError(err, "Room", "hub")
	}
	return rooms, nil
}

// GetByOwner returns the owner's personal room, the oldest one when several
// exist.
func (r *roomRepository) GetByOwner(ctx context.Context, ownerID string) (*models.Room, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var room models.Room
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		First(&room).Error; err != nil {
		return nil, mapStoreError(err, "Room", ownerID)
	}
	return &room, nil
}

func (r *roomRepository) Update(ctx context.Context, room *models.Room) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if err := r.db.WithContext(ctx).Save(room).Error; err != nil {
		return mapStoreError(err, "Room", room.ID)
	}
	cache.InvalidateRoom(ctx, room.OwnerID)
	return nil
}

// DeleteByOwner removes every room of an owner. Used by account deletion.
func (r *roomRepository) DeleteByOwner(ctx context.Context, ownerID string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Delete(&models.Room{}).Error; err != nil {
		return mapStoreError(err, "Room", ownerID)
	}
	cache.InvalidateRoom(ctx, ownerID)
	return nil
}
