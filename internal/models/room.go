package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Room is a user's personal space: a named surface carrying free-form JSON
// configuration plus curated poster, music, and library collections. Every
// user has at most one room that serves as their personal page.
type Room struct {
	ID          string          `gorm:"primaryKey;size:36" json:"id"`
	OwnerID     string          `gorm:"size:36;not null;index" json:"owner_id"`
	Owner       User            `gorm:"foreignKey:OwnerID" json:"-"`
	Name        string          `gorm:"size:100;not null" json:"name"`
	Config      json.RawMessage `gorm:"type:json" json:"config"`
	PosterItems json.RawMessage `gorm:"type:json" json:"poster_items"`
	MusicLinks  json.RawMessage `gorm:"type:json" json:"music_links"`
	Library     json.RawMessage `gorm:"type:json" json:"library"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

// BeforeCreate assigns an opaque identifier when none was provided.
func (r *Room) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// RoomWithOwner is a room joined with the minimal owner projection, the
// shape every room read returns.
type RoomWithOwner struct {
	ID          string          `json:"id"`
	OwnerID     string          `json:"owner_id"`
	Name        string          `json:"name"`
	Config      json.RawMessage `json:"config"`
	PosterItems json.RawMessage `json:"poster_items"`
	MusicLinks  json.RawMessage `json:"music_links"`
	Library     json.RawMessage `json:"library"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Owner       Author          `json:"owner"`
}

// WithOwner joins r with the author projection of its preloaded Owner.
func (r *Room) WithOwner() *RoomWithOwner {
	return &RoomWithOwner{
		ID:          r.ID,
		OwnerID:     r.OwnerID,
		Name:        r.Name,
		Config:      r.Config,
		PosterItems: r.PosterItems,
		MusicLinks:  r.MusicLinks,
		Library:     r.Library,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Owner:       r.Owner.AuthorProfile(),
	}
}
