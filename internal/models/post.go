package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContentType is the discriminant tag determining how a post's content
// field is interpreted: markdown text, or an embedded media URL.
type ContentType string

const (
	ContentTypeMarkdown ContentType = "markdown"
	ContentTypeAudio    ContentType = "audio"
	ContentTypeVideo    ContentType = "video"
	ContentTypeGif      ContentType = "gif"
)

// ContentTypes lists every supported content kind.
var ContentTypes = []ContentType{
	ContentTypeMarkdown,
	ContentTypeAudio,
	ContentTypeVideo,
	ContentTypeGif,
}

// Valid reports whether c is one of the supported content kinds.
func (c ContentType) Valid() bool {
	switch c {
	case ContentTypeMarkdown, ContentTypeAudio, ContentTypeVideo, ContentTypeGif:
		return true
	}
	return false
}

// IsMedia reports whether the content field holds a media URL rather than
// markdown text. The switch is exhaustive over the supported kinds.
func (c ContentType) IsMedia() bool {
	switch c {
	case ContentTypeMarkdown:
		return false
	case ContentTypeAudio, ContentTypeVideo, ContentTypeGif:
		return true
	}
	return false
}

func (c ContentType) String() string { return string(c) }

// Post represents a content entry in the Roomie application.
// ContentType is fixed at creation; changing the media kind of an existing
// post is not a supported update.
type Post struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	Title       string         `gorm:"size:200;not null" json:"title"`
	Content     string         `gorm:"type:text;not null" json:"content"`
	ContentType ContentType    `gorm:"size:16;not null;index" json:"content_type"`
	AuthorID    string         `gorm:"size:36;not null;index" json:"author_id"`
	Author      User           `gorm:"foreignKey:AuthorID" json:"-"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns an opaque identifier when none was provided.
func (p *Post) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// PostWithAuthor is a post joined with the minimal author projection.
// Every list/search/read operation returns this shape.
type PostWithAuthor struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Content     string      `json:"content"`
	ContentType ContentType `json:"content_type"`
	AuthorID    string      `json:"author_id"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	Author      Author      `json:"author"`
}

// WithAuthor joins p with the author projection of its preloaded Author.
func (p *Post) WithAuthor() *PostWithAuthor {
	return &PostWithAuthor{
		ID:          p.ID,
		Title:       p.Title,
		Content:     p.Content,
		ContentType: p.ContentType,
		AuthorID:    p.AuthorID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Author:      p.Author.AuthorProfile(),
	}
}
