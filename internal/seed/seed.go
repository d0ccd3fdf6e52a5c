// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"time"

	"roomie/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedPassword is the known password every seeded account gets.
const SeedPassword = "password123"

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)

	user := &models.User{
		Username:     fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
		Email:        gofakeit.Email(),
		PasswordHash: string(hashed),
		DisplayName:  gofakeit.Name(),
		Bio:          gofakeit.Sentence(10),
		AvatarURL:    fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// BuildPost constructs a post for the author without persisting it, with
// content appropriate to the given type. Useful for batching.
func (f *Factory) BuildPost(author *models.User, contentType models.ContentType, overrides ...func(*models.Post)) *models.Post {
	post := &models.Post{
		Title:       gofakeit.Sentence(5),
		ContentType: contentType,
		AuthorID:    author.ID,
	}

	switch contentType {
	case models.ContentTypeAudio:
		post.Content = fmt.Sprintf("https://cdn.example.com/audio/%s.mp3", gofakeit.UUID())
	case models.ContentTypeVideo:
		youtubeIDs := []string{"dQw4w9WgXcQ", "9bZkp7q19f0", "3JZ_D3ELwOQ", "L_jWHffIx5E", "kXYiU_JCYtU"}
		id := youtubeIDs[f.rng.Intn(len(youtubeIDs))]
		post.Content = fmt.Sprintf("https://www.youtube.com/watch?v=%s", id)
	case models.ContentTypeGif:
		post.Content = fmt.Sprintf("https://media.example.com/gifs/%s.gif", gofakeit.UUID())
	default:
		post.Content = gofakeit.Paragraph(2, 4, 8, "\n\n")
	}

	// realistic created_at spread over the last 90 days
	daysBack := f.rng.Intn(90)
	hoursBack := f.rng.Intn(24)
	minsBack := f.rng.Intn(60)
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)
	post.UpdatedAt = post.CreatedAt

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreateRoom constructs and persists a personal room for the owner with
// plausible JSON collections.
func (f *Factory) CreateRoom(owner *models.User, overrides ...func(*models.Room)) (*models.Room, error) {
	room := &models.Room{
		OwnerID: owner.ID,
		Name:    fmt.Sprintf("%s's room", owner.DisplayName),
		Config: json.RawMessage(fmt.Sprintf(`{"theme":%q,"wallpaper":%q}`,
			gofakeit.RandomString([]string{"dusk", "noon", "midnight"}),
			fmt.Sprintf("https://images.example.com/walls/%s.jpg", gofakeit.UUID()))),
		PosterItems: json.RawMessage(fmt.Sprintf(`[{"title":%q,"url":%q}]`,
			gofakeit.MovieName(),
			fmt.Sprintf("https://images.example.com/posters/%s.jpg", gofakeit.UUID()))),
		MusicLinks: json.RawMessage(fmt.Sprintf(`[%q]`,
			fmt.Sprintf("https://open.spotify.com/track/%s", gofakeit.LetterN(22)))),
		Library: json.RawMessage(fmt.Sprintf(`[{"title":%q,"author":%q}]`,
			gofakeit.BookTitle(), gofakeit.BookAuthor())),
	}

	for _, override := range overrides {
		override(room)
	}

	if err := f.db.Create(room).Error; err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}
	return room, nil
}

// CreatePost builds and persists a post for the author.
func (f *Factory) CreatePost(author *models.User, contentType models.ContentType, overrides ...func(*models.Post)) (*models.Post, error) {
	post := f.BuildPost(author, contentType, overrides...)
	if err := f.db.Create(post).Error; err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

// Seeder populates the database with demo accounts and posts.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db)}
}

// ClearAll removes all seeded data. Posts and rooms go first so the owner
// foreign keys never dangle.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&models.Post{}).Error; err != nil {
		return fmt.Errorf("clear posts: %w", err)
	}
	if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&models.Room{}).Error; err != nil {
		return fmt.Errorf("clear rooms: %w", err)
	}
	if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&models.User{}).Error; err != nil {
		return fmt.Errorf("clear users: %w", err)
	}
	return nil
}

// Run creates numUsers accounts and numPosts posts spread across them and
// across all content types.
func (s *Seeder) Run(numUsers, numPosts int) error {
	users := make([]*models.User, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return err
		}
		users = append(users, user)
	}
	log.Printf("Seeded %d users (password %q)", len(users), SeedPassword)

	rooms := 0
	for _, user := range users {
		if _, err := s.factory.CreateRoom(user); err != nil {
			return err
		}
		rooms++
	}
	log.Printf("Seeded %d rooms", rooms)

	posts := make([]*models.Post, 0, numPosts)
	for i := 0; i < numPosts; i++ {
		author := users[s.factory.rng.Intn(len(users))]
		contentType := models.ContentTypes[s.factory.rng.Intn(len(models.ContentTypes))]
		posts = append(posts, s.factory.BuildPost(author, contentType))
	}
	if len(posts) > 0 {
		if err := s.db.CreateInBatches(posts, 100).Error; err != nil {
			return fmt.Errorf("create posts: %w", err)
		}
	}
	log.Printf("Seeded %d posts", len(posts))
	return nil
}
