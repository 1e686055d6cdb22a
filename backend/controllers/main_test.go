package controllers_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"testing"
	"time"

	"project/backend/cache"
	"project/backend/config"
	"project/backend/mail"
	"project/backend/models"
	"project/backend/routes"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type recordingSender struct {
	messages []mail.Message
	fail     bool
}

func (s *recordingSender) Send(ctx context.Context, msg mail.Message) error {
	if s.fail {
		return errors.New("mail transport down")
	}
	s.messages = append(s.messages, msg)
	return nil
}

type testEnv struct {
	app    *fiber.App
	db     *gorm.DB
	kv     *cache.MemoryKV
	sender *recordingSender
	cfg    *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := utils.MigrateDB(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	cfg := &config.Config{
		JWTSecret:       "test-secret",
		CacheTTLSeconds: 60,
		RetentionDays:   30,
	}

	quiet := log.New(io.Discard, "", 0)
	kv := cache.NewMemoryKV()
	catalog := cache.NewCatalogCache(db, kv, time.Minute, quiet)
	sender := &recordingSender{}

	app := fiber.New()
	routes.SetupRoutes(app, db, catalog, sender, cfg, quiet)

	return &testEnv{app: app, db: db, kv: kv, sender: sender, cfg: cfg}
}

func (e *testEnv) token(t *testing.T, user models.User) string {
	t.Helper()
	token, err := utils.GenerateJWTToken(user, e.cfg)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

// seedCourse creates a course with one content item carrying a video
// URL and a suggestion, so redaction is observable.
func (e *testEnv) seedCourse(t *testing.T) models.Course {
	t.Helper()
	course := models.Course{
		Name:        "Intro to Go",
		Description: "From zero to services",
		Price:       49.99,
		Contents: []models.CourseContent{
			{
				Title:       "Getting started",
				Description: "Installing the toolchain",
				VideoURL:    "https://cdn.example.com/videos/1.mp4",
				VideoLength: 12,
				Suggestion:  "Watch before the exercises",
			},
		},
	}
	if err := e.db.Create(&course).Error; err != nil {
		t.Fatalf("seed course: %v", err)
	}
	return course
}
