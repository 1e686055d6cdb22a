package controllers_test

import (
	"fmt"
	"testing"
	"time"

	"project/backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func seedNotification(t *testing.T, env *testEnv, title string, createdAt time.Time, status string) models.Notification {
	t.Helper()
	notification := models.Notification{
		Model:   gorm.Model{CreatedAt: createdAt},
		Title:   title,
		Message: title + " message",
		Status:  status,
	}
	if err := env.db.Create(&notification).Error; err != nil {
		t.Fatalf("seed notification: %v", err)
	}
	return notification
}

func TestGetNotificationsNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	now := time.Now()
	seedNotification(t, env, "oldest", now.Add(-48*time.Hour), models.NotificationUnread)
	seedNotification(t, env, "newest", now, models.NotificationUnread)
	seedNotification(t, env, "middle", now.Add(-24*time.Hour), models.NotificationUnread)

	admin := env.token(t, models.User{ID: 1, Name: "Root", Role: "admin"})
	resp, result := doRequest(t, env.app, "GET", "/api/notifications", nil, admin)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, result["success"])

	notifications := result["notifications"].([]interface{})
	assert.Len(t, notifications, 3)
	assert.Equal(t, "newest", notifications[0].(map[string]interface{})["title"])
	assert.Equal(t, "middle", notifications[1].(map[string]interface{})["title"])
	assert.Equal(t, "oldest", notifications[2].(map[string]interface{})["title"])
}

func TestGetNotificationsRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)

	user := env.token(t, models.User{ID: 7, Name: "Alice", Role: "user"})
	resp, result := doRequest(t, env.app, "GET", "/api/notifications", nil, user)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, false, result["success"])
}

func TestUpdateNotificationMarksRead(t *testing.T) {
	env := newTestEnv(t)
	notification := seedNotification(t, env, "new review", time.Now(), models.NotificationUnread)
	admin := env.token(t, models.User{ID: 1, Name: "Root", Role: "admin"})
	path := fmt.Sprintf("/api/notifications/%d", notification.ID)

	resp, result := doRequest(t, env.app, "PUT", path, nil, admin)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	notifications := result["notifications"].([]interface{})
	assert.Equal(t, models.NotificationRead, notifications[0].(map[string]interface{})["status"])

	// marking read twice stays read
	resp, result = doRequest(t, env.app, "PUT", path, nil, admin)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	notifications = result["notifications"].([]interface{})
	assert.Equal(t, models.NotificationRead, notifications[0].(map[string]interface{})["status"])
}

func TestUpdateNotificationNotFound(t *testing.T) {
	env := newTestEnv(t)
	admin := env.token(t, models.User{ID: 1, Name: "Root", Role: "admin"})

	resp, result := doRequest(t, env.app, "PUT", "/api/notifications/9999", nil, admin)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Notification not found", result["message"])
}

func TestCreateAndEditCourseInvalidateListing(t *testing.T) {
	env := newTestEnv(t)
	env.seedCourse(t)
	admin := env.token(t, models.User{ID: 1, Name: "Root", Role: "admin"})

	// prime the listing cache
	_, result := doRequest(t, env.app, "GET", "/api/courses", nil, "")
	assert.Len(t, result["courses"].([]interface{}), 1)

	resp, result := doRequest(t, env.app, "POST", "/api/admin/courses", map[string]interface{}{
		"name":        "Advanced Go",
		"description": "Concurrency and beyond",
		"price":       99.0,
		"courseData": []map[string]interface{}{
			{"title": "Channels", "videoUrl": "https://cdn.example.com/videos/2.mp4"},
		},
	}, admin)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	created := result["course"].(map[string]interface{})
	courseID := uint(created["ID"].(float64))

	// the stale listing was purged by the write
	_, result = doRequest(t, env.app, "GET", "/api/courses", nil, "")
	assert.Len(t, result["courses"].([]interface{}), 2)

	resp, result = doRequest(t, env.app, "PUT", fmt.Sprintf("/api/admin/courses/%d", courseID), map[string]interface{}{
		"name": "Advanced Go, 2nd edition",
	}, admin)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Advanced Go, 2nd edition", result["course"].(map[string]interface{})["name"])
}
