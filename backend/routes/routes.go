package routes

import (
	"log"

	"project/backend/cache"
	"project/backend/config"
	"project/backend/controllers"
	"project/backend/mail"
	"project/backend/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, catalog *cache.CatalogCache, mailer mail.Sender, cfg *config.Config, logger *log.Logger) {
	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	adminMiddleware := middleware.AdminMiddleware()

	// Courses routes
	coursesController := controllers.NewCoursesController(db, catalog, mailer, cfg, logger)
	app.Get("/api/courses", coursesController.GetAllCourses)
	app.Get("/api/courses/:id", coursesController.GetCourse)

	courses := app.Group("/api/courses", authMiddleware)
	courses.Get("/:id/content", coursesController.GetCourseContent)
	courses.Post("/question", coursesController.AddQuestion)
	courses.Post("/answer", coursesController.AddAnswer)
	courses.Post("/:id/review", coursesController.AddReview)

	// Admin routes for courses
	adminCourses := app.Group("/api/admin/courses", authMiddleware, adminMiddleware)
	adminCourses.Post("/", coursesController.CreateCourse)
	adminCourses.Put("/:id", coursesController.EditCourse)

	// Admin routes for notifications
	notificationsController := controllers.NewNotificationsController(db, cfg)
	notifications := app.Group("/api/notifications", authMiddleware, adminMiddleware)
	notifications.Get("/", notificationsController.GetNotifications)
	notifications.Put("/:id", notificationsController.UpdateNotification)
}
