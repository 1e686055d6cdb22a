package controllers

import (
	"errors"
	"strconv"

	"project/backend/config"
	"project/backend/models"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type NotificationsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewNotificationsController(db *gorm.DB, cfg *config.Config) *NotificationsController {
	return &NotificationsController{DB: db, Cfg: cfg}
}

// GetNotifications godoc
// @Summary List notifications
// @Description Returns all notifications newest-first
// @Tags notifications
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /notifications [get]
func (nc *NotificationsController) GetNotifications(c *fiber.Ctx) error {
	notifications, err := nc.listNewestFirst()
	if err != nil {
		return utils.InternalServerError(c, err.Error())
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"notifications": notifications,
	})
}

// UpdateNotification marks a notification read and returns the refreshed
// list. Marking an already-read notification is a no-op.
func (nc *NotificationsController) UpdateNotification(c *fiber.Ctx) error {
	notificationID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid notification ID")
	}

	var notification models.Notification
	if err := nc.DB.First(&notification, notificationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Notification not found")
		}
		return utils.InternalServerError(c, err.Error())
	}

	notification.Status = models.NotificationRead
	if err := nc.DB.Save(&notification).Error; err != nil {
		return utils.InternalServerError(c, err.Error())
	}

	notifications, err := nc.listNewestFirst()
	if err != nil {
		return utils.InternalServerError(c, err.Error())
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"notifications": notifications,
	})
}

func (nc *NotificationsController) listNewestFirst() ([]models.Notification, error) {
	var notifications []models.Notification
	err := nc.DB.Order("created_at DESC").Find(&notifications).Error
	return notifications, err
}
