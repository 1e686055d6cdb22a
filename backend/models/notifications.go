package models

import "gorm.io/gorm"

const (
	NotificationUnread = "unread"
	NotificationRead   = "read"
)

type Notification struct {
	gorm.Model
	UserID  uint   `json:"user_id"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Status  string `json:"status" gorm:"default:unread"` // unread, read
}
