package repositories

import (
	"errors"
	"time"

	"artbook_backend/internal/models"

	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationRepository interface {
	Create(db *gorm.DB, notification *models.Notification) error
	CreateBulk(db *gorm.DB, notifications []models.Notification) error
	FindByUser(db *gorm.DB, userID string, limit int) ([]models.Notification, error)
	MarkRead(db *gorm.DB, userID, notificationID string, now time.Time) error
	MarkAllRead(db *gorm.DB, userID string, now time.Time) error
	UnreadCount(db *gorm.DB, userID string) (int64, error)
}

type notificationRepository struct{}

func NewNotificationRepository() NotificationRepository {
	return &notificationRepository{}
}

func (r *notificationRepository) Create(db *gorm.DB, notification *models.Notification) error {
	return db.Create(notification).Error
}

func (r *notificationRepository) CreateBulk(db *gorm.DB, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return db.CreateInBatches(notifications, 100).Error
}

func (r *notificationRepository) FindByUser(db *gorm.DB, userID string, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	q := db.Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepository) MarkRead(db *gorm.DB, userID, notificationID string, now time.Time) error {
	result := db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(db *gorm.DB, userID string, now time.Time) error {
	return db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = false", userID).
		Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error
}

func (r *notificationRepository) UnreadCount(db *gorm.DB, userID string) (int64, error) {
	var count int64
	err := db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = false", userID).
		Count(&count).Error
	return count, err
}
