package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/UDLA-2025/assignment-service/internal/models"
	"github.com/UDLA-2025/assignment-service/internal/repositories"
)

type NotificationPostgreSQL struct {
	db *gorm.DB
}

func NewNotificationPostgreSQL(db *gorm.DB) repositories.NotificationRepository {
	return &NotificationPostgreSQL{db: db}
}

func (n *NotificationPostgreSQL) Create(ctx context.Context, tx *gorm.DB, notification *models.Notification) error {
	db := n.getDB(tx)
	return db.WithContext(ctx).Create(notification).Error
}

func (n *NotificationPostgreSQL) ListByUser(ctx context.Context, tx *gorm.DB, userID uint) ([]*models.Notification, error) {
	db := n.getDB(tx)
	var notifications []*models.Notification
	if err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (n *NotificationPostgreSQL) GetByIDForUser(ctx context.Context, tx *gorm.DB, id, userID uint) (*models.Notification, error) {
	db := n.getDB(tx)
	var notification models.Notification
	if err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&notification).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

func (n *NotificationPostgreSQL) MarkRead(ctx context.Context, tx *gorm.DB, id uint) error {
	db := n.getDB(tx)
	return db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Update("read", true).Error
}

func (n *NotificationPostgreSQL) ExistsReminder(ctx context.Context, tx *gorm.DB, userID, assignmentID uint) (bool, error) {
	db := n.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND kind = ? AND assignment_id = ?", userID, models.NotificationDueReminder, assignmentID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (n *NotificationPostgreSQL) CountUnread(ctx context.Context, tx *gorm.DB, userID uint) (int64, error) {
	db := n.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (n *NotificationPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return n.db
}
