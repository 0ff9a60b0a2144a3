package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dtran415/WarblerExercise/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const messageCacheTTL = 10 * time.Minute

type MessageService struct {
	db     *gorm.DB
	rdb    *redis.Client
	logger *slog.Logger
}

// NewMessageService builds the service. rdb may be nil, in which case
// message lookups always hit the database.
func NewMessageService(db *gorm.DB, rdb *redis.Client, logger *slog.Logger) *MessageService {
	return &MessageService{
		db:     db,
		rdb:    rdb,
		logger: logger,
	}
}

// Create stores a new message owned by userID.
func (s *MessageService) Create(userID uint, text string) (*models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	message := models.Message{
		Text:      text,
		Timestamp: time.Now(),
		UserID:    userID,
	}

	if err := s.db.Create(&message).Error; err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	return &message, nil
}

// Get returns the message with its author, going through the redis cache
// when one is configured.
func (s *MessageService) Get(id uint) (*models.Message, error) {
	ctx := context.Background()
	cacheKey := fmt.Sprintf("message:%d", id)

	if s.rdb != nil {
		val, err := s.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var cached models.Message
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return &cached, nil
			}
		}
	}

	var message models.Message
	if err := s.db.Preload("User").First(&message, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if s.rdb != nil {
		if data, err := json.Marshal(message); err == nil {
			s.rdb.Set(ctx, cacheKey, data, messageCacheTTL)
		}
	}

	return &message, nil
}

// Delete removes a message and its likes. Only the owner may delete.
func (s *MessageService) Delete(id, requesterID uint) error {
	var message models.Message
	if err := s.db.First(&message, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if message.UserID != requesterID {
		return ErrNotOwner
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	if err := tx.Where("message_id = ?", id).Delete(&models.Like{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(&models.Message{}, id).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return err
	}

	s.invalidate(id)
	return nil
}

// ToggleLike inserts a like if absent and removes it if present,
// returning whether the message is liked afterwards. Liking your own
// message is rejected.
func (s *MessageService) ToggleLike(userID, messageID uint) (bool, error) {
	var message models.Message
	if err := s.db.First(&message, messageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}
	if message.UserID == userID {
		return false, ErrSelfAction
	}

	liked := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Like
		err := tx.Where("user_id = ? AND message_id = ?", userID, messageID).First(&existing).Error
		if err == nil {
			return tx.Where("user_id = ? AND message_id = ?", userID, messageID).Delete(&models.Like{}).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		liked = true
		return tx.Create(&models.Like{UserID: userID, MessageID: messageID}).Error
	})
	return liked, err
}

// Unlike removes a like without toggle semantics. Removing a missing
// like is a no-op.
func (s *MessageService) Unlike(userID, messageID uint) error {
	return s.db.
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Delete(&models.Like{}).Error
}

func (s *MessageService) IsLiked(userID, messageID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.Like{}).
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Count(&count).Error
	return count > 0, err
}

func (s *MessageService) LikeCount(messageID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Like{}).
		Where("message_id = ?", messageID).
		Count(&count).Error
	return count, err
}

// LikedMessages lists the messages a user has liked, oldest like first.
func (s *MessageService) LikedMessages(userID uint) ([]models.Message, error) {
	var messages []models.Message
	err := s.db.
		Joins("JOIN likes ON likes.message_id = messages.id").
		Where("likes.user_id = ?", userID).
		Preload("User").
		Order("messages.id").
		Find(&messages).Error
	return messages, err
}

// Timeline returns the newest messages from userID and the users it
// follows.
func (s *MessageService) Timeline(userID uint, limit int) ([]models.Message, error) {
	followed := s.db.Model(&models.Follow{}).
		Select("followed_id").
		Where("follower_id = ?", userID)

	var messages []models.Message
	err := s.db.
		Where("user_id IN (?) OR user_id = ?", followed, userID).
		Preload("User").
		Order("timestamp DESC, id DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

// Recent returns the newest messages across all users.
func (s *MessageService) Recent(limit int) ([]models.Message, error) {
	var messages []models.Message
	err := s.db.
		Preload("User").
		Order("timestamp DESC, id DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

// ByUser returns a user's own messages, newest first.
func (s *MessageService) ByUser(userID uint, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := s.db.
		Where("user_id = ?", userID).
		Preload("User").
		Order("timestamp DESC, id DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

func (s *MessageService) invalidate(id uint) {
	s.invalidateAll([]uint{id})
}

func (s *MessageService) invalidateAll(ids []uint) {
	if s.rdb == nil || len(ids) == 0 {
		return
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = fmt.Sprintf("message:%d", id)
	}
	if err := s.rdb.Del(context.Background(), keys...).Err(); err != nil {
		s.logger.Warn("Failed to invalidate message cache", "keys", len(keys), "error", err)
	}
}
