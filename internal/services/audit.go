package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/dtran415/WarblerExercise/internal/models"

	"gorm.io/gorm"
)

// Audit actions recorded by the handlers.
const (
	ActionSignup        = "SIGNUP"
	ActionLogin         = "LOGIN"
	ActionLogout        = "LOGOUT"
	ActionFollow        = "FOLLOW"
	ActionUnfollow      = "UNFOLLOW"
	ActionNewMessage    = "NEW_MESSAGE"
	ActionDeleteMessage = "DELETE_MESSAGE"
	ActionLike          = "LIKE"
	ActionUnlike        = "UNLIKE"
	ActionEditProfile   = "EDIT_PROFILE"
	ActionDeleteAccount = "DELETE_ACCOUNT"
)

type AuditService struct {
	db     *gorm.DB
	logger *slog.Logger
	ch     chan models.AuditLog
}

func NewAuditService(db *gorm.DB, logger *slog.Logger) *AuditService {
	return &AuditService{
		db:     db,
		logger: logger,
		ch:     make(chan models.AuditLog, 100),
	}
}

// Start drains the audit channel until ctx is cancelled. Run it in its
// own goroutine.
func (s *AuditService) Start(ctx context.Context) {
	s.logger.Info("Audit worker starting")
	for {
		select {
		case entry := <-s.ch:
			if err := s.db.Create(&entry).Error; err != nil {
				s.logger.Error("Failed to write audit log", "error", err)
			}
		case <-ctx.Done():
			s.logger.Info("Audit worker stopping")
			return
		}
	}
}

// LogAction enqueues an audit entry without blocking the request path.
// Entries are dropped when the channel is full.
func (s *AuditService) LogAction(userID *uint, action, entityID string, details interface{}, ip string) {
	detailBytes, _ := json.Marshal(details)

	entry := models.AuditLog{
		UserID:    userID,
		Action:    action,
		EntityID:  entityID,
		Details:   string(detailBytes),
		IPAddress: ip,
		Timestamp: time.Now(),
	}

	select {
	case s.ch <- entry:
	default:
		s.logger.Warn("Audit channel full, dropping log", "action", action)
	}
}
