package handlers

import (
	"log/slog"

	"github.com/dtran415/WarblerExercise/internal/config"
	"github.com/dtran415/WarblerExercise/internal/models"
	"github.com/dtran415/WarblerExercise/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SessionUserKey is the session key holding the authenticated user's id.
// Absence of the key means the request is anonymous.
const SessionUserKey = "user_id"

type Handler struct {
	cfg      config.Config
	logger   *slog.Logger
	db       *gorm.DB
	rdb      *redis.Client
	users    *services.UserService
	messages *services.MessageService
	audit    *services.AuditService
	qr       *services.QRService
}

func NewHandler(
	cfg config.Config,
	logger *slog.Logger,
	db *gorm.DB,
	rdb *redis.Client,
	users *services.UserService,
	messages *services.MessageService,
	audit *services.AuditService,
	qr *services.QRService,
) *Handler {
	return &Handler{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		rdb:      rdb,
		users:    users,
		messages: messages,
		audit:    audit,
		qr:       qr,
	}
}

// sessionUserID extracts the authenticated user's id from the session.
func (h *Handler) sessionUserID(c *gin.Context) (uint, bool) {
	session := sessions.Default(c)
	val := session.Get(SessionUserKey)
	if val == nil {
		return 0, false
	}
	id, ok := val.(uint)
	return id, ok
}

// currentUser loads the authenticated user, or nil for anonymous
// sessions and sessions pointing at deleted users.
func (h *Handler) currentUser(c *gin.Context) *models.User {
	id, ok := h.sessionUserID(c)
	if !ok {
		return nil
	}
	user, err := h.users.Get(id)
	if err != nil {
		return nil
	}
	return user
}
