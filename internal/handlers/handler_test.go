package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/dtran415/WarblerExercise/internal/config"
	"github.com/dtran415/WarblerExercise/internal/models"
	"github.com/dtran415/WarblerExercise/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupTestHandler() (*Handler, *gorm.DB) {
	db, _ := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	db.AutoMigrate(&models.User{}, &models.Message{}, &models.Follow{}, &models.Like{}, &models.AuditLog{})

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg := config.Config{
		SessionSecret: "test-secret-12345678901234567890123456789012",
	}

	audit := services.NewAuditService(db, logger)
	messages := services.NewMessageService(db, nil, logger)
	users := services.NewUserService(db, messages)
	qr := services.NewQRService()

	h := NewHandler(cfg, logger, db, nil, users, messages, audit, qr)
	return h, db
}

func setupTestRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := h.SetupRouter(nil, "../../web/templates/*.html", "../../web/static")

	// Helper to establish a session without going through /login
	r.GET("/set-session/:id", func(c *gin.Context) {
		session := sessions.Default(c)
		id, _ := strconv.ParseUint(c.Param("id"), 10, 32)
		session.Set(SessionUserKey, uint(id))
		session.Save()
		c.Status(200)
	})

	return r
}

// sessionCookie logs the given user id into a fresh session and returns
// the cookie to attach to subsequent requests.
func sessionCookie(r *gin.Engine, id uint) string {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", fmt.Sprintf("/set-session/%d", id), nil)
	r.ServeHTTP(w, req)
	return w.Header().Get("Set-Cookie")
}

func doGet(r *gin.Engine, path string, cookie string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", path, nil)
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	r.ServeHTTP(w, req)
	return w
}

func doPostForm(r *gin.Engine, path string, form url.Values, cookie string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	r.ServeHTTP(w, req)
	return w
}

// seedUsers mirrors the standard fixture: four users, testuser follows
// testuser2, one message each for the first two.
func seedUsers(h *Handler) []*models.User {
	var created []*models.User
	for i, name := range []string{"testuser", "testuser2", "testuser3", "testuser4"} {
		u, err := h.users.Signup(name, fmt.Sprintf("test%d@email.com", i+1), fmt.Sprintf("password%d", i+1), "")
		if err != nil {
			panic(err)
		}
		created = append(created, u)
	}

	if err := h.users.Follow(created[0].ID, created[1].ID); err != nil {
		panic(err)
	}

	if _, err := h.messages.Create(created[0].ID, "message here"); err != nil {
		panic(err)
	}
	if _, err := h.messages.Create(created[1].ID, "message2 here"); err != nil {
		panic(err)
	}

	return created
}
