package handlers

import (
	"html/template"
	"time"

	"github.com/dtran415/WarblerExercise/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func (h *Handler) SetupRouter(rateLimiter *services.IPRateLimiter, templatePath string, staticPath string) *gin.Engine {
	r := gin.Default()

	r.SetFuncMap(template.FuncMap{
		"datetime": func(t time.Time) string {
			return t.Format("02 January 2006")
		},
	})

	if templatePath != "" {
		r.LoadHTMLGlob(templatePath)
	}
	if staticPath != "" {
		r.Static("/static", staticPath)
	}

	// Middleware
	if rateLimiter != nil {
		r.Use(h.RateLimitMiddleware(rateLimiter))
	}
	r.Use(h.RequestID())

	store := cookie.NewStore([]byte(h.cfg.SessionSecret))
	r.Use(sessions.Sessions("warbler_session", store))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	// Public Routes
	r.GET("/", h.ShowHome)
	r.GET("/signup", h.ShowSignup)
	r.POST("/signup", h.HandleSignup)
	r.GET("/login", h.ShowLogin)
	r.POST("/login", h.HandleLogin)
	r.GET("/logout", h.HandleLogout)

	r.GET("/users", h.ListUsers)
	r.GET("/users/:id", h.ShowUser)
	r.GET("/users/:id/following", h.ShowFollowing)
	r.GET("/users/:id/followers", h.ShowFollowers)
	r.GET("/users/:id/likes", h.ShowLikes)
	r.GET("/users/:id/qr", h.ShowUserQR)
	r.GET("/messages/:id", h.ShowMessage)

	// Protected Routes
	authorized := r.Group("/")
	authorized.Use(h.AuthRequired())
	{
		authorized.POST("/users/follow/:id", h.HandleFollow)
		authorized.POST("/users/stop-follow/:id", h.HandleStopFollow)
		authorized.GET("/users/profile", h.ShowEditProfile)
		authorized.POST("/users/profile", h.HandleEditProfile)
		authorized.POST("/users/delete", h.HandleDeleteUser)
		authorized.POST("/users/add_like/:id", h.HandleToggleLike)
		authorized.POST("/likes/:id", h.HandleRemoveLike)
		authorized.GET("/messages/new", h.ShowNewMessage)
		authorized.POST("/messages/new", h.HandleNewMessage)
		authorized.POST("/messages/:id/delete", h.HandleDeleteMessage)
	}

	return r
}
