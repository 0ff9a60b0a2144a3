package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dtran415/WarblerExercise/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

func (h *Handler) ShowSignup(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.html", gin.H{})
}

func (h *Handler) HandleSignup(c *gin.Context) {
	username := c.PostForm("username")
	email := c.PostForm("email")
	password := c.PostForm("password")
	imageURL := c.PostForm("image_url")

	if username == "" || email == "" || password == "" {
		c.HTML(http.StatusBadRequest, "signup.html", gin.H{
			"Error": "Username, email and password are required",
		})
		return
	}

	user, err := h.users.Signup(username, email, password, imageURL)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUsernameTaken):
			c.HTML(http.StatusConflict, "signup.html", gin.H{"Error": "Username already taken"})
		case errors.Is(err, services.ErrEmailTaken):
			c.HTML(http.StatusConflict, "signup.html", gin.H{"Error": "Email already taken"})
		default:
			c.HTML(http.StatusInternalServerError, "signup.html", gin.H{"Error": "Failed to create account"})
		}
		return
	}

	session := sessions.Default(c)
	session.Set(SessionUserKey, user.ID)
	if err := session.Save(); err != nil {
		c.HTML(http.StatusInternalServerError, "signup.html", gin.H{"Error": "Failed to save session"})
		return
	}

	h.audit.LogAction(&user.ID, services.ActionSignup, fmt.Sprint(user.ID), nil, c.ClientIP())

	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) ShowLogin(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

func (h *Handler) HandleLogin(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := h.users.Authenticate(username, password)
	if err != nil {
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{"Error": "Invalid credentials"})
		return
	}

	session := sessions.Default(c)
	session.Set(SessionUserKey, user.ID)
	if err := session.Save(); err != nil {
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{"Error": "Failed to save session"})
		return
	}

	h.audit.LogAction(&user.ID, services.ActionLogin, fmt.Sprint(user.ID), nil, c.ClientIP())

	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d", user.ID))
}

func (h *Handler) HandleLogout(c *gin.Context) {
	session := sessions.Default(c)
	userID, hadSession := h.sessionUserID(c)

	session.Clear()
	if err := session.Save(); err != nil {
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{"Error": "Failed to clear session"})
		return
	}

	if hadSession {
		h.audit.LogAction(&userID, services.ActionLogout, fmt.Sprint(userID), nil, c.ClientIP())
	}

	c.Redirect(http.StatusFound, "/login")
}
