package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dtran415/WarblerExercise/internal/models"
	"github.com/dtran415/WarblerExercise/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) notFound(c *gin.Context, msg string) {
	c.HTML(http.StatusNotFound, "404.html", gin.H{"Error": msg})
}

// ListUsers shows all users as cards, optionally filtered by a username
// substring via ?q=.
func (h *Handler) ListUsers(c *gin.Context) {
	q := c.Query("q")
	users, err := h.users.Search(q)
	if err != nil {
		h.logger.Error("Failed to list users", "error", err)
		users = nil
	}

	c.HTML(http.StatusOK, "users_index.html", gin.H{
		"User":  h.currentUser(c),
		"Users": users,
		"Query": q,
	})
}

// ShowUser renders a profile with stats and the user's messages. The
// follow control only shows on other users' profiles.
func (h *Handler) ShowUser(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.notFound(c, "User not found")
		return
	}

	profile, err := h.users.Get(id)
	if err != nil {
		h.notFound(c, "User not found")
		return
	}

	stats, err := h.users.Stats(id)
	if err != nil {
		h.logger.Error("Failed to load user stats", "user_id", id, "error", err)
	}

	messages, err := h.messages.ByUser(id, feedLimit)
	if err != nil {
		h.logger.Error("Failed to load user messages", "user_id", id, "error", err)
	}

	viewer := h.currentUser(c)
	isSelf := viewer != nil && viewer.ID == profile.ID
	isFollowing := false
	if viewer != nil && !isSelf {
		isFollowing, _ = h.users.IsFollowing(viewer.ID, profile.ID)
	}

	c.HTML(http.StatusOK, "users_show.html", gin.H{
		"User":        viewer,
		"Profile":     profile,
		"Stats":       stats,
		"Messages":    messages,
		"IsSelf":      isSelf,
		"IsFollowing": isFollowing,
	})
}

func (h *Handler) ShowFollowing(c *gin.Context) {
	h.showUserList(c, "users_following.html", h.users.Following)
}

func (h *Handler) ShowFollowers(c *gin.Context) {
	h.showUserList(c, "users_followers.html", h.users.Followers)
}

func (h *Handler) showUserList(c *gin.Context, templateName string, list func(uint) ([]models.User, error)) {
	id, ok := paramID(c)
	if !ok {
		h.notFound(c, "User not found")
		return
	}

	profile, err := h.users.Get(id)
	if err != nil {
		h.notFound(c, "User not found")
		return
	}

	users, err := list(id)
	if err != nil {
		h.logger.Error("Failed to load user list", "user_id", id, "error", err)
	}

	c.HTML(http.StatusOK, templateName, gin.H{
		"User":    h.currentUser(c),
		"Profile": profile,
		"Users":   users,
	})
}

// ShowLikes lists the messages a user has liked.
func (h *Handler) ShowLikes(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.notFound(c, "User not found")
		return
	}

	profile, err := h.users.Get(id)
	if err != nil {
		h.notFound(c, "User not found")
		return
	}

	liked, err := h.messages.LikedMessages(id)
	if err != nil {
		h.logger.Error("Failed to load likes", "user_id", id, "error", err)
	}

	c.HTML(http.StatusOK, "users_likes.html", gin.H{
		"User":     h.currentUser(c),
		"Profile":  profile,
		"Messages": liked,
	})
}

// ShowUserQR returns a PNG QR code pointing at the user's profile page.
func (h *Handler) ShowUserQR(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.notFound(c, "User not found")
		return
	}

	if _, err := h.users.Get(id); err != nil {
		h.notFound(c, "User not found")
		return
	}

	scheme := "https"
	if c.Request.TLS == nil {
		scheme = "http"
	}
	profileURL := fmt.Sprintf("%s://%s/users/%d", scheme, c.Request.Host, id)

	data, err := h.qr.GenerateProfileQR(profileURL, 256)
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	c.Data(http.StatusOK, "image/png", data)
}

// HandleFollow creates a follow edge from the current user to :id.
func (h *Handler) HandleFollow(c *gin.Context) {
	userID, _ := h.sessionUserID(c)

	targetID, ok := paramID(c)
	if !ok {
		h.notFound(c, "User not found")
		return
	}

	if err := h.users.Follow(userID, targetID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			h.notFound(c, "User not found")
			return
		}
		// Self-follow and transient errors both land back on the profile
		c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d", targetID))
		return
	}

	h.audit.LogAction(&userID, services.ActionFollow, fmt.Sprint(targetID), nil, c.ClientIP())

	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d/following", userID))
}

// HandleStopFollow removes the follow edge from the current user to :id.
func (h *Handler) HandleStopFollow(c *gin.Context) {
	userID, _ := h.sessionUserID(c)

	targetID, ok := paramID(c)
	if !ok {
		h.notFound(c, "User not found")
		return
	}

	if err := h.users.Unfollow(userID, targetID); err != nil {
		h.logger.Error("Failed to unfollow", "user_id", userID, "target_id", targetID, "error", err)
	} else {
		h.audit.LogAction(&userID, services.ActionUnfollow, fmt.Sprint(targetID), nil, c.ClientIP())
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d/following", userID))
}

func (h *Handler) ShowEditProfile(c *gin.Context) {
	user := h.currentUser(c)
	if user == nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	c.HTML(http.StatusOK, "users_edit.html", gin.H{"User": user})
}

// HandleEditProfile updates the current user's profile after
// re-verifying the supplied password.
func (h *Handler) HandleEditProfile(c *gin.Context) {
	userID, _ := h.sessionUserID(c)

	update := services.ProfileUpdate{
		Username:       c.PostForm("username"),
		Email:          c.PostForm("email"),
		Bio:            c.PostForm("bio"),
		ImageURL:       c.PostForm("image_url"),
		HeaderImageURL: c.PostForm("header_image_url"),
	}
	password := c.PostForm("password")

	user, err := h.users.UpdateProfile(userID, password, update)
	if err != nil {
		current := h.currentUser(c)
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			c.HTML(http.StatusUnauthorized, "users_edit.html", gin.H{
				"User": current, "Error": "Incorrect password",
			})
		case errors.Is(err, services.ErrUsernameTaken):
			c.HTML(http.StatusConflict, "users_edit.html", gin.H{
				"User": current, "Error": "Username already taken",
			})
		case errors.Is(err, services.ErrEmailTaken):
			c.HTML(http.StatusConflict, "users_edit.html", gin.H{
				"User": current, "Error": "Email already taken",
			})
		default:
			c.HTML(http.StatusInternalServerError, "users_edit.html", gin.H{
				"User": current, "Error": "Failed to update profile",
			})
		}
		return
	}

	h.audit.LogAction(&userID, services.ActionEditProfile, fmt.Sprint(userID), nil, c.ClientIP())

	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d", user.ID))
}

// HandleDeleteUser deletes the current user and everything owned by it,
// clears the session and lands on the signup page.
func (h *Handler) HandleDeleteUser(c *gin.Context) {
	userID, _ := h.sessionUserID(c)

	if err := h.users.Delete(userID); err != nil {
		h.logger.Error("Failed to delete user", "user_id", userID, "error", err)
		c.HTML(http.StatusInternalServerError, "404.html", gin.H{"Error": "Failed to delete account"})
		return
	}

	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		h.logger.Error("Failed to clear session", "error", err)
	}

	h.audit.LogAction(&userID, services.ActionDeleteAccount, fmt.Sprint(userID), nil, c.ClientIP())

	c.Redirect(http.StatusFound, "/signup")
}
