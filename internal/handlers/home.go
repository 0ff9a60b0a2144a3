package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const feedLimit = 100

// ShowHome renders the landing page for anonymous visitors and the
// timeline (own messages plus followed users') for authenticated ones.
func (h *Handler) ShowHome(c *gin.Context) {
	user := h.currentUser(c)
	if user == nil {
		recent, err := h.messages.Recent(feedLimit)
		if err != nil {
			h.logger.Error("Failed to load recent messages", "error", err)
		}
		c.HTML(http.StatusOK, "home_anon.html", gin.H{"Messages": recent})
		return
	}

	timeline, err := h.messages.Timeline(user.ID, feedLimit)
	if err != nil {
		h.logger.Error("Failed to load timeline", "user_id", user.ID, "error", err)
		c.HTML(http.StatusInternalServerError, "home.html", gin.H{
			"User":  user,
			"Error": "Failed to load your feed",
		})
		return
	}

	c.HTML(http.StatusOK, "home.html", gin.H{
		"User":     user,
		"Messages": timeline,
	})
}
