package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dtran415/WarblerExercise/internal/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ShowNewMessage(c *gin.Context) {
	c.HTML(http.StatusOK, "message_new.html", gin.H{"User": h.currentUser(c)})
}

// HandleNewMessage creates a message owned by the current user and
// redirects to their profile.
func (h *Handler) HandleNewMessage(c *gin.Context) {
	userID, _ := h.sessionUserID(c)

	message, err := h.messages.Create(userID, c.PostForm("text"))
	if err != nil {
		if errors.Is(err, services.ErrEmptyText) {
			c.HTML(http.StatusBadRequest, "message_new.html", gin.H{
				"User":  h.currentUser(c),
				"Error": "Message text is required",
			})
			return
		}
		c.HTML(http.StatusInternalServerError, "message_new.html", gin.H{
			"User":  h.currentUser(c),
			"Error": "Failed to post message",
		})
		return
	}

	h.audit.LogAction(&userID, services.ActionNewMessage, fmt.Sprint(message.ID), nil, c.ClientIP())

	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d", userID))
}

// ShowMessage renders a single message.
func (h *Handler) ShowMessage(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.notFound(c, "Message not found")
		return
	}

	message, err := h.messages.Get(id)
	if err != nil {
		h.notFound(c, "Message not found")
		return
	}

	likeCount, _ := h.messages.LikeCount(id)

	viewer := h.currentUser(c)
	liked := false
	if viewer != nil {
		liked, _ = h.messages.IsLiked(viewer.ID, id)
	}

	c.HTML(http.StatusOK, "message_show.html", gin.H{
		"User":      viewer,
		"Message":   message,
		"LikeCount": likeCount,
		"Liked":     liked,
	})
}

// HandleDeleteMessage deletes a message. Only the owner may delete.
func (h *Handler) HandleDeleteMessage(c *gin.Context) {
	userID, _ := h.sessionUserID(c)

	id, ok := paramID(c)
	if !ok {
		h.notFound(c, "Message not found")
		return
	}

	if err := h.messages.Delete(id, userID); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			h.notFound(c, "Message not found")
		case errors.Is(err, services.ErrNotOwner):
			c.HTML(http.StatusForbidden, "403.html", gin.H{"Error": "Access unauthorized."})
		default:
			c.HTML(http.StatusInternalServerError, "404.html", gin.H{"Error": "Failed to delete message"})
		}
		return
	}

	h.audit.LogAction(&userID, services.ActionDeleteMessage, fmt.Sprint(id), nil, c.ClientIP())

	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d", userID))
}

// HandleToggleLike likes the message if not yet liked and removes the
// like otherwise, then returns to where the user came from.
func (h *Handler) HandleToggleLike(c *gin.Context) {
	userID, _ := h.sessionUserID(c)

	id, ok := paramID(c)
	if !ok {
		h.notFound(c, "Message not found")
		return
	}

	liked, err := h.messages.ToggleLike(userID, id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			h.notFound(c, "Message not found")
			return
		}
		// Own messages can't be liked; bounce back without a like
		c.Redirect(http.StatusFound, backTo(c))
		return
	}

	action := services.ActionLike
	if !liked {
		action = services.ActionUnlike
	}
	h.audit.LogAction(&userID, action, fmt.Sprint(id), nil, c.ClientIP())

	c.Redirect(http.StatusFound, backTo(c))
}

// HandleRemoveLike removes a like from the likes-page context and
// returns to that page.
func (h *Handler) HandleRemoveLike(c *gin.Context) {
	userID, _ := h.sessionUserID(c)

	id, ok := paramID(c)
	if !ok {
		h.notFound(c, "Message not found")
		return
	}

	if err := h.messages.Unlike(userID, id); err != nil {
		h.logger.Error("Failed to remove like", "user_id", userID, "message_id", id, "error", err)
	} else {
		h.audit.LogAction(&userID, services.ActionUnlike, fmt.Sprint(id), nil, c.ClientIP())
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d/likes", userID))
}

func backTo(c *gin.Context) string {
	if ref := c.Request.Referer(); ref != "" {
		return ref
	}
	return "/"
}
