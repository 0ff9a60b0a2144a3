package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShowHome(t *testing.T) {
	h, _ := setupTestHandler()
	r := setupTestRouter(h)
	users := seedUsers(h)

	t.Run("Anonymous Landing Page", func(t *testing.T) {
		w := doGet(r, "/", "")

		assert.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "New to Warbler?")
		// visitors see the newest messages across all users
		assert.Contains(t, body, "message here")
		assert.Contains(t, body, "message2 here")
	})

	t.Run("Authenticated Feed", func(t *testing.T) {
		// testuser follows testuser2; testuser3 is unrelated
		h.messages.Create(users[2].ID, "unrelated message")

		cookie := sessionCookie(r, users[0].ID)
		w := doGet(r, "/", cookie)

		assert.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "message here")
		assert.Contains(t, body, "message2 here")
		assert.NotContains(t, body, "unrelated message")
		assert.Contains(t, body, "@testuser")
	})

	t.Run("Stale Session Falls Back To Landing Page", func(t *testing.T) {
		cookie := sessionCookie(r, 9999)
		w := doGet(r, "/", cookie)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "New to Warbler?")
	})
}

func TestHealth(t *testing.T) {
	h, _ := setupTestHandler()
	r := setupTestRouter(h)

	w := doGet(r, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}
