package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModels(t *testing.T) {
	t.Run("Follow TableName", func(t *testing.T) {
		assert.Equal(t, "follows", Follow{}.TableName())
	})

	t.Run("Like TableName", func(t *testing.T) {
		assert.Equal(t, "likes", Like{}.TableName())
	})
}
