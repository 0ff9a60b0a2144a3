package services

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQRService(t *testing.T) {
	service := NewQRService()

	t.Run("Generate Profile QR", func(t *testing.T) {
		data, err := service.GenerateProfileQR("https://warbler.example/users/1", 256)

		assert.NoError(t, err)
		assert.NotEmpty(t, data)

		img, err := png.Decode(bytes.NewReader(data))
		assert.NoError(t, err)
		assert.Equal(t, 256, img.Bounds().Dx())
	})

	t.Run("Default size", func(t *testing.T) {
		data, err := service.GenerateProfileQR("https://warbler.example/users/1", 0)
		assert.NoError(t, err)
		assert.NotEmpty(t, data)
	})

	t.Run("Empty content rejected", func(t *testing.T) {
		_, err := service.GenerateProfileQR("", 256)
		assert.Error(t, err)
	})

	t.Run("Oversized content", func(t *testing.T) {
		_, err := service.GenerateProfileQR(strings.Repeat("A", 10000), 256)
		assert.Error(t, err)
	})
}
