package services

import (
	"errors"

	"github.com/skip2/go-qrcode"
)

// QRService renders profile share links as QR codes.
type QRService struct{}

func NewQRService() *QRService {
	return &QRService{}
}

// GenerateProfileQR encodes content as a PNG QR code of the given pixel
// size.
func (s *QRService) GenerateProfileQR(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, errors.New("content required")
	}
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(content, qrcode.Medium, size)
}
