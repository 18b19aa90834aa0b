package service

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

type QRService struct {
	baseURL string
}

func NewQRService(baseURL string) *QRService {
	return &QRService{baseURL: strings.TrimRight(baseURL, "/")}
}

// SubmissionURL is the public link employees use to submit feedback.
// Previously issued links may carry the numeric id instead of the slug, so
// both remain valid lookup keys on the submission endpoint.
func (s *QRService) SubmissionURL(slug string) string {
	return fmt.Sprintf("%s/submit/%s", s.baseURL, slug)
}

// GenerateSubmissionQR renders the public submission link as a PNG QR code
// and returns it as a base64 data URL.
func (s *QRService) GenerateSubmissionQR(slug string) (string, error) {
	qrCode, err := qrcode.Encode(s.SubmissionURL(slug), qrcode.Medium, 256)
	if err != nil {
		return "", fmt.Errorf("failed to generate QR code: %v", err)
	}

	base64String := base64.StdEncoding.EncodeToString(qrCode)
	dataURL := fmt.Sprintf("data:image/png;base64,%s", base64String)

	return dataURL, nil
}
