// Package qrcode renders lesson share QR codes.
package qrcode

import (
	"encoding/json"
	"net/url"
	"strings"

	"lessonradar/config"
	"lessonradar/internal/domain/entity"
	"lessonradar/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
)

const payloadTypeLesson = "lesson"

type qrcodeService struct {
	size    int
	level   qrcode.RecoveryLevel
	baseURL string
}

// LessonPayload is encoded when a lesson has no URL to point at.
type LessonPayload struct {
	Type      string          `json:"type"`
	ID        entity.LessonID `json:"id"`
	PlaceName string          `json:"place_name,omitempty"`
}

// NewQRCodeService creates a QR code service from the qrcode config section.
func NewQRCodeService(cfg *config.Config) service.QRCodeService {
	return &qrcodeService{
		size:    cfg.QRCode.Size,
		level:   recoveryLevel(cfg.QRCode.ErrorCorrectionLevel),
		baseURL: strings.TrimRight(cfg.QRCode.BaseURL, "/"),
	}
}

func recoveryLevel(name string) qrcode.RecoveryLevel {
	switch strings.ToUpper(name) {
	case "L":
		return qrcode.Low
	case "Q":
		return qrcode.High
	case "H":
		return qrcode.Highest
	default:
		return qrcode.Medium
	}
}

// Content is the text encoded for a lesson: its place URL, else a share link
// under qrcode.baseUrl, else a JSON payload.
func (s *qrcodeService) Content(lesson *entity.Lesson) (string, error) {
	if lesson.PlaceURL != "" {
		return lesson.PlaceURL, nil
	}
	if s.baseURL != "" {
		// The JSON token keeps numeric and string ids apart.
		return s.baseURL + "/lessons/" + url.PathEscape(string(lesson.ID)), nil
	}

	data, err := json.Marshal(LessonPayload{Type: payloadTypeLesson, ID: lesson.ID, PlaceName: lesson.PlaceName})
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal QR code payload")
	}

	return string(data), nil
}

// GenerateLessonQR returns a PNG QR code for the lesson.
func (s *qrcodeService) GenerateLessonQR(lesson *entity.Lesson) ([]byte, error) {
	if lesson == nil || lesson.ID.IsZero() {
		return nil, errors.New("lesson id is required for a QR code")
	}

	content, err := s.Content(lesson)
	if err != nil {
		return nil, err
	}

	png, err := qrcode.Encode(content, s.level, s.size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode QR code")
	}

	return png, nil
}

// ParseLessonQR reads scanned QR text back into a lesson reference.
func (s *qrcodeService) ParseLessonQR(content string) (*entity.Lesson, error) {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "http://") || strings.HasPrefix(content, "https://") {
		if s.baseURL != "" && strings.HasPrefix(content, s.baseURL+"/lessons/") {
			raw, err := url.PathUnescape(strings.TrimPrefix(content, s.baseURL+"/lessons/"))
			if err != nil || raw == "" {
				return nil, errors.Errorf("invalid lesson share link: %s", content)
			}

			return &entity.Lesson{ID: entity.ParseLessonID(raw)}, nil
		}

		return &entity.Lesson{PlaceURL: content}, nil
	}

	var payload LessonPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal QR code payload")
	}
	if payload.Type != payloadTypeLesson {
		return nil, errors.Errorf("invalid QR code type: %s", payload.Type)
	}
	if payload.ID.IsZero() {
		return nil, errors.New("QR code payload has no lesson id")
	}

	return &entity.Lesson{ID: payload.ID, PlaceName: payload.PlaceName}, nil
}
