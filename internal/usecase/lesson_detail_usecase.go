package usecase

import (
	"context"

	"lessonradar/internal/domain/entity"
)

// Fallback labels for lesson fields that are absent.
const (
	DetailNoInformation    = "no information"
	DetailPriceUnavailable = "price unavailable"
	DetailNoDescription    = "none"
)

// LessonDetail is a lesson record with every display field filled in.
type LessonDetail struct {
	PlaceName   string        `json:"place_name"`
	Rating      string        `json:"rating"`
	Reviews     string        `json:"reviews"`
	Facility    string        `json:"facility"`
	Instructor  string        `json:"instructor"`
	Price       string        `json:"price"`
	Description string        `json:"description"`
	Career      string        `json:"career"`
	Distance    string        `json:"distance"`
	Day         string        `json:"day"`
	Lesson      entity.Lesson `json:"lesson"` // The record exactly as received.
}

// LessonDetailUsecase projects a lesson record for display.
type LessonDetailUsecase interface {
	// Project renders the record with fallback labels. A nil record is NO_LESSON_INFO.
	Project(ctx context.Context, lesson *entity.Lesson) (*LessonDetail, error)

	// ShareQR renders a PNG QR code for sharing the lesson.
	ShareQR(ctx context.Context, lesson *entity.Lesson) ([]byte, error)
}
