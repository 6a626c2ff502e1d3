package service

import "lessonradar/internal/domain/entity"

// QRCodeService renders QR codes for sharing lessons.
type QRCodeService interface {
	// GenerateLessonQR returns a PNG QR code pointing at the lesson.
	GenerateLessonQR(lesson *entity.Lesson) ([]byte, error)

	// ParseLessonQR reads the content of a lesson QR code back into a lesson
	// reference. URL payloads yield only PlaceURL.
	ParseLessonQR(content string) (*entity.Lesson, error)
}
