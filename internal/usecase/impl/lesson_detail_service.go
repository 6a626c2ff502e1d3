package impl

import (
	"context"
	"log/slog"
	"strconv"

	deliverycontext "lessonradar/internal/delivery/context"
	"lessonradar/internal/domain/entity"
	domainerrors "lessonradar/internal/domain/errors"
	"lessonradar/internal/domain/service"
	"lessonradar/internal/errors"
	"lessonradar/internal/usecase"
)

type lessonDetailService struct {
	qrService service.QRCodeService
	logger    *slog.Logger
}

// NewLessonDetailService is the constructor for lessonDetailService.
func NewLessonDetailService(qrService service.QRCodeService, logger *slog.Logger) usecase.LessonDetailUsecase {
	return &lessonDetailService{
		qrService: qrService,
		logger:    logger,
	}
}

// Project fills every display field, substituting a fallback label for absent values.
func (srv *lessonDetailService) Project(_ context.Context, lesson *entity.Lesson) (*usecase.LessonDetail, error) {
	if lesson == nil {
		return nil, domainerrors.ErrNoLessonInfo
	}

	detail := &usecase.LessonDetail{
		PlaceName:   orDefault(lesson.PlaceName, usecase.DetailNoInformation),
		Rating:      usecase.DetailNoInformation,
		Reviews:     usecase.DetailNoInformation,
		Facility:    orDefault(lesson.RoadAddressName, orDefault(lesson.AddressName, usecase.DetailNoInformation)),
		Instructor:  orDefault(lesson.Instructor, usecase.DetailNoInformation),
		Price:       orDefault(lesson.Price, usecase.DetailPriceUnavailable),
		Description: orDefault(lesson.Description, usecase.DetailNoDescription),
		Career:      orDefault(lesson.InstructorCareer, usecase.DetailNoInformation),
		Distance:    orDefault(lesson.Distance, usecase.DetailNoInformation),
		Day:         orDefault(lesson.Day, usecase.DetailNoInformation),
		Lesson:      lesson.Clone(),
	}

	if lesson.StarRating != nil {
		detail.Rating = strconv.FormatFloat(*lesson.StarRating, 'f', -1, 64)
	}
	if lesson.Reviews != nil {
		detail.Reviews = strconv.Itoa(*lesson.Reviews) + "+"
	}

	return detail, nil
}

// ShareQR renders the lesson's share QR code.
func (srv *lessonDetailService) ShareQR(ctx context.Context, lesson *entity.Lesson) ([]byte, error) {
	if lesson == nil {
		return nil, domainerrors.ErrNoLessonInfo
	}

	png, err := srv.qrService.GenerateLessonQR(lesson)
	if err != nil {
		deliverycontext.GetLoggerOrDefault(ctx, srv.logger).Error("Failed to render lesson QR code",
			slog.String("lesson_id", lesson.ID.String()),
			slog.Any("error", err),
		)

		return nil, errors.Wrap(err, "failed to generate lesson QR code")
	}

	return png, nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}

	return value
}
