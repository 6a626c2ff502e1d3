package usecase

import (
	"context"

	"lessonradar/internal/domain/entity"

	"github.com/google/uuid"
)

// LessonSearchUsecase runs lesson searches and serves their results.
type LessonSearchUsecase interface {
	// Run executes a search to completion. A search whose origin cannot be
	// resolved returns the failed session together with the failure error.
	Run(ctx context.Context, ownerID uuid.UUID, query entity.LessonQuery) (*entity.SearchSession, error)

	// Start launches a search in the background and returns the pending session.
	// Any earlier search of the owner is superseded.
	Start(ctx context.Context, ownerID uuid.UUID, query entity.LessonQuery) (*entity.SearchSession, error)

	// Get returns a snapshot of a session.
	Get(ctx context.Context, ownerID, sessionID uuid.UUID) (*entity.SearchSession, error)

	// Discard drops a session; a running search's results are ignored.
	Discard(ctx context.Context, ownerID, sessionID uuid.UUID) error

	// SortNearest orders the ready lesson list nearest first without searching again.
	SortNearest(ctx context.Context, ownerID, sessionID uuid.UUID) (*entity.SearchSession, error)

	// Lesson returns one record of the session unchanged.
	Lesson(ctx context.Context, ownerID, sessionID uuid.UUID, lessonID entity.LessonID) (*entity.Lesson, error)
}
