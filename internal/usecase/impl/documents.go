package impl

import (
	"context"
	"encoding/json"
	"log/slog"

	domainerrors "lessonradar/internal/domain/errors"
	"lessonradar/internal/domain/repository"
	"lessonradar/internal/errors"

	"github.com/google/uuid"
)

// loadJSON decodes the document under key into out. A missing document leaves out untouched.
func loadJSON(ctx context.Context, store repository.DocumentStore, ownerID uuid.UUID, key repository.DocumentKey, out any) error {
	raw, err := store.Get(ctx, ownerID, key)
	if err != nil {
		if errors.Is(err, repository.ErrDocumentNotFound) {
			return nil
		}

		return domainerrors.NewDatabaseExecuteError(err, "read "+string(key))
	}

	if len(raw) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrapf(err, "decode %s", key)
	}

	return nil
}

// loadList reads the JSON array under key. A missing document is an empty
// list. An undecodable one is logged and also reads as empty; the next write
// replaces it. Storage failures are returned.
func loadList[T any](ctx context.Context, store repository.DocumentStore, ownerID uuid.UUID, key repository.DocumentKey, logger *slog.Logger) ([]T, error) {
	var list []T
	if err := loadJSON(ctx, store, ownerID, key, &list); err != nil {
		var appErr domainerrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}

		logger.Warn("Discarding unreadable document",
			slog.Any("owner_id", ownerID),
			slog.String("key", string(key)),
			slog.Any("error", err),
		)

		return []T{}, nil
	}

	if list == nil {
		list = []T{}
	}

	return list, nil
}

func saveJSON(ctx context.Context, store repository.DocumentStore, ownerID uuid.UUID, key repository.DocumentKey, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "encode %s", key)
	}

	return saveString(ctx, store, ownerID, key, string(raw))
}

// loadString returns the plain string under key, or "" when nothing is stored.
func loadString(ctx context.Context, store repository.DocumentStore, ownerID uuid.UUID, key repository.DocumentKey) (string, error) {
	raw, err := store.Get(ctx, ownerID, key)
	if err != nil {
		if errors.Is(err, repository.ErrDocumentNotFound) {
			return "", nil
		}

		return "", domainerrors.NewDatabaseExecuteError(err, "read "+string(key))
	}

	return string(raw), nil
}

func saveString(ctx context.Context, store repository.DocumentStore, ownerID uuid.UUID, key repository.DocumentKey, value string) error {
	if err := store.Set(ctx, ownerID, key, []byte(value)); err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "write "+string(key))
	}

	return nil
}
