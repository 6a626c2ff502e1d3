package regions

import (
	"context"
	"log/slog"
	"sync"

	"lessonradar/config"
	"lessonradar/internal/domain/service"
	"lessonradar/internal/errors"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
)

// ErrNotConfigured is returned by Load when no dataset location is configured.
var ErrNotConfigured = errors.New("region dataset location is not configured")

// BlobSource reads the region GeoJSON from a gocloud bucket (file://, gs://, mem://).
// The parsed dataset is kept after the first successful load; failures are retried on the next call.
type BlobSource struct {
	open   func(ctx context.Context) (*blob.Bucket, error)
	owned  bool
	key    string
	logger *slog.Logger

	mu      sync.Mutex
	dataset *Dataset
}

// NewBlobSource opens regions.bucketUrl on demand.
func NewBlobSource(cfg *config.Config, logger *slog.Logger) service.RegionSource {
	bucketURL := cfg.Regions.BucketURL

	return &BlobSource{
		open: func(ctx context.Context) (*blob.Bucket, error) {
			if bucketURL == "" || cfg.Regions.Key == "" {
				return nil, ErrNotConfigured
			}

			return blob.OpenBucket(ctx, bucketURL)
		},
		owned:  true,
		key:    cfg.Regions.Key,
		logger: logger,
	}
}

// NewBucketSource reads key from an already opened bucket. The bucket stays owned by the caller.
func NewBucketSource(bucket *blob.Bucket, key string, logger *slog.Logger) *BlobSource {
	return &BlobSource{
		open: func(context.Context) (*blob.Bucket, error) {
			return bucket, nil
		},
		key:    key,
		logger: logger,
	}
}

// Load returns the dataset, reading it on first use. Concurrent callers share one read.
func (s *BlobSource) Load(ctx context.Context) (service.RegionIndex, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dataset != nil {
		return s.dataset, nil
	}

	data, err := s.read(ctx)
	if err != nil {
		return nil, err
	}

	dataset, err := ParseDataset(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", s.key)
	}

	s.dataset = dataset
	s.logger.Info("Region dataset loaded", slog.String("key", s.key), slog.Int("regions", dataset.Len()))

	return dataset, nil
}

func (s *BlobSource) read(ctx context.Context) ([]byte, error) {
	bucket, err := s.open(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "open region bucket")
	}
	if s.owned {
		defer func() {
			if cerr := bucket.Close(); cerr != nil {
				s.logger.Warn("Failed to close region bucket", slog.Any("error", cerr))
			}
		}()
	}

	data, err := bucket.ReadAll(ctx, s.key)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", s.key)
	}

	return data, nil
}
