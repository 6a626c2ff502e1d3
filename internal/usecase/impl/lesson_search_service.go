package impl

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"lessonradar/config"
	deliverycontext "lessonradar/internal/delivery/context"
	"lessonradar/internal/domain/entity"
	domainerrors "lessonradar/internal/domain/errors"
	"lessonradar/internal/domain/service"
	"lessonradar/internal/errors"
	"lessonradar/internal/usecase"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// searchRun is the bookkeeping of one search session. All fields are guarded
// by lessonSearchService.mu.
type searchRun struct {
	session *entity.SearchSession
	cancel  context.CancelFunc

	originDone    bool
	regionDone    bool
	adjacencyDone bool
	lessonsDone   bool
	failed        bool
}

// state derives the session state from the completed stages, so it can only move forward.
func (r *searchRun) state() entity.SearchState {
	switch {
	case r.failed:
		return entity.SearchFailed
	case !r.originDone:
		return entity.SearchResolvingOrigin
	case !r.regionDone:
		return entity.SearchResolvingRegion
	case !r.adjacencyDone:
		return entity.SearchResolvingAdjacency
	case !r.lessonsDone:
		return entity.SearchSearchingLessons
	default:
		return entity.SearchReady
	}
}

type lessonSearchService struct {
	geocoder service.Geocoder
	regions  service.RegionResolver
	places   service.PlacesSearcher
	dataset  service.RegionSource
	cfg      config.SearchConfig
	logger   *slog.Logger
	now      func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*searchRun
	latest   map[uuid.UUID]uuid.UUID // owner -> newest session
}

// NewLessonSearchService is the constructor for lessonSearchService.
func NewLessonSearchService(
	geocoder service.Geocoder,
	regions service.RegionResolver,
	places service.PlacesSearcher,
	dataset service.RegionSource,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.LessonSearchUsecase {
	var searchCfg config.SearchConfig
	if cfg.Search != nil {
		searchCfg = *cfg.Search
	}
	searchCfg.ApplyDefaults()

	return &lessonSearchService{
		geocoder: geocoder,
		regions:  regions,
		places:   places,
		dataset:  dataset,
		cfg:      searchCfg,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[uuid.UUID]*searchRun),
		latest:   make(map[uuid.UUID]uuid.UUID),
	}
}

func (srv *lessonSearchService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Run executes a search to completion.
func (srv *lessonSearchService) Run(ctx context.Context, ownerID uuid.UUID, query entity.LessonQuery) (*entity.SearchSession, error) {
	query, err := normalizeQuery(query)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := srv.withTimeout(ctx)
	defer cancel()

	run := srv.register(ownerID, query, cancel)
	err = srv.execute(runCtx, run)

	snapshot, getErr := srv.Get(ctx, ownerID, run.session.ID)
	if getErr != nil {
		// Superseded while running; report what this run produced.
		srv.mu.Lock()
		snapshot = run.session.Clone()
		srv.mu.Unlock()
	}

	return snapshot, err
}

// Start launches the search on a background goroutine detached from the request.
func (srv *lessonSearchService) Start(ctx context.Context, ownerID uuid.UUID, query entity.LessonQuery) (*entity.SearchSession, error) {
	query, err := normalizeQuery(query)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := srv.withTimeout(context.WithoutCancel(ctx))
	run := srv.register(ownerID, query, cancel)

	srv.mu.Lock()
	snapshot := run.session.Clone()
	srv.mu.Unlock()

	go func() {
		defer cancel()

		if err := srv.execute(runCtx, run); err != nil {
			srv.log(runCtx).Info("Background lesson search failed",
				slog.String("session_id", run.session.ID.String()),
				slog.Any("error", err),
			)
		}
	}()

	return snapshot, nil
}

// Get returns a snapshot of the owner's session.
func (srv *lessonSearchService) Get(_ context.Context, ownerID, sessionID uuid.UUID) (*entity.SearchSession, error) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	run, err := srv.lookup(ownerID, sessionID)
	if err != nil {
		return nil, err
	}

	return run.session.Clone(), nil
}

// Discard forgets the session and cancels it if it is still running.
func (srv *lessonSearchService) Discard(_ context.Context, ownerID, sessionID uuid.UUID) error {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	run, err := srv.lookup(ownerID, sessionID)
	if err != nil {
		return err
	}

	srv.drop(run)

	return nil
}

// SortNearest reorders the session's lessons nearest first.
func (srv *lessonSearchService) SortNearest(_ context.Context, ownerID, sessionID uuid.UUID) (*entity.SearchSession, error) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	run, err := srv.lookup(ownerID, sessionID)
	if err != nil {
		return nil, err
	}

	if len(run.session.Lessons) > 0 {
		sortNearest(run.session.Lessons)
		run.session.UpdatedAt = srv.now()
	}

	return run.session.Clone(), nil
}

// Lesson returns one record of the session exactly as the search produced it.
func (srv *lessonSearchService) Lesson(_ context.Context, ownerID, sessionID uuid.UUID, lessonID entity.LessonID) (*entity.Lesson, error) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	run, err := srv.lookup(ownerID, sessionID)
	if err != nil {
		return nil, err
	}

	lesson, ok := run.session.FindLesson(lessonID)
	if !ok {
		return nil, domainerrors.ErrNoLessonInfo.WithDetails("lesson " + string(lessonID))
	}

	return &lesson, nil
}

func normalizeQuery(query entity.LessonQuery) (entity.LessonQuery, error) {
	query.Address = strings.TrimSpace(query.Address)
	if query.Address == "" {
		return query, domainerrors.ErrOriginUnset
	}

	if query.Category == "" {
		query.Category = entity.DefaultCategory
	}
	if !query.Category.IsValid() {
		return query, domainerrors.ErrInvalidCategory.WithDetails(query.Category.String())
	}

	return query, nil
}

func (srv *lessonSearchService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if srv.cfg.Timeout > 0 {
		return context.WithTimeout(ctx, srv.cfg.Timeout)
	}

	return context.WithCancel(ctx)
}

// register creates the session and supersedes the owner's previous one.
func (srv *lessonSearchService) register(ownerID uuid.UUID, query entity.LessonQuery, cancel context.CancelFunc) *searchRun {
	now := srv.now()
	run := &searchRun{
		session: &entity.SearchSession{
			ID:              uuid.New(),
			OwnerID:         ownerID,
			Query:           query,
			State:           entity.SearchResolvingOrigin,
			AdjacentRegions: []string{},
			Lessons:         []entity.Lesson{},
			CreatedAt:       now,
			UpdatedAt:       now,
		},
		cancel: cancel,
	}

	srv.mu.Lock()
	defer srv.mu.Unlock()

	srv.evictExpired(now)
	if previousID, ok := srv.latest[ownerID]; ok {
		if previous, ok := srv.sessions[previousID]; ok {
			srv.drop(previous)
		}
	}
	srv.sessions[run.session.ID] = run
	srv.latest[ownerID] = run.session.ID

	return run
}

// lookup must be called with mu held.
func (srv *lessonSearchService) lookup(ownerID, sessionID uuid.UUID) (*searchRun, error) {
	srv.evictExpired(srv.now())

	run, ok := srv.sessions[sessionID]
	if !ok || run.session.OwnerID != ownerID {
		return nil, domainerrors.ErrSearchSessionNotFound
	}

	return run, nil
}

// drop must be called with mu held.
func (srv *lessonSearchService) drop(run *searchRun) {
	run.cancel()
	delete(srv.sessions, run.session.ID)
	if srv.latest[run.session.OwnerID] == run.session.ID {
		delete(srv.latest, run.session.OwnerID)
	}
}

// evictExpired drops finished sessions idle for longer than the TTL. Must be called with mu held.
func (srv *lessonSearchService) evictExpired(now time.Time) {
	for _, run := range srv.sessions {
		if run.session.State.IsTerminal() && now.Sub(run.session.UpdatedAt) > srv.cfg.SessionTTL {
			srv.drop(run)
		}
	}
}

// update applies fn to the session unless it has been discarded or superseded.
func (srv *lessonSearchService) update(run *searchRun, fn func(run *searchRun)) bool {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	if current, ok := srv.sessions[run.session.ID]; !ok || current != run {
		return false
	}

	fn(run)
	run.session.State = run.state()
	run.session.UpdatedAt = srv.now()

	return true
}

// execute drives the stages: origin first, then the region chain and the
// lesson search side by side.
func (srv *lessonSearchService) execute(ctx context.Context, run *searchRun) error {
	started := srv.now()
	query := run.session.Query
	logger := srv.log(ctx).With(slog.String("session_id", run.session.ID.String()))

	resolved, err := srv.geocoder.SearchAddress(ctx, query.Address)
	if err != nil {
		failure := geocodeError(err)
		srv.update(run, func(run *searchRun) {
			var appErr domainerrors.AppError
			if errors.As(failure, &appErr) {
				run.session.FailureCode = appErr.ErrorCode()
				run.session.FailureMessage = appErr.Message()
			}
			run.failed = true
		})
		logger.Warn("Search origin could not be resolved", slog.String("address", query.Address), slog.Any("error", err))

		return failure
	}

	origin := resolved.Coordinate
	srv.update(run, func(run *searchRun) {
		run.session.Origin = &origin
		run.originDone = true
	})

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		srv.resolveRegions(groupCtx, run, origin, logger)

		return nil
	})
	group.Go(func() error {
		srv.searchLessons(groupCtx, run, origin, logger)

		return nil
	})
	if err := group.Wait(); err != nil {
		return errors.Wrap(err, "lesson search stages")
	}

	logger.Debug("Lesson search finished", slog.Duration("elapsed", srv.now().Sub(started)))

	return nil
}

// resolveRegions looks up the origin's region while the dataset loads, then
// computes the touching regions once both are available.
func (srv *lessonSearchService) resolveRegions(ctx context.Context, run *searchRun, origin entity.Coordinate, logger *slog.Logger) {
	var (
		region     string
		regionErr  error
		index      service.RegionIndex
		datasetErr error
	)

	var group errgroup.Group
	group.Go(func() error {
		region, regionErr = srv.regions.RegionOf(ctx, origin)
		if regionErr != nil {
			logger.Warn("Region lookup failed", slog.Any("error", regionErr))
			region = ""
		}
		srv.update(run, func(run *searchRun) {
			run.session.Region = region
			if regionErr != nil {
				run.session.Warnings = append(run.session.Warnings, "region lookup failed")
			}
			run.regionDone = true
		})

		return nil
	})
	group.Go(func() error {
		index, datasetErr = srv.dataset.Load(ctx)
		if datasetErr != nil {
			logger.Warn("Region dataset unavailable", slog.Any("error", datasetErr))
		}

		return nil
	})
	_ = group.Wait()

	adjacent := []string{}
	var warning string
	switch {
	case region == "":
	case datasetErr != nil:
		warning = "region dataset unavailable"
	default:
		names, ok := index.Adjacent(region, srv.cfg.MaxAdjacentRegions)
		if !ok {
			warning = "region " + region + " is not in the dataset"
		}
		adjacent = append(adjacent, names...)
	}

	srv.update(run, func(run *searchRun) {
		run.session.AdjacentRegions = adjacent
		if warning != "" {
			run.session.Warnings = append(run.session.Warnings, warning)
		}
		run.adjacencyDone = true
	})
}

// searchLessons queries places around the origin, substituting the placeholder
// list when the search fails or finds nothing.
func (srv *lessonSearchService) searchLessons(ctx context.Context, run *searchRun, origin entity.Coordinate, logger *slog.Logger) {
	places, err := srv.places.SearchKeyword(ctx, service.PlacesQuery{
		Keyword:      placesKeyword(run.session.Query.Category, srv.cfg.DomainTerm),
		Center:       origin,
		RadiusMeters: srv.cfg.RadiusMeters,
	})

	fallback := err != nil || len(places) == 0
	var lessons []entity.Lesson
	if fallback {
		logger.Warn("Lesson search failed, using placeholder lessons", slog.Int("results", len(places)), slog.Any("error", err))
		lessons = placeholderLessons()
	} else {
		lessons = withDistances(origin, places)
	}

	srv.update(run, func(run *searchRun) {
		run.session.Lessons = lessons
		run.session.LessonsReady = true
		run.session.Fallback = fallback
		if fallback {
			run.session.Warnings = append(run.session.Warnings, "lesson search unavailable, showing sample lessons")
		}
		run.lessonsDone = true
	})
}
