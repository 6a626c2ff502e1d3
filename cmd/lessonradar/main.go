package main

import (
	"context"
	"log/slog"
	"os"

	"lessonradar/config"
	"lessonradar/internal/delivery"
	"lessonradar/internal/delivery/api"
	"lessonradar/internal/delivery/api/middleware"
	"lessonradar/internal/delivery/api/router/handler"
	"lessonradar/internal/domain/service"
	"lessonradar/internal/infra/auth"
	"lessonradar/internal/infra/kakao"
	logs "lessonradar/internal/infra/log"
	"lessonradar/internal/infra/persistence"
	"lessonradar/internal/infra/pubsub"
	"lessonradar/internal/infra/qrcode"
	"lessonradar/internal/infra/regions"
	"lessonradar/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In

	Logger     *slog.Logger
	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		fx.WithLogger(logs.NewFxLogger),
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			persistence.NewDocumentStore,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewJWTService,
			auth.NewBcryptHasher,
			qrcode.NewQRCodeService,
			pubsub.NewEventPublisher,
			regions.NewBlobSource,
			fx.Annotate(
				kakao.NewClient,
				fx.As(new(service.Geocoder)),
				fx.As(new(service.RegionResolver)),
				fx.As(new(service.PlacesSearcher)),
				fx.As(new(service.SocialAuthService)),
			),
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewSessionService,
			impl.NewAddressBookService,
			impl.NewCategoryService,
			impl.NewLessonSearchService,
			impl.NewLessonDetailService,
			impl.NewCartService,
			impl.NewCheckoutHistoryService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewSessionHandler,
			handler.NewAddressHandler,
			handler.NewCategoryHandler,
			handler.NewLessonHandler,
			handler.NewCartHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, d := range params.Deliveries {
		go func() {
			if err := d.Serve(ctx); err != nil {
				params.Logger.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
