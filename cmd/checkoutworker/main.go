package main

import (
	"context"
	"log/slog"
	"os"

	"lessonradar/config"
	"lessonradar/internal/delivery"
	"lessonradar/internal/delivery/worker"
	"lessonradar/internal/delivery/worker/handler"
	logs "lessonradar/internal/infra/log"
	"lessonradar/internal/infra/persistence"
	"lessonradar/internal/usecase/impl"

	"go.uber.org/fx"
)

type startWorkerParams struct {
	fx.In

	Logger     *slog.Logger
	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		fx.WithLogger(logs.NewFxLogger),
		fx.Provide(
			config.New,
			logs.New,
			context.Background,
			persistence.NewDocumentStore,
			impl.NewCheckoutHistoryService,
			handler.NewPushHandler,
			fx.Annotate(
				worker.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
		fx.Invoke(startWorker),
	).Run()
}

func startWorker(ctx context.Context, params startWorkerParams) {
	for _, d := range params.Deliveries {
		go func() {
			if err := d.Serve(ctx); err != nil {
				params.Logger.Error("Failed to start worker", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
