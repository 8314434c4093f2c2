package main

// Runs the maintenance jobs from an EventBridge schedule:
//   GOOS=linux GOARCH=arm64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-worker

import (
	"context"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"docpin/internal/bootstrap"
	"docpin/internal/shared/config"
	"docpin/internal/shared/telemetry"
)

var (
	initOnce sync.Once
	initErr  error
	app      *bootstrap.App
)

func initApp() {
	built, err := bootstrap.Build(context.Background(), config.Load())
	if err != nil {
		initErr = err
		return
	}
	app = built
}

func handler(ctx context.Context, event events.CloudWatchEvent) error {
	initOnce.Do(initApp)
	if initErr != nil {
		telemetry.Error("lambda.bootstrap_failed", map[string]any{"error": initErr.Error()})
		return initErr
	}
	telemetry.Info("lambda.jobs.start", map[string]any{"event_id": event.ID, "source": event.Source})
	return app.Jobs.RunAll(ctx)
}

func main() {
	lambda.Start(handler)
}
