package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/safatanc/gsalt-console/injector"
	"github.com/safatanc/gsalt-console/internal/infrastructures"
	"github.com/sirupsen/logrus"
)

func main() {
	config := infrastructures.LoadConfig()
	infrastructures.SetupLogger(config)

	app, err := injector.InitializeApplication(config)
	if err != nil {
		logrus.Fatalf("Failed to initialize application: %v", err)
	}

	router := infrastructures.NewFiberApp()
	app.RegisterRoutes(router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go app.ListSessions.RunIdleWorker(ctx)

	go func() {
		if err := router.Listen(":" + config.PORT); err != nil {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logrus.Info("shutting down")

	if err := router.ShutdownWithTimeout(10 * time.Second); err != nil {
		logrus.WithError(err).Error("server shutdown failed")
	}
	app.ListSessions.CloseAll()
}
