package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/linesmerrill/civicdesk/api/handlers"
	"github.com/linesmerrill/civicdesk/api/scheduler"
	"github.com/linesmerrill/civicdesk/config"
	"github.com/linesmerrill/civicdesk/databases"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := handlers.App{}
	a.Config = *config.New()

	//initialize database and router
	if err := a.Initialize(ctx); err != nil {
		zap.S().Fatalw("failed to initialize", "error", err)
	}

	if a.Config.SendgridAPIKey != "" && a.Config.DigestFromEmail != "" {
		var lock scheduler.Lock
		if a.Limiter != nil {
			lock = scheduler.RedisLock{Redis: a.Limiter.Redis, Prefix: "civicdesk"}
		}
		digest := scheduler.NewDigest(
			databases.NewComplaintDatabase(a.Database()),
			databases.NewUserDatabase(a.Database()),
			scheduler.NewSendgridMailer(a.Config.SendgridAPIKey, a.Config.DigestFromEmail),
			lock,
		)
		digest.DeskURL = a.Config.BaseURL
		if err := digest.Start(a.Config.DigestCron); err != nil {
			zap.S().Errorw("pending complaint digest disabled", "error", err)
		} else {
			defer digest.Stop()
		}
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%v", a.Config.Port),
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zap.S().Warnw("shutdown did not finish cleanly", "error", err)
		}
	}()

	zap.S().Infow("civicdesk is up and running",
		"port", a.Config.Port,
		"url", a.Config.BaseURL,
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zap.S().Errorw("server stopped", "error", err)
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.Close(closeCtx); err != nil {
		zap.S().Warnw("failed to disconnect from database", "error", err)
	}
}
