package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	adapthttp "mealtrack/internal/adapter/http"
	"mealtrack/internal/adapter/notify"
	"mealtrack/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the day-close job",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		broker := notify.NewBroker()
		return withServices(ctx, broker, func(svc *app.Services) error {
			return serve(ctx, svc, broker)
		})
	},
}

func serve(ctx context.Context, svc *app.Services, broker *notify.Broker) error {
	h := adapthttp.New(svc, broker, logger, adapthttp.Options{
		WSPingInterval: cfg.Server.WSPingInterval,
	}).Handler()

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      h,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	if cfg.DayClose.Disabled {
		logger.Info("day-close job disabled")
	} else {
		g.Go(func() error {
			return svc.DayCloser.Run(gctx)
		})
	}
	return g.Wait()
}
