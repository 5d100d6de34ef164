// Package server boots and gracefully stops the AngoTech backend.
package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/angotech/angotech/app/jobs"
	"github.com/angotech/angotech/app/notifications"
	"github.com/angotech/angotech/config"
	"github.com/angotech/angotech/internal/kernel"
	"github.com/angotech/angotech/pkg/cache"
	"github.com/angotech/angotech/pkg/database"
	"github.com/angotech/angotech/pkg/event"
	grpcserver "github.com/angotech/angotech/pkg/grpc"
	"github.com/angotech/angotech/pkg/logger"
	"github.com/angotech/angotech/pkg/notification"
	"github.com/angotech/angotech/pkg/queue"
	"github.com/angotech/angotech/pkg/schedule"
	"github.com/angotech/angotech/pkg/storage"
	"github.com/angotech/angotech/pkg/workerpool"
)

const queueWorkers = 5

// Start boots every subsystem, serves HTTP until SIGINT/SIGTERM, then
// drains pending cart writes and shuts down in order.
func Start() error {
	if err := config.MustLoad(); err != nil {
		return err
	}
	if err := database.Connect(); err != nil {
		return err
	}
	if err := cache.Connect(); err != nil {
		logger.Warn("server: redis unavailable, degraded mode", "error", err)
	}
	storage.Connect()
	event.ConnectKafka()

	pool := workerpool.New(8)
	event.UsePool(pool)

	queue.UseDB(database.DB)
	if cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}

	httpKernel := kernel.NewHTTPKernel(database.DB)
	registerListeners()
	registerSchedules(httpKernel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go queue.StartWorkers(ctx, queueWorkers)
	go schedule.Start(ctx)

	var grpcStop func()
	if port := config.GRPCPort(); port != "" {
		srv, lis, err := grpcserver.Start(port)
		if err != nil {
			logger.Error("server: grpc start failed", "error", err)
		} else {
			go srv.Serve(lis)
			grpcStop = func() { grpcserver.Stop(srv) }
		}
	}

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           httpKernel.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server: listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("server: shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server: http shutdown", "error", err)
	}

	// Pending debounced cart writes must reach the database before exit.
	httpKernel.Cart.Stop()

	if grpcStop != nil {
		grpcStop()
	}
	pool.Shutdown()
	event.CloseKafka()

	logger.Info("server: stopped")
	return nil
}

// registerListeners wires domain events to background work.
func registerListeners() {
	event.Listen("order.placed", func(payload interface{}) {
		fields, ok := payload.(map[string]interface{})
		if !ok {
			return
		}
		job := &jobs.OrderConfirmationJob{}
		job.OrderID, _ = fields["order_id"].(string)
		job.Email, _ = fields["email"].(string)
		job.FullName, _ = fields["full_name"].(string)
		job.TotalAmount, _ = fields["total_amount"].(float64)
		if err := queue.Dispatch(job); err != nil {
			logger.Error("server: order confirmation dispatch failed", "error", err)
		}

		if url := config.Get("ORDER_WEBHOOK_URL", ""); url != "" {
			notification.SendAsync("", &notifications.OrderPlaced{URL: url, Payload: fields})
		}
	})
}

// registerSchedules declares recurring maintenance tasks.
func registerSchedules(k *kernel.Kernel) {
	schedule.Every(10).Minutes().Name("warm-catalog-cache").WithoutOverlapping().Run(func() {
		if _, err := k.Catalog.All(); err != nil {
			logger.Warn("schedule: catalog warmup failed", "error", err)
		}
	})
}
