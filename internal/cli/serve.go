package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/valyala/fasthttp"

	"labor-odds/internal/dataset"
	"labor-odds/internal/engine"
	"labor-odds/internal/handler"
	"labor-odds/internal/logger"
	"labor-odds/internal/scheduler"
)

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve forecasts over HTTP and refresh the dataset on a schedule",
		Long: `Serve forecasts over HTTP and refresh the dataset on a schedule.

Endpoints:
  GET /forecast?start=YYYY-MM-DD&end=YYYY-MM-DD
  GET /day?date=YYYY-MM-DD
  GET /histogram?scheduled=true
  GET /healthz
  GET /metrics`,
		RunE: a.runServe,
	}

	cmd.Flags().StringVar(&a.opts.start, "start", "", "Fixed window start, YYYY-MM-DD (default: today on each request)")
	cmd.Flags().StringVar(&a.opts.end, "end", "", "Window end, YYYY-MM-DD")
	cmd.Flags().StringVar(&a.opts.port, "port", "", "Listen port")
	cmd.Flags().StringVar(&a.opts.refreshCron, "refresh-cron", "", "Cron spec for reloading the input files")
	return cmd
}

func (a *app) runServe(cmd *cobra.Command, args []string) error {
	cfg := a.cfg
	log := logger.Get()

	load := func(ctx context.Context) (*dataset.Dataset, error) {
		return dataset.Load(ctx, cfg.DatasetOptions())
	}
	window := func() engine.Params {
		return cfg.ParamsAt(time.Now())
	}

	srv := handler.NewServer(load, window, log)
	loadCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	err := srv.Reload(loadCtx)
	cancel()
	if err != nil {
		return err
	}

	refresher := scheduler.NewRefreshScheduler(cfg.RefreshCron, srv.Reload, log)
	if err := refresher.Start(); err != nil {
		return err
	}
	defer refresher.Stop()

	httpServer := &fasthttp.Server{
		Handler:      srv.Handle,
		Name:         "labor-odds",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Port).Info("Labor odds service starting")
		errCh <- httpServer.ListenAndServe(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	return httpServer.Shutdown()
}
