package cmd

import (
	"context"
	"errors"
	httpNet "net/http"
	"os"
	"os/signal"
	"syscall"

	"market-analysis/internal/delivery/http"
	"market-analysis/internal/delivery/telegram"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Telegram bot, the HTTP API and the scheduled market digest",
	RunE:  Serve,
}

func Serve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appDep, err := NewAppDependency(ctx)
	if err != nil {
		return err
	}
	defer appDep.Close()

	if err := appDep.WithServer(); err != nil {
		return err
	}

	httpHandler := http.NewHttpAPIHandler(appDep.cfg, appDep.echo, appDep.service)
	telegramHandler := telegram.NewTelegramBotHandler(
		ctx,
		appDep.cfg,
		appDep.log,
		appDep.telegramBot,
		appDep.telegram,
		appDep.echo,
		appDep.service,
		appDep.stateCache,
	)
	apiServer := NewHTTPServer(appDep, httpHandler)
	apiServer.SetupRoutes()
	telegramHandler.RegisterHandlers()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := apiServer.Start(); err != nil && !errors.Is(err, httpNet.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		telegramHandler.Start()
		return nil
	})

	g.Go(func() error {
		return appDep.service.SchedulerService.Start(gctx, telegramHandler)
	})

	g.Go(func() error {
		<-gctx.Done()
		appDep.log.Info("Shutting down gracefully...")
		telegramHandler.Stop()
		return apiServer.Stop()
	})

	if err := g.Wait(); err != nil {
		appDep.log.Error("Server stopped with error", zap.Error(err))
		return err
	}
	return nil
}
