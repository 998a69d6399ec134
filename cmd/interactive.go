package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"market-analysis/internal/delivery/cli"
	"market-analysis/pkg/common"

	"github.com/spf13/cobra"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Edit settings and run requests from an interactive terminal session",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		appDep, err := NewAppDependency(ctx)
		if err != nil {
			return err
		}
		defer appDep.Close()

		sess := appDep.service.SessionService.GetOperator(common.SESSION_LOCAL)
		return cli.NewInteractive(appDep.log, appDep.service.MarketService, sess, os.Stdout).Run(ctx)
	},
}
