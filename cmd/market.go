package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"market-analysis/internal/delivery/cli"
	"market-analysis/internal/model"
	"market-analysis/internal/service"
	"market-analysis/internal/view"
	"market-analysis/pkg/common"

	"github.com/spf13/cobra"
)

var (
	flagSymbols      string
	flagAnalysisType string
	flagTimePeriod   string
	flagPrompt       string
	flagCriteria     string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze stock symbols",
	Example: `  market-analysis analyze --symbols AAPL,MSFT --type fundamental --period 3mo
  OPENAI_API_KEY=sk-... market-analysis analyze`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOnce(func(ctx context.Context, market service.MarketService, sess *service.Session) service.DispatchResult {
			if cmd.Flags().Changed("symbols") {
				sess.SetSymbols(flagSymbols)
			}
			if cmd.Flags().Changed("type") {
				sess.SetAnalysisType(model.AnalysisType(flagAnalysisType))
			}
			if cmd.Flags().Changed("period") {
				sess.SetTimePeriod(model.TimePeriod(flagTimePeriod))
			}
			sess.SetCustomPrompt(flagPrompt)
			return market.RunAnalysis(ctx, sess)
		})
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Generate the daily market summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOnce(func(ctx context.Context, market service.MarketService, sess *service.Session) service.DispatchResult {
			return market.RunMarketSummary(ctx, sess)
		})
	},
}

var screenCmd = &cobra.Command{
	Use:     "screen [criteria]",
	Short:   "Screen stocks matching free text criteria",
	Example: `  market-analysis screen "large cap tech with P/E under 25"`,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		criteria := flagCriteria
		if len(args) == 1 {
			criteria = args[0]
		}
		return runOnce(func(ctx context.Context, market service.MarketService, sess *service.Session) service.DispatchResult {
			sess.SetScreeningCriteria(criteria)
			return market.RunScreening(ctx, sess)
		})
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the analysis service is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		appDep, err := NewAppDependency(ctx)
		if err != nil {
			return err
		}
		defer appDep.Close()

		health, err := appDep.service.MarketService.CheckHealth(ctx)
		fmt.Fprintln(os.Stdout, cli.RenderHealth(health, err))
		return err
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&flagSymbols, "symbols", "s", "", "comma separated stock symbols (default AAPL,GOOGL,MSFT)")
	analyzeCmd.Flags().StringVarP(&flagAnalysisType, "type", "t", "", "analysis type: technical, fundamental or sentiment (default technical)")
	analyzeCmd.Flags().StringVarP(&flagTimePeriod, "period", "p", "", "time period: 1d, 5d, 1mo, 3mo, 6mo or 1y (default 1mo)")
	analyzeCmd.Flags().StringVar(&flagPrompt, "prompt", "", "extra instructions for the analysis")

	screenCmd.Flags().StringVarP(&flagCriteria, "criteria", "c", "", "screening criteria")
}

// runOnce runs one dispatch on the local session and prints the rendered result.
// A failed dispatch exits non-zero.
func runOnce(dispatch func(ctx context.Context, market service.MarketService, sess *service.Session) service.DispatchResult) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appDep, err := NewAppDependency(ctx)
	if err != nil {
		return err
	}
	defer appDep.Close()

	sess := appDep.service.SessionService.GetOperator(common.SESSION_LOCAL)
	sess.Subscribe(func(state model.State) {
		if state.Op.IsLoading() {
			fmt.Fprintln(os.Stderr, cli.RenderLoading(state.Op.Operation().LoadingLabel()))
		}
	})

	res := dispatch(ctx, appDep.service.MarketService, sess)
	fmt.Fprintln(os.Stdout, cli.RenderView(view.Build(res.State)))

	if msg, _, failed := res.State.Op.Error(); failed {
		return errors.New(msg)
	}
	return nil
}
