package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"market-analysis/internal/model"
	"market-analysis/internal/service"
	"market-analysis/internal/view"
	"market-analysis/pkg/logger"

	"github.com/AlecAivazis/survey/v2/terminal"
)

// Interactive is the terminal front-end: one session edited between dispatches
// for as long as the process runs.
type Interactive struct {
	log     *logger.Logger
	market  service.MarketService
	session *service.Session
	out     io.Writer
}

func NewInteractive(log *logger.Logger, market service.MarketService, session *service.Session, out io.Writer) *Interactive {
	i := &Interactive{
		log:     log,
		market:  market,
		session: session,
		out:     out,
	}
	session.Subscribe(func(state model.State) {
		if state.Op.IsLoading() {
			fmt.Fprintln(i.out, RenderLoading(state.Op.Operation().LoadingLabel()))
		}
	})
	return i
}

func (i *Interactive) Run(ctx context.Context) error {
	fmt.Fprintln(i.out, DisplayWelcomeBanner())
	fmt.Fprintln(i.out, RenderSettings(i.session.State().Input))

	for {
		if ctx.Err() != nil {
			return nil
		}

		action, err := PromptForAction()
		if err != nil {
			return i.promptErr(err)
		}
		if action == ActionQuit {
			return nil
		}
		if err := i.handle(ctx, action); err != nil {
			return i.promptErr(err)
		}
	}
}

func (i *Interactive) handle(ctx context.Context, action Action) error {
	switch action {
	case ActionAnalyze:
		i.print(i.market.RunAnalysis(ctx, i.session))
	case ActionSummary:
		i.print(i.market.RunMarketSummary(ctx, i.session))
	case ActionScreen:
		i.print(i.market.RunScreening(ctx, i.session))
	case ActionEditKey:
		key, err := PromptForCredential()
		if err != nil {
			return err
		}
		i.session.SetCredential(key)
	case ActionEditAnalysis:
		return i.editAnalysis()
	case ActionEditCriteria:
		criteria, err := PromptForCriteria(i.session.State().Input.ScreeningCriteria)
		if err != nil {
			return err
		}
		i.session.SetScreeningCriteria(criteria)
	case ActionShowSettings:
		fmt.Fprintln(i.out, RenderSettings(i.session.State().Input))
	case ActionHealth:
		health, err := i.market.CheckHealth(ctx)
		fmt.Fprintln(i.out, RenderHealth(health, err))
	case ActionResetResult:
		i.session.Reset()
	}
	return nil
}

func (i *Interactive) editAnalysis() error {
	input := i.session.State().Input

	symbols, err := PromptForSymbols(input.Symbols)
	if err != nil {
		return err
	}
	analysisType, err := PromptForAnalysisType(input.AnalysisType)
	if err != nil {
		return err
	}
	period, err := PromptForTimePeriod(input.TimePeriod)
	if err != nil {
		return err
	}
	customPrompt, err := PromptForCustomPrompt(input.CustomPrompt)
	if err != nil {
		return err
	}

	i.session.SetSymbols(symbols)
	i.session.SetAnalysisType(analysisType)
	i.session.SetTimePeriod(period)
	i.session.SetCustomPrompt(customPrompt)
	return nil
}

func (i *Interactive) print(res service.DispatchResult) {
	if res.Stale() {
		return
	}
	fmt.Fprintln(i.out, RenderView(view.Build(res.State)))
}

// promptErr turns Ctrl+C into a clean exit.
func (i *Interactive) promptErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		i.log.Debug("Interactive session interrupted")
		return nil
	}
	return err
}
