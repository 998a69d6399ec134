package cli

import (
	"fmt"
	"strings"

	"market-analysis/internal/model"

	"github.com/AlecAivazis/survey/v2"
)

type Action string

const (
	ActionAnalyze      Action = "Run stock analysis"
	ActionSummary      Action = "Generate market summary"
	ActionScreen       Action = "Screen stocks"
	ActionEditKey      Action = "Set OpenAI API key"
	ActionEditAnalysis Action = "Edit analysis settings"
	ActionEditCriteria Action = "Edit screening criteria"
	ActionShowSettings Action = "Show settings"
	ActionHealth       Action = "Check service health"
	ActionResetResult  Action = "Clear result"
	ActionQuit         Action = "Quit"
)

func actions() []string {
	return []string{
		string(ActionAnalyze),
		string(ActionSummary),
		string(ActionScreen),
		string(ActionEditKey),
		string(ActionEditAnalysis),
		string(ActionEditCriteria),
		string(ActionShowSettings),
		string(ActionHealth),
		string(ActionResetResult),
		string(ActionQuit),
	}
}

// PromptForAction asks what to do next.
func PromptForAction() (Action, error) {
	var choice string
	prompt := &survey.Select{
		Message:  "What would you like to do?",
		Options:  actions(),
		PageSize: len(actions()),
	}
	if err := survey.AskOne(prompt, &choice); err != nil {
		return "", err
	}
	return Action(choice), nil
}

// PromptForCredential reads the OpenAI API key without echoing it.
func PromptForCredential() (string, error) {
	var key string
	prompt := &survey.Password{
		Message: "Enter your OpenAI API key:",
		Help:    "The key is sent to the analysis service with every request and is never stored",
	}
	if err := survey.AskOne(prompt, &key); err != nil {
		return "", err
	}
	return strings.TrimSpace(key), nil
}

func PromptForSymbols(current string) (string, error) {
	var symbols string
	prompt := &survey.Input{
		Message: "Stock symbols (comma separated):",
		Help:    "For example AAPL,GOOGL,MSFT",
		Default: current,
	}
	if err := survey.AskOne(prompt, &symbols); err != nil {
		return "", err
	}
	return symbols, nil
}

func PromptForAnalysisType(current model.AnalysisType) (model.AnalysisType, error) {
	types := model.AnalysisTypes()
	options := make([]string, 0, len(types))
	for _, t := range types {
		options = append(options, t.DisplayName())
	}

	var selected string
	prompt := &survey.Select{
		Message: "Analysis type:",
		Options: options,
		Default: current.DisplayName(),
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return "", err
	}
	for _, t := range types {
		if t.DisplayName() == selected {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown analysis type %q", selected)
}

func PromptForTimePeriod(current model.TimePeriod) (model.TimePeriod, error) {
	periods := model.TimePeriods()
	options := make([]string, 0, len(periods))
	for _, p := range periods {
		options = append(options, p.DisplayName())
	}

	var selected string
	prompt := &survey.Select{
		Message: "Time period:",
		Options: options,
		Default: current.DisplayName(),
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return "", err
	}
	for _, p := range periods {
		if p.DisplayName() == selected {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown time period %q", selected)
}

func PromptForCustomPrompt(current string) (string, error) {
	var text string
	prompt := &survey.Input{
		Message: "Custom analysis prompt (optional):",
		Help:    "Extra instructions for the analysis, e.g. focus on dividend safety",
		Default: current,
	}
	if err := survey.AskOne(prompt, &text); err != nil {
		return "", err
	}
	return text, nil
}

func PromptForCriteria(current string) (string, error) {
	var criteria string
	prompt := &survey.Multiline{
		Message: "Describe the stocks you are looking for:",
		Help:    "For example: large cap technology stocks with P/E under 25",
		Default: current,
	}
	if err := survey.AskOne(prompt, &criteria); err != nil {
		return "", err
	}
	return criteria, nil
}
