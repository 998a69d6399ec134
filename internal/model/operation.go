package model

const (
	MsgMissingCredential = "Please enter your OpenAI API key"
	MsgMissingSymbols    = "Please enter at least one stock symbol"
	MsgMissingCriteria   = "Please enter screening criteria"
	MsgConnectionFailed  = "Failed to connect to the analysis service"
)

type Operation int

const (
	OperationNone Operation = iota
	OperationAnalysis
	OperationMarketSummary
	OperationScreening
)

func (o Operation) String() string {
	switch o {
	case OperationAnalysis:
		return "analysis"
	case OperationMarketSummary:
		return "market_summary"
	case OperationScreening:
		return "screening"
	default:
		return "none"
	}
}

// FallbackError is shown when the service reports failure without a message.
func (o Operation) FallbackError() string {
	switch o {
	case OperationAnalysis:
		return "Analysis failed"
	case OperationMarketSummary:
		return "Market summary failed"
	case OperationScreening:
		return "Stock screening failed"
	default:
		return "Request failed"
	}
}

func (o Operation) LoadingLabel() string {
	switch o {
	case OperationAnalysis:
		return "Analyzing..."
	case OperationMarketSummary:
		return "Generating Summary..."
	case OperationScreening:
		return "Screening..."
	default:
		return "Working..."
	}
}

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

type ErrorKind int

const (
	ErrorNone ErrorKind = iota
	ErrorValidation
	ErrorTransport
	ErrorApplication
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorValidation:
		return "validation"
	case ErrorTransport:
		return "transport"
	case ErrorApplication:
		return "application"
	default:
		return "none"
	}
}

// OperationState is a tagged union: exactly one of Idle, Loading, Succeeded or Failed.
// Build it only through the constructors below.
type OperationState struct {
	status    Status
	operation Operation
	result    Result
	message   string
	errKind   ErrorKind
}

func Idle() OperationState {
	return OperationState{status: StatusIdle}
}

func Loading(op Operation) OperationState {
	return OperationState{status: StatusLoading, operation: op}
}

func Succeeded(op Operation, result Result) OperationState {
	if result == nil {
		result = UnrecognizedResult{}
	}
	return OperationState{status: StatusSucceeded, operation: op, result: result}
}

func Failed(op Operation, kind ErrorKind, message string) OperationState {
	return OperationState{status: StatusFailed, operation: op, errKind: kind, message: message}
}

func (o OperationState) Status() Status       { return o.status }
func (o OperationState) Operation() Operation { return o.operation }
func (o OperationState) IsLoading() bool      { return o.status == StatusLoading }

func (o OperationState) IsTerminal() bool {
	return o.status == StatusSucceeded || o.status == StatusFailed
}

// Result returns the payload of a Succeeded state.
func (o OperationState) Result() (Result, bool) {
	if o.status != StatusSucceeded {
		return nil, false
	}
	return o.result, true
}

// Error returns the message and kind of a Failed state.
func (o OperationState) Error() (string, ErrorKind, bool) {
	if o.status != StatusFailed {
		return "", ErrorNone, false
	}
	return o.message, o.errKind, true
}
