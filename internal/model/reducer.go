package model

// State is everything one session holds. Seq identifies the latest dispatch; only a
// settlement carrying that number may change Op.
type State struct {
	Input SessionInput
	Op    OperationState
	Seq   uint64
}

func NewState() State {
	return State{Input: DefaultSessionInput(), Op: Idle()}
}

// IsCurrent reports whether seq is the latest dispatch of this state.
func (s State) IsCurrent(seq uint64) bool {
	return s.Seq == seq
}

type Action interface {
	reduce(s State) State
}

// Reduce is the only way a State changes.
func Reduce(s State, a Action) State {
	if a == nil {
		return s
	}
	return a.reduce(s)
}

type SetCredential struct{ Value string }

func (a SetCredential) reduce(s State) State {
	s.Input.Credential = Credential(a.Value)
	return s
}

type SetSymbols struct{ Value string }

func (a SetSymbols) reduce(s State) State {
	s.Input.Symbols = a.Value
	return s
}

type SetAnalysisType struct{ Value AnalysisType }

func (a SetAnalysisType) reduce(s State) State {
	s.Input.AnalysisType = a.Value
	return s
}

type SetTimePeriod struct{ Value TimePeriod }

func (a SetTimePeriod) reduce(s State) State {
	s.Input.TimePeriod = a.Value
	return s
}

type SetCustomPrompt struct{ Value string }

func (a SetCustomPrompt) reduce(s State) State {
	s.Input.CustomPrompt = a.Value
	return s
}

type SetScreeningCriteria struct{ Value string }

func (a SetScreeningCriteria) reduce(s State) State {
	s.Input.ScreeningCriteria = a.Value
	return s
}

// DispatchRejected records a local validation failure. It supersedes any call in flight.
type DispatchRejected struct {
	Operation Operation
	Message   string
}

func (a DispatchRejected) reduce(s State) State {
	s.Seq++
	s.Op = Failed(a.Operation, ErrorValidation, a.Message)
	return s
}

// DispatchStarted clears the previous result or error and opens a new sequence number.
type DispatchStarted struct {
	Operation Operation
}

func (a DispatchStarted) reduce(s State) State {
	s.Seq++
	s.Op = Loading(a.Operation)
	return s
}

// DispatchSettled applies the outcome of dispatch Seq. Stale or non-terminal outcomes
// leave the state untouched.
type DispatchSettled struct {
	Seq     uint64
	Outcome OperationState
}

func (a DispatchSettled) reduce(s State) State {
	if !s.IsCurrent(a.Seq) || !s.Op.IsLoading() || !a.Outcome.IsTerminal() {
		return s
	}
	s.Op = a.Outcome
	return s
}

// ResetOperation drops the current result or error and invalidates any call in flight.
type ResetOperation struct{}

func (ResetOperation) reduce(s State) State {
	s.Seq++
	s.Op = Idle()
	return s
}
