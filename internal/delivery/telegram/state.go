package telegram

type conversationState int

// A field command sent without an argument parks the chat in one of these states until
// the next text message arrives.
const (
	StateIdle conversationState = iota
	StateWaitingCredential
	StateWaitingSymbols
	StateWaitingCustomPrompt
	StateWaitingCriteria
)
