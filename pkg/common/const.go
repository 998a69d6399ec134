package common

const (
	KEY_SESSION    = "session:%s"
	KEY_USER_STATE = "user_state:%d"
)

const (
	SESSION_LOCAL   = "local"
	SESSION_DIGEST  = "digest"
	SESSION_CHAT_ID = "chat-%d"
)

const (
	HEADER_CREDENTIAL   = "X-OpenAI-API-Key"
	HEADER_CONTENT_TYPE = "Content-Type"
	CONTENT_TYPE_JSON   = "application/json"
)
