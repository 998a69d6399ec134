package dto

import "net/http"

type BaseResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func NewBaseResponse(code int, message string, data interface{}) *BaseResponse {
	return &BaseResponse{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

func NewBadRequestResponse(message string) *BaseResponse {
	return NewBaseResponse(http.StatusBadRequest, message, nil)
}

func NewSuccessResponse(message string, data interface{}) *BaseResponse {
	return NewBaseResponse(http.StatusOK, message, data)
}

func NewServiceUnavailableResponse(message string, data interface{}) *BaseResponse {
	return NewBaseResponse(http.StatusServiceUnavailable, message, data)
}

// ClientHealth is what GET /api/health reports about this client and its upstream.
type ClientHealth struct {
	Status         string          `json:"status"`
	ActiveSessions int             `json:"active_sessions"`
	Upstream       *HealthResponse `json:"upstream,omitempty"`
	UpstreamError  string          `json:"upstream_error,omitempty"`
}
