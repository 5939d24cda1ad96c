// Package resp defines the unified JSON response envelope used by every
// HTTP handler.
package resp

import (
	"encoding/json"
	"net/http"
)

// Code is a machine-readable business code, independent of HTTP status.
type Code int

const (
	CodeOK            Code = 0
	CodeInvalidParam  Code = 1001
	CodeUnauthorized  Code = 1002
	CodeNotFound      Code = 1003
	CodeTimeout       Code = 1004
	CodeRateLimited   Code = 1005
	CodeInternalError Code = 2001
)

// HTTPStatusFromCode maps a business code to a default HTTP status.
func HTTPStatusFromCode(code Code) int {
	switch code {
	case CodeOK:
		return http.StatusOK
	case CodeInvalidParam:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeTimeout:
		return http.StatusServiceUnavailable
	case CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Body is the response envelope.
type Body struct {
	Code      Code        `json:"code"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
	TraceID   string      `json:"trace_id,omitempty"`
}

// OK writes a success envelope with the given payload.
func OK(w http.ResponseWriter, data interface{}, requestID, traceID string) {
	write(w, http.StatusOK, &Body{
		Code:      CodeOK,
		Data:      data,
		RequestID: requestID,
		TraceID:   traceID,
	})
}

// NoContent writes an empty 204 response. The envelope is skipped on
// purpose: there is no body to wrap.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error writes an error envelope with the given HTTP status and code.
func Error(w http.ResponseWriter, status int, code Code, message, requestID, traceID string) {
	write(w, status, &Body{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		TraceID:   traceID,
	})
}

func write(w http.ResponseWriter, status int, body *Body) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
