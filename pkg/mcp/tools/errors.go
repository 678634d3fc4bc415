package tools

import (
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ekaya-inc/bizget-engine/pkg/apperrors"
)

// ErrorResponse represents a structured error in tool results.
// Actionable failures are returned as tool results rather than protocol errors
// so the calling model sees the code and can correct its arguments.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// NewErrorResult creates a tool result containing a structured error.
// Do NOT use this for internal failures; return a Go error instead.
func NewErrorResult(code, message string) *mcp.CallToolResult {
	return NewErrorResultWithDetails(code, message, nil)
}

// NewErrorResultWithDetails creates an error result with additional context,
// e.g. the list of valid domain names.
func NewErrorResultWithDetails(code, message string, details any) *mcp.CallToolResult {
	jsonBytes, _ := json.Marshal(ErrorResponse{
		Error:   true,
		Code:    code,
		Message: message,
		Details: details,
	})
	result := mcp.NewToolResultText(string(jsonBytes))
	result.IsError = true
	return result
}

// userErrorCode maps an application error the caller can fix to a result code.
// It returns "" for everything else.
func userErrorCode(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrDomainNotFound):
		return "domain_not_found"
	case errors.Is(err, apperrors.ErrNotFound):
		return "use_case_not_found"
	case errors.Is(err, apperrors.ErrInvalidCostInput):
		return "invalid_cost_input"
	case errors.Is(err, apperrors.ErrUnsupportedFormat):
		return "unsupported_format"
	default:
		return ""
	}
}
