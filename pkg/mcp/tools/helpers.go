package tools

import (
	"fmt"
	"math"

	"github.com/mark3labs/mcp-go/mcp"
)

// getOptionalString extracts an optional string argument from the request.
func getOptionalString(req mcp.CallToolRequest, key string) string {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return ""
	}
	val, ok := args[key].(string)
	if !ok {
		return ""
	}
	return val
}

// getOptionalFloat extracts an optional numeric argument from the request.
func getOptionalFloat(req mcp.CallToolRequest, key string) (float64, bool) {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return 0, false
	}
	val, ok := args[key].(float64)
	return val, ok
}

// requireFloat extracts a required numeric argument.
func requireFloat(req mcp.CallToolRequest, key string) (float64, error) {
	val, ok := getOptionalFloat(req, key)
	if !ok {
		return 0, fmt.Errorf("required argument %q must be a number", key)
	}
	return val, nil
}

// getOptionalCount extracts a non-negative whole-number argument, returning def when absent.
func getOptionalCount(req mcp.CallToolRequest, key string, def int) (int, error) {
	val, ok := getOptionalFloat(req, key)
	if !ok {
		return def, nil
	}
	if val < 0 || val != math.Trunc(val) {
		return 0, fmt.Errorf("%s must be a non-negative whole number", key)
	}
	return int(val), nil
}
