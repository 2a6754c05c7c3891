package mcp

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func arguments(req mcp.CallToolRequest) map[string]any {
	args, _ := req.Params.Arguments.(map[string]any)
	return args
}

// getString returns def when the parameter is missing or not a string.
func getString(req mcp.CallToolRequest, name, def string) string {
	if v, err := req.RequireString(name); err == nil {
		return v
	}
	return def
}

// getInt reads a JSON number, which arrives as float64.
func getInt(req mcp.CallToolRequest, name string, def int) int {
	if v, ok := arguments(req)[name].(float64); ok {
		return int(v)
	}
	return def
}

func getID(req mcp.CallToolRequest) (int64, bool) {
	v, ok := arguments(req)["id"].(float64)
	if !ok || v <= 0 {
		return 0, false
	}
	return int64(v), true
}

// getValues reads a name->value object. Non-string values are formatted, so
// a port given as 22 becomes "22".
func getValues(req mcp.CallToolRequest, name string) map[string]string {
	raw, ok := arguments(req)[name].(map[string]any)
	if !ok {
		return nil
	}
	values := make(map[string]string, len(raw))
	for k, v := range raw {
		switch v := v.(type) {
		case string:
			values[k] = v
		case nil:
			values[k] = ""
		default:
			values[k] = fmt.Sprint(v)
		}
	}
	return values
}
