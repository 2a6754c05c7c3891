// Package flow adapts the vault to Flow Launcher's JSON-RPC plugin protocol.
// Flow starts the plugin once per request with the request as the first
// argument and reads the response from stdout.
package flow

import (
	"encoding/json"
	"fmt"
	"strconv"
)

type Request struct {
	Method     string         `json:"method"`
	Parameters []any          `json:"parameters"`
	Settings   map[string]any `json:"settings,omitempty"`
}

// Response is either a result list or, for an action, a Flow API call
// such as ChangeQuery.
type Response struct {
	Result     []Result `json:"result"`
	Method     string   `json:"method,omitempty"`
	Parameters []any    `json:"parameters,omitempty"`
}

func (r Response) MarshalJSON() ([]byte, error) {
	if r.Method != "" {
		return json.Marshal(struct {
			Method     string `json:"method"`
			Parameters []any  `json:"parameters"`
		}{r.Method, r.Parameters})
	}
	return json.Marshal(struct {
		Result []Result `json:"result"`
	}{r.Result})
}

type Result struct {
	Title         string `json:"Title"`
	SubTitle      string `json:"SubTitle,omitempty"`
	IcoPath       string `json:"IcoPath,omitempty"`
	JsonRPCAction Action `json:"JsonRPCAction"`
	ContextData   any    `json:"ContextData,omitempty"`
	Score         int    `json:"Score,omitempty"`
}

type Action struct {
	Method              string `json:"method"`
	Parameters          []any  `json:"parameters"`
	DontHideAfterAction bool   `json:"dontHideAfterAction"`
}

// Methods Flow calls back into.
const (
	MethodQuery           = "query"
	MethodContextMenu     = "context_menu"
	MethodCopyCommand     = "copy_command"
	MethodCopyText        = "copy_text"
	MethodToggleFavorite  = "toggle_favorite"
	MethodOpenVaultFolder = "open_vault_folder"
	MethodOpenManager     = "open_manager"
	MethodNoop            = "noop"

	// changeQuery is a Flow API call: it replaces the query box text.
	changeQuery = "Flow.Launcher.ChangeQuery"
)

// ParseRequest decodes the JSON request Flow passes on the command line.
func ParseRequest(arg string) (Request, error) {
	var req Request
	if err := json.Unmarshal([]byte(arg), &req); err != nil {
		return Request{}, fmt.Errorf("decode request: %w", err)
	}
	if req.Method == "" {
		return Request{}, fmt.Errorf("decode request: missing method")
	}
	return req, nil
}

func stringParam(params []any, i int) string {
	if i >= len(params) {
		return ""
	}
	switch v := params[i].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// idParam reads a command id. JSON numbers decode as float64; context data
// may come back as a string.
func idParam(params []any, i int) (int64, error) {
	if i >= len(params) {
		return 0, fmt.Errorf("missing parameter %d", i)
	}
	switch v := params[i].(type) {
	case float64:
		return int64(v), nil
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parameter %d: %w", i, err)
		}
		return id, nil
	}
	return 0, fmt.Errorf("parameter %d: unexpected %T", i, params[i])
}
