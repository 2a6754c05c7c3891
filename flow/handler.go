package flow

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"cmdvault/clip"
	"cmdvault/present"
	"cmdvault/template"
	"cmdvault/vault"
)

// Opener starts desktop programs on behalf of the plugin.
type Opener interface {
	OpenFolder(path string) error
	OpenManager() error
}

type Handler struct {
	vault   *vault.Vault
	clip    clip.Clipboard
	opener  Opener
	keyword string
	limit   int
	icon    string
	log     *slog.Logger
}

type Options struct {
	Keyword string
	// Limit caps query results. 0 means no cap.
	Limit int
	Icon  string
}

func NewHandler(v *vault.Vault, cb clip.Clipboard, opener Opener, logger *slog.Logger, opts Options) *Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handler{
		vault:   v,
		clip:    cb,
		opener:  opener,
		keyword: opts.Keyword,
		limit:   opts.Limit,
		icon:    opts.Icon,
		log:     logger,
	}
}

// Serve handles the request in arg and writes any response to w.
func (h *Handler) Serve(arg string, w io.Writer) error {
	req, err := ParseRequest(arg)
	if err != nil {
		return err
	}

	resp, err := h.Handle(req)
	if err != nil {
		return err
	}
	if resp == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(resp)
}

// Handle runs one request. Query and context menu requests return a
// result list; actions return nil or a Flow API call.
func (h *Handler) Handle(req Request) (*Response, error) {
	h.log.Debug("flow request", "method", req.Method, "parameters", req.Parameters)

	switch req.Method {
	case MethodQuery:
		return &Response{Result: h.query(stringParam(req.Parameters, 0))}, nil

	case MethodContextMenu:
		results, err := h.contextMenu(req.Parameters)
		if err != nil {
			return nil, err
		}
		return &Response{Result: results}, nil

	case MethodCopyCommand:
		id, err := idParam(req.Parameters, 0)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", req.Method, err)
		}
		return h.copyCommand(id)

	case MethodCopyText:
		return nil, h.clip.WriteAll(stringParam(req.Parameters, 0))

	case MethodToggleFavorite:
		id, err := idParam(req.Parameters, 0)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", req.Method, err)
		}
		favorite, err := h.vault.ToggleFavorite(id)
		if err != nil {
			return nil, err
		}
		h.log.Info("favorite toggled", "id", id, "favorite", favorite)
		return nil, nil

	case MethodOpenVaultFolder:
		return nil, h.opener.OpenFolder(h.vault.Folder())

	case MethodOpenManager:
		return nil, h.opener.OpenManager()

	case MethodNoop:
		return nil, nil
	}

	return nil, fmt.Errorf("unknown method %q", req.Method)
}

func (h *Handler) query(raw string) []Result {
	trimmed := strings.TrimSpace(raw)

	switch trimmed {
	case ":manage", ":manager", ":edit", ":gui":
		return []Result{h.result(present.Manager())}
	}

	if strings.HasPrefix(trimmed, "=") {
		return h.fill(trimmed[1:])
	}

	items, err := h.vault.Query(raw)
	if err != nil {
		return h.failure(err)
	}
	if len(items) == 0 {
		items, err = h.vault.Suggest(raw)
		if err != nil {
			return h.failure(err)
		}
	}
	if h.limit > 0 && len(items) > h.limit {
		items = items[:h.limit]
	}

	results := make([]Result, len(items))
	for i, item := range items {
		results[i] = h.result(item)
	}
	return results
}

// fill resolves "<id> value | value ..." against the command's placeholders.
func (h *Handler) fill(input string) []Result {
	idText, rest, _ := strings.Cut(strings.TrimSpace(input), " ")
	id, err := strconv.ParseInt(idText, 10, 64)
	if err != nil {
		return []Result{{
			Title:         "Usage: =<id> value | value ...",
			SubTitle:      "Pick a template from the list to start filling it in",
			IcoPath:       h.icon,
			JsonRPCAction: Action{Method: MethodNoop, Parameters: []any{}, DontHideAfterAction: true},
		}}
	}

	out, err := h.vault.Fill(id, splitValues(rest))
	if err != nil {
		return h.failure(err)
	}

	if out.Prompt != nil {
		return []Result{h.promptResult(out.Command.Title, out.Prompt)}
	}
	return []Result{{
		Title:         present.OneLine(out.Text),
		SubTitle:      "Enter to copy  ·  " + out.Command.Title,
		IcoPath:       h.icon,
		JsonRPCAction: Action{Method: MethodCopyText, Parameters: []any{out.Text}},
	}}
}

func (h *Handler) promptResult(title string, req *template.Request) Result {
	return Result{
		Title:         fmt.Sprintf("%s: enter {%s} (%d/%d)", title, req.Name, req.Index+1, req.Total),
		SubTitle:      present.OneLine(req.Preview) + "  ·  separate values with |",
		IcoPath:       h.icon,
		JsonRPCAction: Action{Method: MethodNoop, Parameters: []any{}, DontHideAfterAction: true},
	}
}

// splitValues splits "a | b" into ["a", "b"]. A trailing separator starts
// a value that has not been typed yet, so it is not counted.
func splitValues(rest string) []string {
	if strings.TrimSpace(rest) == "" {
		return nil
	}
	parts := strings.Split(rest, "|")
	if strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func (h *Handler) contextMenu(params []any) ([]Result, error) {
	id, err := idParam(params, 0)
	if err != nil || id == 0 {
		return []Result{}, nil
	}
	items, err := h.vault.ContextMenu(id)
	if err != nil {
		return nil, err
	}
	results := make([]Result, len(items))
	for i, item := range items {
		results[i] = h.result(item)
	}
	return results, nil
}

// copyCommand copies a plain command directly. A template cannot be
// filled in from an action, so Flow is sent back to the query box in fill
// mode instead.
func (h *Handler) copyCommand(id int64) (*Response, error) {
	out, err := h.vault.Execute(id, nil)
	if err != nil {
		return nil, err
	}
	if !out.Done {
		h.log.Info("template fill started", "id", id)
		return &Response{Method: changeQuery, Parameters: []any{h.fillQuery(id), true}}, nil
	}
	if err := h.clip.WriteAll(out.Text); err != nil {
		return nil, err
	}
	h.log.Info("command copied", "id", id)
	return nil, nil
}

func (h *Handler) result(item present.Item) Result {
	r := Result{
		Title:    item.Title,
		SubTitle: item.Subtitle,
		IcoPath:  h.icon,
	}

	switch item.Action {
	case present.ActionCopy:
		r.JsonRPCAction = Action{Method: MethodCopyCommand, Parameters: []any{item.ID}}
	case present.ActionFill:
		r.JsonRPCAction = Action{
			Method:              changeQuery,
			Parameters:          []any{h.fillQuery(item.ID), true},
			DontHideAfterAction: true,
		}
	case present.ActionToggleFavorite:
		r.JsonRPCAction = Action{Method: MethodToggleFavorite, Parameters: []any{item.ID}, DontHideAfterAction: true}
	case present.ActionEdit, present.ActionOpenManager:
		r.JsonRPCAction = Action{Method: MethodOpenManager, Parameters: []any{}, DontHideAfterAction: true}
	case present.ActionOpenFolder:
		r.JsonRPCAction = Action{Method: MethodOpenVaultFolder, Parameters: []any{}, DontHideAfterAction: true}
	default:
		r.JsonRPCAction = Action{Method: MethodNoop, Parameters: []any{}, DontHideAfterAction: true}
	}

	// Command rows show the command itself first, as the launcher list is
	// mostly scanned by command text.
	if item.Detail != "" {
		r.SubTitle = item.Detail + "   " + item.Subtitle
		r.ContextData = item.ID
	}
	return r
}

func (h *Handler) fillQuery(id int64) string {
	q := "=" + strconv.FormatInt(id, 10) + " "
	if h.keyword != "" && h.keyword != "*" {
		q = h.keyword + " " + q
	}
	return q
}

func (h *Handler) failure(err error) []Result {
	h.log.Error("flow query failed", "error", err)
	return []Result{{
		Title:         "cmdvault error",
		SubTitle:      err.Error(),
		IcoPath:       h.icon,
		JsonRPCAction: Action{Method: MethodNoop, Parameters: []any{}, DontHideAfterAction: true},
	}}
}
