package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"cmdvault/model"
	"cmdvault/template"
)

type commandJSON struct {
	ID           int64    `json:"id"`
	Category     string   `json:"category"`
	Subcategory  string   `json:"subcategory"`
	Title        string   `json:"title"`
	Command      string   `json:"command"`
	Description  string   `json:"description,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Favorite     bool     `json:"favorite"`
	Placeholders []string `json:"placeholders,omitempty"`
}

type outcomeJSON struct {
	Done   bool              `json:"done"`
	Text   string            `json:"text,omitempty"`
	Prompt *template.Request `json:"prompt,omitempty"`
}

func (h *handlers) toJSON(c model.Command) commandJSON {
	return commandJSON{
		ID:           c.ID,
		Category:     c.Category,
		Subcategory:  c.Subcategory,
		Title:        c.Title,
		Command:      c.Cmd,
		Description:  c.Description,
		Tags:         c.TagSet(),
		Favorite:     c.IsFavorite,
		Placeholders: h.vault.Engine().Extract(c.Cmd),
	}
}

func (h *handlers) query(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q := getString(req, "query", "")
	limit := getInt(req, "limit", h.limit)

	matches, err := h.vault.Matches(q)
	h.log.Debug("mcp:vault_query", "query", q, "count", len(matches), "error", err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	result := make([]commandJSON, len(matches))
	for i, m := range matches {
		result[i] = h.toJSON(m.Command)
	}
	return jsonResult(result)
}

func (h *handlers) get(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, ok := getID(req)
	if !ok {
		return mcp.NewToolResultError("id is required"), nil
	}

	c, err := h.store.Get(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(h.toJSON(c))
}

func (h *handlers) execute(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, ok := getID(req)
	if !ok {
		return mcp.NewToolResultError("id is required"), nil
	}

	out, err := h.vault.Execute(id, getValues(req, "values"))
	h.log.Debug("mcp:vault_execute", "id", id, "done", out.Done, "error", err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(outcomeJSON{Done: out.Done, Text: out.Text, Prompt: out.Prompt})
}

func (h *handlers) toggleFavorite(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, ok := getID(req)
	if !ok {
		return mcp.NewToolResultError("id is required"), nil
	}

	favorite, err := h.vault.ToggleFavorite(id)
	h.log.Info("mcp:vault_toggle_favorite", "id", id, "favorite", favorite, "error", err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"id": id, "favorite": favorite})
}

func (h *handlers) categories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	categories, err := h.store.Categories()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if categories == nil {
		categories = []string{}
	}
	return jsonResult(categories)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
