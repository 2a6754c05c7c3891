// Package mcp exposes the vault to MCP clients over stdio, so an assistant
// can look up and fill in saved commands.
package mcp

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"cmdvault/model"
	"cmdvault/vault"
)

// Version is advertised to clients for capability negotiation.
const Version = "1.0.0"

// Store is the read access the tools need beyond the vault.
type Store interface {
	Get(id int64) (model.Command, error)
	Categories() ([]string, error)
}

type handlers struct {
	vault *vault.Vault
	store Store
	limit int
	log   *slog.Logger
}

// NewServer builds the MCP server with every vault tool registered.
func NewServer(v *vault.Vault, store Store, limit int, logger *slog.Logger) *server.MCPServer {
	if logger == nil {
		logger = slog.Default()
	}
	h := &handlers{vault: v, store: store, limit: limit, log: logger}

	s := server.NewMCPServer(
		"cmdvault",
		Version,
		server.WithToolCapabilities(true),
	)
	registerTools(s, h)
	return s
}

// Serve runs the server on stdin/stdout until the client disconnects.
func Serve(v *vault.Vault, store Store, limit int, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	s := NewServer(v, store, limit, logger)
	logger.Info("cmdvault MCP server ready", "version", Version, "transport", "stdio")

	err := server.ServeStdio(s)
	if errors.Is(err, context.Canceled) {
		logger.Info("server stopped")
		return nil
	}
	return err
}

func registerTools(s *server.MCPServer, h *handlers) {
	s.AddTool(
		mcp.NewTool("vault_query",
			mcp.WithDescription("Search saved commands. Empty query lists favorites. Supports cat:, sub:, tag: and fav: filters."),
			mcp.WithString("query", mcp.Description("Search text, e.g. \"cat:cisco show vlan\"")),
			mcp.WithNumber("limit", mcp.Description("Maximum number of results")),
		),
		h.query,
	)

	s.AddTool(
		mcp.NewTool("vault_get",
			mcp.WithDescription("Get one saved command with its placeholders"),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Command id")),
		),
		h.get,
	)

	s.AddTool(
		mcp.NewTool("vault_execute",
			mcp.WithDescription("Fill in a command's {placeholders}. Returns the final text, or the next placeholder that still needs a value."),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Command id")),
			mcp.WithObject("values", mcp.Description("Placeholder values by name, e.g. {\"iface\": \"Gi1/0/1\"}")),
		),
		h.execute,
	)

	s.AddTool(
		mcp.NewTool("vault_toggle_favorite",
			mcp.WithDescription("Add a command to favorites, or remove it"),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Command id")),
		),
		h.toggleFavorite,
	)

	s.AddTool(
		mcp.NewTool("vault_categories",
			mcp.WithDescription("List command categories"),
		),
		h.categories,
	)
}
