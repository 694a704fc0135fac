// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes oascompose operations as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"
	"strconv"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oascompose"
)

const serverInstructions = `oascompose MCP server: parses, joins, nests and validates OpenAPI 3.0 and 3.1 documents.

Configuration: defaults are configurable via OASCOMPOSE_* environment variables set in your MCP client config.

Key settings:
- OASCOMPOSE_DUPLICATE_POLICY (default: merge) - reject, overwrite or merge for duplicate (path, method) pairs
- OASCOMPOSE_OPENAPI_VERSION (default: version of the first input) - 3.0 or 3.1 output
- OASCOMPOSE_OUTPUT_FORMAT (default: yaml) - json or yaml for returned documents
- OASCOMPOSE_VALIDATE_NO_WARNINGS (default: false) - suppress validation warnings
- OASCOMPOSE_CACHE_ENABLED (default: true) - cache parsed inputs per session
- OASCOMPOSE_MAX_SOURCES (default: 20) - maximum inputs per join or nest call

Caching: parsed inputs are cached per session. File entries use path+mtime as key, so edits invalidate them. A background sweeper removes expired entries every 60s.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	if cfg.CacheEnabled {
		specCache.startSweeper(ctx, cfg.CacheSweepInterval)
	}

	server := mcp.NewServer(
		&mcp.Implementation{Name: "oascompose", Version: oascompose.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "parse",
		Description: "Parse an OpenAPI 3.0 or 3.1 document. Returns a structural summary: title, version, path/operation/schema counts, servers, tags and parse warnings. Use full=true to also return the normalized document.",
	}, handleParse)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "join",
		Description: "Join OpenAPI documents into one. Later documents are merged into the first. Identical schemas are deduplicated; a schema name defined differently by two inputs is an error. Duplicate (path, method) pairs follow duplicate_policy: reject, overwrite or merge (default via OASCOMPOSE_DUPLICATE_POLICY). Use output to write to a file instead of returning inline.",
	}, handleJoin)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "nest",
		Description: "Mount OpenAPI documents under path prefixes, e.g. a users fragment under /api/users, and join them into an optional parent document. Each mount may add tags to all of its operations. Returns the composed document and join warnings.",
	}, handleNest)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate",
		Description: "Validate an OpenAPI document against OpenAPI 3.0 or 3.1. Returns errors and warnings with dotted path locations. Use openapi_version to require a version, no_warnings to focus on errors, and offset/limit to paginate.",
	}, handleValidate)
}

// paginate applies offset/limit pagination to a slice. A non-positive
// limit defaults to cfg.ResultLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.ResultLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// pathPattern matches absolute filesystem paths in error messages.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}

func formatCount(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
