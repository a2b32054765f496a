package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/semanta/internal/collector"
	"github.com/mvp-joe/semanta/internal/pytree"
	"github.com/mvp-joe/semanta/internal/scanner"
)

// fileSymbols is the per-file payload of the semanta_symbols tool.
type fileSymbols struct {
	Path    string `json:"path"`
	Symbols []any  `json:"symbols,omitempty"`
	Error   string `json:"error,omitempty"`
}

// symbolsResponse is the semanta_symbols tool response.
type symbolsResponse struct {
	Root    string        `json:"root"`
	Files   []fileSymbols `json:"files"`
	Skipped []string      `json:"skipped,omitempty"`
}

// AddSymbolsTool registers semanta_symbols: scan a directory and return
// the symbol records per file.
func AddSymbolsTool(mcpServer *server.MCPServer, s *Server) {
	tool := mcp.NewTool(
		"semanta_symbols",
		mcp.WithDescription("Scan a directory of Python sources and return its structural symbol table: top-level functions (with parameters and directly-assigned locals), classes (with methods), and imports, per file."),
		mcp.WithString("path",
			mcp.Description("Directory to scan, relative to the project root (default: whole project)")),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of files to scan (default: no limit)")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	mcpServer.AddTool(tool, s.handleSymbols)
}

func (s *Server) handleSymbols(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	argsMap, _ := request.Params.Arguments.(map[string]interface{})

	root := s.root
	if sub, ok := argsMap["path"].(string); ok && sub != "" {
		root = filepath.Join(s.root, filepath.FromSlash(sub))
	}

	limit := 0
	if n, ok := argsMap["limit"].(float64); ok && n > 0 {
		limit = int(n)
	}

	col, err := collector.New(root, s.cfg.Paths.Include, s.cfg.Paths.Ignore)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	collected, err := col.Collect()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	results := scanner.New(s.cfg.Scan.Jobs, nil).Scan(ctx, collected.Sources)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	response := symbolsResponse{Root: root}
	for _, result := range results {
		file := fileSymbols{Path: result.Path}
		if result.Err != nil {
			file.Error = result.Err.Error()
		}
		for _, record := range result.Records {
			file.Symbols = append(file.Symbols, map[string]any{
				"kind":   record.Kind(),
				"record": record,
			})
		}
		response.Files = append(response.Files, file)
	}
	for _, skipped := range collected.Skipped {
		response.Skipped = append(response.Skipped,
			fmt.Sprintf("%s: %s", skipped.Path, skipped.Reason))
	}

	return marshalToolResponse(response)
}

// AddTreeTool registers semanta_tree: parse one file and return the
// diagnostic tree dump.
func AddTreeTool(mcpServer *server.MCPServer, s *Server) {
	tool := mcp.NewTool(
		"semanta_tree",
		mcp.WithDescription("Parse one Python file and return a textual dump of its syntax tree. The simplified form omits field labels and positions."),
		mcp.WithString("file",
			mcp.Required(),
			mcp.Description("File to parse, relative to the project root")),
		mcp.WithBoolean("simplified",
			mcp.Description("Emit the compact dump without field labels and position metadata (default: false)")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	mcpServer.AddTool(tool, s.handleTree)
}

func (s *Server) handleTree(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	argsMap, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	file, ok := argsMap["file"].(string)
	if !ok || file == "" {
		return mcp.NewToolResultError("file parameter is required"), nil
	}

	simplified := false
	if b, ok := argsMap["simplified"].(bool); ok {
		simplified = b
	}

	source, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(file)))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read %s: %v", file, err)), nil
	}

	tree, err := pytree.Build(string(source), pytree.ModeModule)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(pytree.Render(tree, simplified)), nil
}

// marshalToolResponse marshals a response object to JSON and returns it
// as an MCP tool result.
func marshalToolResponse(response interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.Marshal(response)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
