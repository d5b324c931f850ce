package quizpdf

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterMCP registers the quiz tools on an MCP server.
func RegisterMCP(srv *mcp.Server, eng Engine) {
	registerParseTool(srv, eng)
	registerSearchTool(srv, eng)
	registerSimilarTool(srv, eng)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// addTool wraps a typed endpoint: arguments are decoded into R, failures
// become tool errors and the response is returned as JSON text.
func addTool[R any](srv *mcp.Server, tool *mcp.Tool, endpoint func(context.Context, *R) (any, error)) {
	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var r R
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
				var res mcp.CallToolResult
				res.SetError(fmt.Errorf("invalid arguments: %w", err))
				return &res, nil
			}
		}

		resp, err := endpoint(ctx, &r)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(err)
			return &res, nil
		}

		data, err := json.Marshal(resp)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(fmt.Errorf("marshal: %w", err))
			return &res, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		}, nil
	})
}

// --- quiz_parse ---

type parseReq struct {
	Path string `json:"path"`
}

func registerParseTool(srv *mcp.Server, eng Engine) {
	tool := &mcp.Tool{
		Name:        "quiz_parse",
		Description: "Parse a PDF exam catalog into numbered questions with their answers and attachments.",
		InputSchema: inputSchema(map[string]any{
			"path": map[string]any{"type": "string", "description": "Path of the PDF file"},
		}, []string{"path"}),
	}
	addTool(srv, tool, func(ctx context.Context, r *parseReq) (any, error) {
		if r.Path == "" {
			return nil, fmt.Errorf("path is required")
		}
		return eng.ParseFile(ctx, r.Path)
	})
}

// --- quiz_search ---

type searchReq struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

func registerSearchTool(srv *mcp.Server, eng Engine) {
	tool := &mcp.Tool{
		Name:        "quiz_search",
		Description: "Search stored questions by keywords across all ingested catalogs.",
		InputSchema: inputSchema(map[string]any{
			"query":       map[string]any{"type": "string", "description": "Search text"},
			"max_results": map[string]any{"type": "integer", "description": "Maximum number of questions (default 20)"},
		}, []string{"query"}),
	}
	addTool(srv, tool, func(ctx context.Context, r *searchReq) (any, error) {
		var opts []SearchOption
		if r.MaxResults > 0 {
			opts = append(opts, WithMaxResults(r.MaxResults))
		}
		return eng.Search(ctx, r.Query, opts...)
	})
}

// --- quiz_similar ---

type similarReq struct {
	QuestionID int64 `json:"question_id"`
	K          int   `json:"k"`
}

func registerSimilarTool(srv *mcp.Server, eng Engine) {
	tool := &mcp.Tool{
		Name:        "quiz_similar",
		Description: "List stored questions that resemble the question with the given ID.",
		InputSchema: inputSchema(map[string]any{
			"question_id": map[string]any{"type": "integer", "description": "Stored question ID"},
			"k":           map[string]any{"type": "integer", "description": "Number of questions (default 10)"},
		}, []string{"question_id"}),
	}
	addTool(srv, tool, func(ctx context.Context, r *similarReq) (any, error) {
		hits, err := eng.Similar(ctx, r.QuestionID, r.K)
		if err != nil {
			return nil, err
		}
		return map[string]any{"question_id": r.QuestionID, "hits": hits}, nil
	})
}
