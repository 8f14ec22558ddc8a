package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// toolCatalog returns the tool descriptions in a stable order.
func toolCatalog() []toolDescription {
	return []toolDescription{
		{
			Name:        "recommend_providers",
			Description: "Recommend financial data providers for a natural language query, ranked by fit. Returns a Markdown report.",
			InputSchema: objectSchema(map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "What data you are looking for, in plain language",
				},
				"top_n": map[string]any{
					"type":        "integer",
					"description": "Maximum number of providers to return (default 5)",
				},
			}, "query"),
		},
		{
			Name:        "search_docs",
			Description: "Full-text search across cached documentation pages.",
			InputSchema: objectSchema(map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Search terms",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum number of hits (default 10)",
				},
			}, "query"),
		},
		{
			Name:        "list_providers",
			Description: "List every provider in the catalog with its capabilities.",
			InputSchema: objectSchema(map[string]any{}),
		},
		{
			Name:        "fetch_docs",
			Description: "Fetch a documentation page for a provider, caching it for later reads. An empty path fetches the provider's index page.",
			InputSchema: objectSchema(map[string]any{
				"provider": map[string]any{
					"type":        "string",
					"description": "Provider id from the catalog",
				},
				"path": map[string]any{
					"type":        "string",
					"description": "Page path relative to the provider's documentation root",
				},
			}, "provider"),
		},
	}
}

func objectSchema(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func (s *Server) handleToolsList(encoder *lockedEncoder, req *request) error {
	return writeResult(encoder, req.ID, toolsListResult{Tools: toolCatalog()})
}

func (s *Server) handleToolsCall(ctx context.Context, encoder *lockedEncoder, req *request) error {
	var params toolsCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return writeError(encoder, req.ID, codeInvalidParams, "invalid tools/call params: "+err.Error())
	}

	s.logger.Debug("tool call", "tool", params.Name)

	result, err := s.callTool(ctx, params.Name, params.Arguments)
	if err != nil {
		return writeError(encoder, req.ID, codeInvalidParams, err.Error())
	}
	return writeResult(encoder, req.ID, result)
}

// callTool runs one tool. Bad tool names and unusable arguments surface as
// protocol errors; failures inside a tool become isError results so the
// session survives them.
func (s *Server) callTool(ctx context.Context, name string, arguments json.RawMessage) (toolsCallResult, error) {
	switch name {
	case "recommend_providers":
		var args recommendArgs
		if err := unmarshalArgs(arguments, &args); err != nil {
			return toolsCallResult{}, err
		}
		if args.Query == "" {
			return toolsCallResult{}, errors.New("query is required")
		}
		return textResult(s.service.Recommend(args.Query, args.TopN)), nil

	case "search_docs":
		var args searchArgs
		if err := unmarshalArgs(arguments, &args); err != nil {
			return toolsCallResult{}, err
		}
		if args.Query == "" {
			return toolsCallResult{}, errors.New("query is required")
		}
		hits, err := s.service.Search(args.Query, args.Limit)
		if err != nil {
			return errorResult(err), nil
		}
		if len(hits) == 0 {
			return textResult("No matching documentation found."), nil
		}
		data, err := json.MarshalIndent(hits, "", "  ")
		if err != nil {
			return errorResult(err), nil
		}
		return textResult(string(data)), nil

	case "list_providers":
		data, err := json.MarshalIndent(s.service.Providers(), "", "  ")
		if err != nil {
			return errorResult(err), nil
		}
		return textResult(string(data)), nil

	case "fetch_docs":
		var args fetchArgs
		if err := unmarshalArgs(arguments, &args); err != nil {
			return toolsCallResult{}, err
		}
		if args.Provider == "" {
			return toolsCallResult{}, errors.New("provider is required")
		}
		doc, err := s.service.Doc(ctx, args.Provider, args.Path, false)
		if err != nil {
			return errorResult(err), nil
		}
		return textResult(doc.Content), nil

	default:
		return toolsCallResult{}, fmt.Errorf("unknown tool: %s", name)
	}
}

type recommendArgs struct {
	Query string `json:"query"`
	TopN  int    `json:"top_n"`
}

type searchArgs struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type fetchArgs struct {
	Provider string `json:"provider"`
	Path     string `json:"path"`
}

func unmarshalArgs(arguments json.RawMessage, v any) error {
	if len(arguments) == 0 {
		return nil
	}
	if err := json.Unmarshal(arguments, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func textResult(text string) toolsCallResult {
	return toolsCallResult{Content: []contentBlock{{Type: "text", Text: text}}}
}

func errorResult(err error) toolsCallResult {
	return toolsCallResult{
		Content: []contentBlock{{Type: "text", Text: err.Error()}},
		IsError: true,
	}
}
