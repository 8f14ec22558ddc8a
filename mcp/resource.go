package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/finmcp/finmcp/core"
)

func (s *Server) handleResourcesList(encoder *lockedEncoder, req *request) error {
	providers := s.service.Providers()
	resources := make([]resourceDescription, len(providers))
	for i, p := range providers {
		resources[i] = resourceDescription{
			URI:         "finmcp://" + p.ID + "/",
			Name:        p.Name + " API Documentation",
			Description: "Live API documentation for " + p.Name,
			MIMEType:    "text/plain",
		}
	}
	return writeResult(encoder, req.ID, resourcesListResult{Resources: resources})
}

func (s *Server) handleResourcesRead(ctx context.Context, encoder *lockedEncoder, req *request) error {
	var params resourcesReadParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return writeError(encoder, req.ID, codeInvalidParams, "invalid resources/read params: "+err.Error())
	}

	provider, path, err := parseResourceURI(params.URI)
	if err != nil {
		return writeError(encoder, req.ID, codeInvalidParams, err.Error())
	}

	doc, err := s.service.Doc(ctx, provider, path, false)
	if err != nil {
		if errors.Is(err, core.ErrUnknownProvider) {
			return writeError(encoder, req.ID, codeInvalidParams, err.Error())
		}
		return writeError(encoder, req.ID, codeInternalError, "read resource: "+err.Error())
	}

	return writeResult(encoder, req.ID, resourcesReadResult{
		Contents: []resourceContent{{
			URI:      params.URI,
			MIMEType: "text/plain",
			Text:     doc.Content,
		}},
	})
}

// parseResourceURI splits finmcp://{provider}/{path} into its parts. An
// empty path addresses the provider's index page.
func parseResourceURI(uri string) (provider, path string, err error) {
	const scheme = "finmcp://"
	if !strings.HasPrefix(uri, scheme) {
		return "", "", fmt.Errorf("unsupported URI scheme: %s", uri)
	}
	rest := strings.TrimPrefix(uri, scheme)
	provider, path, _ = strings.Cut(rest, "/")
	if provider == "" {
		return "", "", fmt.Errorf("missing provider in URI: %s", uri)
	}
	return provider, path, nil
}
