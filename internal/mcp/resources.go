package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"inkpad/internal/domain"
)

const (
	sessionsURI       = "inkpad://sessions"
	sessionURIPrefix  = "inkpad://session/"
	viewportURISuffix = "/viewport"
)

func (s *Server) registerResources() {
	// ── inkpad://sessions ──────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		sessionsURI,
		"Open Sessions",
		mcp.WithMIMEType("application/json"),
	), s.handleSessionsResource)

	// ── inkpad://session/{sessionId}/viewport ──────────
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			sessionURIPrefix+"{sessionId}"+viewportURISuffix,
			"Viewport of a Session",
		),
		s.handleViewportResource,
	)
}

func (s *Server) handleSessionsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	ids, err := s.sessions.List(ctx)
	if err != nil {
		return nil, err
	}
	states := make([]domain.ViewportState, 0, len(ids))
	for _, id := range ids {
		st, err := s.sessions.State(ctx, id)
		if err != nil {
			continue // closed since List
		}
		states = append(states, st)
	}
	return jsonResource(sessionsURI, states)
}

func (s *Server) handleViewportResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	id := strings.TrimSuffix(strings.TrimPrefix(uri, sessionURIPrefix), viewportURISuffix)
	if id == "" || id == uri {
		return nil, fmt.Errorf("invalid viewport URI: %s", uri)
	}
	st, err := s.sessions.State(ctx, id)
	if err != nil {
		return nil, err
	}
	return jsonResource(uri, st)
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal resource: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
