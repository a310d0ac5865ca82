// Package mcpserver exposes the call history as MCP tools.
package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/jwulff/coach/internal/coaching"
	"github.com/jwulff/coach/internal/db"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

const defaultLimit = 10

// History is the read side of the call store.
type History interface {
	RecentCalls(limit int) ([]db.Call, error)
	Call(id string) (*db.Call, error)
	RecommendationsForCall(callID string) ([]coaching.Recommendation, error)
}

// Server serves coach tools over MCP.
type Server struct {
	history History
	logger  *zap.Logger
	mcp     *server.MCPServer
}

// New registers the coach tools against h.
func New(h History, version string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		history: h,
		logger:  logger,
		mcp: server.NewMCPServer("coach", version,
			server.WithToolCapabilities(false),
		),
	}

	s.mcp.AddTool(mcp.NewTool("list_calls",
		mcp.WithDescription("List recent coaching calls, newest first."),
		mcp.WithNumber("limit", mcp.Description("Maximum number of calls to return (default 10).")),
	), s.listCalls)

	s.mcp.AddTool(mcp.NewTool("get_call",
		mcp.WithDescription("Get one call's context, metrics, transcript and recommendations."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Call session ID.")),
	), s.getCall)

	return s
}

// ServeStdio blocks serving MCP on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) listCalls(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}

	calls, err := s.history.RecentCalls(limit)
	if err != nil {
		s.logger.Warn("list calls failed", zap.Error(err))
		return mcp.NewToolResultError(fmt.Sprintf("list calls: %v", err)), nil
	}
	if len(calls) == 0 {
		return mcp.NewToolResultText("No calls recorded."), nil
	}

	var b strings.Builder
	for _, c := range calls {
		fmt.Fprintf(&b, "%s  %s  %s / %s  (%s)\n",
			c.ID, c.StartedAt.Format("2006-01-02 15:04"), c.Product, c.Focus,
			c.Metrics.Display().Duration)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) getCall(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	c, err := s.history.Call(id)
	if err != nil {
		s.logger.Warn("get call failed", zap.String("id", id), zap.Error(err))
		return mcp.NewToolResultError(fmt.Sprintf("get call: %v", err)), nil
	}
	if c == nil {
		return mcp.NewToolResultError(fmt.Sprintf("call %s not found", id)), nil
	}

	recs, err := s.history.RecommendationsForCall(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("get recommendations: %v", err)), nil
	}

	return mcp.NewToolResultText(FormatCall(*c, recs)), nil
}

// FormatCall renders a stored call as plain text.
func FormatCall(c db.Call, recs []coaching.Recommendation) string {
	var b strings.Builder
	d := c.Metrics.Display()

	fmt.Fprintf(&b, "Call %s\n", c.ID)
	if c.Operator != "" {
		fmt.Fprintf(&b, "Operator: %s\n", c.Operator)
	}
	fmt.Fprintf(&b, "Product: %s\nFocus: %s\n", c.Product, c.Focus)
	fmt.Fprintf(&b, "Started: %s\n", c.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Duration %s | %s wpm | talk %s | fillers %s\n",
		d.Duration, d.WordsPerMinute, d.TalkRatio, d.FillerWords)

	b.WriteString("\nTranscript:\n")
	if c.Transcript == "" {
		b.WriteString("(empty)\n")
	} else {
		b.WriteString(c.Transcript)
		b.WriteString("\n")
	}

	if section, ok := coaching.Classify(recs); ok {
		b.WriteString("\nRecommendations:\n")
		for _, e := range section.Entries {
			fmt.Fprintf(&b, "- [%s] %s\n", e.Style.Label(), e.Message)
		}
	}
	return b.String()
}
