// Package mcp exposes the workflow service as an MCP server, so agent
// hosts can drive HR conversations over the Model Context Protocol.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/peoplehub/hrflow"
	"github.com/peoplehub/hrflow/pkg/domain"
)

// Service defines what the MCP server needs from the workflow facade.
type Service interface {
	Message(ctx context.Context, req hrflow.MessageRequest) (hrflow.Reply, error)
	Cancel(ctx context.Context, conversationID string) (domain.Directive, error)
	Render(directive domain.Directive, locale string) string
	Inspect(ctx context.Context, conversationID string) (*domain.SessionState, error)
	Conversations(ctx context.Context) ([]string, error)
}

// Server wraps the workflow service and exposes it as an MCP Server.
type Server struct {
	service   Service
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(service Service) *Server {
	s := &Server{
		service:   service,
		mcpServer: server.NewMCPServer("hrflow-mcp", strings.TrimSpace(hrflow.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: send_message
	messageTool := mcp.NewTool("send_message",
		mcp.WithDescription("Send one user message to an HR conversation. Returns the structured directive and the rendered reply text."),
		mcp.WithString("conversation_id", mcp.Required(), mcp.Description("Conversation identity, typically the employee ID")),
		mcp.WithString("text", mcp.Required(), mcp.Description("The user's message")),
		mcp.WithString("actor_id", mcp.Description("Acting employee ID when it differs from the conversation ID")),
		mcp.WithString("locale", mcp.Description("Reply locale, e.g. en or ar")),
		mcp.WithOutputSchema[hrflow.Reply](),
	)
	s.mcpServer.AddTool(messageTool, mcp.NewStructuredToolHandler(s.handleSendMessage))

	// TOOL: cancel_flow
	cancelTool := mcp.NewTool("cancel_flow",
		mcp.WithDescription("Abandon the conversation's pending request, if any. Nothing is submitted."),
		mcp.WithString("conversation_id", mcp.Required(), mcp.Description("Conversation identity")),
		mcp.WithString("locale", mcp.Description("Reply locale")),
		mcp.WithOutputSchema[hrflow.Reply](),
	)
	s.mcpServer.AddTool(cancelTool, mcp.NewStructuredToolHandler(s.handleCancel))

	// TOOL: inspect_conversation
	s.mcpServer.AddTool(mcp.NewTool("inspect_conversation",
		mcp.WithDescription("Get the conversation's session record: pending flow, collected slots, recent commits."),
		mcp.WithString("conversation_id", mcp.Required(), mcp.Description("Conversation identity")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		conversationID, err := request.RequireString("conversation_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		state, err := s.service.Inspect(ctx, conversationID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("inspect failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(state)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: list_conversations
	s.mcpServer.AddTool(mcp.NewTool("list_conversations",
		mcp.WithDescription("List known conversation IDs."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ids, err := s.service.Conversations(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(ids)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

func (s *Server) handleSendMessage(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (hrflow.Reply, error) {
	conversationID, _ := args["conversation_id"].(string)
	text, _ := args["text"].(string)
	actorID, _ := args["actor_id"].(string)
	locale, _ := args["locale"].(string)

	reply, err := s.service.Message(ctx, hrflow.MessageRequest{
		ConversationID: conversationID,
		ActorID:        actorID,
		Locale:         locale,
		Text:           text,
	})
	if err != nil {
		return hrflow.Reply{}, fmt.Errorf("message failed: %w", err)
	}
	return reply, nil
}

func (s *Server) handleCancel(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (hrflow.Reply, error) {
	conversationID, _ := args["conversation_id"].(string)
	locale, _ := args["locale"].(string)

	directive, err := s.service.Cancel(ctx, conversationID)
	if err != nil {
		return hrflow.Reply{}, fmt.Errorf("cancel failed: %w", err)
	}
	return hrflow.Reply{
		ConversationID: conversationID,
		Intent:         domain.IntentCancel,
		Directive:      directive,
		Text:           s.service.Render(directive, locale),
		Locale:         locale,
	}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: hrflow://schemas
	s.mcpServer.AddResource(mcp.NewResource("hrflow://schemas", "Action Schemas",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(domain.Schemas())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal schemas: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "hrflow://schemas",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
