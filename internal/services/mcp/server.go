// Package mcp serves tool metadata and executes codebase tools over HTTP for
// MCP-style agent clients.
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	defaultListenAddress    = "127.0.0.1:0"
	defaultShutdownDuration = 5 * time.Second
	headerContentType       = "Content-Type"
	mimeTypeJSON            = "application/json"
	capabilitiesPath        = "/capabilities"
	rootPath                = "/"
	toolsPrefix             = "/tools/"
	errorFieldName          = "error"
	errorToolNotFound       = "tool not found"
)

// Tool describes one codebase operation exposed by the server.
type Tool struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ToolRequest holds the raw payload supplied by clients.
type ToolRequest struct {
	Payload json.RawMessage
}

// ToolResponse contains the outcome of a tool execution. Output carries the
// rendered text even when the operation itself did not succeed; tool-level
// failures are reported as text, never as protocol errors.
type ToolResponse struct {
	Output string `json:"output"`
	Format string `json:"format"`
}

// ToolExecutor executes a tool based on an incoming request.
type ToolExecutor interface {
	Execute(ctx context.Context, request ToolRequest) (ToolResponse, error)
}

// ToolExecutorFunc adapts a function into a ToolExecutor.
type ToolExecutorFunc func(context.Context, ToolRequest) (ToolResponse, error)

// Execute invokes the underlying function.
func (executor ToolExecutorFunc) Execute(ctx context.Context, request ToolRequest) (ToolResponse, error) {
	return executor(ctx, request)
}

// ToolExecutionError represents a failure accompanied by an HTTP status code.
type ToolExecutionError struct {
	statusCode int
	err        error
}

// Error returns the error string.
func (executionError ToolExecutionError) Error() string {
	return executionError.err.Error()
}

// Unwrap exposes the wrapped error.
func (executionError ToolExecutionError) Unwrap() error {
	return executionError.err
}

// StatusCode reports the associated HTTP status code.
func (executionError ToolExecutionError) StatusCode() int {
	return executionError.statusCode
}

// NewToolExecutionError creates a new ToolExecutionError.
func NewToolExecutionError(statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return ToolExecutionError{statusCode: statusCode, err: err}
}

// Config defines runtime options for the MCP server.
type Config struct {
	Address         string
	Tools           []Tool
	Executors       map[string]ToolExecutor
	ShutdownTimeout time.Duration
}

// Server serves tool metadata and executes tools over HTTP.
type Server struct {
	config Config
}

// NewServer creates a new Server with defaults applied.
func NewServer(config Config) Server {
	normalized := config
	if normalized.Address == "" {
		normalized.Address = defaultListenAddress
	}
	if normalized.ShutdownTimeout <= 0 {
		normalized.ShutdownTimeout = defaultShutdownDuration
	}
	if normalized.Tools == nil {
		normalized.Tools = []Tool{}
	}
	if normalized.Executors == nil {
		normalized.Executors = map[string]ToolExecutor{}
	}
	return Server{config: normalized}
}

// Run starts the MCP server and blocks until the provided context is canceled.
// The notify callback receives the bound address once the listener is active.
func (server Server) Run(ctx context.Context, notify func(string)) error {
	listener, listenErr := net.Listen("tcp", server.config.Address)
	if listenErr != nil {
		return fmt.Errorf("listen on %s: %w", server.config.Address, listenErr)
	}
	actualAddress := listener.Addr().String()

	router := http.NewServeMux()
	router.HandleFunc(capabilitiesPath, server.handleCapabilities)
	router.HandleFunc(rootPath, server.handleRoot)
	router.HandleFunc(toolsPrefix, server.handleTool)

	httpServer := &http.Server{Handler: router}
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		serveErr := httpServer.Serve(listener)
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			return fmt.Errorf("serve MCP: %w", serveErr)
		}
		return nil
	})

	if notify != nil {
		notify(actualAddress)
	}

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.config.ShutdownTimeout)
		defer cancel()
		shutdownErr := httpServer.Shutdown(shutdownCtx)
		if shutdownErr != nil && !errors.Is(shutdownErr, context.Canceled) && !errors.Is(shutdownErr, http.ErrServerClosed) {
			return fmt.Errorf("shutdown MCP: %w", shutdownErr)
		}
		return nil
	})

	return group.Wait()
}

func (server Server) handleCapabilities(writer http.ResponseWriter, request *http.Request) {
	if request.Method != http.MethodGet {
		writer.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	payload := struct {
		Tools []Tool `json:"tools"`
	}{Tools: server.config.Tools}
	server.writeJSON(writer, http.StatusOK, payload)
}

func (server Server) handleRoot(writer http.ResponseWriter, request *http.Request) {
	if request.Method != http.MethodGet {
		writer.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writer.WriteHeader(http.StatusOK)
}

func (server Server) handleTool(writer http.ResponseWriter, request *http.Request) {
	if request.Method != http.MethodPost {
		writer.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	toolName := strings.TrimPrefix(request.URL.Path, toolsPrefix)
	if toolName == "" || strings.Contains(toolName, "/") {
		server.writeJSON(writer, http.StatusNotFound, map[string]string{errorFieldName: errorToolNotFound})
		return
	}
	executor, found := server.config.Executors[toolName]
	if !found {
		server.writeJSON(writer, http.StatusNotFound, map[string]string{errorFieldName: errorToolNotFound})
		return
	}
	body, readErr := io.ReadAll(request.Body)
	if readErr != nil {
		server.writeJSON(writer, http.StatusBadRequest, map[string]string{errorFieldName: fmt.Sprintf("read request body: %v", readErr)})
		return
	}
	toolRequest := ToolRequest{Payload: json.RawMessage(body)}
	toolResponse, executeErr := executor.Execute(request.Context(), toolRequest)
	if executeErr != nil {
		statusCode := server.statusCodeFromError(executeErr)
		server.writeJSON(writer, statusCode, map[string]string{errorFieldName: executeErr.Error()})
		return
	}
	server.writeJSON(writer, http.StatusOK, toolResponse)
}

func (server Server) writeJSON(writer http.ResponseWriter, statusCode int, payload interface{}) {
	var buffer bytes.Buffer
	if encodeErr := json.NewEncoder(&buffer).Encode(payload); encodeErr != nil {
		fallback := map[string]string{errorFieldName: fmt.Sprintf("encode response: %v", encodeErr)}
		writer.Header().Set(headerContentType, mimeTypeJSON)
		writer.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(writer).Encode(fallback)
		return
	}
	writer.Header().Set(headerContentType, mimeTypeJSON)
	writer.WriteHeader(statusCode)
	_, _ = writer.Write(buffer.Bytes())
}

func (server Server) statusCodeFromError(err error) int {
	var executionError ToolExecutionError
	if errors.As(err, &executionError) {
		return executionError.StatusCode()
	}
	return http.StatusInternalServerError
}
