package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/HellFiveOsborn/codebase-mcp/internal/config"
	"github.com/HellFiveOsborn/codebase-mcp/internal/services/mcp"
	"github.com/HellFiveOsborn/codebase-mcp/internal/tokenizer"
	"github.com/HellFiveOsborn/codebase-mcp/internal/types"
)

const (
	fetchToolDescription       = "Pack a local directory into a bundle via repomix and return its directory structure and pack summary."
	fetchRemoteToolDescription = "Pack a remote repository into a bundle via repomix and return its directory structure and pack summary."
	searchToolDescription      = "Return a bounded, line-numbered excerpt of one file from a previously saved bundle."
)

type fetchRequest struct {
	Directory string        `json:"directory"`
	RepoURL   string        `json:"repo_url"`
	Ignore    []string      `json:"ignore"`
	Output    string        `json:"output"`
	Style     string        `json:"style"`
	Tokens    *tokenRequest `json:"tokens"`
}

type searchRequest struct {
	BundleFile string        `json:"bundle_file"`
	Path       string        `json:"path"`
	MaxLines   *int          `json:"max_lines"`
	Tokens     *tokenRequest `json:"tokens"`
}

type tokenRequest struct {
	Enabled *bool  `json:"enabled"`
	Model   string `json:"model"`
}

// mcpTools lists the tools advertised on /capabilities.
func mcpTools() []mcp.Tool {
	return []mcp.Tool{
		{Name: types.ToolFetchCodebase, Description: fetchToolDescription},
		{Name: types.ToolFetchRemoteCodebase, Description: fetchRemoteToolDescription},
		{Name: types.ToolSearchCodebase, Description: searchToolDescription},
	}
}

// mcpToolExecutors binds each advertised tool to its executor.
func mcpToolExecutors(applicationConfiguration config.ApplicationConfiguration) map[string]mcp.ToolExecutor {
	return map[string]mcp.ToolExecutor{
		types.ToolFetchCodebase: mcp.ToolExecutorFunc(func(executionContext context.Context, request mcp.ToolRequest) (mcp.ToolResponse, error) {
			return executeFetchCodebase(executionContext, request, applicationConfiguration, false)
		}),
		types.ToolFetchRemoteCodebase: mcp.ToolExecutorFunc(func(executionContext context.Context, request mcp.ToolRequest) (mcp.ToolResponse, error) {
			return executeFetchCodebase(executionContext, request, applicationConfiguration, true)
		}),
		types.ToolSearchCodebase: mcp.ToolExecutorFunc(func(executionContext context.Context, request mcp.ToolRequest) (mcp.ToolResponse, error) {
			return executeSearchCodebase(executionContext, request, applicationConfiguration)
		}),
	}
}

func executeFetchCodebase(executionContext context.Context, request mcp.ToolRequest, applicationConfiguration config.ApplicationConfiguration, remote bool) (mcp.ToolResponse, error) {
	var payload fetchRequest
	if len(request.Payload) > 0 {
		if decodeError := json.Unmarshal(request.Payload, &payload); decodeError != nil {
			return mcp.ToolResponse{}, mcp.NewToolExecutionError(http.StatusBadRequest, fmt.Errorf("decode fetch request: %w", decodeError))
		}
	}

	parameters := fetchParameters{
		IgnorePatterns: payload.Ignore,
		OutputFile:     payload.Output,
		Style:          payload.Style,
		Tokens:         resolveTokenOptions(payload.Tokens, applicationConfiguration),
	}
	if remote {
		if payload.RepoURL == "" {
			return mcp.ToolResponse{Output: messageMissingRemoteURL, Format: types.FormatRaw}, nil
		}
		parameters.RemoteURL = payload.RepoURL
	} else {
		parameters.Directory = payload.Directory
	}

	renderedText := runFetchOperation(executionContext, parameters, applicationConfiguration)
	return mcp.ToolResponse{Output: renderedText, Format: types.FormatRaw}, nil
}

func executeSearchCodebase(_ context.Context, request mcp.ToolRequest, applicationConfiguration config.ApplicationConfiguration) (mcp.ToolResponse, error) {
	var payload searchRequest
	if len(request.Payload) > 0 {
		if decodeError := json.Unmarshal(request.Payload, &payload); decodeError != nil {
			return mcp.ToolResponse{}, mcp.NewToolExecutionError(http.StatusBadRequest, fmt.Errorf("decode search request: %w", decodeError))
		}
	}

	parameters := searchParameters{
		BundleFile:    payload.BundleFile,
		RequestedPath: payload.Path,
		MaxLines:      payload.MaxLines,
		Tokens:        resolveTokenOptions(payload.Tokens, applicationConfiguration),
	}

	renderedText := runSearchOperation(parameters, applicationConfiguration)
	return mcp.ToolResponse{Output: renderedText, Format: types.FormatRaw}, nil
}

// resolveTokenOptions layers a per-request token block over the configured
// defaults.
func resolveTokenOptions(requested *tokenRequest, applicationConfiguration config.ApplicationConfiguration) tokenOptions {
	resolved := tokenOptions{
		enabled: resolveBoolean(applicationConfiguration.Tokens.Enabled, false),
		model:   firstNonEmpty(applicationConfiguration.Tokens.Model, tokenizer.DefaultModel),
	}
	if requested != nil {
		resolved.enabled = resolveBoolean(requested.Enabled, resolved.enabled)
		if requested.Model != "" {
			resolved.model = requested.Model
		}
	}
	return resolved
}

func resolveBoolean(value *bool, defaultValue bool) bool {
	if value == nil {
		return defaultValue
	}
	return *value
}
