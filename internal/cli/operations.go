package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/HellFiveOsborn/codebase-mcp/internal/bundle"
	"github.com/HellFiveOsborn/codebase-mcp/internal/config"
	"github.com/HellFiveOsborn/codebase-mcp/internal/packer"
	"github.com/HellFiveOsborn/codebase-mcp/internal/report"
	"github.com/HellFiveOsborn/codebase-mcp/internal/tokenizer"
)

// Every failure an operation can hit is rendered as a normal textual result.
// Agents consuming tool responses handle explanatory text far better than
// protocol errors, so nothing below escalates past a formatted message.
const (
	messageDirectoryNotFound   = "Directory not found: %s"
	messageIgnoreFileFailed    = "Failed to read ignore file: %v"
	messagePackFailed          = "Failed to pack codebase: %v"
	messageMissingRemoteURL    = "Error: No repository URL provided."
	messageMissingFilePath     = "Error: No file path provided."
	messageBundleNotFound      = "Bundle file not found: %s. Run fetch_codebase first."
	messageBundleReadFailed    = "Failed to read bundle file %s: %v"
	messageFileNotFound        = "File not found: %s. The bundle contains %d file(s)."
	messageBundleSavedFormat   = "Bundle saved to %s"
	messageTokenCountFormat    = "Tokens: %d (%s)"
	directoryStructureTemplate = "<directory_structure>\n%s\n</directory_structure>"
)

// fetchParameters describes one packing operation. Directory and RemoteURL
// are mutually exclusive; an empty RemoteURL means a local pack.
type fetchParameters struct {
	Directory      string
	RemoteURL      string
	IgnorePatterns []string
	OutputFile     string
	Style          string
	Tokens         tokenOptions
}

// searchParameters describes one bundle lookup. A nil MaxLines means the
// caller omitted the budget and the configured default applies; an explicit
// zero is a valid degenerate request for an empty excerpt body.
type searchParameters struct {
	BundleFile    string
	RequestedPath string
	MaxLines      *int
	Tokens        tokenOptions
}

// runFetchOperation packs a codebase through repomix and renders the report's
// directory-structure and summary blocks.
func runFetchOperation(operationContext context.Context, parameters fetchParameters, applicationConfiguration config.ApplicationConfiguration) string {
	if parameters.RemoteURL == "" && parameters.Directory == "" {
		parameters.Directory = defaultPath
	}

	workingDirectory := ""
	var filePatterns []string
	if parameters.RemoteURL == "" {
		directoryInformation, statError := os.Stat(parameters.Directory)
		if statError != nil || !directoryInformation.IsDir() {
			return fmt.Sprintf(messageDirectoryNotFound, parameters.Directory)
		}
		workingDirectory = parameters.Directory

		loadedPatterns, loadError := config.LoadIgnoreFilePatterns(parameters.Directory)
		if loadError != nil {
			return fmt.Sprintf(messageIgnoreFileFailed, loadError)
		}
		filePatterns = loadedPatterns
	} else if strings.TrimSpace(parameters.RemoteURL) == "" {
		return messageMissingRemoteURL
	}

	outputFile := firstNonEmpty(parameters.OutputFile, applicationConfiguration.Packer.OutputFile, packer.DefaultOutputFile)
	packerOptions := packer.Options{
		Executable:       applicationConfiguration.Packer.Executable,
		WorkingDirectory: workingDirectory,
		OutputFile:       outputFile,
		Style:            firstNonEmpty(parameters.Style, applicationConfiguration.Packer.Style),
		IgnorePatterns:   config.CombineIgnorePatterns(parameters.IgnorePatterns, filePatterns),
		RemoteURL:        parameters.RemoteURL,
	}

	consoleOutput, runError := packer.Run(operationContext, packerOptions)
	if runError != nil {
		return fmt.Sprintf(messagePackFailed, runError)
	}
	if ensureError := packer.EnsureOutputFile(resolveOutputPath(workingDirectory, outputFile)); ensureError != nil {
		return fmt.Sprintf(messagePackFailed, ensureError)
	}

	sections := report.ExtractSections(consoleOutput)

	var renderedBlocks []string
	if sections.DirectoryStructure != "" {
		renderedBlocks = append(renderedBlocks, fmt.Sprintf(directoryStructureTemplate, sections.DirectoryStructure))
	}
	if sections.Summary != "" {
		renderedBlocks = append(renderedBlocks, sections.Summary)
	}
	renderedBlocks = append(renderedBlocks, fmt.Sprintf(messageBundleSavedFormat, outputFile))
	renderedText := strings.Join(renderedBlocks, "\n\n")

	return appendTokenCount(renderedText, parameters.Tokens)
}

// runSearchOperation parses a previously saved bundle and renders a bounded,
// line-numbered excerpt of the requested file.
func runSearchOperation(parameters searchParameters, applicationConfiguration config.ApplicationConfiguration) string {
	requestedPath := strings.TrimSpace(parameters.RequestedPath)
	if requestedPath == "" {
		return messageMissingFilePath
	}

	bundleFile := firstNonEmpty(parameters.BundleFile, applicationConfiguration.Packer.OutputFile, packer.DefaultOutputFile)
	bundleData, readError := os.ReadFile(bundleFile)
	if readError != nil {
		if os.IsNotExist(readError) {
			return fmt.Sprintf(messageBundleNotFound, bundleFile)
		}
		return fmt.Sprintf(messageBundleReadFailed, bundleFile, readError)
	}

	bundleRecords := bundle.Parse(string(bundleData))
	matchedRecord, found := bundle.Find(bundleRecords, requestedPath)
	if !found {
		return fmt.Sprintf(messageFileNotFound, requestedPath, len(bundleRecords))
	}

	maximumLines := bundle.DefaultMaxLines
	if applicationConfiguration.Search.MaxLines != nil {
		maximumLines = *applicationConfiguration.Search.MaxLines
	}
	if parameters.MaxLines != nil {
		maximumLines = *parameters.MaxLines
	}
	if maximumLines < 0 {
		maximumLines = 0
	}

	excerptBody := bundle.Extract(matchedRecord, maximumLines)
	renderedText := bundle.WrapFile(matchedRecord, excerptBody)
	return appendTokenCount(renderedText, parameters.Tokens)
}

// appendTokenCount adds a trailing token-count line when counting is enabled.
// Tokenizer failures never break an otherwise successful result.
func appendTokenCount(renderedText string, tokenConfiguration tokenOptions) string {
	if !tokenConfiguration.enabled {
		return renderedText
	}
	counter, resolvedModel, counterError := tokenizer.NewCounter(tokenConfiguration.toConfig())
	if counterError != nil {
		return renderedText
	}
	tokenCount, countError := counter.CountString(renderedText)
	if countError != nil {
		return renderedText
	}
	return renderedText + "\n\n" + fmt.Sprintf(messageTokenCountFormat, tokenCount, resolvedModel)
}

func resolveOutputPath(workingDirectory string, outputFile string) string {
	if workingDirectory == "" || filepath.IsAbs(outputFile) {
		return outputFile
	}
	return filepath.Join(workingDirectory, outputFile)
}

func firstNonEmpty(candidates ...string) string {
	for _, candidate := range candidates {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return ""
}
