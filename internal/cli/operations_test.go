package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/HellFiveOsborn/codebase-mcp/internal/config"
)

func writeBundleFile(testingHandle *testing.T, bundleContent string) string {
	testingHandle.Helper()
	bundlePath := filepath.Join(testingHandle.TempDir(), "repomix-output.xml")
	if writeError := os.WriteFile(bundlePath, []byte(bundleContent), 0o644); writeError != nil {
		testingHandle.Fatalf("write bundle file: %v", writeError)
	}
	return bundlePath
}

func writeExecutableScript(testingHandle *testing.T, scriptContent string) string {
	testingHandle.Helper()
	scriptPath := filepath.Join(testingHandle.TempDir(), "fake-repomix.sh")
	if writeError := os.WriteFile(scriptPath, []byte(scriptContent), 0o755); writeError != nil {
		testingHandle.Fatalf("write script: %v", writeError)
	}
	return scriptPath
}

func TestRunSearchOperationExtractsExcerpt(testingHandle *testing.T) {
	bundlePath := writeBundleFile(testingHandle, "<file path=\"src/cli.ts\">\nconst first = 1\nconst second = 2\n</file>\n")
	lineBudget := 1

	renderedText := runSearchOperation(searchParameters{
		BundleFile:    bundlePath,
		RequestedPath: "./src/cli.ts",
		MaxLines:      &lineBudget,
	}, config.ApplicationConfiguration{})

	expectedText := "<file path=\"src/cli.ts\">\n 1: const first = 1\n</file>"
	if renderedText != expectedText {
		testingHandle.Fatalf("unexpected excerpt:\n%s\nwant:\n%s", renderedText, expectedText)
	}
}

// TestRunSearchOperationLineBudgetResolution verifies that an omitted budget
// falls back to configuration and then the built-in default, while an explicit
// budget, including zero, is honored as-is.
func TestRunSearchOperationLineBudgetResolution(testingHandle *testing.T) {
	bundlePath := writeBundleFile(testingHandle, "<file path=\"a.go\">\npackage a\n\nvar value = 1\n</file>\n")
	configuredBudget := 1

	testCases := []struct {
		name          string
		maxLines      *int
		configuration config.ApplicationConfiguration
		expectedText  string
	}{
		{
			name:         "omitted budget uses built-in default",
			maxLines:     nil,
			expectedText: "<file path=\"a.go\">\n 1: package a\n 2: \n 3: var value = 1\n</file>",
		},
		{
			name:          "omitted budget uses configured default",
			maxLines:      nil,
			configuration: config.ApplicationConfiguration{Search: config.SearchConfiguration{MaxLines: &configuredBudget}},
			expectedText:  "<file path=\"a.go\">\n 1: package a\n</file>",
		},
		{
			name:         "explicit zero yields an empty body",
			maxLines:     intPointer(0),
			expectedText: "<file path=\"a.go\">\n\n</file>",
		},
		{
			name:          "explicit budget overrides configuration",
			maxLines:      intPointer(2),
			configuration: config.ApplicationConfiguration{Search: config.SearchConfiguration{MaxLines: &configuredBudget}},
			expectedText:  "<file path=\"a.go\">\n 1: package a\n 2:\n</file>",
		},
		{
			name:         "negative budget clamps to empty body",
			maxLines:     intPointer(-5),
			expectedText: "<file path=\"a.go\">\n\n</file>",
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testingHandle.Run(testCase.name, func(subTestHandle *testing.T) {
			renderedText := runSearchOperation(searchParameters{
				BundleFile:    bundlePath,
				RequestedPath: "a.go",
				MaxLines:      testCase.maxLines,
			}, testCase.configuration)
			if renderedText != testCase.expectedText {
				subTestHandle.Fatalf("unexpected excerpt:\n%q\nwant:\n%q", renderedText, testCase.expectedText)
			}
		})
	}
}

func intPointer(value int) *int {
	return &value
}

func TestRunSearchOperationReportsMissingFilePath(testingHandle *testing.T) {
	renderedText := runSearchOperation(searchParameters{}, config.ApplicationConfiguration{})
	if renderedText != messageMissingFilePath {
		testingHandle.Fatalf("unexpected message: %q", renderedText)
	}
}

func TestRunSearchOperationReportsMissingBundle(testingHandle *testing.T) {
	missingBundlePath := filepath.Join(testingHandle.TempDir(), "no-such-bundle.xml")

	renderedText := runSearchOperation(searchParameters{
		BundleFile:    missingBundlePath,
		RequestedPath: "src/cli.ts",
	}, config.ApplicationConfiguration{})

	expectedText := fmt.Sprintf(messageBundleNotFound, missingBundlePath)
	if renderedText != expectedText {
		testingHandle.Fatalf("unexpected message: %q", renderedText)
	}
}

func TestRunSearchOperationReportsUnknownFile(testingHandle *testing.T) {
	bundlePath := writeBundleFile(testingHandle, "# File: src/cli.ts\nconst first = 1\n")

	renderedText := runSearchOperation(searchParameters{
		BundleFile:    bundlePath,
		RequestedPath: "src/other.ts",
	}, config.ApplicationConfiguration{})

	expectedText := fmt.Sprintf(messageFileNotFound, "src/other.ts", 1)
	if renderedText != expectedText {
		testingHandle.Fatalf("unexpected message: %q", renderedText)
	}
}

func TestRunFetchOperationReportsMissingDirectory(testingHandle *testing.T) {
	missingDirectory := filepath.Join(testingHandle.TempDir(), "absent")

	renderedText := runFetchOperation(context.Background(), fetchParameters{
		Directory: missingDirectory,
	}, config.ApplicationConfiguration{})

	expectedText := fmt.Sprintf(messageDirectoryNotFound, missingDirectory)
	if renderedText != expectedText {
		testingHandle.Fatalf("unexpected message: %q", renderedText)
	}
}

func TestRunFetchOperationReportsPackerFailure(testingHandle *testing.T) {
	targetDirectory := testingHandle.TempDir()
	applicationConfiguration := config.ApplicationConfiguration{}
	applicationConfiguration.Packer.Executable = "false"

	renderedText := runFetchOperation(context.Background(), fetchParameters{
		Directory: targetDirectory,
	}, applicationConfiguration)

	if !strings.HasPrefix(renderedText, "Failed to pack codebase:") {
		testingHandle.Fatalf("unexpected message: %q", renderedText)
	}
}

func TestRunFetchOperationRendersReportSections(testingHandle *testing.T) {
	targetDirectory := testingHandle.TempDir()
	scriptPath := writeExecutableScript(testingHandle, "#!/bin/sh\n"+
		"printf 'Directory Structure:\\n  pkg/\\n    main.go\\nPack Summary:\\n  Total Files: 1\\n'\n"+
		"touch \"$2\"\n")

	applicationConfiguration := config.ApplicationConfiguration{}
	applicationConfiguration.Packer.Executable = scriptPath

	renderedText := runFetchOperation(context.Background(), fetchParameters{
		Directory:  targetDirectory,
		OutputFile: "bundle.xml",
	}, applicationConfiguration)

	expectedText := "<directory_structure>\npkg/\n    main.go\n</directory_structure>\n\n" +
		"Pack Summary:\n  Total Files: 1\n\n" +
		"Bundle saved to bundle.xml"
	if renderedText != expectedText {
		testingHandle.Fatalf("unexpected output:\n%s\nwant:\n%s", renderedText, expectedText)
	}

	if _, statError := os.Stat(filepath.Join(targetDirectory, "bundle.xml")); statError != nil {
		testingHandle.Fatalf("expected bundle file to exist: %v", statError)
	}
}
