// Package packer invokes the external repomix tool that walks a source tree
// or clones a remote repository and produces a packed bundle file. The engine
// itself never touches the filesystem tree; it only consumes the console
// report and the bundle this invocation materializes.
package packer

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

const (
	// DefaultExecutable is the repomix command resolved through PATH when the
	// configuration does not name one.
	DefaultExecutable = "repomix"
	// DefaultOutputFile is where repomix writes the packed bundle by default.
	DefaultOutputFile = "repomix-output.xml"
	// DefaultStyle selects the bundle delimiter style requested from repomix.
	DefaultStyle = "xml"

	outputFlagName = "--output"
	styleFlagName  = "--style"
	ignoreFlagName = "--ignore"
	remoteFlagName = "--remote"
)

// Options describes one packing invocation.
type Options struct {
	Executable       string
	WorkingDirectory string
	OutputFile       string
	Style            string
	IgnorePatterns   string
	RemoteURL        string
}

// Run executes repomix and returns its combined console output. The caller's
// context bounds the invocation; no timeout or retry policy lives here. A
// non-zero exit surfaces as an error carrying the tool's output.
func Run(executionContext context.Context, options Options) (string, error) {
	executable := strings.TrimSpace(options.Executable)
	if executable == "" {
		executable = DefaultExecutable
	}

	// #nosec G204
	command := exec.CommandContext(executionContext, executable, BuildArguments(options)...)
	if options.WorkingDirectory != "" {
		command.Dir = options.WorkingDirectory
	}

	outputBytes, runError := command.CombinedOutput()
	if runError != nil {
		return "", fmt.Errorf("repomix failed: %v, output: %s", runError, strings.TrimSpace(string(outputBytes)))
	}
	return string(outputBytes), nil
}

// BuildArguments assembles the repomix argument vector for the invocation.
func BuildArguments(options Options) []string {
	var arguments []string
	if options.RemoteURL != "" {
		arguments = append(arguments, remoteFlagName, options.RemoteURL)
	}

	outputFile := options.OutputFile
	if outputFile == "" {
		outputFile = DefaultOutputFile
	}
	arguments = append(arguments, outputFlagName, outputFile)

	bundleStyle := options.Style
	if bundleStyle == "" {
		bundleStyle = DefaultStyle
	}
	arguments = append(arguments, styleFlagName, bundleStyle)

	if options.IgnorePatterns != "" {
		arguments = append(arguments, ignoreFlagName, options.IgnorePatterns)
	}
	return arguments
}

// EnsureOutputFile verifies the bundle the tool was asked to write actually
// materialized on disk.
func EnsureOutputFile(outputFilePath string) error {
	fileInformation, statError := os.Stat(outputFilePath)
	if statError != nil {
		return fmt.Errorf("repomix did not produce %s: %w", outputFilePath, statError)
	}
	if fileInformation.IsDir() {
		return fmt.Errorf("expected bundle file at %s, found a directory", outputFilePath)
	}
	return nil
}
