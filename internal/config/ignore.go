// Package config loads the project ignore file and the layered application
// configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// IgnoreFileName is the fixed-named ignore file read from the packed
	// directory and forwarded to repomix.
	IgnoreFileName = ".repomixignore"
	// ignorePatternSeparator joins patterns into the list syntax the
	// repomix --ignore flag expects.
	ignorePatternSeparator = ","
	commentLinePrefix      = "#"
)

// LoadIgnoreFilePatterns reads the ignore file inside directoryPath and
// returns its patterns with blank lines and comments removed. A missing file
// yields no patterns and no error; an unreadable file propagates the read
// error for the caller to convert.
func LoadIgnoreFilePatterns(directoryPath string) ([]string, error) {
	ignoreFilePath := filepath.Join(directoryPath, IgnoreFileName)
	fileData, readError := os.ReadFile(ignoreFilePath)
	if readError != nil {
		if os.IsNotExist(readError) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", ignoreFilePath, readError)
	}

	var ignorePatterns []string
	for _, rawLine := range strings.Split(string(fileData), "\n") {
		trimmedLine := strings.TrimSpace(rawLine)
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentLinePrefix) {
			continue
		}
		ignorePatterns = append(ignorePatterns, trimmedLine)
	}
	return ignorePatterns, nil
}

// CombineIgnorePatterns merges caller-supplied patterns with file-sourced
// patterns, caller patterns first, and joins them into a single
// comma-separated list. Blank entries are skipped.
func CombineIgnorePatterns(callerPatterns []string, filePatterns []string) string {
	var combinedPatterns []string
	for _, patternValue := range append(append([]string{}, callerPatterns...), filePatterns...) {
		trimmedPattern := strings.TrimSpace(patternValue)
		if trimmedPattern == "" {
			continue
		}
		combinedPatterns = append(combinedPatterns, trimmedPattern)
	}
	return strings.Join(combinedPatterns, ignorePatternSeparator)
}
