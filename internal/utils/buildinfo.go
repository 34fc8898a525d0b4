package utils

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime/debug"
	"strings"
)

const unknownVersion = "unknown"

// GetApplicationVersion reports the running binary's version. Module build
// info is preferred; a development build falls back to git describe against
// the enclosing repository, and "unknown" is the last resort.
func GetApplicationVersion() string {
	if buildInfo, available := debug.ReadBuildInfo(); available {
		if mainVersion := buildInfo.Main.Version; mainVersion != "" && mainVersion != "(devel)" {
			return mainVersion
		}
	}

	repositoryRoot, locateError := locateRepositoryRoot(".")
	if locateError != nil {
		return unknownVersion
	}
	for _, describeArguments := range [][]string{
		{"describe", "--tags", "--exact-match"},
		{"describe", "--tags", "--long", "--dirty"},
	} {
		// #nosec G204
		describeCommand := exec.Command("git", describeArguments...)
		describeCommand.Dir = repositoryRoot
		if describeOutput, describeError := describeCommand.Output(); describeError == nil && len(describeOutput) > 0 {
			return strings.TrimSpace(string(describeOutput))
		}
	}
	return unknownVersion
}

// locateRepositoryRoot walks upward from startDirectory until it reaches a
// directory containing .git.
func locateRepositoryRoot(startDirectory string) (string, error) {
	currentDirectory, absoluteError := filepath.Abs(startDirectory)
	if absoluteError != nil {
		return "", fmt.Errorf("resolve %s: %w", startDirectory, absoluteError)
	}
	for {
		if gitInformation, statError := os.Stat(filepath.Join(currentDirectory, GitDirectoryName)); statError == nil && gitInformation.IsDir() {
			return currentDirectory, nil
		}
		parentDirectory := filepath.Dir(currentDirectory)
		if parentDirectory == currentDirectory {
			return "", fmt.Errorf("no %s directory found above %s", GitDirectoryName, startDirectory)
		}
		currentDirectory = parentDirectory
	}
}
