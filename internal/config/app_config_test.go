package config

import (
	"path/filepath"
	"testing"

	"github.com/HellFiveOsborn/codebase-mcp/internal/utils"
)

// TestLoadApplicationConfigurationReadsLocalFile verifies that a local
// configuration file in the working directory is discovered and decoded.
func TestLoadApplicationConfigurationReadsLocalFile(testingHandle *testing.T) {
	testingHandle.Setenv("HOME", testingHandle.TempDir())
	workingDirectory := testingHandle.TempDir()
	localConfiguration := "server:\n  address: 127.0.0.1:7777\npacker:\n  executable: /usr/local/bin/repomix\nsearch:\n  max_lines: 15\n"
	writeTestFile(testingHandle, filepath.Join(workingDirectory, utils.ConfigFileName), localConfiguration)

	loadedConfiguration, loadError := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDirectory})
	if loadError != nil {
		testingHandle.Fatalf("LoadApplicationConfiguration failed: %v", loadError)
	}

	if loadedConfiguration.Server.Address != "127.0.0.1:7777" {
		testingHandle.Fatalf("unexpected server address: %q", loadedConfiguration.Server.Address)
	}
	if loadedConfiguration.Packer.Executable != "/usr/local/bin/repomix" {
		testingHandle.Fatalf("unexpected packer executable: %q", loadedConfiguration.Packer.Executable)
	}
	if loadedConfiguration.Search.MaxLines == nil || *loadedConfiguration.Search.MaxLines != 15 {
		testingHandle.Fatalf("unexpected search max lines: %v", loadedConfiguration.Search.MaxLines)
	}
}

// TestLoadApplicationConfigurationMissingLocalFile verifies that an absent
// local file yields zero-value configuration without error.
func TestLoadApplicationConfigurationMissingLocalFile(testingHandle *testing.T) {
	testingHandle.Setenv("HOME", testingHandle.TempDir())
	loadedConfiguration, loadError := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: testingHandle.TempDir()})
	if loadError != nil {
		testingHandle.Fatalf("LoadApplicationConfiguration failed: %v", loadError)
	}
	if loadedConfiguration.Server.Address != "" || loadedConfiguration.Packer.Executable != "" {
		testingHandle.Fatalf("expected zero-value configuration, got %+v", loadedConfiguration)
	}
}

// TestMergeOverridesSelectively verifies that override values replace base
// values only where the override sets them.
func TestMergeOverridesSelectively(testingHandle *testing.T) {
	baseMaxLines := 40
	overrideEnabled := true

	baseConfiguration := ApplicationConfiguration{
		Server: ServerConfiguration{Address: "127.0.0.1:0"},
		Packer: PackerConfiguration{Executable: "repomix", Style: "xml"},
		Search: SearchConfiguration{MaxLines: &baseMaxLines},
	}
	overrideConfiguration := ApplicationConfiguration{
		Packer: PackerConfiguration{OutputFile: "bundle.xml"},
		Tokens: TokenConfiguration{Enabled: &overrideEnabled, Model: "gpt-4o"},
	}

	mergedConfiguration := baseConfiguration.Merge(overrideConfiguration)

	if mergedConfiguration.Server.Address != "127.0.0.1:0" {
		testingHandle.Fatalf("server address must survive the merge, got %q", mergedConfiguration.Server.Address)
	}
	if mergedConfiguration.Packer.Executable != "repomix" || mergedConfiguration.Packer.OutputFile != "bundle.xml" {
		testingHandle.Fatalf("unexpected packer configuration: %+v", mergedConfiguration.Packer)
	}
	if mergedConfiguration.Search.MaxLines == nil || *mergedConfiguration.Search.MaxLines != 40 {
		testingHandle.Fatalf("search max lines must survive the merge: %v", mergedConfiguration.Search.MaxLines)
	}
	if mergedConfiguration.Tokens.Enabled == nil || !*mergedConfiguration.Tokens.Enabled || mergedConfiguration.Tokens.Model != "gpt-4o" {
		testingHandle.Fatalf("unexpected token configuration: %+v", mergedConfiguration.Tokens)
	}
}
