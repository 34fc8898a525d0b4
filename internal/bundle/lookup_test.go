package bundle_test

import (
	"testing"

	"github.com/HellFiveOsborn/codebase-mcp/internal/bundle"
	"github.com/HellFiveOsborn/codebase-mcp/internal/types"
)

// TestNormalizePath verifies separator unification, relative-marker stripping,
// and whitespace trimming.
func TestNormalizePath(testingHandle *testing.T) {
	testingHandle.Parallel()

	testCases := []struct {
		name           string
		inputPath      string
		expectedResult string
	}{
		{name: "already canonical", inputPath: "src/cli.ts", expectedResult: "src/cli.ts"},
		{name: "leading current-directory marker", inputPath: "./src/cli.ts", expectedResult: "src/cli.ts"},
		{name: "backslash separators", inputPath: "src\\cli.ts", expectedResult: "src/cli.ts"},
		{name: "surrounding whitespace", inputPath: "  src/cli.ts \t", expectedResult: "src/cli.ts"},
		{name: "marker with backslashes", inputPath: ".\\src\\cli.ts", expectedResult: "src/cli.ts"},
		{name: "only one marker stripped", inputPath: "././src", expectedResult: "./src"},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testingHandle.Run(testCase.name, func(subTestHandle *testing.T) {
			subTestHandle.Parallel()

			normalizedResult := bundle.NormalizePath(testCase.inputPath)
			if normalizedResult != testCase.expectedResult {
				subTestHandle.Fatalf("NormalizePath(%q) = %q, want %q", testCase.inputPath, normalizedResult, testCase.expectedResult)
			}
		})
	}
}

// TestFindMatchesEquivalentPaths verifies that relative markers and backslash
// separators resolve to the same stored record.
func TestFindMatchesEquivalentPaths(testingHandle *testing.T) {
	testingHandle.Parallel()

	records := []types.FileRecord{
		{Path: "README.md", Content: []string{"# readme"}},
		{Path: "src/cli.ts", Content: []string{"export {}"}},
	}

	for _, requestedPath := range []string{"src/cli.ts", "./src/cli.ts", "src\\cli.ts"} {
		foundRecord, found := bundle.Find(records, requestedPath)
		if !found {
			testingHandle.Fatalf("expected %q to match a record", requestedPath)
		}
		if foundRecord.Path != "src/cli.ts" {
			testingHandle.Fatalf("request %q matched %q, want src/cli.ts", requestedPath, foundRecord.Path)
		}
	}
}

// TestFindCaseInsensitiveFallback verifies the second lookup pass and its
// first-match-wins behavior among multiple case-insensitive candidates.
func TestFindCaseInsensitiveFallback(testingHandle *testing.T) {
	testingHandle.Parallel()

	records := []types.FileRecord{
		{Path: "docs/Readme.MD", Content: []string{"first candidate"}},
		{Path: "docs/readme.md", Content: []string{"second candidate"}},
	}

	foundRecord, found := bundle.Find(records, "docs/README.md")
	if !found {
		testingHandle.Fatalf("expected a case-insensitive match")
	}
	if foundRecord.Path != "docs/Readme.MD" {
		testingHandle.Fatalf("expected first candidate in bundle order, got %q", foundRecord.Path)
	}

	exactRecord, exactFound := bundle.Find(records, "docs/readme.md")
	if !exactFound || exactRecord.Path != "docs/readme.md" {
		testingHandle.Fatalf("exact match must win over earlier case-insensitive candidate, got %q", exactRecord.Path)
	}
}

// TestFindMissReportsNotFound verifies that a miss is reported through the
// boolean rather than an error.
func TestFindMissReportsNotFound(testingHandle *testing.T) {
	testingHandle.Parallel()

	records := []types.FileRecord{{Path: "main.go"}}
	if _, found := bundle.Find(records, "absent.go"); found {
		testingHandle.Fatalf("expected no match for absent.go")
	}
	if _, found := bundle.Find(nil, "anything"); found {
		testingHandle.Fatalf("expected no match in an empty index")
	}
}
