// Package types defines shared constants and data structures used across the
// application.
package types

// Tool name constants.
const (
	// ToolFetchCodebase packs a local directory into a bundle.
	ToolFetchCodebase = "fetch_codebase"
	// ToolFetchRemoteCodebase packs a remote repository into a bundle.
	ToolFetchRemoteCodebase = "fetch_remote_codebase"
	// ToolSearchCodebase excerpts one file from a previously saved bundle.
	ToolSearchCodebase = "search_codebase"
)

// Output format constants.
const (
	// FormatRaw renders results as plain text.
	FormatRaw = "raw"
	// FormatJSON renders results as JSON.
	FormatJSON = "json"
)

// FileRecord represents one file reconstructed from a bundle: the path exactly
// as written in the dump and the content lines in their original order.
type FileRecord struct {
	Path    string
	Content []string
}

// ReportSections holds the labeled blocks extracted from a packing report.
// DirectoryStructure is empty when the report carries no directory heading.
type ReportSections struct {
	DirectoryStructure string
	Summary            string
}
