package bundle

import (
	"fmt"
	"strings"

	"github.com/HellFiveOsborn/codebase-mcp/internal/types"
)

// DefaultMaxLines bounds an excerpt when the caller does not ask for a
// specific line budget.
const DefaultMaxLines = 40

// Extract renders the first maxLines lines of the record, each prefixed with
// its 1-based line number, and trims trailing whitespace from the result. A
// zero budget yields an empty body; a budget beyond the content length yields
// the full content.
func Extract(record types.FileRecord, maxLines int) string {
	if maxLines < 0 {
		maxLines = 0
	}
	lineCount := maxLines
	if lineCount > len(record.Content) {
		lineCount = len(record.Content)
	}

	var excerptBuilder strings.Builder
	for lineIndex := 0; lineIndex < lineCount; lineIndex++ {
		excerptBuilder.WriteString(fmt.Sprintf(" %d: %s\n", lineIndex+1, record.Content[lineIndex]))
	}
	return strings.TrimRight(excerptBuilder.String(), " \t\r\n")
}

// WrapFile encloses an excerpt body in the <file> envelope expected by
// callers, carrying the record's original, non-normalized path.
func WrapFile(record types.FileRecord, excerptBody string) string {
	return fmt.Sprintf("<file path=\"%s\">\n%s\n</file>", record.Path, excerptBody)
}
