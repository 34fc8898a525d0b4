package bundle

import (
	"strings"

	"github.com/HellFiveOsborn/codebase-mcp/internal/types"
)

const currentDirectoryPrefix = "./"

// NormalizePath canonicalizes a path string for equality comparison only.
// Surrounding whitespace is trimmed, backslash separators become forward
// slashes, and a single leading "./" marker is stripped. Original paths are
// what callers see; normalized forms are never stored or displayed.
func NormalizePath(pathValue string) string {
	normalizedPath := strings.TrimSpace(pathValue)
	normalizedPath = strings.ReplaceAll(normalizedPath, "\\", "/")
	normalizedPath = strings.TrimPrefix(normalizedPath, currentDirectoryPrefix)
	return normalizedPath
}

// Find locates the record matching requestedPath. The first pass compares
// normalized paths exactly; when nothing matches, a second pass compares them
// case-insensitively. In both passes the first match in bundle order wins. A
// miss is a normal outcome, reported through the boolean.
func Find(records []types.FileRecord, requestedPath string) (types.FileRecord, bool) {
	normalizedRequest := NormalizePath(requestedPath)

	for _, candidateRecord := range records {
		if NormalizePath(candidateRecord.Path) == normalizedRequest {
			return candidateRecord, true
		}
	}
	for _, candidateRecord := range records {
		if strings.EqualFold(NormalizePath(candidateRecord.Path), normalizedRequest) {
			return candidateRecord, true
		}
	}
	return types.FileRecord{}, false
}
