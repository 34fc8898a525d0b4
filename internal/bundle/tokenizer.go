// Package bundle reconstructs per-file records from packed codebase dumps and
// serves bounded excerpts of them.
package bundle

import (
	"regexp"
	"strings"

	"github.com/HellFiveOsborn/codebase-mcp/internal/types"
)

// Opening and closing markers recognized by the tokenizer. Repomix has shipped
// two bundle styles over time: an XML-like style with explicit closing tags and
// a markdown heading style with no closer. Both are recognized independently,
// with the XML form taking priority per line.
var (
	xmlOpeningPattern     = regexp.MustCompile(`^<file path="(.*)">\s*$`)
	xmlClosingPattern     = regexp.MustCompile(`^</file>\s*$`)
	headingOpeningPattern = regexp.MustCompile(`^# File: (.+)$`)
)

// Parse scans the raw bundle text line by line and returns the file records it
// contains, in bundle order. Lines outside any record are bundle-level
// preamble and are discarded. A record still open at end of input is sealed
// with all remaining lines as its content. Malformed or partial bundles never
// fail; they simply yield fewer records.
func Parse(rawText string) []types.FileRecord {
	var records []types.FileRecord
	var openRecord *types.FileRecord

	sealOpenRecord := func() {
		if openRecord != nil {
			records = append(records, *openRecord)
			openRecord = nil
		}
	}

	for _, currentLine := range splitLines(rawText) {
		if match := xmlOpeningPattern.FindStringSubmatch(currentLine); match != nil {
			sealOpenRecord()
			openRecord = &types.FileRecord{Path: strings.TrimSpace(match[1])}
			continue
		}
		if match := headingOpeningPattern.FindStringSubmatch(currentLine); match != nil {
			sealOpenRecord()
			openRecord = &types.FileRecord{Path: strings.TrimSpace(match[1])}
			continue
		}
		if xmlClosingPattern.MatchString(currentLine) {
			sealOpenRecord()
			continue
		}
		if openRecord != nil {
			openRecord.Content = append(openRecord.Content, currentLine)
		}
	}
	sealOpenRecord()

	return records
}

// splitLines breaks rawText on line feeds, stripping a single trailing
// carriage return from each line so CRLF bundles tokenize identically.
func splitLines(rawText string) []string {
	lines := strings.Split(rawText, "\n")
	for lineIndex, lineValue := range lines {
		lines[lineIndex] = strings.TrimSuffix(lineValue, "\r")
	}
	return lines
}
