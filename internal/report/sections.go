// Package report extracts labeled sections from the free-form console output
// of the external repomix tool. The upstream format is a human-oriented
// report, not a stable contract, so extraction is positional and lossy by
// design: when markers move or disappear the extractor degrades to a
// best-effort result instead of failing.
package report

import (
	"strings"

	"github.com/HellFiveOsborn/codebase-mcp/internal/types"
)

// Marker strings located in the filtered report. They are configuration
// constants so an upstream wording change only touches this block.
const (
	directoryStructureMarker = "directory structure"
	packSummaryMarker        = "Pack Summary:"
	totalFilesMarker         = "Total Files:"
	fallbackSummaryLineCount = 20
)

// noiseMarkers lists promotional banner fragments repomix prints around its
// report. Lines containing any of them are dropped before sectioning.
// Matching is case-insensitive.
var noiseMarkers = []string{
	"📦 repomix",
	"repomix is now available",
	"github.com/yamadashy/repomix",
	"support repomix",
	"join our discord",
}

// ExtractSections filters banner noise out of rawOutput and locates the
// directory-structure block and the trailing summary block. A missing
// directory heading yields an empty DirectoryStructure; missing summary
// markers fall back to the last lines of the filtered text.
func ExtractSections(rawOutput string) types.ReportSections {
	filteredText := filterNoise(rawOutput)

	return types.ReportSections{
		DirectoryStructure: extractDirectoryStructure(filteredText),
		Summary:            extractSummary(filteredText),
	}
}

// filterNoise drops every line carrying a known banner fragment and rejoins
// the survivors.
func filterNoise(rawOutput string) string {
	var survivingLines []string
	for _, currentLine := range strings.Split(rawOutput, "\n") {
		if lineIsNoise(currentLine) {
			continue
		}
		survivingLines = append(survivingLines, currentLine)
	}
	return strings.TrimSpace(strings.Join(survivingLines, "\n"))
}

func lineIsNoise(lineValue string) bool {
	loweredLine := strings.ToLower(lineValue)
	for _, noiseMarker := range noiseMarkers {
		if strings.Contains(loweredLine, noiseMarker) {
			return true
		}
	}
	return false
}

// extractDirectoryStructure returns the block between the directory heading
// and the earliest summary marker positioned after it, or an empty string
// when the heading is absent.
func extractDirectoryStructure(filteredText string) string {
	headingIndex := indexIgnoreCase(filteredText, directoryStructureMarker)
	if headingIndex < 0 {
		return ""
	}
	bodyStart := headingIndex + len(directoryStructureMarker)
	if bodyStart < len(filteredText) && filteredText[bodyStart] == ':' {
		bodyStart++
	}

	bodyEnd := len(filteredText)
	for _, endMarker := range []string{packSummaryMarker, totalFilesMarker} {
		markerIndex := indexFrom(filteredText, endMarker, bodyStart)
		if markerIndex >= 0 && markerIndex < bodyEnd {
			bodyEnd = markerIndex
		}
	}
	return strings.TrimSpace(filteredText[bodyStart:bodyEnd])
}

// extractSummary returns everything from the first summary marker to end of
// text, or the last lines of the filtered text when neither marker exists.
func extractSummary(filteredText string) string {
	summaryStart := -1
	for _, summaryMarker := range []string{packSummaryMarker, totalFilesMarker} {
		markerIndex := strings.Index(filteredText, summaryMarker)
		if markerIndex >= 0 && (summaryStart < 0 || markerIndex < summaryStart) {
			summaryStart = markerIndex
		}
	}
	if summaryStart >= 0 {
		return strings.TrimSpace(filteredText[summaryStart:])
	}
	return lastLines(filteredText, fallbackSummaryLineCount)
}

// indexIgnoreCase finds markerValue in textValue case-insensitively and
// returns a byte index into textValue itself. Lowering the whole text first
// would shift byte offsets for the few runes whose case forms differ in
// length.
func indexIgnoreCase(textValue string, markerValue string) int {
	lastStart := len(textValue) - len(markerValue)
	for startIndex := 0; startIndex <= lastStart; startIndex++ {
		if strings.EqualFold(textValue[startIndex:startIndex+len(markerValue)], markerValue) {
			return startIndex
		}
	}
	return -1
}

func indexFrom(textValue string, markerValue string, startIndex int) int {
	if startIndex >= len(textValue) {
		return -1
	}
	relativeIndex := strings.Index(textValue[startIndex:], markerValue)
	if relativeIndex < 0 {
		return -1
	}
	return startIndex + relativeIndex
}

func lastLines(textValue string, lineCount int) string {
	allLines := strings.Split(textValue, "\n")
	if len(allLines) > lineCount {
		allLines = allLines[len(allLines)-lineCount:]
	}
	return strings.TrimSpace(strings.Join(allLines, "\n"))
}
