package tokenizer

import (
	"testing"
)

// TestNewCounterCountsText verifies that a counter for the default model
// produces a positive token count for plain text. The test is skipped when
// encoder data cannot be initialized in the test environment.
func TestNewCounterCountsText(testingHandle *testing.T) {
	counter, resolvedModel, counterError := NewCounter(Config{Model: DefaultModel})
	if counterError != nil {
		testingHandle.Skipf("tokenizer unavailable: %v", counterError)
	}
	if resolvedModel == "" {
		testingHandle.Fatalf("expected a resolved model name")
	}

	tokenCount, countError := counter.CountString("package main\n\nfunc main() {}\n")
	if countError != nil {
		testingHandle.Fatalf("CountString failed: %v", countError)
	}
	if tokenCount <= 0 {
		testingHandle.Fatalf("expected a positive token count, got %d", tokenCount)
	}
}

// TestNewCounterFallsBackForUnknownModel verifies unknown models resolve to
// the default encoding instead of failing.
func TestNewCounterFallsBackForUnknownModel(testingHandle *testing.T) {
	_, resolvedModel, counterError := NewCounter(Config{Model: "no-such-model"})
	if counterError != nil {
		testingHandle.Skipf("tokenizer unavailable: %v", counterError)
	}
	if resolvedModel != "cl100k_base" {
		testingHandle.Fatalf("expected fallback encoding name, got %q", resolvedModel)
	}
}
