// Package clipboard copies rendered results to the system clipboard.
package clipboard

import (
	"github.com/atotto/clipboard"
)

// Copier places text on the system clipboard.
type Copier interface {
	Copy(text string) error
}

// systemCopier writes through github.com/atotto/clipboard.
type systemCopier struct{}

// NewCopier returns a Copier backed by the host clipboard.
func NewCopier() Copier {
	return systemCopier{}
}

// Copy replaces the clipboard contents with text.
func (systemCopier) Copy(text string) error {
	return clipboard.WriteAll(text)
}
