// Package uuid generates the flavors of UUID used across the repository.
package uuid

import (
	"strings"

	"github.com/google/uuid"
)

// New returns a new random UUIDv4.
func New() string {
	return uuid.NewString()
}

// NewWithoutDashes returns a new UUIDv4 with the dashes stripped, for use in
// names that do not allow dashes.
func NewWithoutDashes() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
