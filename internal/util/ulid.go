package util

import (
	"github.com/oklog/ulid/v2"
)

// NewULID generates a new ULID string. IDs from one process sort by creation time.
func NewULID() string {
	return ulid.Make().String()
}
