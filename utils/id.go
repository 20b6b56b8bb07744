package utils

import (
	"github.com/segmentio/ksuid"
)

// GenerateID returns a sortable unique ID for temp file names.
func GenerateID() string {
	return ksuid.New().String()
}
