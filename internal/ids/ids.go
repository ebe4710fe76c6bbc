package ids

import (
	"strings"

	"github.com/segmentio/ksuid"
)

// New returns a new sortable, url-safe identifier.
func New() string {
	return ksuid.New().String()
}

// Valid reports whether s is a well-formed identifier produced by New.
func Valid(s string) bool {
	if len(s) != 27 || strings.ContainsAny(s, "-_ ") {
		return false
	}
	_, err := ksuid.Parse(s)
	return err == nil
}
