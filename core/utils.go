package core

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// NewID generates a globally-unique record ID: a time-based component for
// rough insertion ordering plus a random component against collisions.
// e.g. "class_1724929000123_7f3b9a1c"
func NewID(prefix string) string {
	rand := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return prefix + "_" + strconv.FormatInt(time.Now().UnixMilli(), 10) + "_" + rand
}
