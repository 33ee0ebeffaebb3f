package utils

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ==================== UUID & TOKEN ====================

func GenerateUUID() uuid.UUID {
	return uuid.New()
}

func ParseUUID(uuidStr string) (uuid.UUID, error) {
	return uuid.Parse(uuidStr)
}

func GenerateSessionToken() uuid.UUID {
	return uuid.New()
}

// ==================== SLUG ====================

var whitespaceRun = regexp.MustCompile(`\s+`)

// Slugify lower-cases name and joins its words with "-".
func Slugify(name string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}
