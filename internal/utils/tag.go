package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateRequestTag returns a short human-readable tag for a freshly
// created request, e.g. "GIG-20260901-4F3A9C". The tag is informational
// only; the UUID reference remains the canonical identifier.
func GenerateRequestTag(serviceCode string) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("%s-%s-%s", serviceCode, time.Now().UTC().Format("20060102"), suffix)
}
