package identity

import (
	"strconv"
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// SectionID names a layout section after the template that produced it, so
// the same wizard input always yields the same section ids.
func SectionID(templateID, sectionType string, order int) string {
	key := "configurator:section:" + strings.ToLower(strings.TrimSpace(templateID)) +
		":" + strings.ToLower(strings.TrimSpace(sectionType)) + ":" + strconv.Itoa(order)
	return strings.ToLower(strings.TrimSpace(sectionType)) + "-" + UUID(key).String()[:8]
}

// NewID returns a random identifier for drafts, logos and blocks.
func NewID() string {
	return uuid.NewString()
}

// Generator produces identifiers. Tests inject sequences.
type Generator func() string

// Random is the default Generator.
var Random Generator = NewID
