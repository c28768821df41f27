// Package ident produces short, URL-safe, collision-resistant tokens
// used as playlist and item identifiers.
package ident

import (
	"encoding/base64"

	"github.com/google/uuid"
)

// New returns a 22-character URL-safe identifier: the raw bytes of a
// random UUID in unpadded base64url. Uniqueness is probabilistic; the
// 128-bit space makes collisions negligible, and callers that insert
// into a keyed store still check for conflicts and re-mint.
func New() string {
	u := uuid.New()
	return base64.RawURLEncoding.EncodeToString(u[:])
}
