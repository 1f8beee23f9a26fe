// Package session resolves opaque session identifiers and manages the
// optional time-boxed session credential.
package session

import (
	"strings"

	"github.com/exiluzrg-design/tempochat-landing/internal/utils/idgen"
)

// minClientIDLength guards against trivially guessable client-picked ids.
const minClientIDLength = 8

// Resolve returns a usable session identifier. A client-supplied id is kept
// when it is long enough to act as a capability token; otherwise a fresh
// opaque id is generated. Generation never touches storage.
func Resolve(clientID string) (string, error) {
	id := strings.TrimSpace(clientID)
	if len(id) >= minClientIDLength {
		return id, nil
	}
	return idgen.GenerateSecureID("sess", 24)
}
