// Package responses contains HTTP response DTOs. Error responses use
// apierrors.ErrorResponse.
package responses

// TurnResponse is the success body for POST /v1/chat.
type TurnResponse struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

// SessionTokenResponse is the body for POST /v1/session.
type SessionTokenResponse struct {
	SessionToken string `json:"sessionToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// EnvCheckResponse reports which environment-backed settings carry a value.
// Values themselves are never included.
type EnvCheckResponse struct {
	EnvSeenByRuntime map[string]bool `json:"env_seen_by_runtime"`
}

// TTLResponse reports remaining key expiry for a session's context keys, in
// seconds. -1 means no expiry, -2 means the key does not exist.
type TTLResponse struct {
	SessionID string `json:"sessionId"`
	TTLChat   int64  `json:"ttlChat"`
	TTLFacts  int64  `json:"ttlFacts"`
}
