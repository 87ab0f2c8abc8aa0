package gateway

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Prefix lengths bound the fingerprint input so very large prompts hash
// cheaply. Two requests differing only beyond these prefixes share a
// fingerprint, which is acceptable for dedup purposes.
const (
	promptPrefixLen = 200
	systemPrefixLen = 100
)

// Fingerprint derives a deterministic key identifying "the same logical
// request" for in-flight deduplication. It is not a cryptographic identity
// and is never persisted.
func Fingerprint(req Request) string {
	payload := fmt.Sprintf("%s|%s|%d|%g",
		prefix(req.Prompt, promptPrefixLen),
		prefix(req.SystemPrompt, systemPrefixLen),
		req.MaxTokens,
		req.Temperature,
	)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
