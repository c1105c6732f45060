// Package llm holds what the provider packages share.
package llm

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"indian-hedge-fund/internal/retry"
)

// ErrMissingAPIKey is returned (wrapped as permanent) when a provider's key
// is not set in the environment.
var ErrMissingAPIKey = errors.New("api key missing")

// APIKey reads the first non-empty variable among envs.
func APIKey(envs ...string) (string, error) {
	for _, e := range envs {
		if v := strings.TrimSpace(os.Getenv(e)); v != "" {
			return v, nil
		}
	}
	return "", retry.Permanent(fmt.Errorf("%w: set %s", ErrMissingAPIKey, strings.Join(envs, " or ")))
}

// JSONInstruction is appended to the system prompt for providers without a
// native JSON response mode.
const JSONInstruction = "\n\nRespond ONLY with a single compact JSON object. Do not wrap it in code fences."

// Classify marks client errors that a retry cannot fix as permanent.
func Classify(status int, err error) error {
	switch status {
	case 400, 401, 403, 404:
		return retry.Permanent(err)
	}
	return err
}
