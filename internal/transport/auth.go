package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// AuthHeader carries the API token on write requests.
const AuthHeader = "X-Auth-Token"

// DefaultTokens is used when no token map is configured.
var DefaultTokens = map[string]string{"demo-token": "Schnuartz"}

// ParseTokens decodes a JSON object mapping tokens to packer names.
// An empty input yields DefaultTokens.
func ParseTokens(raw string) (map[string]string, error) {
	if strings.TrimSpace(raw) == "" {
		out := make(map[string]string, len(DefaultTokens))
		for k, v := range DefaultTokens {
			out[k] = v
		}
		return out, nil
	}
	var tokens map[string]string
	if err := json.Unmarshal([]byte(raw), &tokens); err != nil {
		return nil, fmt.Errorf("parse auth tokens: %w", err)
	}
	for token, packer := range tokens {
		if token == "" || packer == "" {
			return nil, errors.New("parse auth tokens: empty token or packer")
		}
	}
	return tokens, nil
}

// Authenticator maps request tokens to the packer they belong to.
type Authenticator struct {
	tokens map[string]string
	logger *zap.Logger
}

// NewAuthenticator returns an Authenticator over tokens.
func NewAuthenticator(tokens map[string]string, logger *zap.Logger) *Authenticator {
	return &Authenticator{tokens: tokens, logger: logger.Named("auth")}
}

// Packer returns the packer owning the request token.
func (a *Authenticator) Packer(r *http.Request) (string, bool) {
	token := r.Header.Get(AuthHeader)
	if token == "" {
		return "", false
	}
	packer, ok := a.tokens[token]
	return packer, ok
}

func (a *Authenticator) reject(w http.ResponseWriter, r *http.Request) {
	a.logger.Warn("unauthorized request",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("remote", r.RemoteAddr),
	)
	writeError(w, http.StatusUnauthorized, "Unauthorized: Invalid or missing X-Auth-Token header.")
}
