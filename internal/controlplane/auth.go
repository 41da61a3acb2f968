package controlplane

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// authenticator validates the bearer token carried by a mutating tool call's
// "auth_token" argument. A nil authenticator (the zero Config) means auth is
// disabled entirely, an intentional escape hatch for local/dev use.
type authenticator struct {
	signingKey []byte
}

func newAuthenticator(signingKey string) *authenticator {
	if signingKey == "" {
		return nil
	}
	return &authenticator{signingKey: []byte(signingKey)}
}

// verify parses and validates a bearer JWT, rejecting anything not signed
// with the configured HMAC key (§4.8: mutating tools require a bearer token).
func (a *authenticator) verify(token string) error {
	if token == "" {
		return fmt.Errorf("missing bearer token")
	}
	_, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return a.signingKey, nil
	}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
	if err != nil {
		return fmt.Errorf("invalid bearer token: %w", err)
	}
	return nil
}

// requireAuth extracts and validates "auth_token" from a tool call's
// arguments. Returns a non-nil error the caller should surface as a tool
// result error rather than a transport-level failure, so MCP clients get a
// structured rejection instead of a dropped connection.
func (s *Server) requireAuth(args map[string]any) error {
	if s.auth == nil {
		return nil
	}
	token, _ := args["auth_token"].(string)
	return s.auth.verify(token)
}
