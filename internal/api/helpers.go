package api

import (
	"context"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// authenticateRequest validates the Authorization header and returns the user ID.
func (s *Server) authenticateRequest(ctx context.Context, authHeader string) (string, error) {
	if authHeader == "" {
		return "", huma.Error401Unauthorized("Missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", huma.Error401Unauthorized("Invalid authorization header format")
	}

	user, _, err := s.services.Auth.VerifyAccessToken(ctx, parts[1])
	if err != nil {
		return "", huma.Error401Unauthorized("Invalid or expired token")
	}

	return user.ID, nil
}

// extractIP picks the client IP from forwarding headers. Returns empty when
// neither header is present; session records just omit the address then.
func extractIP(xForwardedFor, xRealIP string) string {
	if xForwardedFor != "" {
		// First IP in the chain is the original client
		if idx := strings.IndexByte(xForwardedFor, ','); idx >= 0 {
			return strings.TrimSpace(xForwardedFor[:idx])
		}
		return strings.TrimSpace(xForwardedFor)
	}
	return xRealIP
}
