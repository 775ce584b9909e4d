package api

import (
	"fmt"
	"macrobacktest/internal/logger"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

// ApiClaims are the claims we accept on mutating endpoints. tokens are
// minted by whoever operates the deployment with the shared secret
type ApiClaims struct {
	jwt.StandardClaims
	Scope string `json:"scope,omitempty"`
}

const ingestScope = "ingest"

func parseApiJWT(jwtStr string, secret string) (*ApiClaims, error) {
	claims := &ApiClaims{}
	token, err := jwt.ParseWithClaims(jwtStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is invalid")
	}
	// StandardClaims.Valid skips the check when exp is unset
	if claims.ExpiresAt == 0 {
		return nil, fmt.Errorf("token has no expiry")
	}
	if claims.Scope != "" && claims.Scope != ingestScope {
		return nil, fmt.Errorf("token scope %q cannot ingest", claims.Scope)
	}

	return claims, nil
}

// NewApiJWT signs a token for the mutating endpoints
func NewApiJWT(secret, subject string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, ApiClaims{
		StandardClaims: jwt.StandardClaims{
			Subject:   subject,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
		Scope: ingestScope,
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (m ApiHandler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.JwtSecret == "" {
			// config validation refuses this outside of dev
			logger.FromContext(c).Warn("no jwt secret configured, skipping auth")
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenStr == "" {
			returnErrorJsonCode(fmt.Errorf("missing bearer token"), c, http.StatusUnauthorized)
			return
		}

		claims, err := parseApiJWT(tokenStr, m.JwtSecret)
		if err != nil {
			returnErrorJsonCode(err, c, http.StatusUnauthorized)
			return
		}

		c.Set("subject", claims.Subject)
		c.Next()
	}
}
