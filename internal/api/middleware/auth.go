package middleware

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	apierrors "github.com/peridotvault/peridot-core/internal/api/shared/errors"
	"github.com/peridotvault/peridot-core/internal/logger"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	AUTH_TYPE_KEY    contextKey = "auth_type"
	AUTH_SUBJECT_KEY contextKey = "auth_subject"
	JWT_CLAIMS_KEY   contextKey = "jwt_claims"
	CALLER_KEY       contextKey = "caller"
)

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTPublicKey string // RSA public key in PEM format
	JWTSecret    string // HMAC secret
	APIKeys      []string
	// Now overrides the clock used for expiry checks
	Now func() time.Time
}

// AuthResult holds the result of authentication
type AuthResult struct {
	Success     bool
	AuthType    string // "jwt" or "apikey"
	Claims      *jwt.RegisteredClaims
	AuthSubject string
	Error       error
}

// Authenticate validates the Authorization header and returns the authentication result
func Authenticate(authHeader string, cfg AuthConfig) AuthResult {
	result := AuthResult{
		Success: false,
	}

	if authHeader == "" {
		result.Error = errors.New("missing Authorization header")
		return result
	}

	// Parse the authorization header
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		result.Error = errors.New("invalid Authorization header format")
		return result
	}

	authType := strings.ToLower(parts[0])
	credentials := parts[1]

	switch authType {
	case "bearer":
		claims, err := validateJWT(credentials, cfg)
		if err != nil {
			result.Error = err
			return result
		}
		result.Success = true
		result.AuthType = "jwt"
		result.Claims = claims
		result.AuthSubject = claims.Subject

	case "apikey":
		if err := validateAPIKey(credentials, cfg.APIKeys); err != nil {
			result.Error = err
			return result
		}
		result.Success = true
		result.AuthType = "apikey"

	default:
		result.Error = fmt.Errorf("unsupported authorization type: %s", authType)
		return result
	}

	return result
}

// Auth returns a gin middleware that requires a JWT whose subject is the
// caller's account address. The address becomes the sender of every
// transaction the request submits.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := Authenticate(c.GetHeader("Authorization"), cfg)
		if result.Success && result.AuthType != "jwt" {
			result.Success = false
			result.Error = errors.New("a bearer token is required")
		}
		if result.Success && !common.IsHexAddress(result.AuthSubject) {
			result.Success = false
			result.Error = errors.New("token subject is not an account address")
		}

		if !result.Success {
			abortUnauthorized(c, result.Error)
			return
		}

		caller := common.HexToAddress(result.AuthSubject)
		c.Set(string(AUTH_TYPE_KEY), result.AuthType)
		c.Set(string(JWT_CLAIMS_KEY), result.Claims)
		c.Set(string(AUTH_SUBJECT_KEY), result.AuthSubject)
		c.Set(string(CALLER_KEY), caller)

		logger.DebugCtx(c.Request.Context(), "JWT authentication successful",
			zap.String("path", c.Request.URL.Path),
			zap.String("client_ip", c.ClientIP()),
			zap.String("caller", caller.Hex()),
		)

		c.Next()
	}
}

// APIKeyAuth returns a gin middleware that accepts API key authentication only
func APIKeyAuth(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := Authenticate(c.GetHeader("Authorization"), cfg)
		if result.Success && result.AuthType != "apikey" {
			result.Success = false
			result.Error = errors.New("an API key is required")
		}

		if !result.Success {
			abortUnauthorized(c, result.Error)
			return
		}

		c.Set(string(AUTH_TYPE_KEY), result.AuthType)
		c.Next()
	}
}

// Caller returns the authenticated account address set by Auth
func Caller(c *gin.Context) (common.Address, bool) {
	v, ok := c.Get(string(CALLER_KEY))
	if !ok {
		return common.Address{}, false
	}
	caller, ok := v.(common.Address)
	return caller, ok
}

func abortUnauthorized(c *gin.Context, err error) {
	logger.WarnCtx(c.Request.Context(), "Authentication failed",
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("client_ip", c.ClientIP()),
	)
	apiErr := apierrors.NewUnauthorizedError("Authentication failed", err.Error())
	c.AbortWithStatusJSON(http.StatusUnauthorized, apiErr)
}

// validateJWT validates a JWT signed with either the RSA key or the HMAC secret and returns its claims
func validateJWT(tokenString string, cfg AuthConfig) (*jwt.RegisteredClaims, error) {
	if cfg.JWTPublicKey == "" && cfg.JWTSecret == "" {
		return nil, errors.New("JWT verification key not configured")
	}

	var publicKey *rsa.PublicKey
	if cfg.JWTPublicKey != "" {
		var err error
		publicKey, err = parseRSAPublicKey(cfg.JWTPublicKey)
		if err != nil {
			return nil, fmt.Errorf("failed to parse RSA public key: %w", err)
		}
	}

	now := time.Now
	if cfg.Now != nil {
		now = cfg.Now
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		switch token.Method.(type) {
		case *jwt.SigningMethodRSA:
			if publicKey == nil {
				return nil, errors.New("RSA signed tokens are not accepted")
			}
			return publicKey, nil
		case *jwt.SigningMethodHMAC:
			if cfg.JWTSecret == "" {
				return nil, errors.New("HMAC signed tokens are not accepted")
			}
			return []byte(cfg.JWTSecret), nil
		default:
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
	}, jwt.WithTimeFunc(now))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// parseRSAPublicKey parses an RSA public key from PEM format
func parseRSAPublicKey(publicKeyPEM string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(publicKeyPEM))
	if block == nil {
		return nil, errors.New("failed to parse PEM block containing public key")
	}

	// Try parsing as PKIX (most common format)
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		// Try parsing as PKCS1 format
		return x509.ParsePKCS1PublicKey(block.Bytes)
	}

	rsaKey, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("public key is not an RSA key")
	}

	return rsaKey, nil
}

// validateAPIKey validates an API key
func validateAPIKey(apiKey string, validKeys []string) error {
	configured := false
	for _, key := range validKeys {
		if key == "" {
			continue
		}
		configured = true
		if key == apiKey {
			return nil
		}
	}

	if !configured {
		return errors.New("no API keys configured")
	}
	return errors.New("invalid API key")
}
