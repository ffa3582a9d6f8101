package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/wolfeidau/notable/internal/models"
)

// Verification failure modes. Callers at the request boundary must treat all
// of them uniformly as unauthenticated; the distinction exists for logging.
var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed")
	ErrBadSignature   = errors.New("token signature invalid")
)

// DefaultTokenTTL is the default lifetime of an issued token.
const DefaultTokenTTL = 7 * 24 * time.Hour

const tokenIssuer = "notable"

// MinSecretLength is the minimum signing secret size for HMAC-SHA256.
const MinSecretLength = 32

// Claims is the payload carried by an issued token.
type Claims struct {
	UserID   string `json:"userId"`
	TenantID string `json:"tenantId"`
	Role     string `json:"role"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies signed identity tokens using an HMAC-SHA256
// secret. The secret is process-wide, fixed at startup, and never rotated
// within a running process.
type Tokens struct {
	secret []byte
}

// NewTokens creates a token service with the given signing secret.
func NewTokens(secret []byte) (*Tokens, error) {
	if len(secret) < MinSecretLength {
		return nil, errors.New("token signing secret must be at least 32 bytes")
	}
	return &Tokens{secret: secret}, nil
}

// Issue encodes the principal's identity into a signed token valid for ttl.
func (t *Tokens) Issue(principal *models.Principal, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   principal.UserID.String(),
		TenantID: principal.TenantID.String(),
		Role:     string(principal.Role),
		Email:    principal.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify checks the token's signature and expiry before trusting any claim,
// and returns the principal it carries.
func (t *Tokens) Verify(tokenStr string) (*models.Principal, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrBadSignature
		default:
			return nil, fmt.Errorf("%w: %w", ErrTokenMalformed, err)
		}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenMalformed
	}

	return principalFromClaims(claims)
}

// principalFromClaims builds a principal from verified claims, rejecting
// values that don't fit the closed role and UUID domains.
func principalFromClaims(claims *Claims) (*models.Principal, error) {
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid userId claim", ErrTokenMalformed)
	}

	tenantID, err := uuid.Parse(claims.TenantID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid tenantId claim", ErrTokenMalformed)
	}

	role, err := models.ParseRole(claims.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid role claim", ErrTokenMalformed)
	}

	return &models.Principal{
		UserID:   userID,
		TenantID: tenantID,
		Role:     role,
		Email:    claims.Email,
	}, nil
}
