package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/frahmantamala/hr-payroll/internal"
)

// Claims is what the admin API reads from a bearer token.
type Claims struct {
	UserID      string   `json:"user_id"`
	Email       string   `json:"email"`
	Permissions []string `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

type TokenValidator interface {
	ValidateToken(tokenString string) (*Claims, error)
}

type JWTTokenGenerator struct {
	Secret   []byte
	TokenTTL time.Duration
	now      func() time.Time
}

var ErrTokenExpired = errors.New("token expired")

func NewJWTTokenGenerator(secret string, ttl time.Duration) *JWTTokenGenerator {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &JWTTokenGenerator{
		Secret:   []byte(secret),
		TokenTTL: ttl,
		now:      time.Now,
	}
}

// GenerateAccessToken signs an HS256 token. Payroll has no login flow; the
// CLI issues operator tokens with this.
func (j *JWTTokenGenerator) GenerateAccessToken(userID, email string, permissions []string) (string, error) {
	now := j.now()
	claims := &Claims{
		UserID:      userID,
		Email:       email,
		Permissions: permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	}, jwt.WithTimeFunc(j.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrInvalidToken.WithCause(ErrTokenExpired)
		}
		return nil, internal.ErrInvalidToken.WithCause(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, internal.ErrInvalidToken
	}
	return claims, nil
}

type claimsKey struct{}

func ContextWithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok && c != nil
}
