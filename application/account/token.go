package account

import (
	"errors"
	"fmt"
	"time"

	"storefront/domain/identity"
	"storefront/domain/shared"

	"github.com/golang-jwt/jwt/v5"
)

// Claims 令牌声明：邮箱、显示名与角色列表
type Claims struct {
	Email     string   `json:"email"`
	GivenName string   `json:"given_name"`
	Roles     []string `json:"role"`
	jwt.RegisteredClaims
}

// HasRole reports whether the token carries role.
func (c *Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// TokenService issues and parses HS512 signed tokens.
type TokenService struct {
	key    []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(key, issuer string, ttl time.Duration) *TokenService {
	return &TokenService{key: []byte(key), issuer: issuer, ttl: ttl, now: time.Now}
}

// CreateToken signs a token for user carrying the given role names.
func (s *TokenService) CreateToken(user identity.AppUser, roles []string) (string, error) {
	now := s.now()
	claims := Claims{
		Email:     user.Email,
		GivenName: user.DisplayName,
		Roles:     roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse validates signature, issuer and expiry. Any failure is an unauthorized error.
func (s *TokenService) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		reason := "invalid token"
		if errors.Is(err, jwt.ErrTokenExpired) {
			reason = "token expired"
		}
		return nil, shared.NewUnauthorizedError("token", reason)
	}
	if claims.Email == "" {
		return nil, shared.NewUnauthorizedError("token", "token has no email")
	}
	return claims, nil
}
