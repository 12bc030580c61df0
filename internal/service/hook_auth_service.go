package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"wps3sync/internal/config"
	"wps3sync/internal/domain"
)

const hookAudience = "hooks"

// HookClaims are the claims carried by tokens the host presents on hook calls.
type HookClaims struct {
	jwt.RegisteredClaims
	Site string `json:"site,omitempty"`
}

// HookAuthService issues and validates hook tokens.
type HookAuthService interface {
	IssueToken(site string, ttl time.Duration) (string, time.Time, error)
	ValidateToken(tokenString string) (*HookClaims, error)
}

type hookAuthService struct {
	cfg config.HooksConfig
}

// NewHookAuthService creates a new HookAuthService implementation.
func NewHookAuthService(cfg config.HooksConfig) HookAuthService {
	return &hookAuthService{cfg: cfg}
}

func (s *hookAuthService) IssueToken(site string, ttl time.Duration) (string, time.Time, error) {
	if s.cfg.Secret == "" {
		return "", time.Time{}, fmt.Errorf("%w: hooks.secret is empty", domain.ErrInvalidConfig)
	}
	if ttl <= 0 {
		ttl = s.cfg.TokenTTL
	}

	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := &HookClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   site,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.New().String(),
			Audience:  jwt.ClaimStrings{hookAudience},
		},
		Site: site,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing hook token: %w", err)
	}
	return signed, expiresAt, nil
}

func (s *hookAuthService) ValidateToken(tokenString string) (*HookClaims, error) {
	claims := &HookClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: parsing token: %w", domain.ErrUnauthorized, err)
	}
	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	if s.cfg.Issuer != "" && claims.Issuer != s.cfg.Issuer {
		return nil, domain.ErrUnauthorized
	}

	aud, _ := claims.GetAudience()
	found := false
	for _, a := range aud {
		if a == hookAudience {
			found = true
			break
		}
	}
	if !found {
		return nil, domain.ErrUnauthorized
	}

	return claims, nil
}
