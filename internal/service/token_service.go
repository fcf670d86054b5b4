package service

import (
	"fmt"
	"slices"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"figcheck/internal/config"
	"figcheck/internal/domain"
)

// accessAudience is the audience platform-issued access tokens carry.
const accessAudience = "access"

// Claims represents the JWT claims with tenant context.
type Claims struct {
	jwt.RegisteredClaims
	TenantID uuid.UUID `json:"tenant_id"`
	UserID   uuid.UUID `json:"user_id"`
}

// TokenService validates access tokens minted by the surrounding platform.
type TokenService interface {
	ValidateToken(tokenString string) (*Claims, error)
}

type tokenService struct {
	cfg config.JWTConfig
}

// NewTokenService creates a TokenService that accepts HS256 tokens signed with cfg.Secret.
func NewTokenService(cfg config.JWTConfig) TokenService {
	return &tokenService{cfg: cfg}
}

func (s *tokenService) ValidateToken(tokenString string) (*Claims, error) {
	var opts []jwt.ParserOption
	if s.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.cfg.Issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}
	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	aud, _ := claims.GetAudience()
	if !slices.Contains(aud, accessAudience) {
		return nil, domain.ErrUnauthorized
	}
	if claims.TenantID == uuid.Nil || claims.UserID == uuid.Nil {
		return nil, domain.ErrUnauthorized
	}

	return claims, nil
}
