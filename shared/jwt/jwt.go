// Package jwt signs and decodes the bearer tokens handed to clients.
// A token only names its owner and the stored token row; whether it is still
// valid is decided by the token store.
package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/itchan-dev/authcore/shared/domain"
	"github.com/itchan-dev/authcore/shared/errors"
	"github.com/itchan-dev/authcore/shared/logger"
)

var ErrInvalidToken = &errors.AuthenticationError{Message: "Unauthenticated."}

type Claims struct {
	UserId domain.UserId `json:"uid"`
	jwt.RegisteredClaims
}

type JwtService interface {
	NewToken(userId domain.UserId, tokenId domain.TokenId) (string, error)
	DecodeToken(jwtStr string) (*Claims, error)
}

type Jwt struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

// New returns a HS256 token codec. A zero ttl issues tokens without expiry.
func New(secretKey string, ttl time.Duration) *Jwt {
	return &Jwt{secretKey: []byte(secretKey), ttl: ttl, now: time.Now}
}

func (j *Jwt) NewToken(userId domain.UserId, tokenId domain.TokenId) (string, error) {
	now := j.now()
	claims := Claims{
		UserId: userId,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       tokenId,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if j.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(j.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", fmt.Errorf("can't sign token: %w", err)
	}
	return tokenString, nil
}

func (j *Jwt) DecodeToken(jwtStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(jwtStr, claims,
		func(token *jwt.Token) (interface{}, error) {
			return j.secretKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		logger.Log.Debug("token rejected", "error", err)
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.ID == "" || claims.UserId <= 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
