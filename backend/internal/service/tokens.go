package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/itchan-dev/authcore/shared/domain"
	"github.com/itchan-dev/authcore/shared/errors"
	"github.com/itchan-dev/authcore/shared/jwt"
)

type TokenStorage interface {
	SaveToken(ctx context.Context, token domain.AccessToken) error
	TokenUser(ctx context.Context, tokenId domain.TokenId) (domain.User, error)
	DeleteUserTokens(ctx context.Context, userId domain.UserId) (int64, error)
}

// Tokens issues, resolves and revokes bearer tokens. A token stays valid
// until its row is deleted (or its optional expiry passes).
type Tokens struct {
	storage TokenStorage
	jwt     jwt.JwtService
	now     func() time.Time
}

func NewTokens(storage TokenStorage, jwt jwt.JwtService) *Tokens {
	return &Tokens{storage: storage, jwt: jwt, now: time.Now}
}

func (t *Tokens) Issue(ctx context.Context, user domain.User) (domain.Token, error) {
	id := uuid.NewString()
	token, err := t.jwt.NewToken(user.Id, id)
	if err != nil {
		return "", err
	}
	if err := t.storage.SaveToken(ctx, domain.AccessToken{Id: id, UserId: user.Id, CreatedAt: t.now().UTC()}); err != nil {
		return "", fmt.Errorf("failed to save token for user %d: %w", user.Id, err)
	}
	return token, nil
}

// Resolve returns the owner of a live token. Forged, expired and revoked
// tokens yield an AuthenticationError.
func (t *Tokens) Resolve(ctx context.Context, token domain.Token) (domain.User, error) {
	claims, err := t.jwt.DecodeToken(token)
	if err != nil {
		return domain.User{}, err
	}
	if _, err := uuid.Parse(claims.ID); err != nil {
		return domain.User{}, jwt.ErrInvalidToken
	}

	user, err := t.storage.TokenUser(ctx, claims.ID)
	if err != nil {
		if errors.IsNotFound(err) {
			return domain.User{}, jwt.ErrInvalidToken
		}
		return domain.User{}, &errors.OperationError{Message: "Service unavailable. Please try again.", Err: err}
	}
	if user.Id != claims.UserId {
		return domain.User{}, jwt.ErrInvalidToken
	}

	user.PassHash = ""
	return user, nil
}

func (t *Tokens) RevokeAll(ctx context.Context, userId domain.UserId) (int64, error) {
	return t.storage.DeleteUserTokens(ctx, userId)
}
