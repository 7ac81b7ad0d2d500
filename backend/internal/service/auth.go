package service

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"time"

	"github.com/itchan-dev/authcore/shared/domain"
	"github.com/itchan-dev/authcore/shared/errors"
	"github.com/itchan-dev/authcore/shared/logger"
	"github.com/itchan-dev/authcore/shared/password"
	"github.com/itchan-dev/authcore/shared/utils"
	"github.com/itchan-dev/authcore/shared/validation"
)

const (
	msgEmailTaken           = "The email has already been taken."
	msgAccountNotRegistered = "Account not registered"
	msgRegisterFailed       = "Registration failed. Please try again."
	msgLoginFailed          = "Login failed. Please try again."
	msgLogoutFailed         = "Logout failed. Please try again."
)

type AuthService interface {
	Register(ctx context.Context, reg domain.Registration) (domain.User, error)
	Login(ctx context.Context, creds domain.Credentials) (domain.Token, error)
	Logout(ctx context.Context, user domain.User) error
}

type UserStorage interface {
	UserByEmail(ctx context.Context, email domain.Email) (domain.User, error)
	SaveUser(ctx context.Context, user domain.User) (domain.User, error)
}

type TokenIssuer interface {
	Issue(ctx context.Context, user domain.User) (domain.Token, error)
	RevokeAll(ctx context.Context, userId domain.UserId) (int64, error)
}

type Auth struct {
	storage UserStorage
	hasher  password.Hasher
	tokens  TokenIssuer
	now     func() time.Time

	dummyOnce sync.Once
	dummy     string
}

func NewAuth(storage UserStorage, hasher password.Hasher, tokens TokenIssuer) *Auth {
	return &Auth{
		storage: storage,
		hasher:  hasher,
		tokens:  tokens,
		now:     time.Now,
	}
}

func errEmailTaken() *errors.ValidationError {
	err := errors.NewValidationError("email", msgEmailTaken)
	err.Cause = errors.ErrDuplicateEmail
	return err
}

func normalizeEmail(email domain.Email) domain.Email {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a pre-verified account. It does not log the user in.
// Duplicate emails, including a concurrent insert losing the race in the
// store, are reported as a ValidationError on the email field.
func (a *Auth) Register(ctx context.Context, reg domain.Registration) (domain.User, error) {
	reg.Name = utils.SanitizeText(reg.Name)
	reg.Email = normalizeEmail(reg.Email)
	if err := validation.Struct(reg); err != nil {
		return domain.User{}, err
	}

	_, err := a.storage.UserByEmail(ctx, reg.Email)
	if err == nil {
		return domain.User{}, errEmailTaken()
	}
	if !errors.IsNotFound(err) {
		return domain.User{}, &errors.OperationError{Message: msgRegisterFailed, Err: err}
	}

	passHash, err := a.hasher.Hash(reg.Password)
	if err != nil {
		return domain.User{}, &errors.OperationError{Message: msgRegisterFailed, Err: err}
	}

	verifiedAt := a.now().UTC()
	user, err := a.storage.SaveUser(ctx, domain.User{
		Name:            reg.Name,
		Email:           reg.Email,
		PassHash:        passHash,
		EmailVerifiedAt: &verifiedAt,
	})
	if err != nil {
		if stderrors.Is(err, errors.ErrDuplicateEmail) {
			return domain.User{}, errEmailTaken()
		}
		return domain.User{}, &errors.OperationError{Message: msgRegisterFailed, Err: err}
	}

	logger.Log.Info("user registered", "user_id", user.Id)
	user.PassHash = ""
	return user, nil
}

// Login checks credentials and issues a new bearer token.
// Unknown email and wrong password fail identically.
func (a *Auth) Login(ctx context.Context, creds domain.Credentials) (domain.Token, error) {
	creds.Email = normalizeEmail(creds.Email)
	if err := validation.Struct(creds); err != nil {
		return "", err
	}

	user, err := a.storage.UserByEmail(ctx, creds.Email)
	if err != nil {
		if errors.IsNotFound(err) {
			// keep the unknown-email path as slow as a wrong password
			a.hasher.Verify(creds.Password, a.dummyHash())
			return "", &errors.AuthenticationError{Message: msgAccountNotRegistered}
		}
		return "", &errors.OperationError{Message: msgLoginFailed, Err: err}
	}

	if !a.hasher.Verify(creds.Password, user.PassHash) {
		logger.Log.Debug("password verification failed", "user_id", user.Id)
		return "", &errors.AuthenticationError{Message: msgAccountNotRegistered}
	}

	token, err := a.tokens.Issue(ctx, user)
	if err != nil {
		return "", &errors.OperationError{Message: msgLoginFailed, Err: err}
	}
	return token, nil
}

// Logout revokes every token of user, not only the one used for the request.
func (a *Auth) Logout(ctx context.Context, user domain.User) error {
	revoked, err := a.tokens.RevokeAll(ctx, user.Id)
	if err != nil {
		return &errors.OperationError{Message: msgLogoutFailed, Err: err}
	}
	logger.Log.Info("user logged out", "user_id", user.Id, "revoked_tokens", revoked)
	return nil
}

func (a *Auth) dummyHash() string {
	a.dummyOnce.Do(func() {
		hash, err := a.hasher.Hash("authcore-dummy-password")
		if err != nil {
			logger.Log.Warn("failed to prepare dummy password hash", "error", err)
			return
		}
		a.dummy = hash
	})
	return a.dummy
}
