package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/itchan-dev/authcore/shared/domain"
	internal_errors "github.com/itchan-dev/authcore/shared/errors"
	sharedpg "github.com/itchan-dev/authcore/shared/storage/pg"
)

// =========================================================================
// Public Methods (satisfy the service.UserStorage and service.TokenStorage interfaces)
// =========================================================================

// SaveUser inserts a new user and returns it with the store-assigned fields.
// A concurrent or repeated insert of the same email (any letter case) fails
// with ErrDuplicateEmail.
func (s *Storage) SaveUser(ctx context.Context, user domain.User) (domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var saved domain.User
	err := sharedpg.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		saved, err = s.saveUser(ctx, tx, user)
		return err
	})
	return saved, err
}

// UserByEmail fetches a user by email, ignoring letter case.
func (s *Storage) UserByEmail(ctx context.Context, email domain.Email) (domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return s.userByEmail(ctx, s.db, email)
}

// SaveToken persists a freshly issued access token.
func (s *Storage) SaveToken(ctx context.Context, token domain.AccessToken) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return s.saveToken(ctx, s.db, token)
}

// TokenUser returns the owner of a live token.
func (s *Storage) TokenUser(ctx context.Context, tokenId domain.TokenId) (domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return s.tokenUser(ctx, s.db, tokenId)
}

// DeleteUserTokens revokes every token of the user in one statement and
// reports how many were removed.
func (s *Storage) DeleteUserTokens(ctx context.Context, userId domain.UserId) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return s.deleteUserTokens(ctx, s.db, userId)
}

// =========================================================================
// Internal Methods (Core Database Logic)
// These methods accept a Querier and are transaction-agnostic.
// =========================================================================

func (s *Storage) saveUser(ctx context.Context, q sharedpg.Querier, user domain.User) (domain.User, error) {
	err := q.QueryRowContext(ctx, `
        INSERT INTO users(name, email, password_hash, email_verified_at)
        VALUES($1, $2, $3, $4)
        RETURNING id, created_at`,
		user.Name, user.Email, user.PassHash, user.EmailVerifiedAt,
	).Scan(&user.Id, &user.CreatedAt)
	if err != nil {
		if sharedpg.IsUniqueViolation(err, emailConstraint) {
			return domain.User{}, fmt.Errorf("failed to insert user: %w", internal_errors.ErrDuplicateEmail)
		}
		return domain.User{}, fmt.Errorf("failed to insert user: %w", err)
	}
	return user, nil
}

func (s *Storage) userByEmail(ctx context.Context, q sharedpg.Querier, email domain.Email) (domain.User, error) {
	var user domain.User
	err := q.QueryRowContext(ctx, `
        SELECT id, name, email, password_hash, email_verified_at, created_at
        FROM users WHERE lower(email) = lower($1)`,
		email,
	).Scan(&user.Id, &user.Name, &user.Email, &user.PassHash, &user.EmailVerifiedAt, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, fmt.Errorf("user %q: %w", email, internal_errors.ErrNotFound)
		}
		return domain.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

func (s *Storage) saveToken(ctx context.Context, q sharedpg.Querier, token domain.AccessToken) error {
	_, err := q.ExecContext(ctx,
		"INSERT INTO access_tokens(id, user_id, created_at) VALUES($1, $2, $3)",
		token.Id, token.UserId, token.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert access token: %w", err)
	}
	return nil
}

func (s *Storage) tokenUser(ctx context.Context, q sharedpg.Querier, tokenId domain.TokenId) (domain.User, error) {
	var user domain.User
	err := q.QueryRowContext(ctx, `
        SELECT u.id, u.name, u.email, u.password_hash, u.email_verified_at, u.created_at
        FROM access_tokens t
        JOIN users u ON u.id = t.user_id
        WHERE t.id = $1`,
		tokenId,
	).Scan(&user.Id, &user.Name, &user.Email, &user.PassHash, &user.EmailVerifiedAt, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, fmt.Errorf("access token: %w", internal_errors.ErrNotFound)
		}
		return domain.User{}, fmt.Errorf("failed to query access token: %w", err)
	}
	return user, nil
}

func (s *Storage) deleteUserTokens(ctx context.Context, q sharedpg.Querier, userId domain.UserId) (int64, error) {
	result, err := q.ExecContext(ctx, "DELETE FROM access_tokens WHERE user_id = $1", userId)
	if err != nil {
		return 0, fmt.Errorf("failed to delete access tokens: %w", err)
	}
	rowsDeleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check affected rows for token deletion: %w", err)
	}
	return rowsDeleted, nil
}
