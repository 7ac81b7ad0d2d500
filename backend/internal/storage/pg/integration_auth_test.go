package pg

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/itchan-dev/authcore/shared/domain"
	internal_errors "github.com/itchan-dev/authcore/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(email string) domain.User {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return domain.User{Name: "Test User", Email: email, PassHash: "hash", EmailVerifiedAt: &now}
}

func mustSaveUser(t *testing.T, email string) domain.User {
	t.Helper()
	user, err := storage.SaveUser(context.Background(), newUser(email))
	require.NoError(t, err, "SaveUser should not return an error")
	return user
}

func TestSaveUser(t *testing.T) {
	ctx := context.Background()

	user, err := storage.SaveUser(ctx, newUser("save@example.com"))
	require.NoError(t, err)
	assert.Greater(t, user.Id, int64(0), "Expected ID > 0")
	assert.False(t, user.CreatedAt.IsZero())

	_, err = storage.SaveUser(ctx, newUser("save@example.com"))
	assert.ErrorIs(t, err, internal_errors.ErrDuplicateEmail, "Saving user twice should fail as duplicate")

	_, err = storage.SaveUser(ctx, newUser("SAVE@example.com"))
	assert.ErrorIs(t, err, internal_errors.ErrDuplicateEmail, "Email uniqueness ignores letter case")
}

func TestSaveUser_ConcurrentSameEmail(t *testing.T) {
	const attempts = 8
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		successes  int
		duplicates int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := storage.SaveUser(context.Background(), newUser("race@example.com"))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else {
				assert.ErrorIs(t, err, internal_errors.ErrDuplicateEmail)
				duplicates++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, duplicates)
}

func TestUserByEmail(t *testing.T) {
	ctx := context.Background()
	saved := mustSaveUser(t, "lookup@example.com")

	user, err := storage.UserByEmail(ctx, "Lookup@Example.com")
	require.NoError(t, err)
	assert.Equal(t, saved.Id, user.Id)
	assert.Equal(t, "lookup@example.com", user.Email)
	assert.Equal(t, "Test User", user.Name)
	assert.Equal(t, "hash", user.PassHash)
	require.NotNil(t, user.EmailVerifiedAt)
	assert.WithinDuration(t, *saved.EmailVerifiedAt, *user.EmailVerifiedAt, time.Millisecond)

	_, err = storage.UserByEmail(ctx, "nonexistent@example.com")
	assert.True(t, internal_errors.IsNotFound(err), "Expected not found error, got %v", err)
}

func TestTokens(t *testing.T) {
	ctx := context.Background()
	owner := mustSaveUser(t, "tokens@example.com")
	other := mustSaveUser(t, "tokens-other@example.com")

	ownerTokens := make([]domain.TokenId, 3)
	for i := range ownerTokens {
		ownerTokens[i] = uuid.NewString()
		require.NoError(t, storage.SaveToken(ctx, domain.AccessToken{Id: ownerTokens[i], UserId: owner.Id, CreatedAt: time.Now()}))
	}
	otherToken := uuid.NewString()
	require.NoError(t, storage.SaveToken(ctx, domain.AccessToken{Id: otherToken, UserId: other.Id, CreatedAt: time.Now()}))

	for _, id := range ownerTokens {
		user, err := storage.TokenUser(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, owner.Id, user.Id)
	}

	deleted, err := storage.DeleteUserTokens(ctx, owner.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(len(ownerTokens)), deleted)

	for _, id := range ownerTokens {
		_, err := storage.TokenUser(ctx, id)
		assert.True(t, internal_errors.IsNotFound(err), fmt.Sprintf("token %s should be revoked", id))
	}

	user, err := storage.TokenUser(ctx, otherToken)
	require.NoError(t, err, "Revoking one user's tokens must not touch other users")
	assert.Equal(t, other.Id, user.Id)

	deleted, err = storage.DeleteUserTokens(ctx, owner.Id)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestTokenUser_ReadOnly(t *testing.T) {
	ctx := context.Background()
	user, err := storage.SaveUser(ctx, newUser("readonly@example.com"))
	require.NoError(t, err)
	id := uuid.NewString()
	require.NoError(t, storage.SaveToken(ctx, domain.AccessToken{Id: id, UserId: user.Id, CreatedAt: time.Now()}))

	rowVersion := func() string {
		var xmin string
		require.NoError(t, storage.db.QueryRowContext(ctx, "SELECT xmin::text FROM access_tokens WHERE id = $1", id).Scan(&xmin))
		return xmin
	}
	before := rowVersion()

	for i := 0; i < 3; i++ {
		_, err := storage.TokenUser(ctx, id)
		require.NoError(t, err)
	}

	assert.Equal(t, before, rowVersion(), "resolving a token must not rewrite its row")
}

func TestSaveToken_UnknownUser(t *testing.T) {
	err := storage.SaveToken(context.Background(), domain.AccessToken{Id: uuid.NewString(), UserId: 1 << 40, CreatedAt: time.Now()})
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	assert.NoError(t, storage.Ping(context.Background()))
}
