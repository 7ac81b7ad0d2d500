package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/itchan-dev/authcore/shared/domain"
	internal_errors "github.com/itchan-dev/authcore/shared/errors"
)

// --- Mocks ---

type MockUserStorage struct {
	UserByEmailFunc func(ctx context.Context, email domain.Email) (domain.User, error)
	SaveUserFunc    func(ctx context.Context, user domain.User) (domain.User, error)
}

func (m *MockUserStorage) UserByEmail(ctx context.Context, email domain.Email) (domain.User, error) {
	if m.UserByEmailFunc != nil {
		return m.UserByEmailFunc(ctx, email)
	}
	return domain.User{}, fmt.Errorf("user: %w", internal_errors.ErrNotFound)
}

func (m *MockUserStorage) SaveUser(ctx context.Context, user domain.User) (domain.User, error) {
	if m.SaveUserFunc != nil {
		return m.SaveUserFunc(ctx, user)
	}
	user.Id = 1
	return user, nil
}

type MockHasher struct {
	HashFunc   func(plain string) (string, error)
	VerifyFunc func(plain, hash string) bool
	verified   []string
}

func (m *MockHasher) Hash(plain string) (string, error) {
	if m.HashFunc != nil {
		return m.HashFunc(plain)
	}
	return "hashed:" + plain, nil
}

func (m *MockHasher) Verify(plain, hash string) bool {
	m.verified = append(m.verified, hash)
	if m.VerifyFunc != nil {
		return m.VerifyFunc(plain, hash)
	}
	return hash == "hashed:"+plain
}

type MockTokenIssuer struct {
	IssueFunc     func(ctx context.Context, user domain.User) (domain.Token, error)
	RevokeAllFunc func(ctx context.Context, userId domain.UserId) (int64, error)
}

func (m *MockTokenIssuer) Issue(ctx context.Context, user domain.User) (domain.Token, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(ctx, user)
	}
	return "token", nil
}

func (m *MockTokenIssuer) RevokeAll(ctx context.Context, userId domain.UserId) (int64, error) {
	if m.RevokeAllFunc != nil {
		return m.RevokeAllFunc(ctx, userId)
	}
	return 0, nil
}

// memStorage is an in-memory User Store and Token Store.
type memStorage struct {
	mu     sync.Mutex
	nextId domain.UserId
	users  map[domain.Email]domain.User
	tokens map[domain.TokenId]domain.AccessToken
}

func newMemStorage() *memStorage {
	return &memStorage{
		users:  make(map[domain.Email]domain.User),
		tokens: make(map[domain.TokenId]domain.AccessToken),
	}
}

func (s *memStorage) UserByEmail(ctx context.Context, email domain.Email) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[strings.ToLower(email)]
	if !ok {
		return domain.User{}, fmt.Errorf("user %q: %w", email, internal_errors.ErrNotFound)
	}
	return user, nil
}

func (s *memStorage) SaveUser(ctx context.Context, user domain.User) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(user.Email)
	if _, ok := s.users[key]; ok {
		return domain.User{}, fmt.Errorf("failed to insert user: %w", internal_errors.ErrDuplicateEmail)
	}
	s.nextId++
	user.Id = s.nextId
	user.CreatedAt = time.Now()
	s.users[key] = user
	return user, nil
}

func (s *memStorage) SaveToken(ctx context.Context, token domain.AccessToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token.Id] = token
	return nil
}

func (s *memStorage) TokenUser(ctx context.Context, tokenId domain.TokenId) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.tokens[tokenId]
	if !ok {
		return domain.User{}, fmt.Errorf("access token: %w", internal_errors.ErrNotFound)
	}
	for _, user := range s.users {
		if user.Id == token.UserId {
			return user, nil
		}
	}
	return domain.User{}, fmt.Errorf("access token: %w", internal_errors.ErrNotFound)
}

func (s *memStorage) DeleteUserTokens(ctx context.Context, userId domain.UserId) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, token := range s.tokens {
		if token.UserId == userId {
			delete(s.tokens, id)
			n++
		}
	}
	return n, nil
}

func (s *memStorage) countUsers(email domain.Email) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for key := range s.users {
		if key == strings.ToLower(email) {
			n++
		}
	}
	return n
}
