package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/itchan-dev/authcore/shared/api"
	"github.com/itchan-dev/authcore/shared/domain"
	"github.com/itchan-dev/authcore/shared/errors"
	"github.com/itchan-dev/authcore/shared/utils"
)

// TokenResolver maps a presented bearer token to its owner.
type TokenResolver interface {
	Resolve(ctx context.Context, token domain.Token) (domain.User, error)
}

// Key to store the resolved user in the request context
type key int

const UserKey key = 0

// Auth is the gate in front of routes that need a logged-in user.
type Auth struct {
	resolver TokenResolver
}

func NewAuth(resolver TokenResolver) *Auth {
	return &Auth{resolver: resolver}
}

// NeedAuth returns middleware that requires a valid bearer token.
func (a *Auth) NeedAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeUnauthenticated(w)
				return
			}

			user, err := a.resolver.Resolve(r.Context(), token)
			if err != nil {
				if errors.Is[*errors.AuthenticationError](err) {
					writeUnauthenticated(w)
					return
				}
				utils.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, &user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func writeUnauthenticated(w http.ResponseWriter) {
	utils.WriteJSON(w, http.StatusUnauthorized, api.Failure("Unauthenticated."))
}

// GetUserFromContext retrieves the user resolved by NeedAuth, nil if absent.
func GetUserFromContext(r *http.Request) *domain.User {
	user, ok := r.Context().Value(UserKey).(*domain.User)
	if !ok {
		return nil
	}
	return user
}
