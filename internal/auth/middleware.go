package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

type contextKey struct{}

func WithUserId(ctx context.Context, userId string) context.Context {
	return context.WithValue(ctx, contextKey{}, userId)
}

func UserIdFromContext(ctx context.Context) (string, bool) {
	userId, ok := ctx.Value(contextKey{}).(string)
	return userId, ok && userId != ""
}

func BearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", fmt.Errorf("%w: missing authorization header", ErrUnauthorized)
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
		return "", fmt.Errorf("%w: malformed authorization header", ErrUnauthorized)
	}

	return strings.TrimSpace(token), nil
}

// RequireUser verifies the bearer token of every request and stores the
// user id in the request context. onError writes the rejection.
func RequireUser(tokens *TokenService, onError func(http.ResponseWriter, *http.Request, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := BearerToken(r)
			if err != nil {
				onError(w, r, err)
				return
			}

			userId, err := tokens.Verify(token)
			if err != nil {
				onError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserId(r.Context(), userId)))
		})
	}
}
