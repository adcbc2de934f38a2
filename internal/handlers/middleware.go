package handlers

import (
	"context"
	"net/http"
	"strings"

	"chatspace/internal/auth"
	"chatspace/internal/models"
)

type contextKey string

const userContextKey contextKey = "currentUser"

// Protect resolves the caller's identity from the jwt cookie or a bearer
// header and stores the user on the request context.
func Protect(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				writeMessage(w, http.StatusUnauthorized, "Unauthorized - no token provided")
				return
			}

			user, err := authService.GetUserFromToken(r.Context(), token)
			if err != nil {
				writeMessage(w, http.StatusUnauthorized, "Unauthorized - invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func currentUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(userContextKey).(*models.User)
	return user
}

func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie("jwt"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
