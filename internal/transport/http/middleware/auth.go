package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"warbler/internal/httputil"
	"warbler/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

// UserIDKey is the context key for the authenticated user's ID
const UserIDKey contextKey = "user_id"

// AuthMiddleware validates the bearer token and rejects requests without a
// valid identity.
func AuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok, errCode := userIDFromRequest(r, jwtSecret)
			if !ok {
				switch errCode {
				case model.CodeTokenExpired:
					httputil.WriteUnauthorizedWithCode(w, model.CodeTokenExpired, "Access token has expired")
				case model.CodeTokenInvalid:
					httputil.WriteUnauthorizedWithCode(w, model.CodeTokenInvalid, "Invalid authentication token")
				default:
					httputil.WriteUnauthorized(w, "Missing authentication token")
				}
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthMiddleware resolves an identity when a valid token is present
// but lets anonymous requests through. Handlers see the difference via
// GetUserIDFromContext.
func OptionalAuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, ok, _ := userIDFromRequest(r, jwtSecret); ok {
				r = r.WithContext(context.WithValue(r.Context(), UserIDKey, userID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// userIDFromRequest extracts and validates the token, returning the user ID,
// whether one was resolved, and an error code for the failure mode.
func userIDFromRequest(r *http.Request, jwtSecret string) (int64, bool, string) {
	var tokenString string

	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			tokenString = parts[1]
		}
	}

	// Fall back to cookie for browser clients.
	if tokenString == "" {
		if cookie, err := r.Cookie("access_token"); err == nil && cookie.Value != "" {
			tokenString = cookie.Value
		}
	}

	if tokenString == "" {
		return 0, false, ""
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		if strings.Contains(err.Error(), "expired") {
			return 0, false, model.CodeTokenExpired
		}
		return 0, false, model.CodeTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, false, model.CodeTokenInvalid
	}

	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return 0, false, model.CodeTokenInvalid
	}

	return int64(userIDFloat), true, ""
}

// GetUserIDFromContext extracts the authenticated user ID from the request
// context. Returns 0, false for anonymous requests.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}
