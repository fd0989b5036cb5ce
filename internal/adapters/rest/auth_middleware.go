package rest

import (
	"context"
	"net/http"
	"strconv"
)

// Кастомный тип для ключа контекста, чтобы избежать коллизий
type contextKey string

const userIDKey = contextKey("userID")

// AuthMiddleware извлекает userID из заголовка, проставленного API Gateway.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userIDStr := r.Header.Get("X-User-ID")
		if userIDStr == "" {
			WriteJSONError(w, http.StatusUnauthorized, "X-User-ID header is missing")
			return
		}

		userID, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil || userID <= 0 {
			WriteJSONError(w, http.StatusUnauthorized, "Invalid X-User-ID header format")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userIDFromContext достает userID, положенный AuthMiddleware
func userIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}
