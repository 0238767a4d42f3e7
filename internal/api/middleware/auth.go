package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/m04kA/DCP-BookingEngine/internal/api/handlers"
)

type contextKey string

const (
	userEmailKey contextKey = "userEmail"
	adminIDKey   contextKey = "adminID"

	// HeaderUserEmail заголовок с email пациента
	HeaderUserEmail = "X-User-Email"

	// HeaderAdminID заголовок с идентификатором администратора клиники
	HeaderAdminID = "X-Admin-ID"
)

// Auth требует наличия заголовка X-User-Email и кладет email пациента в контекст
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email := strings.TrimSpace(r.Header.Get(HeaderUserEmail))
		if email == "" {
			handlers.RespondUnauthorized(w, "отсутствует заголовок "+HeaderUserEmail)
			return
		}

		ctx := context.WithValue(r.Context(), userEmailKey, email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminAuth требует наличия заголовка X-Admin-ID и кладет идентификатор
// администратора в контекст
func AdminAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		adminID := strings.TrimSpace(r.Header.Get(HeaderAdminID))
		if adminID == "" {
			handlers.RespondUnauthorized(w, "отсутствует заголовок "+HeaderAdminID)
			return
		}

		ctx := context.WithValue(r.Context(), adminIDKey, adminID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserEmail возвращает email пациента из контекста
func GetUserEmail(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(userEmailKey).(string)
	return email, ok
}

// GetAdminID возвращает идентификатор администратора из контекста
func GetAdminID(ctx context.Context) (string, bool) {
	adminID, ok := ctx.Value(adminIDKey).(string)
	return adminID, ok
}
