package middleware

import (
	"net/http"

	"github.com/dor-app/dor-backend-go/internal/domain/user"
	"github.com/dor-app/dor-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

func roleFromContext(r *http.Request) (user.Role, bool) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", false
	}
	roleStr, ok := claims["role"].(string)
	if !ok {
		return "", false
	}
	return user.Role(roleStr), true
}

// RequireManager requires manager or admin role
func RequireManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := roleFromContext(r)
		if !ok {
			response.HandleError(w, user.ErrManagerAccessRequired)
			return
		}

		if role != user.RoleManager && role != user.RoleAdmin {
			response.HandleError(w, user.ErrManagerAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireAdmin requires admin role
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := roleFromContext(r)
		if !ok {
			response.HandleError(w, user.ErrAdminAccessRequired)
			return
		}

		if role != user.RoleAdmin {
			response.HandleError(w, user.ErrAdminAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
