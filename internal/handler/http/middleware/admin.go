package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/overtime-ledger-go/internal/domain/auth"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/domain/user"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/handler/http/response"
)

// AdminOnly rejects callers whose role is not admin. It must run after
// AuthRequired.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		if claims.Role != user.RoleAdmin {
			response.HandleError(w, user.ErrAdminPrivilegeRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
