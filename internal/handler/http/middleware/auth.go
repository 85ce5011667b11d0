package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/overtime-ledger-go/internal/domain/auth"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/domain/user"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/handler/http/response"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type claimsKey struct{}

// AuthRequired accepts only verified access tokens that name a user. It must
// run after jwtauth.Verifier.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}
		if token == nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		tokenType, _ := claims["type"].(string)
		userID, _ := claims["user_id"].(string)
		if tokenType != "access" || userID == "" {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		username, _ := claims["username"].(string)
		role, _ := claims["role"].(string)
		ctx := context.WithValue(r.Context(), claimsKey{}, jwt.Claims{
			UserID:   userID,
			Username: username,
			Role:     user.Role(role),
		})

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromContext returns the caller identity stored by AuthRequired.
func ClaimsFromContext(ctx context.Context) (jwt.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(jwt.Claims)
	return c, ok
}
