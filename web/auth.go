package web

import (
	"net/http"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"

	"schoolManager/database"
)

// Sessions are stateless signed tokens: nothing is kept server-side,
// the claims carry the already-authenticated account id and role.
func newTokenAuth(secret string) *jwtauth.JWTAuth {
	return jwtauth.New("HS256", []byte(secret), nil)
}

func (s *Server) generateToken(user *database.AccountSummary) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"name":    user.Name,
		"role":    user.Role,
		"exp":     time.Now().Add(s.tokenTTL).Unix(),
		"iat":     time.Now().Unix(),
	}
	_, tokenString, err := s.tokenAuth.Encode(claims)
	return tokenString, err
}

func claimUserID(claims map[string]interface{}) int64 {
	if v, ok := claims["user_id"].(float64); ok {
		return int64(v)
	}
	return 0
}

func claimRole(claims map[string]interface{}) string {
	if v, ok := claims["role"].(string); ok {
		return v
	}
	return ""
}

// requireRole gates a route subtree on the role claim of the verified
// token.
func requireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || claimRole(claims) != role {
				respondWithError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
