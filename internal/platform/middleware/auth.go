package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"guesense/pkg/requestcontext"
)

// OperatorClaims are the claims the auth service puts in operator tokens.
// This core trusts the verified identity and applies no policy of its own.
type OperatorClaims struct {
	OperatorID string `json:"operator_id"`
	jwt.RegisteredClaims
}

// TokenVerifier validates bearer tokens issued by the external auth service.
type TokenVerifier struct {
	signingKey []byte
}

func NewTokenVerifier(signingKey string) *TokenVerifier {
	return &TokenVerifier{signingKey: []byte(signingKey)}
}

// Verify parses and validates an HS256 token, returning its claims.
func (v *TokenVerifier) Verify(tokenString string) (*OperatorClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &OperatorClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return v.signingKey, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*OperatorClaims)
	if !ok || !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// RequireAuth rejects requests without a verifiable bearer token and puts
// the operator identity into the request context.
func RequireAuth(verifier *TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				unauthorized(w)
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"request_id", requestcontext.RequestID(ctx),
					"error", err,
				)
				unauthorized(w)
				return
			}

			ctx = requestcontext.WithOperatorID(ctx, claims.OperatorID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"success":false,"error":{"code":"unauthorized","message":"invalid or missing token"}}`))
}
